package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/roster-bot/internal/app/service"
)

type Router struct {
	s       *discordgo.Session
	guildID string
	ownerID string

	access *service.AccessService
	roster *service.RosterService
	staff  *service.StaffService
	lookup *service.LookupService

	collector    *collector
	clickLimiter *userLimiter
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	ownerID string,
	access *service.AccessService,
	roster *service.RosterService,
	staff *service.StaffService,
	lookup *service.LookupService,
	clock clockwork.Clock,
) *Router {
	return &Router{
		s:            s,
		guildID:      guildID,
		ownerID:      ownerID,
		access:       access,
		roster:       roster,
		staff:        staff,
		lookup:       lookup,
		collector:    newCollector(clock),
		clickLimiter: newUserLimiter(2 * time.Second),
	}
}

func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	log.Info().Int("commands", len(Commands)).Str("guild_id", r.guildID).Msg("commands registered")
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		switch ic.Type {
		case discordgo.InteractionApplicationCommand:
			r.handleSlashCommand(s, ic)
		case discordgo.InteractionMessageComponent:
			r.handleMessageComponent(s, ic)
		}
	})
}
