package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/roster-bot/internal/app/service"
)

const noPermission = "You do not have permission to use this command."

// require corta el comando si el usuario no tiene la categoría pedida.
func (r *Router) require(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, cat service.Category) bool {
	if r.access.Allowed(ctx, invocation(ic), cat) {
		return true
	}
	log.Info().Str("user_id", userID(ic)).Str("guild_id", ic.GuildID).Stringer("category", cat).Msg("access denied")
	ReplyEphemeral(s, ic, noPermission)
	return false
}

func invocation(ic *discordgo.InteractionCreate) service.Invocation {
	inv := service.Invocation{GuildID: ic.GuildID, ChannelID: ic.ChannelID, UserID: userID(ic)}
	if ic.Member != nil {
		inv.RoleIDs = ic.Member.Roles
	}
	return inv
}
