package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/roster-bot/internal/app/service"
	"github.com/jose-valero/roster-bot/internal/domain"
)

const (
	replaceWindow = 60 * time.Second
	replaceCoach1 = "replace_coach1"
	replaceCoach2 = "replace_coach2"
	cancelReplace = "cancel_replace"
)

// replacementPrompter muestra el "Coach Replacement" como followup efímero del
// comando y espera el click del que lo invocó.
type replacementPrompter struct {
	r  *Router
	s  *discordgo.Session
	ic *discordgo.InteractionCreate
}

func (r *Router) prompterFor(s *discordgo.Session, ic *discordgo.InteractionCreate) service.ReplacementPrompter {
	return &replacementPrompter{r: r, s: s, ic: ic}
}

func (p *replacementPrompter) AskReplacement(ctx context.Context, team domain.Team) (service.ReplaceChoice, error) {
	if len(team.Coaches) < domain.MaxCoaches {
		return service.ReplaceChoice{}, fmt.Errorf("team %s has a free coach slot", team.Name)
	}
	embed, comps := replacementPrompt(team)
	defer p.r.collector.expect(userID(p.ic))()
	msg, err := p.s.FollowupMessageCreate(p.ic.Interaction, true, &discordgo.WebhookParams{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: comps,
		Flags:      discordgo.MessageFlagsEphemeral,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return service.ReplaceChoice{}, fmt.Errorf("post replacement prompt: %w", err)
	}

	out, err := p.r.collector.await(ctx, msg.ID, userID(p.ic), replaceWindow)
	if err != nil {
		return service.ReplaceChoice{}, err
	}

	var choice service.ReplaceChoice
	var result error
	switch {
	case out.TimedOut:
		result = domain.ErrReplaceTimeout
	case out.CustomID == replaceCoach1:
		choice.Coach = team.Coaches[0]
	case out.CustomID == replaceCoach2:
		choice.Coach = team.Coaches[1]
	default:
		result = domain.ErrReplaceCancelled
	}

	// sacamos los botones del prompt
	content := "Replacing " + choice.Coach.Name + "..."
	if result != nil {
		content = userMessage(result)
	}
	empty := []discordgo.MessageComponent{}
	noEmbeds := []*discordgo.MessageEmbed{}
	if _, err := p.s.FollowupMessageEdit(p.ic.Interaction, msg.ID, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &noEmbeds,
		Components: &empty,
	}); err != nil {
		log.Warn().Err(err).Str("message_id", msg.ID).Msg("close replacement prompt")
	}
	return choice, result
}
