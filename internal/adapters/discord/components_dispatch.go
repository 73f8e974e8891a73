package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/roster-bot/internal/app/service"
)

func (r *Router) handleMessageComponent(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.MessageComponentData()
	uid := userID(ic)

	defer func() {
		if rec := recover(); rec != nil {
			r.fail(s, ic, data.CustomID, fmt.Errorf("panic: %v", rec))
		}
	}()

	//--> primero los prompts que alguien está esperando (reemplazo de coach)
	if ic.Message != nil {
		if handled, accepted := r.collector.deliver(ic.Message.ID, uid, data.CustomID); handled {
			if accepted {
				_ = AckUpdate(s, ic)
			} else {
				_ = SendEphemeral(s, ic, "This prompt is not for you.")
			}
			return
		}
	}
	switch data.CustomID {
	case replaceCoach1, replaceCoach2, cancelReplace:
		_ = SendEphemeral(s, ic, "This prompt has expired.")
		return
	}

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	if approve, op, ok := parseVote(data.CustomID); ok {
		r.handleVote(ctx, s, ic, approve, op)
		return
	}
	if id, ok := parseTeamButton(data.CustomID); ok {
		team, err := r.lookup.Team(ctx, id)
		if err != nil {
			r.fail(s, ic, data.CustomID, err)
			return
		}
		ReplyEphemeral(s, ic, teamView(team))
		return
	}
	log.Debug().Str("custom_id", data.CustomID).Msg("unhandled component")
}

// handleVote: approve_/deny_ sobre una tarjeta del canal de roster.
func (r *Router) handleVote(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, approve bool, op string) {
	uid := userID(ic)
	if !r.clickLimiter.Allow(uid) {
		ReplyEphemeral(s, ic, "Please wait a moment before voting again.")
		return
	}
	if !r.require(ctx, s, ic, service.Staff) {
		return
	}
	res, err := r.roster.Resolve(ctx, ic.Message.ID, uid, approve)
	log.Info().Str("message_id", ic.Message.ID).Str("op", op).Bool("approve", approve).Str("state", string(res.State)).AnErr("err", err).Msg("vote")
	r.done(s, ic, "vote "+op, res.Message, err)
}
