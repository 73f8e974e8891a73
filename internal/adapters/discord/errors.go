package discord

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/roster-bot/internal/app/service"
	"github.com/jose-valero/roster-bot/internal/domain"
)

// userMessage: texto para errores esperados; "" si es un error para el operador.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidGameID):
		return "Invalid Riot ID. Please verify the Riot ID and try again."
	case errors.Is(err, domain.ErrNotLeader):
		return "You are not a captain or manager of any team. Please have the captain or manager of your team use this command."
	case errors.Is(err, domain.ErrAlreadyRostered):
		return "Player is already on a team. You must have them request to leave the team first."
	case errors.Is(err, domain.ErrNotOnTeam):
		return "Player is not on a team."
	case errors.Is(err, domain.ErrPlayerNotFound):
		return "Player not found. Please verify you tagged the correct user."
	case errors.Is(err, domain.ErrCoachNotFound):
		return "Coach not found. Please verify you tagged the correct user."
	case errors.Is(err, domain.ErrTeamNotFound):
		return "Team not found."
	case errors.Is(err, domain.ErrTeamExists):
		return "A team with that name already exists."
	case errors.Is(err, domain.ErrCoachLimit):
		return "This team already has the maximum number of coaches."
	case errors.Is(err, domain.ErrReplaceCancelled):
		return "Coach replacement cancelled."
	case errors.Is(err, domain.ErrReplaceTimeout):
		return "No coach was selected in time. Coach replacement cancelled."
	case errors.Is(err, domain.ErrRequestClosed), errors.Is(err, domain.ErrRequestNotFound):
		return "This request is no longer open."
	case errors.Is(err, domain.ErrRoleNotFound):
		return "Role not found. Have a staff member verify the configured roles."
	case errors.Is(err, domain.ErrChannelNotFound):
		return "Channel not found."
	case errors.Is(err, domain.ErrUpstreamLookup):
		return "Could not reach the stats service. Please try again later."
	}
	return ""
}

// fail responde el error al usuario. Si no es un error esperado, avisa al owner.
func (r *Router) fail(s *discordgo.Session, ic *discordgo.InteractionCreate, cmd string, err error) {
	if msg := userMessage(err); msg != "" {
		log.Info().Err(err).Str("cmd", cmd).Str("user_id", userID(ic)).Msg("command rejected")
		ReplyEphemeral(s, ic, msg)
		return
	}
	r.reportError(s, ic, cmd, err, debug.Stack())
	ReplyEphemeral(s, ic, fmt.Sprintf("There was an error during your request. <@%s> has been notified of the error.", r.ownerID))
}

// done responde el resultado; si lo único que falló fueron roles, lo aclara y avisa al owner.
func (r *Router) done(s *discordgo.Session, ic *discordgo.InteractionCreate, cmd, msg string, err error) {
	var rse *service.RoleSyncError
	if errors.As(err, &rse) {
		r.reportError(s, ic, cmd, err, nil)
		ReplyEphemeral(s, ic, msg+"\nSome roles could not be updated. Please verify roles manually.")
		return
	}
	if err != nil {
		r.fail(s, ic, cmd, err)
		return
	}
	ReplyEphemeral(s, ic, msg)
}

// reportError: log + DM al owner con interacción, usuario y stack.
func (r *Router) reportError(s *discordgo.Session, ic *discordgo.InteractionCreate, cmd string, err error, stack []byte) {
	uid := userID(ic)
	log.Error().Err(err).Str("cmd", cmd).Str("user_id", uid).Str("interaction", ic.ID).Msg("command failed")
	if r.ownerID == "" {
		return
	}
	ch, derr := s.UserChannelCreate(r.ownerID)
	if derr != nil {
		log.Warn().Err(derr).Msg("owner DM channel")
		return
	}
	body := fmt.Sprintf("An error occurred: %v\nCommand: %s\nInteraction: %s\nUser: %s (<@%s>)", err, cmd, ic.ID, uid, uid)
	if len(stack) > 0 {
		body += "\nStack: ```" + string(stack) + "```"
	}
	if _, derr := s.ChannelMessageSend(ch.ID, truncate(body, 1990)); derr != nil {
		log.Warn().Err(derr).Msg("owner DM")
	}
}
