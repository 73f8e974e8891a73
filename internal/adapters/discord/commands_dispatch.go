// esta es la logica de InteractionApplicationCommand de discordgo
// aqui solo vamos a manejar logica de la interaccion del usuario y despachar a los servicios correspondientes
package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/roster-bot/internal/app/service"
	"github.com/jose-valero/roster-bot/internal/domain"
)

const (
	cmdTimeout = 12 * time.Second
	// add_coach puede quedar esperando el prompt de reemplazo
	promptCmdTimeout = replaceWindow + 30*time.Second
	// check: tracker por proxy (hasta 20s) + completion del modelo
	checkCmdTimeout = 90 * time.Second
)

// commandTimeout: presupuesto de ctx por comando; el token de la interacción dura 15 min.
func commandTimeout(name, sub string) time.Duration {
	switch {
	case name == "check":
		return checkCmdTimeout
	case name == "add_coach", sub == "add_coach":
		return promptCmdTimeout
	}
	return cmdTimeout
}

type change struct {
	op   domain.Op
	kind domain.Kind
}

var changeCommands = map[string]change{
	"add_player":    {domain.OpAdd, domain.KindPlayer},
	"remove_player": {domain.OpRemove, domain.KindPlayer},
	"add_coach":     {domain.OpAdd, domain.KindCoach},
	"remove_coach":  {domain.OpRemove, domain.KindCoach},
}

// esto es basicamente mi reciver function
func (r *Router) handleSlashCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	cmd := ic.ApplicationCommandData()
	uid := userID(ic)
	log.Info().Str("cmd", cmd.Name).Str("user_id", uid).Str("guild_id", ic.GuildID).Msg("slash")

	defer func() {
		if rec := recover(); rec != nil {
			r.fail(s, ic, cmd.Name, fmt.Errorf("panic: %v", rec))
		}
	}()
	defer step("cmd." + cmd.Name)()

	_ = DeferEphemeral(s, ic)
	sub, _ := subcmdName(ic)
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout(cmd.Name, sub))
	defer cancel()

	if cat, ok := commandAccess[cmd.Name]; ok && !r.require(ctx, s, ic, cat) {
		return
	}

	switch cmd.Name {

	//--> stats de tracker + análisis del modelo
	case "check":
		id, _ := optStr(ic, "riot_id")
		msg, err := r.lookup.Check(ctx, id)
		r.done(s, ic, cmd.Name, msg, err)

	//--> pedidos que pasan por votación de staff
	case "add_player", "remove_player", "add_coach", "remove_coach":
		r.requestChange(ctx, s, ic, cmd.Name)

	case "team":
		target, _, _ := optUser(ic, "discord_id")
		team, err := r.lookup.TeamOf(ctx, target)
		if errors.Is(err, domain.ErrTeamNotFound) {
			err = domain.ErrNotOnTeam
		}
		if err != nil {
			r.fail(s, ic, cmd.Name, err)
			return
		}
		ReplyEphemeral(s, ic, teamView(team))

	case "list_teams":
		teams, err := r.lookup.ListTeams(ctx)
		if err != nil {
			r.fail(s, ic, cmd.Name, err)
			return
		}
		content, comps := teamListView(teams)
		ReplyComponents(s, ic, content, comps)

	case "get_player_info":
		target, _, _ := optUser(ic, "discord_id")
		p, team, err := r.lookup.PlayerInfo(ctx, target)
		if err != nil {
			r.fail(s, ic, cmd.Name, err)
			return
		}
		ReplyEphemeral(s, ic, playerInfoView(p, team))

	//--> el propio jugador cambia su riot id
	case "update_riot_id":
		id, _ := optStr(ic, "riot_id")
		err := r.lookup.UpdateOwnGameID(ctx, uid, id)
		r.done(s, ic, cmd.Name, fmt.Sprintf("Your Riot ID has been updated to %s.", id), err)

	case "staff":
		r.handleStaff(ctx, s, ic)

	default:
		ReplyEphemeral(s, ic, "Unknown command.")
	}
}

func (r *Router) requestChange(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, name string) {
	ch := changeCommands[name]
	in := service.ChangeRequest{Op: ch.op, Kind: ch.kind, RequesterID: userID(ic)}
	in.TargetUserID, in.TargetName, _ = optUser(ic, "discord_id")
	if ch.op == domain.OpAdd {
		in.GameID, _ = optStr(ic, "riot_id")
	}

	var ask service.ReplacementPrompter
	if ch.op == domain.OpAdd && ch.kind == domain.KindCoach {
		ask = r.prompterFor(s, ic)
	}
	req, err := r.roster.Request(ctx, in, ask)
	if err != nil {
		r.fail(s, ic, name, err)
		return
	}
	ReplyEphemeral(s, ic, service.RequestSent(req))
}
