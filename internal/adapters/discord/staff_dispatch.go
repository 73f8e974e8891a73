package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/roster-bot/internal/domain"
)

// handleStaff: subcomandos de /staff. El acceso ya se validó en el dispatch.
func (r *Router) handleStaff(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	name, ok := subcmdName(ic)
	if !ok {
		ReplyEphemeral(s, ic, "Use one of the `/staff` subcommands.")
		return
	}
	cmd := "staff " + name
	teamName, _ := optStr(ic, "team_name")

	switch name {
	case "create_team":
		capID, capName, _ := optUser(ic, "captain_discord_id")
		channelID, _ := optID(ic, "team_channel")
		roleID, _ := optID(ic, "team_role")
		team, err := r.staff.CreateTeam(ctx, domain.NewTeam{Name: teamName, CaptainID: capID, CaptainName: capName, ChannelID: channelID, RoleID: roleID})
		r.done(s, ic, cmd, fmt.Sprintf("Team %s has been created with captain <@%s>.", team.Name, team.CaptainID), err)

	case "delete_team":
		capID, _, _ := optUser(ic, "captain_discord_id")
		team, err := r.staff.DeleteTeam(ctx, capID)
		if errors.Is(err, domain.ErrTeamNotFound) {
			ReplyEphemeral(s, ic, "That user is not the captain of any team.")
			return
		}
		r.done(s, ic, cmd, fmt.Sprintf("Team %s has been deleted. %d players were removed.", team.Name, len(team.Players)), err)

	case "set_team_channel":
		channelID, _ := optID(ic, "channel_id")
		team, err := r.staff.SetTeamChannel(ctx, teamName, channelID)
		r.staffDone(s, ic, cmd, teamName, fmt.Sprintf("Team channel for %s has been set to <#%s>.", team.Name, team.ChannelID), err)

	case "set_team_role":
		roleID, _ := optID(ic, "role_id")
		team, err := r.staff.SetTeamRole(ctx, teamName, roleID)
		r.staffDone(s, ic, cmd, teamName, fmt.Sprintf("Team role for %s has been set to <@&%s>.", team.Name, team.RoleID), err)

	case "set_captain":
		id, uname, _ := optUser(ic, "captain_discord_id")
		team, err := r.staff.SetCaptain(ctx, teamName, id, uname)
		r.staffDone(s, ic, cmd, teamName, fmt.Sprintf("Captain for %s has been set to <@%s>.", team.Name, id), err)

	case "set_manager":
		id, uname, _ := optUser(ic, "manager_discord_id")
		team, err := r.staff.SetManager(ctx, teamName, id, uname)
		r.staffDone(s, ic, cmd, teamName, fmt.Sprintf("Manager for %s has been set to <@%s>.", team.Name, id), err)

	case "update_team_info":
		newName, _ := optStr(ic, "new_team_name")
		id, uname, _ := optUser(ic, "new_captain_discord_id")
		team, err := r.staff.UpdateTeamInfo(ctx, teamName, newName, id, uname)
		r.staffDone(s, ic, cmd, teamName, fmt.Sprintf("Team %s has been updated: name %s, captain <@%s>.", teamName, team.Name, id), err)

	case "override_add":
		gameID, _ := optStr(ic, "riot_id")
		pid, pname, _ := optUser(ic, "player_discord_id")
		capID, _, _ := optUser(ic, "captain_discord_id")
		p, team, err := r.staff.OverrideAdd(ctx, capID, domain.MemberInput{UserID: pid, Name: pname, GameID: gameID})
		if errors.Is(err, domain.ErrTeamNotFound) {
			ReplyEphemeral(s, ic, "That user is not a captain or manager of any team.")
			return
		}
		r.done(s, ic, cmd, fmt.Sprintf("Player %s has been added to %s.", p.GameID, team.Name), err)

	case "override_remove":
		pid, _, _ := optUser(ic, "player_discord_id")
		p, team, err := r.staff.OverrideRemove(ctx, pid)
		r.done(s, ic, cmd, fmt.Sprintf("Player %s has been removed from %s.", p.GameID, team.Name), err)

	case "set_riot_id":
		pid, _, _ := optUser(ic, "player_discord_id")
		gameID, _ := optStr(ic, "new_riot_id")
		err := r.staff.SetGameID(ctx, pid, gameID)
		r.done(s, ic, cmd, fmt.Sprintf("Riot ID for <@%s> has been updated to %s.", pid, gameID), err)

	case "add_coach":
		gameID, _ := optStr(ic, "riot_id")
		cid, cname, _ := optUser(ic, "coach_discord_id")
		res, err := r.staff.AddCoach(ctx, teamName, domain.MemberInput{UserID: cid, Name: cname, GameID: gameID}, r.prompterFor(s, ic))
		msg := fmt.Sprintf("Coach %s has been added to %s.", res.Coach.Name, res.Team.Name)
		if res.Replaced != nil {
			msg = fmt.Sprintf("%s has been replaced with %s on %s.", res.Replaced.Name, res.Coach.Name, res.Team.Name)
		}
		r.staffDone(s, ic, cmd, teamName, msg, err)

	case "remove_coach":
		cid, _, _ := optUser(ic, "coach_discord_id")
		c, team, err := r.staff.RemoveCoach(ctx, cid)
		r.done(s, ic, cmd, fmt.Sprintf("Coach %s has been removed from %s.", c.Name, team.Name), err)

	default:
		ReplyEphemeral(s, ic, "Unknown staff command.")
	}
}

// staffDone: como done pero con "Team X not found." cuando se buscó por nombre.
func (r *Router) staffDone(s *discordgo.Session, ic *discordgo.InteractionCreate, cmd, teamName, msg string, err error) {
	if errors.Is(err, domain.ErrTeamNotFound) {
		ReplyEphemeral(s, ic, fmt.Sprintf("Team %s not found.", teamName))
		return
	}
	r.done(s, ic, cmd, msg, err)
}
