package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/roster-bot/internal/adapters/tracker"
	"github.com/jose-valero/roster-bot/internal/domain"
)

const (
	teamButtonPrefix = "team_"
	maxTeamButtons   = 25 // 5 filas x 5 botones
)

// teamListView: una línea por equipo y un botón team_<id> por equipo.
func teamListView(teams []domain.Team) (string, []discordgo.MessageComponent) {
	if len(teams) == 0 {
		return "No teams have been created yet.", nil
	}
	var b strings.Builder
	b.WriteString("**Teams**\n")
	for i, t := range teams {
		fmt.Fprintf(&b, "%d) **%s** · captain <@%s> · %d players, %d coaches\n", i+1, t.Name, t.CaptainID, len(t.Players), len(t.Coaches))
	}
	if len(teams) > maxTeamButtons {
		fmt.Fprintf(&b, "_Only the first %d teams have buttons._\n", maxTeamButtons)
		teams = teams[:maxTeamButtons]
	}

	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for _, t := range teams {
		row = append(row, discordgo.Button{
			Style:    discordgo.SecondaryButton,
			Label:    truncate(t.Name, 80),
			CustomID: teamButtonPrefix + t.ID.String(),
		})
		if len(row) == 5 {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}
	return b.String(), rows
}

// teamView: "Team X with captain Y has the following players: ..."
func teamView(t domain.Team) string {
	links := make([]string, 0, len(t.Players))
	for _, p := range t.Players {
		links = append(links, fmt.Sprintf("[%s](%s)", p.GameID, tracker.ProfileURL(p.GameID)))
	}
	players := "none"
	if len(links) > 0 {
		players = strings.Join(links, ", ")
	}
	out := fmt.Sprintf("Team %s with captain %s has the following players: %s", t.Name, t.CaptainName, players)
	if t.ManagerID != "" {
		out += fmt.Sprintf("\nManager: %s", t.ManagerName)
	}
	if len(t.Coaches) > 0 {
		names := make([]string, 0, len(t.Coaches))
		for _, c := range t.Coaches {
			names = append(names, fmt.Sprintf("%s (%s)", c.Name, c.GameID))
		}
		out += "\nCoaches: " + strings.Join(names, ", ")
	}
	return out
}

func playerInfoView(p domain.Player, t *domain.Team) string {
	team := "None"
	if t != nil {
		team = t.Name
	}
	return fmt.Sprintf("**%s**\nRiot ID: %s\nTeam: %s", p.Name, p.GameID, team)
}
