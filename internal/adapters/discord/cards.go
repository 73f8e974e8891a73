package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/roster-bot/internal/adapters/tracker"
	"github.com/jose-valero/roster-bot/internal/app/service"
	"github.com/jose-valero/roster-bot/internal/domain"
)

const (
	colorPending = 0xF1C40F
	colorWarn    = 0xE67E22
)

// approvalCard: embed + botones approve_{op}/deny_{op} que van al canal de roster.
func approvalCard(card service.ApprovalCard, badges *RankBadges) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	req := card.Request
	verb := "added to"
	if req.Op == domain.OpRemove {
		verb = "removed from"
	}
	desc := fmt.Sprintf("<@%s> has requested %s be %s %s", req.RequesterID, req.GameID, verb, req.TeamName)
	if req.Kind == domain.KindCoach {
		desc += " as a coach"
	}
	if card.Replaces != nil {
		desc += fmt.Sprintf(", replacing %s (%s)", card.Replaces.Name, card.Replaces.GameID)
	}

	current, peak := "N/A", "N/A"
	if card.Rank != nil {
		current = badges.Label(card.Rank.Current, card.Rank.CurrentTier)
		peak = badges.Label(card.Rank.Peak, card.Rank.PeakTier)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "# " + req.GameID,
		Description: desc,
		Color:       colorPending,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Tracker", Value: fmt.Sprintf("[%s](%s)", req.GameID, tracker.ProfileURL(req.GameID))},
			{Name: "Current Rank", Value: current, Inline: true},
			{Name: "Peak Rank", Value: peak, Inline: true},
			{Name: "Request Close Time", Value: fmt.Sprintf("<t:%d:R>", req.ExpiresAt.Unix())},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: req.Kind.Label() + " " + string(req.Op)},
	}
	comps := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Style: discordgo.SuccessButton, Label: "Approve", CustomID: "approve_" + string(req.Op)},
			discordgo.Button{Style: discordgo.DangerButton, Label: "Deny", CustomID: "deny_" + string(req.Op)},
		}},
	}
	return embed, comps
}

// replacementPrompt: "Coach Replacement" con un botón por coach y cancelar.
func replacementPrompt(team domain.Team) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	c1, c2 := team.Coaches[0], team.Coaches[1]
	embed := &discordgo.MessageEmbed{
		Title: "Coach Replacement",
		Description: fmt.Sprintf("%s already has %d coaches. Choose the coach to replace:\n1) %s (%s)\n2) %s (%s)",
			team.Name, domain.MaxCoaches, c1.Name, c1.GameID, c2.Name, c2.GameID),
		Color:  colorWarn,
		Footer: &discordgo.MessageEmbedFooter{Text: "This prompt closes in 60 seconds."},
	}
	comps := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Style: discordgo.PrimaryButton, Label: truncate("Replace "+c1.Name, 80), CustomID: replaceCoach1},
			discordgo.Button{Style: discordgo.PrimaryButton, Label: truncate("Replace "+c2.Name, 80), CustomID: replaceCoach2},
			discordgo.Button{Style: discordgo.SecondaryButton, Label: "Cancel", CustomID: cancelReplace},
		}},
	}
	return embed, comps
}
