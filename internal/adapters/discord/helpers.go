package discord

import (
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

func userID(ic *discordgo.InteractionCreate) string {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User.ID
	}
	if ic.User != nil {
		return ic.User.ID
	}
	return ""
}

// findOpt busca la opción en el comando o dentro del subcomando.
func findOpt(ic *discordgo.InteractionCreate, name string) *discordgo.ApplicationCommandInteractionDataOption {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return nil
	}
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Name == name {
			return o
		}
		// subcommand
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			for _, so := range o.Options {
				if so.Name == name {
					return so
				}
			}
		}
	}
	return nil
}

func optStr(ic *discordgo.InteractionCreate, name string) (string, bool) {
	o := findOpt(ic, name)
	if o == nil || o.Type != discordgo.ApplicationCommandOptionString {
		return "", false
	}
	return strings.TrimSpace(o.StringValue()), true
}

// optID: valor crudo de una opción user/channel/role (siempre es el snowflake).
func optID(ic *discordgo.InteractionCreate, name string) (string, bool) {
	o := findOpt(ic, name)
	if o == nil {
		return "", false
	}
	id, ok := o.Value.(string)
	return id, ok && id != ""
}

// optUser devuelve id y nombre visible del usuario resuelto.
func optUser(ic *discordgo.InteractionCreate, name string) (id, display string, ok bool) {
	id, ok = optID(ic, name)
	if !ok {
		return "", "", false
	}
	return id, resolvedName(ic.ApplicationCommandData().Resolved, id), true
}

// resolvedName: apodo del guild > global name > username > id.
func resolvedName(res *discordgo.ApplicationCommandInteractionDataResolved, id string) string {
	if res == nil {
		return id
	}
	if m := res.Members[id]; m != nil && m.Nick != "" {
		return m.Nick
	}
	if u := res.Users[id]; u != nil {
		if u.GlobalName != "" {
			return u.GlobalName
		}
		if u.Username != "" {
			return u.Username
		}
	}
	return id
}

func subcmdName(ic *discordgo.InteractionCreate) (string, bool) {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return "", false
	}
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			return o.Name, true
		}
	}
	return "", false
}

// parseTeamButton: "team_<uuid>" → uuid
func parseTeamButton(customID string) (uuid.UUID, bool) {
	raw, ok := strings.CutPrefix(customID, teamButtonPrefix)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	return id, err == nil
}

// parseVote: "approve_add" → (true, "add")
func parseVote(customID string) (approve bool, op string, ok bool) {
	if op, ok = strings.CutPrefix(customID, "approve_"); ok {
		return true, op, op != ""
	}
	if op, ok = strings.CutPrefix(customID, "deny_"); ok {
		return false, op, op != ""
	}
	return false, "", false
}

// truncate corta en n runas, nunca a mitad de un caracter.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
