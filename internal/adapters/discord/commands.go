package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/roster-bot/internal/app/service"
)

func strOpt(name, desc string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionString, Name: name, Description: desc, Required: true}
}

func userOpt(name, desc string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionUser, Name: name, Description: desc, Required: true}
}

func sub(name, desc string, opts ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionSubCommand, Name: name, Description: desc, Options: opts}
}

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "check",
		Description: "Analyze a player's season stats for smurf signs",
		Options:     []*discordgo.ApplicationCommandOption{strOpt("riot_id", "Riot ID (name#tag)")},
	},
	{
		Name:        "add_player",
		Description: "Request to add a player to your team",
		Options: []*discordgo.ApplicationCommandOption{
			strOpt("riot_id", "Riot ID (name#tag)"),
			userOpt("discord_id", "Discord user of the player"),
		},
	},
	{
		Name:        "remove_player",
		Description: "Request to remove a player from your team",
		Options:     []*discordgo.ApplicationCommandOption{userOpt("discord_id", "Discord user of the player")},
	},
	{
		Name:        "add_coach",
		Description: "Request to add a coach to your team",
		Options: []*discordgo.ApplicationCommandOption{
			strOpt("riot_id", "Riot ID (name#tag)"),
			userOpt("discord_id", "Discord user of the coach"),
		},
	},
	{
		Name:        "remove_coach",
		Description: "Request to remove a coach from your team",
		Options:     []*discordgo.ApplicationCommandOption{userOpt("discord_id", "Discord user of the coach")},
	},
	{
		Name:        "team",
		Description: "Show the team of a player",
		Options:     []*discordgo.ApplicationCommandOption{userOpt("discord_id", "Discord user of the player")},
	},
	{
		Name:        "list_teams",
		Description: "List all teams",
	},
	{
		Name:        "get_player_info",
		Description: "Show a player's Riot ID and team",
		Options:     []*discordgo.ApplicationCommandOption{userOpt("discord_id", "Discord user of the player")},
	},
	{
		Name:        "update_riot_id",
		Description: "Update your own Riot ID",
		Options:     []*discordgo.ApplicationCommandOption{strOpt("riot_id", "New Riot ID (name#tag)")},
	},
	{
		Name:        "staff",
		Description: "League staff commands",
		Options: []*discordgo.ApplicationCommandOption{
			sub("create_team", "Create a team",
				strOpt("team_name", "Team name"),
				userOpt("captain_discord_id", "Captain"),
				&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionChannel, Name: "team_channel", Description: "Team channel", Required: true},
				&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionRole, Name: "team_role", Description: "Team role", Required: true},
			),
			sub("delete_team", "Delete the team of a captain", userOpt("captain_discord_id", "Captain")),
			sub("set_team_channel", "Set a team's channel",
				strOpt("team_name", "Team name"),
				&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel_id", Description: "Team channel", Required: true},
			),
			sub("set_captain", "Set a team's captain", strOpt("team_name", "Team name"), userOpt("captain_discord_id", "New captain")),
			sub("set_manager", "Set a team's manager", strOpt("team_name", "Team name"), userOpt("manager_discord_id", "New manager")),
			sub("override_add", "Add a player without approval",
				strOpt("riot_id", "Riot ID (name#tag)"),
				userOpt("player_discord_id", "Player"),
				userOpt("captain_discord_id", "Captain or manager of the team"),
			),
			sub("override_remove", "Remove a player without approval", userOpt("player_discord_id", "Player")),
			sub("update_team_info", "Rename a team and set its captain",
				strOpt("team_name", "Current team name"),
				strOpt("new_team_name", "New team name"),
				userOpt("new_captain_discord_id", "New captain"),
			),
			sub("set_team_role", "Set a team's role",
				strOpt("team_name", "Team name"),
				&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionRole, Name: "role_id", Description: "Team role", Required: true},
			),
			sub("set_riot_id", "Set a player's Riot ID", userOpt("player_discord_id", "Player"), strOpt("new_riot_id", "New Riot ID (name#tag)")),
			sub("add_coach", "Add a coach without approval",
				strOpt("team_name", "Team name"),
				strOpt("riot_id", "Riot ID (name#tag)"),
				userOpt("coach_discord_id", "Coach"),
			),
			sub("remove_coach", "Remove a coach without approval", userOpt("coach_discord_id", "Coach")),
		},
	},
}

// commandAccess: categoría por comando; lo que no está es unrestricted.
var commandAccess = map[string]service.Category{
	"check":           service.Staff,
	"staff":           service.Staff,
	"add_player":      service.CaptainOrManager,
	"remove_player":   service.CaptainOrManager,
	"add_coach":       service.CaptainOrManager,
	"remove_coach":    service.CaptainOrManager,
	"team":            service.AnyRosterMember,
	"list_teams":      service.AnyRosterMember,
	"get_player_info": service.AnyRosterMember,
	"update_riot_id":  service.AnyRosterMember,
}
