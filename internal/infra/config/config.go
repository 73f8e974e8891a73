package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL  string
	DiscordToken string
	DiscordGuild string

	RosterChannelID string // canal de staff donde se votan las solicitudes
	OwnerID         string // recibe los DMs de error

	ValorantAPIBaseURL string
	ValorantAPIKey     string
	ValorantRegion     string

	TrackerBaseURL string
	ProxyURL       string
	ProxyUsername  string
	ProxyPassword  string

	OpenAIKey    string
	OpenAIModel  string
	OpenAIPrompt string

	// roles fijos de la liga
	SeasonRoleID  string
	CoachRoleID   string
	CaptainRoleID string
	ManagerRoleID string

	// override tier→emoji, ej. "12:<:gold1:123>,13:<:gold2:456>"
	RankEmojis string

	AccessConfigPath string
	Access           Access

	LogLevel      string
	LogDir        string
	SweepInterval time.Duration
}

func Load() (Config, error) {
	var missing []error
	get := func(k string, req bool) string {
		v := strings.TrimSpace(os.Getenv(k))
		if v == "" && req {
			missing = append(missing, fmt.Errorf("faltante env %s", k))
		}
		return v
	}
	def := func(k, fallback string) string {
		if v := get(k, false); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		DatabaseURL:     get("DATABASE_URL", true),
		DiscordToken:    get("DISCORD_BOT_TOKEN", true),
		DiscordGuild:    get("DISCORD_GUILD_ID", true),
		RosterChannelID: get("ROSTER_CHANNEL_ID", true),
		OwnerID:         get("BOT_OWNER_ID", true),

		ValorantAPIBaseURL: def("VALORANT_API_BASE_URL", "https://api.henrikdev.xyz/valorant"),
		ValorantAPIKey:     get("VALORANT_API_KEY", false),
		ValorantRegion:     def("VALORANT_REGION", "na"),

		TrackerBaseURL: get("TRACKER_BASE_URL", false),
		ProxyURL:       get("PROXY_URL", false),
		ProxyUsername:  get("PROXY_USERNAME", false),
		ProxyPassword:  get("PROXY_PASSWORD", false),

		OpenAIKey:    get("OPENAI_API_KEY", false),
		OpenAIModel:  def("OPENAI_MODEL", "gpt-4o"),
		OpenAIPrompt: get("OPENAI_PROMPT", false),

		SeasonRoleID:  get("SEASON_ROLE", false),
		CoachRoleID:   get("COACH_ROLE", false),
		CaptainRoleID: get("CAPTAIN_ROLE", false),
		ManagerRoleID: get("MANAGER_ROLE", false),

		RankEmojis: get("RANK_EMOJIS", false),

		AccessConfigPath: def("ACCESS_CONFIG", "access.yaml"),
		LogLevel:         def("LOG_LEVEL", "info"),
		LogDir:           get("LOG_DIR", false),
		SweepInterval:    time.Minute,
	}

	if v := get("SWEEP_INTERVAL_SECONDS", false); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec <= 0 {
			missing = append(missing, fmt.Errorf("SWEEP_INTERVAL_SECONDS inválido: %q", v))
		} else {
			cfg.SweepInterval = time.Duration(sec) * time.Second
		}
	}
	if len(missing) > 0 {
		return Config{}, errors.Join(missing...)
	}

	acc, err := LoadAccess(cfg.AccessConfigPath)
	if err != nil {
		return Config{}, err
	}
	// defaults del env si el yaml no los trae
	if acc.HomeGuildID == "" {
		acc.HomeGuildID = cfg.DiscordGuild
	}
	if acc.OwnerID == "" {
		acc.OwnerID = cfg.OwnerID
	}
	//--> los roles de liga que da el bot también cuentan para los permisos
	acc.CaptainRoleIDs = appendMissing(acc.CaptainRoleIDs, cfg.CaptainRoleID, cfg.ManagerRoleID)
	acc.MemberRoleIDs = appendMissing(acc.MemberRoleIDs, cfg.SeasonRoleID, cfg.CoachRoleID)
	cfg.Access = acc
	return cfg, nil
}

func appendMissing(ids []string, extra ...string) []string {
	for _, id := range extra {
		if id != "" && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}
