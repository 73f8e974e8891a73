package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	discordrouter "github.com/jose-valero/roster-bot/internal/adapters/discord"
	"github.com/jose-valero/roster-bot/internal/adapters/llm"
	"github.com/jose-valero/roster-bot/internal/adapters/tracker"
	"github.com/jose-valero/roster-bot/internal/adapters/valorant"
	"github.com/jose-valero/roster-bot/internal/app/service"
	"github.com/jose-valero/roster-bot/internal/infra/config"
	"github.com/jose-valero/roster-bot/internal/infra/logging"
	"github.com/jose-valero/roster-bot/internal/infra/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	closeLogs, err := logging.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		log.Fatal().Err(err).Msg("logging")
	}
	defer closeLogs()

	// DB
	db, err := storage.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db open")
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	log.Info().Msg("✅ DB lista y migrada")

	// Repos
	teamRepo := storage.NewTeamRepo(db)
	memberRepo := storage.NewMemberRepo(db)
	pendingRepo := storage.NewPendingRepo(db)

	// APIs externas
	ranks := valorant.New(cfg.ValorantAPIKey,
		valorant.WithBaseURL(cfg.ValorantAPIBaseURL),
		valorant.WithRegion(cfg.ValorantRegion),
	)
	stats, err := tracker.New(cfg.TrackerBaseURL, tracker.WithProxy(cfg.ProxyURL, cfg.ProxyUsername, cfg.ProxyPassword))
	if err != nil {
		log.Fatal().Err(err).Msg("tracker client")
	}
	analyzer := llm.New(cfg.OpenAIKey, llm.WithModel(cfg.OpenAIModel), llm.WithPrompt(cfg.OpenAIPrompt))

	// Discord session
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal().Err(err).Msg("discord session")
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	badges := discordrouter.NewRankBadges(cfg.RankEmojis)
	platform := discordrouter.NewPlatform(s, cfg.DiscordGuild, cfg.RosterChannelID, badges)
	roles := service.LeagueRoles{
		Season:  cfg.SeasonRoleID,
		Coach:   cfg.CoachRoleID,
		Captain: cfg.CaptainRoleID,
		Manager: cfg.ManagerRoleID,
	}
	clock := clockwork.NewRealClock()

	// Services
	accessSvc := service.NewAccessService(accessPolicy(cfg), teamRepo)
	rosterSvc := service.NewRosterService(teamRepo, memberRepo, pendingRepo, ranks, platform, roles, clock)
	staffSvc := service.NewStaffService(teamRepo, memberRepo, ranks, platform, roles)
	lookupSvc := service.NewLookupService(teamRepo, memberRepo, ranks, stats, analyzer)

	// Router
	r := discordrouter.NewRouter(s, cfg.DiscordGuild, cfg.OwnerID, accessSvc, rosterSvc, staffSvc, lookupSvc, clock)
	r.Handlers()

	if err := s.Open(); err != nil {
		log.Fatal().Err(err).Msg("discord open")
	}
	defer s.Close()
	log.Info().Str("user", s.State.User.Username).Str("user_id", s.State.User.ID).Msg("✅ conectado")

	if err := r.Register(); err != nil {
		log.Fatal().Err(err).Msg("registrando comandos")
	}
	n := badges.Discover(s, cfg.DiscordGuild)
	log.Info().Int("rank_emojis", n).Msg("emojis de rango")

	// Sweeper de solicitudes vencidas
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		service.NewSweeper(rosterSvc, clock, cfg.SweepInterval).Run(ctx)
	}()

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info().Msg("apagando")
	cancel()
	<-done
}

// accessPolicy: config.Load ya sumó los roles de liga a los de captain y miembro.
func accessPolicy(cfg config.Config) service.AccessPolicy {
	return service.AccessPolicy{
		HomeGuildID:       cfg.Access.HomeGuildID,
		OwnerID:           cfg.Access.OwnerID,
		AllowedChannelIDs: cfg.Access.AllowedChannelIDs,
		StaffRoleIDs:      cfg.Access.StaffRoleIDs,
		CaptainRoleIDs:    cfg.Access.CaptainRoleIDs,
		MemberRoleIDs:     cfg.Access.MemberRoleIDs,
	}
}
