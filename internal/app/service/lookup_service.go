package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/roster-bot/internal/domain"
)

// LookupService: consultas (check, team, list_teams, get_player_info) y update_riot_id.
type LookupService struct {
	teams    TeamStore
	members  MemberStore
	ranks    RankLookup
	stats    StatsLookup
	analyzer Analyzer
}

func NewLookupService(teams TeamStore, members MemberStore, ranks RankLookup, stats StatsLookup, analyzer Analyzer) *LookupService {
	return &LookupService{teams: teams, members: members, ranks: ranks, stats: stats, analyzer: analyzer}
}

// Check trae las stats por acto y se las pasa al modelo para el análisis de smurf.
func (s *LookupService) Check(ctx context.Context, gameID string) (string, error) {
	if _, _, err := domain.SplitGameID(gameID); err != nil {
		return "", err
	}
	stats, err := s.stats.SeasonReport(ctx, gameID)
	if err != nil {
		return "", err
	}
	analysis, err := s.analyzer.Analyze(ctx, stats)
	if err != nil {
		return "", err
	}
	log.Debug().Str("game_id", gameID).Int("acts", len(stats)).Msg("check analyzed")
	return fmt.Sprintf("Analysis of %s:\n%s", gameID, analysis), nil
}

// TeamOf: equipo del usuario (como jugador o coach) con su roster.
func (s *LookupService) TeamOf(ctx context.Context, userID string) (domain.Team, error) {
	return s.teams.ByMember(ctx, userID)
}

func (s *LookupService) Team(ctx context.Context, id uuid.UUID) (domain.Team, error) {
	return s.teams.ByID(ctx, id)
}

func (s *LookupService) ListTeams(ctx context.Context) ([]domain.Team, error) {
	return s.teams.List(ctx)
}

// PlayerInfo devuelve el jugador y su equipo (nil si no tiene).
func (s *LookupService) PlayerInfo(ctx context.Context, userID string) (domain.Player, *domain.Team, error) {
	p, err := s.members.Player(ctx, userID)
	if err != nil {
		return domain.Player{}, nil, err
	}
	if !p.OnTeam() {
		return p, nil, nil
	}
	t, err := s.teams.ByID(ctx, *p.TeamID)
	if domain.IsNotFound(err) {
		return p, nil, nil
	}
	if err != nil {
		return domain.Player{}, nil, err
	}
	return p, &t, nil
}

// UpdateOwnGameID: el propio jugador (o coach) cambia su Riot ID.
func (s *LookupService) UpdateOwnGameID(ctx context.Context, userID, gameID string) error {
	if err := s.ranks.Verify(ctx, gameID); err != nil {
		return err
	}
	return s.members.UpdateGameID(ctx, userID, gameID)
}
