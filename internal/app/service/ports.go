package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jose-valero/roster-bot/internal/domain"
)

// Lo implementa internal/infra/storage.TeamRepo
type TeamStore interface {
	Create(ctx context.Context, nt domain.NewTeam) (domain.Team, error)
	ByID(ctx context.Context, id uuid.UUID) (domain.Team, error)
	ByName(ctx context.Context, name string) (domain.Team, error)
	ByCaptainOrManager(ctx context.Context, userID string) (domain.Team, error)
	ByMember(ctx context.Context, userID string) (domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	RoleIDs(ctx context.Context) ([]string, error)
	DeleteByCaptain(ctx context.Context, captainID string) (domain.Team, error)
	SetChannel(ctx context.Context, teamName, channelID string) (domain.Team, error)
	SetRole(ctx context.Context, teamName, roleID string) (domain.Team, error)
	SetCaptain(ctx context.Context, teamName, userID, name string) (prev, cur domain.Team, err error)
	SetManager(ctx context.Context, teamName, userID, name string) (prev, cur domain.Team, err error)
	UpdateInfo(ctx context.Context, teamName, newName, captainID, captainName string) (prev, cur domain.Team, err error)
}

// Lo implementa internal/infra/storage.MemberRepo
type MemberStore interface {
	Player(ctx context.Context, userID string) (domain.Player, error)
	Coach(ctx context.Context, userID string) (domain.Coach, error)
	AttachPlayer(ctx context.Context, teamID uuid.UUID, in domain.MemberInput) (domain.Player, error)
	AttachPlayerByLeader(ctx context.Context, leaderID string, in domain.MemberInput) (domain.Player, domain.Team, error)
	DetachPlayer(ctx context.Context, userID string, expect uuid.NullUUID) (domain.Player, domain.Team, error)
	AttachCoach(ctx context.Context, teamID uuid.UUID, in domain.MemberInput, replaceUserID string) (domain.Coach, *domain.Coach, error)
	DetachCoach(ctx context.Context, userID string, expect uuid.NullUUID) (domain.Coach, domain.Team, error)
	UpdateGameID(ctx context.Context, userID, gameID string) error
}

// Lo implementa internal/infra/storage.PendingRepo
type PendingStore interface {
	Create(ctx context.Context, p domain.PendingRequest) (domain.PendingRequest, error)
	SetMessage(ctx context.Context, id uuid.UUID, channelID, messageID string) error
	Resolve(ctx context.Context, messageID string, to domain.RequestStatus, by string, now time.Time) (domain.PendingRequest, error)
	Fail(ctx context.Context, id uuid.UUID, reason string, now time.Time) error
	ExpireDue(ctx context.Context, now time.Time, limit int) ([]domain.PendingRequest, error)
}

// Lo implementa internal/adapters/valorant.Client
type RankLookup interface {
	Verify(ctx context.Context, gameID string) error
	Rank(ctx context.Context, gameID string) (domain.RankSummary, error)
}

// Lo implementa internal/adapters/tracker.Client
type StatsLookup interface {
	SeasonReport(ctx context.Context, gameID string) ([]domain.ActStats, error)
}

// Lo implementa internal/adapters/llm.Analyzer
type Analyzer interface {
	Analyze(ctx context.Context, stats []domain.ActStats) (string, error)
}

// ApprovalCard es lo que se publica en el canal de staff para votar.
type ApprovalCard struct {
	Request  domain.PendingRequest
	Rank     *domain.RankSummary // nil si el lookup falló
	Replaces *domain.Coach
}

// Lo implementa internal/adapters/discord.Platform
type ChatPlatform interface {
	PostApproval(ctx context.Context, card ApprovalCard) (channelID, messageID string, err error)
	CloseApproval(ctx context.Context, channelID, messageID, content string) error
	Notify(ctx context.Context, channelID, content string) error
	GrantRoles(ctx context.Context, userID string, roleIDs ...string) error
	RevokeRoles(ctx context.Context, userID string, roleIDs ...string) error
}

// ReplaceChoice es el resultado del prompt de reemplazo de coach.
type ReplaceChoice struct {
	Coach domain.Coach
}

// ReplacementPrompter muestra el "Coach Replacement" al que invocó y espera su click.
// Devuelve domain.ErrReplaceCancelled o domain.ErrReplaceTimeout si no hay elección.
// Es por interacción: el adapter de discord arma uno por comando.
type ReplacementPrompter interface {
	AskReplacement(ctx context.Context, team domain.Team) (ReplaceChoice, error)
}

// Roles fijos de la liga (IDs).
type LeagueRoles struct {
	Season  string
	Coach   string
	Captain string
	Manager string
}

// memberRoles: roles que da/quita estar en un equipo según el tipo de miembro.
func (r LeagueRoles) memberRoles(team domain.Team, kind domain.Kind) []string {
	roles := []string{team.RoleID, r.Season}
	if kind == domain.KindCoach {
		roles = append(roles, r.Coach)
	}
	return roles
}
