package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/roster-bot/internal/domain"
)

// ExpiredNotice es el texto con el que se cierra una tarjeta sin votos.
const ExpiredNotice = "No votes received. The request has been closed."

// cuántas filas vencidas procesamos por pasada del sweeper
const expireBatch = 100

// ChangeRequest es lo que pide un capitán/manager desde add/remove_player o add/remove_coach.
type ChangeRequest struct {
	Op           domain.Op
	Kind         domain.Kind
	RequesterID  string
	TargetUserID string
	TargetName   string
	GameID       string // sólo para add; en remove se toma del registro
}

// Resolution es el resultado de un click approve/deny.
type Resolution struct {
	State   domain.RequestStatus
	Request domain.PendingRequest
	Message string // texto con el que quedó la tarjeta
}

type RosterService struct {
	teams   TeamStore
	members MemberStore
	pending PendingStore
	ranks   RankLookup
	chat    ChatPlatform
	roles   LeagueRoles
	clock   clockwork.Clock
	window  time.Duration
}

func NewRosterService(teams TeamStore, members MemberStore, pending PendingStore, ranks RankLookup, chat ChatPlatform, roles LeagueRoles, clock clockwork.Clock) *RosterService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RosterService{
		teams:   teams,
		members: members,
		pending: pending,
		ranks:   ranks,
		chat:    chat,
		roles:   roles,
		clock:   clock,
		window:  domain.ApprovalWindow,
	}
}

// Request valida, persiste el pedido y publica la tarjeta de aprobación.
// ask sólo se usa para agregar un coach con el cupo lleno; puede ser nil en el resto.
func (s *RosterService) Request(ctx context.Context, in ChangeRequest, ask ReplacementPrompter) (domain.PendingRequest, error) {
	req := domain.PendingRequest{
		ID:           uuid.New(),
		Op:           in.Op,
		Kind:         in.Kind,
		RequesterID:  in.RequesterID,
		TargetUserID: in.TargetUserID,
		TargetName:   in.TargetName,
		GameID:       in.GameID,
		Status:       domain.StatusPending,
	}

	var team domain.Team
	var replaces *domain.Coach
	var err error
	switch in.Op {
	case domain.OpAdd:
		team, replaces, err = s.validateAdd(ctx, in, ask)
	case domain.OpRemove:
		team, err = s.validateRemove(ctx, in, &req)
	default:
		err = fmt.Errorf("unknown op %q", in.Op)
	}
	if err != nil {
		return domain.PendingRequest{}, err
	}

	now := s.clock.Now()
	req.TeamID = team.ID
	req.TeamName = team.Name
	req.CreatedAt = now
	req.ExpiresAt = now.Add(s.window)
	if replaces != nil {
		req.ReplacesUserID = replaces.UserID
	}

	req, err = s.pending.Create(ctx, req)
	if err != nil {
		return domain.PendingRequest{}, err
	}

	card := ApprovalCard{Request: req, Replaces: replaces}
	if rk, err := s.ranks.Rank(ctx, req.GameID); err == nil {
		card.Rank = &rk
	} else {
		log.Warn().Err(err).Str("request_id", req.ID.String()).Msg("rank lookup failed, card shows N/A")
	}

	channelID, messageID, err := s.chat.PostApproval(ctx, card)
	if err != nil {
		if ferr := s.pending.Fail(ctx, req.ID, "approval card not posted", s.clock.Now()); ferr != nil {
			log.Error().Err(ferr).Str("request_id", req.ID.String()).Msg("mark failed")
		}
		return domain.PendingRequest{}, fmt.Errorf("post approval: %w", err)
	}
	req.ChannelID, req.MessageID = channelID, messageID
	if err := s.pending.SetMessage(ctx, req.ID, channelID, messageID); err != nil {
		//--> sin message id guardado nadie puede votar ni vencer la tarjeta: se cierra acá
		const reason = "internal error"
		if ferr := s.pending.Fail(ctx, req.ID, reason, s.clock.Now()); ferr != nil {
			log.Error().Err(ferr).Str("request_id", req.ID.String()).Msg("mark failed")
		}
		s.closeCard(ctx, req, FailedCard(req, reason))
		return domain.PendingRequest{}, fmt.Errorf("store approval message: %w", err)
	}

	log.Info().
		Str("request_id", req.ID.String()).
		Str("op", string(req.Op)).
		Str("kind", string(req.Kind)).
		Str("team", req.TeamName).
		Str("message_id", messageID).
		Msg("roster request posted")
	return req, nil
}

func (s *RosterService) validateAdd(ctx context.Context, in ChangeRequest, ask ReplacementPrompter) (domain.Team, *domain.Coach, error) {
	if _, _, err := domain.SplitGameID(in.GameID); err != nil {
		return domain.Team{}, nil, err
	}
	if err := s.ranks.Verify(ctx, in.GameID); err != nil {
		return domain.Team{}, nil, err
	}
	if err := s.ensureTeamless(ctx, in.Kind, in.TargetUserID); err != nil {
		return domain.Team{}, nil, err
	}
	team, err := s.leaderTeam(ctx, in.RequesterID)
	if err != nil {
		return domain.Team{}, nil, err
	}
	if in.Kind != domain.KindCoach || !team.CoachesFull() {
		return team, nil, nil
	}
	//--> cupo de coaches lleno: el capitán elige a quién reemplaza antes de pedir aprobación
	if ask == nil {
		return domain.Team{}, nil, domain.ErrCoachLimit
	}
	choice, err := ask.AskReplacement(ctx, team)
	if err != nil {
		return domain.Team{}, nil, err
	}
	return team, &choice.Coach, nil
}

func (s *RosterService) validateRemove(ctx context.Context, in ChangeRequest, req *domain.PendingRequest) (domain.Team, error) {
	m, err := s.member(ctx, in.Kind, in.TargetUserID)
	if err != nil {
		return domain.Team{}, err
	}
	if !m.OnTeam() {
		return domain.Team{}, domain.ErrNotOnTeam
	}
	team, err := s.leaderTeam(ctx, in.RequesterID)
	if err != nil {
		return domain.Team{}, err
	}
	if *m.TeamID != team.ID {
		return domain.Team{}, fmt.Errorf("%s is on another team: %w", m.GameID, domain.ErrNotOnTeam)
	}
	req.GameID = m.GameID
	if req.TargetName == "" {
		req.TargetName = m.Name
	}
	return team, nil
}

func (s *RosterService) leaderTeam(ctx context.Context, userID string) (domain.Team, error) {
	team, err := s.teams.ByCaptainOrManager(ctx, userID)
	if errors.Is(err, domain.ErrTeamNotFound) {
		return domain.Team{}, domain.ErrNotLeader
	}
	return team, err
}

func (s *RosterService) member(ctx context.Context, kind domain.Kind, userID string) (domain.Member, error) {
	if kind == domain.KindCoach {
		c, err := s.members.Coach(ctx, userID)
		return c.Member, err
	}
	p, err := s.members.Player(ctx, userID)
	return p.Member, err
}

// ensureTeamless: si no existe el registro está libre; si existe, no puede tener equipo.
func (s *RosterService) ensureTeamless(ctx context.Context, kind domain.Kind, userID string) error {
	m, err := s.member(ctx, kind, userID)
	if domain.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if m.OnTeam() {
		return domain.ErrAlreadyRostered
	}
	return nil
}

// Resolve aplica el click sobre la tarjeta messageID. Sólo el primer click gana;
// los siguientes reciben domain.ErrRequestClosed.
func (s *RosterService) Resolve(ctx context.Context, messageID, approverID string, approve bool) (Resolution, error) {
	to := domain.StatusDenied
	if approve {
		to = domain.StatusApproved
	}
	req, err := s.pending.Resolve(ctx, messageID, to, approverID, s.clock.Now())
	if err != nil {
		return Resolution{}, err
	}
	lg := log.With().Str("request_id", req.ID.String()).Str("op", string(req.Op)).Str("team", req.TeamName).Logger()

	// el equipo puede haberse borrado mientras el pedido estaba abierto
	team, terr := s.teams.ByID(ctx, req.TeamID)
	if terr != nil && !errors.Is(terr, domain.ErrTeamNotFound) {
		lg.Warn().Err(terr).Msg("team lookup for notice failed")
	}

	if !approve {
		msg := DeniedCard(req)
		s.closeCard(ctx, req, msg)
		if err := notify(ctx, s.chat, team.ChannelID, DeniedNotice(req)); err != nil {
			lg.Warn().Err(err).Msg("team notice failed")
		}
		lg.Info().Str("by", approverID).Msg("roster request denied")
		return Resolution{State: domain.StatusDenied, Request: req, Message: msg}, nil
	}

	changes, replaced, err := s.mutate(ctx, req)
	if err != nil {
		reason := failureReason(err)
		if ferr := s.pending.Fail(ctx, req.ID, reason, s.clock.Now()); ferr != nil {
			lg.Error().Err(ferr).Msg("mark failed")
		}
		req.Status, req.Reason = domain.StatusFailed, reason
		msg := FailedCard(req, reason)
		s.closeCard(ctx, req, msg)
		res := Resolution{State: domain.StatusFailed, Request: req, Message: msg}
		if domain.IsRosterConflict(err) {
			lg.Info().Err(err).Msg("roster request could not be applied")
			return res, nil
		}
		return res, err
	}

	roleErr := syncRoles(ctx, s.chat, changes...)

	msg := ApprovedCard(req)
	s.closeCard(ctx, req, msg)
	if err := notify(ctx, s.chat, team.ChannelID, ApprovedNotice(req)); err != nil {
		lg.Warn().Err(err).Msg("team notice failed")
	}
	if replaced != nil {
		if err := notify(ctx, s.chat, team.ChannelID, ReplacedNotice(replaced.Name, req.TargetName)); err != nil {
			lg.Warn().Err(err).Msg("team notice failed")
		}
	}
	lg.Info().Str("by", approverID).Msg("roster request approved")
	return Resolution{State: domain.StatusApproved, Request: req, Message: msg}, roleErr
}

// mutate hace el cambio en el store y devuelve los cambios de roles a aplicar.
func (s *RosterService) mutate(ctx context.Context, req domain.PendingRequest) ([]roleChange, *domain.Coach, error) {
	in := domain.MemberInput{UserID: req.TargetUserID, Name: req.TargetName, GameID: req.GameID}
	expect := uuid.NullUUID{UUID: req.TeamID, Valid: true}

	switch {
	case req.Op == domain.OpAdd && req.Kind == domain.KindPlayer:
		if _, err := s.members.AttachPlayer(ctx, req.TeamID, in); err != nil {
			return nil, nil, err
		}
		team, err := s.teams.ByID(ctx, req.TeamID)
		if err != nil {
			return nil, nil, err
		}
		return []roleChange{grant(req.TargetUserID, s.roles.memberRoles(team, domain.KindPlayer)...)}, nil, nil

	case req.Op == domain.OpAdd && req.Kind == domain.KindCoach:
		_, replaced, err := s.members.AttachCoach(ctx, req.TeamID, in, req.ReplacesUserID)
		if err != nil {
			return nil, nil, err
		}
		team, err := s.teams.ByID(ctx, req.TeamID)
		if err != nil {
			return nil, nil, err
		}
		roles := s.roles.memberRoles(team, domain.KindCoach)
		var changes []roleChange
		if replaced != nil {
			changes = append(changes, revoke(replaced.UserID, roles...))
		}
		return append(changes, grant(req.TargetUserID, roles...)), replaced, nil

	case req.Op == domain.OpRemove && req.Kind == domain.KindPlayer:
		_, team, err := s.members.DetachPlayer(ctx, req.TargetUserID, expect)
		if err != nil {
			return nil, nil, err
		}
		return []roleChange{revoke(req.TargetUserID, s.roles.memberRoles(team, domain.KindPlayer)...)}, nil, nil

	case req.Op == domain.OpRemove && req.Kind == domain.KindCoach:
		_, team, err := s.members.DetachCoach(ctx, req.TargetUserID, expect)
		if err != nil {
			return nil, nil, err
		}
		return []roleChange{revoke(req.TargetUserID, s.roles.memberRoles(team, domain.KindCoach)...)}, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown request %s/%s", req.Op, req.Kind)
}

func (s *RosterService) closeCard(ctx context.Context, req domain.PendingRequest, content string) {
	if req.MessageID == "" {
		return
	}
	if err := s.chat.CloseApproval(ctx, req.ChannelID, req.MessageID, content); err != nil {
		log.Warn().Err(err).Str("request_id", req.ID.String()).Str("message_id", req.MessageID).Msg("close approval card")
	}
}

// ExpireDue cierra los pedidos vencidos. Lo llama el Sweeper.
func (s *RosterService) ExpireDue(ctx context.Context) (int, error) {
	total := 0
	for {
		due, err := s.pending.ExpireDue(ctx, s.clock.Now(), expireBatch)
		if err != nil {
			return total, err
		}
		for _, req := range due {
			s.closeCard(ctx, req, ExpiredNotice)
			log.Info().Str("request_id", req.ID.String()).Str("team", req.TeamName).Msg("roster request expired")
		}
		total += len(due)
		if len(due) < expireBatch {
			return total, nil
		}
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyRostered):
		return "already on a team"
	case errors.Is(err, domain.ErrNotOnTeam):
		return "no longer on the team"
	case errors.Is(err, domain.ErrCoachLimit):
		return "the team already has the maximum number of coaches"
	case domain.IsNotFound(err):
		return "no longer exists"
	}
	return "internal error"
}

// Textos de las tarjetas y avisos.

func joinVerb(op domain.Op) string {
	if op == domain.OpRemove {
		return "get removed from"
	}
	return "join"
}

func DeniedCard(req domain.PendingRequest) string {
	return fmt.Sprintf("%s %s has been denied to %s %s.", req.Kind.Label(), req.GameID, joinVerb(req.Op), req.TeamName)
}

func ApprovedCard(req domain.PendingRequest) string {
	return fmt.Sprintf("%s %s has been approved to %s %s. Please verify roles were updated for <@%s>",
		req.Kind.Label(), req.GameID, joinVerb(req.Op), req.TeamName, req.TargetUserID)
}

func FailedCard(req domain.PendingRequest, reason string) string {
	return fmt.Sprintf("%s %s could not %s %s: %s.", req.Kind.Label(), req.GameID, joinVerb(req.Op), req.TeamName, reason)
}

func DeniedNotice(req domain.PendingRequest) string {
	verb := "join"
	if req.Op == domain.OpRemove {
		verb = "be removed from"
	}
	return fmt.Sprintf("%s %s has been denied to %s the team. Roles have not been updated.", req.Kind.Label(), req.GameID, verb)
}

func ApprovedNotice(req domain.PendingRequest) string {
	verb := "added to"
	if req.Op == domain.OpRemove {
		verb = "removed from"
	}
	return fmt.Sprintf("%s %s has been %s the team. Roles have been updated accordingly.", req.Kind.Label(), req.GameID, verb)
}

func ReplacedNotice(oldName, newName string) string {
	return fmt.Sprintf("%s has been replaced with %s", oldName, newName)
}

// RequestSent es la respuesta efímera al capitán.
func RequestSent(req domain.PendingRequest) string {
	return fmt.Sprintf("Request to %s %s %s has been sent for approval.", req.Op, req.Kind, req.GameID)
}
