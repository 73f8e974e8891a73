package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jose-valero/roster-bot/internal/domain"
)

// StaffService: comandos de staff que cambian el roster sin pasar por votación.
type StaffService struct {
	teams   TeamStore
	members MemberStore
	ranks   RankLookup
	chat    ChatPlatform
	roles   LeagueRoles
}

func NewStaffService(teams TeamStore, members MemberStore, ranks RankLookup, chat ChatPlatform, roles LeagueRoles) *StaffService {
	return &StaffService{teams: teams, members: members, ranks: ranks, chat: chat, roles: roles}
}

// CoachResult es lo que devuelve add_coach de staff.
type CoachResult struct {
	Team     domain.Team
	Coach    domain.Coach
	Replaced *domain.Coach
}

// Roles que tiene un captain o manager por serlo.
func (s *StaffService) leaderRoles(team domain.Team, leaderRole string) []string {
	return []string{team.RoleID, leaderRole, s.roles.Season}
}

func (s *StaffService) CreateTeam(ctx context.Context, nt domain.NewTeam) (domain.Team, error) {
	team, err := s.teams.Create(ctx, nt)
	if err != nil {
		return domain.Team{}, err
	}
	log.Info().Str("team", team.Name).Str("captain", team.CaptainID).Msg("team created")
	return team, syncRoles(ctx, s.chat, grant(team.CaptainID, s.leaderRoles(team, s.roles.Captain)...))
}

// DeleteTeam borra el equipo del captain y limpia los roles de todo el roster que tenía.
func (s *StaffService) DeleteTeam(ctx context.Context, captainID string) (domain.Team, error) {
	team, err := s.teams.DeleteByCaptain(ctx, captainID)
	if err != nil {
		return domain.Team{}, err
	}
	changes := []roleChange{
		revoke(team.CaptainID, s.leaderRoles(team, s.roles.Captain)...),
		revoke(team.ManagerID, s.leaderRoles(team, s.roles.Manager)...),
	}
	for _, p := range team.Players {
		changes = append(changes, revoke(p.UserID, s.roles.memberRoles(team, domain.KindPlayer)...))
	}
	for _, c := range team.Coaches {
		changes = append(changes, revoke(c.UserID, s.roles.memberRoles(team, domain.KindCoach)...))
	}
	log.Info().Str("team", team.Name).Int("players", len(team.Players)).Int("coaches", len(team.Coaches)).Msg("team deleted")
	return team, syncRoles(ctx, s.chat, changes...)
}

func (s *StaffService) SetTeamChannel(ctx context.Context, teamName, channelID string) (domain.Team, error) {
	return s.teams.SetChannel(ctx, teamName, channelID)
}

func (s *StaffService) SetTeamRole(ctx context.Context, teamName, roleID string) (domain.Team, error) {
	return s.teams.SetRole(ctx, teamName, roleID)
}

func (s *StaffService) SetCaptain(ctx context.Context, teamName, userID, name string) (domain.Team, error) {
	prev, cur, err := s.teams.SetCaptain(ctx, teamName, userID, name)
	if err != nil {
		return domain.Team{}, err
	}
	return cur, syncRoles(ctx, s.chat, s.swapLeader(prev.CaptainID, cur.CaptainID, prev, cur, s.roles.Captain)...)
}

func (s *StaffService) SetManager(ctx context.Context, teamName, userID, name string) (domain.Team, error) {
	if s.roles.Manager == "" {
		return domain.Team{}, fmt.Errorf("manager role: %w", domain.ErrRoleNotFound)
	}
	prev, cur, err := s.teams.SetManager(ctx, teamName, userID, name)
	if err != nil {
		return domain.Team{}, err
	}
	return cur, syncRoles(ctx, s.chat, s.swapLeader(prev.ManagerID, cur.ManagerID, prev, cur, s.roles.Manager)...)
}

// UpdateTeamInfo renombra y cambia el captain en un solo paso.
func (s *StaffService) UpdateTeamInfo(ctx context.Context, teamName, newName, captainID, captainName string) (domain.Team, error) {
	prev, cur, err := s.teams.UpdateInfo(ctx, teamName, newName, captainID, captainName)
	if err != nil {
		return domain.Team{}, err
	}
	return cur, syncRoles(ctx, s.chat, s.swapLeader(prev.CaptainID, cur.CaptainID, prev, cur, s.roles.Captain)...)
}

func (s *StaffService) swapLeader(oldID, newID string, prev, cur domain.Team, leaderRole string) []roleChange {
	if oldID == newID {
		return nil
	}
	return []roleChange{
		revoke(oldID, s.leaderRoles(prev, leaderRole)...),
		grant(newID, s.leaderRoles(cur, leaderRole)...),
	}
}

// OverrideAdd agrega directo al equipo del captain/manager leaderID.
func (s *StaffService) OverrideAdd(ctx context.Context, leaderID string, in domain.MemberInput) (domain.Player, domain.Team, error) {
	if err := s.ranks.Verify(ctx, in.GameID); err != nil {
		return domain.Player{}, domain.Team{}, err
	}
	p, team, err := s.members.AttachPlayerByLeader(ctx, leaderID, in)
	if err != nil {
		return domain.Player{}, domain.Team{}, err
	}
	log.Info().Str("team", team.Name).Str("user_id", in.UserID).Msg("override add")
	return p, team, syncRoles(ctx, s.chat, grant(in.UserID, s.roles.memberRoles(team, domain.KindPlayer)...))
}

func (s *StaffService) OverrideRemove(ctx context.Context, userID string) (domain.Player, domain.Team, error) {
	p, team, err := s.members.DetachPlayer(ctx, userID, uuid.NullUUID{})
	if err != nil {
		return domain.Player{}, domain.Team{}, err
	}
	log.Info().Str("team", team.Name).Str("user_id", userID).Msg("override remove")
	return p, team, syncRoles(ctx, s.chat, revoke(userID, s.roles.memberRoles(team, domain.KindPlayer)...))
}

func (s *StaffService) SetGameID(ctx context.Context, userID, gameID string) error {
	if err := s.ranks.Verify(ctx, gameID); err != nil {
		return err
	}
	return s.members.UpdateGameID(ctx, userID, gameID)
}

// AddCoach (staff) aplica el cambio sin votación. Con el cupo lleno pregunta a quién reemplazar.
func (s *StaffService) AddCoach(ctx context.Context, teamName string, in domain.MemberInput, ask ReplacementPrompter) (CoachResult, error) {
	if err := s.ranks.Verify(ctx, in.GameID); err != nil {
		return CoachResult{}, err
	}
	team, err := s.teams.ByName(ctx, teamName)
	if err != nil {
		return CoachResult{}, err
	}
	if c, err := s.members.Coach(ctx, in.UserID); err == nil && c.OnTeam() {
		return CoachResult{}, domain.ErrAlreadyRostered
	} else if err != nil && !domain.IsNotFound(err) {
		return CoachResult{}, err
	}

	replace := ""
	if team.CoachesFull() {
		if ask == nil {
			return CoachResult{}, domain.ErrCoachLimit
		}
		choice, err := ask.AskReplacement(ctx, team)
		if err != nil {
			return CoachResult{}, err
		}
		replace = choice.Coach.UserID
	}

	coach, replaced, err := s.members.AttachCoach(ctx, team.ID, in, replace)
	if err != nil {
		return CoachResult{}, err
	}
	roles := s.roles.memberRoles(team, domain.KindCoach)
	changes := []roleChange{grant(in.UserID, roles...)}
	notice := fmt.Sprintf("%s has been added as a coach to the team.", coach.Name)
	if replaced != nil {
		changes = append([]roleChange{revoke(replaced.UserID, roles...)}, changes...)
		notice = ReplacedNotice(replaced.Name, coach.Name)
	}
	roleErr := syncRoles(ctx, s.chat, changes...)
	if err := notify(ctx, s.chat, team.ChannelID, notice); err != nil {
		log.Warn().Err(err).Str("team", team.Name).Msg("team notice failed")
	}
	log.Info().Str("team", team.Name).Str("user_id", in.UserID).Bool("replaced", replaced != nil).Msg("coach added")
	return CoachResult{Team: team, Coach: coach, Replaced: replaced}, roleErr
}

func (s *StaffService) RemoveCoach(ctx context.Context, userID string) (domain.Coach, domain.Team, error) {
	c, team, err := s.members.DetachCoach(ctx, userID, uuid.NullUUID{})
	if err != nil {
		return domain.Coach{}, domain.Team{}, err
	}
	roleErr := syncRoles(ctx, s.chat, revoke(userID, s.roles.memberRoles(team, domain.KindCoach)...))
	if err := notify(ctx, s.chat, team.ChannelID, fmt.Sprintf("%s has been removed as a coach from the team.", c.Name)); err != nil {
		log.Warn().Err(err).Str("team", team.Name).Msg("team notice failed")
	}
	log.Info().Str("team", team.Name).Str("user_id", userID).Msg("coach removed")
	return c, team, roleErr
}
