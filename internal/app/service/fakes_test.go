package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jose-valero/roster-bot/internal/domain"
)

// memStore implementa TeamStore, MemberStore y PendingStore en memoria con
// las mismas reglas condicionales que el repo de postgres.
type memStore struct {
	mu      sync.Mutex
	teams   map[uuid.UUID]domain.Team // sin roster; se arma al leer
	players map[string]domain.Member
	coaches map[string]domain.Member
	pending map[uuid.UUID]domain.PendingRequest
	roleErr error

	setMsgErr error
}

func newMemStore() *memStore {
	return &memStore{
		teams:   map[uuid.UUID]domain.Team{},
		players: map[string]domain.Member{},
		coaches: map[string]domain.Member{},
		pending: map[uuid.UUID]domain.PendingRequest{},
	}
}

func (m *memStore) seedTeam(name, captainID string) domain.Team {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := domain.Team{ID: uuid.New(), Name: name, CaptainID: captainID, CaptainName: captainID, ChannelID: "ch-" + name, RoleID: "role-" + name}
	m.teams[t.ID] = t
	return t
}

func (m *memStore) seedMember(table map[string]domain.Member, team *domain.Team, userID, gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mem := domain.Member{ID: uuid.New(), UserID: userID, Name: userID, GameID: gameID}
	if team != nil {
		id := team.ID
		mem.TeamID = &id
	}
	table[userID] = mem
}

func (m *memStore) withRoster(t domain.Team) domain.Team {
	t.Players, t.Coaches = nil, nil
	for _, p := range sortedMembers(m.players) {
		if p.TeamID != nil && *p.TeamID == t.ID {
			t.Players = append(t.Players, domain.Player{Member: p})
		}
	}
	for _, c := range sortedMembers(m.coaches) {
		if c.TeamID != nil && *c.TeamID == t.ID {
			t.Coaches = append(t.Coaches, domain.Coach{Member: c})
		}
	}
	return t
}

func sortedMembers(in map[string]domain.Member) []domain.Member {
	out := make([]domain.Member, 0, len(in))
	for _, v := range in {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (m *memStore) find(pred func(domain.Team) bool) (domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findLocked(pred)
}

func (m *memStore) findLocked(pred func(domain.Team) bool) (domain.Team, error) {
	for _, t := range m.teams {
		if pred(t) {
			return m.withRoster(t), nil
		}
	}
	return domain.Team{}, domain.ErrTeamNotFound
}

// TeamStore

func (m *memStore) Create(ctx context.Context, nt domain.NewTeam) (domain.Team, error) {
	if _, err := m.ByName(ctx, nt.Name); err == nil {
		return domain.Team{}, domain.ErrTeamExists
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t := domain.Team{ID: uuid.New(), Name: nt.Name, CaptainID: nt.CaptainID, CaptainName: nt.CaptainName, ChannelID: nt.ChannelID, RoleID: nt.RoleID}
	m.teams[t.ID] = t
	return t, nil
}

func (m *memStore) ByID(_ context.Context, id uuid.UUID) (domain.Team, error) {
	return m.find(func(t domain.Team) bool { return t.ID == id })
}

func (m *memStore) ByName(_ context.Context, name string) (domain.Team, error) {
	return m.find(func(t domain.Team) bool { return t.Name == name })
}

func (m *memStore) ByCaptainOrManager(_ context.Context, userID string) (domain.Team, error) {
	if t, err := m.find(func(t domain.Team) bool { return t.CaptainID == userID }); err == nil {
		return t, nil
	}
	return m.find(func(t domain.Team) bool { return t.ManagerID != "" && t.ManagerID == userID })
}

func (m *memStore) ByMember(ctx context.Context, userID string) (domain.Team, error) {
	m.mu.Lock()
	mem, ok := m.players[userID]
	if !ok || mem.TeamID == nil {
		mem, ok = m.coaches[userID]
	}
	m.mu.Unlock()
	if !ok || mem.TeamID == nil {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	return m.ByID(ctx, *mem.TeamID)
}

func (m *memStore) List(_ context.Context) ([]domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Team, 0, len(m.teams))
	for _, t := range m.teams {
		out = append(out, m.withRoster(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) RoleIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roleErr != nil {
		return nil, m.roleErr
	}
	var out []string
	for _, t := range m.teams {
		out = append(out, t.RoleID)
	}
	return out, nil
}

func (m *memStore) DeleteByCaptain(_ context.Context, captainID string) (domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.findLocked(func(t domain.Team) bool { return t.CaptainID == captainID })
	if err != nil {
		return domain.Team{}, err
	}
	delete(m.teams, t.ID)
	for k, p := range m.players {
		if p.TeamID != nil && *p.TeamID == t.ID {
			delete(m.players, k)
		}
	}
	for k, c := range m.coaches {
		if c.TeamID != nil && *c.TeamID == t.ID {
			c.TeamID = nil
			m.coaches[k] = c
		}
	}
	return t, nil
}

func (m *memStore) update(name string, fn func(*domain.Team)) (prev, cur domain.Team, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.findLocked(func(t domain.Team) bool { return t.Name == name })
	if err != nil {
		return prev, cur, err
	}
	raw := m.teams[p.ID]
	fn(&raw)
	m.teams[p.ID] = raw
	return p, m.withRoster(raw), nil
}

func (m *memStore) SetChannel(_ context.Context, teamName, channelID string) (domain.Team, error) {
	_, cur, err := m.update(teamName, func(t *domain.Team) { t.ChannelID = channelID })
	return cur, err
}

func (m *memStore) SetRole(_ context.Context, teamName, roleID string) (domain.Team, error) {
	_, cur, err := m.update(teamName, func(t *domain.Team) { t.RoleID = roleID })
	return cur, err
}

func (m *memStore) SetCaptain(_ context.Context, teamName, userID, name string) (domain.Team, domain.Team, error) {
	return m.update(teamName, func(t *domain.Team) { t.CaptainID, t.CaptainName = userID, name })
}

func (m *memStore) SetManager(_ context.Context, teamName, userID, name string) (domain.Team, domain.Team, error) {
	return m.update(teamName, func(t *domain.Team) { t.ManagerID, t.ManagerName = userID, name })
}

func (m *memStore) UpdateInfo(_ context.Context, teamName, newName, captainID, captainName string) (domain.Team, domain.Team, error) {
	return m.update(teamName, func(t *domain.Team) { t.Name, t.CaptainID, t.CaptainName = newName, captainID, captainName })
}

// MemberStore

func (m *memStore) Player(_ context.Context, userID string) (domain.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[userID]
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	return domain.Player{Member: p}, nil
}

func (m *memStore) Coach(_ context.Context, userID string) (domain.Coach, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coaches[userID]
	if !ok {
		return domain.Coach{}, domain.ErrCoachNotFound
	}
	return domain.Coach{Member: c}, nil
}

func (m *memStore) attachLocked(table map[string]domain.Member, teamID uuid.UUID, in domain.MemberInput) (domain.Member, error) {
	if _, ok := m.teams[teamID]; !ok {
		return domain.Member{}, domain.ErrTeamNotFound
	}
	cur, ok := table[in.UserID]
	if ok && cur.TeamID != nil {
		return domain.Member{}, domain.ErrAlreadyRostered
	}
	if !ok {
		cur = domain.Member{ID: uuid.New(), UserID: in.UserID}
	}
	id := teamID
	cur.Name, cur.GameID, cur.TeamID = in.Name, in.GameID, &id
	table[in.UserID] = cur
	return cur, nil
}

func (m *memStore) detachLocked(table map[string]domain.Member, userID string, expect uuid.NullUUID, notFound error) (domain.Member, domain.Team, error) {
	cur, ok := table[userID]
	if !ok {
		return domain.Member{}, domain.Team{}, notFound
	}
	if cur.TeamID == nil || (expect.Valid && *cur.TeamID != expect.UUID) {
		return domain.Member{}, domain.Team{}, domain.ErrNotOnTeam
	}
	t := m.teams[*cur.TeamID]
	cur.TeamID = nil
	table[userID] = cur
	return cur, t, nil
}

func (m *memStore) AttachPlayer(_ context.Context, teamID uuid.UUID, in domain.MemberInput) (domain.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.attachLocked(m.players, teamID, in)
	return domain.Player{Member: p}, err
}

func (m *memStore) AttachPlayerByLeader(ctx context.Context, leaderID string, in domain.MemberInput) (domain.Player, domain.Team, error) {
	t, err := m.ByCaptainOrManager(ctx, leaderID)
	if err != nil {
		return domain.Player{}, domain.Team{}, err
	}
	p, err := m.AttachPlayer(ctx, t.ID, in)
	if err != nil {
		return domain.Player{}, domain.Team{}, err
	}
	return p, t, nil
}

func (m *memStore) DetachPlayer(_ context.Context, userID string, expect uuid.NullUUID) (domain.Player, domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, t, err := m.detachLocked(m.players, userID, expect, domain.ErrPlayerNotFound)
	return domain.Player{Member: p}, t, err
}

func (m *memStore) AttachCoach(_ context.Context, teamID uuid.UUID, in domain.MemberInput, replaceUserID string) (domain.Coach, *domain.Coach, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var replaced *domain.Coach
	if replaceUserID != "" {
		old, _, err := m.detachLocked(m.coaches, replaceUserID, uuid.NullUUID{UUID: teamID, Valid: true}, domain.ErrCoachNotFound)
		if err != nil {
			return domain.Coach{}, nil, err
		}
		replaced = &domain.Coach{Member: old}
	}
	if n := len(m.withRoster(m.teams[teamID]).Coaches); n >= domain.MaxCoaches {
		return domain.Coach{}, nil, domain.ErrCoachLimit
	}
	c, err := m.attachLocked(m.coaches, teamID, in)
	if err != nil {
		return domain.Coach{}, nil, err
	}
	return domain.Coach{Member: c}, replaced, nil
}

func (m *memStore) DetachCoach(_ context.Context, userID string, expect uuid.NullUUID) (domain.Coach, domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, t, err := m.detachLocked(m.coaches, userID, expect, domain.ErrCoachNotFound)
	return domain.Coach{Member: c}, t, err
}

func (m *memStore) UpdateGameID(_ context.Context, userID, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, table := range []map[string]domain.Member{m.players, m.coaches} {
		if cur, ok := table[userID]; ok {
			cur.GameID = gameID
			table[userID] = cur
			return nil
		}
	}
	return domain.ErrPlayerNotFound
}

// pendingStore aparte porque Create choca con TeamStore.Create.
type pendingStore struct{ m *memStore }

func (p pendingStore) Create(_ context.Context, r domain.PendingRequest) (domain.PendingRequest, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	p.m.pending[r.ID] = r
	return r, nil
}

func (p pendingStore) SetMessage(_ context.Context, id uuid.UUID, channelID, messageID string) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if p.m.setMsgErr != nil {
		return p.m.setMsgErr
	}
	r, ok := p.m.pending[id]
	if !ok {
		return domain.ErrRequestNotFound
	}
	r.ChannelID, r.MessageID = channelID, messageID
	p.m.pending[id] = r
	return nil
}

func (p pendingStore) Resolve(_ context.Context, messageID string, to domain.RequestStatus, by string, now time.Time) (domain.PendingRequest, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	for id, r := range p.m.pending {
		if r.MessageID != messageID {
			continue
		}
		if r.Status.Terminal() || r.Expired(now) {
			return domain.PendingRequest{}, domain.ErrRequestClosed
		}
		r.Status, r.ResolvedBy, r.ResolvedAt = to, by, &now
		p.m.pending[id] = r
		return r, nil
	}
	return domain.PendingRequest{}, domain.ErrRequestNotFound
}

func (p pendingStore) Fail(_ context.Context, id uuid.UUID, reason string, now time.Time) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	r := p.m.pending[id]
	r.Status, r.Reason, r.ResolvedAt = domain.StatusFailed, reason, &now
	p.m.pending[id] = r
	return nil
}

func (p pendingStore) ExpireDue(_ context.Context, now time.Time, limit int) ([]domain.PendingRequest, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	var out []domain.PendingRequest
	for id, r := range p.m.pending {
		if len(out) == limit {
			break
		}
		if r.Status == domain.StatusPending && r.Expired(now) {
			r.Status, r.ResolvedAt = domain.StatusExpired, &now
			p.m.pending[id] = r
			out = append(out, r)
		}
	}
	return out, nil
}

func (p pendingStore) only() domain.PendingRequest {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	for _, r := range p.m.pending {
		return r
	}
	return domain.PendingRequest{}
}

// fakeRanks: los ids en invalid no existen.
type fakeRanks struct {
	invalid map[string]bool
	rankErr error
}

func (f fakeRanks) Verify(_ context.Context, gameID string) error {
	if _, _, err := domain.SplitGameID(gameID); err != nil {
		return err
	}
	if f.invalid[gameID] {
		return domain.ErrInvalidGameID
	}
	return nil
}

func (f fakeRanks) Rank(_ context.Context, _ string) (domain.RankSummary, error) {
	if f.rankErr != nil {
		return domain.RankSummary{}, f.rankErr
	}
	return domain.RankSummary{Current: "Gold 2", CurrentTier: 13, Peak: "Platinum 1", PeakTier: 15}, nil
}

type closed struct{ channelID, messageID, content string }

type fakeChat struct {
	mu       sync.Mutex
	cards    []ApprovalCard
	closed   []closed
	notices  map[string][]string
	granted  map[string][]string
	revoked  map[string][]string
	postErr  error
	grantErr error
	seq      int
}

func newFakeChat() *fakeChat {
	return &fakeChat{notices: map[string][]string{}, granted: map[string][]string{}, revoked: map[string][]string{}}
}

func (f *fakeChat) PostApproval(_ context.Context, card ApprovalCard) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postErr != nil {
		return "", "", f.postErr
	}
	f.seq++
	f.cards = append(f.cards, card)
	return "roster", fmt.Sprintf("msg-%d", f.seq), nil
}

func (f *fakeChat) CloseApproval(_ context.Context, channelID, messageID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, closed{channelID, messageID, content})
	return nil
}

func (f *fakeChat) Notify(_ context.Context, channelID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices[channelID] = append(f.notices[channelID], content)
	return nil
}

func (f *fakeChat) GrantRoles(_ context.Context, userID string, roleIDs ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.grantErr != nil {
		return f.grantErr
	}
	f.granted[userID] = append(f.granted[userID], roleIDs...)
	return nil
}

func (f *fakeChat) RevokeRoles(_ context.Context, userID string, roleIDs ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[userID] = append(f.revoked[userID], roleIDs...)
	return nil
}

// fakePrompter elige el coach pick (índice) o devuelve err.
type fakePrompter struct {
	pick  int
	err   error
	asked int
}

func (f *fakePrompter) AskReplacement(_ context.Context, team domain.Team) (ReplaceChoice, error) {
	f.asked++
	if f.err != nil {
		return ReplaceChoice{}, f.err
	}
	if f.pick >= len(team.Coaches) {
		return ReplaceChoice{}, errors.New("bad pick")
	}
	return ReplaceChoice{Coach: team.Coaches[f.pick]}, nil
}

var testRoles = LeagueRoles{Season: "season", Coach: "coach", Captain: "captain", Manager: "manager"}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
