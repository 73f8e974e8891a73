package service

import (
	"context"

	"github.com/rs/zerolog/log"
)

type Category int

const (
	Unrestricted Category = iota
	Staff
	CaptainOrManager
	AnyRosterMember
)

func (c Category) String() string {
	switch c {
	case Staff:
		return "staff"
	case CaptainOrManager:
		return "captain-or-manager"
	case AnyRosterMember:
		return "any-roster-member"
	}
	return "unrestricted"
}

// Invocation es quién/dónde invocó el comando (sale de la interacción).
type Invocation struct {
	GuildID   string
	ChannelID string
	UserID    string
	RoleIDs   []string
}

// AccessPolicy: todo por ID, resuelto al cargar la config.
type AccessPolicy struct {
	HomeGuildID       string
	OwnerID           string
	AllowedChannelIDs []string
	StaffRoleIDs      []string
	CaptainRoleIDs    []string
	MemberRoleIDs     []string
}

// Lo implementa TeamStore
type RoleSource interface {
	RoleIDs(ctx context.Context) ([]string, error)
}

type AccessService struct {
	homeGuild string
	owner     string
	channels  map[string]struct{}
	staff     map[string]struct{}
	captain   map[string]struct{} // staff ∪ captain
	member    map[string]struct{} // captain ∪ member (los roles de equipo se agregan por consulta)
	roles     RoleSource
}

func NewAccessService(p AccessPolicy, roles RoleSource) *AccessService {
	staff := toSet(p.StaffRoleIDs)
	captain := union(staff, toSet(p.CaptainRoleIDs))
	member := union(captain, toSet(p.MemberRoleIDs))
	return &AccessService{
		homeGuild: p.HomeGuildID,
		owner:     p.OwnerID,
		channels:  toSet(p.AllowedChannelIDs),
		staff:     staff,
		captain:   captain,
		member:    member,
		roles:     roles,
	}
}

// Allowed es un predicado puro: nunca falla. Si el store no responde, el set dinámico queda vacío.
func (a *AccessService) Allowed(ctx context.Context, inv Invocation, cat Category) bool {
	if cat == Unrestricted {
		return true
	}
	// fuera del guild de la liga no controlamos nada
	if a.homeGuild != "" && inv.GuildID != a.homeGuild {
		return true
	}
	if _, ok := a.channels[inv.ChannelID]; ok {
		return true
	}
	if a.owner != "" && inv.UserID == a.owner {
		return true
	}

	var permitted map[string]struct{}
	switch cat {
	case Staff:
		permitted = a.staff
	case CaptainOrManager:
		permitted = a.captain
	case AnyRosterMember:
		if hasAny(a.member, inv.RoleIDs) {
			return true
		}
		permitted = a.teamRoles(ctx)
	}
	return hasAny(permitted, inv.RoleIDs)
}

func (a *AccessService) teamRoles(ctx context.Context) map[string]struct{} {
	if a.roles == nil {
		return nil
	}
	ids, err := a.roles.RoleIDs(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("access: team roles unavailable, using empty set")
		return nil
	}
	return toSet(ids)
}

func toSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			out[id] = struct{}{}
		}
	}
	return out
}

func union(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func hasAny(set map[string]struct{}, ids []string) bool {
	for _, id := range ids {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
