package domain

import "errors"

var (
	ErrTeamNotFound    = errors.New("team not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrCoachNotFound   = errors.New("coach not found")
	ErrRequestNotFound = errors.New("request not found")

	ErrAlreadyRostered = errors.New("already on a team")
	ErrNotOnTeam       = errors.New("not on a team")
	ErrNotLeader       = errors.New("not a captain or manager")
	ErrCoachLimit      = errors.New("team already has the maximum number of coaches")
	ErrTeamExists      = errors.New("team already exists")

	ErrInvalidGameID   = errors.New("invalid riot id")
	ErrUpstreamLookup  = errors.New("upstream lookup failed")
	ErrChannelNotFound = errors.New("channel not found")
	ErrRoleNotFound    = errors.New("role not found")

	ErrRequestClosed    = errors.New("request is no longer open")
	ErrReplaceCancelled = errors.New("coach replacement cancelled")
	ErrReplaceTimeout   = errors.New("coach replacement timed out")
)

// IsNotFound agrupa los "no existe" de equipos/jugadores/coaches.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTeamNotFound) ||
		errors.Is(err, ErrPlayerNotFound) ||
		errors.Is(err, ErrCoachNotFound) ||
		errors.Is(err, ErrRequestNotFound)
}

// IsRosterConflict: errores de dominio que cierran una solicitud aprobada sin
// tocar roles (el estado cambió mientras esperaba el voto).
func IsRosterConflict(err error) bool {
	return IsNotFound(err) ||
		errors.Is(err, ErrAlreadyRostered) ||
		errors.Is(err, ErrNotOnTeam) ||
		errors.Is(err, ErrCoachLimit)
}
