package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// RoleSyncError: el store quedó bien pero algún rol no se pudo dar/quitar.
// El que llama muestra el resultado igual y pide revisar roles a mano.
type RoleSyncError struct{ Err error }

func (e *RoleSyncError) Error() string { return "role sync: " + e.Err.Error() }
func (e *RoleSyncError) Unwrap() error { return e.Err }

type roleChange struct {
	userID string
	grant  bool
	roles  []string
}

func grant(userID string, roles ...string) roleChange {
	return roleChange{userID: userID, grant: true, roles: roles}
}

func revoke(userID string, roles ...string) roleChange {
	return roleChange{userID: userID, roles: roles}
}

// syncRoles aplica todos los cambios aunque alguno falle; devuelve *RoleSyncError con lo que falló.
func syncRoles(ctx context.Context, chat ChatPlatform, changes ...roleChange) error {
	var errs []error
	for _, ch := range changes {
		if ch.userID == "" {
			continue
		}
		roles := nonEmpty(ch.roles)
		if len(roles) == 0 {
			continue
		}
		var err error
		if ch.grant {
			err = chat.GrantRoles(ctx, ch.userID, roles...)
		} else {
			err = chat.RevokeRoles(ctx, ch.userID, roles...)
		}
		if err != nil {
			log.Error().Err(err).Str("user_id", ch.userID).Bool("grant", ch.grant).Strs("roles", roles).Msg("role sync failed")
			errs = append(errs, fmt.Errorf("user %s: %w", ch.userID, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &RoleSyncError{Err: errors.Join(errs...)}
}

func nonEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// notify al canal del equipo; si el equipo no tiene canal no hacemos nada.
func notify(ctx context.Context, chat ChatPlatform, channelID, content string) error {
	if channelID == "" {
		return nil
	}
	return chat.Notify(ctx, channelID, content)
}
