package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jose-valero/roster-bot/internal/domain"
)

// PendingRepo persiste las solicitudes de roster que esperan voto de staff.
type PendingRepo struct{ db *sql.DB }

func NewPendingRepo(db *sql.DB) *PendingRepo { return &PendingRepo{db: db} }

const pendingCols = `id, op, kind, requester_user_id, target_user_id, target_name, game_id, team_id, team_name,
       replaces_user_id, channel_id, message_id, status, reason, resolved_by, created_at, expires_at, resolved_at`

func scanPending(row rowScanner) (domain.PendingRequest, error) {
	var p domain.PendingRequest
	var op, kind, status string
	var resolvedAt sql.NullTime
	err := row.Scan(&p.ID, &op, &kind, &p.RequesterID, &p.TargetUserID, &p.TargetName, &p.GameID, &p.TeamID, &p.TeamName,
		&p.ReplacesUserID, &p.ChannelID, &p.MessageID, &status, &p.Reason, &p.ResolvedBy, &p.CreatedAt, &p.ExpiresAt, &resolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PendingRequest{}, domain.ErrRequestNotFound
	}
	if err != nil {
		return domain.PendingRequest{}, err
	}
	p.Op, p.Kind, p.Status = domain.Op(op), domain.Kind(kind), domain.RequestStatus(status)
	if resolvedAt.Valid {
		t := resolvedAt.Time
		p.ResolvedAt = &t
	}
	return p, nil
}

func (r *PendingRepo) Create(ctx context.Context, p domain.PendingRequest) (domain.PendingRequest, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	row := r.db.QueryRowContext(ctx, `
INSERT INTO pending_requests
  (id, op, kind, requester_user_id, target_user_id, target_name, game_id, team_id, team_name,
   replaces_user_id, channel_id, message_id, status, created_at, expires_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,'pending',$13,$14)
RETURNING `+pendingCols,
		p.ID, string(p.Op), string(p.Kind), p.RequesterID, p.TargetUserID, p.TargetName, p.GameID, p.TeamID, p.TeamName,
		p.ReplacesUserID, p.ChannelID, p.MessageID, p.CreatedAt, p.ExpiresAt,
	)
	return scanPending(row)
}

// SetMessage guarda dónde quedó publicada la tarjeta con los botones.
func (r *PendingRepo) SetMessage(ctx context.Context, id uuid.UUID, channelID, messageID string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE pending_requests
   SET channel_id = $2, message_id = $3
 WHERE id = $1
`, id, channelID, messageID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (r *PendingRepo) ByMessage(ctx context.Context, messageID string) (domain.PendingRequest, error) {
	return scanPending(r.db.QueryRowContext(ctx, `SELECT `+pendingCols+` FROM pending_requests WHERE message_id = $1`, messageID))
}

// Resolve es el compare-and-set del voto: pending → approved|denied, sólo si sigue
// abierta y no venció. Si otro click ganó (o venció) devuelve ErrRequestClosed.
func (r *PendingRepo) Resolve(ctx context.Context, messageID string, to domain.RequestStatus, by string, now time.Time) (domain.PendingRequest, error) {
	p, err := scanPending(r.db.QueryRowContext(ctx, `
UPDATE pending_requests
   SET status = $2, resolved_by = $3, resolved_at = $4
 WHERE message_id = $1
   AND status = 'pending'
   AND expires_at > $4
RETURNING `+pendingCols,
		messageID, string(to), by, now,
	))
	if errors.Is(err, domain.ErrRequestNotFound) {
		if _, gerr := r.ByMessage(ctx, messageID); gerr != nil {
			return domain.PendingRequest{}, gerr
		}
		return domain.PendingRequest{}, domain.ErrRequestClosed
	}
	return p, err
}

// Fail marca la solicitud como fallida (aprobada pero el roster cambió mientras tanto).
func (r *PendingRepo) Fail(ctx context.Context, id uuid.UUID, reason string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE pending_requests
   SET status = 'failed', reason = $2, resolved_at = COALESCE(resolved_at, $3)
 WHERE id = $1
`, id, reason, now)
	return err
}

// ExpireDue cierra las solicitudes vencidas y las devuelve para editar sus tarjetas.
// SKIP LOCKED deja correr más de un sweeper sin pisarse.
func (r *PendingRepo) ExpireDue(ctx context.Context, now time.Time, limit int) ([]domain.PendingRequest, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
UPDATE pending_requests
   SET status = 'expired', resolved_at = $1
 WHERE id IN (
   SELECT id FROM pending_requests
    WHERE status = 'pending' AND expires_at <= $1
    ORDER BY expires_at ASC
    LIMIT $2
    FOR UPDATE SKIP LOCKED
 )
RETURNING `+pendingCols,
		now, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PendingRequest
	for rows.Next() {
		p, err := scanPending(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
