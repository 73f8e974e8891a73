package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jose-valero/roster-bot/internal/domain"
)

// MemberRepo maneja players y coaches. La pertenencia a un equipo vive sólo en
// team_id, así que equipo ↔ miembro es consistente por construcción.
type MemberRepo struct{ db *sql.DB }

func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{db: db} }

const memberCols = `m.id, m.user_id, m.name, m.game_id, m.team_id`

func scanMember(row rowScanner) (domain.Member, error) {
	var m domain.Member
	var team uuid.NullUUID
	if err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.GameID, &team); err != nil {
		return domain.Member{}, err
	}
	if team.Valid {
		id := team.UUID
		m.TeamID = &id
	}
	return m, nil
}

func getMember(ctx context.Context, q querier, table, userID string, notFound error) (domain.Member, error) {
	m, err := scanMember(q.QueryRowContext(ctx, `SELECT `+memberCols+` FROM `+table+` m WHERE m.user_id = $1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, notFound
	}
	return m, err
}

func (r *MemberRepo) Player(ctx context.Context, userID string) (domain.Player, error) {
	m, err := getMember(ctx, r.db, "players", userID, domain.ErrPlayerNotFound)
	return domain.Player{Member: m}, err
}

func (r *MemberRepo) Coach(ctx context.Context, userID string) (domain.Coach, error) {
	m, err := getMember(ctx, r.db, "coaches", userID, domain.ErrCoachNotFound)
	return domain.Coach{Member: m}, err
}

// attach es el compare-and-set: crea el registro o lo engancha al equipo,
// sólo si hoy no tiene equipo. Sin fila devuelta ⇒ ya estaba en un equipo.
func attach(ctx context.Context, q querier, table string, teamID uuid.UUID, in domain.MemberInput) (domain.Member, error) {
	row := q.QueryRowContext(ctx, `
INSERT INTO `+table+` AS m (id, user_id, name, game_id, team_id)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (user_id) DO UPDATE SET
  team_id    = EXCLUDED.team_id,
  name       = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE m.name END,
  game_id    = CASE WHEN EXCLUDED.game_id <> '' THEN EXCLUDED.game_id ELSE m.game_id END,
  updated_at = now()
WHERE m.team_id IS NULL
RETURNING `+memberCols,
		uuid.New(), in.UserID, in.Name, in.GameID, teamID,
	)
	m, err := scanMember(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.Member{}, domain.ErrAlreadyRostered
	case pgCode(err) == pgForeignKeyViolation:
		return domain.Member{}, domain.ErrTeamNotFound
	}
	return m, err
}

// detach suelta al miembro de su equipo. Con expect válido sólo lo suelta si está en ese equipo.
func detach(ctx context.Context, q querier, table, userID string, expect uuid.NullUUID, notFound error) (domain.Member, uuid.UUID, error) {
	row := q.QueryRowContext(ctx, `
WITH target AS (
  SELECT id, team_id FROM `+table+` WHERE user_id = $1 FOR UPDATE
)
UPDATE `+table+` AS m
   SET team_id = NULL, updated_at = now()
  FROM target
 WHERE m.id = target.id
   AND target.team_id IS NOT NULL
   AND ($2::uuid IS NULL OR target.team_id = $2)
RETURNING `+memberCols+`, target.team_id
`, userID, expect)

	var m domain.Member
	var team uuid.NullUUID
	var was uuid.UUID
	err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.GameID, &team, &was)
	if errors.Is(err, sql.ErrNoRows) {
		// o no existe, o no tiene equipo, o está en otro equipo
		if _, gerr := getMember(ctx, q, table, userID, notFound); gerr != nil {
			return domain.Member{}, uuid.Nil, gerr
		}
		return domain.Member{}, uuid.Nil, domain.ErrNotOnTeam
	}
	if err != nil {
		return domain.Member{}, uuid.Nil, err
	}
	return m, was, nil
}

func (r *MemberRepo) AttachPlayer(ctx context.Context, teamID uuid.UUID, in domain.MemberInput) (domain.Player, error) {
	m, err := attach(ctx, r.db, "players", teamID, in)
	return domain.Player{Member: m}, err
}

// AttachPlayerByLeader: el alta directa de staff, resolviendo el equipo por captain/manager.
func (r *MemberRepo) AttachPlayerByLeader(ctx context.Context, leaderID string, in domain.MemberInput) (domain.Player, domain.Team, error) {
	var p domain.Player
	var team domain.Team
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		t, err := getTeam(ctx, tx, `(t.captain_user_id = $1 OR t.manager_user_id = $1)
 ORDER BY (t.captain_user_id = $1) DESC, t.created_at ASC LIMIT 1 FOR UPDATE`, leaderID)
		if err != nil {
			return err
		}
		m, err := attach(ctx, tx, "players", t.ID, in)
		if err != nil {
			return err
		}
		p, team = domain.Player{Member: m}, t
		return nil
	})
	return p, team, err
}

// DetachPlayer devuelve el jugador ya suelto y el equipo del que salió.
func (r *MemberRepo) DetachPlayer(ctx context.Context, userID string, expect uuid.NullUUID) (domain.Player, domain.Team, error) {
	var p domain.Player
	var team domain.Team
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		m, was, err := detach(ctx, tx, "players", userID, expect, domain.ErrPlayerNotFound)
		if err != nil {
			return err
		}
		t, err := getTeam(ctx, tx, `t.id = $1`, was)
		if err != nil {
			return err
		}
		p, team = domain.Player{Member: m}, t
		return nil
	})
	return p, team, err
}

// AttachCoach agrega un coach respetando el tope. Con replaceUserID primero suelta
// a ese coach (si sigue en el equipo). Todo bajo el lock de la fila del equipo.
func (r *MemberRepo) AttachCoach(ctx context.Context, teamID uuid.UUID, in domain.MemberInput, replaceUserID string) (domain.Coach, *domain.Coach, error) {
	var c domain.Coach
	var replaced *domain.Coach
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRowContext(ctx, `SELECT id FROM teams WHERE id = $1 FOR UPDATE`, teamID).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrTeamNotFound
		}
		if err != nil {
			return err
		}

		if replaceUserID != "" {
			old, _, err := detach(ctx, tx, "coaches", replaceUserID, uuid.NullUUID{UUID: teamID, Valid: true}, domain.ErrCoachNotFound)
			switch {
			case err == nil:
				replaced = &domain.Coach{Member: old}
			case errors.Is(err, domain.ErrNotOnTeam), errors.Is(err, domain.ErrCoachNotFound):
				// ya no estaba; el cupo se valida abajo igual
			default:
				return err
			}
		}

		var n int
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM coaches WHERE team_id = $1`, teamID).Scan(&n); err != nil {
			return err
		}
		if n >= domain.MaxCoaches {
			return fmt.Errorf("%w (%d)", domain.ErrCoachLimit, n)
		}

		m, err := attach(ctx, tx, "coaches", teamID, in)
		if err != nil {
			return err
		}
		c = domain.Coach{Member: m}
		return nil
	})
	if err != nil {
		return domain.Coach{}, nil, err
	}
	return c, replaced, nil
}

func (r *MemberRepo) DetachCoach(ctx context.Context, userID string, expect uuid.NullUUID) (domain.Coach, domain.Team, error) {
	var c domain.Coach
	var team domain.Team
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		m, was, err := detach(ctx, tx, "coaches", userID, expect, domain.ErrCoachNotFound)
		if err != nil {
			return err
		}
		t, err := getTeam(ctx, tx, `t.id = $1`, was)
		if err != nil {
			return err
		}
		c, team = domain.Coach{Member: m}, t
		return nil
	})
	return c, team, err
}

// UpdateGameID cambia el Riot ID del jugador; si no es jugador, prueba como coach.
func (r *MemberRepo) UpdateGameID(ctx context.Context, userID, gameID string) error {
	for _, table := range []string{"players", "coaches"} {
		res, err := r.db.ExecContext(ctx, `
UPDATE `+table+`
   SET game_id = $2, updated_at = now()
 WHERE user_id = $1
`, userID, gameID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}
	}
	return domain.ErrPlayerNotFound
}
