package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	pq "github.com/lib/pq"

	"github.com/jose-valero/roster-bot/internal/domain"
)

type TeamRepo struct{ db *sql.DB }

func NewTeamRepo(db *sql.DB) *TeamRepo { return &TeamRepo{db: db} }

const teamCols = `t.id, t.name, t.captain_user_id, t.captain_name, t.manager_user_id, t.manager_name, t.channel_id, t.role_id, t.created_at`

func scanTeam(row rowScanner) (domain.Team, error) {
	var t domain.Team
	err := row.Scan(&t.ID, &t.Name, &t.CaptainID, &t.CaptainName, &t.ManagerID, &t.ManagerName, &t.ChannelID, &t.RoleID, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	return t, err
}

// getTeam trae un equipo con su roster. where usa el alias t y puede traer ORDER BY / FOR UPDATE.
func getTeam(ctx context.Context, q querier, where string, args ...any) (domain.Team, error) {
	t, err := scanTeam(q.QueryRowContext(ctx, `SELECT `+teamCols+` FROM teams t WHERE `+where, args...))
	if err != nil {
		return domain.Team{}, err
	}
	rosters, err := loadRosters(ctx, q, []uuid.UUID{t.ID})
	if err != nil {
		return domain.Team{}, err
	}
	t.Players, t.Coaches = rosters.players[t.ID], rosters.coaches[t.ID]
	return t, nil
}

type rosters struct {
	players map[uuid.UUID][]domain.Player
	coaches map[uuid.UUID][]domain.Coach
}

// loadRosters: jugadores y coaches de varios equipos en dos queries.
func loadRosters(ctx context.Context, q querier, teamIDs []uuid.UUID) (rosters, error) {
	out := rosters{players: map[uuid.UUID][]domain.Player{}, coaches: map[uuid.UUID][]domain.Coach{}}
	if len(teamIDs) == 0 {
		return out, nil
	}
	ids := make([]string, len(teamIDs))
	for i, id := range teamIDs {
		ids[i] = id.String()
	}

	for _, table := range []string{"players", "coaches"} {
		rows, err := q.QueryContext(ctx, `
SELECT `+memberCols+`
  FROM `+table+` m
 WHERE m.team_id = ANY($1::uuid[])
 ORDER BY m.created_at ASC
`, pq.Array(ids))
		if err != nil {
			return out, err
		}
		for rows.Next() {
			m, err := scanMember(rows)
			if err != nil {
				rows.Close()
				return out, err
			}
			if table == "players" {
				out.players[*m.TeamID] = append(out.players[*m.TeamID], domain.Player{Member: m})
			} else {
				out.coaches[*m.TeamID] = append(out.coaches[*m.TeamID], domain.Coach{Member: m})
			}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func (r *TeamRepo) Create(ctx context.Context, nt domain.NewTeam) (domain.Team, error) {
	row := r.db.QueryRowContext(ctx, `
INSERT INTO teams AS t (id, name, captain_user_id, captain_name, channel_id, role_id)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING `+teamCols,
		uuid.New(), nt.Name, nt.CaptainID, nt.CaptainName, nt.ChannelID, nt.RoleID,
	)
	t, err := scanTeam(row)
	if pgCode(err) == pgUniqueViolation {
		return domain.Team{}, fmt.Errorf("%w: %s", domain.ErrTeamExists, nt.Name)
	}
	return t, err
}

func (r *TeamRepo) ByID(ctx context.Context, id uuid.UUID) (domain.Team, error) {
	return getTeam(ctx, r.db, `t.id = $1`, id)
}

func (r *TeamRepo) ByName(ctx context.Context, name string) (domain.Team, error) {
	return getTeam(ctx, r.db, `t.name = $1`, name)
}

// ByCaptainOrManager: si es captain de uno y manager de otro, gana el de captain.
func (r *TeamRepo) ByCaptainOrManager(ctx context.Context, userID string) (domain.Team, error) {
	return getTeam(ctx, r.db, `(t.captain_user_id = $1 OR t.manager_user_id = $1)
 ORDER BY (t.captain_user_id = $1) DESC, t.created_at ASC LIMIT 1`, userID)
}

// ByMember: equipo del jugador (o coach) con ese user id.
func (r *TeamRepo) ByMember(ctx context.Context, userID string) (domain.Team, error) {
	return getTeam(ctx, r.db, `t.id = COALESCE(
  (SELECT team_id FROM players WHERE user_id = $1),
  (SELECT team_id FROM coaches WHERE user_id = $1))`, userID)
}

func (r *TeamRepo) List(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+teamCols+` FROM teams t ORDER BY t.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Team
	var ids []uuid.UUID
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rs, err := loadRosters(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Players = rs.players[out[i].ID]
		out[i].Coaches = rs.coaches[out[i].ID]
	}
	return out, nil
}

// RoleIDs: roles de todos los equipos (para el acceso "any roster member").
func (r *TeamRepo) RoleIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT role_id FROM teams WHERE role_id <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// DeleteByCaptain borra el equipo del captain y devuelve cómo estaba (con roster)
// para poder limpiar roles. Los players se borran en cascada; los coaches quedan libres.
func (r *TeamRepo) DeleteByCaptain(ctx context.Context, captainID string) (domain.Team, error) {
	var team domain.Team
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		t, err := getTeam(ctx, tx, `t.captain_user_id = $1 ORDER BY t.created_at ASC LIMIT 1 FOR UPDATE`, captainID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, t.ID); err != nil {
			return err
		}
		team = t
		return nil
	})
	return team, err
}

// updateTeam: UPDATE por nombre devolviendo el estado anterior y el nuevo.
func (r *TeamRepo) updateTeam(ctx context.Context, name, set string, args ...any) (prev, cur domain.Team, err error) {
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		p, err := getTeam(ctx, tx, `t.name = $1 FOR UPDATE`, name)
		if err != nil {
			return err
		}
		all := append([]any{p.ID}, args...)
		res, err := tx.ExecContext(ctx, `UPDATE teams SET `+set+`, updated_at = now() WHERE id = $1`, all...)
		if err != nil {
			if pgCode(err) == pgUniqueViolation {
				return domain.ErrTeamExists
			}
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrTeamNotFound
		}
		c, err := getTeam(ctx, tx, `t.id = $1`, p.ID)
		if err != nil {
			return err
		}
		prev, cur = p, c
		return nil
	})
	return prev, cur, err
}

func (r *TeamRepo) SetChannel(ctx context.Context, teamName, channelID string) (domain.Team, error) {
	_, cur, err := r.updateTeam(ctx, teamName, `channel_id = $2`, channelID)
	return cur, err
}

func (r *TeamRepo) SetRole(ctx context.Context, teamName, roleID string) (domain.Team, error) {
	_, cur, err := r.updateTeam(ctx, teamName, `role_id = $2`, roleID)
	return cur, err
}

// SetCaptain devuelve el equipo como estaba antes (captain anterior incluido).
func (r *TeamRepo) SetCaptain(ctx context.Context, teamName, userID, name string) (prev, cur domain.Team, err error) {
	return r.updateTeam(ctx, teamName, `captain_user_id = $2, captain_name = $3`, userID, name)
}

func (r *TeamRepo) SetManager(ctx context.Context, teamName, userID, name string) (prev, cur domain.Team, err error) {
	return r.updateTeam(ctx, teamName, `manager_user_id = $2, manager_name = $3`, userID, name)
}

// UpdateInfo: renombrar y cambiar captain de una.
func (r *TeamRepo) UpdateInfo(ctx context.Context, teamName, newName, captainID, captainName string) (prev, cur domain.Team, err error) {
	return r.updateTeam(ctx, teamName, `name = $2, captain_user_id = $3, captain_name = $4`, newName, captainID, captainName)
}
