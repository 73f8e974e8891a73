package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxCoaches es el tope de coaches por equipo.
const MaxCoaches = 2

type Team struct {
	ID          uuid.UUID
	Name        string
	CaptainID   string
	CaptainName string
	ManagerID   string // vacío si no tiene manager
	ManagerName string
	ChannelID   string
	RoleID      string
	CreatedAt   time.Time

	// se llenan sólo cuando el repo carga el roster
	Players []Player
	Coaches []Coach
}

// Member es lo común entre Player y Coach: el usuario de discord + su Riot ID.
type Member struct {
	ID     uuid.UUID
	UserID string
	Name   string
	GameID string
	TeamID *uuid.UUID
}

func (m Member) OnTeam() bool { return m.TeamID != nil }

type Player struct{ Member }

type Coach struct{ Member }

// MemberInput es lo que llega de un comando para crear/adjuntar un miembro.
type MemberInput struct {
	UserID string
	Name   string
	GameID string
}

type NewTeam struct {
	Name        string
	CaptainID   string
	CaptainName string
	ChannelID   string
	RoleID      string
}

// IsLeader: captain o manager del equipo.
func (t Team) IsLeader(userID string) bool {
	return userID != "" && (t.CaptainID == userID || t.ManagerID == userID)
}

func (t Team) CoachesFull() bool { return len(t.Coaches) >= MaxCoaches }
