package domain

import (
	"time"

	"github.com/google/uuid"
)

type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

type Kind string

const (
	KindPlayer Kind = "player"
	KindCoach  Kind = "coach"
)

// Label: "Player" / "Coach", para los textos del canal.
func (k Kind) Label() string {
	if k == KindCoach {
		return "Coach"
	}
	return "Player"
}

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusDenied   RequestStatus = "denied"
	StatusExpired  RequestStatus = "expired"
	StatusFailed   RequestStatus = "failed"
)

func (s RequestStatus) Terminal() bool { return s != StatusPending }

// ApprovalWindow: cuánto vive una solicitud antes de que el sweeper la cierre.
const ApprovalWindow = 24 * time.Hour

// PendingRequest es una solicitud de cambio de roster esperando voto de staff.
// Se persiste; el mensaje con los botones se referencia por MessageID.
type PendingRequest struct {
	ID             uuid.UUID
	Op             Op
	Kind           Kind
	RequesterID    string
	TargetUserID   string
	TargetName     string
	GameID         string
	TeamID         uuid.UUID
	TeamName       string
	ReplacesUserID string // coach a reemplazar (sólo add coach con el cupo lleno)
	ChannelID      string
	MessageID      string
	Status         RequestStatus
	Reason         string
	ResolvedBy     string
	CreatedAt      time.Time
	ExpiresAt      time.Time
	ResolvedAt     *time.Time
}

func (p PendingRequest) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
