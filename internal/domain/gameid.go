package domain

import (
	"fmt"
	"strings"
)

// SplitGameID separa un Riot ID "name#tag". Ambos lados tienen que venir.
func SplitGameID(id string) (name, tag string, err error) {
	id = strings.TrimSpace(id)
	i := strings.LastIndexByte(id, '#')
	if i <= 0 || i == len(id)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidGameID, id)
	}
	name, tag = strings.TrimSpace(id[:i]), strings.TrimSpace(id[i+1:])
	if name == "" || tag == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidGameID, id)
	}
	return name, tag, nil
}

// DisplayName: lo que va antes del '#', como nombre por defecto del jugador.
func DisplayName(gameID string) string {
	if name, _, err := SplitGameID(gameID); err == nil {
		return name
	}
	return strings.TrimSpace(gameID)
}

// RankSummary es lo que mostramos en la tarjeta de aprobación.
type RankSummary struct {
	Current     string
	CurrentTier int
	Peak        string
	PeakTier    int
}

// ActStats son las stats de un acto (temporada) del tracker.
type ActStats struct {
	ActName            string `json:"actName"`
	CurrentRank        string `json:"currentRank"`
	PeakRank           string `json:"peakRank"`
	KDRatio            string `json:"kdRatio"`
	HeadshotPercentage string `json:"headshotPercentage"`
	MatchesPlayed      string `json:"matchesPlayed"`
	Wins               string `json:"wins"`
	WinPercentage      string `json:"winPercentage"`
	KAST               string `json:"KAST"`
	ADR                string `json:"ADR"`
}
