package tracker

import "github.com/jose-valero/roster-bot/internal/domain"

const na = "N/A"

type seasonReportDTO struct {
	Data []segmentDTO `json:"data"`
}

type statDTO struct {
	DisplayValue string `json:"displayValue"`
}

type segmentDTO struct {
	Metadata struct {
		Name string `json:"name"`
	} `json:"metadata"`
	Stats map[string]*statDTO `json:"stats"`
}

func (s segmentDTO) stat(key string) string {
	if st, ok := s.Stats[key]; ok && st != nil && st.DisplayValue != "" {
		return st.DisplayValue
	}
	return na
}

func (s segmentDTO) toActStats() domain.ActStats {
	name := s.Metadata.Name
	if name == "" {
		name = na
	}
	return domain.ActStats{
		ActName:            name,
		CurrentRank:        s.stat("rank"),
		PeakRank:           s.stat("peakRank"),
		KDRatio:            s.stat("kDRatio"),
		HeadshotPercentage: s.stat("headshotsPercentage"),
		MatchesPlayed:      s.stat("matchesPlayed"),
		Wins:               s.stat("matchesWon"),
		WinPercentage:      s.stat("matchesWinPct"),
		KAST:               s.stat("kAST"),
		ADR:                s.stat("damagePerRound"),
	}
}
