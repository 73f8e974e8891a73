package valorant

import "encoding/json"

// la API responde siempre {status, data}; status viene repetido en el body
type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// --- Account ---
type accountDTO struct {
	PUUID string `json:"puuid"`
	Name  string `json:"name"`
	Tag   string `json:"tag"`
}

// --- MMR ---
type mmrDTO struct {
	CurrentData struct {
		CurrentTier        int    `json:"currenttier"`
		CurrentTierPatched string `json:"currenttierpatched"`
	} `json:"current_data"`
	HighestRank struct {
		Converted   int    `json:"converted"`
		PatchedTier string `json:"patched_tier"`
	} `json:"highest_rank"`
}
