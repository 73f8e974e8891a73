package valorant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jose-valero/roster-bot/internal/domain"
)

// AccountPUUID resuelve name#tag al puuid de la cuenta.
func (c *Client) AccountPUUID(ctx context.Context, name, tag string) (string, error) {
	key := strings.ToLower(name + "#" + tag)
	if id, ok := c.cache.get(key); ok {
		return id, nil
	}

	q := url.Values{}
	q.Set("force", "true")
	var dto accountDTO
	path := fmt.Sprintf("/v1/account/%s/%s", url.PathEscape(name), url.PathEscape(tag))
	if err := c.doJSON(ctx, http.MethodGet, path, q, &dto); err != nil {
		return "", err
	}
	if dto.PUUID == "" {
		return "", ErrNotFound
	}
	c.cache.set(key, dto.PUUID)
	return dto.PUUID, nil
}

// MMR trae rango actual y pico para un puuid.
func (c *Client) MMR(ctx context.Context, puuid string) (domain.RankSummary, error) {
	var dto mmrDTO
	path := fmt.Sprintf("/v2/by-puuid/mmr/%s/%s", url.PathEscape(c.region), url.PathEscape(puuid))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &dto); err != nil {
		return domain.RankSummary{}, err
	}
	return domain.RankSummary{
		Current:     dto.CurrentData.CurrentTierPatched,
		CurrentTier: dto.CurrentData.CurrentTier,
		Peak:        dto.HighestRank.PatchedTier,
		PeakTier:    dto.HighestRank.Converted,
	}, nil
}

// Verify confirma que el Riot ID existe. Formato malo o cuenta inexistente ⇒ ErrInvalidGameID;
// cualquier otra falla ⇒ ErrUpstreamLookup.
func (c *Client) Verify(ctx context.Context, gameID string) error {
	name, tag, err := domain.SplitGameID(gameID)
	if err != nil {
		return err
	}
	if _, err := c.AccountPUUID(ctx, name, tag); err != nil {
		return classify(gameID, err)
	}
	return nil
}

// Rank: Riot ID → puuid → mmr.
func (c *Client) Rank(ctx context.Context, gameID string) (domain.RankSummary, error) {
	name, tag, err := domain.SplitGameID(gameID)
	if err != nil {
		return domain.RankSummary{}, err
	}
	puuid, err := c.AccountPUUID(ctx, name, tag)
	if err != nil {
		return domain.RankSummary{}, classify(gameID, err)
	}
	rank, err := c.MMR(ctx, puuid)
	if err != nil {
		return domain.RankSummary{}, fmt.Errorf("%w: mmr %s: %w", domain.ErrUpstreamLookup, gameID, err)
	}
	return rank, nil
}

func classify(gameID string, err error) error {
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrNotFound):
		return fmt.Errorf("%w: %s", domain.ErrInvalidGameID, gameID)
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Status != http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrInvalidGameID, gameID)
	}
	return fmt.Errorf("%w: account %s: %w", domain.ErrUpstreamLookup, gameID, err)
}
