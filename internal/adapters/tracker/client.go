package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jose-valero/roster-bot/internal/domain"
)

const profileBase = "https://tracker.gg/valorant/profile/riot/"

// ProfileURL es el link público que mostramos en las tarjetas.
func ProfileURL(gameID string) string {
	return profileBase + url.PathEscape(gameID) + "/overview?season=all"
}

type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
}

type Option func(*Client) error

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) error {
		c.http = h
		return nil
	}
}

// WithProxy manda todo por el proxy autenticado (el tracker bloquea IPs de datacenter).
// Una URL mala es error: sin proxy el tracker rechaza los pedidos.
func WithProxy(rawURL, username, password string) Option {
	return func(c *Client) error {
		if rawURL == "" {
			return nil
		}
		u, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("proxy url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("proxy url %q: missing scheme or host", rawURL)
		}
		if username != "" {
			u.User = url.UserPassword(username, password)
		}
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.Proxy = http.ProxyURL(u)
		c.http.Transport = tr
		return nil
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 20 * time.Second},
		userAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	}
	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tracker status %d: %s", e.Status, e.Body)
}

// SeasonReport trae las stats por acto de un Riot ID.
func (c *Client) SeasonReport(ctx context.Context, gameID string) ([]domain.ActStats, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: tracker base url not configured", domain.ErrUpstreamLookup)
	}
	u := c.baseURL + url.PathEscape(gameID) + "/segments/season-report?=null"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: tracker http: %w", domain.ErrUpstreamLookup, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamLookup, &APIError{Status: res.StatusCode, Body: strings.TrimSpace(string(b))})
	}

	var dto seasonReportDTO
	if err := json.NewDecoder(res.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("%w: tracker decode: %w", domain.ErrUpstreamLookup, err)
	}
	out := make([]domain.ActStats, 0, len(dto.Data))
	for _, seg := range dto.Data {
		out = append(out, seg.toActStats())
	}
	return out, nil
}
