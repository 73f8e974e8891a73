package tracker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jose-valero/roster-bot/internal/domain"
)

func TestSeasonReportParsesSegments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/profile/Foo%23123/segments/season-report" {
			t.Errorf("unexpected path %q", r.URL.EscapedPath())
		}
		_, _ = w.Write([]byte(`{"data":[
			{"metadata":{"name":"E9: A3"},"stats":{
				"rank":{"displayValue":"Gold 2"},"peakRank":{"displayValue":"Plat 1"},
				"kDRatio":{"displayValue":"1.21"},"headshotsPercentage":{"displayValue":"24.1%"},
				"matchesPlayed":{"displayValue":"40"},"matchesWon":{"displayValue":"22"},
				"matchesWinPct":{"displayValue":"55%"},"kAST":{"displayValue":"71%"},
				"damagePerRound":{"displayValue":"150.2"}}},
			{"metadata":{},"stats":{}}
		]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL + "/profile/")
	if err != nil {
		t.Fatal(err)
	}
	acts, err := c.SeasonReport(context.Background(), "Foo#123")
	if err != nil {
		t.Fatalf("season report: %v", err)
	}
	if len(acts) != 2 {
		t.Fatalf("want 2 acts, got %d", len(acts))
	}
	if acts[0].ActName != "E9: A3" || acts[0].KDRatio != "1.21" || acts[0].ADR != "150.2" {
		t.Fatalf("bad first act %+v", acts[0])
	}
	if acts[1].ActName != "N/A" || acts[1].CurrentRank != "N/A" || acts[1].KAST != "N/A" {
		t.Fatalf("missing stats should be N/A: %+v", acts[1])
	}
}

func TestSeasonReportUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("blocked"))
	}))
	defer srv.Close()

	c, err := New(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.SeasonReport(context.Background(), "Foo#123")
	if !errors.Is(err, domain.ErrUpstreamLookup) {
		t.Fatalf("want ErrUpstreamLookup, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("want APIError 403, got %v", err)
	}

	c, err = New("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.SeasonReport(context.Background(), "x#y"); !errors.Is(err, domain.ErrUpstreamLookup) {
		t.Fatalf("unconfigured base: want ErrUpstreamLookup, got %v", err)
	}
}

func TestProfileURL(t *testing.T) {
	got := ProfileURL("Foo Bar#NA1")
	want := "https://tracker.gg/valorant/profile/riot/Foo%20Bar%23NA1/overview?season=all"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWithProxySetsTransport(t *testing.T) {
	c, err := New("http://x/", WithProxy("http://proxy.local:8080", "u", "p"))
	if err != nil {
		t.Fatal(err)
	}
	tr, ok := c.http.Transport.(*http.Transport)
	if !ok || tr.Proxy == nil {
		t.Fatal("proxy transport not installed")
	}
	req, _ := http.NewRequest(http.MethodGet, "http://x/", nil)
	u, err := tr.Proxy(req)
	if err != nil || u.Host != "proxy.local:8080" || u.User.Username() != "u" {
		t.Fatalf("unexpected proxy url %v %v", u, err)
	}
}

func TestWithProxyRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"proxy.local:8080", "http://%zz", "://nohost"} {
		if _, err := New("http://x/", WithProxy(raw, "u", "p")); err == nil {
			t.Errorf("proxy %q accepted", raw)
		}
	}
	if _, err := New("http://x/", WithProxy("", "", "")); err != nil {
		t.Fatalf("empty proxy means direct: %v", err)
	}
}
