package valorant

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jose-valero/roster-bot/internal/domain"
)

func newTestServer(t *testing.T, accountCalls *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/account/Foo/123", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(accountCalls, 1)
		if r.Header.Get("Authorization") != "secret" {
			t.Errorf("missing api key header, got %q", r.Header.Get("Authorization"))
		}
		if r.URL.Query().Get("force") != "true" {
			t.Errorf("expected force=true")
		}
		_, _ = w.Write([]byte(`{"status":200,"data":{"puuid":"p-1","name":"Foo","tag":"123"}}`))
	})
	mux.HandleFunc("/v1/account/Ghost/000", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":404,"errors":[{"message":"Not found"}]}`))
	})
	mux.HandleFunc("/v1/account/Broken/500", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("/v2/by-puuid/mmr/eu/p-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200,"data":{
			"current_data":{"currenttier":21,"currenttierpatched":"Ascendant 1"},
			"highest_rank":{"converted":24,"patched_tier":"Immortal 1"}}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRankResolvesAccountThenMMR(t *testing.T) {
	var calls int32
	srv := newTestServer(t, &calls)
	c := New("secret", WithBaseURL(srv.URL+"/"), WithRegion("eu"))

	rank, err := c.Rank(context.Background(), "Foo#123")
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	want := domain.RankSummary{Current: "Ascendant 1", CurrentTier: 21, Peak: "Immortal 1", PeakTier: 24}
	if rank != want {
		t.Fatalf("got %+v want %+v", rank, want)
	}

	// Verify después de Rank sale del cache
	if err := c.Verify(context.Background(), "foo#123"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("account endpoint hit %d times, want 1", n)
	}
}

func TestVerifyClassifiesFailures(t *testing.T) {
	var calls int32
	srv := newTestServer(t, &calls)
	c := New("secret", WithBaseURL(srv.URL), WithCacheTTL(0))

	cases := []struct {
		id   string
		want error
	}{
		{"no-tag", domain.ErrInvalidGameID},
		{"Ghost#000", domain.ErrInvalidGameID},
		{"Broken#500", domain.ErrUpstreamLookup},
	}
	for _, tc := range cases {
		err := c.Verify(context.Background(), tc.id)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: want %v, got %v", tc.id, tc.want, err)
		}
	}
}

func TestDoJSONRetriesOnceAfter429(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"status":200,"data":{"puuid":"p-9"}}`))
	}))
	defer srv.Close()

	c := New("", WithBaseURL(srv.URL), WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	id, err := c.AccountPUUID(context.Background(), "A", "B")
	if err != nil || id != "p-9" {
		t.Fatalf("got %q, %v", id, err)
	}
	if hits != 2 {
		t.Fatalf("want 2 hits, got %d", hits)
	}
}

func TestCacheExpires(t *testing.T) {
	c := newCache(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.set("k", "v")
	if v, ok := c.get("k"); !ok || v != "v" {
		t.Fatalf("want hit, got %q %v", v, ok)
	}
	now = now.Add(2 * time.Minute)
	if _, ok := c.get("k"); ok {
		t.Fatal("want miss after ttl")
	}

	var disabled *cache
	disabled.set("k", "v")
	if _, ok := disabled.get("k"); ok {
		t.Fatal("nil cache must never hit")
	}
}
