package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/jose-valero/roster-bot/internal/domain"
)

func TestAnalyzeBuildsPromptAndTrimsReply(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[
			{"index":0,"message":{"role":"assistant","content":"  Smurf: 10%\nBoosted: 5%  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("key")
	cfg.BaseURL = srv.URL + "/v1"
	a := NewWithConfig(cfg, WithPrompt("Evaluate this player:"))

	out, err := a.Analyze(context.Background(), []domain.ActStats{{ActName: "E9: A3", KDRatio: "1.2"}})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if out != "Smurf: 10%\nBoosted: 5%" {
		t.Fatalf("reply not trimmed: %q", out)
	}

	if got.Model != openai.GPT4o {
		t.Fatalf("model = %q", got.Model)
	}
	if len(got.Messages) != 4 {
		t.Fatalf("want 3 system + 1 user message, got %d", len(got.Messages))
	}
	user := got.Messages[3]
	if user.Role != openai.ChatMessageRoleUser ||
		!strings.HasPrefix(user.Content, "Evaluate this player:\n ") ||
		!strings.Contains(user.Content, `"kdRatio":"1.2"`) ||
		!strings.HasSuffix(user.Content, closingInstruction) {
		t.Fatalf("unexpected user prompt %q", user.Content)
	}
}

func TestAnalyzeWrapsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("key")
	cfg.BaseURL = srv.URL + "/v1"
	_, err := NewWithConfig(cfg).Analyze(context.Background(), nil)
	if !errors.Is(err, domain.ErrUpstreamLookup) {
		t.Fatalf("want ErrUpstreamLookup, got %v", err)
	}
}
