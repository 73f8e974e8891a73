package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/jose-valero/roster-bot/internal/domain"
)

const defaultModel = openai.GPT4o

var systemPrompts = []string{
	"You are an assistant specialized in detecting smurfs in Valorant.",
	"You will be tasked with deciding whether a player is smurfing or rank sitting (avoiding playing games to be able to play in the league).",
	"You must respond briefly as there is a 1000 character limit to your responses. Provide only a few brief reasons for your ratings. Do not give a smurfing and boosted percent for each act, just an overall rating.",
}

const closingInstruction = "Respond with percentages for smurfing and boosted, followed by brief explanations of the key factors for each."

// Analyzer le pide al modelo un veredicto de smurf/boost sobre las stats del tracker.
type Analyzer struct {
	client *openai.Client
	model  string
	prompt string
}

type Option func(*Analyzer)

func WithModel(m string) Option {
	return func(a *Analyzer) {
		if m != "" {
			a.model = m
		}
	}
}

// WithPrompt: texto que va antes de las stats en el mensaje del usuario.
func WithPrompt(p string) Option {
	return func(a *Analyzer) { a.prompt = p }
}

func New(apiKey string, opts ...Option) *Analyzer {
	return NewWithConfig(openai.DefaultConfig(apiKey), opts...)
}

func NewWithConfig(cfg openai.ClientConfig, opts ...Option) *Analyzer {
	a := &Analyzer{client: openai.NewClientWithConfig(cfg), model: defaultModel}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *Analyzer) Analyze(ctx context.Context, stats []domain.ActStats) (string, error) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return "", err
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(systemPrompts)+1)
	for _, p := range systemPrompts {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: p})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: a.prompt + "\n " + string(raw) + "\n" + closingInstruction,
	})

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: msgs,
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %w", domain.ErrUpstreamLookup, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response from openai", domain.ErrUpstreamLookup)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
