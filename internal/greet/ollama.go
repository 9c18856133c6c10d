package greet

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/rail44/roster/internal/user"
)

// DefaultOllamaHost is used when no host is configured
const DefaultOllamaHost = "http://localhost:11434"

const systemPrompt = `You write one short, friendly greeting line for a person.
Reply with the greeting only: no quotes, no explanations, at most 15 words.`

// Ollama asks a local Ollama model to write the greeting
type Ollama struct {
	client *api.Client
	model  string
}

// NewOllama creates an Ollama greeter. An empty host uses DefaultOllamaHost.
func NewOllama(host, model string, httpClient *http.Client) (*Ollama, error) {
	if host == "" {
		host = DefaultOllamaHost
	}
	hostURL, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid host URL: %w", err)
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Ollama{
		client: api.NewClient(hostURL, httpClient),
		model:  model,
	}, nil
}

// Greet asks the model for a greeting. An empty reply falls back to u.Hello().
func (o *Ollama) Greet(ctx context.Context, u *user.User) (string, error) {
	stream := false
	var reply strings.Builder

	err := o.client.Chat(ctx, &api.ChatRequest{
		Model: o.model,
		Messages: []api.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Greet %s (email: %s).", displayName(u), u.Email)},
		},
		Stream: &stream,
		Options: map[string]any{
			"temperature": 0.7,
		},
	}, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("chat failed: %w", err)
	}

	greeting := strings.TrimSpace(reply.String())
	if greeting == "" {
		return u.Hello(), nil
	}
	// Keep the first line only
	if i := strings.IndexByte(greeting, '\n'); i >= 0 {
		greeting = strings.TrimSpace(greeting[:i])
	}
	return greeting, nil
}

// CheckModel verifies the configured model is available
func (o *Ollama) CheckModel(ctx context.Context) error {
	if _, err := o.client.Show(ctx, &api.ShowRequest{Model: o.model}); err != nil {
		return fmt.Errorf("model %s not found: %w", o.model, err)
	}
	return nil
}

func displayName(u *user.User) string {
	if u.Name != "" {
		return u.Name
	}
	if local, _, ok := strings.Cut(u.Email, "@"); ok && local != "" {
		return local
	}
	return "friend"
}
