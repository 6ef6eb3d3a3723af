package insight

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Backend is the slice of the Gemini API the service depends on.
type Backend interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	StartChat(ctx context.Context, model string, config *genai.GenerateContentConfig) (ChatSession, error)
}

// ChatSession is a multi-turn conversation handle.
type ChatSession interface {
	SendMessage(ctx context.Context, text string) (string, error)
	History() []Turn
}

// Turn is one message of a chat history.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// GeminiBackend adapts a genai client to Backend.
type GeminiBackend struct {
	client *genai.Client
}

// GeminiConfig holds what the SDK client needs. BaseURL and HTTPClient are
// optional; empty values keep the SDK defaults.
type GeminiConfig struct {
	APIKey     string
	BaseURL    string // ex: a proxy in front of generativelanguage.googleapis.com
	HTTPClient *http.Client
}

// NewGeminiBackend builds a Gemini API client.
func NewGeminiBackend(ctx context.Context, cfg GeminiConfig) (*GeminiBackend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  cfg.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiBackend{client: client}, nil
}

func (b *GeminiBackend) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return b.client.Models.GenerateContent(ctx, model, contents, config)
}

func (b *GeminiBackend) StartChat(ctx context.Context, model string, config *genai.GenerateContentConfig) (ChatSession, error) {
	chat, err := b.client.Chats.Create(ctx, model, config, nil)
	if err != nil {
		return nil, err
	}
	return &geminiChat{chat: chat}, nil
}

type geminiChat struct {
	chat *genai.Chat
}

func (c *geminiChat) SendMessage(ctx context.Context, text string) (string, error) {
	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (c *geminiChat) History() []Turn {
	return turnsFromContents(c.chat.History(false))
}

func turnsFromContents(contents []*genai.Content) []Turn {
	turns := make([]Turn, 0, len(contents))
	for _, content := range contents {
		if content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range content.Parts {
			if part != nil {
				sb.WriteString(part.Text)
			}
		}
		turns = append(turns, Turn{Role: content.Role, Text: sb.String()})
	}
	return turns
}

// unavailableBackend stands in when the SDK client could not be built, so
// generation still fails soft and chat creation still fails hard.
type unavailableBackend struct {
	err error
}

// UnavailableBackend returns a Backend whose every call fails with err.
func UnavailableBackend(err error) Backend {
	return &unavailableBackend{err: err}
}

func (b *unavailableBackend) GenerateContent(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return nil, b.err
}

func (b *unavailableBackend) StartChat(context.Context, string, *genai.GenerateContentConfig) (ChatSession, error) {
	return nil, b.err
}
