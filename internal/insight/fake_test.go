package insight

import (
	"context"
	"sync"

	"google.golang.org/genai"
)

// generateCall records one outbound GenerateContent request.
type generateCall struct {
	Model    string
	Contents []*genai.Content
	Config   *genai.GenerateContentConfig
}

func (c generateCall) Prompt() string {
	if len(c.Contents) == 0 || len(c.Contents[0].Parts) == 0 {
		return ""
	}
	return c.Contents[0].Parts[0].Text
}

// fakeBackend answers with canned text or errors and captures requests.
type fakeBackend struct {
	mu sync.Mutex

	Text    string
	Err     error
	Chat    ChatSession
	ChatErr error

	Calls     []generateCall
	ChatModel string
	ChatCfg   *genai.GenerateContentConfig
}

func (f *fakeBackend) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, generateCall{Model: model, Contents: contents, Config: config})
	if f.Err != nil {
		return nil, f.Err
	}
	return textResponse(f.Text), nil
}

func (f *fakeBackend) StartChat(_ context.Context, model string, config *genai.GenerateContentConfig) (ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ChatModel = model
	f.ChatCfg = config
	if f.ChatErr != nil {
		return nil, f.ChatErr
	}
	return f.Chat, nil
}

func (f *fakeBackend) lastCall() generateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[len(f.Calls)-1]
}

func textResponse(text string) *genai.GenerateContentResponse {
	if text == "" {
		return &genai.GenerateContentResponse{}
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: text}},
			},
		}},
	}
}

// stubChat is a ChatSession that echoes messages back.
type stubChat struct {
	turns []Turn
}

func (c *stubChat) SendMessage(_ context.Context, text string) (string, error) {
	reply := "echo: " + text
	c.turns = append(c.turns, Turn{Role: "user", Text: text}, Turn{Role: "model", Text: reply})
	return reply, nil
}

func (c *stubChat) History() []Turn {
	return c.turns
}
