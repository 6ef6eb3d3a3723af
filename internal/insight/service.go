// Package insight builds Gemini requests for productivity insights, topic
// suggestions and the mentor chat, and shapes the responses.
//
// The two generation calls fail soft: the caller always gets a usable value
// and errors only reach the log. Chat creation fails hard and returns its
// error, since the caller asked for a resource it has to handle.
package insight

import (
	"context"
	"time"

	"google.golang.org/genai"

	"github.com/MrSnakeDoc/chronos/internal/domain"
	"github.com/MrSnakeDoc/chronos/internal/logger"
)

const (
	DefaultInsightModel   = "gemini-3-pro-preview"
	DefaultTopicModel     = "gemini-2.5-flash"
	DefaultChatModel      = "gemini-3-pro-preview"
	DefaultThinkingBudget = 1024
	DefaultHistorySize    = 20

	jsonMIMEType = "application/json"
)

// Config selects models and prompt limits. It holds no credentials: the API
// key is consumed when the Backend is built.
type Config struct {
	InsightModel   string
	TopicModel     string
	ChatModel      string
	ThinkingBudget int32
	HistorySize    int            // most recent logs embedded in the insight prompt
	Location       *time.Location // zone used to render log dates
}

// DefaultConfig returns the stock model selection.
func DefaultConfig() Config {
	return Config{
		InsightModel:   DefaultInsightModel,
		TopicModel:     DefaultTopicModel,
		ChatModel:      DefaultChatModel,
		ThinkingBudget: DefaultThinkingBudget,
		HistorySize:    DefaultHistorySize,
		Location:       time.Local,
	}
}

// Service is safe for concurrent use; it keeps no per-call state.
type Service struct {
	backend Backend
	cfg     Config
	log     logger.Logger
}

// New returns a Service. Zero Config fields take their defaults.
func New(backend Backend, cfg Config, log logger.Logger) *Service {
	def := DefaultConfig()
	if cfg.InsightModel == "" {
		cfg.InsightModel = def.InsightModel
	}
	if cfg.TopicModel == "" {
		cfg.TopicModel = def.TopicModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = def.ChatModel
	}
	if cfg.ThinkingBudget <= 0 {
		cfg.ThinkingBudget = def.ThinkingBudget
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = def.HistorySize
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Service{
		backend: backend,
		cfg:     cfg,
		log:     log,
	}
}

// GenerateProductivityInsights asks the model for a markdown analysis of the
// most recent session logs. It never returns an error: failures are logged
// and replaced with FallbackUnavailable.
func (s *Service) GenerateProductivityInsights(ctx context.Context, logs []domain.SessionLog, currentTopic string) string {
	recent := domain.RecentLogs(logs, s.cfg.HistorySize)

	prompt, err := buildInsightPrompt(recent, currentTopic, s.cfg.Location)
	if err != nil {
		s.log.Error("failed to build insight prompt", logger.Error(err))
		return FallbackUnavailable
	}

	budget := s.cfg.ThinkingBudget
	resp, err := s.backend.GenerateContent(ctx, s.cfg.InsightModel, userContents(prompt), &genai.GenerateContentConfig{
		SystemInstruction: systemContent(insightSystemInstruction),
		ThinkingConfig:    &genai.ThinkingConfig{ThinkingBudget: &budget},
	})
	if err != nil {
		s.log.Error("gemini insight request failed",
			logger.String("model", s.cfg.InsightModel),
			logger.Int("logs", len(recent)),
			logger.Error(err))
		return FallbackUnavailable
	}

	text := responseText(resp)
	if text == "" {
		s.log.Warn("gemini returned empty insight",
			logger.String("model", s.cfg.InsightModel))
		return FallbackEmpty
	}

	s.log.Debug("generated productivity insights",
		logger.Int("logs", len(recent)),
		logger.Int("chars", len(text)))
	return text
}

// GenerateTopicSuggestions asks for five advanced sub-topics of interest as a
// JSON array of strings. Any failure yields an empty, non-nil slice.
func (s *Service) GenerateTopicSuggestions(ctx context.Context, interest string) []string {
	resp, err := s.backend.GenerateContent(ctx, s.cfg.TopicModel, userContents(buildTopicPrompt(interest)), &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMIMEType,
		ResponseSchema:   topicListSchema(),
	})
	if err != nil {
		s.log.Error("gemini topic request failed",
			logger.String("model", s.cfg.TopicModel),
			logger.Error(err))
		return []string{}
	}

	topics, err := parseTopics(responseText(resp))
	if err != nil {
		s.log.Error("gemini topic response rejected",
			logger.String("model", s.cfg.TopicModel),
			logger.Error(err))
		return []string{}
	}

	return topics
}

// CreateChatSession opens a mentor conversation with no history. Errors are
// returned as is.
func (s *Service) CreateChatSession(ctx context.Context) (ChatSession, error) {
	return s.backend.StartChat(ctx, s.cfg.ChatModel, &genai.GenerateContentConfig{
		SystemInstruction: systemContent(chatSystemInstruction),
	})
}

// Config returns the effective configuration.
func (s *Service) Config() Config {
	return s.cfg
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Text()
}
