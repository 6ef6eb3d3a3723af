package insight

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"

	"github.com/MrSnakeDoc/chronos/internal/domain"
)

const (
	// FallbackUnavailable is returned when the insight request fails.
	FallbackUnavailable = "AI service is currently unavailable. Please check your API key."
	// FallbackEmpty is returned when the model answers with no text.
	FallbackEmpty = "Unable to generate insights at this time."

	insightSystemInstruction = "You are a world-class cognitive science expert specializing in learning efficiency."

	chatSystemInstruction = "You are an expert DevOps Sensei and AI mentor named 'Dojo AI'. " +
		"Your goal is to help the user master DevOps concepts, create learning roadmaps, " +
		"explain complex architectures, and provide mindmap structures. " +
		"Be concise, technical, and practical. Use Markdown for formatting code, lists, and tables."

	// localeDateLayout renders dates as M/D/YYYY.
	localeDateLayout = "1/2/2006"
)

const insightPromptTemplate = `You are an expert productivity coach using the Chronos learning system.
Analyze the following learning session data for the user.

Current Focus Topic: %s

Session History (last %d sessions):
%s

Please provide a concise, markdown-formatted response with:
1. A brief analysis of their deep work habits (Focus vs Break balance).
2. Specific advice to improve learning retention for the topic "%s".
3. A suggested "Power Schedule" for their next session.

Keep the tone encouraging but analytical. Use emojis sparingly.`

const topicPromptTemplate = `Suggest 5 advanced sub-topics or related skills for someone learning "%s".`

// promptLog is the per-session shape embedded in the insight prompt.
type promptLog struct {
	Date     string `json:"date"`
	Mode     string `json:"mode"`
	Duration string `json:"duration"`
	Topic    string `json:"topic"`
	Tags     string `json:"tags"`
}

func toPromptLogs(logs []domain.SessionLog, loc *time.Location) []promptLog {
	if loc == nil {
		loc = time.Local
	}
	entries := make([]promptLog, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, promptLog{
			Date:     l.Time().In(loc).Format(localeDateLayout),
			Mode:     string(l.Mode),
			Duration: fmt.Sprintf("%d mins", int(math.Round(l.DurationSeconds/60))),
			Topic:    l.Topic,
			Tags:     strings.Join(l.Tags, ", "),
		})
	}
	return entries
}

func buildInsightPrompt(logs []domain.SessionLog, currentTopic string, loc *time.Location) (string, error) {
	history, err := sonic.MarshalString(toPromptLogs(logs, loc))
	if err != nil {
		return "", fmt.Errorf("failed to encode session history: %w", err)
	}
	return fmt.Sprintf(insightPromptTemplate, currentTopic, len(logs), history, currentTopic), nil
}

func buildTopicPrompt(interest string) string {
	return fmt.Sprintf(topicPromptTemplate, interest)
}

func userContents(prompt string) []*genai.Content {
	return []*genai.Content{{
		Role:  string(genai.RoleUser),
		Parts: []*genai.Part{{Text: prompt}},
	}}
}

func systemContent(instruction string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: instruction}}}
}

// topicListSchema constrains the model to a JSON array of strings.
func topicListSchema() *genai.Schema {
	return &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}
}

// parseTopics decodes the structured response and checks its shape
// explicitly: a top-level array whose elements are all strings.
func parseTopics(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "[]"
	}

	var raw interface{}
	if err := sonic.UnmarshalString(text, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode topics: %w", err)
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("topics response is %T, want array", raw)
	}

	topics := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("topic %d is %T, want string", i, item)
		}
		topics = append(topics, s)
	}
	return topics, nil
}
