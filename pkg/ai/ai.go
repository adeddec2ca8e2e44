package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sashabaranov/go-openai"
)

const (
	MODEL_BASE_LANGUAGE_EN = "English"
)

// ModelName declares which models a provider entry serves.
type ModelName struct {
	ChatModel      string `toml:"chat_model"`
	EmbeddingModel string `toml:"embedding_model"`
	VisionModel    string `toml:"vision_model"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func SystemMessage(content string) Message {
	return Message{Role: openai.ChatMessageRoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: openai.ChatMessageRoleUser, Content: content}
}

type EmbeddingResult struct {
	Data  [][]float32
	Model string
	Usage *openai.Usage
}

type GenerateResponse struct {
	Message string
	Model   string
	Usage   *openai.Usage
}

type VisionResult struct {
	Facts map[string]string
	Model string
	Usage *openai.Usage
}

// ChatAI produces a bounded chat completion.
type ChatAI interface {
	Generate(ctx context.Context, messages []Message, maxTokens int) (GenerateResponse, error)
	Lang() string
}

// EmbeddingAI maps text to fixed-dimension vectors. Implementations must
// return vectors of exactly Dimension() or fail explicitly; a mismatch must
// never reach the vector store silently.
type EmbeddingAI interface {
	EmbeddingForQuery(ctx context.Context, content []string) (EmbeddingResult, error)
	EmbeddingForDocument(ctx context.Context, title string, content []string) (EmbeddingResult, error)
	Dimension() int
}

// VisionAI extracts compact key facts from an image + caption.
type VisionAI interface {
	ExtractFacts(ctx context.Context, imageData []byte, mimeType, caption string) (VisionResult, error)
}

// ParseFactsJSON pulls the facts object out of a model reply. Models wrap
// JSON in fences or prose often enough that we scan for the outermost braces
// instead of trusting the whole payload.
func ParseFactsJSON(raw string) (map[string]string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no json object in model output")
	}

	var facts map[string]string
	if err := json.Unmarshal([]byte(raw[start:end+1]), &facts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal facts, %w", err)
	}

	for k, v := range facts {
		if strings.EqualFold(v, "unknown") || v == "" {
			delete(facts, k)
		}
	}
	return facts, nil
}

// CountTokens counts tokens of plain text with tiktoken, falling back to a
// bytes/4 estimate for models tiktoken doesn't know.
func CountTokens(text, model string) int {
	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		tkm, err = tiktoken.GetEncoding("cl100k_base")
	}
	if err != nil {
		return len(text) / 4
	}
	return len(tkm.Encode(text, nil, nil))
}

// NumTokens counts a full chat request the way the OpenAI cookbook does.
func NumTokens(messages []openai.ChatCompletionMessage, model string) (numTokens int, err error) {
	tokensPerMessage := 3
	tokensPerName := 1
	if strings.HasPrefix(model, "gpt-3.5-turbo") {
		tokensPerMessage = 4
		tokensPerName = -1
	}

	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		if tkm, err = tiktoken.GetEncoding("cl100k_base"); err != nil {
			return 0, fmt.Errorf("encoding for model: %w", err)
		}
	}

	for _, message := range messages {
		numTokens += tokensPerMessage
		numTokens += len(tkm.Encode(message.Content, nil, nil))
		numTokens += len(tkm.Encode(message.Role, nil, nil))
		if message.Name != "" {
			numTokens += len(tkm.Encode(message.Name, nil, nil))
			numTokens += tokensPerName
		}
	}
	numTokens += 3 // every reply is primed with <|start|>assistant<|message|>
	return numTokens, nil
}

// EstimateUsage sums prompt and completion tokens from a usage block, or
// estimates from text when the provider returns nothing.
func EstimateUsage(usage *openai.Usage, prompt, completion, model string) int {
	if usage != nil && usage.TotalTokens > 0 {
		return usage.TotalTokens
	}
	return CountTokens(prompt, model) + CountTokens(completion, model)
}
