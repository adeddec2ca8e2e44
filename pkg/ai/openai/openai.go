package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	openai "github.com/sashabaranov/go-openai"

	"github.com/postpilot-ai/postpilot/pkg/ai"
)

const (
	NAME = "openai"
)

// Driver speaks any OpenAI-compatible endpoint. In production the chat model
// is usually served by Groq through the proxy BaseURL, embeddings and vision
// by OpenAI itself; the wire protocol is the same.
type Driver struct {
	client    *openai.Client
	model     ai.ModelName
	dimension int
}

func New(token, proxy string, model ai.ModelName, dimension int) *Driver {
	cfg := openai.DefaultConfig(token)
	if proxy != "" {
		cfg.BaseURL = proxy
	}

	if model.ChatModel == "" {
		model.ChatModel = openai.GPT4oMini
	}
	if model.EmbeddingModel == "" {
		model.EmbeddingModel = string(openai.SmallEmbedding3)
	}
	if model.VisionModel == "" {
		model.VisionModel = model.ChatModel
	}
	if dimension <= 0 {
		dimension = 768
	}

	return &Driver{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		dimension: dimension,
	}
}

func (s *Driver) Lang() string {
	return ai.MODEL_BASE_LANGUAGE_EN
}

func (s *Driver) Dimension() int {
	return s.dimension
}

func (s *Driver) embedding(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	slog.Debug("Embedding", slog.String("driver", NAME))
	queryReq := openai.EmbeddingRequest{
		Model:      openai.EmbeddingModel(s.model.EmbeddingModel),
		Dimensions: s.dimension,
	}

	var (
		groups   [][]string
		result   [][]float32
		batchMax = 6
	)

	for i, v := range content {
		if i%batchMax == 0 {
			groups = append(groups, []string{})
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], v)
	}

	r := ai.EmbeddingResult{
		Usage: &openai.Usage{},
	}
	for _, v := range groups {
		queryReq.Input = v
		resp, err := s.client.CreateEmbeddings(ctx, queryReq)
		if err != nil {
			return r, fmt.Errorf("Error creating embedding: %w", err)
		}
		for _, d := range resp.Data {
			if len(d.Embedding) != s.dimension {
				return r, fmt.Errorf("embedding dimension %d, declared %d", len(d.Embedding), s.dimension)
			}
			result = append(result, d.Embedding)
		}

		r.Usage.CompletionTokens += resp.Usage.CompletionTokens
		r.Usage.PromptTokens += resp.Usage.PromptTokens
		r.Usage.TotalTokens += resp.Usage.TotalTokens
		r.Model = string(resp.Model)
	}

	r.Data = result

	return r, nil
}

func (s *Driver) EmbeddingForQuery(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	return s.embedding(ctx, content)
}

func (s *Driver) EmbeddingForDocument(ctx context.Context, title string, content []string) (ai.EmbeddingResult, error) {
	return s.embedding(ctx, content)
}

func (s *Driver) Generate(ctx context.Context, messages []ai.Message, maxTokens int) (ai.GenerateResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:       s.model.ChatModel,
		Temperature: 0.7,
		MaxTokens:   maxTokens,
		Messages: lo.Map(messages, func(item ai.Message, _ int) openai.ChatCompletionMessage {
			return openai.ChatCompletionMessage{
				Role:    item.Role,
				Content: item.Content,
			}
		}),
	}

	var result ai.GenerateResponse
	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil || len(resp.Choices) == 0 {
		return result, fmt.Errorf("Completion error: err:%v len(choices):%v", err, len(resp.Choices))
	}

	slog.Debug("Generate", slog.String("driver", NAME), slog.String("model", s.model.ChatModel))

	result.Message = resp.Choices[0].Message.Content
	result.Model = resp.Model
	result.Usage = &resp.Usage

	return result, nil
}

func (s *Driver) ExtractFacts(ctx context.Context, imageData []byte, mimeType, caption string) (ai.VisionResult, error) {
	slog.Debug("ExtractFacts", slog.String("driver", NAME))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	imageURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))

	prompt := ai.ReplaceVars(ai.PROMPT_EXTRACT_FACTS_EN, map[string]string{
		ai.PROMPT_VAR_CAPTION: caption,
	})

	req := openai.ChatCompletionRequest{
		Model:       s.model.VisionModel,
		Temperature: 0.1,
		MaxTokens:   120,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    imageURL,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
	}

	var result ai.VisionResult
	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil || len(resp.Choices) == 0 {
		return result, fmt.Errorf("Completion error: err:%v len(choices):%v", err, len(resp.Choices))
	}

	facts, err := ai.ParseFactsJSON(resp.Choices[0].Message.Content)
	if err != nil {
		return result, fmt.Errorf("failed to parse facts from vision output, %w", err)
	}

	result.Facts = facts
	result.Model = resp.Model
	result.Usage = &resp.Usage
	return result, nil
}
