package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/postpilot-ai/postpilot/pkg/ai"
)

const (
	NAME = "gemini"

	defaultVisionModel    = "gemini-1.5-flash"
	defaultEmbeddingModel = "text-embedding-004"
	defaultDimension      = 768
)

// Driver covers the Gemini side of the stack: cheap flash vision for fact
// extraction and text-embedding-004 for vectors.
type Driver struct {
	client    *genai.Client
	model     ai.ModelName
	dimension int
}

func New(token string, model ai.ModelName) *Driver {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(token))
	if err != nil {
		panic(err)
	}

	if model.VisionModel == "" {
		model.VisionModel = defaultVisionModel
	}
	if model.EmbeddingModel == "" {
		model.EmbeddingModel = defaultEmbeddingModel
	}

	return &Driver{
		client:    client,
		model:     model,
		dimension: defaultDimension,
	}
}

func (s *Driver) Lang() string {
	return ai.MODEL_BASE_LANGUAGE_EN
}

func (s *Driver) Dimension() int {
	return s.dimension
}

func (s *Driver) embedding(ctx context.Context, title string, content []string) (ai.EmbeddingResult, error) {
	slog.Debug("Embedding", slog.String("driver", NAME))
	em := s.client.EmbeddingModel(s.model.EmbeddingModel)
	if title != "" {
		em.TaskType = genai.TaskTypeRetrievalDocument
	} else {
		em.TaskType = genai.TaskTypeRetrievalQuery
	}

	result := ai.EmbeddingResult{
		Model: s.model.EmbeddingModel,
	}
	for _, v := range content {
		res, err := em.EmbedContentWithTitle(ctx, title, genai.Text(v))
		if err != nil {
			return result, err
		}
		if len(res.Embedding.Values) != s.dimension {
			return result, fmt.Errorf("embedding dimension %d, declared %d", len(res.Embedding.Values), s.dimension)
		}
		result.Data = append(result.Data, res.Embedding.Values)
	}

	return result, nil
}

func (s *Driver) EmbeddingForQuery(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	return s.embedding(ctx, "", content)
}

func (s *Driver) EmbeddingForDocument(ctx context.Context, title string, content []string) (ai.EmbeddingResult, error) {
	return s.embedding(ctx, title, content)
}

func (s *Driver) ExtractFacts(ctx context.Context, imageData []byte, mimeType, caption string) (ai.VisionResult, error) {
	slog.Debug("ExtractFacts", slog.String("driver", NAME))

	format := strings.TrimPrefix(mimeType, "image/")
	if format == "" {
		format = "jpeg"
	}

	prompt := ai.ReplaceVars(ai.PROMPT_EXTRACT_FACTS_EN, map[string]string{
		ai.PROMPT_VAR_CAPTION: caption,
	})

	model := s.client.GenerativeModel(s.model.VisionModel)
	model.SetTemperature(0.1)

	resp, err := model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.ImageData(format, imageData),
	)
	if err != nil {
		return ai.VisionResult{}, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ai.VisionResult{}, fmt.Errorf("gemini returned no candidates")
	}

	b := strings.Builder{}
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	facts, err := ai.ParseFactsJSON(b.String())
	if err != nil {
		return ai.VisionResult{}, fmt.Errorf("failed to parse facts from vision output, %w", err)
	}

	return ai.VisionResult{
		Facts: facts,
		Model: s.model.VisionModel,
	}, nil
}
