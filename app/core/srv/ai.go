package srv

import (
	"fmt"
	"strings"

	"github.com/postpilot-ai/postpilot/pkg/ai"
	"github.com/postpilot-ai/postpilot/pkg/ai/gemini"
	"github.com/postpilot-ai/postpilot/pkg/ai/openai"
)

// AIConfig declares the provider pool and which provider serves each usage.
// The same provider may serve several usages; OpenAI-compatible endpoints
// (OpenAI, Groq, OpenRouter) all go through the openai driver.
type AIConfig struct {
	Providers []ProviderConfig `toml:"providers"`
	Usage     Usage            `toml:"usage"`
}

type ProviderConfig struct {
	Name      string       `toml:"name"`
	Driver    string       `toml:"driver"` // openai | gemini
	Token     string       `toml:"token"`
	Endpoint  string       `toml:"endpoint"`
	Dimension int          `toml:"dimension"`
	Models    ai.ModelName `toml:"models"`
}

type Usage struct {
	Chat      string `toml:"chat"`
	Embedding string `toml:"embedding"`
	Vision    string `toml:"vision"`
}

type AI struct {
	chatDrivers   map[string]ai.ChatAI
	embedDrivers  map[string]ai.EmbeddingAI
	visionDrivers map[string]ai.VisionAI

	chatDefault   ai.ChatAI
	embedDefault  ai.EmbeddingAI
	visionDefault ai.VisionAI

	usage Usage
}

func SetupAI(cfg AIConfig) (*AI, error) {
	a := &AI{
		chatDrivers:   make(map[string]ai.ChatAI),
		embedDrivers:  make(map[string]ai.EmbeddingAI),
		visionDrivers: make(map[string]ai.VisionAI),
		usage:         cfg.Usage,
	}

	for _, v := range cfg.Providers {
		switch strings.ToLower(v.Driver) {
		case gemini.NAME:
			// gemini driver covers vision and embeddings only
			d := gemini.New(v.Token, v.Models)
			a.embedDrivers[v.Name] = d
			a.visionDrivers[v.Name] = d
			if a.embedDefault == nil {
				a.embedDefault = d
			}
			if a.visionDefault == nil {
				a.visionDefault = d
			}
		case openai.NAME, "":
			d := openai.New(v.Token, v.Endpoint, v.Models, v.Dimension)
			a.chatDrivers[v.Name] = d
			a.embedDrivers[v.Name] = d
			a.visionDrivers[v.Name] = d
			if a.chatDefault == nil {
				a.chatDefault = d
			}
			if a.embedDefault == nil {
				a.embedDefault = d
			}
			if a.visionDefault == nil {
				a.visionDefault = d
			}
		default:
			return nil, fmt.Errorf("unknown ai driver %q for provider %q", v.Driver, v.Name)
		}
	}

	// usage entries override the provider-order defaults
	var ok bool
	if cfg.Usage.Chat != "" {
		if a.chatDefault, ok = a.chatDrivers[cfg.Usage.Chat]; !ok {
			return nil, fmt.Errorf("usage.chat refers to unknown provider %q", cfg.Usage.Chat)
		}
	}
	if cfg.Usage.Embedding != "" {
		if a.embedDefault, ok = a.embedDrivers[cfg.Usage.Embedding]; !ok {
			return nil, fmt.Errorf("usage.embedding refers to unknown provider %q", cfg.Usage.Embedding)
		}
	}
	if cfg.Usage.Vision != "" {
		if a.visionDefault, ok = a.visionDrivers[cfg.Usage.Vision]; !ok {
			return nil, fmt.Errorf("usage.vision refers to unknown provider %q", cfg.Usage.Vision)
		}
	}

	return a, nil
}

func (a *AI) GetChatAI() ai.ChatAI {
	return a.chatDefault
}

func (a *AI) GetEmbedAI() ai.EmbeddingAI {
	return a.embedDefault
}

func (a *AI) GetVisionAI() ai.VisionAI {
	return a.visionDefault
}

func (a *AI) Status() map[string]interface{} {
	return map[string]interface{}{
		"chat_available":   a.chatDefault != nil,
		"embed_available":  a.embedDefault != nil,
		"vision_available": a.visionDefault != nil,
	}
}
