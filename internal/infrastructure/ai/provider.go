package ai

import (
	"fmt"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ports"
	"github.com/jeffperkel/CPG-POD-TEST/pkg/config"
)

// NewFromConfig elige el adaptador según AI_PROVIDER.
// Devuelve (nil, nil) con "none" o sin API key: el asistente responde entonces ErrAIUnavailable.
func NewFromConfig(cfg config.AIConfig, opts ...Option) (ports.LLMService, error) {
	switch cfg.Provider {
	case "", "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, nil
		}
		opts = append([]Option{WithBaseURL(cfg.OpenAIBaseURL)}, opts...)
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, opts...), nil
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, nil
		}
		return NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel, opts...), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, nil
		}
		return NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel, opts...), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("AI_PROVIDER desconocido: %q", cfg.Provider)
	}
}
