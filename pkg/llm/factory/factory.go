package factory

import (
	"fmt"

	"github.com/soujanyavullam/epic-web-app/pkg/llm"
	"github.com/soujanyavullam/epic-web-app/pkg/llm/gemini"
	"github.com/soujanyavullam/epic-web-app/pkg/llm/ollama"
)

func NewProvider(providerType, modelName, baseURL, geminiKey string) (llm.Provider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "gemini":
		return gemini.NewGeminiProvider(geminiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
