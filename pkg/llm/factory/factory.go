package factory

import (
	"fmt"

	"github.com/cridiv/Aedar/pkg/llm"
	"github.com/cridiv/Aedar/pkg/llm/gemini"
	"github.com/cridiv/Aedar/pkg/llm/ollama"
)

func NewStructuredGenerator(providerType, modelName, baseURL, apiKey string) (llm.StructuredGenerator, error) {
	switch providerType {
	case "gemini", "":
		if apiKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		p := gemini.NewGeminiProvider(apiKey, modelName)
		if baseURL != "" {
			p.BaseURL = baseURL
		}
		return p, nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
