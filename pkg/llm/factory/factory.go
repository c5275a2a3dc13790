package factory

import (
	"fmt"

	"shareholder-qa-sim/pkg/llm"
	"shareholder-qa-sim/pkg/llm/azure"
	"shareholder-qa-sim/pkg/llm/ollama"
)

// NewLLMProvider builds the configured provider. An empty provider type
// is a valid configuration: the dialogue participants then run entirely
// on their deterministic fallbacks.
func NewLLMProvider(providerType, modelName, ollamaBaseURL, azureEndpoint, azureDeployment, azureAPIKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	case "azure":
		return azure.NewAzureProvider(azureEndpoint, azureDeployment, azureAPIKey), nil
	case "", "none":
		return llm.Disabled(), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
