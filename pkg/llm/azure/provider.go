// Package azure implements the LLM provider contract against an Azure
// OpenAI deployment using the REST chat-completions API.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shareholder-qa-sim/pkg/llm"
)

const apiVersion = "2023-05-15"

type AzureProvider struct {
	Endpoint   string // e.g. https://myresource.openai.azure.com
	Deployment string
	APIKey     string
	Client     *http.Client
}

var _ llm.LLMProvider = &AzureProvider{}

func NewAzureProvider(endpoint, deployment, apiKey string) *AzureProvider {
	return &AzureProvider{
		Endpoint:   endpoint,
		Deployment: deployment,
		APIKey:     apiKey,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type azureChatRequest struct {
	Messages    []azureMessage `json:"messages"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
	Temperature float64        `json:"temperature,omitempty"`
}

type azureMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type azureChatResponse struct {
	Choices []struct {
		Message azureMessage `json:"message"`
	} `json:"choices"`
}

func (a *AzureProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if a.APIKey == "" || a.Endpoint == "" || a.Deployment == "" {
		return "", llm.ErrProviderUnavailable
	}

	options := &llm.Options{
		Temperature: 0.7,
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]azureMessage, len(history))
	for i, msg := range history {
		messages[i] = azureMessage{Role: msg.Role, Content: msg.Content}
	}

	reqPayload := azureChatRequest{
		Messages:    messages,
		Temperature: options.Temperature,
	}
	if options.MaxTokens > 0 {
		reqPayload.MaxTokens = options.MaxTokens
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", llm.ErrGenerationFailed, err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		a.Endpoint, a.Deployment, apiVersion)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", llm.ErrGenerationFailed, err)
	}
	req.Header.Set("api-key", a.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: azure request: %v", llm.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", llm.ErrGenerationFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: azure status %d: %s", llm.ErrGenerationFailed, resp.StatusCode, string(bodyBytes))
	}

	var azureResp azureChatResponse
	if err := json.Unmarshal(bodyBytes, &azureResp); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", llm.ErrGenerationFailed, err)
	}
	if len(azureResp.Choices) == 0 {
		return "", fmt.Errorf("%w: azure returned no choices", llm.ErrGenerationFailed)
	}

	return azureResp.Choices[0].Message.Content, nil
}

func (a *AzureProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, opts ...llm.Option) (string, error) {
	history := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
	return a.Chat(ctx, history, opts...)
}
