package ai_bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultApiHost = "https://api.openai.com/v1"
	DefaultModel   = "gpt-3.5-turbo"
)

type clientImpl struct {
	apiHost    string
	apiKey     string
	model      string
	httpClient *http.Client
}

type Config struct {
	ApiHost    string
	ApiKey     string
	Model      string
	HTTPClient *http.Client
}

func NewClient(cfg *Config) (AIBotAPI, error) {
	if cfg == nil {
		return nil, errors.New("missing parameter: cfg")
	}

	if cfg.ApiKey == "" {
		return nil, errors.New("missing parameter: cfg.ApiKey")
	}

	client := &clientImpl{
		apiHost:    strings.TrimRight(cfg.ApiHost, "/"),
		apiKey:     cfg.ApiKey,
		model:      cfg.Model,
		httpClient: cfg.HTTPClient,
	}

	if client.apiHost == "" {
		client.apiHost = DefaultApiHost
	}

	if client.model == "" {
		client.model = DefaultModel
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return client, nil
}

type completionRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (client *clientImpl) Complete(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:     client.model,
		Messages:  messages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, client.apiHost+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+client.apiKey)

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var out completionResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decode completion (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if out.Error != nil {
			return "", fmt.Errorf("chat completion failed: %s: %s", resp.Status, out.Error.Message)
		}
		return "", fmt.Errorf("chat completion failed: %s", resp.Status)
	}

	if len(out.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
