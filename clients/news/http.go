// Package news reads top headlines from NewsAPI.
package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultApiHost = "https://newsapi.org"
	DefaultCountry = "us"
)

type clientImpl struct {
	apiHost    string
	apiKey     string
	country    string
	httpClient *http.Client
}

type Config struct {
	ApiHost    string
	ApiKey     string
	Country    string
	HTTPClient *http.Client
}

func NewClient(cfg *Config) (NewsAPI, error) {
	if cfg == nil {
		return nil, errors.New("missing parameter: cfg")
	}

	if cfg.ApiKey == "" {
		return nil, errors.New("missing parameter: cfg.ApiKey")
	}

	client := &clientImpl{
		apiHost:    strings.TrimRight(cfg.ApiHost, "/"),
		apiKey:     cfg.ApiKey,
		country:    cfg.Country,
		httpClient: cfg.HTTPClient,
	}

	if client.apiHost == "" {
		client.apiHost = DefaultApiHost
	}

	if client.country == "" {
		client.country = DefaultCountry
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return client, nil
}

type headlinesResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title string `json:"title"`
	} `json:"articles"`
}

func (client *clientImpl) Headlines(ctx context.Context, limit int) ([]string, error) {
	q := url.Values{}
	q.Set("country", client.country)
	q.Set("apiKey", client.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.apiHost+"/v2/top-headlines?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	var out headlinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode headlines (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || out.Status == "error" {
		return nil, fmt.Errorf("top headlines failed: %s: %s", resp.Status, out.Message)
	}

	titles := make([]string, 0, limit)
	for _, article := range out.Articles {
		if limit > 0 && len(titles) == limit {
			break
		}

		titles = append(titles, article.Title)
	}

	return titles, nil
}
