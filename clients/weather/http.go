// Package weather reads current conditions from OpenWeatherMap.
package weather

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

const DefaultApiHost = "https://api.openweathermap.org"

type clientImpl struct {
	apiHost    string
	apiKey     string
	httpClient *http.Client
}

type Config struct {
	ApiHost    string
	ApiKey     string
	HTTPClient *http.Client
}

func NewClient(cfg *Config) (WeatherAPI, error) {
	if cfg == nil {
		return nil, errors.New("missing parameter: cfg")
	}

	if cfg.ApiKey == "" {
		return nil, errors.New("missing parameter: cfg.ApiKey")
	}

	client := &clientImpl{
		apiHost:    strings.TrimRight(cfg.ApiHost, "/"),
		apiKey:     cfg.ApiKey,
		httpClient: cfg.HTTPClient,
	}

	if client.apiHost == "" {
		client.apiHost = DefaultApiHost
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return client, nil
}

type currentResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

func (client *clientImpl) Current(ctx context.Context, city string) (*Report, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", client.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.apiHost+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather for %q: %s", city, resp.Status)
	}

	var out currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode weather: %w", err)
	}

	if len(out.Weather) == 0 {
		return nil, fmt.Errorf("weather for %q: no conditions in response", city)
	}

	return &Report{
		City:        city,
		Description: out.Weather[0].Description,
		Temperature: out.Main.Temp,
	}, nil
}
