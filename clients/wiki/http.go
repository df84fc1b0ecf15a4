// Package wiki searches Wikipedia through the MediaWiki action API.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultApiHost = "https://en.wikipedia.org"

type clientImpl struct {
	apiHost    string
	httpClient *http.Client
}

type Config struct {
	ApiHost    string
	HTTPClient *http.Client
}

func NewClient(cfg *Config) (WikiAPI, error) {
	if cfg == nil {
		return nil, errors.New("missing parameter: cfg")
	}

	client := &clientImpl{
		apiHost:    strings.TrimRight(cfg.ApiHost, "/"),
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

type queryResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Index   int    `json:"index"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

func (client *clientImpl) Summary(ctx context.Context, query string, sentences int) (string, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("generator", "search")
	q.Set("gsrsearch", query)
	q.Set("gsrlimit", "1")
	q.Set("prop", "extracts")
	q.Set("exintro", "1")
	q.Set("explaintext", "1")
	q.Set("exsentences", strconv.Itoa(sentences))
	q.Set("redirects", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.apiHost+"/w/api.php?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	req.Header.Set("User-Agent", "coco-assistant/1.0")

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia search %q: %s", query, resp.Status)
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode search: %w", err)
	}

	// pages come back keyed by page id; index carries the search rank
	best := ""
	bestIndex := -1
	for _, page := range out.Query.Pages {
		if page.Extract == "" {
			continue
		}

		if bestIndex == -1 || page.Index < bestIndex {
			best = page.Extract
			bestIndex = page.Index
		}
	}

	if best == "" {
		return "", ErrNotFound
	}

	return strings.TrimSpace(best), nil
}
