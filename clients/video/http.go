// Package video finds YouTube videos by scraping the public results page.
package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const DefaultApiHost = "https://www.youtube.com"

var watchID = regexp.MustCompile(`watch\?v=([A-Za-z0-9_-]{11})`)

type clientImpl struct {
	apiHost    string
	httpClient *http.Client
}

type Config struct {
	ApiHost    string
	HTTPClient *http.Client
}

func NewClient(cfg *Config) (VideoAPI, error) {
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

func (client *clientImpl) Search(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("search_query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.apiHost+"/results?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("video search %q: %s", query, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("parse results page: %w", err)
	}

	id := firstWatchID(doc)
	if id == "" {
		return "", ErrNoResults
	}

	return "https://www.youtube.com/watch?v=" + id, nil
}

// firstWatchID prefers result links and falls back to the initial data
// embedded in script tags, which is where the live page keeps its results.
func firstWatchID(doc *goquery.Document) string {
	var id string

	doc.Find(`a[href*="watch?v="]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if m := watchID.FindStringSubmatch(href); m != nil {
			id = m[1]
		}
		return id == ""
	})

	if id != "" {
		return id
	}

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := watchID.FindStringSubmatch(s.Text()); m != nil {
			id = m[1]
		}
		return id == ""
	})

	return id
}
