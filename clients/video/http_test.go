package video

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/results", r.URL.Path)
		assert.Equal(t, "baby shark", r.URL.Query().Get("search_query"))

		w.Write([]byte(`<html><a href="/watch?v=XqZsoesa55w">Baby Shark</a><a href="/watch?v=aaaaaaaaaaa">x</a></html>`))
	}))
	defer server.Close()

	client, err := NewClient(&Config{ApiHost: server.URL})
	require.NoError(t, err)

	link, err := client.Search(context.Background(), "baby shark")
	require.NoError(t, err)

	assert.Equal(t, "https://www.youtube.com/watch?v=XqZsoesa55w", link)
}

func TestSearchNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>nothing here</html>`))
	}))
	defer server.Close()

	client, err := NewClient(&Config{ApiHost: server.URL})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "qwxzzy")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestSearchScriptData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><script>var ytInitialData = {"url":"/watch?v=dQw4w9WgXcQ&pp=x"};</script></head><body></body></html>`))
	}))
	defer server.Close()

	client, err := NewClient(&Config{ApiHost: server.URL})
	require.NoError(t, err)

	link, err := client.Search(context.Background(), "never gonna")
	require.NoError(t, err)

	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", link)
}
