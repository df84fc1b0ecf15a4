package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coco-assistant/history"
	"coco-assistant/metrics"
	"coco-assistant/scheduler"
	"coco-assistant/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTasks []scheduler.Task

func (f fakeTasks) Pending() []scheduler.Task { return f }

type fakeHistory struct {
	items   []history.Interaction
	pingErr error
	limit   int
}

func (f *fakeHistory) Recent(ctx context.Context, limit int) ([]history.Interaction, error) {
	f.limit = limit
	return f.items, nil
}

func (f *fakeHistory) Ping(ctx context.Context) error { return f.pingErr }

func newServer(t *testing.T, hist HistorySource) (*Server, *session.Session) {
	t.Helper()

	sess := session.New()
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	calls := 0

	srv, err := New(&Config{
		Session: sess,
		Tasks:   fakeTasks{{ID: "01J", Kind: scheduler.KindTimer, Payload: "300"}},
		History: hist,
		Now: func() time.Time {
			calls++
			return start.Add(time.Duration(calls-1) * 90 * time.Second)
		},
	})
	require.NoError(t, err)

	return srv, sess
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	return w
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&Config{Session: session.New()})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	hist := &fakeHistory{}
	srv, _ := newServer(t, hist)

	w := get(t, srv.Handler(), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	hist.pingErr = errors.New("database is locked")
	w = get(t, srv.Handler(), "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStatus(t *testing.T) {
	srv, sess := newServer(t, nil)
	sess.SetProfile("sam", true)
	sess.AddShoppingItem("milk")

	w := get(t, srv.Handler(), "/status")
	require.Equal(t, http.StatusOK, w.Code)

	var got statusResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))

	assert.Equal(t, "sam", got.Session.ActiveProfile)
	assert.True(t, got.Session.RestrictedMode)
	assert.Equal(t, []string{"milk"}, got.Session.ShoppingList)
	require.Len(t, got.PendingTasks, 1)
	assert.Equal(t, "300", got.PendingTasks[0].Payload)
	assert.Equal(t, "1m30s", got.Uptime)
}

func TestHistory(t *testing.T) {
	hist := &fakeHistory{items: []history.Interaction{{ID: "a", Utterance: "stop", Intent: "stop"}}}
	srv, _ := newServer(t, hist)

	w := get(t, srv.Handler(), "/history?limit=5")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, hist.limit)

	var got []history.Interaction
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "stop", got[0].Intent)

	w = get(t, srv.Handler(), "/history?limit=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryDisabled(t *testing.T) {
	srv, _ := newServer(t, nil)

	w := get(t, srv.Handler(), "/history")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetrics(t *testing.T) {
	srv, _ := newServer(t, nil)
	metrics.CommandsRouted.WithLabelValues("time").Inc()

	w := get(t, srv.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `coco_commands_total{intent="time"}`)
}

func TestRun(t *testing.T) {
	sess := session.New()
	srv, err := New(&Config{Addr: "127.0.0.1:0", Session: sess, Tasks: fakeTasks{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
