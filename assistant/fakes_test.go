package assistant

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"coco-assistant/clients/ai_bot"
	"coco-assistant/clients/weather"
	"coco-assistant/content"
	"coco-assistant/history"
	"coco-assistant/profile"
	"coco-assistant/scheduler"
	"coco-assistant/session"
	"coco-assistant/storage"
)

var testNow = time.Date(2024, 6, 1, 15, 4, 0, 0, time.UTC)

type reply struct {
	text string
	err  error
}

// scriptedListener replays canned captures and reports io.EOF when a
// script runs out.
type scriptedListener struct {
	mu       sync.Mutex
	wakes    []reply
	commands []reply
}

func (l *scriptedListener) CaptureWake(ctx context.Context) (string, error) {
	return l.pop(&l.wakes)
}

func (l *scriptedListener) CaptureCommand(ctx context.Context) (string, error) {
	return l.pop(&l.commands)
}

func (l *scriptedListener) pop(script *[]reply) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(*script) == 0 {
		return "", io.EOF
	}

	r := (*script)[0]
	*script = (*script)[1:]

	return r.text, r.err
}

func (l *scriptedListener) say(commands ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, c := range commands {
		l.commands = append(l.commands, reply{text: c})
	}
}

type recordingSpeaker struct {
	mu         sync.Mutex
	said       []string
	speaking   bool
	interrupts int
	waits      int
	voices     []string
	voice      int
}

func (s *recordingSpeaker) Speak(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.said = append(s.said, text)
}

func (s *recordingSpeaker) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interrupts++
	s.speaking = false
}

func (s *recordingSpeaker) IsSpeaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

func (s *recordingSpeaker) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits++
}

func (s *recordingSpeaker) Voices() []string {
	return s.voices
}

func (s *recordingSpeaker) SetVoice(index int) error {
	if index < 0 || index >= len(s.voices) {
		return fmt.Errorf("voice %d out of range", index)
	}
	s.voice = index
	return nil
}

// take returns everything said since the last call.
func (s *recordingSpeaker) take() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.said
	s.said = nil
	return out
}

type fakeChat struct {
	reply    string
	err      error
	requests [][]ai_bot.Message
	tokens   []int
}

func (c *fakeChat) Complete(ctx context.Context, messages []ai_bot.Message, maxTokens int) (string, error) {
	c.requests = append(c.requests, append([]ai_bot.Message(nil), messages...))
	c.tokens = append(c.tokens, maxTokens)
	return c.reply, c.err
}

type fakeWeather struct {
	report *weather.Report
	err    error
	cities []string
}

func (w *fakeWeather) Current(ctx context.Context, city string) (*weather.Report, error) {
	w.cities = append(w.cities, city)
	if w.err != nil {
		return nil, w.err
	}
	return w.report, nil
}

type fakeNews struct {
	titles []string
	err    error
	limit  int
}

func (n *fakeNews) Headlines(ctx context.Context, limit int) ([]string, error) {
	n.limit = limit
	return n.titles, n.err
}

type fakeWiki struct {
	summary string
	err     error
}

func (w *fakeWiki) Summary(ctx context.Context, query string, sentences int) (string, error) {
	return w.summary, w.err
}

type fakeVideo struct {
	url string
	err error
}

func (v *fakeVideo) Search(ctx context.Context, query string) (string, error) {
	return v.url, v.err
}

type recordingBrowser struct {
	opened []string
	err    error
}

func (b *recordingBrowser) Open(ctx context.Context, url string) error {
	if b.err != nil {
		return b.err
	}
	b.opened = append(b.opened, url)
	return nil
}

type memRecorder struct {
	entries []history.Interaction
}

func (r *memRecorder) Record(ctx context.Context, in history.Interaction) (history.Interaction, error) {
	r.entries = append(r.entries, in)
	return in, nil
}

func (r *memRecorder) Recent(ctx context.Context, limit int) ([]history.Interaction, error) {
	return r.entries, nil
}

type harness struct {
	assistant *Assistant
	listener  *scriptedListener
	speaker   *recordingSpeaker
	session   *session.Session
	clock     *scheduler.ManualClock
	tasks     *scheduler.Scheduler
	fs        afero.Fs
	browser   *recordingBrowser
}

func newHarness(t *testing.T, mutate func(*Config)) *harness {
	t.Helper()

	fs := afero.NewMemMapFs()

	profileStore, err := storage.NewProfileStore(fs, "/data/profiles.json")
	require.NoError(t, err)

	profiles, err := profile.NewManager(&profile.Config{
		Store: profileStore,
		Now:   func() time.Time { return testNow },
	})
	require.NoError(t, err)

	notes, err := storage.NewNoteStore(fs, "/data/notes.txt")
	require.NoError(t, err)

	clock := scheduler.NewManualClock(testNow)
	tasks, err := scheduler.New(&scheduler.Config{Clock: clock})
	require.NoError(t, err)

	catalog, err := content.Default()
	require.NoError(t, err)

	h := &harness{
		listener: &scriptedListener{},
		speaker:  &recordingSpeaker{},
		session:  session.New(),
		clock:    clock,
		tasks:    tasks,
		fs:       fs,
		browser:  &recordingBrowser{},
	}

	cfg := &Config{
		Listener:    h.listener,
		Speaker:     h.speaker,
		Session:     h.session,
		Profiles:    profiles,
		Notes:       notes,
		Scheduler:   tasks,
		Catalog:     catalog,
		Browser:     h.browser,
		WakeWords:   []string{"hey coco", "ok coco", "coco", "hi coco"},
		DefaultCity: "New York",
		Now:         func() time.Time { return testNow },
		Rand:        rand.New(rand.NewSource(1)),
	}

	if mutate != nil {
		mutate(cfg)
	}

	h.assistant, err = New(cfg)
	require.NoError(t, err)

	return h
}

// run processes each command and returns what was said.
func (h *harness) run(commands ...string) []string {
	for _, c := range commands {
		h.assistant.Process(context.Background(), c)
	}
	return h.speaker.take()
}
