// Package listener captures utterances from the default microphone and
// transcribes them.
package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"coco-assistant/speech"
	"coco-assistant/speech_extraction"
	"coco-assistant/speech_to_text"

	"github.com/gordonklaus/portaudio"
)

const (
	defaultFrequency = 16000
	defaultChannels  = 1
	defaultSamples   = 8196

	DefaultWakeTimeout     = 5 * time.Second
	DefaultWakePhraseLimit = 3 * time.Second
)

type micImpl struct {
	mu        sync.Mutex
	stream    *portaudio.Stream
	inBuffer  []int16
	extractor speech_extraction.Interface
	sttEngine speech_to_text.Interface
	log       *slog.Logger

	wakeTimeout     time.Duration
	wakePhraseLimit time.Duration
}

type Config struct {
	Extractor       speech_extraction.Interface
	STTEngine       speech_to_text.Interface
	Logger          *slog.Logger
	WakeTimeout     time.Duration
	WakePhraseLimit time.Duration
}

// New opens the default input device. Close releases it.
func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Extractor == nil {
		return nil, fmt.Errorf("extractor is nil")
	}

	if cfg.STTEngine == nil {
		return nil, fmt.Errorf("sttEngine is nil")
	}

	m := &micImpl{
		inBuffer:        make([]int16, defaultSamples),
		extractor:       cfg.Extractor,
		sttEngine:       cfg.STTEngine,
		log:             cfg.Logger,
		wakeTimeout:     cfg.WakeTimeout,
		wakePhraseLimit: cfg.WakePhraseLimit,
	}

	if m.log == nil {
		m.log = slog.Default()
	}

	if m.wakeTimeout <= 0 {
		m.wakeTimeout = DefaultWakeTimeout
	}

	if m.wakePhraseLimit <= 0 {
		m.wakePhraseLimit = DefaultWakePhraseLimit
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize audio: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(defaultChannels, 0, defaultFrequency, len(m.inBuffer), m.inBuffer)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open input stream: %w", err)
	}

	m.stream = stream

	return m, nil
}

func (m *micImpl) CaptureWake(ctx context.Context) (string, error) {
	return m.capture(ctx, m.wakeTimeout, m.wakePhraseLimit)
}

func (m *micImpl) CaptureCommand(ctx context.Context) (string, error) {
	return m.capture(ctx, 0, 0)
}

func (m *micImpl) capture(ctx context.Context, maxWait, maxSpeech time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.stream.Start(); err != nil {
		return "", fmt.Errorf("%w: start stream: %v", speech.ErrServiceUnavailable, err)
	}

	buf, err := m.extractor.Extract(ctx, m, maxWait, maxSpeech)

	if stopErr := m.stream.Stop(); stopErr != nil {
		m.log.Warn("failed to stop input stream", "error", stopErr)
	}

	switch {
	case err != nil:
		return "", captureError(ctx, err)
	}

	text, err := m.sttEngine.Transcribe(ctx, buf)
	if err != nil {
		m.log.Error("transcription failed", "error", err)
		return "", fmt.Errorf("%w: %v", speech.ErrServiceUnavailable, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", speech.ErrUnintelligible
	}

	m.log.Debug("heard", "text", text)

	return text, nil
}

// captureError maps an extraction failure to the speech errors the wake loop
// recovers from. Only cancellation passes through.
func captureError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, speech_extraction.ErrNoSpeech):
		return speech.ErrWaitTimeout
	case ctx.Err() != nil, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: read input: %v", speech.ErrServiceUnavailable, err)
	}
}

// ReadFrame blocks until the next buffer of samples is available.
func (m *micImpl) ReadFrame(ctx context.Context) ([]int16, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := m.stream.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
		return nil, err
	}

	frame := make([]int16, len(m.inBuffer))
	copy(frame, m.inBuffer)

	return frame, nil
}

func (m *micImpl) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.stream.Close()

	if termErr := portaudio.Terminate(); termErr != nil {
		m.log.Warn("error while freeing audio", "error", termErr)
	}

	return err
}
