package speech_to_text

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/go-audio/audio"
)

type sttImpl struct {
	// whisper contexts are not safe to share, one transcription at a time
	mu       sync.Mutex
	model    whisper.Model
	language string
	log      *slog.Logger
}

type Config struct {
	Model    whisper.Model
	Language string
	Logger   *slog.Logger
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Model == nil {
		return nil, fmt.Errorf("model is nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &sttImpl{
		model:    cfg.Model,
		language: cfg.Language,
		log:      logger,
	}, nil
}

func (stt *sttImpl) Transcribe(ctx context.Context, buf *audio.IntBuffer) (string, error) {
	if buf == nil || buf.NumFrames() == 0 {
		return "", nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	stt.mu.Lock()
	defer stt.mu.Unlock()

	wctx, err := stt.model.NewContext()
	if err != nil {
		return "", err
	}

	if stt.language != "" {
		if err := wctx.SetLanguage(stt.language); err != nil {
			return "", fmt.Errorf("set language %q: %w", stt.language, err)
		}
	}

	if err := wctx.Process(normalize(buf.Data), nil); err != nil {
		return "", err
	}

	texts := make([]string, 0)

	for {
		segment, err := wctx.NextSegment()
		if err == io.EOF {
			break
		} else if err != nil {
			return "", err
		}

		stt.log.Debug("segment",
			"start", segment.Start.Truncate(time.Millisecond),
			"end", segment.End.Truncate(time.Millisecond),
			"text", segment.Text)

		texts = append(texts, segment.Text)
	}

	return joinSegments(texts), nil
}

// normalize converts 16 bit samples to the [-1, 1] floats whisper expects.
func normalize(data []int) []float32 {
	out := make([]float32, len(data))
	for i, s := range data {
		out[i] = float32(s) / (math.MaxInt16 + 1)
	}

	return out
}

// joinSegments drops annotations such as "[BLANK_AUDIO]" or "(music)" and
// repeated segments, then returns the remaining text lowercased with
// sentence punctuation removed.
func joinSegments(segments []string) string {
	seenText := make(map[string]bool)
	parts := make([]string, 0, len(segments))

	for _, text := range segments {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		// if segment text starts or ends with a parenthesis or a bracket, then ignore it
		if text[0] == '(' || text[0] == '[' ||
			text[len(text)-1] == ')' || text[len(text)-1] == ']' {
			continue
		}

		if seenText[text] {
			continue
		}
		seenText[text] = true

		parts = append(parts, strings.TrimRight(strings.Map(keepRune, text), ". "))
	}

	return strings.ToLower(strings.Join(parts, " "))
}

func keepRune(r rune) rune {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
		return r
	}

	switch r {
	case '-', '.', '+', '*', '/', '\'', '(', ')':
		return r
	}

	return -1
}
