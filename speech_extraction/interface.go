package speech_extraction

import (
	"context"
	"errors"
	"time"

	"github.com/go-audio/audio"
)

// ErrNoSpeech is returned when the wait window closes before any voice
// activity was detected.
var ErrNoSpeech = errors.New("no speech detected")

// Source delivers microphone audio one frame at a time.
type Source interface {
	ReadFrame(ctx context.Context) ([]int16, error)
}

type Interface interface {
	// Extract reads frames from src until one utterance is complete.
	// maxWait bounds the time before onset and maxSpeech the utterance
	// length; zero disables either limit.
	Extract(ctx context.Context, src Source, maxWait, maxSpeech time.Duration) (*audio.IntBuffer, error)
}
