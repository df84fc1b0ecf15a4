package speech_to_text

import (
	"context"

	"github.com/go-audio/audio"
)

type Interface interface {
	// Transcribe returns the lowercase text spoken in buf.
	Transcribe(ctx context.Context, buf *audio.IntBuffer) (string, error)
}
