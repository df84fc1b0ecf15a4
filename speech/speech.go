// Package speech defines the speech I/O contract of the assistant: capturing
// transcribed utterances and playing synthesized responses.
package speech

import (
	"context"
	"errors"
)

var (
	// ErrWaitTimeout means nothing was said within the listening window.
	ErrWaitTimeout = errors.New("speech: no speech before timeout")
	// ErrUnintelligible means audio was captured but could not be transcribed.
	ErrUnintelligible = errors.New("speech: could not understand audio")
	// ErrServiceUnavailable means the recognizer itself failed.
	ErrServiceUnavailable = errors.New("speech: recognition service unavailable")
)

// Listener captures one utterance and returns it as lowercase text.
type Listener interface {
	// CaptureWake listens for a short phrase within a fixed window.
	CaptureWake(ctx context.Context) (string, error)
	// CaptureCommand listens until the speaker goes quiet, without a timeout.
	CaptureCommand(ctx context.Context) (string, error)
}

// Engine synthesizes and plays one utterance, blocking until playback ends
// or ctx is cancelled.
type Engine interface {
	Say(ctx context.Context, text string) error
}

// VoiceSelector is implemented by engines that offer more than one voice.
type VoiceSelector interface {
	Voices() []string
	SetVoice(index int) error
}
