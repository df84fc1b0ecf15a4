package listener

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"coco-assistant/speech"
	"coco-assistant/speech_extraction"
)

func TestCaptureError(t *testing.T) {
	ctx := context.Background()

	assert.ErrorIs(t, captureError(ctx, speech_extraction.ErrNoSpeech), speech.ErrWaitTimeout)
	assert.ErrorIs(t, captureError(ctx, fmt.Errorf("extract: %w", speech_extraction.ErrNoSpeech)), speech.ErrWaitTimeout)

	err := captureError(ctx, errors.New("device unavailable"))
	assert.ErrorIs(t, err, speech.ErrServiceUnavailable)
	assert.Contains(t, err.Error(), "device unavailable")

	assert.ErrorIs(t, captureError(ctx, context.Canceled), context.Canceled)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	err = captureError(cancelled, errors.New("stream closed"))
	assert.NotErrorIs(t, err, speech.ErrServiceUnavailable)
}
