package voice_detection

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFrame = 512

func silence() []int16 {
	return make([]int16, testFrame)
}

// noise is a faint, frame-dependent hiss so the flux is never exactly zero.
func noise(frame int) []int16 {
	out := make([]int16, testFrame)
	seed := uint32(frame*7919 + 1)
	for i := range out {
		seed = seed*1664525 + 1013904223
		out[i] = int16(seed>>29) - 4
	}
	return out
}

func tone(freq float64, amplitude float64) []int16 {
	out := make([]int16, testFrame)
	for i := range out {
		out[i] = int16(amplitude * math.MaxInt16 * math.Sin(2*math.Pi*freq*float64(i)/16000))
	}
	return out
}

func TestVAD_Flux(t *testing.T) {
	v := New(testFrame)

	assert.Zero(t, v.Flux(silence()), "first frame has no reference")
	assert.Zero(t, v.Flux(silence()), "silence after silence")
	assert.Greater(t, v.Flux(tone(440, 0.5)), 1.0, "onset of a tone")
	assert.Less(t, v.Flux(tone(440, 0.5)), 1e-6, "steady tone has no positive flux")
}

func TestRMS(t *testing.T) {
	assert.Zero(t, RMS(nil))
	assert.Zero(t, RMS(silence()))
	assert.InDelta(t, 0.5/math.Sqrt2, RMS(tone(1000, 0.5)), 0.01)
}

func TestSegmenter(t *testing.T) {
	t.Run("detects onset and release", func(t *testing.T) {
		s := NewSegmenter(SegmenterConfig{
			FrameSize:  testFrame,
			SampleRate: 16000,
			QuietTime:  50 * time.Millisecond,
			MinEnergy:  0.01,
		})

		require.Equal(t, StateWaiting, s.Push(noise(0)))
		require.Equal(t, StateWaiting, s.Push(noise(1)))

		speech := []float64{300, 520, 780, 410, 660}
		assert.Equal(t, StateSpeaking, s.Push(tone(speech[0], 0.6)))
		for _, f := range speech[1:] {
			s.Push(tone(f, 0.6))
		}

		state := s.State()
		for i := 0; i < 20 && state != StateDone; i++ {
			state = s.Push(noise(i + 2))
		}

		assert.Equal(t, StateDone, state)
		assert.Greater(t, s.SpeechDuration(), time.Duration(0))
		assert.Equal(t, StateDone, s.Push(tone(440, 0.6)), "done is terminal")
	})

	t.Run("quiet input never starts", func(t *testing.T) {
		s := NewSegmenter(SegmenterConfig{FrameSize: testFrame, SampleRate: 16000, MinEnergy: 0.01})
		for i := 0; i < 10; i++ {
			assert.Equal(t, StateWaiting, s.Push(silence()))
		}
		assert.Equal(t, 10*time.Duration(float64(testFrame)/16000*float64(time.Second)), s.Elapsed())
	})
}
