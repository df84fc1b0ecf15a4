// Package voice_detection finds the start and end of an utterance in a stream
// of microphone frames using spectral flux.
package voice_detection

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// VAD computes the spectral flux between consecutive frames. A sharp rise in
// flux marks the onset of speech, a sharp fall marks its end.
type VAD struct {
	size     int
	window   []float64
	previous []float64
}

func New(frameSize int) *VAD {
	if frameSize <= 0 {
		frameSize = 1
	}

	return &VAD{
		size:   frameSize,
		window: window.Hann(frameSize),
	}
}

// Flux returns the positive spectral difference between this frame and the
// previous one. The first frame always yields 0.
func (v *VAD) Flux(samples []int16) float64 {
	in := make([]float64, v.size)
	for i := 0; i < v.size && i < len(samples); i++ {
		in[i] = float64(samples[i]) / math.MaxInt16 * v.window[i]
	}

	spectrum := fft.FFTReal(in)

	half := len(spectrum)/2 + 1
	magnitudes := make([]float64, half)
	for i := 0; i < half; i++ {
		magnitudes[i] = cmplx.Abs(spectrum[i])
	}

	if v.previous == nil {
		v.previous = magnitudes
		return 0
	}

	var flux float64
	for i, m := range magnitudes {
		if diff := m - v.previous[i]; diff > 0 {
			flux += diff
		}
	}

	v.previous = magnitudes

	return flux
}

// RMS returns the normalized root-mean-square energy of a frame.
func RMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		f := float64(s) / math.MaxInt16
		sum += f * f
	}

	return math.Sqrt(sum / float64(len(samples)))
}
