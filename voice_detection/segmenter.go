package voice_detection

import "time"

// fluxRatio is how much the flux must rise (onset) or fall (release)
// relative to the last reference value.
const fluxRatio = 1.75

type State int

const (
	StateWaiting State = iota
	StateSpeaking
	StateDone
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateSpeaking:
		return "speaking"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

type SegmenterConfig struct {
	FrameSize  int
	SampleRate int
	// QuietTime is how long the signal must stay quiet after speech before
	// the utterance is considered finished.
	QuietTime time.Duration
	// MinEnergy is the RMS floor below which a frame never counts as onset.
	MinEnergy float64
}

// Segmenter tracks one utterance. Time is measured in audio frames rather than
// wall clock so the same input always produces the same segmentation.
type Segmenter struct {
	cfg      SegmenterConfig
	vad      *VAD
	frameDur time.Duration

	state    State
	lastFlux float64
	quiet    bool
	quietFor time.Duration
	elapsed  time.Duration
	speech   time.Duration
}

func NewSegmenter(cfg SegmenterConfig) *Segmenter {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}

	frameDur := time.Duration(float64(cfg.FrameSize) / float64(cfg.SampleRate) * float64(time.Second))

	return &Segmenter{
		cfg:      cfg,
		vad:      New(cfg.FrameSize),
		frameDur: frameDur,
	}
}

// Push feeds one frame and returns the state after it.
func (s *Segmenter) Push(frame []int16) State {
	if s.state == StateDone {
		return s.state
	}

	s.elapsed += s.frameDur
	if s.state == StateSpeaking {
		s.speech += s.frameDur
	}

	flux := s.vad.Flux(frame)

	if s.lastFlux == 0 {
		s.lastFlux = flux
		return s.state
	}

	switch s.state {
	case StateWaiting:
		if flux >= s.lastFlux*fluxRatio && RMS(frame) >= s.cfg.MinEnergy {
			s.state = StateSpeaking
		}

		s.lastFlux = flux
	case StateSpeaking:
		if flux*fluxRatio <= s.lastFlux {
			if s.quiet {
				s.quietFor += s.frameDur
				if s.quietFor > s.cfg.QuietTime {
					s.state = StateDone
				}
			}

			s.quiet = true
		} else {
			s.quiet = false
			s.quietFor = 0
			s.lastFlux = flux
		}
	}

	return s.state
}

func (s *Segmenter) State() State {
	return s.state
}

// Elapsed is the total audio time pushed so far.
func (s *Segmenter) Elapsed() time.Duration {
	return s.elapsed
}

// SpeechDuration is the audio time pushed since onset.
func (s *Segmenter) SpeechDuration() time.Duration {
	return s.speech
}
