package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Speaker arbitrates the single output channel. Speak never blocks: every
// utterance gets its own goroutine which waits for its turn, so utterances
// play in submission order. Interrupt stops the current utterance and drops
// everything queued before it.
type Speaker struct {
	engine Engine
	log    *slog.Logger
	onSay  func(text string)

	mu         sync.Mutex
	turn       *sync.Cond
	next       uint64
	serving    uint64
	generation uint64
	cancel     context.CancelFunc

	speaking atomic.Bool
}

type SpeakerConfig struct {
	Engine Engine
	Logger *slog.Logger
	// OnSay is called for every utterance that starts playing.
	OnSay func(text string)
}

func NewSpeaker(cfg *SpeakerConfig) (*Speaker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Engine == nil {
		return nil, fmt.Errorf("engine is nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Speaker{
		engine: cfg.Engine,
		log:    logger,
		onSay:  cfg.OnSay,
	}
	s.turn = sync.NewCond(&s.mu)

	return s, nil
}

func (s *Speaker) Speak(text string) {
	s.mu.Lock()
	ticket := s.next
	s.next++
	gen := s.generation
	s.speaking.Store(true)
	s.mu.Unlock()

	go s.play(ticket, gen, text)
}

func (s *Speaker) play(ticket, gen uint64, text string) {
	s.mu.Lock()
	for s.serving != ticket {
		s.turn.Wait()
	}

	if gen != s.generation {
		s.advance()
		s.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	if s.onSay != nil {
		s.onSay(text)
	}

	err := s.engine.Say(ctx, text)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn("speech playback failed", "error", err)
	}

	cancel()

	s.mu.Lock()
	s.cancel = nil
	s.advance()
	s.mu.Unlock()
}

// advance hands the output to the next ticket. Callers hold s.mu.
func (s *Speaker) advance() {
	s.serving++
	if s.serving == s.next {
		s.speaking.Store(false)
	}

	s.turn.Broadcast()
}

func (s *Speaker) IsSpeaking() bool {
	return s.speaking.Load()
}

func (s *Speaker) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	if s.cancel != nil {
		s.cancel()
	}

	s.speaking.Store(false)
	s.log.Debug("speech interrupted")
}

// Wait blocks until every utterance queued so far has played or been
// dropped.
func (s *Speaker) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.next
	for s.serving < target {
		s.turn.Wait()
	}
}

func (s *Speaker) Voices() []string {
	if vs, ok := s.engine.(VoiceSelector); ok {
		return vs.Voices()
	}

	return nil
}

func (s *Speaker) SetVoice(index int) error {
	vs, ok := s.engine.(VoiceSelector)
	if !ok {
		return fmt.Errorf("engine has no selectable voices")
	}

	return vs.SetVoice(index)
}
