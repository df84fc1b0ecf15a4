package speech

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
)

// ExecEngine speaks through an external text-to-speech program such as
// espeak or say. The text is passed as the last argument.
type ExecEngine struct {
	command string
	args    []string

	mu     sync.Mutex
	voices []string
	voice  string
}

type ExecConfig struct {
	Command string
	Args    []string
	// Voices lists the voice names the program accepts through -v.
	Voices []string
}

func NewExecEngine(cfg *ExecConfig) (*ExecEngine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Command == "" {
		return nil, fmt.Errorf("command is empty")
	}

	if _, err := exec.LookPath(cfg.Command); err != nil {
		return nil, fmt.Errorf("tts command %q: %w", cfg.Command, err)
	}

	return &ExecEngine{
		command: cfg.Command,
		args:    cfg.Args,
		voices:  cfg.Voices,
	}, nil
}

func (e *ExecEngine) Say(ctx context.Context, text string) error {
	args := append([]string{}, e.args...)

	e.mu.Lock()
	if e.voice != "" {
		args = append(args, "-v", e.voice)
	}
	e.mu.Unlock()

	args = append(args, text)

	out, err := exec.CommandContext(ctx, e.command, args...).CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s failed: %w: %s", e.command, err, out)
	}

	return nil
}

func (e *ExecEngine) Voices() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]string(nil), e.voices...)
}

func (e *ExecEngine) SetVoice(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.voices) {
		return fmt.Errorf("voice %d out of range", index)
	}

	e.voice = e.voices[index]

	return nil
}
