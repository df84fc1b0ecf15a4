package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ConsoleEngine prints utterances instead of synthesizing audio.
type ConsoleEngine struct {
	mu     sync.Mutex
	out    io.Writer
	prefix string
}

func NewConsoleEngine(out io.Writer, prefix string) *ConsoleEngine {
	return &ConsoleEngine{out: out, prefix: prefix}
}

func (e *ConsoleEngine) Say(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := fmt.Fprintf(e.out, "%s%s\n", e.prefix, text)
	return err
}

// ConsoleListener reads utterances line by line, for running without a
// microphone. Lines are lowercased like a recognizer's output.
type ConsoleListener struct {
	lines      chan string
	done       chan struct{}
	err        error
	wakeWindow time.Duration
}

func NewConsoleListener(in io.Reader, wakeWindow time.Duration) *ConsoleListener {
	l := &ConsoleListener{
		lines:      make(chan string),
		done:       make(chan struct{}),
		wakeWindow: wakeWindow,
	}

	go l.read(in)

	return l
}

func (l *ConsoleListener) read(in io.Reader) {
	defer close(l.done)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		l.lines <- strings.ToLower(strings.TrimSpace(scanner.Text()))
	}

	l.err = scanner.Err()
	if l.err == nil {
		l.err = io.EOF
	}
}

func (l *ConsoleListener) CaptureWake(ctx context.Context) (string, error) {
	var timeout <-chan time.Time
	if l.wakeWindow > 0 {
		timer := time.NewTimer(l.wakeWindow)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timeout:
		return "", ErrWaitTimeout
	case line := <-l.lines:
		return line, nil
	case <-l.done:
		return "", l.err
	}
}

func (l *ConsoleListener) CaptureCommand(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line := <-l.lines:
		if line == "" {
			return "", ErrUnintelligible
		}
		return line, nil
	case <-l.done:
		return "", l.err
	}
}
