// Package browser opens URLs in the desktop's default browser.
package browser

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

type Opener interface {
	Open(ctx context.Context, url string) error
}

type execOpener struct {
	command string
	args    []string
}

// New returns an Opener for the current platform.
func New() Opener {
	switch runtime.GOOS {
	case "darwin":
		return &execOpener{command: "open"}
	case "windows":
		return &execOpener{command: "rundll32", args: []string{"url.dll,FileProtocolHandler"}}
	default:
		return &execOpener{command: "xdg-open"}
	}
}

// NewCommand returns an Opener running command with the URL appended.
func NewCommand(command string, args ...string) Opener {
	return &execOpener{command: command, args: args}
}

func (o *execOpener) Open(ctx context.Context, url string) error {
	args := append(append([]string{}, o.args...), url)

	if err := ctx.Err(); err != nil {
		return err
	}

	// the opener hands off to the browser and exits, so Start is enough
	cmd := exec.Command(o.command, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}

	go cmd.Wait()

	return nil
}
