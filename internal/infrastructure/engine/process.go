package engine

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/staff-tracker-api/internal/config"
	"github.com/staff-tracker-api/internal/domain"
)

// Launcher runs the external face-recognition script as a child process.
// The image travels on stdin; the result stream is stdout and the
// diagnostic stream is stderr, both accumulated until the process exits.
type Launcher struct {
	command string
	script  string
}

func NewLauncher(cfg *config.Config) *Launcher {
	return &Launcher{command: cfg.EngineCommand, script: cfg.EngineScript}
}

func (l *Launcher) Launch(ctx context.Context, req domain.RecognitionRequest) domain.EngineProcess {
	p := &process{
		exited:    make(chan domain.EngineExit, 1),
		launchErr: make(chan error, 1),
	}
	args := []string{l.script, string(req.Mode)}
	if req.Subject != "" {
		args = append(args, req.Subject)
	}
	go p.run(ctx, l.command, args, req.Image)
	return p
}

type process struct {
	exited    chan domain.EngineExit
	launchErr chan error
}

func (p *process) Exited() <-chan domain.EngineExit { return p.exited }
func (p *process) LaunchErr() <-chan error          { return p.launchErr }

func (p *process) run(ctx context.Context, name string, args []string, image []byte) {
	// Exactly one signal is sent, on one channel. Closing both afterwards
	// lets whoever waits on the other channel observe that no signal is
	// coming; the buffered send keeps the signal readable past the close.
	defer close(p.exited)
	defer close(p.launchErr)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(image)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		p.launchErr <- err
		return
	}

	err := cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// The process started but we lost it without an exit status
			// (pipe failure, wait error). Treat as a launch-level fault.
			p.launchErr <- err
			return
		}
	}
	p.exited <- domain.EngineExit{
		Success:    err == nil,
		Output:     stdout.String(),
		Diagnostic: stderr.String(),
	}
}
