package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/staff-tracker-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func awaitExit(t *testing.T, p domain.EngineProcess) domain.EngineExit {
	t.Helper()
	exited, launchErr := p.Exited(), p.LaunchErr()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case exit, ok := <-exited:
			if !ok {
				t.Fatal("exit channel closed without a signal")
			}
			return exit
		case err, ok := <-launchErr:
			if ok {
				t.Fatalf("unexpected launch error: %v", err)
			}
			// Closed without a launch error; the exit is on the other channel.
			launchErr = nil
		case <-deadline:
			t.Fatal("engine did not exit")
		}
	}
}

func TestLaunch_SuccessExit_CapturesStdout(t *testing.T) {
	script := writeScript(t, "cat >/dev/null\necho ok")
	l := &Launcher{command: "/bin/sh", script: script}

	p := l.Launch(context.Background(), domain.RecognitionRequest{
		Mode:  domain.ModeRecognize,
		Image: []byte("jpeg-bytes"),
	})
	exit := awaitExit(t, p)

	assert.True(t, exit.Success)
	assert.Equal(t, "ok\n", exit.Output)
	assert.Empty(t, exit.Diagnostic)
}

func TestLaunch_FailureExit_CapturesStderr(t *testing.T) {
	script := writeScript(t, "cat >/dev/null\necho 'low confidence' >&2\nexit 1")
	l := &Launcher{command: "/bin/sh", script: script}

	p := l.Launch(context.Background(), domain.RecognitionRequest{Mode: domain.ModeRecognize})
	exit := awaitExit(t, p)

	assert.False(t, exit.Success)
	assert.Equal(t, "low confidence\n", exit.Diagnostic)
}

func TestLaunch_MissingBinary_ReportsLaunchError(t *testing.T) {
	l := &Launcher{command: "/nonexistent/face-engine", script: "app.py"}

	p := l.Launch(context.Background(), domain.RecognitionRequest{Mode: domain.ModeRecognize})

	exited, launchErr := p.Exited(), p.LaunchErr()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case err, ok := <-launchErr:
			if !ok {
				t.Fatal("launch-error channel closed without a signal")
			}
			require.Error(t, err)
			return
		case exit, ok := <-exited:
			if ok {
				t.Fatalf("expected launch error, got exit %+v", exit)
			}
			// Closed without an exit; the launch error is on the other channel.
			exited = nil
		case <-deadline:
			t.Fatal("no launch error reported")
		}
	}
}

func TestLaunch_PassesModeAndSubjectArgs(t *testing.T) {
	script := writeScript(t, `cat >/dev/null
echo "$1 $2"`)
	l := &Launcher{command: "/bin/sh", script: script}

	p := l.Launch(context.Background(), domain.RecognitionRequest{
		Mode:    domain.ModeTrain,
		Subject: "user@x.edu",
	})
	exit := awaitExit(t, p)

	assert.True(t, exit.Success)
	assert.Equal(t, "train user@x.edu\n", exit.Output)
}

func TestLaunch_ClosesBothChannelsAfterSignal(t *testing.T) {
	script := writeScript(t, "cat >/dev/null\necho ok")
	l := &Launcher{command: "/bin/sh", script: script}

	p := l.Launch(context.Background(), domain.RecognitionRequest{Mode: domain.ModeRecognize})
	exit := awaitExit(t, p)
	require.True(t, exit.Success)

	// Both channels must be closed once the single signal has been sent,
	// so a waiter on the unused channel unblocks instead of hanging.
	select {
	case _, ok := <-p.LaunchErr():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("launch-error channel never closed")
	}
	select {
	case _, ok := <-p.Exited():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("exit channel never closed")
	}
}

func TestLaunch_ImageArrivesOnStdin(t *testing.T) {
	script := writeScript(t, "cat")
	l := &Launcher{command: "/bin/sh", script: script}

	p := l.Launch(context.Background(), domain.RecognitionRequest{
		Mode:  domain.ModeRecognize,
		Image: []byte("raw-image-payload"),
	})
	exit := awaitExit(t, p)

	assert.True(t, exit.Success)
	assert.Equal(t, "raw-image-payload", exit.Output)
}
