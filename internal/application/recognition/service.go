package recognition

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/staff-tracker-api/internal/domain"
	"github.com/staff-tracker-api/internal/pkg/id"
)

// noMatchMarker is what the recognizer prints (and still exits 0) when it
// gives up without identifying anyone.
const noMatchMarker = "No face matched"

type Service interface {
	Recognize(ctx context.Context, subject string, image []byte) domain.RecognitionOutcome
	Train(ctx context.Context, subject string, image []byte) domain.RecognitionOutcome
}

type service struct {
	launcher domain.EngineLauncher
}

func NewService(launcher domain.EngineLauncher) Service {
	return &service{launcher: launcher}
}

func (s *service) Recognize(ctx context.Context, subject string, image []byte) domain.RecognitionOutcome {
	return s.dispatch(ctx, domain.RecognitionRequest{
		Mode:    domain.ModeRecognize,
		Subject: subject,
		Image:   image,
	})
}

func (s *service) Train(ctx context.Context, subject string, image []byte) domain.RecognitionOutcome {
	return s.dispatch(ctx, domain.RecognitionRequest{
		Mode:    domain.ModeTrain,
		Subject: subject,
		Image:   image,
	})
}

// dispatch runs one engine invocation and returns its single outcome.
//
// Termination and launch failure arrive on independent channels that can in
// principle both fire for one run. The responded latch makes whichever signal
// lands first the outcome; the loser is logged and discarded, never delivered.
func (s *service) dispatch(ctx context.Context, req domain.RecognitionRequest) domain.RecognitionOutcome {
	dispatchID := id.New()
	proc := s.launcher.Launch(ctx, req)

	var responded atomic.Bool
	out := make(chan domain.RecognitionOutcome, 1)
	resolve := func(o domain.RecognitionOutcome) {
		if !responded.CompareAndSwap(false, true) {
			slog.Debug("late engine signal discarded", "dispatch_id", dispatchID)
			return
		}
		out <- o
	}

	go func() {
		exit, ok := <-proc.Exited()
		if !ok {
			return
		}
		if exit.Success {
			resolve(classify(exit.Output))
			return
		}
		reason := strings.TrimSpace(exit.Diagnostic)
		slog.Warn("recognition engine exited with failure",
			"dispatch_id", dispatchID, "mode", req.Mode, "detail", reason)
		resolve(domain.RecognitionOutcome{
			Status: domain.StatusFailed,
			Reason: reason,
			Err:    fmt.Errorf("%s: %w", reason, domain.ErrEngineRun),
		})
	}()

	go func() {
		err, ok := <-proc.LaunchErr()
		if !ok {
			return
		}
		slog.Error("failed to start recognition engine",
			"dispatch_id", dispatchID, "mode", req.Mode, "err", err)
		resolve(domain.RecognitionOutcome{
			Status: domain.StatusFailed,
			Reason: err.Error(),
			Err:    fmt.Errorf("%v: %w", err, domain.ErrEngineLaunch),
		})
	}()

	return <-out
}

func classify(raw string) domain.RecognitionOutcome {
	output := strings.TrimSpace(raw)
	if strings.HasPrefix(output, noMatchMarker) {
		return domain.RecognitionOutcome{Status: domain.StatusNotMatched, Output: output}
	}
	return domain.RecognitionOutcome{Status: domain.StatusMatched, Output: output}
}
