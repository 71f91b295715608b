package domain

import "context"

// RecognitionMode selects what the external engine does with the image.
type RecognitionMode string

const (
	ModeRecognize RecognitionMode = "recognize"
	ModeTrain     RecognitionMode = "train"
)

// RecognitionRequest carries one attendance photo to the engine.
// Subject is an optional identity hint (email); the engine may ignore it.
type RecognitionRequest struct {
	Mode    RecognitionMode
	Subject string
	Image   []byte
}

// RecognitionStatus tags the outcome variant.
type RecognitionStatus int

const (
	StatusMatched RecognitionStatus = iota
	StatusNotMatched
	StatusFailed
)

// EngineExit reports the termination of an engine run: the exit status plus
// the two accumulated text streams (result and diagnostic).
type EngineExit struct {
	Success    bool
	Output     string
	Diagnostic string
}

// EngineProcess is a handle to one in-flight engine invocation. Termination
// and launch failure are signaled on independent channels; both are buffered
// so a signal is never lost and never blocks the engine side. After the
// single signal is sent, implementations close both channels so a waiter on
// the unused channel unblocks.
type EngineProcess interface {
	Exited() <-chan EngineExit
	LaunchErr() <-chan error
}

// EngineLauncher starts one external engine run per request. Launch never
// fails synchronously: a process that cannot be started reports through
// its LaunchErr channel, mirroring how termination is reported.
type EngineLauncher interface {
	Launch(ctx context.Context, req RecognitionRequest) EngineProcess
}

// RecognitionOutcome is the single verdict produced per request.
// Output holds the engine's trimmed result stream on a success exit;
// Reason holds the trimmed diagnostic (or launch error) on failure.
// Err wraps ErrEngineLaunch or ErrEngineRun for internal discrimination.
type RecognitionOutcome struct {
	Status RecognitionStatus
	Output string
	Reason string
	Err    error
}
