package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")

	// OTP verification failures. All three surface to the caller as the same
	// "invalid or expired" rejection; the split exists for logs and tests.
	ErrCodeMismatch = errors.New("code mismatch")
	ErrCodeExpired  = errors.New("code expired")

	// ErrDelivery marks a mail transport failure. An OTP issued before the
	// delivery attempt stays valid; callers may retry sending on their own.
	ErrDelivery = errors.New("delivery failed")

	// Recognition engine failures: the engine never started vs. it ran and
	// reported a non-success exit. Both surface as a generic failure.
	ErrEngineLaunch = errors.New("engine launch failed")
	ErrEngineRun    = errors.New("engine run failed")
)
