package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking
// infrastructure details.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrOTPExpired   = errors.New("otp expired")
	ErrMaxAttempts  = errors.New("max attempts exceeded")
	ErrInvalidOTP   = errors.New("invalid otp")
)
