package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-otp-api/internal/domain"
)

// httpError maps domain sentinel errors to HTTP responses. Anything
// unrecognised is logged server-side and reported as a generic 500.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "No valid OTP found")
	case errors.Is(err, domain.ErrOTPExpired):
		writeError(w, http.StatusBadRequest, "OTP has expired")
	case errors.Is(err, domain.ErrMaxAttempts):
		writeError(w, http.StatusBadRequest, "Maximum attempts exceeded")
	case errors.Is(err, domain.ErrInvalidOTP):
		writeError(w, http.StatusBadRequest, "Invalid OTP")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	default:
		slog.Error("internal error", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
