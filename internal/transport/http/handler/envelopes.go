package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-otp-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SendOTPEnvelope wraps send-otp responses. DevOTP is populated only when the
// dev-visibility flag is on.
type SendOTPEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	SMSStatus string `json:"smsStatus,omitempty"`
	SMSError  string `json:"smsError,omitempty"`
	DevOTP    string `json:"devOtp,omitempty"`
	Error     string `json:"error,omitempty"`
}

// VerifyOTPEnvelope wraps verify-otp responses.
type VerifyOTPEnvelope struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// LoginEnvelope wraps login responses.
type LoginEnvelope struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
