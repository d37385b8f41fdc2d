package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-otp-api/internal/application/auth"
	"github.com/go-otp-api/internal/domain"
	"github.com/go-otp-api/internal/pkg/validate"
)

// OTPHandler handles OTP issuance and verification endpoints.
type OTPHandler struct {
	svc          auth.Service
	exposeDevOTP bool
}

func NewOTPHandler(svc auth.Service, exposeDevOTP bool) *OTPHandler {
	return &OTPHandler{svc: svc, exposeDevOTP: exposeDevOTP}
}

func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	res, err := h.svc.SendOTP(r.Context(), req)
	if err != nil {
		slog.Error("send-otp failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate OTP")
		return
	}
	env := SendOTPEnvelope{
		Success:   true,
		Message:   "OTP sent successfully",
		SMSStatus: res.SMSStatus,
		SMSError:  res.SMSError,
	}
	if h.exposeDevOTP {
		env.DevOTP = res.Code
	}
	writeJSON(w, http.StatusOK, env)
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	res, err := h.svc.VerifyOTP(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	msg := "User already exists"
	if res.Created {
		msg = "User created successfully"
	}
	writeJSON(w, http.StatusOK, VerifyOTPEnvelope{Success: true, User: res.User, Message: msg})
}
