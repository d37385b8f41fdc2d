package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-otp-api/internal/application/auth"
	"github.com/go-otp-api/internal/domain"
	"github.com/go-otp-api/internal/pkg/validate"
)

// LoginHandler handles the verified-email login stub.
type LoginHandler struct {
	svc auth.Service
}

func NewLoginHandler(svc auth.Service) *LoginHandler {
	return &LoginHandler{svc: svc}
}

func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	u, err := h.svc.Login(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginEnvelope{Success: true, User: u})
}
