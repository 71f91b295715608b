package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/staff-tracker-api/internal/application/otp"
	"github.com/staff-tracker-api/internal/domain"
	jwtinfra "github.com/staff-tracker-api/internal/infrastructure/jwt"
)

// OtpHandler handles the send-otp / verify-otp flow.
type OtpHandler struct {
	svc otp.Service
	jwt *jwtinfra.Provider // nil when no keys are configured
}

func NewOtpHandler(svc otp.Service, jwt *jwtinfra.Provider) *OtpHandler {
	return &OtpHandler{svc: svc, jwt: jwt}
}

func (h *OtpHandler) Send(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		writeJSON(w, http.StatusBadRequest, StatusEnvelope{Success: false, Message: "Email is required"})
		return
	}

	err := h.svc.Issue(r.Context(), body.Email)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, StatusEnvelope{Success: true, Message: "OTP sent to email."})
	case errors.Is(err, domain.ErrBadRequest):
		writeJSON(w, http.StatusBadRequest, StatusEnvelope{Success: false, Message: "Email is required"})
	default:
		// Covers ErrDelivery and store failures alike; detail stays server-side.
		slog.Error("send otp failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, StatusEnvelope{Success: false, Message: "Failed to send OTP"})
	}
}

func (h *OtpHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" || body.OTP == "" {
		writeJSON(w, http.StatusBadRequest, StatusEnvelope{Success: false, Message: "Email and OTP required"})
		return
	}

	err := h.svc.Verify(r.Context(), body.Email, body.OTP)
	switch {
	case err == nil:
		resp := StatusEnvelope{Success: true, Message: "OTP verified"}
		if h.jwt != nil {
			// The token carries the identity that was actually proven,
			// which is the normalized form of the submitted address.
			email := strings.ToLower(strings.TrimSpace(body.Email))
			if token, signErr := h.jwt.Sign(email); signErr == nil {
				resp.Bearer = token
			} else {
				slog.Warn("could not sign bearer token", "err", signErr)
			}
		}
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, domain.ErrBadRequest):
		writeJSON(w, http.StatusBadRequest, StatusEnvelope{Success: false, Message: "Email and OTP required"})
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrCodeMismatch),
		errors.Is(err, domain.ErrCodeExpired):
		// One message for all three; the split is internal only.
		writeJSON(w, http.StatusBadRequest, StatusEnvelope{Success: false, Message: "Invalid or expired OTP"})
	default:
		slog.Error("verify otp failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, StatusEnvelope{Success: false, Message: "Error verifying OTP"})
	}
}
