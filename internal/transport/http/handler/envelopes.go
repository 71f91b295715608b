package handler

import (
	"encoding/json"
	"net/http"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StatusEnvelope wraps the OTP flow responses. Bearer is present only on a
// successful verification when a JWT provider is configured.
type StatusEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Bearer  string `json:"Bearer,omitempty"`
}

// StaffIDsEnvelope wraps the staff id listing.
type StaffIDsEnvelope struct {
	StaffIDs []string `json:"staffIds"`
}

// RecognitionEnvelope mirrors the engine boundary: output on success,
// error plus diagnostic details on failure.
type RecognitionEnvelope struct {
	Message string `json:"message,omitempty"`
	Output  string `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
