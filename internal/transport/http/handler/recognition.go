package handler

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/staff-tracker-api/internal/application/recognition"
	"github.com/staff-tracker-api/internal/domain"
	s3infra "github.com/staff-tracker-api/internal/infrastructure/s3"
	"github.com/staff-tracker-api/internal/pkg/id"
)

const maxPhotoBytes = 10 << 20

// RecognitionHandler accepts attendance photos and forwards them to the
// recognition engine. Photos are archived to S3 best-effort before dispatch.
type RecognitionHandler struct {
	svc    recognition.Service
	photos *s3infra.Store // nil disables archiving
}

func NewRecognitionHandler(svc recognition.Service, photos *s3infra.Store) *RecognitionHandler {
	return &RecognitionHandler{svc: svc, photos: photos}
}

func (h *RecognitionHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	image, filename, ok := h.readImage(w, r)
	if !ok {
		return
	}
	subject := r.FormValue("email")
	h.archive(r, image, filename)

	outcome := h.svc.Recognize(r.Context(), subject, image)
	switch outcome.Status {
	case domain.StatusMatched:
		writeJSON(w, http.StatusOK, RecognitionEnvelope{
			Message: "Face recognized successfully",
			Output:  outcome.Output,
		})
	case domain.StatusNotMatched:
		writeJSON(w, http.StatusNotFound, RecognitionEnvelope{
			Error:   "Face not recognized",
			Details: outcome.Output,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, RecognitionEnvelope{
			Error:   "Failed to recognize face",
			Details: outcome.Reason,
		})
	}
}

func (h *RecognitionHandler) Train(w http.ResponseWriter, r *http.Request) {
	image, filename, ok := h.readImage(w, r)
	if !ok {
		return
	}
	subject := r.FormValue("email")
	if subject == "" {
		writeJSON(w, http.StatusBadRequest, RecognitionEnvelope{Error: "Email and image are required."})
		return
	}
	h.archive(r, image, filename)

	outcome := h.svc.Train(r.Context(), subject, image)
	if outcome.Status == domain.StatusFailed {
		writeJSON(w, http.StatusInternalServerError, RecognitionEnvelope{
			Error:   "Face training failed.",
			Details: outcome.Reason,
		})
		return
	}
	writeJSON(w, http.StatusOK, RecognitionEnvelope{
		Message: "Face training completed",
		Output:  outcome.Output,
	})
}

func (h *RecognitionHandler) readImage(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, RecognitionEnvelope{Error: "Email and image are required."})
		return nil, "", false
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, RecognitionEnvelope{Error: "Email and image are required."})
		return nil, "", false
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, RecognitionEnvelope{Error: "could not read image"})
		return nil, "", false
	}
	return image, header.Filename, true
}

// archive stores the submitted photo for audit. Failures are logged and
// never block the recognition flow.
func (h *RecognitionHandler) archive(r *http.Request, image []byte, filename string) {
	if h.photos == nil {
		return
	}
	key := "attendance/" + id.New() + strings.ToLower(path.Ext(filename))
	if _, err := h.photos.Upload(r.Context(), key, bytes.NewReader(image), contentTypeFor(filename)); err != nil {
		slog.Warn("could not archive attendance photo", "key", key, "err", err)
	}
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
