package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"volunteerhub/pkg/types"
)

const maxJSONBodyBytes = 1 << 20

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:  "Please fix the highlighted fields.",
		Fields: fields,
	})
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// decodeBody reads a JSON, urlencoded or multipart body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return err
		}
		return decoder.Decode(dst, r.PostForm)
	case "multipart/form-data":
		if r.MultipartForm == nil {
			if err := r.ParseMultipartForm(maxJSONBodyBytes); err != nil {
				return err
			}
		}
		return decoder.Decode(dst, r.MultipartForm.Value)
	}

	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)).Decode(dst)
}

// decodeOrReject decodes the body and answers 400 on failure.
func decodeOrReject(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeBody(w, r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeStoreError maps repository sentinels to HTTP statuses and hides
// everything else behind a 500.
func (s *Service) writeStoreError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, types.ErrUserNotFound),
		errors.Is(err, types.ErrCategoryNotFound),
		errors.Is(err, types.ErrProjectNotFound),
		errors.Is(err, types.ErrTaskNotFound),
		errors.Is(err, types.ErrReportNotFound),
		errors.Is(err, types.ErrApplicationNotFound),
		errors.Is(err, types.ErrProjectReportNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrUserExists),
		errors.Is(err, types.ErrApplicationExists),
		errors.Is(err, types.ErrAlreadyReviewed),
		errors.Is(err, types.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, types.ErrProjectNotAcceptingDonations),
		errors.Is(err, types.ErrDonationExceedsRemaining):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, types.ErrUserBlocked):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		s.logger.WithError(err).WithField("path", r.URL.Path).Error(msg)
		s.internalServerError(w)
	}
}
