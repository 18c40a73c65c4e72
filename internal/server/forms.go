package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"volunteerhub/internal/validate"
	"volunteerhub/pkg/types"
)

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.repos.Projects.Stats(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load platform stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (s *Service) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.repos.Categories.Categories(r.Context(), true)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load categories")
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

func (s *Service) handleContact(w http.ResponseWriter, r *http.Request) {
	var input validate.ContactInput
	if !decodeOrReject(w, r, &input) {
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	msg := &types.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Message: input.Message,
	}
	if err := s.repos.Contact.CreateContactMessage(ctx, msg); err != nil {
		s.writeStoreError(w, r, err, "failed to submit contact message")
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (s *Service) handleContactMessages(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseUint(r.URL.Query().Get("limit"), 10, 64)

	messages, err := s.repos.Contact.LatestContactMessages(r.Context(), limit)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load contact messages")
		return
	}

	writeJSON(w, http.StatusOK, messages)
}
