package server

import (
	"net/http"

	"volunteerhub/internal/utils"
	"volunteerhub/internal/validate"
)

func (s *Service) handleGetMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFromContext(r.Context()))
}

func (s *Service) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)

	var input validate.ProfileInput
	if !decodeOrReject(w, r, &input) {
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	updated := *user
	updated.FullName = utils.TrimmedPtr(input.FullName)
	updated.City = utils.TrimmedPtr(input.City)
	updated.Bio = utils.TrimmedPtr(input.Bio)
	updated.Phone = nil
	if input.Phone != "" {
		updated.Phone = utils.StringPtr(validate.NormalizePhone(input.Phone))
	}
	updated.BirthDate = nil
	if input.BirthDate != "" {
		birthDate, _ := validate.ParseDate(input.BirthDate)
		updated.BirthDate = &birthDate
	}

	if err := s.repos.Users.UpdateProfile(ctx, &updated); err != nil {
		s.writeStoreError(w, r, err, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, &updated)
}
