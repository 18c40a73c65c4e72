package server

import (
	"errors"
	"net/http"

	"volunteerhub/internal/auth"
	"volunteerhub/internal/utils"
	"volunteerhub/internal/validate"
	"volunteerhub/pkg/types"
)

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input validate.RegisterInput
	if !decodeOrReject(w, r, &input) {
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		s.logger.WithField("field_errors", errs).Info("validation errors during registration")
		writeFieldErrors(w, errs)
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		s.logger.WithError(err).Error("failed to hash password")
		s.internalServerError(w)
		return
	}

	user := &types.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		FullName:     utils.TrimmedPtr(input.FullName),
		City:         utils.TrimmedPtr(input.City),
	}
	if input.Phone != "" {
		user.Phone = utils.StringPtr(validate.NormalizePhone(input.Phone))
	}
	if input.BirthDate != "" {
		birthDate, _ := validate.ParseDate(input.BirthDate)
		user.BirthDate = &birthDate
	}

	err = s.repos.Users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, types.ErrUserExists) {
			writeJSON(w, http.StatusConflict, errorResponse{
				Error: "Try logging in instead.",
				Fields: map[string]string{
					"username": "An account with this username or email already exists.",
				},
			})
			return
		}
		s.writeStoreError(w, r, err, "failed to create user")
		return
	}

	s.logger.WithField("user_id", user.ID).WithField("role", user.Role).Info("user registered")

	if err := s.startSession(w, user); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("failed to start session after registration")
		s.internalServerError(w)
		return
	}

	writeJSON(w, http.StatusCreated, sessionFor(user))
}
