package server

import (
	"net/http"

	"volunteerhub/pkg/types"
)

func (s *Service) handleListUsers(w http.ResponseWriter, r *http.Request) {
	var filter types.UserFilter
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter")
		return
	}
	if filter.Role != "" && !filter.Role.Valid() {
		writeFieldErrors(w, map[string]string{"role": "Unknown role."})
		return
	}

	users, err := s.repos.Users.Users(r.Context(), filter)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (s *Service) handleBlockUser(w http.ResponseWriter, r *http.Request) {
	s.setUserBlocked(w, r, true)
}

func (s *Service) handleUnblockUser(w http.ResponseWriter, r *http.Request) {
	s.setUserBlocked(w, r, false)
}

func (s *Service) setUserBlocked(w http.ResponseWriter, r *http.Request, blocked bool) {
	ctx := r.Context()
	admin := userFromContext(ctx)

	target, err := s.repos.Users.User(ctx, r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load user")
		return
	}

	if blocked && (target.ID == admin.ID || target.Role == types.RoleAdmin) {
		writeError(w, http.StatusConflict, "administrators cannot be blocked")
		return
	}

	if err := s.repos.Users.SetBlocked(ctx, target.ID, blocked); err != nil {
		s.writeStoreError(w, r, err, "failed to update user block flag")
		return
	}
	target.IsBlocked = blocked

	s.logger.WithField("user_id", target.ID).
		WithField("admin_id", admin.ID).
		WithField("blocked", blocked).
		Info("user block flag changed")

	writeJSON(w, http.StatusOK, target)
}

func (s *Service) handleVerifyUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	target, err := s.repos.Users.User(ctx, r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load user")
		return
	}

	if err := s.repos.Users.SetVerified(ctx, target.ID, true); err != nil {
		s.writeStoreError(w, r, err, "failed to verify user")
		return
	}
	target.IsVerified = true

	writeJSON(w, http.StatusOK, target)
}
