package server

import (
	"errors"
	"net/http"
	"time"

	"volunteerhub/internal/auth"
	"volunteerhub/internal/validate"
	"volunteerhub/pkg/types"
)

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input validate.LoginInput
	if !decodeOrReject(w, r, &input) {
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	user, err := s.repos.Users.UserByLogin(ctx, input.Login)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, types.ErrInvalidCredentials.Error())
			return
		}
		s.writeStoreError(w, r, err, "failed to look up user for login")
		return
	}

	if err := auth.CheckPassword(input.Password, user.PasswordHash); err != nil {
		if !errors.Is(err, types.ErrInvalidCredentials) {
			s.logger.WithError(err).WithField("user_id", user.ID).Error("failed to check password")
		}
		writeError(w, http.StatusUnauthorized, types.ErrInvalidCredentials.Error())
		return
	}

	if user.IsBlocked {
		writeError(w, http.StatusForbidden, "your account is blocked")
		return
	}

	if err := s.startSession(w, user); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("failed to start session")
		s.internalServerError(w)
		return
	}

	s.logger.WithField("user_id", user.ID).Info("user logged in")

	writeJSON(w, http.StatusOK, sessionFor(user))
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, types.Session{})
}

func (s *Service) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFor(s.optionalUser(r)))
}

func sessionFor(user *types.User) types.Session {
	if user == nil {
		return types.Session{}
	}
	return types.Session{
		IsLoggedIn: true,
		UserRole:   user.Role,
		Username:   user.Username,
		UserID:     user.ID,
	}
}

// startSession issues a token for user and stores it in the encrypted session cookie.
func (s *Service) startSession(w http.ResponseWriter, user *types.User) error {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return err
	}

	encoded, err := s.cookie.Encode(s.config.CookieName, token)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    encoded,
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.tokens.TTL() / time.Second),
		Path:     "/",
	})

	return nil
}

func (s *Service) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
