package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"volunteerhub/pkg/types"

	"github.com/sirupsen/logrus"
)

type contextKey string

const contextKeyUser contextKey = "user"

var errNoSession = errors.New("no session")

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// sessionUser resolves the session cookie to a live user row.
func (s *Service) sessionUser(r *http.Request) (*types.User, error) {
	cookie, err := r.Cookie(s.config.CookieName)
	if err != nil {
		return nil, errNoSession
	}

	var raw string
	err = s.cookie.Decode(s.config.CookieName, cookie.Value, &raw)
	if err != nil {
		s.logger.WithError(err).Debug("failed to decode session cookie")
		return nil, errNoSession
	}

	claims, err := s.tokens.Parse(raw)
	if err != nil {
		s.logger.WithError(err).Debug("failed to parse session token")
		return nil, errNoSession
	}

	user, err := s.repos.Users.User(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, errNoSession
		}
		return nil, err
	}

	if user.IsBlocked {
		return nil, types.ErrUserBlocked
	}

	return user, nil
}

// optionalUser returns the logged in user or nil.
func (s *Service) optionalUser(r *http.Request) *types.User {
	user, err := s.sessionUser(r)
	if err != nil {
		return nil
	}
	return user
}

// RequireAuth rejects requests without a valid session and puts the user in the context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.sessionUser(r)
		switch {
		case err == nil:
		case errors.Is(err, errNoSession):
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		case errors.Is(err, types.ErrUserBlocked):
			s.clearSessionCookie(w)
			writeError(w, http.StatusForbidden, "your account is blocked")
			return
		default:
			s.logger.WithError(err).Error("failed to load session user")
			s.internalServerError(w)
			return
		}

		s.logger.WithFields(logrus.Fields{
			"user_id": user.ID,
			"role":    user.Role,
		}).Debug("authenticated user")

		ctx := context.WithValue(r.Context(), contextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole must run after RequireAuth.
func (s *Service) RequireRole(roles ...types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := userFromContext(r.Context())
			if user == nil {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, http.StatusForbidden, "you do not have access to this resource")
		})
	}
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func userFromContext(ctx context.Context) *types.User {
	user, _ := ctx.Value(contextKeyUser).(*types.User)
	return user
}
