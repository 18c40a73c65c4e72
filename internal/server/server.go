package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"volunteerhub/internal/auth"
	"volunteerhub/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config
	repos  Repositories

	tokens    *auth.TokenIssuer
	cookie    *securecookie.SecureCookie
	documents DocumentStore

	now func() time.Time

	server *http.Server
}

// New builds the HTTP service. documents may be nil, in which case
// document uploads are rejected.
func New(
	config *types.Config,
	logger *logrus.Logger,
	repos Repositories,
	tokens *auth.TokenIssuer,
	documents DocumentStore,
) (*Service, error) {
	mux := flow.New()

	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cookie hash key: %w", err)
	}
	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cookie block key: %w", err)
	}

	cookie := securecookie.New(hashKey, blockKey)
	cookie.MaxAge(config.SessionMaxAgeSec)

	s := &Service{
		logger:    logger,
		config:    config,
		repos:     repos,
		tokens:    tokens,
		cookie:    cookie,
		documents: documents,
		now:       time.Now,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	// Wrapped around the whole mux so unmatched paths are logged and redirected too.
	s.server.Handler = s.StripTrailingSlash(s.LoggingMiddleware(mux))

	return s, nil
}

func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/api/stats", s.handleStats, http.MethodGet)
	r.HandleFunc("/api/categories", s.handleCategories, http.MethodGet)
	r.HandleFunc("/api/projects", s.handleListProjects, http.MethodGet)
	r.HandleFunc("/api/projects/:id", s.handleGetProject, http.MethodGet)
	r.HandleFunc("/api/projects/:id/tasks", s.handleProjectTasks, http.MethodGet)
	r.HandleFunc("/api/projects/:id/donations", s.handleProjectDonations, http.MethodGet)
	r.HandleFunc("/api/projects/:id/reports", s.handleProjectReports, http.MethodGet)
	r.HandleFunc("/api/projects/:id/finance", s.handleProjectFinance, http.MethodGet)
	r.HandleFunc("/api/contact", s.handleContact, http.MethodPost)

	r.HandleFunc("/api/register", s.handleRegister, http.MethodPost)
	r.HandleFunc("/api/login", s.handleLogin, http.MethodPost)
	r.HandleFunc("/api/logout", s.handleLogout, http.MethodPost)
	r.HandleFunc("/api/session", s.handleSession, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/me", s.handleGetMe, http.MethodGet)
		r.HandleFunc("/api/me", s.handleUpdateMe, http.MethodPut)

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.RoleCoordinator))

			r.HandleFunc("/api/projects", s.handleCreateProject, http.MethodPost)
			r.HandleFunc("/api/coordinator/dashboard", s.handleCoordinatorDashboard, http.MethodGet)
			r.HandleFunc("/api/coordinator/tasks", s.handleCoordinatorTasks, http.MethodGet)
			r.HandleFunc("/api/coordinator/tasks", s.handleCreateTask, http.MethodPost)
			r.HandleFunc("/api/coordinator/applications", s.handleCoordinatorApplications, http.MethodGet)
			r.HandleFunc("/api/coordinator/reports", s.handleCoordinatorReports, http.MethodGet)
		})

		// Owners of a project act on it; admins may step in.
		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.RoleCoordinator, types.RoleAdmin))

			r.HandleFunc("/api/projects/:id", s.handleUpdateProject, http.MethodPut)
			r.HandleFunc("/api/projects/:id", s.handleDeleteProject, http.MethodDelete)
			r.HandleFunc("/api/projects/:id/status", s.handleProjectStatus, http.MethodPost)
			r.HandleFunc("/api/projects/:id/reports", s.handleCreateProjectReport, http.MethodPost)
			r.HandleFunc("/api/project-reports/:id", s.handleDeleteProjectReport, http.MethodDelete)
			r.HandleFunc("/api/tasks/:id", s.handleUpdateTask, http.MethodPut)
			r.HandleFunc("/api/tasks/:id", s.handleDeleteTask, http.MethodDelete)
			r.HandleFunc("/api/applications/:id/approve", s.handleApproveApplication, http.MethodPost)
			r.HandleFunc("/api/applications/:id/reject", s.handleRejectApplication, http.MethodPost)
			r.HandleFunc("/api/reports/:id/approve", s.handleApproveReport, http.MethodPost)
			r.HandleFunc("/api/reports/:id/reject", s.handleRejectReport, http.MethodPost)
		})

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.RoleVolunteer))

			r.HandleFunc("/api/volunteer/dashboard", s.handleVolunteerDashboard, http.MethodGet)
			r.HandleFunc("/api/volunteer/tasks", s.handleVolunteerTasks, http.MethodGet)
			r.HandleFunc("/api/volunteer/applications", s.handleVolunteerApplications, http.MethodGet)
			r.HandleFunc("/api/tasks/:id/reports", s.handleCreateReport, http.MethodPost)
			r.HandleFunc("/api/projects/:id/applications", s.handleApply, http.MethodPost)
			r.HandleFunc("/api/applications/:id", s.handleWithdrawApplication, http.MethodDelete)
		})

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.RoleVolunteer, types.RoleCoordinator, types.RoleAdmin))

			r.HandleFunc("/api/tasks/:id/status", s.handleTaskStatus, http.MethodPost)
		})

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.RoleDonor))

			r.HandleFunc("/api/donations", s.handleDonate, http.MethodPost)
			r.HandleFunc("/api/donor/dashboard", s.handleDonorDashboard, http.MethodGet)
			r.HandleFunc("/api/donor/donations", s.handleDonorDonations, http.MethodGet)
		})

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.RoleAdmin, types.RoleModerator))

			r.HandleFunc("/api/admin/dashboard", s.handleAdminDashboard, http.MethodGet)
			r.HandleFunc("/api/admin/projects/pending", s.handlePendingProjects, http.MethodGet)
			r.HandleFunc("/api/admin/projects/:id/moderate", s.handleModerateProject, http.MethodPost)
			r.HandleFunc("/api/admin/projects/:id/moderations", s.handleProjectModerations, http.MethodGet)
			r.HandleFunc("/api/admin/users", s.handleListUsers, http.MethodGet)
			r.HandleFunc("/api/admin/users/:id/verify", s.handleVerifyUser, http.MethodPost)
			r.HandleFunc("/api/admin/contact-messages", s.handleContactMessages, http.MethodGet)
		})

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.RoleAdmin))

			r.HandleFunc("/api/admin/users/:id/block", s.handleBlockUser, http.MethodPost)
			r.HandleFunc("/api/admin/users/:id/unblock", s.handleUnblockUser, http.MethodPost)
		})
	})
}
