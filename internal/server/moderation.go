package server

import (
	"net/http"

	"volunteerhub/internal/utils"
	"volunteerhub/internal/validate"
	"volunteerhub/pkg/types"
)

// handlePendingProjects serves the moderation queue, oldest submission first.
func (s *Service) handlePendingProjects(w http.ResponseWriter, r *http.Request) {
	var page struct {
		Limit  uint64 `form:"limit"`
		Offset uint64 `form:"offset"`
	}
	if err := decoder.Decode(&page, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter")
		return
	}

	projects, err := s.repos.Projects.Projects(r.Context(), types.ProjectFilter{
		Moderation: types.ModerationStatusPending,
		Oldest:     true,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		s.writeStoreError(w, r, err, "failed to list projects awaiting moderation")
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

func (s *Service) handleModerateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)

	project, ok := s.loadProject(w, r)
	if !ok {
		return
	}

	var input validate.ModerationInput
	if !decodeOrReject(w, r, &input) {
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	moderation := &types.ProjectModeration{
		ProjectID:   project.ID,
		ModeratorID: user.ID,
		Decision:    input.Decision,
		Comment:     utils.TrimmedPtr(input.Comment),
	}

	if err := s.repos.Moderations.Moderate(ctx, moderation); err != nil {
		s.writeStoreError(w, r, err, "failed to moderate project")
		return
	}
	project.ModerationStatus = moderation.Decision

	s.logger.WithField("project_id", project.ID).
		WithField("moderator_id", user.ID).
		WithField("decision", moderation.Decision).
		Info("project moderated")

	writeJSON(w, http.StatusOK, &types.ModerationResult{Project: project, Moderation: moderation})
}

func (s *Service) handleProjectModerations(w http.ResponseWriter, r *http.Request) {
	project, ok := s.loadProject(w, r)
	if !ok {
		return
	}

	moderations, err := s.repos.Moderations.ModerationsByProject(r.Context(), project.ID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load project moderations")
		return
	}

	writeJSON(w, http.StatusOK, moderations)
}
