package server

import (
	"net/http"

	"volunteerhub/internal/utils"
	"volunteerhub/internal/validate"
	"volunteerhub/pkg/types"
)

func (s *Service) applicationCards(r *http.Request, applications []*types.Application, projects map[string]*types.Project, withNames bool) ([]*types.ApplicationCard, error) {
	ctx := r.Context()

	if projects == nil {
		ids := make([]string, 0, len(applications))
		for _, application := range applications {
			ids = append(ids, application.ProjectID)
		}
		list, err := s.repos.Projects.ProjectsByIDs(ctx, utils.Unique(ids))
		if err != nil {
			return nil, err
		}
		projects = projectsByID(list)
	}

	names := map[string]string{}
	if withNames {
		ids := make([]string, 0, len(applications))
		for _, application := range applications {
			ids = append(ids, application.VolunteerID)
		}
		volunteers, err := s.repos.Users.UsersByIDs(ctx, utils.Unique(ids))
		if err != nil {
			return nil, err
		}
		for _, volunteer := range volunteers {
			names[volunteer.ID] = volunteer.DisplayName()
		}
	}

	cards := make([]*types.ApplicationCard, 0, len(applications))
	for _, application := range applications {
		card := &types.ApplicationCard{Application: application, VolunteerName: names[application.VolunteerID]}
		if project, ok := projects[application.ProjectID]; ok {
			card.ProjectTitle = project.Title
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *Service) handleApply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)

	project, ok := s.loadVisibleProject(w, r)
	if !ok {
		return
	}
	if !project.AcceptsApplications() {
		writeError(w, http.StatusConflict, "this project is not accepting volunteers")
		return
	}

	var input validate.ApplicationInput
	if !decodeOrReject(w, r, &input) {
		return
	}
	if errs := validate.Struct(&input); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	application := &types.Application{
		ProjectID:   project.ID,
		VolunteerID: user.ID,
		Message:     utils.TrimmedPtr(input.Message),
	}
	if err := s.repos.Applications.CreateApplication(ctx, application); err != nil {
		s.writeStoreError(w, r, err, "failed to create application")
		return
	}

	writeJSON(w, http.StatusCreated, application)
}

func (s *Service) handleVolunteerApplications(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	applications, err := s.repos.Applications.ApplicationsByVolunteer(r.Context(), user.ID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load volunteer applications")
		return
	}

	cards, err := s.applicationCards(r, applications, nil, false)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to build application cards")
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

func (s *Service) handleWithdrawApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)

	application, err := s.repos.Applications.Application(ctx, r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load application")
		return
	}
	if application.VolunteerID != user.ID {
		writeError(w, http.StatusForbidden, "you can only withdraw your own applications")
		return
	}
	if application.Status != types.ReviewStatusPending {
		writeError(w, http.StatusConflict, types.ErrAlreadyReviewed.Error())
		return
	}

	if err := s.repos.Applications.DeleteApplication(ctx, application.ID); err != nil {
		s.writeStoreError(w, r, err, "failed to withdraw application")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleCoordinatorApplications(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	projects, err := s.coordinatorProjects(r, user)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load coordinator projects")
		return
	}

	applications, err := s.repos.Applications.ApplicationsByProjects(r.Context(), projectIDs(projects))
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load project applications")
		return
	}

	if status := types.ReviewStatus(r.URL.Query().Get("status")); status != "" {
		filtered := make([]*types.Application, 0, len(applications))
		for _, application := range applications {
			if application.Status == status {
				filtered = append(filtered, application)
			}
		}
		applications = filtered
	}

	cards, err := s.applicationCards(r, applications, projectsByID(projects), true)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to build application cards")
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

func (s *Service) handleApproveApplication(w http.ResponseWriter, r *http.Request) {
	s.reviewApplication(w, r, types.ReviewStatusApproved)
}

func (s *Service) handleRejectApplication(w http.ResponseWriter, r *http.Request) {
	s.reviewApplication(w, r, types.ReviewStatusRejected)
}

func (s *Service) reviewApplication(w http.ResponseWriter, r *http.Request, status types.ReviewStatus) {
	ctx := r.Context()

	application, err := s.repos.Applications.Application(ctx, r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load application")
		return
	}

	project, err := s.repos.Projects.Project(ctx, application.ProjectID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load application project")
		return
	}
	if !canManage(userFromContext(ctx), project) {
		writeError(w, http.StatusForbidden, "you can only review applications to your own projects")
		return
	}

	if err := s.repos.Applications.SetApplicationStatus(ctx, application.ID, status); err != nil {
		s.writeStoreError(w, r, err, "failed to review application")
		return
	}
	application.Status = status

	writeJSON(w, http.StatusOK, application)
}
