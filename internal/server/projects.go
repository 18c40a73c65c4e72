package server

import (
	"errors"
	"net/http"
	"time"

	"volunteerhub/internal/utils"
	"volunteerhub/internal/validate"
	"volunteerhub/pkg/types"
)

// canView reports whether user may see project. Unpublished projects are
// visible to their coordinator and to moderators only.
func canView(user *types.User, project *types.Project) bool {
	if project.IsPublished() {
		return true
	}
	return user != nil && (user.ID == project.CoordinatorID || user.Role.CanModerate())
}

var targetBelowCollected = map[string]string{
	"targetAmountCents": "Target cannot be lower than the amount already collected.",
}

func canManage(user *types.User, project *types.Project) bool {
	return user.Role == types.RoleAdmin || (user.Role == types.RoleCoordinator && user.ID == project.CoordinatorID)
}

// loadProject fetches the project named by the :id path parameter and writes
// the error response itself when it cannot.
func (s *Service) loadProject(w http.ResponseWriter, r *http.Request) (*types.Project, bool) {
	project, err := s.repos.Projects.Project(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load project")
		return nil, false
	}
	return project, true
}

// loadVisibleProject is loadProject for public routes; hidden projects are reported as missing.
func (s *Service) loadVisibleProject(w http.ResponseWriter, r *http.Request) (*types.Project, bool) {
	project, ok := s.loadProject(w, r)
	if !ok {
		return nil, false
	}
	if !canView(s.optionalUser(r), project) {
		writeError(w, http.StatusNotFound, types.ErrProjectNotFound.Error())
		return nil, false
	}
	return project, true
}

// loadManagedProject is loadProject for routes that change the project.
func (s *Service) loadManagedProject(w http.ResponseWriter, r *http.Request) (*types.Project, bool) {
	project, ok := s.loadProject(w, r)
	if !ok {
		return nil, false
	}
	if !canManage(userFromContext(r.Context()), project) {
		writeError(w, http.StatusForbidden, "you can only manage your own projects")
		return nil, false
	}
	return project, true
}

func (s *Service) handleListProjects(w http.ResponseWriter, r *http.Request) {
	var filter types.ProjectFilter
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter")
		return
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeFieldErrors(w, map[string]string{"status": "Unknown project status."})
		return
	}
	filter.Moderation = types.ModerationStatusApproved

	projects, err := s.repos.Projects.Projects(r.Context(), filter)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to list projects")
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

func (s *Service) handleGetProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	project, ok := s.loadVisibleProject(w, r)
	if !ok {
		return
	}

	detail := &types.ProjectDetail{
		Project:        project,
		FundingPercent: project.FundingPercent(),
		RemainingCents: project.RemainingCents(),
	}

	if project.CategoryID != nil {
		category, err := s.repos.Categories.CategoryByID(ctx, *project.CategoryID)
		if err != nil && !errors.Is(err, types.ErrCategoryNotFound) {
			s.writeStoreError(w, r, err, "failed to load project category")
			return
		}
		if category != nil {
			detail.CategoryName = category.Name
		}
	}

	coordinator, err := s.repos.Users.User(ctx, project.CoordinatorID)
	if err != nil && !errors.Is(err, types.ErrUserNotFound) {
		s.writeStoreError(w, r, err, "failed to load project coordinator")
		return
	}
	if coordinator != nil {
		detail.CoordinatorName = coordinator.DisplayName()
	}

	writeJSON(w, http.StatusOK, detail)
}

func (s *Service) handleProjectTasks(w http.ResponseWriter, r *http.Request) {
	project, ok := s.loadVisibleProject(w, r)
	if !ok {
		return
	}

	tasks, err := s.repos.Tasks.TasksByProject(r.Context(), project.ID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load project tasks")
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (s *Service) handleProjectFinance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	project, ok := s.loadVisibleProject(w, r)
	if !ok {
		return
	}

	donations, err := s.repos.Donations.DonationsByProject(ctx, project.ID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load project donations")
		return
	}

	tasks, err := s.repos.Tasks.TasksByProject(ctx, project.ID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load project tasks")
		return
	}

	finance := types.ProjectFinance{
		ProjectID:            project.ID,
		TargetAmountCents:    project.TargetAmountCents,
		CollectedAmountCents: project.CollectedAmountCents,
		RemainingCents:       project.RemainingCents(),
		FundingPercent:       project.FundingPercent(),
		DonationCount:        len(donations),
	}
	for _, task := range tasks {
		finance.TaskBudgetCents += utils.PtrInt64(task.BudgetCents)
		finance.SpentCents += task.SpentCents
	}
	finance.BalanceCents = finance.CollectedAmountCents - finance.SpentCents

	writeJSON(w, http.StatusOK, finance)
}

func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, err := validate.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

// checkCategory turns an unknown category into a field error.
func (s *Service) checkCategory(r *http.Request, categoryID string) (map[string]string, error) {
	if categoryID == "" {
		return nil, nil
	}
	_, err := s.repos.Categories.CategoryByID(r.Context(), categoryID)
	if errors.Is(err, types.ErrCategoryNotFound) {
		return map[string]string{"categoryId": "Unknown category."}, nil
	}
	return nil, err
}

func (s *Service) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)

	var input validate.ProjectInput
	if !decodeOrReject(w, r, &input) {
		return
	}

	errs := input.Validate()
	categoryErrs, err := s.checkCategory(r, input.CategoryID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to check project category")
		return
	}
	if errs = validate.Merge(errs, categoryErrs); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	project := &types.Project{
		CoordinatorID:     user.ID,
		CategoryID:        utils.TrimmedPtr(input.CategoryID),
		Title:             input.Title,
		Description:       input.Description,
		Location:          utils.TrimmedPtr(input.Location),
		TargetAmountCents: input.TargetAmountCents,
		StartDate:         parseOptionalDate(input.StartDate),
		EndDate:           parseOptionalDate(input.EndDate),
	}

	if err := s.repos.Projects.CreateProject(ctx, project); err != nil {
		s.writeStoreError(w, r, err, "failed to create project")
		return
	}

	s.logger.WithField("project_id", project.ID).WithField("user_id", user.ID).Info("project submitted for moderation")

	writeJSON(w, http.StatusCreated, project)
}

func (s *Service) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	project, ok := s.loadManagedProject(w, r)
	if !ok {
		return
	}

	var input validate.ProjectInput
	if !decodeOrReject(w, r, &input) {
		return
	}

	errs := input.Validate()
	categoryErrs, err := s.checkCategory(r, input.CategoryID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to check project category")
		return
	}
	errs = validate.Merge(errs, categoryErrs)
	if input.TargetAmountCents > 0 && input.TargetAmountCents < project.CollectedAmountCents {
		errs = validate.Merge(errs, targetBelowCollected)
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	updated, err := s.repos.Projects.EditProject(ctx, project.ID, &types.ProjectEdit{
		CategoryID:        utils.TrimmedPtr(input.CategoryID),
		Title:             input.Title,
		Description:       input.Description,
		Location:          utils.TrimmedPtr(input.Location),
		TargetAmountCents: input.TargetAmountCents,
		StartDate:         parseOptionalDate(input.StartDate),
		EndDate:           parseOptionalDate(input.EndDate),
	})
	if errors.Is(err, types.ErrTargetBelowCollected) {
		writeFieldErrors(w, targetBelowCollected)
		return
	}
	if err != nil {
		s.writeStoreError(w, r, err, "failed to update project")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Service) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)

	project, ok := s.loadManagedProject(w, r)
	if !ok {
		return
	}

	if project.CollectedAmountCents > 0 && user.Role != types.RoleAdmin {
		writeError(w, http.StatusConflict, "projects that received donations cannot be deleted")
		return
	}

	reports, err := s.repos.ProjectReports.ProjectReportsByProject(ctx, project.ID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load project reports before delete")
		return
	}

	for _, report := range reports {
		key := utils.PtrString(report.DocumentKey)
		if key == "" || s.documents == nil {
			continue
		}

		if err := s.documents.Delete(ctx, key); err != nil {
			s.logger.WithError(err).
				WithField("project_id", project.ID).
				WithField("report_id", report.ID).
				WithField("storage_key", key).
				Warn("failed to delete report document during project delete, continuing")
		}
	}

	if err := s.repos.Projects.DeleteProject(ctx, project.ID); err != nil {
		s.writeStoreError(w, r, err, "failed to delete project")
		return
	}

	s.logger.WithField("project_id", project.ID).WithField("user_id", user.ID).Info("project deleted")

	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleProjectStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	project, ok := s.loadManagedProject(w, r)
	if !ok {
		return
	}

	var input validate.ProjectStatusInput
	if !decodeOrReject(w, r, &input) {
		return
	}
	if errs := validate.Struct(&input); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	if !project.IsPublished() || !project.Status.CanTransitionTo(input.Status) {
		writeError(w, http.StatusConflict, types.ErrInvalidStatusTransition.Error())
		return
	}

	updated, err := s.repos.Projects.SetProjectStatus(ctx, project.ID, project.Status, input.Status)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to update project status")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
