package server

import (
	"errors"
	"net/http"
	"strings"

	"volunteerhub/internal/validate"
	"volunteerhub/pkg/types"
)

// coordinatorProjects lists every project the user coordinates.
func (s *Service) coordinatorProjects(r *http.Request, user *types.User) ([]*types.Project, error) {
	return s.repos.Projects.Projects(r.Context(), types.ProjectFilter{
		CoordinatorID: user.ID,
		Limit:         200,
	})
}

func projectIDs(projects []*types.Project) []string {
	ids := make([]string, 0, len(projects))
	for _, project := range projects {
		ids = append(ids, project.ID)
	}
	return ids
}

func projectsByID(projects []*types.Project) map[string]*types.Project {
	out := make(map[string]*types.Project, len(projects))
	for _, project := range projects {
		out[project.ID] = project
	}
	return out
}

func (s *Service) taskCards(r *http.Request, tasks []*types.Task, projects map[string]*types.Project) ([]*types.TaskCard, error) {
	if projects == nil {
		ids := make([]string, 0, len(tasks))
		for _, task := range tasks {
			ids = append(ids, task.ProjectID)
		}
		list, err := s.repos.Projects.ProjectsByIDs(r.Context(), ids)
		if err != nil {
			return nil, err
		}
		projects = projectsByID(list)
	}

	now := s.now()
	cards := make([]*types.TaskCard, 0, len(tasks))
	for _, task := range tasks {
		card := &types.TaskCard{Task: task, Overdue: task.Overdue(now)}
		if project, ok := projects[task.ProjectID]; ok {
			card.ProjectTitle = project.Title
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// loadTask fetches the :id task together with its project.
func (s *Service) loadTask(w http.ResponseWriter, r *http.Request) (*types.Task, *types.Project, bool) {
	ctx := r.Context()

	task, err := s.repos.Tasks.Task(ctx, r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load task")
		return nil, nil, false
	}

	project, err := s.repos.Projects.Project(ctx, task.ProjectID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load task project")
		return nil, nil, false
	}

	return task, project, true
}

// checkAssignee verifies that volunteerID may work on project.
func (s *Service) checkAssignee(r *http.Request, project *types.Project, volunteerID string) (map[string]string, error) {
	ctx := r.Context()
	rejected := map[string]string{"volunteerId": "Volunteer must have an approved application to this project."}

	volunteer, err := s.repos.Users.User(ctx, volunteerID)
	if errors.Is(err, types.ErrUserNotFound) {
		return rejected, nil
	}
	if err != nil {
		return nil, err
	}
	if volunteer.Role != types.RoleVolunteer || volunteer.IsBlocked {
		return rejected, nil
	}

	application, err := s.repos.Applications.ApplicationFor(ctx, project.ID, volunteerID)
	if errors.Is(err, types.ErrApplicationNotFound) {
		return rejected, nil
	}
	if err != nil {
		return nil, err
	}
	if application.Status != types.ReviewStatusApproved {
		return rejected, nil
	}

	return nil, nil
}

func (s *Service) handleCoordinatorTasks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	projects, err := s.coordinatorProjects(r, user)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load coordinator projects")
		return
	}

	tasks, err := s.repos.Tasks.TasksByProjects(r.Context(), projectIDs(projects))
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load coordinator tasks")
		return
	}

	cards, err := s.taskCards(r, tasks, projectsByID(projects))
	if err != nil {
		s.writeStoreError(w, r, err, "failed to build task cards")
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

func (s *Service) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)

	var input validate.TaskInput
	if !decodeOrReject(w, r, &input) {
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	project, err := s.repos.Projects.Project(ctx, input.ProjectID)
	if err != nil {
		if errors.Is(err, types.ErrProjectNotFound) {
			writeFieldErrors(w, map[string]string{"projectId": "Unknown project."})
			return
		}
		s.writeStoreError(w, r, err, "failed to load project for task")
		return
	}

	if project.CoordinatorID != user.ID {
		writeError(w, http.StatusForbidden, "you can only add tasks to your own projects")
		return
	}
	if !project.IsPublished() {
		writeFieldErrors(w, map[string]string{"projectId": "Tasks can only be added to approved projects."})
		return
	}

	volunteerID := ""
	if input.VolunteerID != nil {
		volunteerID = strings.TrimSpace(*input.VolunteerID)
	}
	if volunteerID != "" {
		errs, err := s.checkAssignee(r, project, volunteerID)
		if err != nil {
			s.writeStoreError(w, r, err, "failed to check task assignee")
			return
		}
		if len(errs) > 0 {
			writeFieldErrors(w, errs)
			return
		}
	}

	task := &types.Task{
		ProjectID:   project.ID,
		Title:       input.Title,
		Description: input.Description,
		Deadline:    parseOptionalDate(input.Deadline),
		BudgetCents: input.BudgetCents,
	}
	if volunteerID != "" {
		task.VolunteerID = &volunteerID
	}

	if err := s.repos.Tasks.CreateTask(ctx, task); err != nil {
		s.writeStoreError(w, r, err, "failed to create task")
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (s *Service) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)

	task, project, ok := s.loadTask(w, r)
	if !ok {
		return
	}
	if !canManage(user, project) {
		writeError(w, http.StatusForbidden, "you can only manage tasks of your own projects")
		return
	}

	var input validate.TaskUpdateInput
	if !decodeOrReject(w, r, &input) {
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	if input.VolunteerID != nil {
		volunteerID := strings.TrimSpace(*input.VolunteerID)
		if volunteerID == "" {
			task.VolunteerID = nil
		} else {
			errs, err := s.checkAssignee(r, project, volunteerID)
			if err != nil {
				s.writeStoreError(w, r, err, "failed to check task assignee")
				return
			}
			if len(errs) > 0 {
				writeFieldErrors(w, errs)
				return
			}
			task.VolunteerID = &volunteerID
		}
	}

	if input.Status != nil && *input.Status != task.Status {
		if !task.Status.CanTransitionTo(*input.Status) {
			writeError(w, http.StatusConflict, types.ErrInvalidStatusTransition.Error())
			return
		}
		task.Status = *input.Status
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Deadline != nil {
		task.Deadline = parseOptionalDate(*input.Deadline)
	}
	if input.BudgetCents != nil {
		task.BudgetCents = input.BudgetCents
	}

	if err := s.repos.Tasks.UpdateTask(ctx, task); err != nil {
		s.writeStoreError(w, r, err, "failed to update task")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (s *Service) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	task, project, ok := s.loadTask(w, r)
	if !ok {
		return
	}
	if !canManage(userFromContext(ctx), project) {
		writeError(w, http.StatusForbidden, "you can only manage tasks of your own projects")
		return
	}

	if err := s.repos.Tasks.DeleteTask(ctx, task.ID); err != nil {
		s.writeStoreError(w, r, err, "failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleVolunteerTasks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	tasks, err := s.repos.Tasks.TasksByVolunteer(r.Context(), user.ID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load volunteer tasks")
		return
	}

	cards, err := s.taskCards(r, tasks, nil)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to build task cards")
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

// handleTaskStatus lets the assignee start or pause a task and lets the
// coordinator move it anywhere the transition table allows. Completion by a
// volunteer happens through an approved report.
func (s *Service) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)

	task, project, ok := s.loadTask(w, r)
	if !ok {
		return
	}

	var input validate.TaskStatusInput
	if !decodeOrReject(w, r, &input) {
		return
	}
	if errs := validate.Struct(&input); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	switch user.Role {
	case types.RoleVolunteer:
		if !task.AssignedTo(user.ID) {
			writeError(w, http.StatusForbidden, "this task is not assigned to you")
			return
		}
		if input.Status == types.TaskStatusCompleted || task.Status == types.TaskStatusCompleted {
			writeError(w, http.StatusConflict, "submit a report to complete a task")
			return
		}
	default:
		if !canManage(user, project) {
			writeError(w, http.StatusForbidden, "you can only manage tasks of your own projects")
			return
		}
	}

	if !task.Status.CanTransitionTo(input.Status) {
		writeError(w, http.StatusConflict, types.ErrInvalidStatusTransition.Error())
		return
	}

	task.Status = input.Status
	if err := s.repos.Tasks.UpdateTask(ctx, task); err != nil {
		s.writeStoreError(w, r, err, "failed to update task status")
		return
	}

	writeJSON(w, http.StatusOK, task)
}
