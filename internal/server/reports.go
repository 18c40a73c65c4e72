package server

import (
	"net/http"

	"volunteerhub/internal/utils"
	"volunteerhub/internal/validate"
	"volunteerhub/pkg/types"
)

func (s *Service) reportCards(r *http.Request, reports []*types.Report, tasks map[string]*types.Task, withNames bool) ([]*types.ReportCard, error) {
	ctx := r.Context()

	if tasks == nil {
		tasks = map[string]*types.Task{}
		for _, report := range reports {
			if _, ok := tasks[report.TaskID]; ok {
				continue
			}
			task, err := s.repos.Tasks.Task(ctx, report.TaskID)
			if err != nil {
				return nil, err
			}
			tasks[task.ID] = task
		}
	}

	names := map[string]string{}
	if withNames {
		ids := make([]string, 0, len(reports))
		for _, report := range reports {
			ids = append(ids, report.VolunteerID)
		}
		volunteers, err := s.repos.Users.UsersByIDs(ctx, utils.Unique(ids))
		if err != nil {
			return nil, err
		}
		for _, volunteer := range volunteers {
			names[volunteer.ID] = volunteer.DisplayName()
		}
	}

	cards := make([]*types.ReportCard, 0, len(reports))
	for _, report := range reports {
		card := &types.ReportCard{Report: report, VolunteerName: names[report.VolunteerID]}
		if task, ok := tasks[report.TaskID]; ok {
			card.TaskTitle = task.Title
			card.ProjectID = task.ProjectID
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *Service) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)

	task, _, ok := s.loadTask(w, r)
	if !ok {
		return
	}
	if !task.AssignedTo(user.ID) {
		writeError(w, http.StatusForbidden, "this task is not assigned to you")
		return
	}
	if task.Status == types.TaskStatusCompleted {
		writeError(w, http.StatusConflict, "this task is already completed")
		return
	}

	existing, err := s.repos.Reports.ReportsByTask(ctx, task.ID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load task reports")
		return
	}
	for _, report := range existing {
		if report.Status == types.ReviewStatusPending {
			writeError(w, http.StatusConflict, "a report for this task is already awaiting review")
			return
		}
	}

	var input validate.ReportInput
	if !decodeOrReject(w, r, &input) {
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	report := &types.Report{
		TaskID:           task.ID,
		VolunteerID:      user.ID,
		Content:          input.Content,
		AmountSpentCents: input.AmountSpentCents,
		ReceiptNote:      utils.TrimmedPtr(input.ReceiptNote),
	}
	if err := s.repos.Reports.CreateReport(ctx, report); err != nil {
		s.writeStoreError(w, r, err, "failed to create report")
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

func (s *Service) handleCoordinatorReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)

	projects, err := s.coordinatorProjects(r, user)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load coordinator projects")
		return
	}

	tasks, err := s.repos.Tasks.TasksByProjects(ctx, projectIDs(projects))
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load coordinator tasks")
		return
	}

	taskIDs := make([]string, 0, len(tasks))
	byID := make(map[string]*types.Task, len(tasks))
	for _, task := range tasks {
		taskIDs = append(taskIDs, task.ID)
		byID[task.ID] = task
	}

	reports, err := s.repos.Reports.ReportsByTasks(ctx, taskIDs)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load task reports")
		return
	}

	if status := types.ReviewStatus(r.URL.Query().Get("status")); status != "" {
		filtered := make([]*types.Report, 0, len(reports))
		for _, report := range reports {
			if report.Status == status {
				filtered = append(filtered, report)
			}
		}
		reports = filtered
	}

	cards, err := s.reportCards(r, reports, byID, true)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to build report cards")
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

func (s *Service) handleApproveReport(w http.ResponseWriter, r *http.Request) {
	s.reviewReport(w, r, types.ReviewStatusApproved)
}

func (s *Service) handleRejectReport(w http.ResponseWriter, r *http.Request) {
	s.reviewReport(w, r, types.ReviewStatusRejected)
}

// reviewReport records the coordinator's decision. Approval completes the
// task and books the reported expense.
func (s *Service) reviewReport(w http.ResponseWriter, r *http.Request, status types.ReviewStatus) {
	ctx := r.Context()
	user := userFromContext(ctx)

	report, err := s.repos.Reports.Report(ctx, r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load report")
		return
	}

	task, err := s.repos.Tasks.Task(ctx, report.TaskID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load report task")
		return
	}

	project, err := s.repos.Projects.Project(ctx, task.ProjectID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load report project")
		return
	}
	if !canManage(user, project) {
		writeError(w, http.StatusForbidden, "you can only review reports of your own projects")
		return
	}

	var input validate.ReviewInput
	if !decodeOrReject(w, r, &input) {
		return
	}
	if errs := validate.Struct(&input); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	report.Status = status
	report.ReviewComment = utils.TrimmedPtr(input.Comment)
	report.ReviewedBy = utils.StringPtr(user.ID)

	if err := s.repos.Reports.ReviewReport(ctx, report); err != nil {
		s.writeStoreError(w, r, err, "failed to review report")
		return
	}

	s.logger.WithField("report_id", report.ID).
		WithField("task_id", task.ID).
		WithField("status", status).
		Info("report reviewed")

	writeJSON(w, http.StatusOK, report)
}
