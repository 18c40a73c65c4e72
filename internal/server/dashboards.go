package server

import (
	"net/http"

	"volunteerhub/pkg/types"
)

const dashboardContactMessages = 10

func (s *Service) handleVolunteerDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)

	tasks, err := s.repos.Tasks.TasksByVolunteer(ctx, user.ID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load volunteer tasks")
		return
	}
	taskCards, err := s.taskCards(r, tasks, nil)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to build task cards")
		return
	}

	applications, err := s.repos.Applications.ApplicationsByVolunteer(ctx, user.ID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load volunteer applications")
		return
	}
	applicationCards, err := s.applicationCards(r, applications, nil, false)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to build application cards")
		return
	}

	reports, err := s.repos.Reports.ReportsByVolunteer(ctx, user.ID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load volunteer reports")
		return
	}
	tasksByID := make(map[string]*types.Task, len(tasks))
	for _, task := range tasks {
		tasksByID[task.ID] = task
	}
	reportCards, err := s.reportCards(r, reports, tasksByID, false)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to build report cards")
		return
	}

	dashboard := &types.VolunteerDashboard{
		User:         user,
		Tasks:        taskCards,
		Applications: applicationCards,
		Reports:      reportCards,
	}
	for _, task := range tasks {
		switch task.Status {
		case types.TaskStatusCompleted:
			dashboard.CompletedTasks++
		default:
			dashboard.ActiveTasks++
		}
	}

	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Service) handleCoordinatorDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)

	projects, err := s.coordinatorProjects(r, user)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load coordinator projects")
		return
	}
	ids := projectIDs(projects)
	byID := projectsByID(projects)

	tasks, err := s.repos.Tasks.TasksByProjects(ctx, ids)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load coordinator tasks")
		return
	}

	applications, err := s.repos.Applications.ApplicationsByProjects(ctx, ids)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load project applications")
		return
	}

	taskIDs := make([]string, 0, len(tasks))
	tasksByID := make(map[string]*types.Task, len(tasks))
	for _, task := range tasks {
		taskIDs = append(taskIDs, task.ID)
		tasksByID[task.ID] = task
	}

	reports, err := s.repos.Reports.ReportsByTasks(ctx, taskIDs)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load task reports")
		return
	}

	summaries := make(map[string]*types.ProjectSummary, len(projects))
	dashboard := &types.CoordinatorDashboard{
		User:     user,
		Projects: make([]*types.ProjectSummary, 0, len(projects)),
	}
	for _, project := range projects {
		summary := &types.ProjectSummary{Project: project, FundingPercent: project.FundingPercent()}
		summaries[project.ID] = summary
		dashboard.Projects = append(dashboard.Projects, summary)
		dashboard.TotalCollectedCents += project.CollectedAmountCents
		dashboard.TotalTargetCents += project.TargetAmountCents
	}
	for _, task := range tasks {
		summary := summaries[task.ProjectID]
		if summary == nil {
			continue
		}
		summary.TaskCount++
		if task.Status == types.TaskStatusCompleted {
			summary.CompletedTasks++
		}
	}

	pendingApplications := make([]*types.Application, 0)
	for _, application := range applications {
		if application.Status != types.ReviewStatusPending {
			continue
		}
		pendingApplications = append(pendingApplications, application)
		if summary := summaries[application.ProjectID]; summary != nil {
			summary.PendingApplications++
		}
	}
	dashboard.PendingApplications, err = s.applicationCards(r, pendingApplications, byID, true)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to build application cards")
		return
	}

	pendingReports := make([]*types.Report, 0)
	for _, report := range reports {
		if report.Status == types.ReviewStatusPending {
			pendingReports = append(pendingReports, report)
		}
	}
	dashboard.PendingReports, err = s.reportCards(r, pendingReports, tasksByID, true)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to build report cards")
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Service) handleDonorDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)

	donations, err := s.repos.Donations.DonationsByDonor(ctx, user.ID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load donor donations")
		return
	}

	cards, err := s.donationCards(r, donations)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load donation projects")
		return
	}

	dashboard := &types.DonorDashboard{User: user, Donations: cards}
	supported := map[string]struct{}{}
	for _, donation := range donations {
		dashboard.TotalDonatedCents += donation.AmountCents
		supported[donation.ProjectID] = struct{}{}
	}
	dashboard.ProjectsSupported = len(supported)

	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Service) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.repos.Projects.Stats(ctx)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load platform stats")
		return
	}

	counts, err := s.repos.Users.CountByRole(ctx)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to count users")
		return
	}

	pending, err := s.repos.Projects.Projects(ctx, types.ProjectFilter{Moderation: types.ModerationStatusPending, Oldest: true})
	if err != nil {
		s.writeStoreError(w, r, err, "failed to list projects awaiting moderation")
		return
	}

	messages, err := s.repos.Contact.LatestContactMessages(ctx, dashboardContactMessages)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load contact messages")
		return
	}

	writeJSON(w, http.StatusOK, &types.AdminDashboard{
		Stats:           *stats,
		UsersByRole:     counts,
		PendingProjects: pending,
		ContactMessages: messages,
	})
}
