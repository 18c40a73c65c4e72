package server

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"volunteerhub/internal/auth"
	"volunteerhub/internal/storage"
	"volunteerhub/pkg/types"
)

// memStore implements every repository interface in memory.
type memStore struct {
	mu  sync.Mutex
	seq int

	users          map[string]*types.User
	categories     map[string]*types.ProjectCategory
	projects       map[string]*types.Project
	moderations    []*types.ProjectModeration
	tasks          map[string]*types.Task
	reports        map[string]*types.Report
	applications   map[string]*types.Application
	donations      []*types.Donation
	projectReports map[string]*types.ProjectReport
	contact        []*types.ContactMessage
}

func newMemStore() *memStore {
	return &memStore{
		users:          map[string]*types.User{},
		categories:     map[string]*types.ProjectCategory{},
		projects:       map[string]*types.Project{},
		tasks:          map[string]*types.Task{},
		reports:        map[string]*types.Report{},
		applications:   map[string]*types.Application{},
		projectReports: map[string]*types.ProjectReport{},
	}
}

func (m *memStore) repos() Repositories {
	return Repositories{
		Users:          m,
		Categories:     m,
		Projects:       m,
		Moderations:    m,
		Tasks:          m,
		Reports:        m,
		Applications:   m,
		Donations:      m,
		ProjectReports: m,
		Contact:        m,
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%04d", prefix, m.seq)
}

func copyOf[T any](v *T) *T {
	cp := *v
	return &cp
}

func sortedValues[T any](in map[string]*T, keep func(*T) bool) []*T {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*T, 0, len(keys))
	for _, k := range keys {
		if keep(in[k]) {
			out = append(out, copyOf(in[k]))
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// seeding helpers

func (m *memStore) addUser(role types.Role, username string) *types.User {
	hash, err := auth.HashPassword("secret123")
	if err != nil {
		panic(err)
	}
	user := &types.User{
		Username:     username,
		Email:        username + "@example.org",
		PasswordHash: hash,
		Role:         role,
	}
	if err := m.Create(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}

func (m *memStore) addProject(coordinatorID string, moderation types.ModerationStatus, target, collected int64) *types.Project {
	project := &types.Project{
		CoordinatorID: coordinatorID,
		Title:         "Riverside cleanup",
		Description:   "Clean the riverside park together.",
	}
	project.TargetAmountCents = target
	if err := m.CreateProject(context.Background(), project); err != nil {
		panic(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.projects[project.ID]
	stored.ModerationStatus = moderation
	stored.CollectedAmountCents = collected
	return copyOf(stored)
}

func (m *memStore) addApplication(projectID, volunteerID string, status types.ReviewStatus) *types.Application {
	application := &types.Application{ProjectID: projectID, VolunteerID: volunteerID}
	if err := m.CreateApplication(context.Background(), application); err != nil {
		panic(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applications[application.ID].Status = status
	return copyOf(m.applications[application.ID])
}

func (m *memStore) project(id string) *types.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyOf(m.projects[id])
}

func (m *memStore) task(id string) *types.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyOf(m.tasks[id])
}

// UserStore

func (m *memStore) User(_ context.Context, userID string) (*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return copyOf(user), nil
}

func (m *memStore) UserByLogin(_ context.Context, login string) (*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	login = strings.TrimSpace(login)
	var byEmail *types.User
	for _, user := range m.users {
		if strings.EqualFold(user.Username, login) {
			return copyOf(user), nil
		}
		if strings.EqualFold(user.Email, login) {
			byEmail = user
		}
	}
	if byEmail == nil {
		return nil, types.ErrUserNotFound
	}
	return copyOf(byEmail), nil
}

func (m *memStore) UsersByIDs(_ context.Context, userIDs []string) ([]*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.users, func(u *types.User) bool { return contains(userIDs, u.ID) }), nil
}

func (m *memStore) Users(_ context.Context, filter types.UserFilter) ([]*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.users, func(u *types.User) bool {
		if filter.Role != "" && u.Role != filter.Role {
			return false
		}
		if filter.Blocked != nil && u.IsBlocked != *filter.Blocked {
			return false
		}
		return filter.Query == "" || strings.Contains(u.Username, filter.Query)
	}), nil
}

func (m *memStore) Create(_ context.Context, user *types.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Username, user.Username) || strings.EqualFold(existing.Email, user.Email) {
			return types.ErrUserExists
		}
	}
	user.ID = m.nextID("u")
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = copyOf(user)
	return nil
}

func (m *memStore) UpdateProfile(_ context.Context, user *types.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[user.ID]
	if !ok {
		return types.ErrUserNotFound
	}
	stored.FullName, stored.Phone, stored.BirthDate, stored.City, stored.Bio = user.FullName, user.Phone, user.BirthDate, user.City, user.Bio
	return nil
}

func (m *memStore) SetBlocked(_ context.Context, userID string, blocked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return types.ErrUserNotFound
	}
	user.IsBlocked = blocked
	return nil
}

func (m *memStore) SetVerified(_ context.Context, userID string, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return types.ErrUserNotFound
	}
	user.IsVerified = verified
	return nil
}

func (m *memStore) CountByRole(_ context.Context) (map[types.Role]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[types.Role]int{}
	for _, role := range types.AllRoles {
		counts[role] = 0
	}
	for _, user := range m.users {
		counts[user.Role]++
	}
	return counts, nil
}

// CategoryStore

func (m *memStore) Categories(_ context.Context, activeOnly bool) ([]*types.ProjectCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.categories, func(c *types.ProjectCategory) bool { return !activeOnly || c.IsActive }), nil
}

func (m *memStore) CategoryByID(_ context.Context, id string) (*types.ProjectCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.categories[id]
	if !ok {
		return nil, types.ErrCategoryNotFound
	}
	return copyOf(category), nil
}

// ProjectStore

func (m *memStore) Project(_ context.Context, projectID string) (*types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	project, ok := m.projects[projectID]
	if !ok {
		return nil, types.ErrProjectNotFound
	}
	return copyOf(project), nil
}

// Projects pages like the SQL store. Ids grow with creation, so id order is
// oldest first.
func (m *memStore) Projects(_ context.Context, filter types.ProjectFilter) ([]*types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	projects := sortedValues(m.projects, func(p *types.Project) bool {
		switch {
		case filter.Moderation != "" && p.ModerationStatus != filter.Moderation,
			filter.Status != "" && p.Status != filter.Status,
			filter.CoordinatorID != "" && p.CoordinatorID != filter.CoordinatorID,
			filter.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != filter.CategoryID),
			filter.Query != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.Query)):
			return false
		}
		return true
	})
	if !filter.Oldest {
		slices.Reverse(projects)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 50
	}
	start := min(int(filter.Offset), len(projects))
	end := min(start+int(limit), len(projects))
	return projects[start:end], nil
}

func (m *memStore) ProjectsByIDs(_ context.Context, projectIDs []string) ([]*types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.projects, func(p *types.Project) bool { return contains(projectIDs, p.ID) }), nil
}

func (m *memStore) CreateProject(_ context.Context, project *types.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	project.ID = m.nextID("p")
	project.CollectedAmountCents = 0
	project.Status = types.ProjectStatusFunding
	project.ModerationStatus = types.ModerationStatusPending
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	m.projects[project.ID] = copyOf(project)
	return nil
}

func (m *memStore) EditProject(_ context.Context, projectID string, edit *types.ProjectEdit) (*types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.projects[projectID]
	if !ok {
		return nil, types.ErrProjectNotFound
	}
	updated := copyOf(stored)
	if err := edit.Apply(updated); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now()
	m.projects[projectID] = updated
	return copyOf(updated), nil
}

func (m *memStore) SetProjectStatus(_ context.Context, projectID string, from, to types.ProjectStatus) (*types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.projects[projectID]
	if !ok || stored.Status != from || !stored.IsPublished() {
		return nil, types.ErrInvalidStatusTransition
	}
	stored.Status = to
	stored.UpdatedAt = time.Now()
	return copyOf(stored), nil
}

func (m *memStore) DeleteProject(_ context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projects, projectID)
	for id, task := range m.tasks {
		if task.ProjectID == projectID {
			delete(m.tasks, id)
		}
	}
	for id, report := range m.projectReports {
		if report.ProjectID == projectID {
			delete(m.projectReports, id)
		}
	}
	return nil
}

func (m *memStore) Stats(_ context.Context) (*types.StatsData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &types.StatsData{Donations: len(m.donations)}
	for _, donation := range m.donations {
		stats.TotalRaisedCents += donation.AmountCents
	}
	for _, project := range m.projects {
		if project.IsPublished() && project.CollectedAmountCents >= project.TargetAmountCents {
			stats.ProjectsFunded++
		}
		if project.Status == types.ProjectStatusCompleted {
			stats.ProjectsCompleted++
		}
	}
	for _, user := range m.users {
		if user.Role == types.RoleVolunteer && !user.IsBlocked {
			stats.Volunteers++
		}
	}
	return stats, nil
}

// ModerationStore

func (m *memStore) Moderate(_ context.Context, moderation *types.ProjectModeration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	project, ok := m.projects[moderation.ProjectID]
	if !ok {
		return types.ErrProjectNotFound
	}
	moderation.ID = m.nextID("m")
	moderation.CreatedAt = time.Now()
	project.ModerationStatus = moderation.Decision
	m.moderations = append(m.moderations, copyOf(moderation))
	return nil
}

func (m *memStore) ModerationsByProject(_ context.Context, projectID string) ([]*types.ProjectModeration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*types.ProjectModeration, 0)
	for _, moderation := range m.moderations {
		if moderation.ProjectID == projectID {
			out = append(out, copyOf(moderation))
		}
	}
	return out, nil
}

// TaskStore

func (m *memStore) Task(_ context.Context, taskID string) (*types.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return nil, types.ErrTaskNotFound
	}
	return copyOf(task), nil
}

func (m *memStore) TasksByProject(_ context.Context, projectID string) ([]*types.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.tasks, func(t *types.Task) bool { return t.ProjectID == projectID }), nil
}

func (m *memStore) TasksByProjects(_ context.Context, projectIDs []string) ([]*types.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.tasks, func(t *types.Task) bool { return contains(projectIDs, t.ProjectID) }), nil
}

func (m *memStore) TasksByVolunteer(_ context.Context, volunteerID string) ([]*types.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.tasks, func(t *types.Task) bool { return t.AssignedTo(volunteerID) }), nil
}

func (m *memStore) CreateTask(_ context.Context, task *types.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task.ID = m.nextID("t")
	task.Status = types.TaskStatusPending
	task.SpentCents = 0
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	m.tasks[task.ID] = copyOf(task)
	return nil
}

func (m *memStore) UpdateTask(_ context.Context, task *types.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.tasks[task.ID]
	if !ok {
		return types.ErrTaskNotFound
	}
	updated := copyOf(task)
	updated.SpentCents = stored.SpentCents
	m.tasks[task.ID] = updated
	return nil
}

func (m *memStore) DeleteTask(_ context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, taskID)
	return nil
}

// ReportStore

func (m *memStore) Report(_ context.Context, reportID string) (*types.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.reports[reportID]
	if !ok {
		return nil, types.ErrReportNotFound
	}
	return copyOf(report), nil
}

func (m *memStore) ReportsByTask(_ context.Context, taskID string) ([]*types.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.reports, func(r *types.Report) bool { return r.TaskID == taskID }), nil
}

func (m *memStore) ReportsByTasks(_ context.Context, taskIDs []string) ([]*types.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.reports, func(r *types.Report) bool { return contains(taskIDs, r.TaskID) }), nil
}

func (m *memStore) ReportsByVolunteer(_ context.Context, volunteerID string) ([]*types.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.reports, func(r *types.Report) bool { return r.VolunteerID == volunteerID }), nil
}

func (m *memStore) CreateReport(_ context.Context, report *types.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	report.ID = m.nextID("r")
	report.Status = types.ReviewStatusPending
	report.CreatedAt = time.Now()
	m.reports[report.ID] = copyOf(report)
	return nil
}

func (m *memStore) ReviewReport(_ context.Context, report *types.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.reports[report.ID]
	if !ok || stored.Status != types.ReviewStatusPending {
		return types.ErrAlreadyReviewed
	}
	now := time.Now()
	report.ReviewedAt = &now
	stored.Status, stored.ReviewComment, stored.ReviewedBy, stored.ReviewedAt = report.Status, report.ReviewComment, report.ReviewedBy, report.ReviewedAt

	if report.Status == types.ReviewStatusApproved {
		task := m.tasks[report.TaskID]
		task.Status = types.TaskStatusCompleted
		if report.AmountSpentCents != nil {
			task.SpentCents += *report.AmountSpentCents
		}
	}
	return nil
}

// ApplicationStore

func (m *memStore) Application(_ context.Context, applicationID string) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	application, ok := m.applications[applicationID]
	if !ok {
		return nil, types.ErrApplicationNotFound
	}
	return copyOf(application), nil
}

func (m *memStore) ApplicationFor(_ context.Context, projectID, volunteerID string) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, application := range m.applications {
		if application.ProjectID == projectID && application.VolunteerID == volunteerID {
			return copyOf(application), nil
		}
	}
	return nil, types.ErrApplicationNotFound
}

func (m *memStore) ApplicationsByVolunteer(_ context.Context, volunteerID string) ([]*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.applications, func(a *types.Application) bool { return a.VolunteerID == volunteerID }), nil
}

func (m *memStore) ApplicationsByProjects(_ context.Context, projectIDs []string) ([]*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.applications, func(a *types.Application) bool { return contains(projectIDs, a.ProjectID) }), nil
}

func (m *memStore) CreateApplication(_ context.Context, application *types.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.applications {
		if existing.ProjectID == application.ProjectID && existing.VolunteerID == application.VolunteerID {
			return types.ErrApplicationExists
		}
	}
	application.ID = m.nextID("a")
	application.Status = types.ReviewStatusPending
	application.CreatedAt = time.Now()
	application.UpdatedAt = application.CreatedAt
	m.applications[application.ID] = copyOf(application)
	return nil
}

func (m *memStore) SetApplicationStatus(_ context.Context, applicationID string, status types.ReviewStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	application, ok := m.applications[applicationID]
	if !ok || application.Status != types.ReviewStatusPending {
		return types.ErrAlreadyReviewed
	}
	application.Status = status
	return nil
}

func (m *memStore) DeleteApplication(_ context.Context, applicationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.applications, applicationID)
	return nil
}

// DonationStore

func (m *memStore) Donate(_ context.Context, donation *types.Donation) (*types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	project, ok := m.projects[donation.ProjectID]
	if !ok {
		return nil, types.ErrProjectNotFound
	}
	if err := project.AcceptsDonations(donation.AmountCents); err != nil {
		return nil, err
	}
	donation.ID = m.nextID("d")
	donation.CreatedAt = time.Now()
	m.donations = append(m.donations, copyOf(donation))

	project.CollectedAmountCents += donation.AmountCents
	if project.RemainingCents() == 0 {
		project.Status = types.ProjectStatusInProgress
	}
	return copyOf(project), nil
}

func (m *memStore) DonationsByDonor(_ context.Context, donorID string) ([]*types.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*types.Donation, 0)
	for _, donation := range m.donations {
		if donation.DonorID != nil && *donation.DonorID == donorID {
			out = append(out, copyOf(donation))
		}
	}
	return out, nil
}

func (m *memStore) DonationsByProject(_ context.Context, projectID string) ([]*types.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*types.Donation, 0)
	for _, donation := range m.donations {
		if donation.ProjectID == projectID {
			out = append(out, copyOf(donation))
		}
	}
	return out, nil
}

// ProjectReportStore

func (m *memStore) ProjectReport(_ context.Context, id string) (*types.ProjectReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.projectReports[id]
	if !ok {
		return nil, types.ErrProjectReportNotFound
	}
	return copyOf(report), nil
}

func (m *memStore) ProjectReportsByProject(_ context.Context, projectID string) ([]*types.ProjectReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.projectReports, func(r *types.ProjectReport) bool { return r.ProjectID == projectID }), nil
}

func (m *memStore) CreateProjectReport(_ context.Context, report *types.ProjectReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if report.ID == "" {
		report.ID = m.nextID("pr")
	}
	report.CreatedAt = time.Now()
	m.projectReports[report.ID] = copyOf(report)
	return nil
}

func (m *memStore) DeleteProjectReport(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projectReports, id)
	return nil
}

// ContactStore

func (m *memStore) CreateContactMessage(_ context.Context, msg *types.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = m.nextID("c")
	msg.CreatedAt = time.Now()
	m.contact = append(m.contact, copyOf(msg))
	return nil
}

func (m *memStore) LatestContactMessages(_ context.Context, limit uint64) ([]*types.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*types.ContactMessage, 0, len(m.contact))
	for i := len(m.contact) - 1; i >= 0; i-- {
		if limit > 0 && uint64(len(out)) >= limit {
			break
		}
		out = append(out, copyOf(m.contact[i]))
	}
	return out, nil
}

// memDocuments is a DocumentStore keeping files in memory.
type memDocuments struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string

	deleteErr error
}

func newMemDocuments() *memDocuments {
	return &memDocuments{files: map[string][]byte{}}
}

func (d *memDocuments) Upload(_ context.Context, projectID, filename string, body io.Reader) (*storage.Document, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, storage.ErrDocumentEmpty
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	key := "project-reports/" + projectID + "/" + filename
	d.files[key] = data
	return &storage.Document{Key: key, Name: filename, ContentType: "text/plain; charset=utf-8", SizeBytes: int64(len(data))}, nil
}

func (d *memDocuments) Delete(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.deleteErr != nil {
		return d.deleteErr
	}
	delete(d.files, key)
	d.deleted = append(d.deleted, key)
	return nil
}

func (d *memDocuments) PresignURL(_ context.Context, key string) (string, error) {
	return "https://signed.example/" + key, nil
}
