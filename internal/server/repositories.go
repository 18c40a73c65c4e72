package server

import (
	"context"
	"io"

	"volunteerhub/internal/storage"
	"volunteerhub/pkg/types"
)

type UserStore interface {
	User(ctx context.Context, userID string) (*types.User, error)
	UserByLogin(ctx context.Context, login string) (*types.User, error)
	UsersByIDs(ctx context.Context, userIDs []string) ([]*types.User, error)
	Users(ctx context.Context, filter types.UserFilter) ([]*types.User, error)
	Create(ctx context.Context, user *types.User) error
	UpdateProfile(ctx context.Context, user *types.User) error
	SetBlocked(ctx context.Context, userID string, blocked bool) error
	SetVerified(ctx context.Context, userID string, verified bool) error
	CountByRole(ctx context.Context) (map[types.Role]int, error)
}

type CategoryStore interface {
	Categories(ctx context.Context, activeOnly bool) ([]*types.ProjectCategory, error)
	CategoryByID(ctx context.Context, id string) (*types.ProjectCategory, error)
}

type ProjectStore interface {
	Project(ctx context.Context, projectID string) (*types.Project, error)
	Projects(ctx context.Context, filter types.ProjectFilter) ([]*types.Project, error)
	ProjectsByIDs(ctx context.Context, projectIDs []string) ([]*types.Project, error)
	CreateProject(ctx context.Context, project *types.Project) error
	EditProject(ctx context.Context, projectID string, edit *types.ProjectEdit) (*types.Project, error)
	SetProjectStatus(ctx context.Context, projectID string, from, to types.ProjectStatus) (*types.Project, error)
	DeleteProject(ctx context.Context, projectID string) error
	Stats(ctx context.Context) (*types.StatsData, error)
}

type ModerationStore interface {
	Moderate(ctx context.Context, moderation *types.ProjectModeration) error
	ModerationsByProject(ctx context.Context, projectID string) ([]*types.ProjectModeration, error)
}

type TaskStore interface {
	Task(ctx context.Context, taskID string) (*types.Task, error)
	TasksByProject(ctx context.Context, projectID string) ([]*types.Task, error)
	TasksByProjects(ctx context.Context, projectIDs []string) ([]*types.Task, error)
	TasksByVolunteer(ctx context.Context, volunteerID string) ([]*types.Task, error)
	CreateTask(ctx context.Context, task *types.Task) error
	UpdateTask(ctx context.Context, task *types.Task) error
	DeleteTask(ctx context.Context, taskID string) error
}

type ReportStore interface {
	Report(ctx context.Context, reportID string) (*types.Report, error)
	ReportsByTask(ctx context.Context, taskID string) ([]*types.Report, error)
	ReportsByTasks(ctx context.Context, taskIDs []string) ([]*types.Report, error)
	ReportsByVolunteer(ctx context.Context, volunteerID string) ([]*types.Report, error)
	CreateReport(ctx context.Context, report *types.Report) error
	ReviewReport(ctx context.Context, report *types.Report) error
}

type ApplicationStore interface {
	Application(ctx context.Context, applicationID string) (*types.Application, error)
	ApplicationFor(ctx context.Context, projectID, volunteerID string) (*types.Application, error)
	ApplicationsByVolunteer(ctx context.Context, volunteerID string) ([]*types.Application, error)
	ApplicationsByProjects(ctx context.Context, projectIDs []string) ([]*types.Application, error)
	CreateApplication(ctx context.Context, application *types.Application) error
	SetApplicationStatus(ctx context.Context, applicationID string, status types.ReviewStatus) error
	DeleteApplication(ctx context.Context, applicationID string) error
}

type DonationStore interface {
	Donate(ctx context.Context, donation *types.Donation) (*types.Project, error)
	DonationsByDonor(ctx context.Context, donorID string) ([]*types.Donation, error)
	DonationsByProject(ctx context.Context, projectID string) ([]*types.Donation, error)
}

type ProjectReportStore interface {
	ProjectReport(ctx context.Context, id string) (*types.ProjectReport, error)
	ProjectReportsByProject(ctx context.Context, projectID string) ([]*types.ProjectReport, error)
	CreateProjectReport(ctx context.Context, report *types.ProjectReport) error
	DeleteProjectReport(ctx context.Context, id string) error
}

type ContactStore interface {
	CreateContactMessage(ctx context.Context, msg *types.ContactMessage) error
	LatestContactMessages(ctx context.Context, limit uint64) ([]*types.ContactMessage, error)
}

// DocumentStore keeps files attached to project reports. It is optional.
type DocumentStore interface {
	Upload(ctx context.Context, projectID, filename string, body io.Reader) (*storage.Document, error)
	Delete(ctx context.Context, key string) error
	PresignURL(ctx context.Context, key string) (string, error)
}

// Repositories groups the stores the handlers read and write.
type Repositories struct {
	Users          UserStore
	Categories     CategoryStore
	Projects       ProjectStore
	Moderations    ModerationStore
	Tasks          TaskStore
	Reports        ReportStore
	Applications   ApplicationStore
	Donations      DonationStore
	ProjectReports ProjectReportStore
	Contact        ContactStore
}
