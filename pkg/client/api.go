package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"volunteerhub/internal/validate"
	"volunteerhub/pkg/types"
)

func (c *Client) Register(ctx context.Context, input RegisterInput) (types.Session, error) {
	return do[types.Session](ctx, c, http.MethodPost, "/api/register", nil, input)
}

func (c *Client) Login(ctx context.Context, login, password string) (types.Session, error) {
	return do[types.Session](ctx, c, http.MethodPost, "/api/login", nil, validate.LoginInput{Login: login, Password: password})
}

func (c *Client) Logout(ctx context.Context) error {
	return doNoContent(ctx, c, http.MethodPost, "/api/logout", nil)
}

func (c *Client) Session(ctx context.Context) (types.Session, error) {
	return do[types.Session](ctx, c, http.MethodGet, "/api/session", nil, nil)
}

func (c *Client) Me(ctx context.Context) (*types.User, error) {
	return do[*types.User](ctx, c, http.MethodGet, "/api/me", nil, nil)
}

func (c *Client) UpdateMe(ctx context.Context, input ProfileInput) (*types.User, error) {
	return do[*types.User](ctx, c, http.MethodPut, "/api/me", nil, input)
}

func (c *Client) Stats(ctx context.Context) (*types.StatsData, error) {
	return do[*types.StatsData](ctx, c, http.MethodGet, "/api/stats", nil, nil)
}

func (c *Client) Categories(ctx context.Context) ([]*types.ProjectCategory, error) {
	return do[[]*types.ProjectCategory](ctx, c, http.MethodGet, "/api/categories", nil, nil)
}

func (c *Client) Projects(ctx context.Context, filter types.ProjectFilter) ([]*types.Project, error) {
	query, err := encoder.Encode(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project filter: %w", err)
	}
	return do[[]*types.Project](ctx, c, http.MethodGet, "/api/projects", dropEmpty(query), nil)
}

func (c *Client) Project(ctx context.Context, projectID string) (*types.ProjectDetail, error) {
	return do[*types.ProjectDetail](ctx, c, http.MethodGet, "/api/projects/"+url.PathEscape(projectID), nil, nil)
}

func (c *Client) ProjectTasks(ctx context.Context, projectID string) ([]*types.Task, error) {
	return do[[]*types.Task](ctx, c, http.MethodGet, "/api/projects/"+url.PathEscape(projectID)+"/tasks", nil, nil)
}

func (c *Client) ProjectDonations(ctx context.Context, projectID string) ([]*types.PublicDonation, error) {
	return do[[]*types.PublicDonation](ctx, c, http.MethodGet, "/api/projects/"+url.PathEscape(projectID)+"/donations", nil, nil)
}

func (c *Client) ProjectFinance(ctx context.Context, projectID string) (*types.ProjectFinance, error) {
	return do[*types.ProjectFinance](ctx, c, http.MethodGet, "/api/projects/"+url.PathEscape(projectID)+"/finance", nil, nil)
}

func (c *Client) ProjectReports(ctx context.Context, projectID string) ([]*types.ProjectReport, error) {
	return do[[]*types.ProjectReport](ctx, c, http.MethodGet, "/api/projects/"+url.PathEscape(projectID)+"/reports", nil, nil)
}

func (c *Client) CreateProject(ctx context.Context, input ProjectInput) (*types.Project, error) {
	return do[*types.Project](ctx, c, http.MethodPost, "/api/projects", nil, input)
}

func (c *Client) UpdateProject(ctx context.Context, projectID string, input ProjectInput) (*types.Project, error) {
	return do[*types.Project](ctx, c, http.MethodPut, "/api/projects/"+url.PathEscape(projectID), nil, input)
}

func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	return doNoContent(ctx, c, http.MethodDelete, "/api/projects/"+url.PathEscape(projectID), nil)
}

func (c *Client) SetProjectStatus(ctx context.Context, projectID string, status types.ProjectStatus) (*types.Project, error) {
	return do[*types.Project](ctx, c, http.MethodPost, "/api/projects/"+url.PathEscape(projectID)+"/status", nil, validate.ProjectStatusInput{Status: status})
}

// CreateProjectReport publishes a report, uploading document when it is not nil.
func (c *Client) CreateProjectReport(ctx context.Context, projectID string, input ProjectReportInput, filename string, document io.Reader) (*types.ProjectReport, error) {
	path := "/api/projects/" + url.PathEscape(projectID) + "/reports"
	if document == nil {
		return do[*types.ProjectReport](ctx, c, http.MethodPost, path, nil, input)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("title", input.Title); err != nil {
		return nil, err
	}
	if err := mw.WriteField("content", input.Content); err != nil {
		return nil, err
	}
	part, err := mw.CreateFormFile("document", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, document); err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out *types.ProjectReport
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteProjectReport(ctx context.Context, reportID string) error {
	return doNoContent(ctx, c, http.MethodDelete, "/api/project-reports/"+url.PathEscape(reportID), nil)
}

func (c *Client) Donate(ctx context.Context, input DonationInput) (*types.DonationReceipt, error) {
	return do[*types.DonationReceipt](ctx, c, http.MethodPost, "/api/donations", nil, input)
}

func (c *Client) DonorDonations(ctx context.Context) ([]*types.DonationCard, error) {
	return do[[]*types.DonationCard](ctx, c, http.MethodGet, "/api/donor/donations", nil, nil)
}

func (c *Client) Apply(ctx context.Context, projectID, message string) (*types.Application, error) {
	return do[*types.Application](ctx, c, http.MethodPost, "/api/projects/"+url.PathEscape(projectID)+"/applications", nil, validate.ApplicationInput{Message: message})
}

func (c *Client) WithdrawApplication(ctx context.Context, applicationID string) error {
	return doNoContent(ctx, c, http.MethodDelete, "/api/applications/"+url.PathEscape(applicationID), nil)
}

func (c *Client) ReviewApplication(ctx context.Context, applicationID string, approve bool) (*types.Application, error) {
	return do[*types.Application](ctx, c, http.MethodPost, "/api/applications/"+url.PathEscape(applicationID)+"/"+decision(approve), nil, nil)
}

func (c *Client) CreateTask(ctx context.Context, input TaskInput) (*types.Task, error) {
	return do[*types.Task](ctx, c, http.MethodPost, "/api/coordinator/tasks", nil, input)
}

func (c *Client) UpdateTask(ctx context.Context, taskID string, input TaskUpdateInput) (*types.Task, error) {
	return do[*types.Task](ctx, c, http.MethodPut, "/api/tasks/"+url.PathEscape(taskID), nil, input)
}

func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return doNoContent(ctx, c, http.MethodDelete, "/api/tasks/"+url.PathEscape(taskID), nil)
}

func (c *Client) SetTaskStatus(ctx context.Context, taskID string, status types.TaskStatus) (*types.Task, error) {
	return do[*types.Task](ctx, c, http.MethodPost, "/api/tasks/"+url.PathEscape(taskID)+"/status", nil, validate.TaskStatusInput{Status: status})
}

func (c *Client) SubmitReport(ctx context.Context, taskID string, input ReportInput) (*types.Report, error) {
	return do[*types.Report](ctx, c, http.MethodPost, "/api/tasks/"+url.PathEscape(taskID)+"/reports", nil, input)
}

func (c *Client) ReviewReport(ctx context.Context, reportID string, approve bool, comment string) (*types.Report, error) {
	return do[*types.Report](ctx, c, http.MethodPost, "/api/reports/"+url.PathEscape(reportID)+"/"+decision(approve), nil, validate.ReviewInput{Comment: comment})
}

func (c *Client) Moderate(ctx context.Context, projectID string, input ModerationInput) (*types.ModerationResult, error) {
	return do[*types.ModerationResult](ctx, c, http.MethodPost, "/api/admin/projects/"+url.PathEscape(projectID)+"/moderate", nil, input)
}

func (c *Client) PendingProjects(ctx context.Context) ([]*types.Project, error) {
	return do[[]*types.Project](ctx, c, http.MethodGet, "/api/admin/projects/pending", nil, nil)
}

func (c *Client) SetUserBlocked(ctx context.Context, userID string, blocked bool) (*types.User, error) {
	action := "unblock"
	if blocked {
		action = "block"
	}
	return do[*types.User](ctx, c, http.MethodPost, "/api/admin/users/"+url.PathEscape(userID)+"/"+action, nil, nil)
}

func (c *Client) Contact(ctx context.Context, input ContactInput) (*types.ContactMessage, error) {
	return do[*types.ContactMessage](ctx, c, http.MethodPost, "/api/contact", nil, input)
}

func (c *Client) VolunteerDashboard(ctx context.Context) (*types.VolunteerDashboard, error) {
	return do[*types.VolunteerDashboard](ctx, c, http.MethodGet, "/api/volunteer/dashboard", nil, nil)
}

func (c *Client) CoordinatorDashboard(ctx context.Context) (*types.CoordinatorDashboard, error) {
	return do[*types.CoordinatorDashboard](ctx, c, http.MethodGet, "/api/coordinator/dashboard", nil, nil)
}

func (c *Client) DonorDashboard(ctx context.Context) (*types.DonorDashboard, error) {
	return do[*types.DonorDashboard](ctx, c, http.MethodGet, "/api/donor/dashboard", nil, nil)
}

func (c *Client) AdminDashboard(ctx context.Context) (*types.AdminDashboard, error) {
	return do[*types.AdminDashboard](ctx, c, http.MethodGet, "/api/admin/dashboard", nil, nil)
}

func (c *Client) ContactMessages(ctx context.Context, limit int) ([]*types.ContactMessage, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return do[[]*types.ContactMessage](ctx, c, http.MethodGet, "/api/admin/contact-messages", query, nil)
}

func decision(approve bool) string {
	if approve {
		return "approve"
	}
	return "reject"
}

// dropEmpty removes zero values the form encoder emits for unset filters.
func dropEmpty(values url.Values) url.Values {
	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" || vals[0] == "0" {
			values.Del(key)
		}
	}
	return values
}
