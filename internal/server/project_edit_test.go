package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volunteerhub/internal/utils"
	"volunteerhub/pkg/types"
)

// donateAfterRead books a donation right after the handler has read the
// project, so the handler works with a stale copy.
type donateAfterRead struct {
	ProjectStore
	store       *memStore
	amountCents int64
}

func (d *donateAfterRead) Project(ctx context.Context, projectID string) (*types.Project, error) {
	project, err := d.ProjectStore.Project(ctx, projectID)
	if err != nil || d.amountCents == 0 {
		return project, err
	}

	amount := d.amountCents
	d.amountCents = 0
	if _, err := d.store.Donate(ctx, &types.Donation{ProjectID: projectID, AmountCents: amount}); err != nil {
		return nil, err
	}
	return project, nil
}

func (e *testEnv) donateAfterRead(amountCents int64) {
	e.service.repos.Projects = &donateAfterRead{ProjectStore: e.store, store: e.store, amountCents: amountCents}
}

func TestUpdateProjectKeepsConcurrentDonation(t *testing.T) {
	env := newTestEnv(t)
	coordinator := env.store.addUser(types.RoleCoordinator, "coord")
	project := env.store.addProject(coordinator.ID, types.ModerationStatusApproved, 10000, 4000)

	env.donateAfterRead(6000)
	rec := env.do(http.MethodPut, "/api/projects/"+project.ID, projectBody("Riverside cleanup, phase 2", 10000), env.cookieFor(coordinator))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decode[types.Project](t, rec)
	assert.Equal(t, "Riverside cleanup, phase 2", updated.Title)
	assert.Equal(t, types.ProjectStatusInProgress, updated.Status)

	stored := env.store.project(project.ID)
	assert.Equal(t, int64(10000), stored.CollectedAmountCents)
	assert.Equal(t, types.ProjectStatusInProgress, stored.Status)
	assert.Equal(t, "Riverside cleanup, phase 2", stored.Title)
}

func TestUpdateProjectTargetCheckedAgainstCurrentCollected(t *testing.T) {
	env := newTestEnv(t)
	coordinator := env.store.addUser(types.RoleCoordinator, "coord")
	project := env.store.addProject(coordinator.ID, types.ModerationStatusApproved, 10000, 4000)

	env.donateAfterRead(5000)
	fields := fieldErrors(t, env.do(http.MethodPut, "/api/projects/"+project.ID, projectBody("Riverside cleanup", 5000), env.cookieFor(coordinator)))
	assert.Equal(t, "Target cannot be lower than the amount already collected.", fields["targetAmountCents"])

	stored := env.store.project(project.ID)
	assert.Equal(t, int64(9000), stored.CollectedAmountCents)
	assert.Equal(t, int64(10000), stored.TargetAmountCents)
	assert.LessOrEqual(t, stored.CollectedAmountCents, stored.TargetAmountCents)
}

func TestUpdateProjectTargetEqualToCollectedFundsProject(t *testing.T) {
	env := newTestEnv(t)
	coordinator := env.store.addUser(types.RoleCoordinator, "coord")
	project := env.store.addProject(coordinator.ID, types.ModerationStatusApproved, 10000, 4000)

	rec := env.do(http.MethodPut, "/api/projects/"+project.ID, projectBody("Riverside cleanup", 4000), env.cookieFor(coordinator))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored := env.store.project(project.ID)
	assert.Equal(t, types.ProjectStatusInProgress, stored.Status)
	assert.Zero(t, stored.RemainingCents())
}

func TestUpdateProjectKeepsModerationDecision(t *testing.T) {
	env := newTestEnv(t)
	coordinator := env.store.addUser(types.RoleCoordinator, "coord")
	project := env.store.addProject(coordinator.ID, types.ModerationStatusPending, 10000, 0)

	// A moderator approves after the coordinator's copy was read.
	env.service.repos.Projects = &moderateAfterRead{ProjectStore: env.store, store: env.store}
	rec := env.do(http.MethodPut, "/api/projects/"+project.ID, projectBody("Riverside cleanup", 12000), env.cookieFor(coordinator))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored := env.store.project(project.ID)
	assert.Equal(t, types.ModerationStatusApproved, stored.ModerationStatus)
	assert.Equal(t, int64(12000), stored.TargetAmountCents)
}

type moderateAfterRead struct {
	ProjectStore
	store *memStore
	done  bool
}

func (m *moderateAfterRead) Project(ctx context.Context, projectID string) (*types.Project, error) {
	project, err := m.ProjectStore.Project(ctx, projectID)
	if err != nil || m.done {
		return project, err
	}
	m.done = true
	moderation := &types.ProjectModeration{ProjectID: projectID, ModeratorID: "mod", Decision: types.ModerationStatusApproved}
	if err := m.store.Moderate(ctx, moderation); err != nil {
		return nil, err
	}
	return project, nil
}

func TestProjectStatusRejectsStaleTransition(t *testing.T) {
	env := newTestEnv(t)
	coordinator := env.store.addUser(types.RoleCoordinator, "coord")
	project := env.store.addProject(coordinator.ID, types.ModerationStatusApproved, 10000, 4000)

	// The donation completes funding and moves the project to in_progress
	// while the coordinator still sees it in funding.
	env.donateAfterRead(6000)
	rec := env.do(http.MethodPost, "/api/projects/"+project.ID+"/status", map[string]string{"status": "in_progress"}, env.cookieFor(coordinator))
	assert.Equal(t, http.StatusConflict, rec.Code)

	stored := env.store.project(project.ID)
	assert.Equal(t, types.ProjectStatusInProgress, stored.Status)
	assert.Equal(t, int64(10000), stored.CollectedAmountCents)
}

func TestDeleteProjectSurvivesStorageFailure(t *testing.T) {
	env := newTestEnv(t)
	coordinator := env.store.addUser(types.RoleCoordinator, "coord")
	project := env.store.addProject(coordinator.ID, types.ModerationStatusApproved, 10000, 0)

	key := "project-reports/" + project.ID + "/summary.txt"
	require.NoError(t, env.store.CreateProjectReport(t.Context(), &types.ProjectReport{
		ProjectID:     project.ID,
		CoordinatorID: coordinator.ID,
		Title:         "Summary",
		Content:       "Everything went to plan.",
		DocumentKey:   utils.StringPtr(key),
	}))
	env.documents.deleteErr = errors.New("s3 unavailable")

	rec := env.do(http.MethodDelete, "/api/projects/"+project.ID, nil, env.cookieFor(coordinator))
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/projects/"+project.ID, nil, env.cookieFor(coordinator))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProjectFromForm(t *testing.T) {
	env := newTestEnv(t)
	coordinator := env.store.addUser(types.RoleCoordinator, "coord")

	rec := env.postForm("/api/projects", url.Values{
		"title":             {"Community garden"},
		"description":       {"Raised beds for the neighbourhood."},
		"location":          {"Old town"},
		"targetAmountCents": {"25000"},
		"startDate":         {"2030-04-01"},
	}, env.cookieFor(coordinator))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[types.Project](t, rec)
	assert.Equal(t, "Community garden", created.Title)
	assert.Equal(t, int64(25000), created.TargetAmountCents)
	require.NotNil(t, created.Location)
	assert.Equal(t, "Old town", *created.Location)
	require.NotNil(t, created.StartDate)
}
