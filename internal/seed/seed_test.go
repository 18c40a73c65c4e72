package seed

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"volunteerhub/internal/auth"
	"volunteerhub/pkg/types"
)

func init() {
	auth.Cost = bcrypt.MinCost
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeCategories struct {
	rows    map[string]*types.ProjectCategory
	deleted []string
}

func (f *fakeCategories) Categories(_ context.Context, activeOnly bool) ([]*types.ProjectCategory, error) {
	out := make([]*types.ProjectCategory, 0, len(f.rows))
	for _, c := range f.rows {
		if !activeOnly || c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategories) UpsertCategory(_ context.Context, category *types.ProjectCategory) error {
	cp := *category
	f.rows[category.ID] = &cp
	return nil
}

func (f *fakeCategories) DeleteCategory(_ context.Context, id string) error {
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func TestSyncCategories(t *testing.T) {
	repo := &fakeCategories{rows: map[string]*types.ProjectCategory{
		"stale": {ID: "stale", Name: "Old", IsActive: false},
		Categories[0].ID: {ID: Categories[0].ID, Name: "Renamed"},
	}}

	require.NoError(t, SyncCategories(context.Background(), repo, quietLogger()))

	assert.Equal(t, []string{"stale"}, repo.deleted)
	assert.Len(t, repo.rows, len(Categories))
	assert.Equal(t, "Ecology", repo.rows[Categories[0].ID].Name)
	assert.False(t, repo.rows[Categories[0].ID].CreatedAt.IsZero())

	slugs := map[string]bool{}
	for _, c := range Categories {
		assert.Len(t, c.ID, 32)
		assert.False(t, slugs[c.Slug], "duplicate slug %s", c.Slug)
		slugs[c.Slug] = true
	}
}

type fakeUsers struct {
	users map[string]*types.User
}

func (f *fakeUsers) UserByLogin(_ context.Context, login string) (*types.User, error) {
	for _, u := range f.users {
		if u.Username == login {
			return u, nil
		}
	}
	return nil, types.ErrUserNotFound
}

func (f *fakeUsers) Create(_ context.Context, user *types.User) error {
	f.users[user.ID] = user
	return nil
}

func TestSeedDemoUsers(t *testing.T) {
	repo := &fakeUsers{users: map[string]*types.User{}}

	require.NoError(t, SeedDemoUsers(context.Background(), repo, quietLogger()))
	require.Len(t, repo.users, len(DemoUsers))

	admin := repo.users[DemoUsers[0].ID]
	assert.Equal(t, types.RoleAdmin, admin.Role)
	assert.Equal(t, "demo_admin@volunteerhub.example", admin.Email)
	assert.NoError(t, auth.CheckPassword(DemoPassword, admin.PasswordHash))

	admin.PasswordHash = "changed"
	require.NoError(t, SeedDemoUsers(context.Background(), repo, quietLogger()))
	assert.Equal(t, "changed", repo.users[DemoUsers[0].ID].PasswordHash)

	for _, role := range types.AllRoles {
		assert.NotEmpty(t, demoUserIDs(role), role)
	}
}

// fakeDemoStore implements every DemoRepositories interface.
type fakeDemoStore struct {
	seq          int
	projects     map[string]*types.Project
	moderations  []*types.ProjectModeration
	tasks        []*types.Task
	applications map[string]*types.Application
	donations    []*types.Donation
}

func newFakeDemoStore() *fakeDemoStore {
	return &fakeDemoStore{
		projects:     map[string]*types.Project{},
		applications: map[string]*types.Application{},
	}
}

func (f *fakeDemoStore) id() string {
	f.seq++
	return fmt.Sprintf("id%04d", f.seq)
}

func (f *fakeDemoStore) repos() DemoRepositories {
	return DemoRepositories{Projects: f, Moderations: f, Tasks: f, Applications: f, Donations: f}
}

func (f *fakeDemoStore) Projects(_ context.Context, filter types.ProjectFilter) ([]*types.Project, error) {
	out := make([]*types.Project, 0)
	for _, p := range f.projects {
		if strings.Contains(p.Title, filter.Query) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeDemoStore) CreateProject(_ context.Context, project *types.Project) error {
	project.ID = f.id()
	project.Status = types.ProjectStatusFunding
	project.ModerationStatus = types.ModerationStatusPending
	cp := *project
	f.projects[project.ID] = &cp
	return nil
}

func (f *fakeDemoStore) DeleteProject(_ context.Context, projectID string) error {
	delete(f.projects, projectID)
	return nil
}

func (f *fakeDemoStore) Moderate(_ context.Context, moderation *types.ProjectModeration) error {
	f.projects[moderation.ProjectID].ModerationStatus = moderation.Decision
	f.moderations = append(f.moderations, moderation)
	return nil
}

func (f *fakeDemoStore) CreateTask(_ context.Context, task *types.Task) error {
	task.ID = f.id()
	f.tasks = append(f.tasks, task)
	return nil
}

func (f *fakeDemoStore) CreateApplication(_ context.Context, application *types.Application) error {
	application.ID = f.id()
	application.Status = types.ReviewStatusPending
	f.applications[application.ID] = application
	return nil
}

func (f *fakeDemoStore) SetApplicationStatus(_ context.Context, applicationID string, status types.ReviewStatus) error {
	f.applications[applicationID].Status = status
	return nil
}

func (f *fakeDemoStore) Donate(_ context.Context, donation *types.Donation) (*types.Project, error) {
	project := f.projects[donation.ProjectID]
	if err := project.AcceptsDonations(donation.AmountCents); err != nil {
		return nil, err
	}
	project.CollectedAmountCents += donation.AmountCents
	if project.RemainingCents() == 0 {
		project.Status = types.ProjectStatusInProgress
	}
	f.donations = append(f.donations, donation)
	cp := *project
	return &cp, nil
}

func TestSeedDemoProjects(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDemoStore()
	fake.projects["keep"] = &types.Project{ID: "keep", Title: "Real project"}

	require.NoError(t, SeedDemoProjects(ctx, fake.repos(), rand.New(rand.NewSource(1)), 20, quietLogger()))
	require.Len(t, fake.projects, 21)

	for id, project := range fake.projects {
		if id == "keep" {
			continue
		}
		assert.True(t, strings.HasPrefix(project.Title, DemoTitlePrefix))
		assert.LessOrEqual(t, project.CollectedAmountCents, project.TargetAmountCents)
		if project.CollectedAmountCents > 0 {
			assert.Equal(t, types.ModerationStatusApproved, project.ModerationStatus)
		}
	}
	for _, moderation := range fake.moderations {
		if moderation.Decision == types.ModerationStatusRejected {
			assert.NotNil(t, moderation.Comment)
		}
	}
	for _, application := range fake.applications {
		assert.Equal(t, types.ReviewStatusApproved, application.Status)
	}

	deleted, err := ResetDemoProjects(ctx, fake)
	require.NoError(t, err)
	assert.Equal(t, 20, deleted)
	assert.Len(t, fake.projects, 1)

	assert.NoError(t, SeedDemoProjects(ctx, fake.repos(), rand.New(rand.NewSource(1)), 0, quietLogger()))
}
