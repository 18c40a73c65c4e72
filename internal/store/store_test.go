package store

import (
	"strings"
	"testing"
	"time"

	"volunteerhub/internal/utils"
	"volunteerhub/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectsQueryFilters(t *testing.T) {
	query, args, err := projectsQuery(types.ProjectFilter{
		Moderation: types.ModerationStatusApproved,
		Status:     types.ProjectStatusFunding,
		CategoryID: "cat-1",
		Query:      "  park_100% ",
		Limit:      10,
		Offset:     20,
	}).ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "SELECT id, coordinator_id, category_id, title"), query)
	assert.Contains(t, query, "FROM projects")
	assert.Contains(t, query, "moderation_status = $1")
	assert.Contains(t, query, "status = $2")
	assert.Contains(t, query, "category_id = $3")
	assert.Contains(t, query, "title ILIKE $4")
	assert.Contains(t, query, "ORDER BY created_at DESC, id LIMIT 10 OFFSET 20")

	require.Len(t, args, 6)
	assert.Equal(t, types.ModerationStatusApproved, args[0])
	assert.Equal(t, `%park\_100\%%`, args[3])
}

func TestProjectsQueryWithoutFilters(t *testing.T) {
	query, args, err := projectsQuery(types.ProjectFilter{}).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "LIMIT 50 OFFSET 0")
	assert.Empty(t, args)
}

func TestUsersQuery(t *testing.T) {
	query, args, err := usersQuery(types.UserFilter{
		Role:    types.RoleVolunteer,
		Blocked: utils.BoolPtr(false),
		Limit:   1000,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "role = $1")
	assert.Contains(t, query, "is_blocked = $2")
	assert.Contains(t, query, "LIMIT 200")
	assert.Equal(t, []any{types.RoleVolunteer, false}, args)
}

func TestColumnsSkipComputedFields(t *testing.T) {
	assert.NotContains(t, projectReportColumns, "document_url")
	assert.Contains(t, projectReportColumns, "document_key")
	assert.Contains(t, userColumns, "password_hash")
	assert.Len(t, taskColumns, 11)
}

func TestBuildUpdateClauseIsSorted(t *testing.T) {
	clause := buildUpdateClause(map[string]any{"slug": 1, "name": 2, "icon": 3})
	assert.Equal(t, "icon = EXCLUDED.icon, name = EXCLUDED.name, slug = EXCLUDED.slug", clause)
}

func TestPageLimit(t *testing.T) {
	assert.Equal(t, uint64(50), pageLimit(0))
	assert.Equal(t, uint64(25), pageLimit(25))
	assert.Equal(t, uint64(200), pageLimit(201))
}

func TestUserByLoginQueryPrefersUsername(t *testing.T) {
	query, args, err := userByLoginQuery("  Anna ").ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "lower(username) = $1 OR lower(email) = $2")
	assert.Contains(t, query, "ORDER BY lower(username) = $3 DESC LIMIT 1")
	assert.Equal(t, []any{"anna", "anna", "anna"}, args)
}

func TestProjectEditUpdateLeavesWorkflowColumns(t *testing.T) {
	before := &types.Project{
		ID:                   "p1",
		Status:               types.ProjectStatusFunding,
		ModerationStatus:     types.ModerationStatusApproved,
		TargetAmountCents:    10000,
		CollectedAmountCents: 4000,
	}
	after := *before
	after.Title = "Riverside cleanup"
	after.TargetAmountCents = 12000

	query, args, err := projectEditUpdate(before, &after).ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "UPDATE projects SET category_id = $1, title = $2"), query)
	assert.Contains(t, query, "target_amount_cents = $5")
	assert.Contains(t, query, "WHERE id = $9")
	assert.NotContains(t, query, "status")
	assert.NotContains(t, query, "collected_amount_cents")
	assert.Len(t, args, 9)
}

func TestProjectEditUpdateWritesChangedStatuses(t *testing.T) {
	before := &types.Project{
		ID:                   "p1",
		Status:               types.ProjectStatusFunding,
		ModerationStatus:     types.ModerationStatusRejected,
		TargetAmountCents:    10000,
		CollectedAmountCents: 4000,
	}
	after := *before
	after.Status = types.ProjectStatusInProgress
	after.ModerationStatus = types.ModerationStatusPending

	query, args, err := projectEditUpdate(before, &after).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "updated_at = $8, status = $9, moderation_status = $10 WHERE id = $11")
	assert.NotContains(t, query, "collected_amount_cents")
	assert.Equal(t, types.ProjectStatusInProgress, args[8])
	assert.Equal(t, types.ModerationStatusPending, args[9])
}

func TestProjectStatusUpdateIsConditional(t *testing.T) {
	now := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	query, args, err := projectStatusUpdate("p1", types.ProjectStatusFunding, types.ProjectStatusInProgress, now).ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "UPDATE projects SET status = $1, updated_at = $2 WHERE"), query)
	assert.Contains(t, query, "id = $3 AND moderation_status = $4 AND status = $5")
	assert.Contains(t, query, "RETURNING id, coordinator_id")
	assert.Equal(t, []any{types.ProjectStatusInProgress, now, "p1", types.ModerationStatusApproved, types.ProjectStatusFunding}, args)
}

func TestProjectsQueryOldestFirst(t *testing.T) {
	query, _, err := projectsQuery(types.ProjectFilter{Moderation: types.ModerationStatusPending, Oldest: true, Limit: 5, Offset: 5}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "ORDER BY created_at ASC, id LIMIT 5 OFFSET 5")
}
