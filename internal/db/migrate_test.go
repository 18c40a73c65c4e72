package db

import (
	"database/sql"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	fsys, err := Migrations()
	require.NoError(t, err)
	data, err := fs.ReadFile(fsys, name)
	require.NoError(t, err)
	return string(data)
}

func TestMigrationsAreGooseFiles(t *testing.T) {
	fsys, err := Migrations()
	require.NoError(t, err)

	entries, err := fs.ReadDir(fsys, ".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	assert.Equal(t, "0001_init.sql", entries[0].Name())
	for _, e := range entries {
		sql := readMigration(t, e.Name())
		assert.True(t, strings.HasPrefix(sql, "-- +goose Up\n"), e.Name())
		assert.Contains(t, sql, "-- +goose Down", e.Name())
	}
}

func TestProviderListsEmbeddedVersions(t *testing.T) {
	// sql.Open does not connect; the provider only reads the embedded files here.
	db, err := sql.Open("pgx", "postgres://localhost:1/volunteerhub")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	provider, err := newProvider(db)
	require.NoError(t, err)

	var versions []int64
	for _, source := range provider.ListSources() {
		versions = append(versions, source.Version)
	}
	assert.Equal(t, []int64{1, 2}, versions)
}

func TestInitMigrationCreatesEveryTable(t *testing.T) {
	sql := readMigration(t, "0001_init.sql")
	for _, table := range []string{
		"users", "project_categories", "projects", "project_moderations",
		"tasks", "reports", "applications", "donations", "project_reports", "contact_messages",
	} {
		assert.Contains(t, sql, "CREATE TABLE "+table+" (", table)
		assert.Contains(t, sql, "DROP TABLE IF EXISTS "+table+";", table)
	}

	// donations must survive a donor account removal
	donations := sql[strings.Index(sql, "CREATE TABLE donations"):]
	donations = donations[:strings.Index(donations, ");")]
	assert.Contains(t, donations, "donor_id     TEXT REFERENCES users (id) ON DELETE SET NULL")
	assert.Contains(t, donations, "CHECK (amount_cents > 0)")
}

func TestLoginsAreUniqueIgnoringCase(t *testing.T) {
	sql := readMigration(t, "0002_case_insensitive_logins.sql")
	assert.Contains(t, sql, "CREATE UNIQUE INDEX users_username_lower_key ON users (lower(username));")
	assert.Contains(t, sql, "CREATE UNIQUE INDEX users_email_lower_key ON users (lower(email));")
}
