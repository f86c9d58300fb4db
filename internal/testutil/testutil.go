package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/flashstudy/internal/db"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/repository/filestore"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(db.DriverCGO, ":memory:")
	require.NoError(t, err)
	return database.DB
}

// Context returns a background context carrying a logger that discards output.
func Context() context.Context {
	return logger.NewContext(context.Background(), logger.Nop())
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// TempDataDir returns a file store rooted in a fresh temporary directory.
func TempDataDir(t *testing.T) *filestore.Dir {
	t.Helper()
	dir, err := filestore.NewDir(t.TempDir())
	require.NoError(t, err)
	return dir
}
