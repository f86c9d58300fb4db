package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashstudy/internal/db"
)

func tables(t *testing.T, database *db.DB) []string {
	t.Helper()
	rows, err := database.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('leaderboard', 'achievements') ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestOpen_BothDrivers(t *testing.T) {
	for _, driver := range []string{db.DriverCGO, db.DriverPureGo} {
		t.Run(driver, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "flashstudy.db")

			database, err := db.Open(driver, path)
			require.NoError(t, err)
			defer database.Close()

			assert.NoError(t, database.Ping(context.Background()))
			assert.Equal(t, []string{"achievements", "leaderboard"}, tables(t, database))
		})
	}
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flashstudy.db")

	first, err := db.Open(db.DriverCGO, path)
	require.NoError(t, err)
	_, err = first.Exec(`INSERT INTO leaderboard (username, score) VALUES ('alice', 3)`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := db.Open(db.DriverCGO, path)
	require.NoError(t, err)
	defer second.Close()

	var score int
	require.NoError(t, second.QueryRow(`SELECT score FROM leaderboard WHERE username = 'alice'`).Scan(&score))
	assert.Equal(t, 3, score)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := db.Open("postgres", "x")
	assert.Error(t, err)
}
