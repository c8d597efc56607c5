package database

import (
	"context"
	"database/sql"
	"github.com/mrmelon54/mc-launcher/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
	"time"
)

func openTestDb(t *testing.T) *Queries {
	db, err := Open(filepath.Join(t.TempDir(), "launcher.sqlite3.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func TestOpen_MigrateTwice(t *testing.T) {
	p := filepath.Join(t.TempDir(), "launcher.sqlite3.db")
	db, err := Open(p)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(p)
	require.NoError(t, err)
	assert.NoError(t, Migrate(db))
	assert.NoError(t, db.Close())
}

func TestQueries_Launches(t *testing.T) {
	q := openTestDb(t)
	ctx := context.Background()
	start := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)

	id, err := q.CreateLaunch(ctx, CreateLaunchParams{
		Profile:   "fabric",
		Version:   "1.20.4",
		Meta:      types.LaunchMeta{Username: "Steve", JavaPath: "java", JvmArgs: 4},
		StartedAt: start,
	})
	require.NoError(t, err)
	id2, err := q.CreateLaunch(ctx, CreateLaunchParams{Profile: "vanilla", Version: "1.7.10", StartedAt: start.Add(time.Hour)})
	require.NoError(t, err)
	assert.Greater(t, id2, id)

	require.NoError(t, q.SetLaunchPid(ctx, SetLaunchPidParams{Pid: 4242, ID: id}))

	launch, err := q.GetLaunch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "fabric", launch.Profile)
	assert.Equal(t, int64(4242), launch.Pid)
	assert.Equal(t, "Steve", launch.Meta.Username)
	assert.Equal(t, 4, launch.Meta.JvmArgs)
	assert.True(t, start.Equal(launch.StartedAt))
	assert.False(t, launch.EndedAt.Valid)
	assert.False(t, launch.ExitCode.Valid)

	require.NoError(t, q.FinishLaunch(ctx, FinishLaunchParams{
		EndedAt:  sql.NullTime{Time: start.Add(time.Minute), Valid: true},
		ExitCode: sql.NullInt64{Int64: 0, Valid: true},
		ID:       id,
	}))
	launch, err = q.GetLaunch(ctx, id)
	require.NoError(t, err)
	assert.True(t, launch.EndedAt.Valid)
	assert.Equal(t, sql.NullInt64{Int64: 0, Valid: true}, launch.ExitCode)

	all, err := q.ListLaunches(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, id2, all[0].ID)
	assert.Equal(t, id, all[1].ID)

	fabric, err := q.ListProfileLaunches(ctx, "fabric")
	require.NoError(t, err)
	require.Len(t, fabric, 1)
	assert.Equal(t, id, fabric[0].ID)

	n, err := q.CloseAbandonedLaunches(ctx, sql.NullTime{Time: start.Add(2 * time.Hour), Valid: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	launch, err = q.GetLaunch(ctx, id2)
	require.NoError(t, err)
	assert.Equal(t, sql.NullInt64{Int64: -1, Valid: true}, launch.ExitCode)

	_, err = q.GetLaunch(ctx, 999)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
