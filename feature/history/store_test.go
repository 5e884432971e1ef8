package history

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSQLite(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestGormStore_RecordAndList(t *testing.T) {
	store := NewStore(setupSQLite(t))
	require.NoError(t, store.AutoMigrate())
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	runs := []SyncRun{
		{ID: "r1", Kind: "place", VenueID: "v1", Status: StatusApplied, Created: 2, StartedAt: base},
		{ID: "r2", Kind: "layer", VenueID: "v1", Status: StatusPlanned, DryRun: true, StartedAt: base.Add(time.Minute)},
		{ID: "r3", Kind: "place", VenueID: "v2", Status: StatusFailed, Error: "boom", StartedAt: base.Add(2 * time.Minute)},
	}
	for i := range runs {
		require.NoError(t, store.Record(ctx, &runs[i]))
	}

	all, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r3", all[0].ID)

	v1, err := store.List(ctx, Filter{VenueID: "v1"})
	require.NoError(t, err)
	assert.Len(t, v1, 2)

	places, err := store.List(ctx, Filter{Kind: "place", Limit: 1})
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "r3", places[0].ID)
	assert.Equal(t, "boom", places[0].Error)
}

func TestGormStore_RecordUpdatesExistingRun(t *testing.T) {
	store := NewStore(setupSQLite(t))
	require.NoError(t, store.AutoMigrate())
	ctx := context.Background()

	run := &SyncRun{ID: "r1", Kind: "beacon", VenueID: "v1", Status: StatusPlanned, StartedAt: time.Now()}
	require.NoError(t, store.Record(ctx, run))

	finished := time.Now()
	run.Status = StatusApplied
	run.Executed = 3
	run.FinishedAt = &finished
	require.NoError(t, store.Record(ctx, run))

	runs, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, StatusApplied, runs[0].Status)
	assert.Equal(t, 3, runs[0].Executed)
	assert.NotNil(t, runs[0].FinishedAt)
}

func TestGormStore_ListError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT \\* FROM `sync_runs`").WillReturnError(assert.AnError)

	_, err = NewStore(db).List(context.Background(), Filter{VenueID: "v1"})
	assert.ErrorContains(t, err, "failed to list sync runs")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNopStore(t *testing.T) {
	store := NewStore(nil)
	assert.IsType(t, NopStore{}, store)
	assert.NoError(t, store.AutoMigrate())
	assert.NoError(t, store.Record(context.Background(), &SyncRun{ID: "x"}))

	runs, err := store.List(context.Background(), Filter{})
	assert.NoError(t, err)
	assert.Empty(t, runs)
}
