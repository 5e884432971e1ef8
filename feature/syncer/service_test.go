package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"mapwize-api/core/config"
	"mapwize-api/core/lock"
	"mapwize-api/core/metrics"
	"mapwize-api/core/models"
	"mapwize-api/core/reconcile"
	"mapwize-api/core/storage"
	"mapwize-api/core/storage/mocks"
	"mapwize-api/feature/history"

	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	svc     *Service
	places  *memGateway[models.Place, *models.Place]
	layers  *memGateway[models.Layer, *models.Layer]
	locker  *lock.MemoryLocker
	store   history.Store
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T, places ...models.Place) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := history.NewStore(db)
	require.NoError(t, store.AutoMigrate())

	env := &testEnv{
		places:  newMemGateway[models.Place, *models.Place](places...),
		layers:  newMemGateway[models.Layer, *models.Layer](),
		locker:  lock.NewMemoryLocker(),
		store:   store,
		metrics: metrics.New(prometheus.NewRegistry()),
	}
	env.svc = NewService(Deps{
		Gateways: Gateways{Places: env.places, Layers: env.layers},
		Locker:   env.locker,
		History:  store,
		Metrics:  env.metrics,
		Tracer:   noop.NewTracerProvider().Tracer("test"),
		Config:   config.SyncConfig{Concurrency: 1, Duplicates: "error", ListCacheTTL: time.Minute},
		Logger:   zaptest.NewLogger(t),
	})
	runs := 0
	env.svc.newID = func() string {
		runs++
		return fmt.Sprintf("run-%d", runs)
	}
	return env
}

func serverPlace(id, name string) models.Place {
	return models.Place{Base: models.Base{ID: id, Name: name, Owner: "org"}}
}

func TestService_SyncApplies(t *testing.T) {
	env := newTestEnv(t, serverPlace("a", "A"), serverPlace("b", "B"))

	report, err := env.svc.Sync(context.Background(), Request{
		Kind:    "places",
		VenueID: " v1 ",
		Objects: json.RawMessage(`[{"name":"B","owner":"org","floor":1},{"name":"C","owner":"org"}]`),
	})
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, models.KindPlace, report.Kind)
	assert.Equal(t, "v1", report.VenueID)
	assert.Equal(t, history.StatusApplied, report.Status)
	assert.Equal(t, reconcile.Summary{Server: 2, Create: 1, Update: 1, Delete: 1}, report.Summary)
	assert.Equal(t, 3, report.Executed)
	assert.True(t, report.Applied)
	assert.Equal(t, []Removal{{Name: "A", ID: "a"}}, report.Deleted)
	require.Len(t, report.Results, 2)
	assert.Equal(t, reconcile.ActionUpdate, report.Results[0].Action)
	assert.Equal(t, "b", report.Results[0].ID)
	assert.Equal(t, reconcile.ActionCreate, report.Results[1].Action)
	assert.Equal(t, "id-1", report.Results[1].ID)

	assert.Equal(t, []string{"delete:a", "update:b", "create:C"}, env.places.calls)

	runs, err := env.store.List(context.Background(), history.Filter{VenueID: "v1"})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, history.StatusApplied, runs[0].Status)
	assert.Equal(t, 3, runs[0].Executed)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Runs.WithLabelValues("place", history.StatusApplied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Operations.WithLabelValues("place", "create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.PlannedOperations.WithLabelValues("place", "delete")))
}

func TestService_SyncDryRun(t *testing.T) {
	env := newTestEnv(t, serverPlace("a", "A"))

	report, err := env.svc.Sync(context.Background(), Request{
		Kind:    models.KindPlace,
		VenueID: "v1",
		Objects: json.RawMessage(`[{"name":"C"}]`),
		DryRun:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, history.StatusPlanned, report.Status)
	assert.Equal(t, 0, report.Executed)
	assert.False(t, report.Applied)
	assert.Equal(t, 1, report.Summary.Create)
	assert.Equal(t, 1, report.Summary.Delete)
	assert.Empty(t, env.places.calls)
}

func TestService_SyncOwnerFilter(t *testing.T) {
	foreign := serverPlace("x", "X")
	foreign.Owner = "other"
	env := newTestEnv(t, serverPlace("a", "A"), foreign)

	report, err := env.svc.Sync(context.Background(), Request{
		Kind:        models.KindPlace,
		VenueID:     "v1",
		Objects:     json.RawMessage(`[]`),
		OwnerFilter: "org",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Summary.Server)
	assert.Equal(t, []string{"delete:a"}, env.places.calls)
}

func TestService_SyncRejectsBadRequests(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  Request
	}{
		{"unknown kind", Request{Kind: "rooms", VenueID: "v1", Objects: json.RawMessage(`[]`)}},
		{"missing venue", Request{Kind: models.KindPlace, VenueID: "  ", Objects: json.RawMessage(`[]`)}},
		{"unknown policy", Request{Kind: models.KindPlace, VenueID: "v1", Objects: json.RawMessage(`[]`), Duplicates: "merge"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := env.svc.Sync(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrBadRequest)
			assert.Nil(t, report)
		})
	}
	assert.Equal(t, 0, env.places.listCount())
}

func TestService_SyncRecordsFailedRuns(t *testing.T) {
	env := newTestEnv(t)

	t.Run("undecodable objects", func(t *testing.T) {
		report, err := env.svc.Sync(context.Background(), Request{
			Kind:    models.KindPlace,
			VenueID: "v1",
			Objects: json.RawMessage(`{"name":"A"}`),
		})
		assert.ErrorIs(t, err, ErrBadRequest)
		require.NotNil(t, report)
		assert.Equal(t, history.StatusFailed, report.Status)
	})

	t.Run("duplicate names", func(t *testing.T) {
		report, err := env.svc.Sync(context.Background(), Request{
			Kind:    models.KindPlace,
			VenueID: "v1",
			Objects: json.RawMessage(`[{"name":"A"},{"name":" A "}]`),
		})
		var validation *reconcile.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, 1, validation.Index)
		assert.Equal(t, history.StatusFailed, report.Status)
		assert.NotEmpty(t, report.Error)
	})

	t.Run("duplicates allowed by request", func(t *testing.T) {
		report, err := env.svc.Sync(context.Background(), Request{
			Kind:       models.KindPlace,
			VenueID:    "v1",
			Objects:    json.RawMessage(`[{"name":"A"},{"name":"A","floor":2}]`),
			Duplicates: "last_wins",
		})
		require.NoError(t, err)
		assert.Equal(t, reconcile.ActionSkipped, report.Results[0].Action)
		assert.Equal(t, reconcile.ActionCreate, report.Results[1].Action)
	})

	t.Run("fetch error", func(t *testing.T) {
		env.layers.listErr = errors.New("unreachable")
		report, err := env.svc.Sync(context.Background(), Request{
			Kind:    models.KindLayer,
			VenueID: "v1",
			Objects: json.RawMessage(`[]`),
		})
		var fetch *reconcile.FetchError
		assert.ErrorAs(t, err, &fetch)
		assert.Equal(t, history.StatusFailed, report.Status)
	})

	runs, err := env.store.List(context.Background(), history.Filter{Kind: "place"})
	require.NoError(t, err)
	assert.Len(t, runs, 3)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Runs.WithLabelValues("layer", history.StatusFailed)))
}

func TestService_SyncMissingGateway(t *testing.T) {
	env := newTestEnv(t)

	report, err := env.svc.Sync(context.Background(), Request{
		Kind:    models.KindBeacon,
		VenueID: "v1",
		Objects: json.RawMessage(`[]`),
	})
	assert.ErrorContains(t, err, "no gateway configured for beacon")
	assert.Equal(t, history.StatusFailed, report.Status)
}

func TestService_SyncLocked(t *testing.T) {
	env := newTestEnv(t)
	release, err := env.locker.Acquire(context.Background(), lock.Key("v1", "place"))
	require.NoError(t, err)

	report, err := env.svc.Sync(context.Background(), Request{
		Kind:    models.KindPlace,
		VenueID: "v1",
		Objects: json.RawMessage(`[]`),
	})
	assert.ErrorIs(t, err, lock.ErrLocked)
	assert.Nil(t, report)
	assert.Equal(t, 0, env.places.listCount())
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.LockContentionsTotal.WithLabelValues("place")))

	require.NoError(t, release(context.Background()))
	_, err = env.svc.Sync(context.Background(), Request{
		Kind:    models.KindPlace,
		VenueID: "v1",
		Objects: json.RawMessage(`[]`),
	})
	assert.NoError(t, err)
}

func TestService_SyncStoresReport(t *testing.T) {
	env := newTestEnv(t)
	client := new(mocks.Client)
	env.svc.storage = client
	env.svc.storageCfg = storage.Config{Bucket: "mapwize", ReportPrefix: "reports/"}

	client.On("PutObject", mock.Anything, "mapwize", "reports/v1/place/run-1.json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	report, err := env.svc.Sync(context.Background(), Request{
		Kind:    models.KindPlace,
		VenueID: "v1",
		Objects: json.RawMessage(`[{"name":"A"}]`),
	})
	require.NoError(t, err)
	assert.Equal(t, "reports/v1/place/run-1.json", report.ReportKey)
	client.AssertExpectations(t)
}

func TestService_SyncReportUploadFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	client := new(mocks.Client)
	env.svc.storage = client
	env.svc.storageCfg = storage.Config{Bucket: "mapwize", ReportPrefix: "reports/"}

	client.On("PutObject", mock.Anything, "mapwize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("denied"))

	report, err := env.svc.Sync(context.Background(), Request{
		Kind:    models.KindPlace,
		VenueID: "v1",
		Objects: json.RawMessage(`[]`),
	})
	require.NoError(t, err)
	assert.Empty(t, report.ReportKey)
}

func TestService_ListIsCachedUntilSync(t *testing.T) {
	env := newTestEnv(t, serverPlace("a", "A"))
	ctx := context.Background()

	items, err := env.svc.List(ctx, models.KindPlace, "v1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	_, err = env.svc.List(ctx, models.KindPlace, "v1")
	require.NoError(t, err)
	assert.Equal(t, 1, env.places.listCount())

	_, err = env.svc.Sync(ctx, Request{Kind: models.KindPlace, VenueID: "v1", Objects: json.RawMessage(`[{"name":"A"},{"name":"B"}]`)})
	require.NoError(t, err)
	assert.Equal(t, 2, env.places.listCount())

	items, err = env.svc.List(ctx, models.KindPlace, "v1")
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 3, env.places.listCount())
}

func TestService_PartialFailureRefreshesList(t *testing.T) {
	env := newTestEnv(t, serverPlace("a", "A"))
	env.places.failOn = map[string]error{"create:B": errors.New("HTTP 400")}
	ctx := context.Background()

	items, err := env.svc.List(ctx, models.KindPlace, "v1")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	report, err := env.svc.Sync(ctx, Request{Kind: models.KindPlace, VenueID: "v1", Objects: json.RawMessage(`[{"name":"B"}]`)})
	var execErr *reconcile.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, history.StatusFailed, report.Status)
	assert.Equal(t, 1, report.Executed)

	items, err = env.svc.List(ctx, models.KindPlace, "v1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestService_PlanThenApplyRunsConfirmedPlan(t *testing.T) {
	env := newTestEnv(t, serverPlace("a", "A"), serverPlace("b", "B"))
	ctx := context.Background()

	planned, err := env.svc.Plan(ctx, Request{
		Kind:    models.KindPlace,
		VenueID: "v1",
		Objects: json.RawMessage(`[{"name":"B","floor":1},{"name":"C"}]`),
	})
	require.NoError(t, err)
	assert.True(t, planned.Report.DryRun)
	assert.Equal(t, history.StatusPlanned, planned.Report.Status)
	assert.Equal(t, reconcile.Summary{Server: 2, Create: 1, Update: 1, Delete: 1}, planned.Report.Summary)
	assert.Equal(t, []Removal{{Name: "A", ID: "a"}}, planned.Report.Deleted)
	assert.Empty(t, env.places.calls)

	// Objects appearing after confirmation are not part of the plan.
	env.places.items = append(env.places.items, serverPlace("d", "D"))

	report, err := env.svc.ApplyPlanned(ctx, planned)
	require.NoError(t, err)
	assert.Equal(t, "run-2", report.RunID)
	assert.False(t, report.DryRun)
	assert.Equal(t, history.StatusApplied, report.Status)
	assert.Equal(t, planned.Report.Summary, report.Summary)
	assert.Equal(t, planned.Report.Deleted, report.Deleted)
	assert.Equal(t, 3, report.Executed)
	assert.Equal(t, []string{"delete:a", "update:b", "create:C"}, env.places.calls)

	_, err = env.svc.ApplyPlanned(ctx, planned)
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Len(t, env.places.calls, 3)

	runs, err := env.store.List(ctx, history.Filter{VenueID: "v1"})
	require.NoError(t, err)
	require.Len(t, runs, 2)
}

func TestService_PlanRejectsBadRequests(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Plan(context.Background(), Request{Kind: "rooms", VenueID: "v1"})
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = env.svc.Plan(context.Background(), Request{Kind: models.KindPlace, VenueID: "v1", Objects: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = env.svc.ApplyPlanned(context.Background(), nil)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestService_ListErrors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.List(context.Background(), models.KindConnector, "v1")
	assert.ErrorContains(t, err, "no gateway configured")

	_, err = env.svc.List(context.Background(), models.Kind("room"), "v1")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestService_LoadStoredManifest(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.LoadStoredManifest(context.Background(), models.KindPlace, "places.json")
	assert.ErrorIs(t, err, ErrBadRequest)

	client := new(mocks.Client)
	env.svc.storage = client
	env.svc.storageCfg = storage.Config{Bucket: "mapwize", ManifestPrefix: "manifests/"}
	client.On("GetObject", mock.Anything, "mapwize", "manifests/v1.yaml", mock.Anything).
		Return(nopCloser("places:\n  - name: A\n"), nil)

	raw, err := env.svc.LoadStoredManifest(context.Background(), models.KindPlace, "v1.yaml")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"A"}]`, string(raw))
}

func nopCloser(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}
