package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"mapwize-api/core/compare"
	"mapwize-api/core/config"
	"mapwize-api/core/lock"
	"mapwize-api/core/metrics"
	"mapwize-api/core/models"
	"mapwize-api/core/reconcile"
	"mapwize-api/core/storage"
	"mapwize-api/feature/history"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrBadRequest marks requests rejected before any remote call.
var ErrBadRequest = errors.New("invalid sync request")

// Request asks for one reconciliation.
type Request struct {
	Kind    models.Kind
	VenueID string
	// Objects is the desired state as a JSON array.
	Objects json.RawMessage
	DryRun  bool
	// OwnerFilter limits the server baseline to objects of this owner.
	OwnerFilter string
	// Duplicates overrides the configured duplicate policy when set.
	Duplicates string
	// Concurrency overrides the configured concurrency when positive.
	Concurrency int
}

// Removal identifies a server object scheduled for deletion.
type Removal struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Report describes a finished run. It is returned to callers and uploaded to storage.
type Report struct {
	RunID      string             `json:"runId"`
	Kind       models.Kind        `json:"kind"`
	VenueID    string             `json:"venueId"`
	DryRun     bool               `json:"dryRun"`
	Status     string             `json:"status"`
	Summary    reconcile.Summary  `json:"summary"`
	Results    []reconcile.Result `json:"results"`
	Deleted    []Removal          `json:"deleted"`
	Executed   int                `json:"executed"`
	Applied    bool               `json:"applied"`
	Error      string             `json:"error,omitempty"`
	ReportKey  string             `json:"reportKey,omitempty"`
	StartedAt  time.Time          `json:"startedAt"`
	FinishedAt time.Time          `json:"finishedAt"`
}

func (r *Report) run() *history.SyncRun {
	finished := r.FinishedAt
	return &history.SyncRun{
		ID:         r.RunID,
		Kind:       string(r.Kind),
		VenueID:    r.VenueID,
		DryRun:     r.DryRun,
		Status:     r.Status,
		Server:     r.Summary.Server,
		Created:    r.Summary.Create,
		Updated:    r.Summary.Update,
		Deleted:    r.Summary.Delete,
		Unchanged:  r.Summary.Unchanged,
		Executed:   r.Executed,
		Error:      r.Error,
		ReportKey:  r.ReportKey,
		StartedAt:  r.StartedAt,
		FinishedAt: &finished,
	}
}

// Deps are the collaborators of a Service. Only Gateways is required.
type Deps struct {
	Gateways      Gateways
	Locker        lock.Locker
	History       history.Store
	Storage       storage.Client
	StorageConfig storage.Config
	Metrics       *metrics.Metrics
	Tracer        trace.Tracer
	Config        config.SyncConfig
	Logger        *zap.Logger
}

// Service runs reconciliations.
type Service struct {
	gateways   Gateways
	readers    Gateways
	locker     lock.Locker
	history    history.Store
	storage    storage.Client
	storageCfg storage.Config
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	cfg        config.SyncConfig
	logger     *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a sync service, filling unset dependencies with in-process defaults.
func NewService(deps Deps) *Service {
	s := &Service{
		gateways:   deps.Gateways,
		readers:    deps.Gateways.Cached(deps.Config.ListCacheTTL),
		locker:     deps.Locker,
		history:    deps.History,
		storage:    deps.Storage,
		storageCfg: deps.StorageConfig,
		metrics:    deps.Metrics,
		tracer:     deps.Tracer,
		cfg:        deps.Config,
		logger:     deps.Logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	if s.locker == nil {
		s.locker = lock.NewMemoryLocker()
	}
	if s.history == nil {
		s.history = history.NopStore{}
	}
	if s.metrics == nil {
		s.metrics = metrics.New(prometheus.NewRegistry())
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("mapwize-api/feature/syncer")
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.cfg.Concurrency < 1 {
		s.cfg.Concurrency = 1
	}
	return s
}

type runOptions struct {
	policy      reconcile.DuplicatePolicy
	concurrency int
	logger      *zap.Logger
}

// preparedRun is a validated request.
type preparedRun struct {
	req         Request
	kind        models.Kind
	policy      reconcile.DuplicatePolicy
	concurrency int
}

func (p preparedRun) options(log *zap.Logger) runOptions {
	return runOptions{policy: p.policy, concurrency: p.concurrency, logger: log}
}

// applyFunc executes a computed plan and fills report with the outcome.
type applyFunc func(ctx context.Context, log *zap.Logger, report *Report) error

// PlannedSync is a computed plan awaiting ApplyPlanned. Applying it executes exactly
// the operations listed in Report, without fetching the server state again.
type PlannedSync struct {
	// Report is the dry-run report of the plan.
	Report *Report

	run     preparedRun
	apply   applyFunc
	applied bool
}

// Sync reconciles the kind in the venue to req.Objects. The report is returned
// whenever the run started, including failed runs; lock contention returns
// lock.ErrLocked and no report.
func (s *Service) Sync(ctx context.Context, req Request) (*Report, error) {
	run, err := s.prepare(req)
	if err != nil {
		return nil, err
	}
	report := s.newReport(run, req.DryRun)
	return s.execute(ctx, run, report, func(ctx context.Context, log *zap.Logger) error {
		apply, err := s.dispatch(ctx, run.kind, run.req, run.options(log), report)
		if err != nil || req.DryRun {
			return err
		}
		return apply(ctx, log, report)
	})
}

// Plan computes the plan for req without executing it. The run is recorded as a
// dry run; pass the result to ApplyPlanned to execute the plan as shown.
func (s *Service) Plan(ctx context.Context, req Request) (*PlannedSync, error) {
	run, err := s.prepare(req)
	if err != nil {
		return nil, err
	}
	run.req.DryRun = true
	report := s.newReport(run, true)

	var apply applyFunc
	report, err = s.execute(ctx, run, report, func(ctx context.Context, log *zap.Logger) error {
		var err error
		apply, err = s.dispatch(ctx, run.kind, run.req, run.options(log), report)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &PlannedSync{Report: report, run: run, apply: apply}, nil
}

// ApplyPlanned executes a plan returned by Plan. Objects created or removed on the
// server since planning are not taken into account. A plan can be applied once.
func (s *Service) ApplyPlanned(ctx context.Context, planned *PlannedSync) (*Report, error) {
	if planned == nil || planned.apply == nil {
		return nil, fmt.Errorf("%w: no plan to apply", ErrBadRequest)
	}
	if planned.applied {
		return nil, fmt.Errorf("%w: plan %s was already applied", ErrBadRequest, planned.Report.RunID)
	}

	run := planned.run
	run.req.DryRun = false
	report := s.newReport(run, false)
	return s.execute(ctx, run, report, func(ctx context.Context, log *zap.Logger) error {
		planned.applied = true
		log.Info("Applying confirmed plan", zap.String("plan_run_id", planned.Report.RunID))
		return planned.apply(ctx, log, report)
	})
}

func (s *Service) prepare(req Request) (preparedRun, error) {
	kind, err := models.ParseKind(string(req.Kind))
	if err != nil {
		return preparedRun{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	req.Kind = kind
	req.VenueID = strings.TrimSpace(req.VenueID)
	if req.VenueID == "" {
		return preparedRun{}, fmt.Errorf("%w: venue id is required", ErrBadRequest)
	}

	policyName := req.Duplicates
	if policyName == "" {
		policyName = s.cfg.Duplicates
	}
	policy, ok := reconcile.ParseDuplicatePolicy(policyName)
	if !ok {
		return preparedRun{}, fmt.Errorf("%w: unknown duplicate policy %q", ErrBadRequest, policyName)
	}
	concurrency := req.Concurrency
	if concurrency <= 0 {
		concurrency = s.cfg.Concurrency
	}
	return preparedRun{req: req, kind: kind, policy: policy, concurrency: concurrency}, nil
}

func (s *Service) newReport(run preparedRun, dryRun bool) *Report {
	return &Report{
		RunID:     s.newID(),
		Kind:      run.kind,
		VenueID:   run.req.VenueID,
		DryRun:    dryRun,
		Results:   []reconcile.Result{},
		Deleted:   []Removal{},
		StartedAt: s.now(),
	}
}

// execute wraps fn with the run lifecycle: tracing, the venue lock, the final
// status, cache invalidation, report upload and history.
func (s *Service) execute(ctx context.Context, run preparedRun, report *Report, fn func(context.Context, *zap.Logger) error) (*Report, error) {
	kind := run.kind
	log := s.logger.With(
		zap.String("run_id", report.RunID),
		zap.String("kind", string(kind)),
		zap.String("venue_id", report.VenueID),
	)

	ctx, span := s.tracer.Start(ctx, "sync "+string(kind), trace.WithAttributes(
		attribute.String("mapwize.run_id", report.RunID),
		attribute.String("mapwize.kind", string(kind)),
		attribute.String("mapwize.venue_id", report.VenueID),
		attribute.Bool("mapwize.dry_run", report.DryRun),
	))
	defer span.End()

	release, err := s.locker.Acquire(ctx, lock.Key(report.VenueID, string(kind)))
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			s.metrics.IncrementLockContentions(string(kind))
			log.Warn("Sync rejected, venue and kind are locked")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			log.Warn("Failed to release sync lock", zap.Error(err))
		}
	}()

	log.Info("Starting sync", zap.Bool("dry_run", report.DryRun), zap.String("duplicates", string(run.policy)))
	runErr := fn(ctx, log)

	report.FinishedAt = s.now()
	switch {
	case runErr != nil:
		report.Status = history.StatusFailed
		report.Error = runErr.Error()
	case report.Executed > 0:
		report.Status = history.StatusApplied
	default:
		report.Status = history.StatusPlanned
	}
	// Operations that ran before a failure are not rolled back.
	if report.Executed > 0 {
		s.readers.invalidate(kind)
	}
	s.metrics.ObserveRun(string(kind), report.Status)

	span.SetAttributes(
		attribute.Int("mapwize.create", report.Summary.Create),
		attribute.Int("mapwize.update", report.Summary.Update),
		attribute.Int("mapwize.delete", report.Summary.Delete),
		attribute.Int("mapwize.executed", report.Executed),
	)
	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
	}

	s.storeReport(ctx, log, report)
	if err := s.history.Record(ctx, report.run()); err != nil {
		log.Warn("Failed to record sync run", zap.Error(err))
	}

	if runErr != nil {
		log.Error("Sync failed", zap.Error(runErr), zap.Int("executed", report.Executed))
	} else {
		log.Info("Sync finished", zap.String("status", report.Status), zap.Int("executed", report.Executed))
	}
	return report, runErr
}

func (s *Service) storeReport(ctx context.Context, log *zap.Logger, report *Report) {
	if s.storage == nil {
		return
	}
	key := storage.ReportKey(s.storageCfg.ReportPrefix, report.VenueID, string(report.Kind), report.RunID)
	report.ReportKey = key
	if err := storage.PutJSON(ctx, s.storage, s.storageCfg.Bucket, key, report); err != nil {
		report.ReportKey = ""
		log.Warn("Failed to store sync report", zap.Error(err))
	}
}

func (s *Service) dispatch(ctx context.Context, kind models.Kind, req Request, ro runOptions, report *Report) (applyFunc, error) {
	switch kind {
	case models.KindLayer:
		return planKind(ctx, s, s.gateways.Layers, compare.EqualLayer, compare.Changes(compare.ProjectLayer), req, ro, report)
	case models.KindPlace:
		return planKind(ctx, s, s.gateways.Places, compare.EqualPlace, compare.Changes(compare.ProjectPlace), req, ro, report)
	case models.KindPlaceList:
		return planKind(ctx, s, s.gateways.PlaceLists, compare.EqualPlaceList, compare.Changes(compare.ProjectPlaceList), req, ro, report)
	case models.KindConnector:
		return planKind(ctx, s, s.gateways.Connectors, compare.EqualConnector, compare.Changes(compare.ProjectConnector), req, ro, report)
	case models.KindBeacon:
		return planKind(ctx, s, s.gateways.Beacons, compare.EqualBeacon, compare.Changes(compare.ProjectBeacon), req, ro, report)
	case models.KindTemplate:
		return planKind(ctx, s, s.gateways.Templates, compare.EqualTemplate, compare.Changes(compare.ProjectTemplate), req, ro, report)
	}
	return nil, fmt.Errorf("%w: unsupported kind %s", ErrBadRequest, kind)
}

// planKind computes the plan for one kind and returns the function that applies it.
func planKind[T any, P reconcile.Object[T]](
	ctx context.Context,
	s *Service,
	gw reconcile.Gateway[T],
	equal func(a, b T) bool,
	changes func(a, b T) []string,
	req Request,
	ro runOptions,
	report *Report,
) (applyFunc, error) {
	if gw == nil {
		return nil, fmt.Errorf("no gateway configured for %s", report.Kind)
	}

	var desired []T
	if err := json.Unmarshal(req.Objects, &desired); err != nil {
		return nil, fmt.Errorf("%w: objects must be a JSON array of %s: %v", ErrBadRequest, report.Kind, err)
	}

	spec := &reconcile.Spec[T]{
		Kind:    report.Kind,
		Gateway: gw,
		Equal:   equal,
		Changes: changes,
		Logger:  ro.logger,
	}
	opts := reconcile.Options[T]{
		Duplicates:  ro.policy,
		Concurrency: ro.concurrency,
		OnOperation: func(op reconcile.Operation) {
			s.metrics.ObserveOperation(string(op.Kind), string(op.Action), op.Duration.Seconds(), op.Err)
		},
	}
	if owner := req.OwnerFilter; owner != "" {
		opts.Filter = func(obj T) bool {
			return P(&obj).Meta().Owner == owner
		}
	}

	plan, err := reconcile.ReconcileWithPlan[T, P](ctx, spec, req.VenueID, desired, opts)
	if err != nil {
		return nil, err
	}
	fillReport[T, P](report, plan)
	s.metrics.SetPlanned(string(report.Kind), plan.Summary.Create, plan.Summary.Update, plan.Summary.Delete)

	return func(ctx context.Context, log *zap.Logger, report *Report) error {
		spec.Logger = log
		executed, err := reconcile.ApplyPlan[T, P](ctx, spec, plan, opts)
		report.Executed = executed
		fillReport[T, P](report, plan)
		return err
	}, nil
}

func fillReport[T any, P reconcile.Object[T]](report *Report, plan *reconcile.SyncPlan[T]) {
	report.Summary = plan.Summary
	report.Results = plan.Results
	report.Applied = plan.Applied
	report.Deleted = make([]Removal, 0, len(plan.Delete))
	for i := range plan.Delete {
		meta := P(&plan.Delete[i]).Meta()
		report.Deleted = append(report.Deleted, Removal{Name: meta.Name, ID: meta.ID})
	}
}

// LoadStoredManifest reads a manifest object from storage and extracts the objects of kind.
func (s *Service) LoadStoredManifest(ctx context.Context, kind models.Kind, name string) (json.RawMessage, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("%w: object storage is not enabled", ErrBadRequest)
	}
	key := storage.ManifestKey(s.storageCfg.ManifestPrefix, name)
	data, err := storage.ReadObject(ctx, s.storage, s.storageCfg.Bucket, key)
	if err != nil {
		return nil, err
	}
	return LoadManifest(kind, data, FormatFromPath(name))
}

// Runs lists recorded runs, newest first.
func (s *Service) Runs(ctx context.Context, filter history.Filter) ([]history.SyncRun, error) {
	return s.history.List(ctx, filter)
}

// List returns the current server objects of kind in the venue. Listings are
// served from a short-lived cache that runs invalidate.
func (s *Service) List(ctx context.Context, kind models.Kind, venueID string) (any, error) {
	switch kind {
	case models.KindLayer:
		return listFrom(ctx, s.readers.Layers, venueID)
	case models.KindPlace:
		return listFrom(ctx, s.readers.Places, venueID)
	case models.KindPlaceList:
		return listFrom(ctx, s.readers.PlaceLists, venueID)
	case models.KindConnector:
		return listFrom(ctx, s.readers.Connectors, venueID)
	case models.KindBeacon:
		return listFrom(ctx, s.readers.Beacons, venueID)
	case models.KindTemplate:
		return listFrom(ctx, s.readers.Templates, venueID)
	}
	return nil, fmt.Errorf("%w: unsupported kind %s", ErrBadRequest, kind)
}

func listFrom[T any](ctx context.Context, gw reconcile.Gateway[T], venueID string) (any, error) {
	if gw == nil {
		return nil, fmt.Errorf("no gateway configured")
	}
	items, err := gw.List(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
