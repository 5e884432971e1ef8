package reconcile

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ApplyPlan executes the plan: the delete batch, then the update batch, then the create
// batch. It returns the number of executed operations. The first failure aborts the
// remaining work and is returned as an *ExecutionError; nothing is rolled back.
// Created objects in plan.Create and their Results receive the assigned identifiers.
func ApplyPlan[T any, P Object[T]](
	ctx context.Context,
	spec *Spec[T],
	plan *SyncPlan[T],
	opts Options[T],
) (int, error) {
	if opts.DryRun || plan == nil {
		return 0, nil
	}
	log := spec.logger().With(zap.String("venue_id", plan.VenueID))

	var executed atomic.Int64
	run := func(ctx context.Context, action Action, obj T, total int, done *atomic.Int64, call func(context.Context) (string, error)) error {
		meta := P(&obj).Meta()
		start := time.Now()
		id, err := call(ctx)
		if id == "" {
			id = meta.ID
		}
		if opts.OnOperation != nil {
			opts.OnOperation(Operation{
				Kind:     spec.Kind,
				Action:   action,
				Name:     meta.Name,
				ID:       id,
				Err:      err,
				Duration: time.Since(start),
			})
		}
		if err != nil {
			return &ExecutionError{Op: action, Kind: spec.Kind, Name: meta.Name, ID: id, Err: err}
		}
		executed.Add(1)
		n := done.Add(1)
		log.Debug(fmt.Sprintf("%s %d/%d", action, n, total), zap.String("name", meta.Name), zap.String("id", id))
		return nil
	}

	if len(plan.Delete) > 0 {
		log.Info("Deleting objects", zap.Int("count", len(plan.Delete)))
		var done atomic.Int64
		err := runBatch(ctx, plan.Delete, opts.Concurrency, func(ctx context.Context, _ int, obj T) error {
			return run(ctx, ActionDelete, obj, len(plan.Delete), &done, func(ctx context.Context) (string, error) {
				id := P(&obj).Meta().ID
				return id, spec.Gateway.Delete(ctx, id)
			})
		})
		if err != nil {
			return int(executed.Load()), err
		}
	}

	if len(plan.Update) > 0 {
		log.Info("Updating objects", zap.Int("count", len(plan.Update)))
		var done atomic.Int64
		err := runBatch(ctx, plan.Update, opts.Concurrency, func(ctx context.Context, _ int, obj T) error {
			return run(ctx, ActionUpdate, obj, len(plan.Update), &done, func(ctx context.Context) (string, error) {
				return P(&obj).Meta().ID, spec.Gateway.Update(ctx, obj)
			})
		})
		if err != nil {
			return int(executed.Load()), err
		}
	}

	if len(plan.Create) > 0 {
		log.Info("Creating objects", zap.Int("count", len(plan.Create)))
		var done atomic.Int64
		err := runBatch(ctx, plan.Create, opts.Concurrency, func(ctx context.Context, i int, obj T) error {
			return run(ctx, ActionCreate, obj, len(plan.Create), &done, func(ctx context.Context) (string, error) {
				created, err := spec.Gateway.Create(ctx, obj)
				if err != nil {
					return "", err
				}
				id := P(&created).Meta().ID
				P(&plan.Create[i]).Meta().ID = id
				if i < len(plan.createResults) {
					plan.Results[plan.createResults[i]].ID = id
				}
				return id, nil
			})
		})
		if err != nil {
			return int(executed.Load()), err
		}
	}

	plan.Applied = true
	log.Info("Reconciliation applied", zap.Int64("operations", executed.Load()))
	return int(executed.Load()), nil
}

// ReconcileAndApply plans and, unless opts.DryRun is set, applies the plan.
// It returns the plan, the number of executed operations and any error. On an
// execution error the returned plan reflects what was attempted.
func ReconcileAndApply[T any, P Object[T]](
	ctx context.Context,
	spec *Spec[T],
	venueID string,
	desired []T,
	opts Options[T],
) (*SyncPlan[T], int, error) {
	plan, err := ReconcileWithPlan[T, P](ctx, spec, venueID, desired, opts)
	if err != nil {
		return nil, 0, err
	}

	executed, err := ApplyPlan[T, P](ctx, spec, plan, opts)
	return plan, executed, err
}

// runBatch calls fn for every item, sequentially or with at most limit in flight.
// It stops launching work after the first error and returns that error.
func runBatch[T any](ctx context.Context, items []T, limit int, fn func(context.Context, int, T) error) error {
	if limit < 2 {
		for i, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, i, item); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i, item)
		})
	}
	return g.Wait()
}
