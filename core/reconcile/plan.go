package reconcile

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ReconcileWithPlan fetches the server state and computes the plan converging it to
// desired. It does NOT execute anything; use ApplyPlan for that.
// The desired slice and its elements are left untouched.
func ReconcileWithPlan[T any, P Object[T]](
	ctx context.Context,
	spec *Spec[T],
	venueID string,
	desired []T,
	opts Options[T],
) (*SyncPlan[T], error) {
	if spec == nil || spec.Gateway == nil || spec.Equal == nil {
		return nil, fmt.Errorf("reconcile spec requires a gateway and an equality function")
	}
	log := spec.logger()

	// Validate and index the desired list first so bad input fails without any I/O.
	wanted := make([]T, len(desired))
	byName := make(map[string]int, len(desired))
	results := make([]Result, len(desired))
	for i := range desired {
		wanted[i] = desired[i]
		meta := P(&wanted[i]).Meta()
		meta.Name = strings.TrimSpace(meta.Name)
		if meta.Name == "" {
			return nil, &ValidationError{Kind: spec.Kind, Index: i, Reason: "name is empty"}
		}
		results[i] = Result{Index: i, Name: meta.Name}

		if prev, dup := byName[meta.Name]; dup {
			if opts.Duplicates != DuplicateLastWins {
				return nil, &ValidationError{
					Kind:   spec.Kind,
					Index:  i,
					Name:   meta.Name,
					Reason: fmt.Sprintf("duplicate name, first seen at index %d", prev),
				}
			}
			results[prev].Action = ActionSkipped
			log.Warn("Duplicate desired name, keeping the last occurrence",
				zap.String("name", meta.Name), zap.Int("skipped_index", prev), zap.Int("index", i))
		}
		byName[meta.Name] = i
	}

	fetched, err := spec.Gateway.List(ctx, venueID)
	if err != nil {
		return nil, &FetchError{Kind: spec.Kind, VenueID: venueID, Err: err}
	}

	server := make([]T, 0, len(fetched))
	for _, obj := range fetched {
		if opts.Filter == nil || opts.Filter(obj) {
			server = append(server, obj)
		}
	}

	serverByName := make(map[string]int, len(server))
	for i := range server {
		name := strings.TrimSpace(P(&server[i]).Meta().Name)
		if prev, dup := serverByName[name]; dup {
			log.Warn("Duplicate server name, the earlier object is left untouched",
				zap.String("name", name), zap.String("ignored_id", P(&server[prev]).Meta().ID))
		}
		serverByName[name] = i
	}

	plan := &SyncPlan[T]{
		VenueID: venueID,
		Server:  server,
		Results: results,
	}

	for i := range wanted {
		name := results[i].Name
		if byName[name] != i {
			continue
		}

		j, onServer := serverByName[name]
		if !onServer {
			results[i].Action = ActionCreate
			plan.Create = append(plan.Create, wanted[i])
			plan.createResults = append(plan.createResults, i)
			continue
		}

		id := P(&server[j]).Meta().ID
		P(&wanted[i]).Meta().ID = id
		results[i].ID = id

		if spec.Equal(wanted[i], server[j]) {
			results[i].Action = ActionUnchanged
			plan.Unchanged = append(plan.Unchanged, wanted[i])
			continue
		}
		results[i].Action = ActionUpdate
		if spec.Changes != nil {
			results[i].Changes = spec.Changes(wanted[i], server[j])
		}
		plan.Update = append(plan.Update, wanted[i])
	}

	for j := range server {
		name := strings.TrimSpace(P(&server[j]).Meta().Name)
		if serverByName[name] != j {
			continue
		}
		if _, keep := byName[name]; !keep {
			plan.Delete = append(plan.Delete, server[j])
		}
	}

	plan.Summary = Summary{
		Server:    len(server),
		Create:    len(plan.Create),
		Update:    len(plan.Update),
		Delete:    len(plan.Delete),
		Unchanged: len(plan.Unchanged),
	}

	log.Info("Reconciliation plan computed",
		zap.String("venue_id", venueID),
		zap.Int("server", plan.Summary.Server),
		zap.Int("create", plan.Summary.Create),
		zap.Int("update", plan.Summary.Update),
		zap.Int("delete", plan.Summary.Delete),
		zap.Int("unchanged", plan.Summary.Unchanged))

	return plan, nil
}
