package reconcile

import (
	"context"
	"time"

	"mapwize-api/core/models"

	"go.uber.org/zap"
)

// Gateway is the remote capability set the engine needs for one resource kind.
type Gateway[T any] interface {
	// List returns every object of the kind in the venue, unpublished ones included.
	List(ctx context.Context, venueID string) ([]T, error)

	// Create persists a new object and returns it with its server-assigned identifier.
	Create(ctx context.Context, obj T) (T, error)

	// Update replaces the object identified by its ID.
	Update(ctx context.Context, obj T) error

	// Delete removes the object with the given identifier.
	Delete(ctx context.Context, id string) error
}

// Object is satisfied by pointers to domain objects embedding models.Base.
type Object[T any] interface {
	*T
	Meta() *models.Base
}

// Spec bundles everything the engine needs to reconcile one kind.
type Spec[T any] struct {
	// Kind labels logs, errors and operations.
	Kind models.Kind

	// Gateway performs the remote calls.
	Gateway Gateway[T]

	// Equal reports whether a desired object matches its server counterpart.
	Equal func(desired, server T) bool

	// Changes optionally lists the differing fields of an update, for reporting.
	Changes func(desired, server T) []string

	// Logger receives progress logs. Nil disables logging.
	Logger *zap.Logger
}

func (s *Spec[T]) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger.With(zap.String("kind", string(s.Kind)))
}

// DuplicatePolicy decides what happens when two desired objects share a name.
type DuplicatePolicy string

const (
	// DuplicateError rejects the desired list with a *ValidationError.
	DuplicateError DuplicatePolicy = "error"
	// DuplicateLastWins keeps the last object with a given name and skips the others.
	DuplicateLastWins DuplicatePolicy = "last_wins"
)

// ParseDuplicatePolicy resolves a policy from configuration; empty means DuplicateError.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, bool) {
	switch DuplicatePolicy(s) {
	case "", DuplicateError:
		return DuplicateError, true
	case DuplicateLastWins:
		return DuplicateLastWins, true
	}
	return "", false
}

// Options controls a reconciliation call.
type Options[T any] struct {
	// Filter scopes the server-side baseline. Server objects it rejects are never
	// updated or deleted.
	Filter func(T) bool

	// DryRun computes the plan without calling Create, Update or Delete.
	DryRun bool

	// Duplicates selects the duplicate-name policy for the desired list.
	Duplicates DuplicatePolicy

	// Concurrency bounds the number of in-flight operations within a batch.
	// Values below 2 run every operation sequentially.
	Concurrency int

	// OnOperation is invoked after every executed gateway mutation.
	OnOperation func(Operation)
}

// Action is the outcome computed for a desired object or a server object.
type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionUnchanged Action = "unchanged"
	// ActionSkipped marks a desired object superseded by a later one with the same name.
	ActionSkipped Action = "skipped"
)

// Result pairs one desired input with its computed action.
type Result struct {
	// Index is the position of the object in the desired list.
	Index int `json:"index"`

	// Name is the trimmed object name.
	Name string `json:"name"`

	// Action is what the plan does with the object.
	Action Action `json:"action"`

	// ID is the server identifier: the matched one for updates and unchanged objects,
	// the assigned one after a create has been applied.
	ID string `json:"id,omitempty"`

	// Changes lists the differing projected fields of an update, when known.
	Changes []string `json:"changes,omitempty"`
}

// Summary provides aggregate counts for a plan.
type Summary struct {
	Server    int `json:"server"`
	Create    int `json:"create"`
	Update    int `json:"update"`
	Delete    int `json:"delete"`
	Unchanged int `json:"unchanged"`
}

// Operations returns the number of gateway mutations the plan requires.
func (s Summary) Operations() int {
	return s.Create + s.Update + s.Delete
}

// SyncPlan is the computed difference between desired and server state.
type SyncPlan[T any] struct {
	// VenueID is the venue the plan applies to.
	VenueID string `json:"venueId"`

	// Server is the filtered server-side baseline.
	Server []T `json:"server"`

	// Create holds trimmed copies of desired objects missing on the server.
	Create []T `json:"create"`

	// Update holds trimmed copies of changed desired objects, server IDs attached.
	Update []T `json:"update"`

	// Delete holds server objects absent from the desired list.
	Delete []T `json:"delete"`

	// Unchanged holds trimmed copies of desired objects equal to their server objects.
	Unchanged []T `json:"unchanged"`

	// Results has one entry per desired input, in input order.
	Results []Result `json:"results"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`

	// Applied is set once every operation of the plan has been executed.
	Applied bool `json:"applied"`

	// createResults maps Create[i] to its entry in Results.
	createResults []int
}

// Empty reports whether the plan requires no gateway mutation.
func (p *SyncPlan[T]) Empty() bool {
	return p.Summary.Operations() == 0
}

// Operation describes one executed gateway mutation.
type Operation struct {
	Kind     models.Kind
	Action   Action
	Name     string
	ID       string
	Err      error
	Duration time.Duration
}
