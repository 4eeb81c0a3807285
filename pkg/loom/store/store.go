// Package store persists KnowledgeBase snapshots across process runs. This
// is a CLI/host-level convenience layered outside the in-memory core;
// pkg/loom/rules itself never imports this package.
package store

import (
	"context"
	"time"

	"github.com/cognicore/loom/pkg/loom/term"
)

// RunRecord logs one infer_all invocation for audit/history purposes.
type RunRecord struct {
	ID        string
	StartedAt time.Time
	Steps     int
	FactCount int
}

// Store persists facts and run history.
type Store interface {
	Close() error

	SaveFacts(ctx context.Context, facts []term.Term) error
	LoadFacts(ctx context.Context) ([]term.Term, error)

	SaveRun(ctx context.Context, r RunRecord) error
	Runs(ctx context.Context, limit int) ([]RunRecord, error)
}
