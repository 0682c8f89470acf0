// Package decisionlog persists guard and session decisions for audit review.
package decisionlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is one access decision as seen by the gateway.
type Record struct {
	ID        uuid.UUID `json:"id"`
	At        time.Time `json:"at"`
	ActorID   int64     `json:"actor_id,omitempty"`
	ActorRole string    `json:"actor_role,omitempty"`
	Route     string    `json:"route"`
	Rule      string    `json:"rule,omitempty"`
	Decision  string    `json:"decision"`
	Source    string    `json:"source"`
}

// Recorder accepts decision records. Recording never blocks the request path
// and never fails it.
type Recorder interface {
	Record(ctx context.Context, rec Record)
}
