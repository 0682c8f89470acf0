// Package jobs wires background processing for the gateway on top of Asynq.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypePermissionsRefresh fans a permissions-refresh signal out to
	// every gateway instance.
	TaskTypePermissionsRefresh = "authz:refresh"
	// TaskTypeSessionSweep removes half-written session records.
	TaskTypeSessionSweep = "session:sweep"
)

// PermissionsRefreshPayload carries the operator-supplied reason for a
// platform-wide refresh.
type PermissionsRefreshPayload struct {
	Reason string `json:"reason"`
}

// NewPermissionsRefreshTask constructs an Asynq task.
func NewPermissionsRefreshTask(payload PermissionsRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePermissionsRefresh, data), nil
}

// NewSessionSweepTask constructs the periodic sweep task.
func NewSessionSweepTask() *asynq.Task {
	return asynq.NewTask(TaskTypeSessionSweep, nil)
}

// RefreshPublisher broadcasts a refresh signal to all gateway instances.
type RefreshPublisher interface {
	Publish(ctx context.Context, reason string) error
}

// NewPermissionsRefreshHandler processes TaskTypePermissionsRefresh tasks by
// publishing the signal through the given publisher.
func NewPermissionsRefreshHandler(logger *slog.Logger, publisher RefreshPublisher) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload PermissionsRefreshPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.Reason == "" {
			payload.Reason = "manual"
		}
		if err := publisher.Publish(ctx, payload.Reason); err != nil {
			return err
		}
		logger.Info("permissions refresh published", slog.String("reason", payload.Reason))
		return nil
	}
}
