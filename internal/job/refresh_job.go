package job

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"comment-gateway/internal/service"
)

// Refresher is the part of the comment engine the job drives
type Refresher interface {
	Refresh(ctx context.Context) error
	Snapshot() service.ListState
}

// RefreshJob refetches a post's comments on a schedule
type RefreshJob struct {
	ctx      context.Context
	engine   Refresher
	timeout  time.Duration
	onUpdate func(state service.ListState)
	logger   *zap.Logger
}

// NewRefreshJob creates a new RefreshJob instance. Every refresh runs under
// ctx, so cancelling it aborts the call in flight and turns later runs into
// no-ops. onUpdate receives the list after every completed refresh, failed
// ones included.
func NewRefreshJob(ctx context.Context, engine Refresher, timeout time.Duration, onUpdate func(service.ListState), logger *zap.Logger) *RefreshJob {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefreshJob{
		ctx:      ctx,
		engine:   engine,
		timeout:  timeout,
		onUpdate: onUpdate,
		logger:   logger,
	}
}

// Run executes one refresh
func (j *RefreshJob) Run() {
	ctx := j.ctx
	if ctx.Err() != nil {
		j.logger.Debug("Scheduled refresh skipped after shutdown")
		return
	}
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	start := time.Now()
	err := j.engine.Refresh(ctx)
	if errors.Is(err, service.ErrSuperseded) {
		j.logger.Debug("Scheduled refresh superseded")
		return
	}

	state := j.engine.Snapshot()
	if err != nil {
		j.logger.Warn("Scheduled refresh failed",
			zap.Int64("post_id", state.PostID),
			zap.Error(err),
		)
	} else {
		j.logger.Debug("Scheduled refresh completed",
			zap.Int64("post_id", state.PostID),
			zap.Int("total", state.Total),
			zap.Duration("duration", time.Since(start)),
		)
	}

	if j.onUpdate != nil {
		j.onUpdate(state)
	}
}
