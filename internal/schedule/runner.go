package schedule

import (
	"context"
	"log/slog"
	"time"
)

// Runner 按固定间隔驱动任务; 每个 tick 有独立超时, 失败只记日志等下个周期
type Runner struct {
	task     Task
	interval time.Duration
	timeout  time.Duration
	gate     func(now time.Time) bool
	now      func() time.Time
}

type RunnerOption func(r *Runner)

// WithGate 每个 tick 前置检查, 返回 false 则本轮跳过 (比如盘外时间)
func WithGate(gate func(now time.Time) bool) RunnerOption {
	return func(r *Runner) {
		r.gate = gate
	}
}

func WithTickTimeout(timeout time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = timeout
	}
}

func NewRunner(task Task, interval time.Duration, opts ...RunnerOption) *Runner {
	r := &Runner{
		task:     task,
		interval: interval,
		timeout:  interval,
		gate: func(now time.Time) bool {
			return true
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start 阻塞运行直到 ctx 取消; 启动即执行第一个 tick
func (r *Runner) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	if !r.gate(r.now()) {
		slog.Debug("skip tick", "task", r.task.Name(), "reason", "gate closed")
		return
	}
	tickCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.task.Run(tickCtx); err != nil {
		slog.Error("task run failed", "task", r.task.Name(), "error", err)
	}
}
