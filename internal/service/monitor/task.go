package monitor

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/tradewatch/tradewatch/internal/schedule"
)

type MonitorTask struct {
	svc          Service
	watchlist    []string
	rejectSymbol func(ctx context.Context, symbol string) bool // if true, reject
}

func NewMonitorTask(svc Service, watchlist []string,
	reject ...func(ctx context.Context, symbol string) bool) schedule.Task {
	task := &MonitorTask{
		svc:       svc,
		watchlist: watchlist,
		rejectSymbol: func(ctx context.Context, symbol string) bool {
			return false
		},
	}

	if len(reject) > 0 {
		task.rejectSymbol = reject[0]
	}
	return task
}

func (t *MonitorTask) Run(ctx context.Context) error {
	symbols := lo.Reject(t.watchlist, func(item string, index int) bool {
		return t.rejectSymbol(ctx, item)
	})

	n, err := t.svc.Scan(ctx, symbols)
	if err != nil {
		return err
	}
	slog.Info("scan finished", "symbols", len(symbols), "new_signals", n)
	return nil
}

func (t *MonitorTask) Name() string {
	return "intraday alert monitor task"
}
