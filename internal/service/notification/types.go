package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/tradewatch/tradewatch/internal/entity"
)

// Notifier 通知出口, 每个 RECORDED 信号恰好调用一次
// 投递失败不影响信号已落库的事实, 重试由传输层自行负责
type Notifier interface {
	Notify(ctx context.Context, signal entity.Signal) error
}

// FormatSignal 信号的通知文案, 各出口共用
func FormatSignal(s entity.Signal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s @ $%s", s.Direction, s.Symbol, s.AlertType, s.Price.Round(2))
	if s.Entry.Sign() > 0 {
		fmt.Fprintf(&b, "\nentry $%s stop $%s T1 $%s T2 $%s", s.Entry, s.Stop, s.Target1, s.Target2)
	}
	if s.Confidence != "" {
		fmt.Fprintf(&b, "\nconfidence: %s", s.Confidence)
	}
	if s.Message != "" {
		fmt.Fprintf(&b, "\n%s", s.Message)
	}
	return b.String()
}
