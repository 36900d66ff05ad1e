package notification

import (
	"context"
	"fmt"

	"github.com/tradewatch/tradewatch/internal/entity"
)

type ConsoleNotifier struct {
}

func NewConsoleNotifier() ConsoleNotifier {
	return ConsoleNotifier{}
}

func (c ConsoleNotifier) Notify(ctx context.Context, signal entity.Signal) error {
	fmt.Println("ALERT:", FormatSignal(signal))
	return nil
}
