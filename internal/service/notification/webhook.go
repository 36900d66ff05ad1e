package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tradewatch/tradewatch/internal/entity"
)

type WebhookNotifier struct {
	cli *http.Client
	url string
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		cli: &http.Client{Timeout: 10 * time.Second},
		url: url,
	}
}

func (w *WebhookNotifier) Notify(ctx context.Context, signal entity.Signal) error {
	payload, err := json.Marshal(map[string]any{
		"symbol":       signal.Symbol,
		"alert_type":   signal.AlertType,
		"direction":    signal.Direction,
		"price":        signal.Price,
		"entry":        signal.Entry,
		"stop":         signal.Stop,
		"target_1":     signal.Target1,
		"target_2":     signal.Target2,
		"confidence":   signal.Confidence,
		"message":      signal.Message,
		"session_date": signal.SessionDate,
		"fired_at":     signal.FiredAt,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.cli.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	return nil
}

// MultiNotifier 依次调用多个出口, 返回第一个错误
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, signal entity.Signal) error {
	var firstErr error
	for _, n := range m {
		if err := n.Notify(ctx, signal); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
