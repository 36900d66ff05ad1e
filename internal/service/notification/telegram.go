package notification

import (
	"context"

	"github.com/tradewatch/tradewatch/internal/entity"
	tele "gopkg.in/telebot.v3"
)

// messageSender telebot 发送接口的最小子集, 便于测试替身
type messageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type TelegramNotifier struct {
	sender messageSender
	chatID int64
}

func NewTelegramNotifier(bot *tele.Bot, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{
		sender: bot,
		chatID: chatID,
	}
}

func (t *TelegramNotifier) Notify(ctx context.Context, signal entity.Signal) error {
	_, err := t.sender.Send(tele.ChatID(t.chatID), FormatSignal(signal))
	return err
}
