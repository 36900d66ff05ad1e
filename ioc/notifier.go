package ioc

import (
	"time"

	"github.com/spf13/viper"
	"github.com/tradewatch/tradewatch/internal/service/notification"
	tele "gopkg.in/telebot.v3"
)

// InitNotifier 根据配置组装通知出口, 一个都没配则退回控制台输出
func InitNotifier() notification.Notifier {
	type Config struct {
		Telegram struct {
			Token  string `mapstructure:"token"`
			ChatId int64  `mapstructure:"chat_id"`
		} `mapstructure:"telegram"`
		Webhook struct {
			Url string `mapstructure:"url"`
		} `mapstructure:"webhook"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("notify", &cfg); err != nil {
		panic(err)
	}

	var multi notification.MultiNotifier
	if cfg.Telegram.Token != "" {
		bot, err := tele.NewBot(tele.Settings{
			Token:  cfg.Telegram.Token,
			Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		})
		if err != nil {
			panic(err)
		}
		multi = append(multi, notification.NewTelegramNotifier(bot, cfg.Telegram.ChatId))
	}
	if cfg.Webhook.Url != "" {
		multi = append(multi, notification.NewWebhookNotifier(cfg.Webhook.Url))
	}

	if len(multi) == 0 {
		return notification.NewConsoleNotifier()
	}
	return multi
}
