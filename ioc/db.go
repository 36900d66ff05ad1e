package ioc

import (
	"github.com/spf13/viper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func InitDB() *gorm.DB {
	type Config struct {
		Dsn string `mapstructure:"dsn"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("db", &cfg); err != nil {
		panic(err)
	}
	if cfg.Dsn == "" {
		// 多进程共用一个库, 打开 WAL 并设置锁等待
		cfg.Dsn = "file:tradewatch.db?_busy_timeout=5000&_journal_mode=WAL"
	}

	db, err := gorm.Open(sqlite.Open(cfg.Dsn))
	if err != nil {
		panic(err)
	}
	return db
}
