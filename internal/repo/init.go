package repo

import (
	"github.com/tradewatch/tradewatch/internal/entity"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(&entity.Signal{}, &entity.Cooldown{}, &entity.Entry{})
}
