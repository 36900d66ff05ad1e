package repo

import (
	"context"

	"github.com/tradewatch/tradewatch/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntryRepo interface {
	Create(ctx context.Context, entry entity.Entry) error
	FindActive(ctx context.Context, symbol string, sessionDate string) ([]entity.Entry, error)
	Close(ctx context.Context, symbol string, alertType string, sessionDate string) error
	// CloseAll 止损后关闭该标的当日全部持仓档案
	CloseAll(ctx context.Context, symbol string, sessionDate string) error
}

type entryRepo struct {
	db *gorm.DB
}

func NewEntryRepo(db *gorm.DB) EntryRepo {
	return &entryRepo{
		db: db,
	}
}

func (r *entryRepo) Create(ctx context.Context, entry entity.Entry) error {
	if entry.Status == "" {
		entry.Status = entity.EntryStatusActive
	}
	// 同一 (标的, 规则, 交易日) 重复写入直接忽略
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "symbol"},
			{Name: "alert_type"},
			{Name: "session_date"},
		},
		DoNothing: true,
	}).Create(&entry).Error
}

func (r *entryRepo) FindActive(ctx context.Context, symbol string, sessionDate string) ([]entity.Entry, error) {
	var entries []entity.Entry
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND session_date = ? AND status = ?", symbol, sessionDate, entity.EntryStatusActive).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepo) Close(ctx context.Context, symbol string, alertType string, sessionDate string) error {
	return r.db.WithContext(ctx).Model(&entity.Entry{}).
		Where("symbol = ? AND alert_type = ? AND session_date = ?", symbol, alertType, sessionDate).
		Update("status", entity.EntryStatusClosed).Error
}

func (r *entryRepo) CloseAll(ctx context.Context, symbol string, sessionDate string) error {
	return r.db.WithContext(ctx).Model(&entity.Entry{}).
		Where("symbol = ? AND session_date = ? AND status = ?", symbol, sessionDate, entity.EntryStatusActive).
		Update("status", entity.EntryStatusStopped).Error
}
