package repo

import (
	"context"

	"github.com/tradewatch/tradewatch/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SignalRepo interface {
	// RecordIfAbsent 原子写入, 同一去重键并发竞争时只有一个进程返回 true
	// 返回值是下游通知的唯一依据
	RecordIfAbsent(ctx context.Context, signal entity.Signal) (bool, error)
	FiredToday(ctx context.Context, sessionDate string) (map[entity.DedupKey]struct{}, error)
	BySession(ctx context.Context, sessionDate string) ([]entity.Signal, error)
	Recent(ctx context.Context, limit int) ([]entity.Signal, error)
}

type signalRepo struct {
	db *gorm.DB
}

func NewSignalRepo(db *gorm.DB) SignalRepo {
	return &signalRepo{
		db: db,
	}
}

func (r *signalRepo) RecordIfAbsent(ctx context.Context, signal entity.Signal) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "symbol"},
			{Name: "alert_type"},
			{Name: "direction"},
			{Name: "session_date"},
		},
		DoNothing: true,
	}).Create(&signal)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *signalRepo) FiredToday(ctx context.Context, sessionDate string) (map[entity.DedupKey]struct{}, error) {
	var signals []entity.Signal
	err := r.db.WithContext(ctx).
		Select("symbol", "alert_type", "direction", "session_date").
		Where("session_date = ?", sessionDate).
		Find(&signals).Error
	if err != nil {
		return nil, err
	}
	fired := make(map[entity.DedupKey]struct{}, len(signals))
	for _, s := range signals {
		fired[s.DedupKey()] = struct{}{}
	}
	return fired, nil
}

func (r *signalRepo) BySession(ctx context.Context, sessionDate string) ([]entity.Signal, error) {
	var signals []entity.Signal
	err := r.db.WithContext(ctx).
		Where("session_date = ?", sessionDate).
		Order("fired_at DESC").
		Find(&signals).Error
	if err != nil {
		return nil, err
	}
	return signals, nil
}

func (r *signalRepo) Recent(ctx context.Context, limit int) ([]entity.Signal, error) {
	var signals []entity.Signal
	err := r.db.WithContext(ctx).
		Order("fired_at DESC").
		Limit(limit).
		Find(&signals).Error
	if err != nil {
		return nil, err
	}
	return signals, nil
}
