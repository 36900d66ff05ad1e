package repo

import (
	"context"
	"time"

	"github.com/tradewatch/tradewatch/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CooldownRepo interface {
	// Save upsert 冷却窗口, 只允许向后延长; 会缩短现有窗口的写入被静默忽略
	Save(ctx context.Context, symbol string, duration time.Duration, reason string, sessionDate string) error
	ActiveSymbols(ctx context.Context, sessionDate string) (map[string]struct{}, error)
	IsCooledDown(ctx context.Context, symbol string, sessionDate string) (bool, error)
}

type cooldownRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCooldownRepo(db *gorm.DB) CooldownRepo {
	return &cooldownRepo{
		db:  db,
		now: time.Now,
	}
}

func (r *cooldownRepo) Save(ctx context.Context, symbol string, duration time.Duration, reason string, sessionDate string) error {
	cooldown := entity.Cooldown{
		Symbol:      symbol,
		SessionDate: sessionDate,
		Until:       r.now().Add(duration),
		Reason:      reason,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "symbol"},
			{Name: "session_date"},
		},
		Where: clause.Where{
			Exprs: []clause.Expression{gorm.Expr("excluded.until > cooldowns.until")},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"until":      gorm.Expr("excluded.until"),
			"reason":     gorm.Expr("excluded.reason"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&cooldown).Error
}

func (r *cooldownRepo) ActiveSymbols(ctx context.Context, sessionDate string) (map[string]struct{}, error) {
	var cooldowns []entity.Cooldown
	err := r.db.WithContext(ctx).
		Where("session_date = ? AND until > ?", sessionDate, r.now()).
		Find(&cooldowns).Error
	if err != nil {
		return nil, err
	}
	active := make(map[string]struct{}, len(cooldowns))
	for _, c := range cooldowns {
		active[c.Symbol] = struct{}{}
	}
	return active, nil
}

func (r *cooldownRepo) IsCooledDown(ctx context.Context, symbol string, sessionDate string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Cooldown{}).
		Where("symbol = ? AND session_date = ? AND until > ?", symbol, sessionDate, r.now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
