package repo

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradewatch/tradewatch/internal/entity"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, InitTables(db))
	return db
}

func testSignal(symbol, alertType, sessionDate string) entity.Signal {
	return entity.Signal{
		Symbol:      symbol,
		AlertType:   alertType,
		Direction:   entity.DirectionBuy,
		SessionDate: sessionDate,
		Price:       decimal.RequireFromString("269.69"),
		Confidence:  entity.ConfidenceHigh,
		FiredAt:     time.Now(),
	}
}

func TestSignalRepo_RecordIfAbsent(t *testing.T) {
	db := newTestDB(t)
	repo := NewSignalRepo(db)
	ctx := context.Background()

	inserted, err := repo.RecordIfAbsent(ctx, testSignal("AAPL", "ma_bounce_20", "2025-01-15"))
	require.NoError(t, err)
	assert.True(t, inserted)

	// 同一去重键重复写入
	inserted, err = repo.RecordIfAbsent(ctx, testSignal("AAPL", "ma_bounce_20", "2025-01-15"))
	require.NoError(t, err)
	assert.False(t, inserted)

	// 规则不同, 不冲突
	inserted, err = repo.RecordIfAbsent(ctx, testSignal("AAPL", "gap_fill", "2025-01-15"))
	require.NoError(t, err)
	assert.True(t, inserted)

	// 方向不同, 不冲突
	sell := testSignal("AAPL", "ma_bounce_20", "2025-01-15")
	sell.Direction = entity.DirectionSell
	inserted, err = repo.RecordIfAbsent(ctx, sell)
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestSignalRepo_RecordIfAbsentConcurrent(t *testing.T) {
	db := newTestDB(t)
	repo := NewSignalRepo(db)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := repo.RecordIfAbsent(ctx, testSignal("TSLA", "opening_range_breakout", "2025-01-15"))
			assert.NoError(t, err)
			results <- inserted
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for inserted := range results {
		if inserted {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestSignalRepo_SessionIsolation(t *testing.T) {
	db := newTestDB(t)
	repo := NewSignalRepo(db)
	ctx := context.Background()

	inserted, err := repo.RecordIfAbsent(ctx, testSignal("AAPL", "ma_bounce_20", "2025-01-15"))
	require.NoError(t, err)
	require.True(t, inserted)

	// 新交易日重新计数
	inserted, err = repo.RecordIfAbsent(ctx, testSignal("AAPL", "ma_bounce_20", "2025-01-16"))
	require.NoError(t, err)
	assert.True(t, inserted)

	fired, err := repo.FiredToday(ctx, "2025-01-15")
	require.NoError(t, err)
	assert.Len(t, fired, 1)
	_, ok := fired[entity.DedupKey{
		Symbol:      "AAPL",
		AlertType:   "ma_bounce_20",
		Direction:   entity.DirectionBuy,
		SessionDate: "2025-01-15",
	}]
	assert.True(t, ok)
}

func TestSignalRepo_History(t *testing.T) {
	db := newTestDB(t)
	repo := NewSignalRepo(db)
	ctx := context.Background()

	for i, symbol := range []string{"AAPL", "TSLA", "NVDA"} {
		s := testSignal(symbol, "ma_bounce_20", "2025-01-15")
		s.FiredAt = time.Now().Add(time.Duration(i) * time.Minute)
		_, err := repo.RecordIfAbsent(ctx, s)
		require.NoError(t, err)
	}

	bySession, err := repo.BySession(ctx, "2025-01-15")
	require.NoError(t, err)
	require.Len(t, bySession, 3)
	// 最新在前
	assert.Equal(t, "NVDA", bySession[0].Symbol)

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
