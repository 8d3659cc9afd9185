package social

import (
	"math/rand"
	"testing"
	"time"

	"demo-trade-bot-go/internal/config"
	"demo-trade-bot-go/internal/engine"
	"demo-trade-bot-go/internal/names"
	"demo-trade-bot-go/internal/notify"
	"demo-trade-bot-go/internal/store"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBoard(t *testing.T) (*Leaderboard, *clock.Mock) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	st, err := store.New(db, zap.NewNop())
	require.NoError(t, err)

	mock := clock.NewMock()
	mock.Set(time.Unix(1_700_000_000, 0))
	rng := rand.New(rand.NewSource(7))

	return New(st, names.NewPool(rng), rng, mock, zap.NewNop()), mock
}

func TestEntries_TenRankedDescending(t *testing.T) {
	board, _ := setupBoard(t)

	entries := board.Entries()
	require.Len(t, entries, 10)

	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Rank)
		assert.NotEmpty(t, entry.Name)
		if i > 0 {
			assert.LessOrEqual(t, entry.Amount, entries[i-1].Amount)
		}
	}

	// Amount bands from the generator.
	assert.LessOrEqual(t, entries[0].Amount, 3972.0)
	assert.GreaterOrEqual(t, entries[9].Amount, 512.0)
}

func TestEntries_CachedWithinADay(t *testing.T) {
	board, mock := setupBoard(t)

	first := board.Entries()
	mock.Add(12 * time.Hour)
	second := board.Entries()

	assert.Equal(t, first, second)
}

// Wires a controller and a leaderboard the way cmd/dashboard does: shared
// store, clock and name pool, one generator per consumer. Run under -race
// this pins down that leaderboard reads and engine timer callbacks can
// overlap freely.
func TestEntries_ConcurrentWithEngineTimers(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	st, err := store.New(db, zap.NewNop())
	require.NoError(t, err)

	mock := clock.NewMock()
	mock.Set(time.Unix(1_700_000_000, 0))
	pool := names.NewPool(rand.New(rand.NewSource(1)))
	board := New(st, pool, rand.New(rand.NewSource(2)), mock, zap.NewNop())

	cfg := config.TestConfig()
	controller := engine.New(zap.NewNop(), &cfg.Demo, st, mock, rand.New(rand.NewSource(3)), notify.Discard{}, pool)
	controller.SelectBot(engine.BotBalanced)
	require.NoError(t, controller.StartTrading())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 120; i++ {
			mock.Add(time.Second)
		}
	}()

	for i := 0; i < 50; i++ {
		require.Len(t, board.Entries(), 10)
	}
	<-done

	controller.StopTrading()
	assert.NotEmpty(t, controller.Trades())
}

func TestEntries_RegeneratedAfterADay(t *testing.T) {
	board, mock := setupBoard(t)

	board.Entries()
	mock.Add(25 * time.Hour)
	fresh := board.Entries()

	require.Len(t, fresh, 10)
	// The cache timestamp moved: a third read within the new day is stable.
	assert.Equal(t, fresh, board.Entries())
}
