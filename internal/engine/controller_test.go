package engine

import (
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"demo-trade-bot-go/internal/config"
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

// captureSink records every emitted event for assertions.
type captureSink struct {
	mu     sync.Mutex
	events []notify.Event
}

func (s *captureSink) Emit(event notify.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *captureSink) ofKind(kind notify.Kind) []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notify.Event
	for _, e := range s.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func newTestStore(t *testing.T) *store.Store {
	// Use a new, non-shared in-memory database for each test to ensure isolation.
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	st, err := store.New(db, zap.NewNop())
	require.NoError(t, err)
	return st
}

// setupController creates a controller over a fresh in-memory store with a
// mock clock pinned to a fixed instant.
func setupController(t *testing.T, st *store.Store) (*Controller, *clock.Mock, *captureSink) {
	mock := clock.NewMock()
	mock.Set(time.Unix(1_700_000_000, 0))

	rng := rand.New(rand.NewSource(1))
	sink := &captureSink{}
	cfg := config.TestConfig()

	c := New(zap.NewNop(), &cfg.Demo, st, mock, rng, sink, names.NewPool(rng))
	return c, mock, sink
}

// assertBalanceConsistent checks the core invariant:
// balance == initialBalance + sum of profit over all settled trades.
func assertBalanceConsistent(t *testing.T, c *Controller) {
	t.Helper()
	total := 150.0
	for _, trade := range c.Trades() {
		total += trade.Profit
	}
	assert.InDelta(t, total, c.Balance(), 1e-9)
}

func TestStartTrading_FirstTradeFiresAndSettles(t *testing.T) {
	c, mock, sink := setupController(t, newTestStore(t))
	c.SelectBot(BotBalanced)
	startedAt := mock.Now()

	require.NoError(t, c.StartTrading())

	// The first trade fires immediately but settles asynchronously.
	assert.Empty(t, c.Trades())
	assert.InDelta(t, 150.0, c.Balance(), 1e-9)

	mock.Add(7 * time.Second)

	trades := c.Trades()
	require.Len(t, trades, 1)
	trade := trades[0]

	assert.Equal(t, "BTC/EUR", trade.Symbol)
	assert.Equal(t, startedAt, trade.BuyTimestamp)
	assert.True(t, trade.SellTimestamp.After(trade.BuyTimestamp))
	assert.InDelta(t, 150.0+trade.Profit, c.Balance(), 1e-9)
	assert.Len(t, sink.ofKind(notify.KindTradeClosed), 1)
	assertBalanceConsistent(t, c)
}

func TestSettlementPricesConsistentWithProfit(t *testing.T) {
	c, mock, _ := setupController(t, newTestStore(t))
	c.SelectBot(BotHighYield)
	require.NoError(t, c.StartTrading())

	// Let several bot cycles run and settle.
	for i := 0; i < 10; i++ {
		mock.Add(60 * time.Second)
	}

	trades := c.Trades()
	require.NotEmpty(t, trades)
	for _, trade := range trades {
		derived := trade.BuyPrice + trade.Profit/trade.Amount
		assert.InDelta(t, derived, trade.SellPrice, 1e-6)
		assert.Greater(t, trade.Amount, 0.0)
	}
	assertBalanceConsistent(t, c)
}

func TestTradeLog_MostRecentFirstWithUniqueIDs(t *testing.T) {
	c, mock, _ := setupController(t, newTestStore(t))
	c.SelectBot(BotBalanced)
	require.NoError(t, c.StartTrading())

	for i := 0; i < 10; i++ {
		mock.Add(60 * time.Second)
	}

	trades := c.Trades()
	require.Greater(t, len(trades), 2)

	seen := make(map[string]bool)
	for i, trade := range trades {
		assert.False(t, seen[trade.ID], "duplicate trade id %s", trade.ID)
		seen[trade.ID] = true
		if i > 0 {
			assert.False(t, trade.SellTimestamp.After(trades[i-1].SellTimestamp))
		}
	}
}

func TestStartTrading_RequiresBot(t *testing.T) {
	c, _, _ := setupController(t, newTestStore(t))
	assert.ErrorIs(t, c.StartTrading(), ErrNoBotSelected)
}

func TestInitiateTrade_InsufficientBalanceSkips(t *testing.T) {
	c, mock, sink := setupController(t, newTestStore(t))
	c.balance = 5

	c.mu.Lock()
	c.initiateTradeLocked(20)
	c.mu.Unlock()

	mock.Add(10 * time.Second)

	assert.Empty(t, c.Trades())
	assert.InDelta(t, 5.0, c.Balance(), 1e-9)
	assert.Empty(t, sink.ofKind(notify.KindTradeClosed))
}

func TestDemoEndTime_NeverMovesAcrossRestarts(t *testing.T) {
	c, mock, _ := setupController(t, newTestStore(t))
	c.SelectBot(BotCautious)

	require.NoError(t, c.StartTrading())
	endTime := c.demoEndTime
	require.False(t, endTime.IsZero())

	c.StopTrading()
	mock.Add(30 * time.Minute)
	require.NoError(t, c.StartTrading())

	assert.Equal(t, endTime, c.demoEndTime, "stopping and starting must not extend the session")
}

func TestStartTrading_FailsOnceLimitReached(t *testing.T) {
	c, mock, _ := setupController(t, newTestStore(t))
	c.SelectBot(BotBalanced)

	// Session ceiling one second away.
	c.mu.Lock()
	c.demoEndTime = mock.Now().Add(time.Second)
	c.mu.Unlock()

	mock.Add(time.Second)

	assert.ErrorIs(t, c.StartTrading(), ErrLimitReached)
	assert.False(t, c.Status().IsTrading)
}

func TestTick_ForcesStopAtExpiryAndNotifiesOnce(t *testing.T) {
	c, mock, sink := setupController(t, newTestStore(t))
	c.SelectBot(BotBalanced)
	require.NoError(t, c.StartTrading())

	c.mu.Lock()
	c.demoEndTime = mock.Now().Add(2 * time.Second)
	c.mu.Unlock()

	mock.Add(2 * time.Second)
	c.tick()

	status := c.Status()
	assert.False(t, status.IsTrading)
	assert.True(t, status.IsTimeLimitReached)
	assert.EqualValues(t, 0, status.RemainingSeconds)
	assert.Len(t, sink.ofKind(notify.KindLimitReached), 1)

	// Further ticks never re-fire the notification.
	mock.Add(time.Second)
	c.tick()
	c.tick()
	assert.Len(t, sink.ofKind(notify.KindLimitReached), 1)

	// The pending settlement of the immediate first trade fires after the
	// stop and must be discarded.
	balance := c.Balance()
	mock.Add(10 * time.Second)
	assert.Empty(t, c.Trades())
	assert.InDelta(t, balance, c.Balance(), 1e-9)
}

func TestSettlementDiscardedAfterStop(t *testing.T) {
	c, mock, sink := setupController(t, newTestStore(t))
	c.SelectBot(BotBalanced)
	require.NoError(t, c.StartTrading())

	// Stop while the first trade's settlement is still pending.
	c.StopTrading()
	mock.Add(10 * time.Second)

	assert.Empty(t, c.Trades())
	assert.InDelta(t, 150.0, c.Balance(), 1e-9)
	assert.Empty(t, sink.ofKind(notify.KindTradeClosed))
	assertBalanceConsistent(t, c)
}

func TestStop_CancelsAllScheduling(t *testing.T) {
	c, mock, sink := setupController(t, newTestStore(t))
	c.SelectBot(BotBalanced)
	require.NoError(t, c.StartTrading())
	c.StopTrading()

	mock.Add(10 * time.Minute)

	assert.Empty(t, c.Trades())
	assert.Empty(t, sink.ofKind(notify.KindWithdrawalPing))
}

func TestWithdrawalPings_CosmeticOnly(t *testing.T) {
	c, mock, sink := setupController(t, newTestStore(t))
	c.SelectBot(BotBalanced)
	require.NoError(t, c.StartTrading())

	mock.Add(25 * time.Second) // first ping arrives within 15-25s
	pings := sink.ofKind(notify.KindWithdrawalPing)
	require.Len(t, pings, 1)
	assert.NotEmpty(t, pings[0].Name)
	assert.GreaterOrEqual(t, pings[0].Amount, 53.0)
	assert.LessOrEqual(t, pings[0].Amount, 399.0)

	mock.Add(60 * time.Second) // steady-state pings every 25-60s
	pings = sink.ofKind(notify.KindWithdrawalPing)
	assert.GreaterOrEqual(t, len(pings), 2)
	assert.NotEqual(t, pings[0].Name, pings[1].Name)

	// Pings never touch the financial state.
	assertBalanceConsistent(t, c)
}

func TestDailyProfit_TrailingWindow(t *testing.T) {
	c, mock, _ := setupController(t, newTestStore(t))
	now := mock.Now()

	c.mu.Lock()
	c.trades = []CompletedTrade{
		{ID: "a", Profit: 5, SellTimestamp: now.Add(-time.Hour)},
		{ID: "b", Profit: 3, SellTimestamp: now.Add(-30 * time.Hour)},
	}
	c.mu.Unlock()

	assert.InDelta(t, 5.0, c.Status().DailyProfit, 1e-9)
}

func TestStatus_RemainingTimeBeforeFirstStart(t *testing.T) {
	c, _, _ := setupController(t, newTestStore(t))

	status := c.Status()
	assert.False(t, status.IsTimeLimitReached)
	assert.EqualValues(t, 6*60*60, status.RemainingSeconds)
}

func TestBalanceConsistency_OverManyCycles(t *testing.T) {
	c, mock, _ := setupController(t, newTestStore(t))
	c.SelectBot(BotBalanced)
	require.NoError(t, c.StartTrading())

	for i := 0; i < 30; i++ {
		mock.Add(45 * time.Second)
		assertBalanceConsistent(t, c)
	}

	// The 80%-win asymmetric-payoff bias makes math.Abs of each profit
	// bounded by the configured band.
	for _, trade := range c.Trades() {
		assert.LessOrEqual(t, math.Abs(trade.Profit), 2.5)
		assert.GreaterOrEqual(t, math.Abs(trade.Profit), 0.25)
	}
}

func TestPersistedStateSurvivesReload(t *testing.T) {
	st := newTestStore(t)
	c, mock, _ := setupController(t, st)
	c.SelectBot(BotBalanced)
	require.NoError(t, c.StartTrading())

	for i := 0; i < 5; i++ {
		mock.Add(60 * time.Second)
	}
	balance := c.Balance()
	tradeCount := len(c.Trades())
	require.Greater(t, tradeCount, 0)
	c.StopTrading()

	// A second controller over the same store sees the same account.
	reloaded, _, _ := setupController(t, st)
	assert.InDelta(t, balance, reloaded.Balance(), 1e-9)
	assert.Len(t, reloaded.Trades(), tradeCount)
	assert.False(t, reloaded.Status().IsTrading)
	assert.Equal(t, string(BotBalanced), reloaded.Status().SelectedBot)
}
