package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"demo-trade-bot-go/internal/config"
	"demo-trade-bot-go/internal/models"
	"demo-trade-bot-go/internal/names"
	"demo-trade-bot-go/internal/notify"
	"demo-trade-bot-go/internal/store"
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// ErrLimitReached is returned by StartTrading once the session's hard time
// ceiling has been reached. The account is locked for good at that point.
var ErrLimitReached = errors.New("demo session time limit reached")

// ErrNoBotSelected is returned by StartTrading when no trading bot has been
// chosen yet.
var ErrNoBotSelected = errors.New("no trading bot selected")

// Bot identifies one of the selectable trading bots. Bot choice is persisted
// and reported, but every bot draws its risked value from the same unified
// band; the choice only changes what the UI shows.
type Bot string

const (
	BotCautious  Bot = "cautious"
	BotBalanced  Bot = "balanced"
	BotHighYield Bot = "high-yield"
)

// ParseBot validates a bot name coming from the UI layer.
func ParseBot(s string) (Bot, error) {
	switch Bot(s) {
	case BotCautious, BotBalanced, BotHighYield:
		return Bot(s), nil
	}
	return "", fmt.Errorf("unknown bot %q", s)
}

// CompletedTrade is an immutable record of a settled simulated trade.
type CompletedTrade struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	Amount        float64   `json:"amount"`
	BuyPrice      float64   `json:"buy_price"`
	SellPrice     float64   `json:"sell_price"`
	BuyTimestamp  time.Time `json:"buy_timestamp"`
	SellTimestamp time.Time `json:"sell_timestamp"`
	Profit        float64   `json:"profit"`
	Simulated     bool      `json:"simulated"` // produced by offline catch-up
}

// Versioned store keys. Bump the suffix when the stored shape changes so
// that stale entries are ignored instead of breaking deserialization.
const (
	keyBalance    = "trading-balance-v3"
	keyIsTrading  = "is-trading-v3"
	keyEndTime    = "demo-end-time-v1"
	keyLastSeen   = "last-seen-v1"
	keyBot        = "selected-bot-v5"
	keyOnboarding = "onboarding-completed-v5"
)

// expiryGrace is how close to the expiry instant the 1 Hz tick must observe
// the crossing for the limit-reached notification to fire. A process that
// wakes up long after expiry locks the account silently instead of
// re-spamming the notification on every load.
const expiryGrace = 2 * time.Second

// Controller owns the entire simulated account state and is its only
// mutator. The UI layer reads through the exported accessors and drives the
// session through StartTrading/StopTrading; everything else is timer-driven.
type Controller struct {
	log   *zap.Logger
	cfg   *config.Demo
	store *store.Store
	clock clock.Clock
	rng   *rand.Rand
	sink  notify.Sink
	names *names.Pool

	mu          sync.Mutex
	balance     float64
	trades      []CompletedTrade // most recent first
	isTrading   bool
	demoEndTime time.Time // zero means the session clock has not started
	selectedBot Bot
	onboarded   bool

	price    float64 // current simulated reference price (random walk)
	tradeSeq uint64  // monotonic id counter owned by this instance

	// epoch increments on every start/stop. Timer callbacks capture the
	// epoch at schedule time and discard themselves when it has moved on.
	epoch  uint64
	closed bool

	botTimer  *clock.Timer
	pingTimer *clock.Timer

	limitNotified bool
	caughtUp      bool
}

// New creates a controller and loads the persisted account state. Timer
// driven behavior does not start until Run is called.
func New(log *zap.Logger, cfg *config.Demo, st *store.Store, clk clock.Clock, rng *rand.Rand, sink notify.Sink, pool *names.Pool) *Controller {
	c := &Controller{
		log:   log.Named("engine"),
		cfg:   cfg,
		store: st,
		clock: clk,
		rng:   rng,
		sink:  sink,
		names: pool,
		price: cfg.BasePrice,
	}
	c.loadState()
	return c
}

func (c *Controller) loadState() {
	c.balance = c.cfg.InitialBalance
	c.store.Get(keyBalance, &c.balance)
	c.store.Get(keyIsTrading, &c.isTrading)
	c.store.Get(keyOnboarding, &c.onboarded)

	var botName string
	if c.store.Get(keyBot, &botName) {
		if bot, err := ParseBot(botName); err == nil {
			c.selectedBot = bot
		}
	}

	var endMillis int64
	if c.store.Get(keyEndTime, &endMillis) {
		c.demoEndTime = time.UnixMilli(endMillis)
	}

	for _, row := range c.store.LoadTrades() {
		c.trades = append(c.trades, CompletedTrade{
			ID:            row.TradeID,
			Symbol:        row.Symbol,
			Amount:        row.Amount,
			BuyPrice:      row.BuyPrice,
			SellPrice:     row.SellPrice,
			BuyTimestamp:  time.UnixMilli(row.BuyTimestamp),
			SellTimestamp: time.UnixMilli(row.SellTimestamp),
			Profit:        row.Profit,
			Simulated:     row.IsSimulated,
		})
	}

	c.log.Info("Loaded account state",
		zap.Float64("balance", c.balance),
		zap.Int("trades", len(c.trades)),
		zap.Bool("is_trading", c.isTrading),
		zap.Bool("session_started", !c.demoEndTime.IsZero()))
}

// Run drives the controller until the context is cancelled: it performs the
// one-shot offline catch-up, resumes live scheduling when the persisted
// state says trading was on, and runs the 1 Hz session clock.
func (c *Controller) Run(ctx context.Context) {
	// Catch-up must complete before any live scheduling starts.
	c.runCatchUp()
	c.resume()

	ticker := c.clock.Ticker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

// resume restarts the schedulers after a reload that left trading on. A
// session that expired while the process was down is locked silently; the
// expiry notification fired (or was forfeited) in a previous life.
func (c *Controller) resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isTrading {
		return
	}
	if c.expiredLocked(c.clock.Now()) {
		c.log.Info("Session expired while offline, locking account")
		c.haltTradingLocked()
		return
	}

	c.log.Info("Resuming trading after reload")
	c.armBotLocked()
	c.armPingLocked(true)
}

func (c *Controller) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.epoch++
	c.stopTimersLocked()
	if c.isTrading {
		// The last-seen heartbeat lets the next run synthesize the gap.
		c.store.Set(keyLastSeen, c.clock.Now().UnixMilli())
	}
	c.log.Info("Controller stopped")
}

// StartTrading arms the bot scheduler. The first call of an account's life
// also pins the session's hard expiry ceiling; later calls never move it.
func (c *Controller) StartTrading() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.expiredLocked(now) {
		return ErrLimitReached
	}
	if c.selectedBot == "" {
		return ErrNoBotSelected
	}
	if c.isTrading {
		return nil
	}

	if c.demoEndTime.IsZero() {
		c.demoEndTime = now.Add(c.timeLimit())
		c.store.Set(keyEndTime, c.demoEndTime.UnixMilli())
		c.log.Info("Session clock started", zap.Time("demo_end_time", c.demoEndTime))
	}

	c.isTrading = true
	c.epoch++
	c.store.Set(keyIsTrading, true)

	c.log.Info("Trading started", zap.String("bot", string(c.selectedBot)))

	// One trade fires immediately on activation, then the scheduler
	// re-arms at randomized intervals.
	c.runBotTradeLocked()
	c.armBotLocked()
	c.armPingLocked(true)
	return nil
}

// StopTrading disarms all schedulers. The session clock keeps running;
// stopping never extends or resets the expiry ceiling.
func (c *Controller) StopTrading() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isTrading {
		return
	}
	c.haltTradingLocked()
	c.log.Info("Trading stopped", zap.Float64("balance", c.balance))
}

// haltTradingLocked turns trading off and cancels every armed timer. The
// epoch bump invalidates callbacks that already left the timer wheel.
func (c *Controller) haltTradingLocked() {
	c.isTrading = false
	c.epoch++
	c.stopTimersLocked()
	c.store.Set(keyIsTrading, false)
	c.store.Delete(keyLastSeen)
}

func (c *Controller) stopTimersLocked() {
	if c.botTimer != nil {
		c.botTimer.Stop()
		c.botTimer = nil
	}
	if c.pingTimer != nil {
		c.pingTimer.Stop()
		c.pingTimer = nil
	}
}

// SelectBot persists the user's bot choice.
func (c *Controller) SelectBot(bot Bot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selectedBot = bot
	c.store.Set(keyBot, string(bot))
	c.log.Info("Bot selected", zap.String("bot", string(bot)))
}

// CompleteOnboarding marks the onboarding wizard as done.
func (c *Controller) CompleteOnboarding() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onboarded = true
	c.store.Set(keyOnboarding, true)
}

// Status is the read-only view of the account exposed to the UI layer.
type Status struct {
	Balance            float64 `json:"balance"`
	IsTrading          bool    `json:"is_trading"`
	RemainingSeconds   int64   `json:"remaining_seconds"`
	IsTimeLimitReached bool    `json:"is_time_limit_reached"`
	DailyProfit        float64 `json:"daily_profit"`
	SelectedBot        string  `json:"selected_bot,omitempty"`
	Onboarded          bool    `json:"onboarded"`
	TradeCount         int     `json:"trade_count"`
}

// Status returns a consistent snapshot of the account.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	return Status{
		Balance:            c.balance,
		IsTrading:          c.isTrading,
		RemainingSeconds:   int64(c.remainingLocked(now) / time.Second),
		IsTimeLimitReached: c.expiredLocked(now),
		DailyProfit:        c.dailyProfitLocked(now),
		SelectedBot:        string(c.selectedBot),
		Onboarded:          c.onboarded,
		TradeCount:         len(c.trades),
	}
}

// Trades returns a copy of the trade log, most recent first.
func (c *Controller) Trades() []CompletedTrade {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]CompletedTrade, len(c.trades))
	copy(out, c.trades)
	return out
}

// Balance returns the current account balance.
func (c *Controller) Balance() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance
}

// dailyProfitLocked sums the profit of trades settled in the trailing 24
// hours. Pure derived view, recomputed on every read.
func (c *Controller) dailyProfitLocked(now time.Time) float64 {
	since := now.Add(-24 * time.Hour)
	var total float64
	for _, t := range c.trades {
		if t.SellTimestamp.After(since) {
			total += t.Profit
		}
	}
	return total
}

func (c *Controller) timeLimit() time.Duration {
	return time.Duration(c.cfg.TimeLimitMinutes) * time.Minute
}

// remainingLocked reports the time left on the session clock. Before the
// first start the full budget is still available.
func (c *Controller) remainingLocked(now time.Time) time.Duration {
	if c.demoEndTime.IsZero() {
		return c.timeLimit()
	}
	if remaining := c.demoEndTime.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}

func (c *Controller) expiredLocked(now time.Time) bool {
	return !c.demoEndTime.IsZero() && !now.Before(c.demoEndTime)
}

func (c *Controller) nextTradeID(now time.Time) string {
	c.tradeSeq++
	return fmt.Sprintf("%d-%d", now.UnixMilli(), c.tradeSeq)
}

func (c *Controller) persistBalanceLocked() {
	c.store.Set(keyBalance, c.balance)
}

func tradeRow(t CompletedTrade) models.Trade {
	return models.Trade{
		TradeID:       t.ID,
		Symbol:        t.Symbol,
		Amount:        t.Amount,
		BuyPrice:      t.BuyPrice,
		SellPrice:     t.SellPrice,
		BuyTimestamp:  t.BuyTimestamp.UnixMilli(),
		SellTimestamp: t.SellTimestamp.UnixMilli(),
		Profit:        t.Profit,
		IsSimulated:   t.Simulated,
	}
}
