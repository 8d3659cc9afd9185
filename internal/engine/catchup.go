package engine

import (
	"time"

	"go.uber.org/zap"

	"demo-trade-bot-go/internal/models"
	"demo-trade-bot-go/internal/notify"
)

// runCatchUp synthesizes the trades that "would have happened" while the
// process was down with trading left on. It runs exactly once per mount,
// before any live scheduling, and consumes the last-seen marker so a second
// run is a no-op.
func (c *Controller) runCatchUp() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.caughtUp {
		return
	}
	c.caughtUp = true

	var lastSeenMillis int64
	if !c.store.Get(keyLastSeen, &lastSeenMillis) {
		return
	}
	c.store.Delete(keyLastSeen)

	// The marker is only written while trading; a false isTrading here
	// means a stop raced the last heartbeat, so nothing happened offline.
	if !c.isTrading || c.demoEndTime.IsZero() {
		return
	}

	now := c.clock.Now()
	lastSeen := time.UnixMilli(lastSeenMillis)
	if lastSeen.After(now) {
		return
	}

	// Never simulate past the session ceiling, and bound the batch size.
	end := now
	if c.demoEndTime.Before(end) {
		end = c.demoEndTime
	}
	elapsed := end.Sub(lastSeen)
	if maxSpan := time.Duration(c.cfg.CatchupCapMinutes) * time.Minute; elapsed > maxSpan {
		elapsed = maxSpan
	}
	if elapsed < time.Duration(c.cfg.CatchupMinS)*time.Second {
		return
	}

	interval := time.Duration(c.cfg.AvgTradeIntervalS) * time.Second
	count := int(elapsed / interval)
	if count == 0 {
		return
	}

	// No synthesized trade settles past the simulated window.
	horizon := lastSeen.Add(elapsed)

	runningBalance := c.balance
	var batch []CompletedTrade
	var totalProfit float64
	ts := lastSeen

	for i := 0; i < count; i++ {
		ts = ts.Add(interval)
		riskedValue := c.cfg.RiskMin + c.rng.Float64()*(c.cfg.RiskMax-c.cfg.RiskMin)
		if riskedValue > runningBalance {
			// Over-risked trades are skipped, not clamped.
			continue
		}

		buyPrice, amount, sellPrice, profit := c.drawOutcome(riskedValue)
		sellTS := ts.Add(c.settleDelay())
		if sellTS.After(horizon) {
			sellTS = horizon
		}
		trade := CompletedTrade{
			ID:            c.nextTradeID(ts),
			Symbol:        c.cfg.Symbol,
			Amount:        amount,
			BuyPrice:      buyPrice,
			SellPrice:     sellPrice,
			BuyTimestamp:  ts,
			SellTimestamp: sellTS,
			Profit:        profit,
			Simulated:     true,
		}

		runningBalance += profit
		totalProfit += profit
		batch = append(batch, trade)
	}

	if len(batch) == 0 {
		return
	}

	c.balance = runningBalance
	rows := make([]models.Trade, len(batch))
	for i, trade := range batch {
		rows[i] = tradeRow(trade)
	}
	c.store.AppendTrades(rows)
	c.persistBalanceLocked()

	// Prepend in chronological order: most recent offline trade first.
	prepended := make([]CompletedTrade, 0, len(batch)+len(c.trades))
	for i := len(batch) - 1; i >= 0; i-- {
		prepended = append(prepended, batch[i])
	}
	c.trades = append(prepended, c.trades...)

	minutes := int(elapsed / time.Minute)
	c.log.Info("Applied offline catch-up",
		zap.Int("trades", len(batch)),
		zap.Int("minutes", minutes),
		zap.Float64("profit", totalProfit),
		zap.Float64("balance", c.balance))

	c.sink.Emit(notify.Event{
		Kind:    notify.KindWelcomeBack,
		Minutes: minutes,
		Profit:  totalProfit,
	})
}
