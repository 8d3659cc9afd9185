package engine

import (
	"time"

	"go.uber.org/zap"

	"demo-trade-bot-go/internal/models"
	"demo-trade-bot-go/internal/notify"
)

// drawOutcome produces the synthetic pricing for one trade: a buy price
// perturbed around the reference price walk, an 80/20 win draw, and a profit
// magnitude from a fixed band with losses capped at half the win size. The
// sell price is derived from the profit so the stored prices and the stored
// profit are always mutually consistent.
func (c *Controller) drawOutcome(riskedValue float64) (buyPrice, amount, sellPrice, profit float64) {
	buyPrice = c.price * (1 + (c.rng.Float64()*2-1)*c.cfg.PriceJitter)
	c.price = buyPrice
	amount = riskedValue / buyPrice

	magnitude := c.cfg.ProfitMin + c.rng.Float64()*(c.cfg.ProfitMax-c.cfg.ProfitMin)
	if c.rng.Float64() < c.cfg.WinProbability {
		profit = magnitude
	} else {
		profit = -magnitude / 2
	}

	sellPrice = buyPrice + profit/amount
	return
}

// initiateTradeLocked opens a trade for the given risked value and schedules
// its settlement 3-7 seconds out. Fire-and-forget: an over-risked value is
// skipped with a log note, never surfaced, since it originates from the bot
// and not from a user action.
func (c *Controller) initiateTradeLocked(riskedValue float64) {
	if riskedValue > c.balance {
		c.log.Warn("Skipping trade, risked value exceeds balance",
			zap.Float64("risked", riskedValue),
			zap.Float64("balance", c.balance))
		return
	}

	now := c.clock.Now()
	buyPrice, amount, sellPrice, profit := c.drawOutcome(riskedValue)
	delay := c.settleDelay()

	trade := CompletedTrade{
		ID:            c.nextTradeID(now),
		Symbol:        c.cfg.Symbol,
		Amount:        amount,
		BuyPrice:      buyPrice,
		SellPrice:     sellPrice,
		BuyTimestamp:  now,
		SellTimestamp: now.Add(delay),
		Profit:        profit,
	}

	epoch := c.epoch
	c.clock.AfterFunc(delay, func() {
		c.settle(trade, epoch)
	})

	c.log.Debug("Trade initiated",
		zap.String("trade_id", trade.ID),
		zap.Float64("risked", riskedValue),
		zap.Float64("buy_price", buyPrice),
		zap.Duration("settle_in", delay))
}

// settle finalizes a pending trade. A trade whose session was stopped (or
// restarted) between scheduling and firing is discarded: the epoch captured
// at schedule time no longer matches. This is the fixed contract for the
// stop-mid-settlement case.
func (c *Controller) settle(trade CompletedTrade, epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.isTrading || epoch != c.epoch {
		c.log.Debug("Discarding settlement for stopped session",
			zap.String("trade_id", trade.ID))
		return
	}

	c.balance += trade.Profit
	c.trades = append([]CompletedTrade{trade}, c.trades...)
	c.persistBalanceLocked()
	c.store.AppendTrades([]models.Trade{tradeRow(trade)})

	c.log.Info("Trade closed",
		zap.String("trade_id", trade.ID),
		zap.Float64("profit", trade.Profit),
		zap.Float64("balance", c.balance))

	c.sink.Emit(notify.Event{
		Kind:    notify.KindTradeClosed,
		Symbol:  trade.Symbol,
		Amount:  trade.Amount,
		Profit:  trade.Profit,
		TradeID: trade.ID,
	})
}

func (c *Controller) settleDelay() time.Duration {
	minD := time.Duration(c.cfg.SettleDelayMinS) * time.Second
	maxD := time.Duration(c.cfg.SettleDelayMaxS) * time.Second
	if maxD <= minD {
		return minD
	}
	return minD + time.Duration(c.rng.Int63n(int64(maxD-minD)))
}
