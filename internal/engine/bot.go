package engine

import (
	"time"

	"go.uber.org/zap"

	"demo-trade-bot-go/internal/notify"
)

// runBotTradeLocked opens one bot-sized trade. All bots converge to the one
// unified risk band; the selected bot only changes what the UI reports.
func (c *Controller) runBotTradeLocked() {
	riskedValue := c.cfg.RiskMin + c.rng.Float64()*(c.cfg.RiskMax-c.cfg.RiskMin)
	c.initiateTradeLocked(riskedValue)
}

// armBotLocked schedules the next bot firing 20-60 seconds out.
func (c *Controller) armBotLocked() {
	delay := c.botDelay()
	epoch := c.epoch
	c.botTimer = c.clock.AfterFunc(delay, func() {
		c.botFire(epoch)
	})
	c.log.Debug("Bot re-armed", zap.Duration("delay", delay))
}

// botFire is one scheduler period: re-check expiry, trade, re-arm. A firing
// whose epoch is stale (stopped or restarted since scheduling) is a no-op.
func (c *Controller) botFire(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.isTrading || epoch != c.epoch {
		return
	}

	now := c.clock.Now()
	if c.expiredLocked(now) {
		c.log.Info("Session time limit reached, stopping trading",
			zap.Float64("balance", c.balance))
		c.haltTradingLocked()
		if !c.limitNotified {
			c.limitNotified = true
			c.sink.Emit(notify.Event{
				Kind:   notify.KindLimitReached,
				Amount: c.balance,
			})
		}
		return
	}

	c.runBotTradeLocked()
	c.armBotLocked()
}

func (c *Controller) botDelay() time.Duration {
	minD := time.Duration(c.cfg.BotDelayMinS) * time.Second
	maxD := time.Duration(c.cfg.BotDelayMaxS) * time.Second
	if maxD <= minD {
		return minD
	}
	return minD + time.Duration(c.rng.Int63n(int64(maxD-minD)))
}
