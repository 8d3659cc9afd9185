package engine

import (
	"go.uber.org/zap"

	"demo-trade-bot-go/internal/notify"
)

// tick is the 1 Hz session clock. It heartbeats the last-seen marker while
// trading is on and detects the expiry crossing.
func (c *Controller) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()

	if c.isTrading {
		c.store.Set(keyLastSeen, now.UnixMilli())
	}

	if !c.expiredLocked(now) {
		return
	}

	// The limit notification fires only when the tick observes the
	// crossing itself (within the grace window). Waking up long after
	// expiry locks the account without re-firing on every load.
	crossed := now.Sub(c.demoEndTime) <= expiryGrace

	if c.isTrading {
		c.log.Info("Session time limit reached, stopping trading",
			zap.Float64("balance", c.balance))
		c.haltTradingLocked()
	}

	if crossed && !c.limitNotified {
		c.limitNotified = true
		c.sink.Emit(notify.Event{
			Kind:   notify.KindLimitReached,
			Amount: c.balance,
		})
	}
}
