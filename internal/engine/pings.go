package engine

import (
	"math"
	"time"

	"go.uber.org/zap"

	"demo-trade-bot-go/internal/notify"
)

// armPingLocked schedules the next fabricated withdrawal ping. The first
// firing after activation comes sooner than the steady-state ones, so the
// social-proof feed looks alive right away. Pure UI noise: disabling pings
// entirely changes no financial invariant.
func (c *Controller) armPingLocked(first bool) {
	if !c.cfg.PingsEnabled {
		return
	}

	var minD, maxD time.Duration
	if first {
		minD = time.Duration(c.cfg.PingFirstMinS) * time.Second
		maxD = time.Duration(c.cfg.PingFirstMaxS) * time.Second
	} else {
		minD = time.Duration(c.cfg.PingRepeatMinS) * time.Second
		maxD = time.Duration(c.cfg.PingRepeatMaxS) * time.Second
	}
	delay := minD
	if maxD > minD {
		delay += time.Duration(c.rng.Int63n(int64(maxD - minD)))
	}

	epoch := c.epoch
	c.pingTimer = c.clock.AfterFunc(delay, func() {
		c.pingFire(epoch)
	})
}

func (c *Controller) pingFire(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.isTrading || epoch != c.epoch {
		return
	}

	amount := c.cfg.WithdrawalMin + c.rng.Float64()*(c.cfg.WithdrawalMax-c.cfg.WithdrawalMin)
	amount = math.Round(amount*100) / 100
	name := c.names.Next()

	c.log.Debug("Withdrawal ping", zap.String("name", name), zap.Float64("amount", amount))

	c.sink.Emit(notify.Event{
		Kind:   notify.KindWithdrawalPing,
		Name:   name,
		Amount: amount,
	})

	c.armPingLocked(false)
}
