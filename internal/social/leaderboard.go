package social

import (
	"math"
	"sort"
	"sync"

	"demo-trade-bot-go/internal/names"
	"demo-trade-bot-go/internal/store"
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

const cacheKey = "leaderboard-cache-v1"

// Entry is one fabricated leaderboard row.
type Entry struct {
	Rank   int     `json:"rank"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type cachedBoard struct {
	Timestamp int64   `json:"timestamp"`
	Data      []Entry `json:"data"`
}

// Leaderboard fabricates a daily top-10 of third-party earners. The board is
// regenerated at most once every 24 hours and cached in the durable store so
// reloads within a day show the same standings.
type Leaderboard struct {
	mu    sync.Mutex // serializes concurrent readers over one rng and cache
	store *store.Store
	pool  *names.Pool
	rng   rngSource
	clock clock.Clock
	log   *zap.Logger
}

// rngSource is the subset of math/rand.Rand the generator draws from.
type rngSource interface {
	Float64() float64
}

// New creates a leaderboard over the given store and name pool.
func New(st *store.Store, pool *names.Pool, rng rngSource, clk clock.Clock, log *zap.Logger) *Leaderboard {
	return &Leaderboard{store: st, pool: pool, rng: rng, clock: clk, log: log.Named("leaderboard")}
}

// Entries returns the current standings, regenerating them when the cached
// board is older than a day.
func (l *Leaderboard) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()

	var cached cachedBoard
	if l.store.Get(cacheKey, &cached) && now.UnixMilli()-cached.Timestamp < 24*60*60*1000 {
		return cached.Data
	}

	entries := l.generate()
	l.store.Set(cacheKey, cachedBoard{Timestamp: now.UnixMilli(), Data: entries})
	l.log.Info("Generated fresh leaderboard")
	return entries
}

func (l *Leaderboard) generate() []Entry {
	topNames := l.pool.Pick(10)

	maxAmount := 1000 + l.rng.Float64()*(3972-1000)
	minAmount := 512 + l.rng.Float64()*(814-512)

	amounts := []float64{maxAmount, minAmount}
	for i := 0; i < 8; i++ {
		amounts = append(amounts, minAmount+l.rng.Float64()*(maxAmount-minAmount))
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(amounts)))

	entries := make([]Entry, len(topNames))
	for i, name := range topNames {
		entries[i] = Entry{
			Rank:   i + 1,
			Name:   name,
			Amount: math.Round(amounts[i]*100) / 100,
		}
	}
	return entries
}
