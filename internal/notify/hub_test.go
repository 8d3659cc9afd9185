package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_DeliversToSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Emit(Event{Kind: KindTradeClosed, Profit: 1.5})

	event := <-ch
	assert.Equal(t, KindTradeClosed, event.Kind)
	assert.InDelta(t, 1.5, event.Profit, 1e-9)
}

func TestHub_SlowSubscriberDoesNotBlockEmit(t *testing.T) {
	hub := NewHub(zap.NewNop())
	_, cancel := hub.Subscribe()
	defer cancel()

	// Fill well past the subscriber buffer; Emit must never block.
	for i := 0; i < 100; i++ {
		hub.Emit(Event{Kind: KindWithdrawalPing})
	}
}

func TestHub_RecentKeepsLatestEvents(t *testing.T) {
	hub := NewHub(zap.NewNop())

	for i := 0; i < recentCapacity+10; i++ {
		hub.Emit(Event{Kind: KindWithdrawalPing, Minutes: i})
	}

	recent := hub.Recent()
	require.Len(t, recent, recentCapacity)
	assert.Equal(t, 10, recent[0].Minutes)
	assert.Equal(t, recentCapacity+9, recent[len(recent)-1].Minutes)
}

func TestHub_CancelStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ch, cancel := hub.Subscribe()
	cancel()

	hub.Emit(Event{Kind: KindLimitReached})

	_, open := <-ch
	assert.False(t, open)
}

func TestMulti_FansOutInOrder(t *testing.T) {
	var got []Kind
	first := sinkFunc(func(e Event) { got = append(got, e.Kind) })
	second := sinkFunc(func(e Event) { got = append(got, e.Kind) })

	Multi{first, second}.Emit(Event{Kind: KindWelcomeBack})
	assert.Len(t, got, 2)
}

type sinkFunc func(Event)

func (f sinkFunc) Emit(e Event) { f(e) }
