package notify

// Kind identifies the type of an event emitted by the trading core.
type Kind string

const (
	// KindTradeClosed is emitted when a live trade settles.
	KindTradeClosed Kind = "trade-closed"
	// KindLimitReached is emitted once, when the session clock expires.
	KindLimitReached Kind = "limit-reached"
	// KindWelcomeBack summarizes a batch of offline catch-up trades.
	KindWelcomeBack Kind = "welcome-back-summary"
	// KindWithdrawalPing is a cosmetic fabricated third-party withdrawal.
	KindWithdrawalPing Kind = "withdrawal-ping"
	// KindError reports a non-fatal internal failure.
	KindError Kind = "error"
)

// Event is a single notification toward the UI layer. The payload carries
// localized-ready template parameters, never pre-rendered strings;
// presentation stays a collaborator concern.
type Event struct {
	Kind    Kind    `json:"kind"`
	Symbol  string  `json:"symbol,omitempty"`
	Amount  float64 `json:"amount,omitempty"`
	Profit  float64 `json:"profit,omitempty"`
	Name    string  `json:"name,omitempty"`
	Minutes int     `json:"minutes,omitempty"`
	TradeID string  `json:"trade_id,omitempty"`
	Message string  `json:"message,omitempty"`
}

// Sink consumes events emitted by the core. Implementations must not block:
// Emit is called from timer callbacks inside the engine.
type Sink interface {
	Emit(event Event)
}

// Discard is a Sink that drops every event.
type Discard struct{}

func (Discard) Emit(Event) {}

// Multi fans an event out to several sinks in order.
type Multi []Sink

func (m Multi) Emit(event Event) {
	for _, sink := range m {
		sink.Emit(event)
	}
}
