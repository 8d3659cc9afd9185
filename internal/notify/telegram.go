package notify

import (
	"fmt"

	"demo-trade-bot-go/internal/config"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Relay pushes operator-facing messages to a set of Telegram chats. It is a
// fire-and-forget sink: delivery failures are logged and swallowed, and the
// engine never waits on it.
type Relay struct {
	bot     *tele.Bot
	chatIDs []int64
	log     *zap.Logger
}

// NewRelay creates a Telegram relay from the given configuration.
func NewRelay(cfg *config.Telegram, log *zap.Logger) (*Relay, error) {
	bot, err := tele.NewBot(tele.Settings{Token: cfg.Token})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Relay{
		bot:     bot,
		chatIDs: cfg.ChatIDs,
		log:     log.Named("telegram-relay"),
	}, nil
}

// SessionStarted announces a fresh dashboard session to the operators.
func (r *Relay) SessionStarted(sessionID, platform, language string) {
	msg := fmt.Sprintf(
		"DEMO\n🚀 <b>New Session Started</b> 🚀\n\n<b>Session:</b> %s\n<b>Platform:</b> %s\n<b>Language:</b> %s",
		sessionID, platform, language,
	)
	r.send(msg)
}

// Emit implements Sink. Only the limit-reached event is relayed; everything
// else is local UI noise the operators do not care about.
func (r *Relay) Emit(event Event) {
	if event.Kind != KindLimitReached {
		return
	}
	r.send(fmt.Sprintf("DEMO\n⏱ <b>Session time limit reached</b>\nFinal balance: %.2f", event.Amount))
}

func (r *Relay) send(msg string) {
	go func() {
		for _, chatID := range r.chatIDs {
			if _, err := r.bot.Send(tele.ChatID(chatID), msg, tele.ModeHTML); err != nil {
				r.log.Error("Failed to send telegram notification",
					zap.Int64("chat_id", chatID), zap.Error(err))
			}
		}
	}()
}
