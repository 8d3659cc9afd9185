package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"demo-trade-bot-go/internal/engine"
	"demo-trade-bot-go/internal/i18n"
	"demo-trade-bot-go/internal/insight"
	"demo-trade-bot-go/internal/notify"
	"demo-trade-bot-go/internal/social"
	"go.uber.org/zap"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log        *zap.Logger
	controller *engine.Controller
	hub        *notify.Hub
	board      *social.Leaderboard
	assistant  *insight.Assistant
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, controller *engine.Controller, hub *notify.Hub, board *social.Leaderboard, assistant *insight.Assistant) *APIHandler {
	return &APIHandler{
		log:        log,
		controller: controller,
		hub:        hub,
		board:      board,
		assistant:  assistant,
	}
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to write response", zap.Error(err))
	}
}

// StatusHandler returns the account snapshot the dashboard polls.
func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.controller.Status())
}

// TradesHandler returns the trade log, most recent first.
func (h *APIHandler) TradesHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.controller.Trades())
}

// EventsHandler returns the most recent notifications.
func (h *APIHandler) EventsHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.hub.Recent())
}

// LeaderboardHandler returns the fabricated daily standings.
func (h *APIHandler) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.board.Entries())
}

// StartHandler arms the trading bot. A session past its time ceiling renders
// as 409 so the UI can show the locked state.
func (h *APIHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	err := h.controller.StartTrading()
	switch {
	case errors.Is(err, engine.ErrLimitReached):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, engine.ErrNoBotSelected):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.log.Error("Failed to start trading", zap.Error(err))
		http.Error(w, "failed to start trading", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, h.controller.Status())
}

// StopHandler disarms the trading bot.
func (h *APIHandler) StopHandler(w http.ResponseWriter, r *http.Request) {
	h.controller.StopTrading()
	h.writeJSON(w, h.controller.Status())
}

// BotHandler selects one of the trading bots.
func (h *APIHandler) BotHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Bot string `json:"bot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	bot, err := engine.ParseBot(req.Bot)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.controller.SelectBot(bot)
	h.writeJSON(w, h.controller.Status())
}

// OnboardingHandler marks the onboarding wizard as completed.
func (h *APIHandler) OnboardingHandler(w http.ResponseWriter, r *http.Request) {
	h.controller.CompleteOnboarding()
	h.writeJSON(w, h.controller.Status())
}

// ChatHandler forwards a question to the insight assistant.
func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
		Message  string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	lang := i18n.Language(req.Language)
	if req.Language == "" {
		lang = i18n.English
	}

	answer := h.assistant.Answer(r.Context(), lang, req.Message)
	h.writeJSON(w, map[string]string{"answer": answer})
}

// StatsDetail holds calculated statistics for a given period.
type StatsDetail struct {
	TotalTrades      int64   `json:"total_trades"`
	ProfitableTrades int64   `json:"profitable_trades"`
	WinRate          float64 `json:"win_rate"`
	TotalProfit      float64 `json:"total_profit"`
}

// StatisticsResponse is the structure for the /api/statistics endpoint.
type StatisticsResponse struct {
	Since24h StatsDetail `json:"since_24h"`
	AllTime  StatsDetail `json:"all_time"`
}

// StatisticsHandler calculates and returns trading statistics.
func (h *APIHandler) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	trades := h.controller.Trades()

	now := time.Now()
	since24h := now.Add(-24 * time.Hour)

	stats24h := StatsDetail{}
	statsAllTime := StatsDetail{}

	for _, trade := range trades {
		statsAllTime.TotalTrades++
		if trade.Profit > 0 {
			statsAllTime.ProfitableTrades++
		}
		statsAllTime.TotalProfit += trade.Profit

		if trade.SellTimestamp.After(since24h) {
			stats24h.TotalTrades++
			if trade.Profit > 0 {
				stats24h.ProfitableTrades++
			}
			stats24h.TotalProfit += trade.Profit
		}
	}

	if statsAllTime.TotalTrades > 0 {
		statsAllTime.WinRate = float64(statsAllTime.ProfitableTrades) / float64(statsAllTime.TotalTrades)
	}
	if stats24h.TotalTrades > 0 {
		stats24h.WinRate = float64(stats24h.ProfitableTrades) / float64(stats24h.TotalTrades)
	}

	h.writeJSON(w, StatisticsResponse{Since24h: stats24h, AllTime: statsAllTime})
}
