package models

import "gorm.io/gorm"

// Trade represents a settled simulated trade record in the database.
// Rows are append-only: once settled, a trade is never mutated or removed.
type Trade struct {
	gorm.Model
	TradeID       string  `json:"trade_id" gorm:"uniqueIndex"`
	Symbol        string  `json:"symbol"`
	Amount        float64 `json:"amount"`
	BuyPrice      float64 `json:"buy_price"`
	SellPrice     float64 `json:"sell_price"`
	BuyTimestamp  int64   `json:"buy_timestamp"`
	SellTimestamp int64   `json:"sell_timestamp"`
	Profit        float64 `json:"profit"`
	IsSimulated   bool    `json:"is_simulated"` // true for offline catch-up trades
}
