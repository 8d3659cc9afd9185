package models

import "gorm.io/gorm"

// KVEntry is a single persisted key-value pair. Values are JSON-encoded by
// the store layer; keys carry a version suffix (e.g. "trading-balance-v3")
// so that entries written by an incompatible older shape are simply never
// read again instead of breaking deserialization.
type KVEntry struct {
	gorm.Model
	Key   string `gorm:"uniqueIndex;not null"`
	Value string `gorm:"not null"`
}
