package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"demo-trade-bot-go/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Store is the durable key-value and trade-log persistence layer. It is the
// single place the core reads and writes through; every failure is logged
// and degrades to "value not found" so that a broken database never crashes
// the controller.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open creates a new sqlite-backed store and performs auto-migration.
func Open(dsn string, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return New(db, log)
}

// New wraps an existing gorm connection and performs auto-migration.
func New(db *gorm.DB, log *zap.Logger) (*Store, error) {
	// Migration is additive: the store must survive restarts, so existing
	// rows are never dropped.
	if err := db.AutoMigrate(&models.KVEntry{}, &models.Trade{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// Set persists a JSON-encoded value under the given versioned key,
// overwriting any previous value. Failures are logged and swallowed.
func (s *Store) Set(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Error("Failed to encode value for store", zap.String("key", key), zap.Error(err))
		return
	}

	entry := models.KVEntry{Key: key}
	err = s.db.Where(models.KVEntry{Key: key}).
		Assign(models.KVEntry{Value: string(raw)}).
		FirstOrCreate(&entry).Error
	if err != nil {
		s.log.Error("Failed to write value to store", zap.String("key", key), zap.Error(err))
	}
}

// Get reads the value stored under key into out, which must be a pointer.
// It returns false when the key is absent or the stored value cannot be
// decoded into out's shape.
func (s *Store) Get(key string, out any) bool {
	var entry models.KVEntry
	err := s.db.Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if err != nil {
		s.log.Error("Failed to read value from store", zap.String("key", key), zap.Error(err))
		return false
	}

	if err := json.Unmarshal([]byte(entry.Value), out); err != nil {
		// An old incompatible entry; ignore it rather than crash.
		s.log.Warn("Ignoring undecodable store entry",
			zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Delete removes the value stored under key, if any.
func (s *Store) Delete(key string) {
	if err := s.db.Unscoped().Where("key = ?", key).Delete(&models.KVEntry{}).Error; err != nil {
		s.log.Error("Failed to delete value from store", zap.String("key", key), zap.Error(err))
	}
}

// AppendTrades persists a batch of settled trades. The trade log is
// append-only; rows are never updated afterwards.
func (s *Store) AppendTrades(trades []models.Trade) {
	if len(trades) == 0 {
		return
	}
	if err := s.db.Create(&trades).Error; err != nil {
		s.log.Error("Failed to save trade records", zap.Int("count", len(trades)), zap.Error(err))
	}
}

// LoadTrades returns all persisted trades, most recent first.
func (s *Store) LoadTrades() []models.Trade {
	var trades []models.Trade
	if err := s.db.Order("sell_timestamp desc").Find(&trades).Error; err != nil {
		s.log.Error("Failed to load trades from database", zap.Error(err))
		return nil
	}
	return trades
}
