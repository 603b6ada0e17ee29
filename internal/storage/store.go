// Package storage persists the ledger collections as JSON documents in a
// key-value Store. Each collection is saved whole under its own key.
package storage

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// Keys of the persisted documents.
const (
	KeyTransactions = "transactions"
	KeyBudgets      = "budgets"
	KeyDarkMode     = "darkMode"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store closed")

// Store is the durable key-value port. Load returns (nil, nil) for a key
// that was never saved.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
	Close() error
}

// Repository reads and writes the ledger collections through a Store.
type Repository struct {
	store  Store
	logger *log.Logger
}

func NewRepository(store Store, logger *log.Logger) *Repository {
	if logger == nil {
		logger = log.Discard()
	}
	return &Repository{store: store, logger: logger.WithComponent(log.ComponentStorage)}
}

// LoadTransactions returns the stored transactions. A document that cannot
// be decoded is logged and read as an empty collection.
func (r *Repository) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	payload, err := r.store.Load(ctx, KeyTransactions)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	txns, err := DecodeTransactions(payload)
	if err != nil {
		r.logger.WarnContext(ctx, "Discarding malformed stored document", "key", KeyTransactions, log.FieldError, err)
		return nil, nil
	}
	return txns, nil
}

// SaveTransactions replaces the stored transactions.
func (r *Repository) SaveTransactions(ctx context.Context, txns []core.Transaction) error {
	payload, err := EncodeTransactions(txns)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := r.store.Save(ctx, KeyTransactions, payload); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	r.logger.DebugContext(ctx, "Transactions saved", log.FieldCount, len(txns), log.FieldBytes, len(payload))
	return nil
}

// LoadBudgets returns the stored budgets, empty when malformed.
func (r *Repository) LoadBudgets(ctx context.Context) ([]core.Budget, error) {
	payload, err := r.store.Load(ctx, KeyBudgets)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}
	budgets, err := DecodeBudgets(payload)
	if err != nil {
		r.logger.WarnContext(ctx, "Discarding malformed stored document", "key", KeyBudgets, log.FieldError, err)
		return nil, nil
	}
	return budgets, nil
}

// SaveBudgets replaces the stored budgets.
func (r *Repository) SaveBudgets(ctx context.Context, budgets []core.Budget) error {
	payload, err := EncodeBudgets(budgets)
	if err != nil {
		return fmt.Errorf("encode budgets: %w", err)
	}
	if err := r.store.Save(ctx, KeyBudgets, payload); err != nil {
		return fmt.Errorf("save budgets: %w", err)
	}
	r.logger.DebugContext(ctx, "Budgets saved", log.FieldCount, len(budgets), log.FieldBytes, len(payload))
	return nil
}

// LoadDarkMode returns the theme preference; anything but "true" is false.
func (r *Repository) LoadDarkMode(ctx context.Context) (bool, error) {
	payload, err := r.store.Load(ctx, KeyDarkMode)
	if err != nil {
		return false, fmt.Errorf("load theme preference: %w", err)
	}
	return string(payload) == "true", nil
}

func (r *Repository) SaveDarkMode(ctx context.Context, on bool) error {
	payload := []byte("false")
	if on {
		payload = []byte("true")
	}
	if err := r.store.Save(ctx, KeyDarkMode, payload); err != nil {
		return fmt.Errorf("save theme preference: %w", err)
	}
	return nil
}

// Close releases the underlying store.
func (r *Repository) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}
