package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/storage"
	"fintrack/internal/storage/memory"
)

type failingStore struct{ err error }

func (f failingStore) Load(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Save(context.Context, string, []byte) error   { return f.err }
func (f failingStore) Close() error                                 { return nil }

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewRepository(memory.New(), nil)

	txns := []core.Transaction{
		{
			ID:          "t1",
			Date:        core.NewDate(2024, 5, 15),
			Entry:       core.Income(core.Money{Cents: 200000}),
			Description: "Salary",
			Category:    core.CategorySalary,
			Notes:       "May",
		},
		{
			ID:          "t2",
			Date:        core.NewDate(2024, 5, 1),
			Entry:       core.Expense(core.Money{Cents: 1999}),
			Description: "Lunch",
			Category:    core.CategoryFood,
		},
	}
	budgets := []core.Budget{{ID: "b1", Category: core.CategoryFood, Amount: core.Money{Cents: 50000}}}

	require.NoError(t, repo.SaveTransactions(ctx, txns))
	require.NoError(t, repo.SaveBudgets(ctx, budgets))
	require.NoError(t, repo.SaveDarkMode(ctx, true))

	gotTxns, err := repo.LoadTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, txns, gotTxns)

	gotBudgets, err := repo.LoadBudgets(ctx)
	require.NoError(t, err)
	assert.Equal(t, budgets, gotBudgets)

	dark, err := repo.LoadDarkMode(ctx)
	require.NoError(t, err)
	assert.True(t, dark)
}

func TestRepositoryStoredShapeIsSignedDecimal(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := storage.NewRepository(store, nil)

	require.NoError(t, repo.SaveTransactions(ctx, []core.Transaction{{
		ID:          "x",
		Date:        core.NewDate(2024, 5, 1),
		Entry:       core.Expense(core.Money{Cents: 5000}),
		Description: "Lunch",
		Category:    core.CategoryFood,
	}}))

	raw, err := store.Load(ctx, storage.KeyTransactions)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"x","date":"2024-05-01","amount":-50,"description":"Lunch","category":"food","notes":""}]`, string(raw))
}

func TestRepositoryMalformedDocumentsLoadEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Save(ctx, storage.KeyTransactions, []byte(`{not json`)))
	require.NoError(t, store.Save(ctx, storage.KeyBudgets, []byte(`{"id":"b"}`)))
	repo := storage.NewRepository(store, nil)

	txns, err := repo.LoadTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txns)

	budgets, err := repo.LoadBudgets(ctx)
	require.NoError(t, err)
	assert.Empty(t, budgets)

	dark, err := repo.LoadDarkMode(ctx)
	require.NoError(t, err)
	assert.False(t, dark)
}

func TestRepositoryBadDateIsMalformed(t *testing.T) {
	_, err := storage.DecodeTransactions([]byte(`[{"id":"a","date":"yesterday","amount":1}]`))
	assert.ErrorIs(t, err, core.ErrInvalidDate)
}

func TestRepositoryPropagatesStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("quota exceeded")
	repo := storage.NewRepository(failingStore{err: boom}, nil)

	_, err := repo.LoadTransactions(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, repo.SaveBudgets(ctx, nil), boom)
	assert.ErrorIs(t, repo.SaveDarkMode(ctx, false), boom)
}
