package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fintrack/internal/storage"
)

func TestMemoryStoreLoadSave(t *testing.T) {
	ctx := context.Background()
	s := New()

	got, err := s.Load(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("unexpected load of missing key: %q err=%v", got, err)
	}

	payload := []byte(`[{"id":"a"}]`)
	if err := s.Save(ctx, storage.KeyBudgets, payload); err != nil {
		t.Fatalf("save: %v", err)
	}
	payload[0] = 'X' // caller mutation must not leak into the store

	got, err = s.Load(ctx, storage.KeyBudgets)
	if err != nil || string(got) != `[{"id":"a"}]` {
		t.Fatalf("unexpected load: %q err=%v", got, err)
	}

	_ = s.Close()
	if err := s.Save(ctx, storage.KeyBudgets, nil); !errors.Is(err, storage.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	// No files -> empty store
	s := NewFromFiles(dir)
	if got, _ := s.Load(context.Background(), storage.KeyTransactions); got != nil {
		t.Fatalf("expected empty store, got %q", got)
	}

	seed := `[{"id":"t1","date":"2024-05-01","amount":-50,"description":"Lunch","category":"food","notes":""}]`
	if err := os.WriteFile(filepath.Join(dir, "transactions.json"), []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	repo := storage.NewRepository(NewFromFiles(dir), nil)
	txns, err := repo.LoadTransactions(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(txns) != 1 || txns[0].ID != "t1" || txns[0].SignedCents() != -5000 {
		t.Fatalf("unexpected seeded transactions: %+v", txns)
	}
}
