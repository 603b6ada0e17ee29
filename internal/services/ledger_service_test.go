package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/storage"
	"fintrack/internal/storage/memory"
)

var refNow = time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)

type published struct {
	entity, action, id string
	revision           int64
}

type recordingPublisher struct {
	calls []published
	err   error
}

func (p *recordingPublisher) PublishLedgerChange(_ context.Context, entity, action, id string, revision int64) error {
	p.calls = append(p.calls, published{entity, action, id, revision})
	return p.err
}

// flakyRepo fails saves while broken is set.
type flakyRepo struct {
	*storage.Repository
	broken bool
}

var errQuota = errors.New("quota exceeded")

func (r *flakyRepo) SaveTransactions(ctx context.Context, txns []core.Transaction) error {
	if r.broken {
		return errQuota
	}
	return r.Repository.SaveTransactions(ctx, txns)
}

func (r *flakyRepo) SaveBudgets(ctx context.Context, budgets []core.Budget) error {
	if r.broken {
		return errQuota
	}
	return r.Repository.SaveBudgets(ctx, budgets)
}

func sequentialIDs() ledger.IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type fixture struct {
	svc   *LedgerService
	repo  *flakyRepo
	pub   *recordingPublisher
	clock *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := refNow
	f := &fixture{
		repo:  &flakyRepo{Repository: storage.NewRepository(memory.New(), nil)},
		pub:   &recordingPublisher{},
		clock: &now,
	}
	f.svc = NewLedgerService(f.repo, Options{
		Now:       func() time.Time { return *f.clock },
		NewID:     sequentialIDs(),
		Publisher: f.pub,
	})
	require.NoError(t, f.svc.Load(context.Background()))
	return f
}

func expenseTxn(date core.Date, cents int64, cat core.Category, desc string) core.Transaction {
	return core.Transaction{Date: date, Entry: core.Expense(core.Money{Cents: cents}), Category: cat, Description: desc}
}

func incomeTxn(date core.Date, cents int64, cat core.Category, desc string) core.Transaction {
	return core.Transaction{Date: date, Entry: core.Income(core.Money{Cents: cents}), Category: cat, Description: desc}
}

func TestLedgerServiceSummaryScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SaveTransaction(ctx, expenseTxn(core.NewDate(2024, 5, 1), 5000, core.CategoryFood, "Lunch"))
	require.NoError(t, err)
	_, err = f.svc.SaveTransaction(ctx, incomeTxn(core.NewDate(2024, 5, 15), 200000, core.CategorySalary, "Salary"))
	require.NoError(t, err)

	sum := f.svc.Summary()
	assert.Equal(t, int64(200000), sum.Income.Cents)
	assert.Equal(t, int64(5000), sum.Expenses.Cents)
	assert.Equal(t, int64(195000), sum.Balance.Cents)
	assert.Zero(t, sum.IncomeChangePct)

	recent := f.svc.Recent(5)
	require.Len(t, recent, 2)
	assert.Equal(t, "Salary", recent[0].Description)
}

func TestLedgerServiceSaveTransactionPersistsAndNotifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	saved, err := f.svc.SaveTransaction(ctx, expenseTxn(core.NewDate(2024, 5, 2), 1999, core.CategoryFood, "  Coffee  "))
	require.NoError(t, err)
	assert.Equal(t, "id-1", saved.ID)
	assert.Equal(t, "Coffee", saved.Description)

	stored, err := f.repo.LoadTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, saved, stored[0])

	require.Len(t, f.pub.calls, 1)
	assert.Equal(t, published{"transaction", "saved", "id-1", f.svc.Revision()}, f.pub.calls[0])
}

func TestLedgerServiceUpdateKeepsLength(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.SaveTransaction(ctx, expenseTxn(core.NewDate(2024, 5, 2), 1000, core.CategoryFood, "Snacks"))
	require.NoError(t, err)
	_, err = f.svc.SaveTransaction(ctx, expenseTxn(core.NewDate(2024, 5, 3), 2000, core.CategoryShopping, "Shirt"))
	require.NoError(t, err)

	a.Description = "Groceries"
	a.Entry = core.Expense(core.Money{Cents: 4500})
	_, err = f.svc.SaveTransaction(ctx, a)
	require.NoError(t, err)

	got, err := f.svc.Transaction(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Description)
	assert.Equal(t, int64(-4500), got.SignedCents())
	assert.Len(t, f.svc.Transactions(), 2)
	assert.True(t, ledger.IsSorted(f.svc.Transactions()))
}

func TestLedgerServiceUpdateUnknownID(t *testing.T) {
	f := newFixture(t)
	tx := expenseTxn(core.NewDate(2024, 5, 2), 1000, core.CategoryFood, "Snacks")
	tx.ID = "ghost"

	_, err := f.svc.SaveTransaction(context.Background(), tx)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Empty(t, f.svc.Transactions())
	assert.Empty(t, f.pub.calls)
}

func TestLedgerServiceRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := f.svc.Revision()

	_, err := f.svc.SaveTransaction(ctx, expenseTxn(core.NewDate(2024, 5, 21), 1000, core.CategoryFood, "Tomorrow"))
	assert.ErrorIs(t, err, core.ErrFutureDate)

	_, err = f.svc.SaveTransaction(ctx, expenseTxn(core.NewDate(2024, 5, 1), 1000, core.CategoryFood, "   "))
	assert.ErrorIs(t, err, core.ErrEmptyDescription)

	_, err = f.svc.SaveBudget(ctx, core.Budget{Category: core.CategoryFood})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	assert.Equal(t, before, f.svc.Revision())
}

func TestLedgerServicePersistenceFailureKeepsMemoryState(t *testing.T) {
	f := newFixture(t)
	f.repo.broken = true

	saved, err := f.svc.SaveTransaction(context.Background(), expenseTxn(core.NewDate(2024, 5, 2), 1000, core.CategoryFood, "Snacks"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, errQuota)

	got, err := f.svc.Transaction(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Snacks", got.Description)
	assert.Empty(t, f.pub.calls, "nothing is announced when the save failed")
}

func TestLedgerServicePublishFailureIsNotAnError(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker down")

	_, err := f.svc.SaveBudget(context.Background(), core.Budget{Category: core.CategoryFood, Amount: core.Money{Cents: 50000}})
	assert.NoError(t, err)
	assert.Len(t, f.pub.calls, 1)
}

func TestLedgerServiceBudgetScenarios(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SaveBudget(ctx, core.Budget{Category: core.CategoryFood, Amount: core.Money{Cents: 50000}})
	require.NoError(t, err)
	_, err = f.svc.SaveTransaction(ctx, expenseTxn(core.NewDate(2024, 5, 4), 45000, core.CategoryFood, "Groceries"))
	require.NoError(t, err)

	statuses := f.svc.Budgets()
	require.Len(t, statuses, 1)
	assert.InDelta(t, 90.0, statuses[0].Percent, 1e-9)
	assert.Equal(t, core.BudgetDanger, statuses[0].Tier)

	// A second food budget overwrites the first.
	second, err := f.svc.SaveBudget(ctx, core.Budget{Category: core.CategoryFood, Amount: core.Money{Cents: 80000}})
	require.NoError(t, err)
	statuses = f.svc.Budgets()
	require.Len(t, statuses, 1)
	assert.Equal(t, second.ID, statuses[0].Budget.ID)
	assert.Equal(t, int64(80000), statuses[0].Budget.Amount.Cents)
}

func TestLedgerServicePeriodNavigation(t *testing.T) {
	f := newFixture(t)
	may := core.Period{Year: 2024, Month: time.May}
	assert.Equal(t, may, f.svc.Period())
	assert.False(t, f.svc.CanAdvance())

	got, err := f.svc.NextPeriod()
	assert.ErrorIs(t, err, ErrPeriodInFuture)
	assert.Equal(t, may, got)
	assert.Equal(t, may, f.svc.Period())

	assert.Equal(t, core.Period{Year: 2024, Month: time.April}, f.svc.PrevPeriod())
	assert.True(t, f.svc.CanAdvance())
	got, err = f.svc.NextPeriod()
	require.NoError(t, err)
	assert.Equal(t, may, got)

	assert.ErrorIs(t, f.svc.SetPeriod(core.Period{Year: 2024, Month: time.June}), ErrPeriodInFuture)
	require.NoError(t, f.svc.SetPeriod(core.Period{Year: 2023, Month: time.December}))
	assert.Equal(t, core.Period{Year: 2023, Month: time.December}, f.svc.Period())
}

func TestLedgerServicePageCursorClamps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc = NewLedgerService(f.repo, Options{
		Now:      func() time.Time { return refNow },
		NewID:    sequentialIDs(),
		PageSize: 2,
	})

	for day := 1; day <= 5; day++ {
		_, err := f.svc.SaveTransaction(ctx, expenseTxn(core.NewDate(2024, 5, day), 100, core.CategoryFood, fmt.Sprintf("Meal %d", day)))
		require.NoError(t, err)
	}

	p := f.svc.Page(ledger.Filter{}, 3)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 3, p.TotalPages)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "Meal 1", p.Items[0].Description)

	// Narrowing the filter pulls the cursor back onto the last page.
	p = f.svc.Page(ledger.Filter{Search: "meal 5"}, 3)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.TotalItems)

	p = f.svc.Page(ledger.Filter{}, 3)
	require.Equal(t, 3, p.Page)
	last := p.Items[0]
	action, err := f.svc.RequestTransactionDeletion(last.ID)
	require.NoError(t, err)
	_, err = f.svc.Resolve(ctx, action.Token, true)
	require.NoError(t, err)

	p = f.svc.CurrentPage()
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 2, p.TotalPages)
}

func TestLedgerServiceToggleDarkMode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	prefs, err := f.svc.ToggleDarkMode(ctx)
	require.NoError(t, err)
	assert.True(t, prefs.DarkMode)

	dark, err := f.repo.LoadDarkMode(ctx)
	require.NoError(t, err)
	assert.True(t, dark)

	reloaded := NewLedgerService(f.repo, Options{Now: func() time.Time { return refNow }})
	require.NoError(t, reloaded.Load(ctx))
	assert.True(t, reloaded.Preferences().DarkMode)
}

func TestLedgerServiceLoadSortsStoredTransactions(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewRepository(memory.New(), nil)
	require.NoError(t, repo.SaveTransactions(ctx, []core.Transaction{
		{ID: "old", Date: core.NewDate(2024, 1, 1), Entry: core.Expense(core.Money{Cents: 1}), Description: "a", Category: core.CategoryFood},
		{ID: "new", Date: core.NewDate(2024, 5, 1), Entry: core.Expense(core.Money{Cents: 1}), Description: "b", Category: core.CategoryFood},
	}))

	svc := NewLedgerService(repo, Options{Now: func() time.Time { return refNow }})
	require.NoError(t, svc.Load(ctx))
	txns := svc.Transactions()
	require.Len(t, txns, 2)
	assert.Equal(t, "new", txns[0].ID)
}

// blockingPublisher holds every publish until release is closed.
type blockingPublisher struct {
	entered chan struct{}
	release chan struct{}
}

func (p *blockingPublisher) PublishLedgerChange(context.Context, string, string, string, int64) error {
	p.entered <- struct{}{}
	<-p.release
	return nil
}

func TestLedgerServiceReadsDoNotWaitForPublisher(t *testing.T) {
	pub := &blockingPublisher{entered: make(chan struct{}), release: make(chan struct{})}
	svc := NewLedgerService(storage.NewRepository(memory.New(), nil), Options{
		Now:       func() time.Time { return refNow },
		Publisher: pub,
	})
	ctx := context.Background()

	saved := make(chan error, 1)
	go func() {
		_, err := svc.SaveTransaction(ctx, expenseTxn(core.NewDate(2024, 5, 2), 5000, core.CategoryFood, "Lunch"))
		saved <- err
	}()
	<-pub.entered

	summary := make(chan core.Summary, 1)
	go func() { summary <- svc.Summary() }()
	select {
	case sum := <-summary:
		assert.Equal(t, int64(5000), sum.Expenses.Cents)
	case <-time.After(time.Second):
		t.Fatal("Summary blocked while a change notification was in flight")
	}

	close(pub.release)
	require.NoError(t, <-saved)
}

func TestLedgerServiceUpdateBudget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.SaveBudget(ctx, core.Budget{Category: core.CategoryFood, Amount: core.Money{Cents: 50000}})
	require.NoError(t, err)

	b.Amount = core.Money{Cents: 60000}
	updated, err := f.svc.UpdateBudget(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.ID)

	_, err = f.svc.UpdateBudget(ctx, core.Budget{ID: "gone", Category: core.CategoryHousing, Amount: core.Money{Cents: 100}})
	assert.ErrorIs(t, err, core.ErrNotFound)
	statuses := f.svc.Budgets()
	require.Len(t, statuses, 1, "a failed update must not create a budget")
	assert.Equal(t, int64(60000), statuses[0].Budget.Amount.Cents)
	assert.Len(t, f.pub.calls, 2)
}

func TestLedgerServiceChartSnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SaveTransaction(ctx, expenseTxn(core.NewDate(2024, 4, 10), 3000, core.CategoryFood, "April lunch"))
	require.NoError(t, err)

	april := f.svc.PrevPeriod()
	series := f.svc.SeriesSnapshot()
	assert.Equal(t, april, series.Period)
	assert.Equal(t, f.svc.Revision(), series.Revision)
	require.NotEmpty(t, series.Data.Periods)
	assert.Equal(t, april, series.Data.Periods[len(series.Data.Periods)-1])

	breakdown := f.svc.BreakdownSnapshot()
	assert.Equal(t, april, breakdown.Period)
	require.Len(t, breakdown.Data, 1)
	assert.Equal(t, int64(3000), breakdown.Data[0].Amount.Cents)
}
