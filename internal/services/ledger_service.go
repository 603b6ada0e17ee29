package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
)

var (
	// ErrPersistence wraps a failed durable save. The in-memory change it
	// accompanies has been applied and stays authoritative.
	ErrPersistence = errors.New("changes may not survive a restart")

	// ErrPeriodInFuture rejects navigation past the current month.
	ErrPeriodInFuture = errors.New("period is after the current month")
)

// Repository is the durable side of the ledger.
type Repository interface {
	LoadTransactions(ctx context.Context) ([]core.Transaction, error)
	SaveTransactions(ctx context.Context, txns []core.Transaction) error
	LoadBudgets(ctx context.Context) ([]core.Budget, error)
	SaveBudgets(ctx context.Context, budgets []core.Budget) error
	LoadDarkMode(ctx context.Context) (bool, error)
	SaveDarkMode(ctx context.Context, on bool) error
}

// ChangePublisher announces persisted changes. Failures are logged only.
type ChangePublisher interface {
	PublishLedgerChange(ctx context.Context, entity, action, id string, revision int64) error
}

type Options struct {
	PageSize    int
	TrendWindow int
	Now         func() time.Time
	NewID       ledger.IDFunc
	Publisher   ChangePublisher
	Logger      *log.Logger
}

type Preferences struct {
	DarkMode bool `json:"darkMode"`
}

// LedgerService owns the transaction and budget collections, the selected
// period and the table cursor. All reads return copies; all writes go
// through its methods, one at a time.
type LedgerService struct {
	repo        Repository
	publisher   ChangePublisher
	logger      *log.Logger
	now         func() time.Time
	newID       ledger.IDFunc
	pageSize    int
	trendWindow int

	mu       sync.Mutex
	txns     []core.Transaction
	budgets  []core.Budget
	darkMode bool
	period   core.Period
	filter   ledger.Filter
	page     int
	revision int64
	pending  map[string]pendingAction
}

func NewLedgerService(repo Repository, opts Options) *LedgerService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = core.NewID
	}
	if opts.PageSize <= 0 {
		opts.PageSize = ledger.DefaultPageSize
	}
	if opts.TrendWindow <= 0 {
		opts.TrendWindow = ledger.DefaultTrendWindow
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	return &LedgerService{
		repo:        repo,
		publisher:   opts.Publisher,
		logger:      opts.Logger.WithComponent(log.ComponentLedger),
		now:         opts.Now,
		newID:       opts.NewID,
		pageSize:    opts.PageSize,
		trendWindow: opts.TrendWindow,
		period:      core.PeriodOf(opts.Now()),
		page:        1,
		pending:     make(map[string]pendingAction),
	}
}

// Load replaces the in-memory state with what the repository holds.
func (s *LedgerService) Load(ctx context.Context) error {
	txns, err := s.repo.LoadTransactions(ctx)
	if err != nil {
		return err
	}
	budgets, err := s.repo.LoadBudgets(ctx)
	if err != nil {
		return err
	}
	dark, err := s.repo.LoadDarkMode(ctx)
	if err != nil {
		return err
	}
	ledger.SortTransactions(txns)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns, s.budgets, s.darkMode = txns, budgets, dark
	s.revision++
	s.clampPageLocked()

	s.logger.InfoContext(ctx, "Ledger loaded",
		"transactions", len(txns),
		"budgets", len(budgets),
		log.FieldPeriod, s.period.String())
	return nil
}

// Revision changes whenever the in-memory ledger does.
func (s *LedgerService) Revision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

func (s *LedgerService) Period() core.Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.period
}

// CanAdvance reports whether NextPeriod would succeed.
func (s *LedgerService) CanAdvance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.period.CanAdvance(s.now())
}

func (s *LedgerService) PrevPeriod() core.Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.period = s.period.Prev()
	s.clampPageLocked()
	return s.period
}

// NextPeriod moves forward one month unless that passes the current month,
// in which case the period is left alone and ErrPeriodInFuture returned.
func (s *LedgerService) NextPeriod() (core.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := s.period.Next(s.now())
	if !ok {
		return s.period, ErrPeriodInFuture
	}
	s.period = next
	s.clampPageLocked()
	return s.period, nil
}

func (s *LedgerService) SetPeriod(p core.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.After(core.PeriodOf(s.now())) {
		return ErrPeriodInFuture
	}
	s.period = p
	s.clampPageLocked()
	return nil
}

// Summary compares the selected month with the one before it.
func (s *LedgerService) Summary() core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.Summarize(
		ledger.MonthSlice(s.txns, s.period),
		ledger.PreviousMonthSlice(s.txns, s.period),
	)
}

func (s *LedgerService) Breakdown() []core.CategoryAmount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.CategoryBreakdown(ledger.MonthSlice(s.txns, s.period))
}

func (s *LedgerService) Series() core.MonthlySeries {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.TrailingMonthlySeries(s.txns, s.period, s.trendWindow)
}

// ChartSnapshot is the data behind one chart together with the ledger
// revision and period it was computed for.
type ChartSnapshot[T any] struct {
	Revision int64
	Period   core.Period
	Data     T
}

// SeriesSnapshot reads the trailing series under a single lock.
func (s *LedgerService) SeriesSnapshot() ChartSnapshot[core.MonthlySeries] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ChartSnapshot[core.MonthlySeries]{
		Revision: s.revision,
		Period:   s.period,
		Data:     ledger.TrailingMonthlySeries(s.txns, s.period, s.trendWindow),
	}
}

// BreakdownSnapshot reads the category breakdown under a single lock.
func (s *LedgerService) BreakdownSnapshot() ChartSnapshot[[]core.CategoryAmount] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ChartSnapshot[[]core.CategoryAmount]{
		Revision: s.revision,
		Period:   s.period,
		Data:     ledger.CategoryBreakdown(ledger.MonthSlice(s.txns, s.period)),
	}
}

// Recent returns the n newest transactions of the whole ledger.
func (s *LedgerService) Recent(n int) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.Recent(s.txns, n)
}

// Page sets the table cursor to f and page and returns the clamped page.
func (s *LedgerService) Page(f ledger.Filter, page int) ledger.Page[core.Transaction] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter, s.page = f, page
	return s.currentPageLocked()
}

// CurrentPage re-evaluates the stored cursor against the current ledger.
func (s *LedgerService) CurrentPage() ledger.Page[core.Transaction] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPageLocked()
}

func (s *LedgerService) currentPageLocked() ledger.Page[core.Transaction] {
	p := ledger.Paginate(ledger.FilterTransactions(s.txns, s.filter), s.pageSize, s.page)
	s.page = p.Page
	return p
}

func (s *LedgerService) clampPageLocked() {
	s.currentPageLocked()
}

func (s *LedgerService) Transaction(id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := ledger.FindTransaction(s.txns, id)
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return t, nil
}

func (s *LedgerService) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.txns)
}

// Budgets returns every budget with its spending in the selected month.
func (s *LedgerService) Budgets() []core.BudgetStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.BudgetsProgress(s.budgets, ledger.MonthSlice(s.txns, s.period))
}

func (s *LedgerService) Budget(id string) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := ledger.FindBudget(s.budgets, id)
	if !ok {
		return core.Budget{}, fmt.Errorf("budget %s: %w", id, core.ErrNotFound)
	}
	return b, nil
}

func (s *LedgerService) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Preferences{DarkMode: s.darkMode}
}

// changeEvent is a persisted change to announce once the lock is released.
type changeEvent struct {
	entity, action, id string
	revision           int64
}

func (s *LedgerService) eventLocked(entity, action, id string) *changeEvent {
	return &changeEvent{entity: entity, action: action, id: id, revision: s.revision}
}

// SaveTransaction validates t and creates it (empty ID) or replaces the
// record with its ID. An unknown ID is core.ErrNotFound. The whole
// collection is then saved; a failed save returns the stored record along
// with an error wrapping ErrPersistence.
func (s *LedgerService) SaveTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t = t.Normalize()
	if err := t.Validate(s.now()); err != nil {
		return core.Transaction{}, err
	}
	saved, ev, err := s.saveTransaction(ctx, t)
	s.notify(ctx, ev)
	return saved, err
}

func (s *LedgerService) saveTransaction(ctx context.Context, t core.Transaction) (core.Transaction, *changeEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := log.OpUpdate
	if t.ID == "" {
		op = log.OpCreate
	}
	txns, saved, err := ledger.UpsertTransaction(s.txns, t, s.newID)
	if err != nil {
		return core.Transaction{}, nil, err
	}
	s.txns = txns
	s.revision++
	s.clampPageLocked()

	s.logger.InfoContext(ctx, "Transaction saved", log.NewFields().
		WithOperation(op).
		WithTransaction(saved.ID, string(saved.Entry.Kind), string(saved.Category), saved.Entry.Amount.Cents).
		ToSlice()...)

	if err := s.repo.SaveTransactions(ctx, s.txns); err != nil {
		return saved, nil, s.persistFailed(ctx, err)
	}
	return saved, s.eventLocked(amqp.EntityTransaction, amqp.ActionSaved, saved.ID), nil
}

// SaveBudget validates b and upserts it by ID, then by category.
func (s *LedgerService) SaveBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	return s.saveBudget(ctx, b, false)
}

// UpdateBudget replaces the budget with b.ID and fails with
// core.ErrNotFound when there is none.
func (s *LedgerService) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	return s.saveBudget(ctx, b, true)
}

func (s *LedgerService) saveBudget(ctx context.Context, b core.Budget, mustExist bool) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	saved, ev, err := s.saveBudgetLocked(ctx, b, mustExist)
	s.notify(ctx, ev)
	return saved, err
}

func (s *LedgerService) saveBudgetLocked(ctx context.Context, b core.Budget, mustExist bool) (core.Budget, *changeEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mustExist {
		if _, ok := ledger.FindBudget(s.budgets, b.ID); !ok {
			return core.Budget{}, nil, fmt.Errorf("budget %s: %w", b.ID, core.ErrNotFound)
		}
	}
	budgets, saved := ledger.UpsertBudget(s.budgets, b, s.newID)
	s.budgets = budgets
	s.revision++

	s.logger.InfoContext(ctx, "Budget saved", log.NewFields().
		WithBudget(saved.ID, string(saved.Category), saved.Amount.Cents).
		ToSlice()...)

	if err := s.repo.SaveBudgets(ctx, s.budgets); err != nil {
		return saved, nil, s.persistFailed(ctx, err)
	}
	return saved, s.eventLocked(amqp.EntityBudget, amqp.ActionSaved, saved.ID), nil
}

// ToggleDarkMode flips and stores the theme preference.
func (s *LedgerService) ToggleDarkMode(ctx context.Context) (Preferences, error) {
	prefs, ev, err := s.toggleDarkMode(ctx)
	s.notify(ctx, ev)
	return prefs, err
}

func (s *LedgerService) toggleDarkMode(ctx context.Context) (Preferences, *changeEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.darkMode = !s.darkMode
	prefs := Preferences{DarkMode: s.darkMode}
	if err := s.repo.SaveDarkMode(ctx, s.darkMode); err != nil {
		return prefs, nil, s.persistFailed(ctx, err)
	}
	return prefs, s.eventLocked(amqp.EntityPreferences, amqp.ActionSaved, ""), nil
}

func (s *LedgerService) deleteTransactionLocked(ctx context.Context, id string) (*changeEvent, error) {
	txns, removed := ledger.DeleteTransaction(s.txns, id)
	if !removed {
		return nil, nil
	}
	s.txns = txns
	s.revision++
	s.clampPageLocked()

	s.logger.InfoContext(ctx, "Transaction deleted", log.FieldTxnID, id)

	if err := s.repo.SaveTransactions(ctx, s.txns); err != nil {
		return nil, s.persistFailed(ctx, err)
	}
	return s.eventLocked(amqp.EntityTransaction, amqp.ActionDeleted, id), nil
}

func (s *LedgerService) deleteBudgetLocked(ctx context.Context, id string) (*changeEvent, error) {
	budgets, removed := ledger.DeleteBudget(s.budgets, id)
	if !removed {
		return nil, nil
	}
	s.budgets = budgets
	s.revision++

	s.logger.InfoContext(ctx, "Budget deleted", log.FieldBudgetID, id)

	if err := s.repo.SaveBudgets(ctx, s.budgets); err != nil {
		return nil, s.persistFailed(ctx, err)
	}
	return s.eventLocked(amqp.EntityBudget, amqp.ActionDeleted, id), nil
}

func (s *LedgerService) persistFailed(ctx context.Context, err error) error {
	s.logger.ErrorContext(ctx, "Failed to persist ledger", log.NewFields().
		WithOperation(log.OpPersist).
		WithError(err).
		ToSlice()...)
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// notify publishes ev. It must be called without s.mu held: a publisher
// may block on a reconnect and reads must not wait for it.
func (s *LedgerService) notify(ctx context.Context, ev *changeEvent) {
	if ev == nil || s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerChange(ctx, ev.entity, ev.action, ev.id, ev.revision); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish ledger change",
			log.FieldOperation, log.OpNotify,
			"entity", ev.entity,
			log.FieldError, err)
	}
}
