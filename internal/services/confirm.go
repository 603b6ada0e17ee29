package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// ErrNoPendingAction is returned for a token that was never issued, has
// already been resolved or has expired.
var ErrNoPendingAction = errors.New("no pending action for token")

// PendingTTL bounds how long an unanswered confirmation stays resolvable.
const PendingTTL = 5 * time.Minute

// PendingAction is a destructive change waiting for a yes or no.
type PendingAction struct {
	Token   string `json:"token"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type pendingKind int

const (
	pendingTransactionDelete pendingKind = iota + 1
	pendingBudgetDelete
)

type pendingAction struct {
	kind    pendingKind
	id      string
	expires time.Time
}

// Prompt asks the user to confirm. Returning an error counts as a no.
type Prompt interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// PromptFunc adapts a function to Prompt.
type PromptFunc func(ctx context.Context, title, message string) (bool, error)

func (f PromptFunc) Confirm(ctx context.Context, title, message string) (bool, error) {
	return f(ctx, title, message)
}

// RequestTransactionDeletion registers a pending delete of id. Nothing is
// removed until Resolve is called with confirmed set.
func (s *LedgerService) RequestTransactionDeletion(id string) (PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := ledger.FindTransaction(s.txns, id); !ok {
		return PendingAction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return s.addPendingLocked(pendingTransactionDelete, id,
		"Delete Transaction", "Are you sure you want to delete this transaction?"), nil
}

func (s *LedgerService) RequestBudgetDeletion(id string) (PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := ledger.FindBudget(s.budgets, id); !ok {
		return PendingAction{}, fmt.Errorf("budget %s: %w", id, core.ErrNotFound)
	}
	return s.addPendingLocked(pendingBudgetDelete, id,
		"Delete Budget", "Are you sure you want to delete this budget?"), nil
}

func (s *LedgerService) addPendingLocked(kind pendingKind, id, title, message string) PendingAction {
	now := s.now()
	for token, p := range s.pending {
		if now.After(p.expires) {
			delete(s.pending, token)
		}
	}
	token := uuid.NewString()
	s.pending[token] = pendingAction{kind: kind, id: id, expires: now.Add(PendingTTL)}
	return PendingAction{Token: token, Title: title, Message: message}
}

// Resolve settles a pending action exactly once. A false answer discards
// it; a true one applies it. applied reports whether a delete ran, which
// is false when the answer was no or the record had already gone.
func (s *LedgerService) Resolve(ctx context.Context, token string, confirmed bool) (applied bool, err error) {
	applied, ev, err := s.resolve(ctx, token, confirmed)
	s.notify(ctx, ev)
	return applied, err
}

func (s *LedgerService) resolve(ctx context.Context, token string, confirmed bool) (bool, *changeEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[token]
	if !ok {
		return false, nil, ErrNoPendingAction
	}
	delete(s.pending, token)
	if s.now().After(p.expires) {
		return false, nil, ErrNoPendingAction
	}
	if !confirmed {
		s.logger.DebugContext(ctx, "Pending action dismissed", "token", token)
		return false, nil, nil
	}

	var (
		ev  *changeEvent
		err error
	)
	before := s.revision
	switch p.kind {
	case pendingTransactionDelete:
		ev, err = s.deleteTransactionLocked(ctx, p.id)
	case pendingBudgetDelete:
		ev, err = s.deleteBudgetLocked(ctx, p.id)
	}
	return s.revision != before, ev, err
}

// ConfirmDelete asks prompt about action and resolves it with the answer.
// A prompt error or a cancelled ctx is a dismissal.
func (s *LedgerService) ConfirmDelete(ctx context.Context, prompt Prompt, action PendingAction) (bool, error) {
	ok, err := prompt.Confirm(ctx, action.Title, action.Message)
	if err != nil || ctx.Err() != nil {
		ok = false
	}
	// Resolution must not depend on the prompt's context surviving.
	return s.Resolve(context.WithoutCancel(ctx), action.Token, ok)
}
