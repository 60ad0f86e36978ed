package repository

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/chelseasymphony/donations/internal/model"
)

const DefaultLedgerSize = 4096

// MemoryLedger remembers the most recent event keys in process. Keys that
// fall out of the cache can be claimed again.
type MemoryLedger struct {
	seen *lru.Cache[model.EventKey, model.Outcome]
}

func NewMemoryLedger(size int) (*MemoryLedger, error) {
	if size <= 0 {
		size = DefaultLedgerSize
	}
	cache, err := lru.New[model.EventKey, model.Outcome](size)
	if err != nil {
		return nil, fmt.Errorf("create ledger cache: %w", err)
	}
	return &MemoryLedger{seen: cache}, nil
}

func (l *MemoryLedger) Claim(_ context.Context, ev *model.PaymentEvent) (bool, error) {
	found, _ := l.seen.ContainsOrAdd(ev.Key(), "")
	return !found, nil
}

func (l *MemoryLedger) Release(_ context.Context, key model.EventKey) error {
	if outcome, ok := l.seen.Peek(key); ok && outcome == "" {
		l.seen.Remove(key)
	}
	return nil
}

func (l *MemoryLedger) Complete(_ context.Context, key model.EventKey, outcome model.Outcome) error {
	l.seen.Add(key, outcome)
	return nil
}

func (l *MemoryLedger) Outcome(key model.EventKey) (model.Outcome, bool) {
	return l.seen.Peek(key)
}

func (l *MemoryLedger) Len() int {
	return l.seen.Len()
}
