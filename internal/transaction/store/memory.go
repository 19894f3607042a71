package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findash/internal/analytics"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

// Memory keeps transactions in process memory. It backs local development
// and tests, and is the reference for how the database backends behave.
type Memory struct {
	mu  sync.RWMutex
	txs []*transaction.Transaction
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) ListTransactions(ctx context.Context, filter transaction.Filter, page transaction.Page) ([]*transaction.Transaction, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	// seq is the insertion index, the tie-break for equal sort keys.
	type ranked struct {
		tx  *transaction.Transaction
		seq int
	}

	var matched []ranked

	for i, tx := range m.txs {
		if filter.Match(tx) {
			matched = append(matched, ranked{tx: tx, seq: i})
		}
	}

	slices.SortFunc(matched, func(a, b ranked) int {
		c := compareBy(page.SortBy, a.tx, b.tx)
		if c == 0 {
			c = cmp.Compare(a.seq, b.seq)
		}

		if page.Order == transaction.SortDesc {
			return -c
		}

		return c
	})

	total := int64(len(matched))

	start := min(max(page.Skip(), 0), len(matched))
	end := min(start+max(page.Take(), 0), len(matched))

	out := make([]*transaction.Transaction, 0, end-start)
	for _, r := range matched[start:end] {
		cp := *r.tx
		out = append(out, &cp)
	}

	return out, total, nil
}

func compareBy(field transaction.SortField, a, b *transaction.Transaction) int {
	switch field {
	case transaction.SortByAmount:
		return cmp.Compare(a.Amount, b.Amount)
	case transaction.SortByCategory:
		return strings.Compare(string(a.Category), string(b.Category))
	case transaction.SortByStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case transaction.SortByUserID:
		return strings.Compare(a.UserID, b.UserID)
	default:
		return a.Date.Compare(b.Date)
	}
}

func (m *Memory) InsertTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tx := range txs {
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}

		cp := *tx
		m.txs = append(m.txs, &cp)
	}

	return nil
}

func (m *Memory) Aggregate(ctx context.Context) (*analytics.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return analytics.Compute(m.txs), nil
}
