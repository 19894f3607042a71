package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/findash/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// ListTransactions returns the window of records matching filter, ordered
	// by page, and the count of all records matching filter.
	ListTransactions(ctx context.Context, filter Filter, page Page) ([]*Transaction, int64, error)
	InsertTransactions(ctx context.Context, txs []*Transaction) error
}

type Service struct {
	repo    Repository
	timeout time.Duration
}

// NewService returns a Service whose repository calls are bounded by timeout.
// A zero timeout leaves the caller's deadline untouched.
func NewService(repo Repository, timeout time.Duration) *Service {
	return &Service{repo: repo, timeout: timeout}
}

type Pagination struct {
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

type ListResult struct {
	Data       []*Transaction
	Pagination Pagination
}

func (s *Service) List(ctx context.Context, filter Filter, page Page) (*ListResult, error) {
	page = page.Normalize()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	txs, total, err := s.repo.ListTransactions(ctx, filter, page)
	if err != nil {
		return nil, apperr.Storage("transaction.List", err)
	}

	if len(txs) > page.Limit {
		txs = txs[:page.Limit]
	}

	if txs == nil {
		txs = []*Transaction{}
	}

	return &ListResult{
		Data: txs,
		Pagination: Pagination{
			Total:      total,
			Page:       page.Number,
			PageSize:   page.Limit,
			TotalPages: TotalPages(total, page.Limit),
		},
	}, nil
}

// ImportBatch validates every record and stores them all, or none when any
// record is invalid.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	txs := make([]*Transaction, len(params))

	for i, p := range params {
		if err := p.validate(); err != nil {
			return nil, apperr.Validation("transaction.ImportBatch", fmt.Sprintf("record %d: %v", i+1, err))
		}

		date := p.Date
		if date.IsZero() {
			date = now
		}

		txs[i] = &Transaction{
			Date:        date,
			Amount:      p.Amount,
			Category:    p.Category,
			Status:      p.Status,
			UserID:      p.UserID,
			UserProfile: p.UserProfile,
		}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.repo.InsertTransactions(ctx, txs); err != nil {
		return nil, apperr.Storage("transaction.ImportBatch", err)
	}

	return txs, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, s.timeout)
}
