package analytics

import (
	"context"
	"time"

	"github.com/MrJamesThe3rd/findash/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=analytics
type Repository interface {
	// Aggregate computes every part of the Report from one consistent view of
	// the collection.
	Aggregate(ctx context.Context) (*Report, error)
}

type Service struct {
	repo    Repository
	timeout time.Duration
}

func NewService(repo Repository, timeout time.Duration) *Service {
	return &Service{repo: repo, timeout: timeout}
}

// Compute returns the analytics report over the whole collection. A failure in
// any part fails the whole report.
func (s *Service) Compute(ctx context.Context) (*Report, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	report, err := s.repo.Aggregate(ctx)
	if err != nil {
		return nil, apperr.Storage("analytics.Compute", err)
	}

	return normalize(report), nil
}
