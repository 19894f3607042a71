package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/findash/internal/analytics"
	"github.com/MrJamesThe3rd/findash/internal/apperr"
)

func TestService_Compute(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *analytics.MockRepository)
		verify    func(t *testing.T, r *analytics.Report)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "NormalizesBackendOutput",
			setupMock: func(m *analytics.MockRepository) {
				m.EXPECT().Aggregate(gomock.Any()).Return(&analytics.Report{
					RevenueExpenseTrend: []analytics.MonthlyTotals{{Month: "2024-02"}, {Month: "2024-01"}},
					StatusDistribution:  []analytics.StatusCount{{Status: "Pending", Count: 1}, {Status: "Paid", Count: 2}},
					TopUsersExpense: []analytics.UserSpend{
						{UserID: "a", TotalSpent: 1},
						{UserID: "b", TotalSpent: 6},
						{UserID: "c", TotalSpent: 5},
						{UserID: "d", TotalSpent: 4},
						{UserID: "e", TotalSpent: 3},
						{UserID: "f", TotalSpent: 2},
					},
				}, nil)
			},
			verify: func(t *testing.T, r *analytics.Report) {
				assert.Equal(t, "2024-01", r.RevenueExpenseTrend[0].Month)
				assert.Equal(t, "Paid", r.StatusDistribution[0].Status)
				require.Len(t, r.TopUsersExpense, 5)
				assert.Equal(t, "b", r.TopUsersExpense[0].UserID)
				assert.Equal(t, "f", r.TopUsersExpense[4].UserID)
				assert.NotNil(t, r.TransactionCountTrend)
			},
		},
		{
			name: "NilReportIsZeroed",
			setupMock: func(m *analytics.MockRepository) {
				m.EXPECT().Aggregate(gomock.Any()).Return(nil, nil)
			},
			verify: func(t *testing.T, r *analytics.Report) {
				assert.Equal(t, analytics.Summary{}, r.SummaryStats)
				assert.Empty(t, r.TopUsersExpense)
				assert.NotNil(t, r.TopUsersExpense)
			},
		},
		{
			name: "StorageError",
			setupMock: func(m *analytics.MockRepository) {
				m.EXPECT().Aggregate(gomock.Any()).Return(nil, errors.New("facet stage failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := analytics.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := analytics.NewService(repo, time.Second).Compute(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))

				return
			}

			require.NoError(t, err)
			tt.verify(t, got)
		})
	}
}

func TestService_Compute_AppliesTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := analytics.NewMockRepository(ctrl)
	repo.EXPECT().Aggregate(gomock.Any()).DoAndReturn(func(ctx context.Context) (*analytics.Report, error) {
		_, ok := ctx.Deadline()
		assert.True(t, ok)

		return &analytics.Report{}, nil
	})

	_, err := analytics.NewService(repo, time.Second).Compute(context.Background())
	require.NoError(t, err)
}
