package field_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/findash/internal/importer/field"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

func TestDate(t *testing.T) {
	type testCase struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}

	tests := []testCase{
		{name: "Empty", in: "", want: time.Time{}},
		{name: "DateOnly", in: "2024-01-15", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "RFC3339Offset", in: "2024-01-15T10:00:00+02:00", want: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)},
		{name: "RFC3339Millis", in: "2024-01-15T10:00:00.123Z", want: time.Date(2024, 1, 15, 10, 0, 0, 123000000, time.UTC)},
		{name: "NoZone", in: "2024-01-15T10:00:00", want: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
		{name: "DayFirst", in: "15-01-2024", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "Garbage", in: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := field.Date(tt.in)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestAmount(t *testing.T) {
	type args struct {
		in           string
		decimalComma bool
	}

	type testCase struct {
		name    string
		args    args
		want    float64
		wantErr bool
	}

	tests := []testCase{
		{name: "Plain", args: args{in: "100"}, want: 100},
		{name: "Dot", args: args{in: "12.50"}, want: 12.5},
		{name: "ThousandsComma", args: args{in: "1,234.56"}, want: 1234.56},
		{name: "European", args: args{in: "1.234,56", decimalComma: true}, want: 1234.56},
		{name: "Zero", args: args{in: "0"}, want: 0},
		{name: "Negative", args: args{in: "-5"}, wantErr: true},
		{name: "Empty", args: args{in: " "}, wantErr: true},
		{name: "Garbage", args: args{in: "12abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := field.Amount(tt.args.in, tt.args.decimalComma)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecord_Params(t *testing.T) {
	rec := field.Record{
		Date:     "2024-02-01",
		Amount:   "30",
		Category: "expense",
		Status:   "PAID",
		UserID:   " u2 ",
	}

	got, err := rec.Params(1, false)
	require.NoError(t, err)

	assert.Equal(t, transaction.CreateParams{
		Date:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Amount:   30,
		Category: transaction.CategoryExpense,
		Status:   transaction.StatusPaid,
		UserID:   "u2",
	}, got)

	rec.Category = "Refund"
	_, err = rec.Params(7, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 7")

	rec.Category = "Expense"
	rec.UserID = ""
	_, err = rec.Params(3, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id")
}
