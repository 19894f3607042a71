package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/findash/cmd/tui/internal/view"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOf(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-1), time.UTC)
}

func TestTimeframe_DateRange(t *testing.T) {
	// Wednesday.
	now := time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC)

	type testCase struct {
		name      string
		tf        view.Timeframe
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}

	tests := []testCase{
		{name: "ThisWeek", tf: view.TimeframeThisWeek, now: now, wantStart: day(2024, 3, 11), wantEnd: endOf(2024, 3, 13)},
		{name: "ThisWeekOnSunday", tf: view.TimeframeThisWeek, now: day(2024, 3, 17), wantStart: day(2024, 3, 11), wantEnd: endOf(2024, 3, 17)},
		{name: "LastWeek", tf: view.TimeframeLastWeek, now: now, wantStart: day(2024, 3, 4), wantEnd: endOf(2024, 3, 10)},
		{name: "ThisMonth", tf: view.TimeframeThisMonth, now: now, wantStart: day(2024, 3, 1), wantEnd: endOf(2024, 3, 13)},
		{name: "LastMonthLeapYear", tf: view.TimeframeLastMonth, now: now, wantStart: day(2024, 2, 1), wantEnd: endOf(2024, 2, 29)},
		{name: "LastMonthAcrossYear", tf: view.TimeframeLastMonth, now: day(2024, 1, 5), wantStart: day(2023, 12, 1), wantEnd: endOf(2023, 12, 31)},
		{name: "ThisYear", tf: view.TimeframeThisYear, now: now, wantStart: day(2024, 1, 1), wantEnd: endOf(2024, 3, 13)},
		{name: "All", tf: view.TimeframeAll, now: now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.tf.DateRange(tt.now)

			assert.True(t, tt.wantStart.Equal(start), "start = %s", start)
			assert.True(t, tt.wantEnd.Equal(end), "end = %s", end)
		})
	}
}

func TestBar(t *testing.T) {
	type args struct {
		value float64
		peak  float64
		width int
	}

	type testCase struct {
		name string
		args args
		want int
	}

	tests := []testCase{
		{name: "Peak", args: args{value: 50, peak: 50, width: 20}, want: 20},
		{name: "Half", args: args{value: 25, peak: 50, width: 20}, want: 10},
		{name: "TinyStillVisible", args: args{value: 0.01, peak: 50, width: 20}, want: 1},
		{name: "Zero", args: args{value: 0, peak: 50, width: 20}, want: 0},
		{name: "NoPeak", args: args{value: 10, peak: 0, width: 20}, want: 0},
		{name: "OverPeakCapped", args: args{value: 80, peak: 50, width: 20}, want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := view.Bar(tt.args.value, tt.args.peak, tt.args.width)
			assert.Equal(t, tt.want, len([]rune(got)))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1234.50", view.FormatAmount(1234.5))
	assert.Equal(t, "0.00", view.FormatAmount(0))
}
