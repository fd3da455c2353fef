package models

import (
	"testing"
	"time"
)

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name   string
		txType TransactionType
		amount float64
		want   float64
	}{
		{"income is positive", TypeIncome, 50.0, 50.0},
		{"expense is negative", TypeExpense, 30.0, -30.0},
		{"zero income", TypeIncome, 0, 0},
		{"zero expense", TypeExpense, 0, 0},
		{"fractional expense", TypeExpense, 12.34, -12.34},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SignedAmount(tt.txType, tt.amount); got != tt.want {
				t.Errorf("SignedAmount(%s, %v) = %v, want %v", tt.txType, tt.amount, got, tt.want)
			}
		})
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextRecurringDate(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		interval RecurringInterval
		want     time.Time
	}{
		{"daily mid-month", date(2024, time.March, 10), IntervalDaily, date(2024, time.March, 11)},
		{"daily crosses month end", date(2024, time.January, 31), IntervalDaily, date(2024, time.February, 1)},
		{"daily crosses year end", date(2023, time.December, 31), IntervalDaily, date(2024, time.January, 1)},
		{"weekly", date(2024, time.January, 15), IntervalWeekly, date(2024, time.January, 22)},
		{"weekly crosses month end", date(2024, time.January, 31), IntervalWeekly, date(2024, time.February, 7)},
		{"monthly mid-month", date(2024, time.January, 15), IntervalMonthly, date(2024, time.February, 15)},
		// AddDate normalization: Jan 31 + 1 month = Feb 31 = Mar 2 in a leap year.
		{"monthly overflow leap year", date(2024, time.January, 31), IntervalMonthly, date(2024, time.March, 2)},
		{"monthly overflow common year", date(2023, time.January, 31), IntervalMonthly, date(2023, time.March, 3)},
		{"yearly", date(2024, time.June, 1), IntervalYearly, date(2025, time.June, 1)},
		{"yearly from Jan 31", date(2024, time.January, 31), IntervalYearly, date(2025, time.January, 31)},
		// Feb 29 + 1 year normalizes to Mar 1.
		{"yearly from leap day", date(2024, time.February, 29), IntervalYearly, date(2025, time.March, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextRecurringDate(tt.start, tt.interval); !got.Equal(tt.want) {
				t.Errorf("NextRecurringDate(%s, %s) = %s, want %s",
					tt.start.Format("2006-01-02"), tt.interval,
					got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestTransactionTypeValid(t *testing.T) {
	if !TypeIncome.Valid() || !TypeExpense.Valid() {
		t.Error("expected INCOME and EXPENSE to be valid")
	}
	if TransactionType("TRANSFER").Valid() {
		t.Error("expected TRANSFER to be invalid")
	}
}

func TestRecurringIntervalValid(t *testing.T) {
	for _, i := range []RecurringInterval{IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly} {
		if !i.Valid() {
			t.Errorf("expected %s to be valid", i)
		}
	}
	if RecurringInterval("HOURLY").Valid() {
		t.Error("expected HOURLY to be invalid")
	}
}
