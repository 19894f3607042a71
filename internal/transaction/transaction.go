package transaction

import (
	"fmt"
	"strings"
	"time"
)

// Category tells whether a transaction brings money in or takes it out.
type Category string

const (
	CategoryRevenue Category = "Revenue"
	CategoryExpense Category = "Expense"
)

// Status represents the settlement state of a transaction.
type Status string

const (
	StatusPaid    Status = "Paid"
	StatusPending Status = "Pending"
)

// Categories lists every valid category.
var Categories = []Category{CategoryRevenue, CategoryExpense}

// Statuses lists every valid status.
var Statuses = []Status{StatusPaid, StatusPending}

// ParseCategory matches s against the known categories ignoring case.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, true
		}
	}

	return "", false
}

// ParseStatus matches s against the known statuses ignoring case.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}

	return "", false
}

// Transaction represents a financial transaction. Records are immutable once stored.
type Transaction struct {
	ID          string
	Date        time.Time
	Amount      float64
	Category    Category
	Status      Status
	UserID      string
	UserProfile string
}

// CreateParams describes a transaction to be stored. A zero Date means "now".
type CreateParams struct {
	Date        time.Time
	Amount      float64
	Category    Category
	Status      Status
	UserID      string
	UserProfile string
}

func (p CreateParams) validate() error {
	if p.Category != CategoryRevenue && p.Category != CategoryExpense {
		return fmt.Errorf("category must be one of Revenue, Expense")
	}

	if p.Status != StatusPaid && p.Status != StatusPending {
		return fmt.Errorf("status must be one of Paid, Pending")
	}

	if p.Amount < 0 {
		return fmt.Errorf("amount must not be negative")
	}

	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("user_id is required")
	}

	return nil
}
