// Package filter narrows a transaction list by type, category and
// month. Pure functions over an in-memory slice; the backend is never
// consulted.
package filter

import (
	"sort"
	"time"

	"satang/internal/core"
)

const (
	TypeAll     = "all"
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// MonthAll selects every month.
const MonthAll = "all"

// Filter holds the active criteria. The zero value is not useful; use
// New for an all-pass filter.
type Filter struct {
	Type       string
	Categories []string
	Month      string // "all" or "YYYY-MM"
}

func New() Filter {
	return Filter{Type: TypeAll, Month: MonthAll}
}

// Clear resets every criterion to its all-pass default.
func (f *Filter) Clear() {
	*f = New()
}

// ActiveCount counts the criteria that actually narrow the list: each
// selected category, a non-all month, and a non-all type.
func (f Filter) ActiveCount() int {
	count := len(f.Categories)
	if f.Month != MonthAll && f.Month != "" {
		count++
	}
	if f.Type != TypeAll && f.Type != "" {
		count++
	}
	return count
}

func (f Filter) HasActive() bool {
	return f.ActiveCount() > 0
}

// Apply returns the transactions matching every active criterion.
func (f Filter) Apply(transactions []core.Transaction) []core.Transaction {
	filtered := make([]core.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if !f.matches(tx) {
			continue
		}
		filtered = append(filtered, tx)
	}
	return filtered
}

func (f Filter) matches(tx core.Transaction) bool {
	switch f.Type {
	case TypeIncome:
		if tx.Type != core.Income {
			return false
		}
	case TypeExpense:
		if tx.Type != core.Expense {
			return false
		}
	}

	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if c == tx.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.Month != "" && f.Month != MonthAll {
		date, ok := parseDate(tx.Date)
		if !ok {
			return false
		}
		if date.Format("2006-01") != f.Month {
			return false
		}
	}

	return true
}

// Categories returns the unique non-empty categories, sorted.
func Categories(transactions []core.Transaction) []string {
	seen := make(map[string]struct{})
	for _, tx := range transactions {
		if tx.Category == "" {
			continue
		}
		seen[tx.Category] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// MonthOption is a selectable month derived from the data.
type MonthOption struct {
	Value string // "all" or "YYYY-MM"
	Label string
}

// Months lists the months present in the data, newest first, with the
// all-pass option leading. Transactions with unparseable dates are
// skipped.
func Months(transactions []core.Transaction) []MonthOption {
	seen := make(map[string]struct{})
	for _, tx := range transactions {
		date, ok := parseDate(tx.Date)
		if !ok {
			continue
		}
		seen[date.Format("2006-01")] = struct{}{}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(values)))

	options := make([]MonthOption, 0, len(values)+1)
	options = append(options, MonthOption{Value: MonthAll, Label: "All months"})
	for _, v := range values {
		date, _ := time.Parse("2006-01", v)
		options = append(options, MonthOption{Value: v, Label: date.Format("January 2006")})
	}
	return options
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
