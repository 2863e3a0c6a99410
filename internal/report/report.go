// Package report is the aggregation engine behind the dashboard: pure
// functions that turn a month's transaction list into category breakdowns,
// daily running balances, KPI figures and export documents. It performs no
// I/O and never mutates its input, so it is safe to call from any context.
package report

import (
	"math"
	"sort"
	"strings"
	"time"
)

type TxType string

const (
	TypeIncome  TxType = "INCOME"
	TypeExpense TxType = "EXPENSE"

	// Wildcards accepted by Filter.
	TypeAll     = "ALL"
	CategoryAll = "ALL"
)

// Uncategorized is the sentinel bucket for transactions whose category
// reference was lost (legacy/orphaned records).
const Uncategorized = "Uncategorized"

// Transaction is the flat shape the engine operates on. Callers convert
// their storage models into this; the engine has no persistence or HTTP
// dependencies.
type Transaction struct {
	ID          string
	Description string
	Value       float64
	Type        TxType
	Category    string
	Date        time.Time
}

// Summary holds the three headline figures for a month.
type Summary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// CategoryStats is one bucket of the per-category breakdown.
type CategoryStats struct {
	Name         string  `json:"name"`
	IncomeSum    float64 `json:"income_sum"`
	ExpenseSum   float64 `json:"expense_sum"`
	Total        float64 `json:"total"`
	Count        int     `json:"count"`
	ExpenseShare float64 `json:"expense_share"`
	Average      float64 `json:"average"`
}

// DailyPoint is one day of the cash-flow chart.
type DailyPoint struct {
	Day            int     `json:"day"`
	Income         float64 `json:"income"`
	Expense        float64 `json:"expense"`
	RunningBalance float64 `json:"running_balance"`
}

// sanitize guards the accumulators against malformed values that slipped
// past upstream validation. NaN and infinities count as zero.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Totals sums the list into income, expense and their difference.
func Totals(transactions []Transaction) Summary {
	var s Summary
	for _, t := range transactions {
		switch t.Type {
		case TypeIncome:
			s.Income += sanitize(t.Value)
		case TypeExpense:
			s.Expense += sanitize(t.Value)
		}
	}
	s.Balance = s.Income - s.Expense
	return s
}

// GroupByCategory partitions the list by category name and accumulates
// per-bucket sums. The result is ordered by expense sum descending; ties
// keep the encounter order of each bucket's first transaction. ExpenseShare
// is the bucket's share of all expenses, 0 when there are no expenses.
func GroupByCategory(transactions []Transaction) []CategoryStats {
	stats := make(map[string]*CategoryStats)
	var order []string

	var totalExpense float64
	for _, t := range transactions {
		if t.Type == TypeExpense {
			totalExpense += sanitize(t.Value)
		}
	}

	for _, t := range transactions {
		name := t.Category
		if name == "" {
			name = Uncategorized
		}

		bucket, ok := stats[name]
		if !ok {
			bucket = &CategoryStats{Name: name}
			stats[name] = bucket
			order = append(order, name)
		}

		value := sanitize(t.Value)
		switch t.Type {
		case TypeIncome:
			bucket.IncomeSum += value
		case TypeExpense:
			bucket.ExpenseSum += value
		}
		bucket.Total += value
		bucket.Count++
	}

	result := make([]CategoryStats, 0, len(order))
	for _, name := range order {
		bucket := stats[name]
		if totalExpense > 0 {
			bucket.ExpenseShare = bucket.ExpenseSum / totalExpense * 100
		}
		if bucket.Count > 0 {
			bucket.Average = bucket.Total / float64(bucket.Count)
		}
		result = append(result, *bucket)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ExpenseSum > result[j].ExpenseSum
	})

	return result
}

// DailyRunningBalance groups the list by calendar day-of-month and walks
// the days in ascending numeric order, carrying a running income-minus-
// expense accumulator.
func DailyRunningBalance(transactions []Transaction) []DailyPoint {
	daily := make(map[int]*DailyPoint)
	for _, t := range transactions {
		day := t.Date.Day()
		point, ok := daily[day]
		if !ok {
			point = &DailyPoint{Day: day}
			daily[day] = point
		}
		value := sanitize(t.Value)
		switch t.Type {
		case TypeIncome:
			point.Income += value
		case TypeExpense:
			point.Expense += value
		}
	}

	days := make([]int, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Ints(days)

	var balance float64
	points := make([]DailyPoint, 0, len(days))
	for _, day := range days {
		point := daily[day]
		balance += point.Income - point.Expense
		point.RunningBalance = balance
		points = append(points, *point)
	}
	return points
}

// Trend is the balance movement across the month: last day's running
// balance minus the first day's, 0 with fewer than two days of data.
func Trend(points []DailyPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	return points[len(points)-1].RunningBalance - points[0].RunningBalance
}

// Criteria are the dashboard filter predicates. All three are ANDed;
// zero values and the ALL wildcard match everything.
type Criteria struct {
	Search   string
	Type     string
	Category string
}

// Filter returns a new list holding the transactions matching every
// predicate. The input is never mutated and filtering is idempotent.
func Filter(transactions []Transaction, c Criteria) []Transaction {
	search := strings.ToLower(c.Search)

	result := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if c.Type != "" && c.Type != TypeAll && TxType(c.Type) != t.Type {
			continue
		}
		if c.Category != "" && c.Category != CategoryAll && c.Category != t.Category {
			continue
		}
		result = append(result, t)
	}
	return result
}

// AverageTransaction is the mean value across the list, 0 when empty.
func AverageTransaction(transactions []Transaction) float64 {
	if len(transactions) == 0 {
		return 0
	}
	var sum float64
	for _, t := range transactions {
		sum += sanitize(t.Value)
	}
	return sum / float64(len(transactions))
}

// SavingsRate is the balance as a percentage of income, clamped to
// [-100, 100]. Zero income yields 0.
func SavingsRate(transactions []Transaction) float64 {
	s := Totals(transactions)
	if s.Income <= 0 {
		return 0
	}
	rate := (s.Income - s.Expense) / s.Income * 100
	return math.Max(-100, math.Min(100, rate))
}

// ExpenseRate is expenses as a percentage of income, capped at 100.
// With no income it is 100 when any expense exists, otherwise 0.
func ExpenseRate(transactions []Transaction) float64 {
	s := Totals(transactions)
	if s.Income > 0 {
		return math.Min(100, s.Expense/s.Income*100)
	}
	if s.Expense > 0 {
		return 100
	}
	return 0
}
