// Package statistics turns archived request logs into windowed amount statistics.
package statistics

import (
	"github.com/shopspring/decimal"

	"loanapproval/internal/domain"
)

// AvgPlaces is the number of decimal places kept in the average.
const AvgPlaces = 2

// Aggregate reduces logs to count, sum, min, max and a half-up rounded average in one pass.
// Amount fields are left nil when logs is empty.
func Aggregate(logs []domain.LoanRequestLog) domain.Statistics {
	stats := domain.Statistics{Count: len(logs)}
	if len(logs) == 0 {
		return stats
	}

	sum := decimal.Zero
	lowest := logs[0].Amount
	highest := logs[0].Amount
	for _, entry := range logs {
		sum = sum.Add(entry.Amount)
		if entry.Amount.GreaterThan(highest) {
			highest = entry.Amount
		}
		if entry.Amount.LessThan(lowest) {
			lowest = entry.Amount
		}
	}

	stats.Amounts = &domain.AmountSummary{
		Sum: sum,
		Avg: sum.DivRound(decimal.NewFromInt(int64(len(logs))), AvgPlaces),
		Max: highest,
		Min: lowest,
	}
	return stats
}
