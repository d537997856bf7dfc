package statistics

import (
	"context"
	"time"

	"loanapproval/internal/domain"
	"loanapproval/pkg/logger"
)

// LogReader is the read side of the archived request log.
type LogReader interface {
	RangeQuery(ctx context.Context, start, end time.Time) []domain.LoanRequestLog
}

// Service answers statistics queries over the archived request log.
type Service struct {
	logs     LogReader
	resolver *PeriodResolver
	logger   logger.Logger
	now      func() time.Time
}

// NewService creates a statistics Service.
func NewService(logs LogReader, resolver *PeriodResolver, log logger.Logger) *Service {
	return &Service{
		logs:     logs,
		resolver: resolver,
		logger:   log,
		now:      time.Now,
	}
}

// Gather resolves the query window and aggregates the logs completed strictly inside it.
func (s *Service) Gather(ctx context.Context, periodStart, periodEnd string) (domain.Statistics, error) {
	start, end, err := s.resolver.Resolve(periodStart, periodEnd, s.now())
	if err != nil {
		s.logger.Warn("Rejected statistics period", map[string]interface{}{
			"period_start": periodStart,
			"period_end":   periodEnd,
			"error":        err.Error(),
		})
		return domain.Statistics{}, err
	}

	stats := Aggregate(s.logs.RangeQuery(ctx, start, end))

	s.logger.Debug("Statistics gathered", map[string]interface{}{
		"period_start": start.Format(PeriodLayout),
		"period_end":   end.Format(PeriodLayout),
		"count":        stats.Count,
	})
	return stats, nil
}
