package statistics

import (
	"strings"
	"time"

	pkgerrors "loanapproval/pkg/errors"
)

const (
	// PeriodLayout is the Go layout of period timestamps.
	PeriodLayout = "2006-01-02 15:04:05"
	// PeriodFormat is PeriodLayout as shown to API clients.
	PeriodFormat = "yyyy-MM-dd HH:mm:ss"
	// DefaultWindow is how far back an omitted period start reaches.
	DefaultWindow = 60 * time.Second
)

// PeriodResolver parses statistics windows, filling in defaults relative to now.
type PeriodResolver struct {
	loc *time.Location
}

// NewPeriodResolver interprets timestamps as wall-clock times in loc. A nil loc means time.Local.
func NewPeriodResolver(loc *time.Location) *PeriodResolver {
	if loc == nil {
		loc = time.Local
	}
	return &PeriodResolver{loc: loc}
}

// Resolve returns the window [start, end]. Empty texts default to now-60s and now.
func (r *PeriodResolver) Resolve(startText, endText string, now time.Time) (time.Time, time.Time, error) {
	now = now.In(r.loc)

	start, err := r.parse(startText, now.Add(-DefaultWindow))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := r.parse(endText, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, pkgerrors.PeriodOrder(start.Format(PeriodLayout), end.Format(PeriodLayout))
	}
	return start, end, nil
}

func (r *PeriodResolver) parse(text string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(text) == "" {
		return fallback, nil
	}
	t, err := time.ParseInLocation(PeriodLayout, text, r.loc)
	if err != nil {
		return time.Time{}, pkgerrors.PeriodFormat(text, PeriodFormat)
	}
	return t, nil
}
