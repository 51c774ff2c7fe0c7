package advance

import (
	"sort"
	"time"

	"github.com/malaza-be/payroll-backend-go/internal/pkg/period"
)

type ScheduleStatus string

const (
	ScheduleStatusActive    ScheduleStatus = "active"
	ScheduleStatusCompleted ScheduleStatus = "completed"
)

// Schedule is a multi-month repayment plan for one special advance.
// sum(DueAmounts) equals TotalAmount at all times; redistribution moves
// money between months but never creates or destroys any.
type Schedule struct {
	ID          string
	EmployeeID  string
	TotalAmount int64
	StartMonth  period.Month
	DueAmounts  map[period.Month]int64
	Settled     map[period.Month]bool
	Status      ScheduleStatus
	Reports     []Report
	// Revision is the optimistic-concurrency token checked on write.
	Revision  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Report records one shortfall redistribution.
type Report struct {
	ID           string
	Month        period.Month
	Shortfall    int64
	TargetMonths []period.Month
	Reason       string
	CreatedAt    time.Time
}

// Months returns the schedule's months in ascending order.
func (s *Schedule) Months() []period.Month {
	months := make([]period.Month, 0, len(s.DueAmounts))
	for m := range s.DueAmounts {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}

// LastMonth returns the schedule's latest month.
func (s *Schedule) LastMonth() period.Month {
	var last period.Month
	for m := range s.DueAmounts {
		if last.IsZero() || m.After(last) {
			last = m
		}
	}
	return last
}

// IsSettled reports whether the month has been finalized.
func (s *Schedule) IsSettled(m period.Month) bool {
	return s.Settled[m]
}

// UnsettledAfter returns the months strictly after m that are not yet
// settled, in ascending order.
func (s *Schedule) UnsettledAfter(m period.Month) []period.Month {
	var out []period.Month
	for _, sm := range s.Months() {
		if sm.After(m) && !s.Settled[sm] {
			out = append(out, sm)
		}
	}
	return out
}

// AllSettled reports whether every month has been finalized.
func (s *Schedule) AllSettled() bool {
	for m := range s.DueAmounts {
		if !s.Settled[m] {
			return false
		}
	}
	return true
}

// CheckTotal verifies the total-preservation invariant. A drift means
// a redistribution bug corrupted the schedule; callers must surface it,
// never correct it.
func (s *Schedule) CheckTotal() error {
	var sum int64
	for _, due := range s.DueAmounts {
		sum += due
	}
	if sum != s.TotalAmount {
		return ErrScheduleCorrupted
	}
	return nil
}

// OutcomeKind tags how a month's special-advance due was resolved.
type OutcomeKind string

const (
	// OutcomeNone: no special advance was due for the month.
	OutcomeNone OutcomeKind = "none"
	// OutcomeSettledInFull: the full due amount was withheld.
	OutcomeSettledInFull OutcomeKind = "settled_in_full"
	// OutcomeProjectedShortfall: open-month projection of a shortfall;
	// nothing persisted.
	OutcomeProjectedShortfall OutcomeKind = "projected_shortfall"
	// OutcomeCommittedShortfall: a closed month's shortfall, committed
	// to the schedule by redistribution.
	OutcomeCommittedShortfall OutcomeKind = "committed_shortfall"
)

// Outcome is the tagged result of resolving one employee/month against
// the ledger.
type Outcome struct {
	Kind      OutcomeKind
	Shortfall int64
	// ReportIDs identify the redistribution reports, committed
	// shortfalls only.
	ReportIDs []string
}
