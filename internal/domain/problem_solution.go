package domain

import "time"

// ProblemSolution is a knowledge-base entry keyed by ticket subject. At most
// one entry exists per distinct subject; UpdatedAt is refreshed on every write.
type ProblemSolution struct {
	Subject   string
	Solution  string
	UpdatedAt time.Time
}

// FrequentProblem pairs a recurring ticket subject with its occurrence count
// and the documented solution, empty when none has been recorded yet.
type FrequentProblem struct {
	Subject  string
	Count    int64
	Solution string
}

// DimensionCount is one bucket of a grouped ticket breakdown.
type DimensionCount struct {
	Key   string
	Count int64
}

// TicketAnalytics aggregates the per-dimension breakdowns and total for the
// caller's visible ticket set.
type TicketAnalytics struct {
	TotalTickets int64
	BySource     []DimensionCount
	ByStatus     []DimensionCount
	ByPriority   []DimensionCount
}
