package dto

import "time"

// TicketResponse mirrors a stored ticket. Optional classification fields are
// omitted when unset.
type TicketResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	UserName  string    `json:"user_name,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Category  string    `json:"category,omitempty"`
	Priority  string    `json:"priority,omitempty"`
	Status    string    `json:"status,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IntakeTicketRequest is the unauthenticated intake payload.
type IntakeTicketRequest struct {
	Email    string `json:"email"`
	UserName string `json:"user_name"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
	Source   string `json:"source"`
}

// SourceCount is one bucket of the by-source breakdown.
type SourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

// StatusCount is one bucket of the by-status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// PriorityCount is one bucket of the by-priority breakdown.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int64  `json:"count"`
}

// AnalyticsResponse carries the scoped ticket analytics.
type AnalyticsResponse struct {
	TotalTickets int64           `json:"totalTickets"`
	BySource     []SourceCount   `json:"bySource"`
	ByStatus     []StatusCount   `json:"byStatus"`
	ByPriority   []PriorityCount `json:"byPriority"`
}

// FrequentProblemResponse is one row of the frequent-problems report.
type FrequentProblemResponse struct {
	Subject  string `json:"subject"`
	Count    int64  `json:"count"`
	Solution string `json:"solution"`
}

// UpsertSolutionRequest documents a solution for a subject.
type UpsertSolutionRequest struct {
	Subject  string  `json:"subject"`
	Solution *string `json:"solution"`
}

// ProblemResponse echoes the persisted solution entry.
type ProblemResponse struct {
	Subject  string `json:"subject"`
	Solution string `json:"solution"`
}
