package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusToDo       TicketStatus = "TO DO"
	TicketStatusInProgress TicketStatus = "IN PROGRESS"
	TicketStatusPending    TicketStatus = "PENDING"
	TicketStatusDone       TicketStatus = "DONE"
)

// TicketPriority enumerates urgency on the named five-step scale.
type TicketPriority string

const (
	TicketPriorityLowest  TicketPriority = "Lowest"
	TicketPriorityLow     TicketPriority = "Low"
	TicketPriorityMedium  TicketPriority = "Medium"
	TicketPriorityHigh    TicketPriority = "High"
	TicketPriorityHighest TicketPriority = "Highest"
)

// TicketCategory enumerates the problem area a ticket belongs to.
type TicketCategory string

const (
	TicketCategorySoftware TicketCategory = "Software"
	TicketCategoryHardware TicketCategory = "Hardware"
	TicketCategoryNetwork  TicketCategory = "Network"
	TicketCategoryAccess   TicketCategory = "Access"
	TicketCategoryOther    TicketCategory = "Other"
)

// TicketSource enumerates the intake channel a ticket arrived through.
type TicketSource string

const (
	TicketSourceEmail    TicketSource = "Email"
	TicketSourceWhatsApp TicketSource = "WhatsApp"
	TicketSourceChatbot  TicketSource = "Chatbot"
)

// Ticket is a single support request. Email and Subject are always present;
// the classification fields are optional and empty means unset.
type Ticket struct {
	ID        string
	Email     string
	UserName  string
	Subject   string
	Message   string
	Category  TicketCategory
	Priority  TicketPriority
	Status    TicketStatus
	Source    TicketSource
	CreatedAt time.Time
}

// nullSentinel is the literal string some migrated records carry instead of a
// true absent value. It must behave as unset everywhere.
const nullSentinel = "null"

// NormalizeOptional folds the legacy "null" sentinel and surrounding
// whitespace into the empty string, the canonical unset representation for
// optional fields.
func NormalizeOptional(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == nullSentinel {
		return ""
	}
	return trimmed
}

// ParseCategory validates an optional category value. Unset input yields the
// zero value; the second return reports whether the value was recognized.
func ParseCategory(value string) (TicketCategory, bool) {
	normalized := TicketCategory(NormalizeOptional(value))
	switch normalized {
	case "", TicketCategorySoftware, TicketCategoryHardware, TicketCategoryNetwork, TicketCategoryAccess, TicketCategoryOther:
		return normalized, true
	}
	return "", false
}

// ParsePriority validates an optional priority value.
func ParsePriority(value string) (TicketPriority, bool) {
	normalized := TicketPriority(NormalizeOptional(value))
	switch normalized {
	case "", TicketPriorityLowest, TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityHighest:
		return normalized, true
	}
	return "", false
}

// ParseStatus validates an optional status value.
func ParseStatus(value string) (TicketStatus, bool) {
	normalized := TicketStatus(NormalizeOptional(value))
	switch normalized {
	case "", TicketStatusToDo, TicketStatusInProgress, TicketStatusPending, TicketStatusDone:
		return normalized, true
	}
	return "", false
}

// ParseSource validates an optional source value.
func ParseSource(value string) (TicketSource, bool) {
	normalized := TicketSource(NormalizeOptional(value))
	switch normalized {
	case "", TicketSourceEmail, TicketSourceWhatsApp, TicketSourceChatbot:
		return normalized, true
	}
	return "", false
}
