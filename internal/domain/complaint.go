package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints. The set is not
// strictly ordered; any role-permitted transition is accepted.
type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "open"
	ComplaintStatusAssigned   ComplaintStatus = "assigned"
	ComplaintStatusInProgress ComplaintStatus = "inProgress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusClosed     ComplaintStatus = "closed"
)

// ValidStatus reports whether the value is a known status.
func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case ComplaintStatusOpen, ComplaintStatusAssigned, ComplaintStatusInProgress,
		ComplaintStatusResolved, ComplaintStatusClosed:
		return true
	}
	return false
}

// ComplaintPriority enumerates urgency buckets.
type ComplaintPriority string

const (
	PriorityLow      ComplaintPriority = "low"
	PriorityMedium   ComplaintPriority = "medium"
	PriorityHigh     ComplaintPriority = "high"
	PriorityCritical ComplaintPriority = "critical"
)

// ValidPriority reports whether the value is a known priority.
func ValidPriority(p ComplaintPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// TimelineEntry is an immutable audit record embedded in a complaint. Entries
// are append-only and never reordered or deleted.
type TimelineEntry struct {
	ID        string          `json:"id"`
	Status    ComplaintStatus `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Comment   string          `json:"comment"`
	CreatedBy string          `json:"createdBy"`
}

// Feedback is the singleton filer rating attached after resolution.
// Resubmission replaces the prior record, last write wins.
type Feedback struct {
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Complaint is the central aggregate.
type Complaint struct {
	ID          string
	Title       string
	Description string
	Status      ComplaintStatus
	Priority    ComplaintPriority
	ImageURL    *string
	CreatedBy   string
	AssignedTo  *string
	Timeline    []TimelineEntry
	Feedback    *Feedback
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FeedbackEligible reports whether the complaint's current status allows
// feedback submission.
func (c *Complaint) FeedbackEligible() bool {
	return c.Status == ComplaintStatusResolved || c.Status == ComplaintStatusClosed
}

// AppendTimeline adds an entry to the complaint's timeline.
func (c *Complaint) AppendTimeline(entry TimelineEntry) {
	c.Timeline = append(c.Timeline, entry)
}
