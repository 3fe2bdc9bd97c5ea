package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// UpdateComplaintRequest carries the full-update payload. All fields are
// optional; AssignedTo is a support-staff email.
type UpdateComplaintRequest struct {
	Title       *string                   `json:"title"`
	Description *string                   `json:"description"`
	Status      *domain.ComplaintStatus   `json:"status"`
	Priority    *domain.ComplaintPriority `json:"priority"`
	AssignedTo  *string                   `json:"assignedTo"`
	Comment     *string                   `json:"comment"`
}

// UpdateStatusRequest carries the status-only payload.
type UpdateStatusRequest struct {
	Status  domain.ComplaintStatus `json:"status"`
	Comment string                 `json:"comment"`
}

// FeedbackRequest carries the filer's rating.
type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ComplaintSummary is the role-projected list item. Priority and AssignedTo
// are omitted for roles whose projection does not include them.
type ComplaintSummary struct {
	ID          string                    `json:"id"`
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Status      domain.ComplaintStatus    `json:"status"`
	Priority    *domain.ComplaintPriority `json:"priority,omitempty"`
	AssignedTo  *string                   `json:"assignedTo,omitempty"`
	CreatedAt   time.Time                 `json:"createdAt"`
}

// TimelineEntryResponse mirrors a timeline entry.
type TimelineEntryResponse struct {
	Status    domain.ComplaintStatus `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Comment   string                 `json:"comment"`
	CreatedBy string                 `json:"createdBy"`
}

// FeedbackResponse mirrors the feedback sub-record.
type FeedbackResponse struct {
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ComplaintDetail is the single-item view.
type ComplaintDetail struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Status      domain.ComplaintStatus   `json:"status"`
	Priority    domain.ComplaintPriority `json:"priority"`
	ImageURL    *string                  `json:"imageUrl,omitempty"`
	CreatedBy   string                   `json:"createdBy"`
	AssignedTo  *string                  `json:"assignedTo,omitempty"`
	Timeline    []TimelineEntryResponse  `json:"timeline"`
	Feedback    *FeedbackResponse        `json:"feedback,omitempty"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}
