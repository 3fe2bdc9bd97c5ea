package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/classifier"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/storage"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// Caller identifies the authenticated principal acting on a complaint.
type Caller struct {
	UserID string
	Role   domain.Role
}

// ComplaintService coordinates complaint workflows: creation with automatic
// priority classification, role-gated mutation, the append-only timeline and
// filer feedback.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	users      repository.UserRepository
	classifier classifier.PriorityClassifier
	uploader   storage.ImageUploader
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	UserRepo      repository.UserRepository
	Classifier    classifier.PriorityClassifier
	Uploader      storage.ImageUploader
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		users:      deps.UserRepo,
		classifier: deps.Classifier,
		uploader:   deps.Uploader,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// CreateInput describes complaint creation payload.
type CreateInput struct {
	Title       string
	Description string
	Image       []byte
	ImageName   string
}

// UpdateInput carries the requested field changes for a full update. Nil
// means the field was not supplied.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.ComplaintStatus
	Priority    *domain.ComplaintPriority
	AssignedTo  *string // support-staff email
	Comment     *string
}

// ListFilter captures listing query parameters.
type ListFilter struct {
	Status     *domain.ComplaintStatus
	Priority   *domain.ComplaintPriority
	SearchTerm *string
}

// Create files a new complaint for the caller. Priority comes from the
// classifier; any classifier failure or out-of-vocabulary response defaults to
// medium and never fails the request. An upload failure does fail the request.
func (s *ComplaintService) Create(ctx context.Context, caller Caller, input CreateInput) (*domain.Complaint, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	var imageURL *string
	if len(input.Image) > 0 {
		url, err := s.uploader.Upload(ctx, input.Image, input.ImageName)
		if err != nil {
			return nil, apperrors.NewServerFault("image upload failed", err)
		}
		imageURL = &url
		s.logger.Info("image uploaded for complaint", zap.String("user_id", caller.UserID))
	}

	priority := s.classifyPriority(ctx, title, description)

	now := time.Now()
	complaint := &domain.Complaint{
		Title:       title,
		Description: description,
		Status:      domain.ComplaintStatusOpen,
		Priority:    priority,
		ImageURL:    imageURL,
		CreatedBy:   caller.UserID,
		Timeline: []domain.TimelineEntry{{
			ID:        uuid.NewString(),
			Status:    domain.ComplaintStatusOpen,
			Timestamp: now,
			Comment:   "Complaint created",
			CreatedBy: caller.UserID,
		}},
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       callerActor(caller),
		Payload: events.ComplaintCreatedPayload{
			Title:    complaint.Title,
			Priority: complaint.Priority,
			ImageURL: complaint.ImageURL,
		},
	})
	s.logger.Info("complaint created",
		zap.String("complaint_id", complaint.ID),
		zap.String("user_id", caller.UserID),
		zap.String("priority", string(complaint.Priority)))
	return complaint, nil
}

// classifyPriority asks the external classifier and absorbs every failure
// into the medium default.
func (s *ComplaintService) classifyPriority(ctx context.Context, title, description string) domain.ComplaintPriority {
	if s.classifier == nil {
		return domain.PriorityMedium
	}
	priority, err := s.classifier.Classify(ctx, title, description)
	if err != nil {
		s.logger.Warn("priority classification failed, defaulting to medium", zap.Error(err))
		return domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		s.logger.Warn("classifier returned value outside vocabulary, defaulting to medium",
			zap.String("value", string(priority)))
		return domain.PriorityMedium
	}
	return priority
}

// Update applies a full update with role-conditional field permissions. A
// timeline entry is appended only when a permitted field materially changed
// or an explicit comment was supplied; a no-op update still succeeds.
func (s *ComplaintService) Update(ctx context.Context, caller Caller, complaintID string, input UpdateInput) error {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return err
	}

	switch caller.Role {
	case domain.RoleAdmin:
		// admins reach every complaint
	case domain.RoleSupportStaff, domain.RoleUser:
		if !domain.RoleCanAccess(caller.Role, caller.UserID, complaint) {
			return apperrors.NewForbidden("you don't have permission to update this complaint")
		}
	default:
		// unreachable with the three known roles, kept as a safety net
		return apperrors.NewForbidden("unauthorized action")
	}

	timelineComment := ""
	if input.Comment != nil && strings.TrimSpace(*input.Comment) != "" {
		timelineComment = strings.TrimSpace(*input.Comment)
	}
	changed := false
	var changeEvents []events.Event

	// Fields the caller's role may not write are skipped rather than rejected,
	// so clients may always send the full object.
	if input.AssignedTo != nil && domain.CanWrite(caller.Role, domain.FieldAssignedTo) {
		staff, err := s.users.GetByEmail(ctx, strings.TrimSpace(*input.AssignedTo))
		if err != nil {
			if repository.IsNotFound(err) {
				return apperrors.NewValidationError("no support staff found with that email", nil)
			}
			return err
		}
		if staff.Role != domain.RoleSupportStaff {
			return apperrors.NewValidationError("no support staff found with that email", nil)
		}
		// compare against the resolved staff id, not the raw email
		if complaint.AssignedTo == nil || *complaint.AssignedTo != staff.ID {
			assigneeID := staff.ID
			complaint.AssignedTo = &assigneeID
			changed = true
			if timelineComment == "" {
				timelineComment = "Complaint reassigned"
			}
			changeEvents = append(changeEvents, events.Event{
				Type:        events.EventComplaintAssigned,
				ComplaintID: complaint.ID,
				Actor:       callerActor(caller),
				Payload:     events.ComplaintAssignedPayload{AssigneeID: staff.ID},
			})
		}
	}

	if input.Title != nil && domain.CanWrite(caller.Role, domain.FieldTitle) {
		if title := strings.TrimSpace(*input.Title); title != "" && title != complaint.Title {
			complaint.Title = title
			changed = true
			if timelineComment == "" {
				timelineComment = "Complaint details updated"
			}
		}
	}

	if input.Description != nil && domain.CanWrite(caller.Role, domain.FieldDescription) {
		if description := strings.TrimSpace(*input.Description); description != "" && description != complaint.Description {
			complaint.Description = description
			changed = true
			if timelineComment == "" {
				timelineComment = "Complaint details updated"
			}
		}
	}

	if input.Status != nil && domain.CanWrite(caller.Role, domain.FieldStatus) {
		if !domain.ValidStatus(*input.Status) {
			return apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		if *input.Status != complaint.Status {
			oldStatus := complaint.Status
			complaint.Status = *input.Status
			changed = true
			if timelineComment == "" {
				timelineComment = fmt.Sprintf("Status changed to %s", *input.Status)
			}
			changeEvents = append(changeEvents, events.Event{
				Type:        events.EventComplaintStatusChanged,
				ComplaintID: complaint.ID,
				Actor:       callerActor(caller),
				Payload: events.ComplaintStatusChangedPayload{
					OldStatus: oldStatus,
					NewStatus: complaint.Status,
					Comment:   timelineComment,
				},
			})
		}
	}

	if input.Priority != nil && domain.CanWrite(caller.Role, domain.FieldPriority) {
		if !domain.ValidPriority(*input.Priority) {
			return apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
		}
		if *input.Priority != complaint.Priority {
			oldPriority := complaint.Priority
			complaint.Priority = *input.Priority
			changed = true
			if timelineComment == "" {
				timelineComment = fmt.Sprintf("Priority changed to %s", *input.Priority)
			}
			changeEvents = append(changeEvents, events.Event{
				Type:        events.EventComplaintPriorityChanged,
				ComplaintID: complaint.ID,
				Actor:       callerActor(caller),
				Payload: events.ComplaintPriorityChangedPayload{
					OldPriority: oldPriority,
					NewPriority: complaint.Priority,
				},
			})
		}
	}

	if !changed && timelineComment == "" {
		// nothing material and no comment: succeed without touching the document
		return nil
	}

	complaint.AppendTimeline(domain.TimelineEntry{
		ID:        uuid.NewString(),
		Status:    complaint.Status,
		Timestamp: time.Now(),
		Comment:   timelineComment,
		CreatedBy: caller.UserID,
	})

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return err
	}
	for _, event := range changeEvents {
		s.publishEvent(ctx, event)
	}
	s.logger.Info("complaint updated",
		zap.String("complaint_id", complaint.ID),
		zap.String("user_id", caller.UserID))
	return nil
}

// UpdateStatus performs the status-only update. Unlike the full-update path,
// a same-status request is rejected with an invalid-state error so the
// timeline is never polluted with no-op entries.
func (s *ComplaintService) UpdateStatus(ctx context.Context, caller Caller, complaintID string, status domain.ComplaintStatus, comment string) error {
	if !domain.ValidStatus(status) {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return err
	}

	if caller.Role == domain.RoleSupportStaff && !domain.RoleCanAccess(caller.Role, caller.UserID, complaint) {
		return apperrors.NewForbidden("you don't have permission to update this complaint")
	}

	if complaint.Status == status {
		return apperrors.NewInvalidState(fmt.Sprintf("complaint is already marked as %s", status))
	}

	oldStatus := complaint.Status
	complaint.Status = status

	entryComment := strings.TrimSpace(comment)
	if entryComment == "" {
		entryComment = fmt.Sprintf("Status changed to %s", status)
	}
	complaint.AppendTimeline(domain.TimelineEntry{
		ID:        uuid.NewString(),
		Status:    status,
		Timestamp: time.Now(),
		Comment:   entryComment,
		CreatedBy: caller.UserID,
	})

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		Actor:       callerActor(caller),
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
			Comment:   entryComment,
		},
	})
	s.logger.Info("complaint status updated",
		zap.String("complaint_id", complaint.ID),
		zap.String("user_id", caller.UserID),
		zap.String("status", string(status)))
	return nil
}

// SubmitFeedback attaches the filer's rating once the complaint is resolved
// or closed. Feedback is a singleton: resubmission replaces the prior record.
func (s *ComplaintService) SubmitFeedback(ctx context.Context, caller Caller, complaintID string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return apperrors.NewValidationError("rating must be between 1 and 5", nil)
	}

	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return err
	}
	if complaint.CreatedBy != caller.UserID {
		return apperrors.NewForbidden("you don't have permission to provide feedback for this complaint")
	}
	if !complaint.FeedbackEligible() {
		return apperrors.NewInvalidState("feedback can only be provided for resolved or closed complaints")
	}

	now := time.Now()
	createdAt := now
	if complaint.Feedback != nil {
		createdAt = complaint.Feedback.CreatedAt
	}
	complaint.Feedback = &domain.Feedback{
		Rating:    rating,
		Comment:   comment,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventFeedbackSubmitted,
		ComplaintID: complaint.ID,
		Actor:       callerActor(caller),
		Payload:     events.FeedbackSubmittedPayload{Rating: rating},
	})
	s.logger.Info("feedback submitted",
		zap.String("complaint_id", complaint.ID),
		zap.String("user_id", caller.UserID))
	return nil
}

// List returns complaints scoped to the caller's role: admins see all, staff
// only their assignments, users only their own filings.
func (s *ComplaintService) List(ctx context.Context, caller Caller, filter ListFilter) ([]domain.Complaint, error) {
	repoFilter := repository.ComplaintFilter{
		Status:     filter.Status,
		Priority:   filter.Priority,
		SearchTerm: filter.SearchTerm,
	}

	switch caller.Role {
	case domain.RoleAdmin:
		// unscoped
	case domain.RoleSupportStaff:
		assignee := caller.UserID
		repoFilter.AssignedTo = &assignee
	case domain.RoleUser:
		creator := caller.UserID
		repoFilter.CreatedBy = &creator
	default:
		return nil, apperrors.NewForbidden("unauthorized action")
	}

	complaints, err := s.complaints.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	if complaints == nil {
		complaints = []domain.Complaint{}
	}
	return complaints, nil
}

// Get fetches a single complaint with the assignee's email resolved. The full
// detail view is available to the creator, the assignee, and admins.
func (s *ComplaintService) Get(ctx context.Context, caller Caller, complaintID string) (*domain.Complaint, *string, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, nil, err
	}

	isCreator := complaint.CreatedBy == caller.UserID
	isAssignee := complaint.AssignedTo != nil && *complaint.AssignedTo == caller.UserID
	if !isCreator && !isAssignee && caller.Role != domain.RoleAdmin {
		return nil, nil, apperrors.NewForbidden("you don't have permission to access this resource")
	}

	var assigneeEmail *string
	if complaint.AssignedTo != nil {
		assignee, err := s.users.GetByID(ctx, *complaint.AssignedTo)
		if err == nil {
			assigneeEmail = &assignee.Email
		} else if !repository.IsNotFound(err) {
			return nil, nil, err
		}
	}
	return complaint, assigneeEmail, nil
}

func (s *ComplaintService) getComplaint(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("complaint", nil)
		}
		return nil, err
	}
	return complaint, nil
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func callerActor(caller Caller) events.Actor {
	return events.Actor{UserID: caller.UserID, Role: caller.Role}
}
