package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintsHandler manages complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Create handles POST /complaints (multipart, optional image field).
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}

	input := service.CreateInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		opened, err := file.Open()
		if err != nil {
			return apperrors.NewValidationError("unreadable image upload", nil)
		}
		data, err := io.ReadAll(opened)
		opened.Close()
		if err != nil {
			return apperrors.NewValidationError("unreadable image upload", nil)
		}
		input.Image = data
		input.ImageName = file.Filename
	}

	complaint, err := h.service.Create(c.Context(), caller, input)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":     "Complaint created successfully",
		"complaintId": complaint.ID,
	})
}

// List handles GET /complaints?status=&priority=&q=.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}

	filter := service.ListFilter{}
	if status := c.Query("status"); status != "" {
		s := domain.ComplaintStatus(status)
		filter.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := domain.ComplaintPriority(priority)
		filter.Priority = &p
	}
	if q := c.Query("q"); q != "" {
		filter.SearchTerm = &q
	}

	complaints, err := h.service.List(c.Context(), caller, filter)
	if err != nil {
		return err
	}

	items := make([]dto.ComplaintSummary, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintSummary(&complaints[i], caller.Role))
	}
	return c.JSON(fiber.Map{"complaints": items})
}

// Get handles GET /complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}

	complaint, assigneeEmail, err := h.service.Get(c.Context(), caller, c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"complaint":     complaintDetail(complaint),
		"assigneeEmail": assigneeEmail,
	})
}

// Update handles PUT /complaints/:id.
func (h *ComplaintsHandler) Update(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}

	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		Comment:     req.Comment,
	}
	if err := h.service.Update(c.Context(), caller, c.Params("id"), input); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Complaint updated successfully"})
}

// UpdateStatus handles PUT /complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	if err := h.service.UpdateStatus(c.Context(), caller, c.Params("id"), req.Status, req.Comment); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Complaint status updated successfully"})
}

// SubmitFeedback handles POST /complaints/:id/feedback.
func (h *ComplaintsHandler) SubmitFeedback(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}

	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.service.SubmitFeedback(c.Context(), caller, c.Params("id"), req.Rating, req.Comment); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Feedback added successfully"})
}

func callerFromContext(c *fiber.Ctx) (service.Caller, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return service.Caller{}, apperrors.NewUnauthorized("authentication required")
	}
	return service.Caller{UserID: identity.UserID, Role: identity.Role}, nil
}

// complaintSummary projects a complaint for the caller's role: users never
// see priority or assignee in the list view, support staff never see the
// assignee field.
func complaintSummary(complaint *domain.Complaint, role domain.Role) dto.ComplaintSummary {
	summary := dto.ComplaintSummary{
		ID:          complaint.ID,
		Title:       complaint.Title,
		Description: complaint.Description,
		Status:      complaint.Status,
		CreatedAt:   complaint.CreatedAt,
	}
	if domain.CanRead(role, domain.FieldPriority) {
		priority := complaint.Priority
		summary.Priority = &priority
	}
	if domain.CanRead(role, domain.FieldAssignedTo) {
		summary.AssignedTo = complaint.AssignedTo
	}
	return summary
}

func complaintDetail(complaint *domain.Complaint) dto.ComplaintDetail {
	timeline := make([]dto.TimelineEntryResponse, 0, len(complaint.Timeline))
	for _, entry := range complaint.Timeline {
		timeline = append(timeline, dto.TimelineEntryResponse{
			Status:    entry.Status,
			Timestamp: entry.Timestamp,
			Comment:   entry.Comment,
			CreatedBy: entry.CreatedBy,
		})
	}

	detail := dto.ComplaintDetail{
		ID:          complaint.ID,
		Title:       complaint.Title,
		Description: complaint.Description,
		Status:      complaint.Status,
		Priority:    complaint.Priority,
		ImageURL:    complaint.ImageURL,
		CreatedBy:   complaint.CreatedBy,
		AssignedTo:  complaint.AssignedTo,
		Timeline:    timeline,
		CreatedAt:   complaint.CreatedAt,
		UpdatedAt:   complaint.UpdatedAt,
	}
	if complaint.Feedback != nil {
		detail.Feedback = &dto.FeedbackResponse{
			Rating:    complaint.Feedback.Rating,
			Comment:   complaint.Feedback.Comment,
			CreatedAt: complaint.Feedback.CreatedAt,
			UpdatedAt: complaint.Feedback.UpdatedAt,
		}
	}
	return detail
}
