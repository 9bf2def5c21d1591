package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/complaint-desk/complaint-service/internal/api/dto"
	"github.com/complaint-desk/complaint-service/internal/domain"
	"github.com/complaint-desk/complaint-service/internal/service"
)

// ComplaintsHandler manages complaint endpoints.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
	analytics  *service.AnalyticsService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaints *service.ComplaintService, analytics *service.AnalyticsService) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaints, analytics: analytics}
}

// Create POST /api/complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.CreateComplaintRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	complaint, err := h.complaints.Create(c.UserContext(), actor, service.ComplaintCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.ComplaintCategory(req.Category),
		Priority:    domain.ComplaintPriority(req.Priority),
	})
	if err != nil {
		return err
	}
	resp, err := h.present(c.UserContext(), complaint)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":   "Complaint created successfully",
		"complaint": resp,
	})
}

// List GET /api/complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	page, err := h.complaints.List(c.UserContext(), actor, service.ComplaintListFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("limit", 10),
	})
	if err != nil {
		return err
	}

	refs := make([]*domain.Complaint, 0, len(page.Complaints))
	for i := range page.Complaints {
		refs = append(refs, &page.Complaints[i])
	}
	people, err := h.complaints.ResolveParticipants(c.UserContext(), refs...)
	if err != nil {
		return err
	}

	items := make([]dto.ComplaintResponse, 0, len(refs))
	for _, complaint := range refs {
		items = append(items, dto.NewComplaintResponse(complaint, people))
	}
	return c.JSON(dto.ComplaintListResponse{
		Complaints:  items,
		TotalPages:  page.TotalPages,
		CurrentPage: page.Page,
		Total:       page.Total,
	})
}

// Get GET /api/complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	complaint, err := h.complaints.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	resp, err := h.present(c.UserContext(), complaint)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"complaint": resp})
}

// Assign PUT /api/complaints/:id/assign.
func (h *ComplaintsHandler) Assign(c *fiber.Ctx) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.AssignComplaintRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	complaint, err := h.complaints.Assign(c.UserContext(), actor, c.Params("id"), req.TechnicianID)
	if err != nil {
		return err
	}
	resp, err := h.present(c.UserContext(), complaint)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":   "Complaint assigned successfully",
		"complaint": resp,
	})
}

// UpdateStatus PUT /api/complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	complaint, err := h.complaints.UpdateStatus(c.UserContext(), actor, c.Params("id"), domain.ComplaintStatus(req.Status))
	if err != nil {
		return err
	}
	resp, err := h.present(c.UserContext(), complaint)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":   "Complaint status updated successfully",
		"complaint": resp,
	})
}

// AddNote POST /api/complaints/:id/notes.
func (h *ComplaintsHandler) AddNote(c *fiber.Ctx) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.AddNoteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	note, err := h.complaints.AddNote(c.UserContext(), actor, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	people := dto.People{actor.ID: *actor}
	return c.JSON(fiber.Map{
		"message": "Note added successfully",
		"note":    dto.NewNoteResponse(*note, people),
	})
}

// Dashboard GET /api/complaints/analytics/dashboard.
func (h *ComplaintsHandler) Dashboard(c *fiber.Ctx) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	dashboard, err := h.analytics.Dashboard(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDashboardResponse(dashboard))
}

func (h *ComplaintsHandler) present(ctx context.Context, complaint *domain.Complaint) (dto.ComplaintResponse, error) {
	people, err := h.complaints.ResolveParticipants(ctx, complaint)
	if err != nil {
		return dto.ComplaintResponse{}, err
	}
	return dto.NewComplaintResponse(complaint, people), nil
}
