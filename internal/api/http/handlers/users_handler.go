package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/complaint-desk/complaint-service/internal/api/dto"
	"github.com/complaint-desk/complaint-service/internal/domain"
	"github.com/complaint-desk/complaint-service/internal/service"
)

// UsersHandler exposes admin account management.
type UsersHandler struct {
	accounts *service.AccountService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accounts *service.AccountService) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

// Create handles POST /api/users/create.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	account, err := h.accounts.CreateStaff(c.UserContext(), req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    dto.NewUserResponse(account),
	})
}

// Technicians handles GET /api/users/technicians.
func (h *UsersHandler) Technicians(c *fiber.Ctx) error {
	technicians, err := h.accounts.ListTechnicians(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"technicians": dto.NewUserResponses(technicians)})
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	page, err := h.accounts.List(c.UserContext(), service.AccountListFilter{
		Role:     c.Query("role"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("limit", 10),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.UserListResponse{
		Users:       dto.NewUserResponses(page.Accounts),
		TotalPages:  page.TotalPages,
		CurrentPage: page.Page,
		Total:       page.Total,
	})
}

// ToggleStatus handles PUT /api/users/:id/toggle-status.
func (h *UsersHandler) ToggleStatus(c *fiber.Ctx) error {
	account, err := h.accounts.ToggleActive(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	state := "deactivated"
	if account.Active {
		state = "activated"
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("User %s successfully", state),
		"user":    dto.NewUserResponse(account),
	})
}
