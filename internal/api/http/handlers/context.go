package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/complaint-desk/complaint-service/internal/auth"
	"github.com/complaint-desk/complaint-service/internal/domain"
	apperrors "github.com/complaint-desk/complaint-service/pkg/util"
)

func currentAccount(c *fiber.Ctx) (*domain.Account, error) {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("User not authenticated")
	}
	return account, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("Invalid request payload", nil)
	}
	return nil
}
