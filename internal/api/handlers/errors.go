package handlers

import (
	"errors"
	"strconv"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const unexpectedErrorMessage = "An unexpected error occurred"

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.Fail(message))
}

// respondError maps service errors to status codes. Internal causes are
// logged, never returned to the client.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var (
		validationErr *service.ValidationError
		notFoundErr   *service.NotFoundError
		internalErr   *service.InternalError
	)

	switch {
	case errors.As(err, &validationErr):
		return fail(c, fiber.StatusBadRequest, validationErr.Message)
	case errors.As(err, &notFoundErr):
		return fail(c, fiber.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &internalErr):
		logger.Error("Request failed",
			zap.String("operation", internalErr.Op),
			zap.String("request_id", requestID(c)),
			zap.Error(internalErr.Err),
		)
		return fail(c, fiber.StatusInternalServerError, unexpectedErrorMessage)
	default:
		logger.Error("Unexpected error", zap.String("request_id", requestID(c)), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, unexpectedErrorMessage)
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// queryInt reads an optional integer query parameter.
func queryInt(c *fiber.Ctx, key string, defaultValue int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return v, nil
}

func requiredQueryInt(c *fiber.Ctx, key string) (int, error) {
	if c.Query(key) == "" {
		return 0, errors.New(key + " is required")
	}
	return queryInt(c, key, 0)
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("Transaction id must be a positive integer")
	}
	return id, nil
}
