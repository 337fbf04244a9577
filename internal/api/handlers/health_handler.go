package handlers

import (
	"expense-tracker/internal/dto"
	"expense-tracker/pkg/config"

	"github.com/gofiber/fiber/v2"
)

const Version = "1.0.0"

type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Status:      "healthy",
		Environment: h.cfg.App.Env,
		Project:     h.cfg.App.ProjectName,
	})
}

// Root godoc
// @Summary API information
// @Tags health
// @Produce json
// @Success 200 {object} dto.RootResponse
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(dto.RootResponse{
		Message: "Welcome to " + h.cfg.App.ProjectName,
		Version: Version,
		Docs:    "/swagger/index.html",
	})
}
