package handlers

import (
	"expense-tracker/internal/dto"
	"expense-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SummaryHandler struct {
	summaryService *service.SummaryService
	logger         *zap.Logger
}

func NewSummaryHandler(summaryService *service.SummaryService, logger *zap.Logger) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
		logger:         logger,
	}
}

func yearMonth(c *fiber.Ctx) (int, int, error) {
	year, err := requiredQueryInt(c, "year")
	if err != nil {
		return 0, 0, err
	}
	month, err := requiredQueryInt(c, "month")
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

// MonthlySummary godoc
// @Summary Monthly totals
// @Description Income, expense and net savings for a calendar month
// @Tags summary
// @Produce json
// @Param year query int true "Year" minimum(2000)
// @Param month query int true "Month" minimum(1) maximum(12)
// @Security Bearer
// @Success 200 {object} dto.APIResponse[dto.MonthlySummaryResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/transactions/summary/monthly [get]
func (h *SummaryHandler) MonthlySummary(c *fiber.Ctx) error {
	year, month, err := yearMonth(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	summary, err := h.summaryService.Monthly(c.UserContext(), year, month)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.OK(dto.NewMonthlySummaryResponse(summary)))
}

// WeeklySummary godoc
// @Summary Current week totals
// @Description Income, expense and net savings for the Monday to Sunday week containing today
// @Tags summary
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.APIResponse[dto.WeeklySummaryResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/transactions/summary/weekly [get]
func (h *SummaryHandler) WeeklySummary(c *fiber.Ctx) error {
	summary, err := h.summaryService.Weekly(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.OK(dto.NewWeeklySummaryResponse(summary)))
}

// CategoryBreakdown godoc
// @Summary Expenses per category
// @Description Expense totals grouped by category, largest first
// @Tags summary
// @Produce json
// @Param year query int true "Year" minimum(2000)
// @Param month query int true "Month" minimum(1) maximum(12)
// @Security Bearer
// @Success 200 {object} dto.APIResponse[dto.CategoryBreakdownResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/transactions/summary/category [get]
func (h *SummaryHandler) CategoryBreakdown(c *fiber.Ctx) error {
	year, month, err := yearMonth(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	breakdown, err := h.summaryService.CategoryBreakdown(c.UserContext(), year, month)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.OK(dto.NewCategoryBreakdownResponse(breakdown)))
}

// Projection godoc
// @Summary Month-end spending projection
// @Description Linear extrapolation of month-end spending from spending to date
// @Tags summary
// @Produce json
// @Param year query int true "Year" minimum(2000)
// @Param month query int true "Month" minimum(1) maximum(12)
// @Security Bearer
// @Success 200 {object} dto.APIResponse[dto.ProjectionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/transactions/summary/projection [get]
func (h *SummaryHandler) Projection(c *fiber.Ctx) error {
	year, month, err := yearMonth(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	projection, err := h.summaryService.Projection(c.UserContext(), year, month)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.OK(dto.NewProjectionResponse(projection)))
}

// DailySpending godoc
// @Summary Daily expenses
// @Description Expense totals per day of the month; days without spending are omitted
// @Tags summary
// @Produce json
// @Param year query int true "Year" minimum(2000)
// @Param month query int true "Month" minimum(1) maximum(12)
// @Security Bearer
// @Success 200 {object} dto.APIResponse[dto.DailySpendingResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/transactions/summary/daily [get]
func (h *SummaryHandler) DailySpending(c *fiber.Ctx) error {
	year, month, err := yearMonth(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	daily, err := h.summaryService.DailySpending(c.UserContext(), year, month)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.OK(dto.NewDailySpendingResponse(daily)))
}
