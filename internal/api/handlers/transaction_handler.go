package handlers

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/models"
	"expense-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	txService *service.TransactionService
	logger    *zap.Logger
}

func NewTransactionHandler(txService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		logger:    logger,
	}
}

func parseTransactionType(s string) (models.TransactionType, error) {
	t, err := models.ParseTransactionType(s)
	if err != nil {
		return "", fmt.Errorf("type must be one of %v", models.TransactionTypes())
	}
	return t, nil
}

func parseCategory(s string) (models.TransactionCategory, error) {
	c, err := models.ParseCategory(s)
	if err != nil {
		return "", fmt.Errorf("category must be one of %v", models.Categories())
	}
	return c, nil
}

func checkDescription(d string) error {
	if utf8.RuneCountInString(d) > models.MaxDescriptionLength {
		return fmt.Errorf("description must be at most %d characters", models.MaxDescriptionLength)
	}
	return nil
}

func (h *TransactionHandler) toCreateInput(req *dto.CreateTransactionRequest) (service.CreateTransactionInput, error) {
	var input service.CreateTransactionInput

	if req.Amount == nil {
		return input, errors.New("amount is required")
	}
	txType, err := parseTransactionType(req.Type)
	if err != nil {
		return input, err
	}
	category, err := parseCategory(req.Category)
	if err != nil {
		return input, err
	}
	if req.Description != nil {
		if err := checkDescription(*req.Description); err != nil {
			return input, err
		}
	}

	input.Amount = *req.Amount
	input.Type = txType
	input.Category = category
	input.Description = req.Description

	if req.TransactionDate != nil && *req.TransactionDate != "" {
		t, err := models.ParseDateTime(*req.TransactionDate)
		if err != nil {
			return input, err
		}
		input.TransactionDate = &t
	}
	return input, nil
}

func (h *TransactionHandler) toUpdateInput(req *dto.UpdateTransactionRequest) (service.UpdateTransactionInput, error) {
	var input service.UpdateTransactionInput

	nulls := []struct {
		name string
		null bool
	}{
		{"amount", req.Amount.Null},
		{"type", req.Type.Null},
		{"category", req.Category.Null},
		{"transaction_date", req.TransactionDate.Null},
	}
	for _, f := range nulls {
		if f.null {
			return input, fmt.Errorf("%s cannot be null", f.name)
		}
	}

	if req.Amount.Set {
		input.Amount = models.Some(req.Amount.Value)
	}
	if req.Type.Set {
		t, err := parseTransactionType(req.Type.Value)
		if err != nil {
			return input, err
		}
		input.Type = models.Some(t)
	}
	if req.Category.Set {
		c, err := parseCategory(req.Category.Value)
		if err != nil {
			return input, err
		}
		input.Category = models.Some(c)
	}
	if req.Description.Set {
		if req.Description.Null {
			input.Description = models.Some[*string](nil)
		} else {
			if err := checkDescription(req.Description.Value); err != nil {
				return input, err
			}
			d := req.Description.Value
			input.Description = models.Some(&d)
		}
	}
	if req.TransactionDate.Set {
		t, err := models.ParseDateTime(req.TransactionDate.Value)
		if err != nil {
			return input, err
		}
		input.TransactionDate = models.Some[time.Time](t)
	}
	return input, nil
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Record an income or expense. transaction_date defaults to today; a time component is dropped.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.CreateTransactionRequest true "Transaction"
// @Security Bearer
// @Success 201 {object} dto.APIResponse[dto.TransactionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req dto.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	input, err := h.toCreateInput(&req)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	tx, err := h.txService.Create(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OK(dto.NewTransactionResponse(tx)))
}

// ListTransactions godoc
// @Summary List transactions
// @Description Paginated list ordered by transaction date, newest first
// @Tags transactions
// @Produce json
// @Param page_no query int false "Page number" default(1) minimum(1)
// @Param max_per_page query int false "Page size" default(10) minimum(1) maximum(100)
// @Param type query string false "Filter by type" Enums(income, expense)
// @Param category query string false "Filter by category"
// @Param start_date query string false "Earliest transaction date (YYYY-MM-DD)"
// @Param end_date query string false "Latest transaction date (YYYY-MM-DD)"
// @Security Bearer
// @Success 200 {object} dto.APIResponse[dto.PaginatedResponse[dto.TransactionResponse]]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	page, err := queryInt(c, "page_no", 1)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	size, err := queryInt(c, "max_per_page", service.DefaultPageSize)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	input := service.ListTransactionsInput{Page: page, PageSize: size}

	if raw := c.Query("type"); raw != "" {
		t, err := parseTransactionType(raw)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		input.Type = &t
	}
	if raw := c.Query("category"); raw != "" {
		cat, err := parseCategory(raw)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		input.Category = &cat
	}
	if raw := c.Query("start_date"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		input.StartDate = &d
	}
	if raw := c.Query("end_date"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		input.EndDate = &d
	}

	result, err := h.txService.List(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	items := dto.NewTransactionResponses(result.Items)
	return c.JSON(dto.OK(dto.PaginatedResponse[dto.TransactionResponse]{
		Data:         items,
		Total:        result.Total,
		PageNo:       result.Page,
		MaxPerPage:   result.PageSize,
		CurrentCount: len(items),
	}))
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Security Bearer
// @Success 200 {object} dto.APIResponse[dto.TransactionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	tx, err := h.txService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.OK(dto.NewTransactionResponse(tx)))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Partial update: only keys present in the body change. description may be null to clear it.
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param request body dto.UpdateTransactionRequest true "Fields to change"
// @Security Bearer
// @Success 200 {object} dto.APIResponse[dto.TransactionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/transactions/{id} [put]
// @Router /api/v1/transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	var req dto.UpdateTransactionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	input, err := h.toUpdateInput(&req)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	tx, err := h.txService.Update(c.UserContext(), id, input)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.OK(dto.NewTransactionResponse(tx)))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Security Bearer
// @Success 200 {object} dto.APIResponse[bool]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	deleted, err := h.txService.Delete(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.OK(deleted))
}
