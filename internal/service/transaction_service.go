package service

import (
	"context"
	"errors"
	"time"

	"expense-tracker/internal/models"
	"expense-tracker/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	MaxPageSize     = 100
	DefaultPageSize = 10
)

// MaxAmount is the largest amount the NUMERIC(10,2) column can hold.
var MaxAmount = decimal.RequireFromString("99999999.99")

type CreateTransactionInput struct {
	Amount          decimal.Decimal
	Type            models.TransactionType
	Category        models.TransactionCategory
	Description     *string
	TransactionDate *time.Time
}

// UpdateTransactionInput carries only the fields a caller supplied.
type UpdateTransactionInput struct {
	Amount          models.Optional[decimal.Decimal]
	Type            models.Optional[models.TransactionType]
	Category        models.Optional[models.TransactionCategory]
	Description     models.Optional[*string]
	TransactionDate models.Optional[time.Time]
}

type ListTransactionsInput struct {
	Page      int
	PageSize  int
	Type      *models.TransactionType
	Category  *models.TransactionCategory
	StartDate *models.Date
	EndDate   *models.Date
}

type TransactionPage struct {
	Items    []*models.Transaction
	Total    int64
	Page     int
	PageSize int
}

type TransactionService struct {
	store  repository.TransactionStore
	events *EventEmitter
	clock  *Clock
	logger *zap.Logger
}

func NewTransactionService(
	store repository.TransactionStore,
	events *EventEmitter,
	clock *Clock,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		store:  store,
		events: events,
		clock:  clock,
		logger: logger,
	}
}

// normalizeAmount rounds to cents and validates the rounded value.
func normalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	rounded := amount.Round(2)
	if !rounded.IsPositive() {
		return decimal.Zero, newValidationError("Amount must be greater than zero")
	}
	if rounded.GreaterThan(MaxAmount) {
		return decimal.Zero, newValidationError("Amount must not exceed %s", MaxAmount.StringFixed(2))
	}
	return rounded, nil
}

func (s *TransactionService) Create(ctx context.Context, input CreateTransactionInput) (*models.Transaction, error) {
	amount, err := normalizeAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	if !input.Type.Valid() {
		return nil, newValidationError("Invalid transaction type %q", input.Type)
	}
	if !input.Category.Valid() {
		return nil, newValidationError("Invalid category %q", input.Category)
	}
	description, err := normalizeDescription(input.Description)
	if err != nil {
		return nil, err
	}

	date := s.clock.Today()
	if input.TransactionDate != nil {
		date = models.DateOf(*input.TransactionDate)
	}

	created, err := s.store.Insert(ctx, &models.Transaction{
		Amount:          amount,
		Type:            input.Type,
		Category:        input.Category,
		Description:     description,
		TransactionDate: date,
	})
	if err != nil {
		s.logger.Error("Failed to create transaction", zap.Error(err))
		return nil, newInternalError("creating transaction", err)
	}

	s.logger.Info("Transaction created",
		zap.Int64("transaction_id", created.ID),
		zap.String("type", string(created.Type)),
		zap.String("category", string(created.Category)),
	)
	s.events.Emit(ctx, EventCreated, created.ID, created)

	return created, nil
}

func (s *TransactionService) List(ctx context.Context, input ListTransactionsInput) (*TransactionPage, error) {
	if input.Page < 1 {
		return nil, newValidationError("Page number must be at least 1")
	}
	if input.PageSize < 1 || input.PageSize > MaxPageSize {
		return nil, newValidationError("Page size must be between 1 and %d", MaxPageSize)
	}
	if input.Type != nil && !input.Type.Valid() {
		return nil, newValidationError("Invalid transaction type %q", *input.Type)
	}
	if input.Category != nil && !input.Category.Valid() {
		return nil, newValidationError("Invalid category %q", *input.Category)
	}
	if input.StartDate != nil && input.EndDate != nil && input.StartDate.After(*input.EndDate) {
		return nil, newValidationError("Start date must not be after end date")
	}

	filter := repository.Filter{
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Type:      input.Type,
		Category:  input.Category,
	}

	var (
		items []*models.Transaction
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page := filter
		page.Offset = (input.Page - 1) * input.PageSize
		page.Limit = input.PageSize
		var err error
		items, err = s.store.Filter(gctx, page)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to list transactions", zap.Error(err))
		return nil, newInternalError("fetching transactions", err)
	}

	return &TransactionPage{
		Items:    items,
		Total:    total,
		Page:     input.Page,
		PageSize: input.PageSize,
	}, nil
}

func (s *TransactionService) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	tx, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "Transaction", ID: id}
		}
		s.logger.Error("Failed to get transaction", zap.Int64("transaction_id", id), zap.Error(err))
		return nil, newInternalError("retrieving transaction", err)
	}
	return tx, nil
}

func (s *TransactionService) Update(ctx context.Context, id int64, input UpdateTransactionInput) (*models.Transaction, error) {
	var patch models.TransactionPatch

	if v, ok := input.Amount.Get(); ok {
		amount, err := normalizeAmount(v)
		if err != nil {
			return nil, err
		}
		patch.Amount = models.Some(amount)
	}
	if v, ok := input.Type.Get(); ok {
		if !v.Valid() {
			return nil, newValidationError("Invalid transaction type %q", v)
		}
		patch.Type = models.Some(v)
	}
	if v, ok := input.Category.Get(); ok {
		if !v.Valid() {
			return nil, newValidationError("Invalid category %q", v)
		}
		patch.Category = models.Some(v)
	}
	if v, ok := input.Description.Get(); ok {
		description, err := normalizeDescription(v)
		if err != nil {
			return nil, err
		}
		patch.Description = models.Some(description)
	}
	if v, ok := input.TransactionDate.Get(); ok {
		patch.TransactionDate = models.Some(models.DateOf(v))
	}

	updated, err := s.store.UpdateFields(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "Transaction", ID: id}
		}
		s.logger.Error("Failed to update transaction", zap.Int64("transaction_id", id), zap.Error(err))
		return nil, newInternalError("updating transaction", err)
	}

	if !patch.IsEmpty() {
		s.logger.Info("Transaction updated", zap.Int64("transaction_id", id))
		s.events.Emit(ctx, EventUpdated, id, updated)
	}
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to delete transaction", zap.Int64("transaction_id", id), zap.Error(err))
		return false, newInternalError("deleting transaction", err)
	}
	if !deleted {
		return false, &NotFoundError{Resource: "Transaction", ID: id}
	}

	s.logger.Info("Transaction deleted", zap.Int64("transaction_id", id))
	s.events.Emit(ctx, EventDeleted, id, nil)
	return true, nil
}
