package repository

import (
	"context"
	"errors"
	"fmt"

	"expense-tracker/internal/models"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("record not found")

// TransactionStore persists transactions and answers the aggregate queries
// the summary service is built on.
type TransactionStore interface {
	Insert(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	GetByID(ctx context.Context, id int64) (*models.Transaction, error)
	UpdateFields(ctx context.Context, id int64, patch models.TransactionPatch) (*models.Transaction, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
	Filter(ctx context.Context, f Filter) ([]*models.Transaction, error)
	Count(ctx context.Context, f Filter) (int64, error)
	Sum(ctx context.Context, start, end models.Date, txType *models.TransactionType) (decimal.Decimal, error)
	GroupSumByField(ctx context.Context, field GroupField, start, end models.Date, txType *models.TransactionType) ([]GroupTotal, error)
	DailyTotals(ctx context.Context, start, end models.Date, txType *models.TransactionType) ([]DailyTotal, error)
}

// Filter narrows Filter and Count. Nil fields are ignored; Limit 0 means no limit.
type Filter struct {
	StartDate *models.Date
	EndDate   *models.Date
	Year      *int
	Month     *int
	Type      *models.TransactionType
	Category  *models.TransactionCategory
	Offset    int
	Limit     int
}

type GroupField string

const (
	GroupByCategory GroupField = "category"
	GroupByType     GroupField = "type"
)

func (f GroupField) Validate() error {
	switch f {
	case GroupByCategory, GroupByType:
		return nil
	default:
		return fmt.Errorf("unsupported group field %q", string(f))
	}
}

type GroupTotal struct {
	Key   string
	Total decimal.Decimal
}

type DailyTotal struct {
	Date  models.Date
	Total decimal.Decimal
}
