package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"expense-tracker/internal/models"
	"expense-tracker/internal/repository"
	"expense-tracker/internal/repository/memory"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var errBoom = errors.New("connection reset")

type recordingPublisher struct {
	mu       sync.Mutex
	keys     []string
	payloads []TransactionEvent
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	p.payloads = append(p.payloads, payload.(TransactionEvent))
	return p.err
}

// failingStore fails every call it overrides.
type failingStore struct {
	repository.TransactionStore
}

func (failingStore) Insert(context.Context, *models.Transaction) (*models.Transaction, error) {
	return nil, errBoom
}

func (failingStore) GetByID(context.Context, int64) (*models.Transaction, error) {
	return nil, errBoom
}

func (failingStore) DeleteByID(context.Context, int64) (bool, error) {
	return false, errBoom
}

func (failingStore) Sum(context.Context, models.Date, models.Date, *models.TransactionType) (decimal.Decimal, error) {
	return decimal.Zero, errBoom
}

type fixture struct {
	store        *memory.Store
	publisher    *recordingPublisher
	transactions *TransactionService
	summaries    *SummaryService
}

func newFixture(today time.Time) *fixture {
	store := memory.New().WithClock(func() time.Time { return today })
	publisher := &recordingPublisher{}
	clock := NewFixedClock(today)
	logger := zap.NewNop()
	return &fixture{
		store:        store,
		publisher:    publisher,
		transactions: NewTransactionService(store, NewEventEmitter(publisher, "transaction", logger), clock, logger),
		summaries:    NewSummaryService(store, clock, logger),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func at(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func strPtr(s string) *string {
	return &s
}

func (f *fixture) add(t *testing.T, amount string, txType models.TransactionType, category models.TransactionCategory, date *time.Time) *models.Transaction {
	t.Helper()
	tx, err := f.transactions.Create(context.Background(), CreateTransactionInput{
		Amount:          dec(amount),
		Type:            txType,
		Category:        category,
		TransactionDate: date,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return tx
}
