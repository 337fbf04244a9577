// Package memory provides a process-local TransactionStore used for the
// memory backend and in tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"expense-tracker/internal/models"
	"expense-tracker/internal/repository"

	"github.com/shopspring/decimal"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []*models.Transaction
	now    func() time.Time
}

var _ repository.TransactionStore = (*Store)(nil)

func New() *Store {
	return &Store{nextID: 1, now: time.Now}
}

// WithClock replaces the clock used for created_at/updated_at.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func clone(tx *models.Transaction) *models.Transaction {
	c := *tx
	if tx.Description != nil {
		d := *tx.Description
		c.Description = &d
	}
	return &c
}

func (s *Store) Insert(_ context.Context, tx *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := clone(tx)
	stored.ID = s.nextID
	stored.Amount = stored.Amount.Round(2)
	stored.CreatedAt = s.now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	s.nextID++
	s.items = append(s.items, stored)
	return clone(stored), nil
}

func (s *Store) find(id int64) int {
	for i, tx := range s.items {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) GetByID(_ context.Context, id int64) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	return clone(s.items[i]), nil
}

func (s *Store) UpdateFields(_ context.Context, id int64, patch models.TransactionPatch) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	if patch.IsEmpty() {
		return clone(s.items[i]), nil
	}

	updated := clone(s.items[i])
	patch.Apply(updated)
	updated.Amount = updated.Amount.Round(2)
	updated.UpdatedAt = s.now().UTC()
	s.items[i] = updated
	return clone(updated), nil
}

func (s *Store) DeleteByID(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		return false, nil
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true, nil
}

func matches(tx *models.Transaction, f repository.Filter) bool {
	if f.StartDate != nil && tx.TransactionDate.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && tx.TransactionDate.After(*f.EndDate) {
		return false
	}
	if f.Year != nil && tx.TransactionDate.Year() != *f.Year {
		return false
	}
	if f.Month != nil && int(tx.TransactionDate.Month()) != *f.Month {
		return false
	}
	if f.Type != nil && tx.Type != *f.Type {
		return false
	}
	if f.Category != nil && tx.Category != *f.Category {
		return false
	}
	return true
}

func inRange(tx *models.Transaction, start, end models.Date, txType *models.TransactionType) bool {
	return matches(tx, repository.Filter{StartDate: &start, EndDate: &end, Type: txType})
}

func (s *Store) Filter(_ context.Context, f repository.Filter) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Transaction, 0)
	for _, tx := range s.items {
		if matches(tx, f) {
			out = append(out, clone(tx))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.After(out[j].TransactionDate)
		}
		return out[i].ID > out[j].ID
	})

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []*models.Transaction{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) Count(_ context.Context, f repository.Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, tx := range s.items {
		if matches(tx, f) {
			n++
		}
	}
	return n, nil
}

func (s *Store) Sum(_ context.Context, start, end models.Date, txType *models.TransactionType) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, tx := range s.items {
		if inRange(tx, start, end, txType) {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

func (s *Store) GroupSumByField(_ context.Context, field repository.GroupField, start, end models.Date, txType *models.TransactionType) ([]repository.GroupTotal, error) {
	if err := field.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sums := map[string]decimal.Decimal{}
	for _, tx := range s.items {
		if !inRange(tx, start, end, txType) {
			continue
		}
		key := string(tx.Category)
		if field == repository.GroupByType {
			key = string(tx.Type)
		}
		sums[key] = sums[key].Add(tx.Amount)
	}

	totals := make([]repository.GroupTotal, 0, len(sums))
	for k, v := range sums {
		totals = append(totals, repository.GroupTotal{Key: k, Total: v})
	}
	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].Total.Cmp(totals[j].Total); c != 0 {
			return c > 0
		}
		return totals[i].Key < totals[j].Key
	})
	return totals, nil
}

func (s *Store) DailyTotals(_ context.Context, start, end models.Date, txType *models.TransactionType) ([]repository.DailyTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := map[string]*repository.DailyTotal{}
	for _, tx := range s.items {
		if !inRange(tx, start, end, txType) {
			continue
		}
		key := tx.TransactionDate.String()
		if _, ok := sums[key]; !ok {
			sums[key] = &repository.DailyTotal{Date: tx.TransactionDate, Total: decimal.Zero}
		}
		sums[key].Total = sums[key].Total.Add(tx.Amount)
	}

	totals := make([]repository.DailyTotal, 0, len(sums))
	for _, v := range sums {
		totals = append(totals, *v)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Date.Before(totals[j].Date)
	})
	return totals, nil
}
