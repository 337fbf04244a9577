package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"expense-tracker/internal/models"
	"expense-tracker/internal/repository"

	"go.uber.org/zap"
)

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	tests := []string{"0", "-0.01", "-100", "0.004", "-0.004"}

	for _, amount := range tests {
		t.Run(amount, func(t *testing.T) {
			f := newFixture(time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC))

			_, err := f.transactions.Create(context.Background(), CreateTransactionInput{
				Amount:   dec(amount),
				Type:     models.TransactionTypeExpense,
				Category: models.CategoryFood,
			})

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Create() error = %v, want ValidationError", err)
			}
			if vErr.Message != "Amount must be greater than zero" {
				t.Errorf("message = %q", vErr.Message)
			}

			count, _ := f.store.Count(context.Background(), repository.Filter{})
			if count != 0 {
				t.Errorf("stored %d records, want 0", count)
			}
			if len(f.publisher.keys) != 0 {
				t.Errorf("published %d events, want 0", len(f.publisher.keys))
			}
		})
	}
}

func TestCreateNormalizesDate(t *testing.T) {
	today := time.Date(2024, time.March, 15, 23, 30, 0, 0, time.UTC)
	f := newFixture(today)

	withTime := time.Date(2024, time.February, 3, 18, 45, 12, 0, time.UTC)
	tx := f.add(t, "10.50", models.TransactionTypeExpense, models.CategoryFood, &withTime)
	if got := tx.TransactionDate.String(); got != "2024-02-03" {
		t.Errorf("TransactionDate = %s, want 2024-02-03", got)
	}
	if tx.TransactionDate.Hour() != 0 || tx.TransactionDate.Minute() != 0 {
		t.Errorf("time of day not discarded: %v", tx.TransactionDate.Time)
	}

	defaulted := f.add(t, "1", models.TransactionTypeIncome, models.CategorySalary, nil)
	if got := defaulted.TransactionDate.String(); got != "2024-03-15" {
		t.Errorf("default TransactionDate = %s, want 2024-03-15", got)
	}
	if defaulted.ID == 0 || defaulted.CreatedAt.IsZero() || defaulted.UpdatedAt.IsZero() {
		t.Errorf("expected id and timestamps, got %+v", defaulted)
	}
}

func TestCreateUsesClockLocationForToday(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2024-05-31 20:00 UTC is already June 1st at UTC+10.
	now := time.Date(2024, time.May, 31, 20, 0, 0, 0, time.UTC).In(loc)
	f := newFixture(now)

	tx := f.add(t, "5", models.TransactionTypeExpense, models.CategoryTransport, nil)
	if got := tx.TransactionDate.String(); got != "2024-06-01" {
		t.Errorf("TransactionDate = %s, want 2024-06-01", got)
	}
}

func TestCreateValidatesDescription(t *testing.T) {
	f := newFixture(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))

	_, err := f.transactions.Create(context.Background(), CreateTransactionInput{
		Amount:      dec("1"),
		Type:        models.TransactionTypeExpense,
		Category:    models.CategoryOther,
		Description: strPtr(strings.Repeat("x", models.MaxDescriptionLength+1)),
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Create() error = %v, want ValidationError", err)
	}

	tx, err := f.transactions.Create(context.Background(), CreateTransactionInput{
		Amount:      dec("1"),
		Type:        models.TransactionTypeExpense,
		Category:    models.CategoryOther,
		Description: strPtr("caf\xffe"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if *tx.Description != "cafe" {
		t.Errorf("Description = %q, want invalid bytes dropped", *tx.Description)
	}
}

func TestCreateWrapsStoreFailure(t *testing.T) {
	logger := zap.NewNop()
	svc := NewTransactionService(failingStore{}, nil, NewFixedClock(time.Now()), logger)

	_, err := svc.Create(context.Background(), CreateTransactionInput{
		Amount:   dec("1"),
		Type:     models.TransactionTypeExpense,
		Category: models.CategoryFood,
	})

	var iErr *InternalError
	if !errors.As(err, &iErr) {
		t.Fatalf("Create() error = %v, want InternalError", err)
	}
	if !errors.Is(err, errBoom) {
		t.Errorf("InternalError does not wrap cause: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	f := newFixture(time.Now())

	_, err := f.transactions.GetByID(context.Background(), 42)
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("GetByID() error = %v, want NotFoundError", err)
	}
	if nfErr.Error() != "Transaction not found" {
		t.Errorf("message = %q", nfErr.Error())
	}

	svc := NewTransactionService(failingStore{}, nil, NewFixedClock(time.Now()), zap.NewNop())
	_, err = svc.GetByID(context.Background(), 1)
	var iErr *InternalError
	if !errors.As(err, &iErr) {
		t.Errorf("GetByID() error = %v, want InternalError", err)
	}
}

func TestUpdateOnlyTouchesSuppliedFields(t *testing.T) {
	f := newFixture(time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	created, err := f.transactions.Create(ctx, CreateTransactionInput{
		Amount:          dec("100"),
		Type:            models.TransactionTypeExpense,
		Category:        models.CategoryFood,
		Description:     strPtr("lunch"),
		TransactionDate: at(2024, time.January, 5),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := f.transactions.Update(ctx, created.ID, UpdateTransactionInput{
		Amount: models.Some(dec("120.456")),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if !updated.Amount.Equal(dec("120.46")) {
		t.Errorf("Amount = %s, want 120.46", updated.Amount)
	}
	if updated.Type != created.Type || updated.Category != created.Category {
		t.Errorf("type/category changed: %s/%s", updated.Type, updated.Category)
	}
	if updated.Description == nil || *updated.Description != "lunch" {
		t.Errorf("Description = %v, want lunch", updated.Description)
	}
	if !updated.TransactionDate.Equal(created.TransactionDate) {
		t.Errorf("TransactionDate = %s, want %s", updated.TransactionDate, created.TransactionDate)
	}

	cleared, err := f.transactions.Update(ctx, created.ID, UpdateTransactionInput{
		Description:     models.Some[*string](nil),
		TransactionDate: models.Some(time.Date(2024, time.January, 7, 22, 10, 0, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if cleared.Description != nil {
		t.Errorf("Description = %q, want nil", *cleared.Description)
	}
	if got := cleared.TransactionDate.String(); got != "2024-01-07" {
		t.Errorf("TransactionDate = %s, want 2024-01-07", got)
	}
	if !cleared.Amount.Equal(dec("120.46")) {
		t.Errorf("Amount = %s, want 120.46", cleared.Amount)
	}
}

func TestCreateRejectsOversizedAmount(t *testing.T) {
	tests := []struct {
		amount  string
		wantErr bool
	}{
		{amount: "99999999.99", wantErr: false},
		{amount: "99999999.994", wantErr: false},
		{amount: "99999999.995", wantErr: true},
		{amount: "100000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			f := newFixture(time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC))

			_, err := f.transactions.Create(context.Background(), CreateTransactionInput{
				Amount:   dec(tt.amount),
				Type:     models.TransactionTypeIncome,
				Category: models.CategorySalary,
			})

			var vErr *ValidationError
			if got := errors.As(err, &vErr); got != tt.wantErr {
				t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && vErr.Message != "Amount must not exceed 99999999.99" {
				t.Errorf("message = %q", vErr.Message)
			}
		})
	}
}

func TestUpdateRejectsAmountThatRoundsOutOfRange(t *testing.T) {
	tests := []string{"0.004", "0", "100000000"}

	for _, amount := range tests {
		t.Run(amount, func(t *testing.T) {
			f := newFixture(time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC))
			ctx := context.Background()
			tx := f.add(t, "10", models.TransactionTypeExpense, models.CategoryFood, nil)

			_, err := f.transactions.Update(ctx, tx.ID, UpdateTransactionInput{Amount: models.Some(dec(amount))})

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Update() error = %v, want ValidationError", err)
			}
			stored, _ := f.transactions.GetByID(ctx, tx.ID)
			if !stored.Amount.Equal(dec("10")) {
				t.Errorf("Amount changed to %s after rejected update", stored.Amount)
			}
		})
	}
}

func TestUpdateValidationAndNotFound(t *testing.T) {
	f := newFixture(time.Now())
	ctx := context.Background()
	tx := f.add(t, "10", models.TransactionTypeExpense, models.CategoryFood, nil)

	_, err := f.transactions.Update(ctx, tx.ID, UpdateTransactionInput{Amount: models.Some(dec("0"))})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Update() error = %v, want ValidationError", err)
	}
	stored, _ := f.transactions.GetByID(ctx, tx.ID)
	if !stored.Amount.Equal(dec("10")) {
		t.Errorf("Amount changed to %s after rejected update", stored.Amount)
	}

	_, err = f.transactions.Update(ctx, 999, UpdateTransactionInput{Amount: models.Some(dec("5"))})
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Errorf("Update() error = %v, want NotFoundError", err)
	}

	_, err = f.transactions.Update(ctx, 999, UpdateTransactionInput{})
	if !errors.As(err, &nfErr) {
		t.Errorf("empty Update() error = %v, want NotFoundError", err)
	}

	same, err := f.transactions.Update(ctx, tx.ID, UpdateTransactionInput{})
	if err != nil {
		t.Fatalf("empty Update() error = %v", err)
	}
	if !same.Amount.Equal(dec("10")) {
		t.Errorf("Amount = %s, want 10", same.Amount)
	}
}

func TestDeleteTwice(t *testing.T) {
	f := newFixture(time.Now())
	ctx := context.Background()
	tx := f.add(t, "10", models.TransactionTypeExpense, models.CategoryFood, nil)

	ok, err := f.transactions.Delete(ctx, tx.ID)
	if err != nil || !ok {
		t.Fatalf("first Delete() = %v, %v; want true, nil", ok, err)
	}

	ok, err = f.transactions.Delete(ctx, tx.ID)
	var nfErr *NotFoundError
	if ok || !errors.As(err, &nfErr) {
		t.Fatalf("second Delete() = %v, %v; want false, NotFoundError", ok, err)
	}

	svc := NewTransactionService(failingStore{}, nil, NewFixedClock(time.Now()), zap.NewNop())
	_, err = svc.Delete(ctx, 1)
	var iErr *InternalError
	if !errors.As(err, &iErr) {
		t.Errorf("Delete() error = %v, want InternalError", err)
	}
}

func TestListPagination(t *testing.T) {
	f := newFixture(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// one record per day, Jan 1..25
	for day := 1; day <= 25; day++ {
		f.add(t, "1", models.TransactionTypeExpense, models.CategoryFood, at(2024, time.January, day))
	}

	page, err := f.transactions.List(ctx, ListTransactionsInput{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Total != 25 {
		t.Errorf("Total = %d, want 25", page.Total)
	}
	if len(page.Items) != 10 {
		t.Fatalf("len(Items) = %d, want 10", len(page.Items))
	}
	// records 11..20 by descending date are Jan 15 down to Jan 6
	if got := page.Items[0].TransactionDate.String(); got != "2024-01-15" {
		t.Errorf("first item date = %s, want 2024-01-15", got)
	}
	if got := page.Items[9].TransactionDate.String(); got != "2024-01-06" {
		t.Errorf("last item date = %s, want 2024-01-06", got)
	}

	last, err := f.transactions.List(ctx, ListTransactionsInput{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(last.Items) != 5 {
		t.Errorf("len(Items) = %d, want 5", len(last.Items))
	}
}

func TestListTieBreakAndFilters(t *testing.T) {
	f := newFixture(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	a := f.add(t, "1", models.TransactionTypeExpense, models.CategoryFood, at(2024, time.January, 3))
	b := f.add(t, "2", models.TransactionTypeIncome, models.CategorySalary, at(2024, time.January, 3))
	f.add(t, "3", models.TransactionTypeExpense, models.CategoryRent, at(2024, time.January, 20))

	page, err := f.transactions.List(ctx, ListTransactionsInput{
		Page:     1,
		PageSize: 10,
		EndDate:  &models.Date{Time: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("got total=%d items=%d, want 2/2", page.Total, len(page.Items))
	}
	if page.Items[0].ID != b.ID || page.Items[1].ID != a.ID {
		t.Errorf("same-date order = %d,%d; want %d,%d", page.Items[0].ID, page.Items[1].ID, b.ID, a.ID)
	}

	expense := models.TransactionTypeExpense
	page, err = f.transactions.List(ctx, ListTransactionsInput{Page: 1, PageSize: 10, Type: &expense})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Total != 2 {
		t.Errorf("expense Total = %d, want 2", page.Total)
	}
}

func TestListValidation(t *testing.T) {
	f := newFixture(time.Now())
	start := models.NewDate(2024, time.March, 1)
	end := models.NewDate(2024, time.February, 1)

	tests := []struct {
		name  string
		input ListTransactionsInput
	}{
		{"page zero", ListTransactionsInput{Page: 0, PageSize: 10}},
		{"size zero", ListTransactionsInput{Page: 1, PageSize: 0}},
		{"size too big", ListTransactionsInput{Page: 1, PageSize: MaxPageSize + 1}},
		{"inverted range", ListTransactionsInput{Page: 1, PageSize: 10, StartDate: &start, EndDate: &end}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.transactions.List(context.Background(), tt.input)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("List() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestLifecycleEvents(t *testing.T) {
	f := newFixture(time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	tx := f.add(t, "12.5", models.TransactionTypeExpense, models.CategoryFood, nil)
	if _, err := f.transactions.Update(ctx, tx.ID, UpdateTransactionInput{Category: models.Some(models.CategoryGroceries)}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, err := f.transactions.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	want := []string{"transaction.created", "transaction.updated", "transaction.deleted"}
	if len(f.publisher.keys) != len(want) {
		t.Fatalf("published %v, want %v", f.publisher.keys, want)
	}
	for i, key := range want {
		if f.publisher.keys[i] != key {
			t.Errorf("key[%d] = %s, want %s", i, f.publisher.keys[i], key)
		}
	}

	created := f.publisher.payloads[0]
	if created.Transaction == nil || created.Transaction.Amount != "12.50" {
		t.Errorf("created payload = %+v", created.Transaction)
	}
	if created.EventID == "" || created.TransactionID != tx.ID {
		t.Errorf("created event = %+v", created)
	}
	if f.publisher.payloads[2].Transaction != nil {
		t.Error("deleted event should not carry a transaction")
	}
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(time.Now())
	f.publisher.err = errBoom

	tx := f.add(t, "1", models.TransactionTypeIncome, models.CategoryBonus, nil)
	if tx.ID == 0 {
		t.Fatal("expected transaction to be created")
	}
}
