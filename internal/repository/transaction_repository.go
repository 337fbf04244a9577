package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"expense-tracker/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionRepository is the PostgreSQL TransactionStore.
type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
	d      dialect
}

var _ TransactionStore = (*TransactionRepository)(nil)

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
		d:      postgresDialect,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgresTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		tx       models.Transaction
		txType   string
		category string
		date     time.Time
	)
	if err := row.Scan(&tx.ID, &tx.Amount, &txType, &category, &tx.Description, &date, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
		return nil, err
	}
	tx.Type = models.TransactionType(txType)
	tx.Category = models.TransactionCategory(category)
	tx.TransactionDate = models.DateOf(date)
	return &tx, nil
}

func (r *TransactionRepository) Insert(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	query := squirrel.Insert(transactionsTable).
		Columns("amount", "type", "category", "description", "transaction_date").
		Values(tx.Amount, string(tx.Type), string(tx.Category), tx.Description, tx.TransactionDate.Time).
		Suffix("RETURNING " + strings.Join(r.d.columns(), ", ")).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var created *models.Transaction
	err = pgx.BeginFunc(ctx, r.db, func(dbtx pgx.Tx) error {
		var scanErr error
		created, scanErr = scanPostgresTransaction(dbtx.QueryRow(ctx, sql, args...))
		return scanErr
	})
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	r.logger.Debug("Transaction inserted", zap.Int64("transaction_id", created.ID))
	return created, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	sql, args, err := r.d.selectByID(id).ToSql()
	if err != nil {
		return nil, err
	}

	tx, err := scanPostgresTransaction(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

func (r *TransactionRepository) UpdateFields(ctx context.Context, id int64, patch models.TransactionPatch) (*models.Transaction, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	query := squirrel.Update(transactionsTable).PlaceholderFormat(squirrel.Dollar)
	if v, ok := patch.Amount.Get(); ok {
		query = query.Set("amount", v)
	}
	if v, ok := patch.Type.Get(); ok {
		query = query.Set("type", string(v))
	}
	if v, ok := patch.Category.Get(); ok {
		query = query.Set("category", string(v))
	}
	if v, ok := patch.Description.Get(); ok {
		query = query.Set("description", v)
	}
	if v, ok := patch.TransactionDate.Get(); ok {
		query = query.Set("transaction_date", v.Time)
	}
	query = query.
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(r.d.columns(), ", "))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var updated *models.Transaction
	err = pgx.BeginFunc(ctx, r.db, func(dbtx pgx.Tx) error {
		var scanErr error
		updated, scanErr = scanPostgresTransaction(dbtx.QueryRow(ctx, sql, args...))
		return scanErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update transaction %d: %w", id, err)
	}
	return updated, nil
}

func (r *TransactionRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	sql, args, err := r.d.deleteQuery(id).ToSql()
	if err != nil {
		return false, err
	}

	var deleted bool
	err = pgx.BeginFunc(ctx, r.db, func(dbtx pgx.Tx) error {
		tag, execErr := dbtx.Exec(ctx, sql, args...)
		if execErr != nil {
			return execErr
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return deleted, nil
}

func (r *TransactionRepository) Filter(ctx context.Context, f Filter) ([]*models.Transaction, error) {
	sql, args, err := r.d.filterQuery(f).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("filter transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		tx, err := scanPostgresTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func (r *TransactionRepository) Count(ctx context.Context, f Filter) (int64, error) {
	sql, args, err := r.d.countQuery(f).ToSql()
	if err != nil {
		return 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return total, nil
}

func (r *TransactionRepository) Sum(ctx context.Context, start, end models.Date, txType *models.TransactionType) (decimal.Decimal, error) {
	sql, args, err := r.d.sumQuery(start, end, txType).ToSql()
	if err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}
	return total, nil
}

func (r *TransactionRepository) GroupSumByField(ctx context.Context, field GroupField, start, end models.Date, txType *models.TransactionType) ([]GroupTotal, error) {
	if err := field.Validate(); err != nil {
		return nil, err
	}

	sql, args, err := r.d.groupSumQuery(field, start, end, txType).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("group transactions by %s: %w", field, err)
	}
	defer rows.Close()

	var totals []GroupTotal
	for rows.Next() {
		var g GroupTotal
		if err := rows.Scan(&g.Key, &g.Total); err != nil {
			return nil, err
		}
		totals = append(totals, g)
	}

	return totals, rows.Err()
}

func (r *TransactionRepository) DailyTotals(ctx context.Context, start, end models.Date, txType *models.TransactionType) ([]DailyTotal, error) {
	sql, args, err := r.d.dailyTotalsQuery(start, end, txType).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()

	var totals []DailyTotal
	for rows.Next() {
		var (
			day   time.Time
			total decimal.Decimal
		)
		if err := rows.Scan(&day, &total); err != nil {
			return nil, err
		}
		totals = append(totals, DailyTotal{Date: models.DateOf(day), Total: total})
	}

	return totals, rows.Err()
}
