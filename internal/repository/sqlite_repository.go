package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"expense-tracker/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SQLiteRepository is the SQLite TransactionStore. Amounts are stored as
// integer cents, dates as YYYY-MM-DD text.
type SQLiteRepository struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
	d      dialect
}

var _ TransactionStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB, logger *zap.Logger) *SQLiteRepository {
	return &SQLiteRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
		d:      sqliteDialect,
	}
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

func (r *SQLiteRepository) timestamp() string {
	return r.now().UTC().Format(time.RFC3339Nano)
}

func scanSQLiteTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		tx        models.Transaction
		cents     int64
		txType    string
		category  string
		desc      sql.NullString
		date      string
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&tx.ID, &cents, &txType, &category, &desc, &date, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	parsed, err := models.ParseDate(date)
	if err != nil {
		return nil, err
	}
	if tx.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if tx.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	tx.Amount = fromCents(cents)
	tx.Type = models.TransactionType(txType)
	tx.Category = models.TransactionCategory(category)
	tx.TransactionDate = parsed
	if desc.Valid {
		s := desc.String
		tx.Description = &s
	}
	return &tx, nil
}

// inTx runs fn inside a transaction that is rolled back unless fn succeeds.
func (r *SQLiteRepository) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) Insert(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	now := r.timestamp()
	query := squirrel.Insert(transactionsTable).
		Columns("amount_cents", "type", "category", "description", "transaction_date", "created_at", "updated_at").
		Values(toCents(tx.Amount), string(tx.Type), string(tx.Category), tx.Description, tx.TransactionDate.String(), now, now).
		Suffix("RETURNING " + strings.Join(r.d.columns(), ", ")).
		PlaceholderFormat(squirrel.Question)

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var created *models.Transaction
	err = r.inTx(ctx, func(dbtx *sql.Tx) error {
		var scanErr error
		created, scanErr = scanSQLiteTransaction(dbtx.QueryRowContext(ctx, stmt, args...))
		return scanErr
	})
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	r.logger.Debug("Transaction inserted", zap.Int64("transaction_id", created.ID))
	return created, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	query, args, err := r.d.selectByID(id).ToSql()
	if err != nil {
		return nil, err
	}

	tx, err := scanSQLiteTransaction(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

func (r *SQLiteRepository) UpdateFields(ctx context.Context, id int64, patch models.TransactionPatch) (*models.Transaction, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	query := squirrel.Update(transactionsTable).PlaceholderFormat(squirrel.Question)
	if v, ok := patch.Amount.Get(); ok {
		query = query.Set("amount_cents", toCents(v))
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
		query = query.Set("transaction_date", v.String())
	}
	query = query.
		Set("updated_at", r.timestamp()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(r.d.columns(), ", "))

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var updated *models.Transaction
	err = r.inTx(ctx, func(dbtx *sql.Tx) error {
		var scanErr error
		updated, scanErr = scanSQLiteTransaction(dbtx.QueryRowContext(ctx, stmt, args...))
		return scanErr
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update transaction %d: %w", id, err)
	}
	return updated, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	stmt, args, err := r.d.deleteQuery(id).ToSql()
	if err != nil {
		return false, err
	}

	var deleted bool
	err = r.inTx(ctx, func(dbtx *sql.Tx) error {
		res, execErr := dbtx.ExecContext(ctx, stmt, args...)
		if execErr != nil {
			return execErr
		}
		n, execErr := res.RowsAffected()
		if execErr != nil {
			return execErr
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return deleted, nil
}

func (r *SQLiteRepository) Filter(ctx context.Context, f Filter) ([]*models.Transaction, error) {
	stmt, args, err := r.d.filterQuery(f).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("filter transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		tx, err := scanSQLiteTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func (r *SQLiteRepository) Count(ctx context.Context, f Filter) (int64, error) {
	stmt, args, err := r.d.countQuery(f).ToSql()
	if err != nil {
		return 0, err
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return total, nil
}

func (r *SQLiteRepository) Sum(ctx context.Context, start, end models.Date, txType *models.TransactionType) (decimal.Decimal, error) {
	stmt, args, err := r.d.sumQuery(start, end, txType).ToSql()
	if err != nil {
		return decimal.Zero, err
	}

	var cents int64
	if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&cents); err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}
	return fromCents(cents), nil
}

func (r *SQLiteRepository) GroupSumByField(ctx context.Context, field GroupField, start, end models.Date, txType *models.TransactionType) ([]GroupTotal, error) {
	if err := field.Validate(); err != nil {
		return nil, err
	}

	stmt, args, err := r.d.groupSumQuery(field, start, end, txType).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("group transactions by %s: %w", field, err)
	}
	defer rows.Close()

	var totals []GroupTotal
	for rows.Next() {
		var (
			key   string
			cents int64
		)
		if err := rows.Scan(&key, &cents); err != nil {
			return nil, err
		}
		totals = append(totals, GroupTotal{Key: key, Total: fromCents(cents)})
	}

	return totals, rows.Err()
}

func (r *SQLiteRepository) DailyTotals(ctx context.Context, start, end models.Date, txType *models.TransactionType) ([]DailyTotal, error) {
	stmt, args, err := r.d.dailyTotalsQuery(start, end, txType).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()

	var totals []DailyTotal
	for rows.Next() {
		var (
			day   string
			cents int64
		)
		if err := rows.Scan(&day, &cents); err != nil {
			return nil, err
		}
		date, err := models.ParseDate(day)
		if err != nil {
			return nil, err
		}
		totals = append(totals, DailyTotal{Date: date, Total: fromCents(cents)})
	}

	return totals, rows.Err()
}
