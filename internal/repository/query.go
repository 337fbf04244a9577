package repository

import (
	"expense-tracker/internal/models"

	"github.com/Masterminds/squirrel"
)

const transactionsTable = "transactions"

// dialect captures the few places where the Postgres and SQLite schemas differ.
type dialect struct {
	placeholder  squirrel.PlaceholderFormat
	amountColumn string
	yearExpr     string
	monthExpr    string
	dateArg      func(models.Date) any
}

var postgresDialect = dialect{
	placeholder:  squirrel.Dollar,
	amountColumn: "amount",
	yearExpr:     "EXTRACT(YEAR FROM transaction_date) = ?",
	monthExpr:    "EXTRACT(MONTH FROM transaction_date) = ?",
	dateArg:      func(d models.Date) any { return d.Time },
}

var sqliteDialect = dialect{
	placeholder:  squirrel.Question,
	amountColumn: "amount_cents",
	yearExpr:     "CAST(strftime('%Y', transaction_date) AS INTEGER) = ?",
	monthExpr:    "CAST(strftime('%m', transaction_date) AS INTEGER) = ?",
	dateArg:      func(d models.Date) any { return d.String() },
}

func (d dialect) columns() []string {
	return []string{"id", d.amountColumn, "type", "category", "description", "transaction_date", "created_at", "updated_at"}
}

func (d dialect) where(b squirrel.SelectBuilder, f Filter) squirrel.SelectBuilder {
	if f.StartDate != nil {
		b = b.Where(squirrel.GtOrEq{"transaction_date": d.dateArg(*f.StartDate)})
	}
	if f.EndDate != nil {
		b = b.Where(squirrel.LtOrEq{"transaction_date": d.dateArg(*f.EndDate)})
	}
	if f.Year != nil {
		b = b.Where(d.yearExpr, *f.Year)
	}
	if f.Month != nil {
		b = b.Where(d.monthExpr, *f.Month)
	}
	if f.Type != nil {
		b = b.Where(squirrel.Eq{"type": string(*f.Type)})
	}
	if f.Category != nil {
		b = b.Where(squirrel.Eq{"category": string(*f.Category)})
	}
	return b
}

func (d dialect) inRange(b squirrel.SelectBuilder, start, end models.Date, txType *models.TransactionType) squirrel.SelectBuilder {
	b = b.Where(squirrel.GtOrEq{"transaction_date": d.dateArg(start)}).
		Where(squirrel.LtOrEq{"transaction_date": d.dateArg(end)})
	if txType != nil {
		b = b.Where(squirrel.Eq{"type": string(*txType)})
	}
	return b
}

func (d dialect) selectByID(id int64) squirrel.SelectBuilder {
	return squirrel.Select(d.columns()...).
		From(transactionsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(d.placeholder)
}

func (d dialect) filterQuery(f Filter) squirrel.SelectBuilder {
	b := squirrel.Select(d.columns()...).From(transactionsTable)
	b = d.where(b, f).OrderBy("transaction_date DESC", "id DESC")
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
	}
	return b.PlaceholderFormat(d.placeholder)
}

func (d dialect) countQuery(f Filter) squirrel.SelectBuilder {
	return d.where(squirrel.Select("COUNT(*)").From(transactionsTable), f).
		PlaceholderFormat(d.placeholder)
}

func (d dialect) sumQuery(start, end models.Date, txType *models.TransactionType) squirrel.SelectBuilder {
	b := squirrel.Select("COALESCE(SUM(" + d.amountColumn + "), 0)").From(transactionsTable)
	return d.inRange(b, start, end, txType).PlaceholderFormat(d.placeholder)
}

func (d dialect) groupSumQuery(field GroupField, start, end models.Date, txType *models.TransactionType) squirrel.SelectBuilder {
	col := string(field)
	b := squirrel.Select(col, "COALESCE(SUM("+d.amountColumn+"), 0) AS total").From(transactionsTable)
	return d.inRange(b, start, end, txType).
		GroupBy(col).
		OrderBy("total DESC", col+" ASC").
		PlaceholderFormat(d.placeholder)
}

func (d dialect) dailyTotalsQuery(start, end models.Date, txType *models.TransactionType) squirrel.SelectBuilder {
	b := squirrel.Select("transaction_date", "COALESCE(SUM("+d.amountColumn+"), 0) AS total").From(transactionsTable)
	return d.inRange(b, start, end, txType).
		GroupBy("transaction_date").
		OrderBy("transaction_date ASC").
		PlaceholderFormat(d.placeholder)
}

func (d dialect) deleteQuery(id int64) squirrel.DeleteBuilder {
	return squirrel.Delete(transactionsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(d.placeholder)
}
