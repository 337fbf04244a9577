package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

type TransactionCategory string

const (
	CategorySalary        TransactionCategory = "salary"
	CategoryBonus         TransactionCategory = "bonus"
	CategoryFreelance     TransactionCategory = "freelance"
	CategoryInvestment    TransactionCategory = "investment"
	CategoryFood          TransactionCategory = "food"
	CategoryGroceries     TransactionCategory = "groceries"
	CategoryTransport     TransactionCategory = "transport"
	CategoryUtilities     TransactionCategory = "utilities"
	CategoryEntertainment TransactionCategory = "entertainment"
	CategoryHealthcare    TransactionCategory = "healthcare"
	CategoryShopping      TransactionCategory = "shopping"
	CategoryEducation     TransactionCategory = "education"
	CategoryRent          TransactionCategory = "rent"
	CategoryInsurance     TransactionCategory = "insurance"
	CategorySubscriptions TransactionCategory = "subscriptions"
	CategoryOther         TransactionCategory = "other"
)

// MaxDescriptionLength mirrors the VARCHAR(255) column.
const MaxDescriptionLength = 255

var transactionTypes = []TransactionType{TransactionTypeIncome, TransactionTypeExpense}

var categories = []TransactionCategory{
	CategorySalary, CategoryBonus, CategoryFreelance, CategoryInvestment,
	CategoryFood, CategoryGroceries, CategoryTransport, CategoryUtilities,
	CategoryEntertainment, CategoryHealthcare, CategoryShopping, CategoryEducation,
	CategoryRent, CategoryInsurance, CategorySubscriptions, CategoryOther,
}

type Transaction struct {
	ID              int64               `db:"id"`
	Amount          decimal.Decimal     `db:"amount"`
	Type            TransactionType     `db:"type"`
	Category        TransactionCategory `db:"category"`
	Description     *string             `db:"description"`
	TransactionDate Date                `db:"transaction_date"`
	CreatedAt       time.Time           `db:"created_at"`
	UpdatedAt       time.Time           `db:"updated_at"`
}

// TransactionTypes returns every accepted transaction type.
func TransactionTypes() []TransactionType {
	return append([]TransactionType(nil), transactionTypes...)
}

// Categories returns every accepted category in declaration order.
func Categories() []TransactionCategory {
	return append([]TransactionCategory(nil), categories...)
}

func (t TransactionType) Valid() bool {
	for _, v := range transactionTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (c TransactionCategory) Valid() bool {
	for _, v := range categories {
		if v == c {
			return true
		}
	}
	return false
}

func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid transaction type %q: must be one of %v", s, transactionTypes)
	}
	return t, nil
}

func ParseCategory(s string) (TransactionCategory, error) {
	c := TransactionCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("invalid category %q", s)
	}
	return c, nil
}
