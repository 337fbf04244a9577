package dto

import (
	"time"

	"expense-tracker/internal/models"

	"github.com/shopspring/decimal"
)

type CreateTransactionRequest struct {
	Amount          *decimal.Decimal `json:"amount" swaggertype:"number" example:"42.50"`
	Type            string           `json:"type" example:"expense" enums:"income,expense"`
	Category        string           `json:"category" example:"food"`
	Description     *string          `json:"description,omitempty" example:"Lunch"`
	TransactionDate *string          `json:"transaction_date,omitempty" example:"2024-01-15"`
}

// UpdateTransactionRequest only changes the keys present in the body.
// description may be null to clear it.
type UpdateTransactionRequest struct {
	Amount          Field[decimal.Decimal] `json:"amount" swaggertype:"number" example:"42.50"`
	Type            Field[string]          `json:"type" swaggertype:"string" example:"expense"`
	Category        Field[string]          `json:"category" swaggertype:"string" example:"food"`
	Description     Field[string]          `json:"description" swaggertype:"string" example:"Lunch"`
	TransactionDate Field[string]          `json:"transaction_date" swaggertype:"string" example:"2024-01-15"`
}

type TransactionResponse struct {
	ID              int64     `json:"id" example:"1"`
	Amount          string    `json:"amount" example:"42.50"`
	Type            string    `json:"type" example:"expense"`
	Category        string    `json:"category" example:"food"`
	Description     *string   `json:"description" example:"Lunch"`
	TransactionDate string    `json:"transaction_date" example:"2024-01-15"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewTransactionResponse(tx *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		Amount:          tx.Amount.StringFixed(2),
		Type:            string(tx.Type),
		Category:        string(tx.Category),
		Description:     tx.Description,
		TransactionDate: tx.TransactionDate.String(),
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}
}

func NewTransactionResponses(txs []*models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NewTransactionResponse(tx))
	}
	return out
}
