package models

import (
	"github.com/shopspring/decimal"
)

// Optional distinguishes an omitted field from one that was supplied.
type Optional[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

func (o Optional[T]) IsSet() bool {
	return o.set
}

// TransactionPatch lists the fields a partial update may touch. Only
// Description accepts an explicit nil, which clears it.
type TransactionPatch struct {
	Amount          Optional[decimal.Decimal]
	Type            Optional[TransactionType]
	Category        Optional[TransactionCategory]
	Description     Optional[*string]
	TransactionDate Optional[Date]
}

func (p TransactionPatch) IsEmpty() bool {
	return !p.Amount.IsSet() && !p.Type.IsSet() && !p.Category.IsSet() &&
		!p.Description.IsSet() && !p.TransactionDate.IsSet()
}

// Apply copies every set field onto tx.
func (p TransactionPatch) Apply(tx *Transaction) {
	if v, ok := p.Amount.Get(); ok {
		tx.Amount = v
	}
	if v, ok := p.Type.Get(); ok {
		tx.Type = v
	}
	if v, ok := p.Category.Get(); ok {
		tx.Category = v
	}
	if v, ok := p.Description.Get(); ok {
		if v == nil {
			tx.Description = nil
		} else {
			s := *v
			tx.Description = &s
		}
	}
	if v, ok := p.TransactionDate.Get(); ok {
		tx.TransactionDate = v
	}
}
