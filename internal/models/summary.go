package models

import "github.com/shopspring/decimal"

type MonthlySummary struct {
	TotalExpense decimal.Decimal
	TotalIncome  decimal.Decimal
	NetSavings   decimal.Decimal
}

type WeeklySummary struct {
	WeekStart    Date
	WeekEnd      Date
	TotalExpense decimal.Decimal
	TotalIncome  decimal.Decimal
	NetSavings   decimal.Decimal
}

type CategoryTotal struct {
	Category TransactionCategory
	Total    decimal.Decimal
}

// CategoryBreakdown lists expense totals per category, largest first.
// Categories without spending are left out.
type CategoryBreakdown struct {
	Year         int
	Month        int
	TotalExpense decimal.Decimal
	Items        []CategoryTotal
}

type Projection struct {
	SpentSoFar        decimal.Decimal
	ProjectedMonthEnd decimal.Decimal
	DaysPassed        int
	TotalDays         int
}

type DailyAmount struct {
	Date  Date
	Total decimal.Decimal
}

type DailySpending struct {
	Year         int
	Month        int
	TotalExpense decimal.Decimal
	Days         []DailyAmount
}
