package dto

import "expense-tracker/internal/models"

type MonthlySummaryResponse struct {
	TotalExpense string `json:"total_expense" example:"1250.00"`
	TotalIncome  string `json:"total_income" example:"3000.00"`
	NetSavings   string `json:"net_savings" example:"1750.00"`
}

type WeeklySummaryResponse struct {
	WeekStart    string `json:"week_start" example:"2024-01-08"`
	WeekEnd      string `json:"week_end" example:"2024-01-14"`
	TotalExpense string `json:"total_expense"`
	TotalIncome  string `json:"total_income"`
	NetSavings   string `json:"net_savings"`
}

type CategoryBreakdownItem struct {
	Category string `json:"category" example:"food"`
	Total    string `json:"total" example:"320.00"`
}

type CategoryBreakdownResponse struct {
	Year         int                     `json:"year" example:"2024"`
	Month        int                     `json:"month" example:"1"`
	TotalExpense string                  `json:"total_expense"`
	Items        []CategoryBreakdownItem `json:"items"`
}

type ProjectionResponse struct {
	SpentSoFar        string `json:"spent_so_far" example:"300.00"`
	ProjectedMonthEnd string `json:"projected_month_end" example:"930.00"`
	DaysPassed        int    `json:"days_passed" example:"10"`
	TotalDays         int    `json:"total_days" example:"31"`
}

type DailySpendingItem struct {
	Date  string `json:"date" example:"2024-01-05"`
	Total string `json:"total" example:"100.00"`
}

type DailySpendingResponse struct {
	Year         int                 `json:"year"`
	Month        int                 `json:"month"`
	TotalExpense string              `json:"total_expense"`
	Days         []DailySpendingItem `json:"days"`
}

func NewMonthlySummaryResponse(s *models.MonthlySummary) MonthlySummaryResponse {
	return MonthlySummaryResponse{
		TotalExpense: s.TotalExpense.StringFixed(2),
		TotalIncome:  s.TotalIncome.StringFixed(2),
		NetSavings:   s.NetSavings.StringFixed(2),
	}
}

func NewWeeklySummaryResponse(s *models.WeeklySummary) WeeklySummaryResponse {
	return WeeklySummaryResponse{
		WeekStart:    s.WeekStart.String(),
		WeekEnd:      s.WeekEnd.String(),
		TotalExpense: s.TotalExpense.StringFixed(2),
		TotalIncome:  s.TotalIncome.StringFixed(2),
		NetSavings:   s.NetSavings.StringFixed(2),
	}
}

func NewCategoryBreakdownResponse(b *models.CategoryBreakdown) CategoryBreakdownResponse {
	items := make([]CategoryBreakdownItem, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, CategoryBreakdownItem{
			Category: string(item.Category),
			Total:    item.Total.StringFixed(2),
		})
	}
	return CategoryBreakdownResponse{
		Year:         b.Year,
		Month:        b.Month,
		TotalExpense: b.TotalExpense.StringFixed(2),
		Items:        items,
	}
}

func NewProjectionResponse(p *models.Projection) ProjectionResponse {
	return ProjectionResponse{
		SpentSoFar:        p.SpentSoFar.StringFixed(2),
		ProjectedMonthEnd: p.ProjectedMonthEnd.StringFixed(2),
		DaysPassed:        p.DaysPassed,
		TotalDays:         p.TotalDays,
	}
}

func NewDailySpendingResponse(d *models.DailySpending) DailySpendingResponse {
	days := make([]DailySpendingItem, 0, len(d.Days))
	for _, day := range d.Days {
		days = append(days, DailySpendingItem{
			Date:  day.Date.String(),
			Total: day.Total.StringFixed(2),
		})
	}
	return DailySpendingResponse{
		Year:         d.Year,
		Month:        d.Month,
		TotalExpense: d.TotalExpense.StringFixed(2),
		Days:         days,
	}
}
