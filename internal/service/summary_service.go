package service

import (
	"context"
	"sort"
	"time"

	"expense-tracker/internal/models"
	"expense-tracker/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SummaryService builds the time-windowed reports.
type SummaryService struct {
	store  repository.TransactionStore
	clock  *Clock
	logger *zap.Logger
}

func NewSummaryService(store repository.TransactionStore, clock *Clock, logger *zap.Logger) *SummaryService {
	return &SummaryService{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

func typePtr(t models.TransactionType) *models.TransactionType {
	return &t
}

// periodTotals sums expenses and income over [start, end] in parallel.
func (s *SummaryService) periodTotals(ctx context.Context, start, end models.Date) (expense, income decimal.Decimal, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var sumErr error
		expense, sumErr = s.store.Sum(gctx, start, end, typePtr(models.TransactionTypeExpense))
		return sumErr
	})
	g.Go(func() error {
		var sumErr error
		income, sumErr = s.store.Sum(gctx, start, end, typePtr(models.TransactionTypeIncome))
		return sumErr
	})
	if err := g.Wait(); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return expense, income, nil
}

func (s *SummaryService) Monthly(ctx context.Context, year, month int) (*models.MonthlySummary, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}

	start, end := models.MonthWindow(year, time.Month(month))
	expense, income, err := s.periodTotals(ctx, start, end)
	if err != nil {
		s.logger.Error("Failed to build monthly summary",
			zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return nil, newInternalError("fetching monthly summary", err)
	}

	return &models.MonthlySummary{
		TotalExpense: expense,
		TotalIncome:  income,
		NetSavings:   income.Sub(expense),
	}, nil
}

func (s *SummaryService) Weekly(ctx context.Context) (*models.WeeklySummary, error) {
	start, end := models.WeekWindow(s.clock.Today())
	expense, income, err := s.periodTotals(ctx, start, end)
	if err != nil {
		s.logger.Error("Failed to build weekly summary", zap.Error(err))
		return nil, newInternalError("fetching weekly summary", err)
	}

	return &models.WeeklySummary{
		WeekStart:    start,
		WeekEnd:      end,
		TotalExpense: expense,
		TotalIncome:  income,
		NetSavings:   income.Sub(expense),
	}, nil
}

func (s *SummaryService) CategoryBreakdown(ctx context.Context, year, month int) (*models.CategoryBreakdown, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}

	start, end := models.MonthWindow(year, time.Month(month))
	grouped, err := s.store.GroupSumByField(ctx, repository.GroupByCategory, start, end, typePtr(models.TransactionTypeExpense))
	if err != nil {
		s.logger.Error("Failed to build category breakdown",
			zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return nil, newInternalError("fetching category breakdown", err)
	}

	items := make([]models.CategoryTotal, 0, len(grouped))
	total := decimal.Zero
	for _, g := range grouped {
		items = append(items, models.CategoryTotal{
			Category: models.TransactionCategory(g.Key),
			Total:    g.Total,
		})
		total = total.Add(g.Total)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if c := items[i].Total.Cmp(items[j].Total); c != 0 {
			return c > 0
		}
		return items[i].Category < items[j].Category
	})

	return &models.CategoryBreakdown{
		Year:         year,
		Month:        month,
		TotalExpense: total,
		Items:        items,
	}, nil
}

// Projection extrapolates month-end spending linearly from spending to date.
func (s *SummaryService) Projection(ctx context.Context, year, month int) (*models.Projection, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}

	today := s.clock.Today()
	start, end := models.MonthWindow(year, time.Month(month))
	totalDays := models.DaysIn(year, time.Month(month))

	result := &models.Projection{
		SpentSoFar:        decimal.Zero,
		ProjectedMonthEnd: decimal.Zero,
		TotalDays:         totalDays,
	}

	var through models.Date
	switch {
	case today.Before(start):
		return result, nil
	case today.After(end):
		result.DaysPassed = totalDays
		through = end
	default:
		result.DaysPassed = today.Day()
		through = today
	}

	spent, err := s.store.Sum(ctx, start, through, typePtr(models.TransactionTypeExpense))
	if err != nil {
		s.logger.Error("Failed to build projection",
			zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return nil, newInternalError("fetching projection", err)
	}

	result.SpentSoFar = spent
	result.ProjectedMonthEnd = spent.
		Mul(decimal.NewFromInt(int64(totalDays))).
		DivRound(decimal.NewFromInt(int64(result.DaysPassed)), 2)
	return result, nil
}

// DailySpending returns expense totals for each day of the month that had any.
func (s *SummaryService) DailySpending(ctx context.Context, year, month int) (*models.DailySpending, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}

	start, end := models.MonthWindow(year, time.Month(month))
	totals, err := s.store.DailyTotals(ctx, start, end, typePtr(models.TransactionTypeExpense))
	if err != nil {
		s.logger.Error("Failed to build daily spending",
			zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return nil, newInternalError("fetching daily spending", err)
	}

	days := make([]models.DailyAmount, 0, len(totals))
	total := decimal.Zero
	for _, t := range totals {
		days = append(days, models.DailyAmount{Date: t.Date, Total: t.Total})
		total = total.Add(t.Total)
	}
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})

	return &models.DailySpending{
		Year:         year,
		Month:        month,
		TotalExpense: total,
		Days:         days,
	}, nil
}
