package main

import (
	"context"
	"flag"
	"log"
	"time"

	"expense-tracker/internal/app"
	"expense-tracker/internal/models"
	"expense-tracker/internal/service"
	"expense-tracker/pkg/config"
	"expense-tracker/pkg/logger"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	incomeCategories = []models.TransactionCategory{
		models.CategorySalary, models.CategoryBonus, models.CategoryFreelance, models.CategoryInvestment,
	}
	expenseCategories = []models.TransactionCategory{
		models.CategoryFood, models.CategoryGroceries, models.CategoryTransport, models.CategoryUtilities,
		models.CategoryEntertainment, models.CategoryHealthcare, models.CategoryShopping, models.CategoryEducation,
		models.CategoryRent, models.CategoryInsurance, models.CategorySubscriptions, models.CategoryOther,
	}
)

func main() {
	count := flag.Int("n", 200, "number of transactions to create")
	months := flag.Int("months", 3, "spread transactions over this many past months")
	seed := flag.Int64("seed", 0, "random seed (0 picks a random one)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	store, err := app.OpenStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open transaction store", zap.Error(err))
	}
	defer store.Close()

	clock := service.NewClock(cfg.Location())
	txService := service.NewTransactionService(store, nil, clock, appLogger)

	faker := gofakeit.New(*seed)
	end := clock.Now()
	start := end.AddDate(0, -*months, 0)

	appLogger.Info("Starting database seeding...", zap.Int("count", *count), zap.Int("months", *months))

	created := 0
	for i := 0; i < *count; i++ {
		input := fakeTransaction(faker, start, end)
		if _, err := txService.Create(ctx, input); err != nil {
			appLogger.Error("Failed to create transaction", zap.Error(err))
			continue
		}
		created++
	}

	appLogger.Info("Database seeding completed", zap.Int("created", created))
}

func fakeTransaction(faker *gofakeit.Faker, start, end time.Time) service.CreateTransactionInput {
	date := faker.DateRange(start, end)
	description := faker.Sentence(4)

	// roughly one income for every five expenses
	if faker.Number(1, 6) == 1 {
		return service.CreateTransactionInput{
			Amount:          decimal.NewFromFloat(faker.Price(500, 4000)).Round(2),
			Type:            models.TransactionTypeIncome,
			Category:        incomeCategories[faker.Number(0, len(incomeCategories)-1)],
			Description:     &description,
			TransactionDate: &date,
		}
	}

	return service.CreateTransactionInput{
		Amount:          decimal.NewFromFloat(faker.Price(1, 250)).Round(2),
		Type:            models.TransactionTypeExpense,
		Category:        expenseCategories[faker.Number(0, len(expenseCategories)-1)],
		Description:     &description,
		TransactionDate: &date,
	}
}
