package main

import (
	"context"
	"flag"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bankingapi/configs"
	"bankingapi/internal/models"
	"bankingapi/internal/repositories"
	"bankingapi/pkg"
	"bankingapi/pkg/database"
)

// main seeds demo accounts into the database. Account provisioning lives
// here rather than in the API: the service only ever mutates balances.
// It initializes logging, loads config, connects to the database, runs
// migrations, and performs inserts inside a single transaction.
func main() {
	checkingBalance := flag.Float64("checkingBalance", 1000, "Opening balance for the demo checking account")
	savingsBalance := flag.Float64("savingsBalance", 5000, "Opening balance for the demo savings account")
	creditLimit := flag.Float64("creditLimit", 500, "Credit limit for the demo credit account")

	flag.Parse()

	// Initialize logger
	pkg.InitLogger()
	logger := pkg.Logger
	defer logger.Sync()

	cfg, err := configs.Load(logger)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// Initialize postgres db
	dbConfig := database.Config{
		PrimaryDSN:  cfg.PrimaryDbAddr,
		ReplicaDSNs: []string{cfg.ReplicaDbAddr},
		MaxConns:    cfg.MaxDbCons,
		MinConns:    cfg.MinDbCons,
	}

	ctx := context.Background()
	db, closer, err := database.New(ctx, logger, dbConfig)
	if err != nil {
		logger.Fatal("failed to init DB", zap.Error(err))
	}
	defer closer()

	// Initialize db migrations
	if err = database.RunMigrations(ctx, logger, db); err != nil {
		logger.Fatal("failed to run database migrations", zap.Error(err))
	}

	accountRepo := repositories.NewAccountRepository(db)

	accounts := []models.Account{
		{AccountNumber: "1", Name: "Johns Checking", Amount: *checkingBalance, Type: models.AccountTypeChecking},
		{AccountNumber: "2", Name: "Janes Savings", Amount: *savingsBalance, Type: models.AccountTypeSavings},
		{AccountNumber: "3", Name: "Jills Credit", Amount: 0, Type: models.AccountTypeCredit, CreditLimit: *creditLimit},
	}

	err = db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, account := range accounts {
			if err := accountRepo.Create(ctx, tx, account); err != nil {
				return err
			}
			logger.Info("seeded account",
				zap.String(pkg.AccountNumber, account.AccountNumber),
				zap.String("type", string(account.Type)),
			)
		}
		return nil
	})
	if err != nil {
		logger.Fatal("failed to seed accounts", zap.Error(err))
	}

	logger.Info("seeding complete", zap.Int("accounts", len(accounts)))
}
