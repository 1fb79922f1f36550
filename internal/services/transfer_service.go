package services

import (
	"context"
	"errors"
	"math"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bankingapi/internal/models"
	"bankingapi/internal/repositories"
	"bankingapi/pkg"
)

// Business limits, in dollars.
const (
	WithdrawalDenomination = 5    // only $5 bills are dispensed
	MaxWithdrawalPerTxn    = 200  // single-transaction withdrawal cap
	MaxWithdrawalPerDay    = 400  // rolling 24-hour withdrawal cap
	MaxDepositPerTxn       = 1000 // single-transaction deposit cap
)

const recentTransactionsLimit = 50

// TxRunner abstracts database.DB's transactional execution so the engine can
// be exercised against a fake in tests.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// TransferService implements the withdrawal and deposit business rules.
//
// Every mutation follows the same discipline: stateless validations run
// before any database access, then a single transaction encloses the locked
// read, the limit checks, the balance write, and the journal append. Two
// concurrent requests against the same account serialize on the row lock;
// the second observes the first's committed balance and daily sum. A failure
// at any point rolls the whole transaction back, so no partial effect ever
// survives.
type TransferService interface {
	GetAccount(ctx context.Context, traceID string, accountNumber string) (*models.Account, error)
	Withdraw(ctx context.Context, traceID string, accountNumber string, amount float64) (*models.Account, error)
	Deposit(ctx context.Context, traceID string, accountNumber string, amount float64) (*models.Account, error)
	DailyWithdrawalTotal(ctx context.Context, traceID string, accountNumber string) (float64, error)
	RecentTransactions(ctx context.Context, traceID string, accountNumber string) ([]models.Transaction, error)
}

type TransferServiceImpl struct {
	logger       *zap.Logger
	db           TxRunner
	accounts     repositories.AccountRepository
	transactions repositories.TransactionRepository
	publisher    EventPublisher
}

func NewTransferService(logger *zap.Logger, db TxRunner, accounts repositories.AccountRepository, transactions repositories.TransactionRepository, publisher EventPublisher) TransferService {
	return &TransferServiceImpl{
		logger:       logger,
		db:           db,
		accounts:     accounts,
		transactions: transactions,
		publisher:    publisher,
	}
}

func (s *TransferServiceImpl) GetAccount(ctx context.Context, traceID string, accountNumber string) (*models.Account, error) {
	account, err := s.accounts.GetByNumber(ctx, accountNumber)
	if err != nil {
		return nil, s.asAppError(traceID, err)
	}
	return account, nil
}

func (s *TransferServiceImpl) Withdraw(ctx context.Context, traceID string, accountNumber string, amount float64) (*models.Account, error) {
	// Stateless validations first; none of these touch the database.
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if math.Mod(amount, WithdrawalDenomination) != 0 {
		return nil, pkg.NewAppError(pkg.ErrInvalidDenominationCode, "Amount must be dispensable in $5 bills", nil)
	}
	if amount > MaxWithdrawalPerTxn {
		return nil, pkg.NewAppError(pkg.ErrTxnLimitCode, "You may only withdraw up to $200 at a time.", nil)
	}

	var updated *models.Account
	var recorded models.Transaction
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		// Lock the row; concurrent withdrawals against this account block here.
		account, err := s.accounts.GetByNumberForUpdate(ctx, tx, accountNumber)
		if err != nil {
			return err
		}

		if account.Type == models.AccountTypeCredit {
			if account.Amount-amount < -account.CreditLimit {
				return pkg.NewAppError(pkg.ErrCreditLimitCode, "You cannot withdraw more than your credit limit.", nil)
			}
		} else {
			if account.Amount < amount {
				return pkg.NewAppError(pkg.ErrInsufficientFundsCode, "You do not have enough funds to withdraw this amount.", nil)
			}
		}

		// Daily limit last: it costs a query, and it must be read under the
		// lock so the check-then-act stays atomic.
		dailySum, err := s.transactions.DailyWithdrawalTotal(ctx, tx, accountNumber)
		if err != nil {
			return err
		}
		if dailySum+amount > MaxWithdrawalPerDay {
			return pkg.NewAppError(pkg.ErrDailyLimitCode, "You can only withdraw up to $400 per day. Try a smaller amount or try again tomorrow.", nil)
		}

		account.Amount -= amount
		rows, err := s.accounts.UpdateBalance(ctx, tx, accountNumber, account.Amount)
		if err != nil {
			return err
		}
		if rows == 0 {
			// Account row vanished between lock and write: a conflict, not a no-op.
			return pkg.NewAppError(pkg.ErrSQLConflictCode, "Transaction failed", nil)
		}

		recorded = models.Transaction{
			AccountNumber: accountNumber,
			Amount:        amount,
			Type:          models.TransactionTypeWithdrawal,
		}
		if err = s.transactions.Create(ctx, tx, &recorded); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		return nil, s.asAppError(traceID, err)
	}

	s.logger.Info("withdrawal committed",
		zap.String(pkg.TraceId, traceID),
		zap.String(pkg.AccountNumber, accountNumber),
		zap.Float64("amount", amount),
		zap.Float64("balance", updated.Amount),
	)
	s.publish(traceID, recorded)
	return updated, nil
}

func (s *TransferServiceImpl) Deposit(ctx context.Context, traceID string, accountNumber string, amount float64) (*models.Account, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if amount > MaxDepositPerTxn {
		return nil, pkg.NewAppError(pkg.ErrTxnLimitCode, "You cannot deposit more than $1000 at a time.", nil)
	}

	var updated *models.Account
	var recorded models.Transaction
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		account, err := s.accounts.GetByNumberForUpdate(ctx, tx, accountNumber)
		if err != nil {
			return err
		}

		// A credit balance is debt; a deposit may clear it but never turn it
		// into a positive surplus.
		if account.Type == models.AccountTypeCredit && account.Amount+amount > 0 {
			return pkg.NewAppError(pkg.ErrCreditOverpaymentCode, "You cannot deposit more than you owe on a credit account.", nil)
		}

		account.Amount += amount
		rows, err := s.accounts.UpdateBalance(ctx, tx, accountNumber, account.Amount)
		if err != nil {
			return err
		}
		if rows == 0 {
			return pkg.NewAppError(pkg.ErrSQLConflictCode, "Transaction failed", nil)
		}

		recorded = models.Transaction{
			AccountNumber: accountNumber,
			Amount:        amount,
			Type:          models.TransactionTypeDeposit,
		}
		if err = s.transactions.Create(ctx, tx, &recorded); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		return nil, s.asAppError(traceID, err)
	}

	s.logger.Info("deposit committed",
		zap.String(pkg.TraceId, traceID),
		zap.String(pkg.AccountNumber, accountNumber),
		zap.Float64("amount", amount),
		zap.Float64("balance", updated.Amount),
	)
	s.publish(traceID, recorded)
	return updated, nil
}

func (s *TransferServiceImpl) DailyWithdrawalTotal(ctx context.Context, traceID string, accountNumber string) (float64, error) {
	total, err := s.transactions.DailyWithdrawalTotal(ctx, nil, accountNumber)
	if err != nil {
		return 0, s.asAppError(traceID, err)
	}
	return total, nil
}

func (s *TransferServiceImpl) RecentTransactions(ctx context.Context, traceID string, accountNumber string) ([]models.Transaction, error) {
	transactions, err := s.transactions.ListByAccount(ctx, accountNumber, recentTransactionsLimit)
	if err != nil {
		return nil, s.asAppError(traceID, err)
	}
	return transactions, nil
}

// publish emits the journal row after commit. Fire-and-forget: a publishing
// failure never fails a committed transfer.
func (s *TransferServiceImpl) publish(traceID string, txn models.Transaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransaction(txn); err != nil {
		s.logger.Error("failed to publish transaction event",
			zap.String(pkg.TraceId, traceID),
			zap.String(pkg.AccountNumber, txn.AccountNumber),
			zap.Error(err),
		)
	}
}

// asAppError passes domain errors through untouched and maps everything else
// through the SQL error translator.
func (s *TransferServiceImpl) asAppError(traceID string, err error) error {
	var appErr pkg.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return pkg.HandleSQLError(traceID, s.logger, err)
}

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return pkg.NewAppError(pkg.ErrInvalidAmountCode, "Amount must be a positive number", nil)
	}
	return nil
}
