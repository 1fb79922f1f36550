package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"bankingapi/internal/models"
	"bankingapi/pkg"
	"bankingapi/pkg/database"
)

// AccountRepository defines the interface for account reads and balance writes.
type AccountRepository interface {
	// GetByNumber fetches an account with a plain (non-locking) read.
	GetByNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	// GetByNumberForUpdate fetches an account with SELECT ... FOR UPDATE.
	// Must be called inside an active transaction; the row lock is held until
	// the enclosing transaction commits or rolls back, serializing concurrent
	// mutations of the same account.
	GetByNumberForUpdate(ctx context.Context, tx pgx.Tx, accountNumber string) (*models.Account, error)
	// UpdateBalance persists a new balance and returns the number of rows
	// affected so callers can detect a lost update.
	UpdateBalance(ctx context.Context, tx pgx.Tx, accountNumber string, amount float64) (int64, error)
	// Create inserts an account. Used by the seeder, not the API.
	Create(ctx context.Context, tx pgx.Tx, account models.Account) error
}

type AccountRepositoryImpl struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

const accountColumns = `account_number, name, amount, type, credit_limit`

func (a AccountRepositoryImpl) GetByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	row := a.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE account_number = $1`,
		accountNumber,
	)
	return scanAccount(row)
}

func (a AccountRepositoryImpl) GetByNumberForUpdate(ctx context.Context, tx pgx.Tx, accountNumber string) (*models.Account, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE account_number = $1
		FOR UPDATE`,
		accountNumber,
	)
	return scanAccount(row)
}

func (a AccountRepositoryImpl) UpdateBalance(ctx context.Context, tx pgx.Tx, accountNumber string, amount float64) (int64, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE accounts
		SET amount = $1
		WHERE account_number = $2`,
		amount, accountNumber,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (a AccountRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, account models.Account) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO accounts (account_number, name, amount, type, credit_limit)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_number) DO NOTHING`,
		account.AccountNumber, account.Name, account.Amount, account.Type, account.CreditLimit,
	)
	return err
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.AccountNumber,
		&account.Name,
		&account.Amount,
		&account.Type,
		&account.CreditLimit,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pkg.NewAppError(pkg.ErrRecordNotFoundCode, "Account not found", err)
		}
		return nil, err
	}
	return &account, nil
}
