package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"bankingapi/internal/models"
	"bankingapi/pkg/database"
)

// RowQuerier is the subset of query execution both *database.DB and pgx.Tx
// satisfy. The daily-withdrawal aggregation takes it as a parameter so the
// reporting endpoint (reader pool) and the in-transaction limit check (tx
// handle) run the exact same query with the same window definition.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TransactionRepository defines the interface for the append-only transaction journal.
type TransactionRepository interface {
	// Create appends a journal row inside the caller's transaction.
	// created_at is assigned by the database and scanned back.
	Create(ctx context.Context, tx pgx.Tx, txn *models.Transaction) error
	// DailyWithdrawalTotal sums withdrawal amounts for the account over the
	// rolling 24-hour window ending now. Zero rows means zero, not an error.
	DailyWithdrawalTotal(ctx context.Context, q RowQuerier, accountNumber string) (float64, error)
	// ListByAccount returns the most recent journal rows for an account.
	ListByAccount(ctx context.Context, accountNumber string, limit int) ([]models.Transaction, error)
}

type TransactionRepositoryImpl struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) TransactionRepository {
	return &TransactionRepositoryImpl{db: db}
}

func (t TransactionRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, txn *models.Transaction) error {
	return tx.QueryRow(ctx, `
		INSERT INTO transactions (account_number, amount, type)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		txn.AccountNumber, txn.Amount, txn.Type,
	).Scan(&txn.ID, &txn.CreatedAt)
}

func (t TransactionRepositoryImpl) DailyWithdrawalTotal(ctx context.Context, q RowQuerier, accountNumber string) (float64, error) {
	if q == nil {
		q = t.db
	}
	var total float64
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE account_number = $1
		  AND type = $2
		  AND created_at >= NOW() - INTERVAL '1 day'`,
		accountNumber, models.TransactionTypeWithdrawal,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (t TransactionRepositoryImpl) ListByAccount(ctx context.Context, accountNumber string, limit int) ([]models.Transaction, error) {
	rows, err := t.db.Query(ctx, `
		SELECT id, account_number, amount, type, created_at
		FROM transactions
		WHERE account_number = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		accountNumber, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var txn models.Transaction
		if err = rows.Scan(
			&txn.ID,
			&txn.AccountNumber,
			&txn.Amount,
			&txn.Type,
			&txn.CreatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}
