package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fadedpez/blackjacktrainer/pkg/db/migrations"
	"github.com/fadedpez/blackjacktrainer/pkg/entities"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the database at dbPath and brings
// its schema up to date
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := migrations.NewMigrator(db).MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// GetWallet retrieves a wallet by user ID
func (r *SQLiteRepository) GetWallet(ctx context.Context, userID string) (*entities.Wallet, error) {
	query := `SELECT user_id, balance, updated_at FROM wallets WHERE user_id = ?`

	var wallet entities.Wallet
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&wallet.UserID,
		&wallet.Balance,
		&wallet.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("error getting wallet: %w", err)
	}

	return &wallet, nil
}

// SaveWallet creates or updates a wallet
func (r *SQLiteRepository) SaveWallet(ctx context.Context, wallet *entities.Wallet) error {
	wallet.LastUpdated = time.Now().UTC()

	query := `
		INSERT INTO wallets (user_id, balance, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			balance = excluded.balance,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, wallet.UserID, wallet.Balance, wallet.LastUpdated); err != nil {
		return fmt.Errorf("error saving wallet: %w", err)
	}
	return nil
}

// UpdateBalance atomically updates a wallet's balance
func (r *SQLiteRepository) UpdateBalance(ctx context.Context, userID string, amount int64) error {
	query := `
		UPDATE wallets
		SET balance = balance + ?,
			updated_at = ?
		WHERE user_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, amount, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("error updating balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrWalletNotFound
	}

	return nil
}

// AddTransaction records a new transaction
func (r *SQLiteRepository) AddTransaction(ctx context.Context, transaction *entities.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if transaction.Timestamp.IsZero() {
		transaction.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO transactions (
			id, user_id, amount, type, reference_id, description, timestamp, balance_after
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		transaction.ID,
		transaction.UserID,
		transaction.Amount,
		transaction.Type,
		transaction.ReferenceID,
		transaction.Description,
		transaction.Timestamp,
		transaction.BalanceAfter,
	)
	if err != nil {
		return fmt.Errorf("error adding transaction: %w", err)
	}

	return nil
}

// GetTransactions retrieves recent transactions for a user
func (r *SQLiteRepository) GetTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT id, user_id, amount, type, reference_id, description, timestamp, balance_after
		FROM transactions
		WHERE user_id = ?
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?
	`
	return r.queryTransactions(ctx, query, userID, limit)
}

// GetTransactionsByType retrieves transactions of a specific type
func (r *SQLiteRepository) GetTransactionsByType(ctx context.Context, userID string, transactionType entities.TransactionType, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT id, user_id, amount, type, reference_id, description, timestamp, balance_after
		FROM transactions
		WHERE user_id = ? AND type = ?
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?
	`
	return r.queryTransactions(ctx, query, userID, transactionType, limit)
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]*entities.Transaction, error) {
	// the limit is always the last argument; SQLite treats a negative limit as none
	if limit, ok := args[len(args)-1].(int); ok && limit <= 0 {
		args[len(args)-1] = -1
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*entities.Transaction, 0)
	for rows.Next() {
		var (
			tx          entities.Transaction
			referenceID sql.NullString
			description sql.NullString
		)
		err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Amount,
			&tx.Type,
			&referenceID,
			&description,
			&tx.Timestamp,
			&tx.BalanceAfter,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", err)
		}
		tx.ReferenceID = referenceID.String
		tx.Description = description.String

		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}
