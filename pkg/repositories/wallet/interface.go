package wallet

import (
	"context"
	"errors"

	"github.com/fadedpez/blackjacktrainer/pkg/entities"
)

var (
	ErrWalletNotFound = errors.New("wallet not found")
)

// Repository defines the interface for wallet data operations
type Repository interface {
	// GetWallet retrieves a wallet by user ID
	GetWallet(ctx context.Context, userID string) (*entities.Wallet, error)

	// SaveWallet creates or updates a wallet
	SaveWallet(ctx context.Context, wallet *entities.Wallet) error

	// UpdateBalance atomically adds amount (negative to subtract) to a wallet's balance
	UpdateBalance(ctx context.Context, userID string, amount int64) error

	// AddTransaction records a new transaction
	AddTransaction(ctx context.Context, transaction *entities.Transaction) error

	// GetTransactions retrieves a user's most recent transactions, newest first.
	// A limit <= 0 returns them all.
	GetTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error)

	// GetTransactionsByType retrieves a user's most recent transactions of one type, newest first
	GetTransactionsByType(ctx context.Context, userID string, transactionType entities.TransactionType, limit int) ([]*entities.Transaction, error)

	// Close releases any resources held by the repository
	Close() error
}
