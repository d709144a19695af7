package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/fadedpez/blackjacktrainer/pkg/entities"
	"github.com/google/uuid"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	wallets      map[string]*entities.Wallet
	transactions map[string][]*entities.Transaction
	mu           sync.RWMutex
}

// NewMemoryRepository creates a new in-memory wallet repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		wallets:      make(map[string]*entities.Wallet),
		transactions: make(map[string][]*entities.Transaction),
	}
}

// GetWallet retrieves a wallet by user ID
func (r *MemoryRepository) GetWallet(ctx context.Context, userID string) (*entities.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wallet, exists := r.wallets[userID]
	if !exists {
		return nil, ErrWalletNotFound
	}

	// Return a copy to prevent concurrent modification
	walletCopy := *wallet
	return &walletCopy, nil
}

// SaveWallet creates or updates a wallet
func (r *MemoryRepository) SaveWallet(ctx context.Context, wallet *entities.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wallet.LastUpdated = time.Now()

	walletCopy := *wallet
	r.wallets[wallet.UserID] = &walletCopy

	return nil
}

// UpdateBalance atomically updates a wallet's balance
func (r *MemoryRepository) UpdateBalance(ctx context.Context, userID string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wallet, exists := r.wallets[userID]
	if !exists {
		return ErrWalletNotFound
	}

	wallet.Balance += amount
	wallet.LastUpdated = time.Now()

	return nil
}

// AddTransaction records a new transaction
func (r *MemoryRepository) AddTransaction(ctx context.Context, transaction *entities.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if transaction.Timestamp.IsZero() {
		transaction.Timestamp = time.Now()
	}

	txCopy := *transaction
	r.transactions[transaction.UserID] = append(r.transactions[transaction.UserID], &txCopy)

	return nil
}

// GetTransactions retrieves recent transactions for a user
func (r *MemoryRepository) GetTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error) {
	return r.filter(userID, limit, func(*entities.Transaction) bool { return true }), nil
}

// GetTransactionsByType retrieves transactions of a specific type
func (r *MemoryRepository) GetTransactionsByType(ctx context.Context, userID string, transactionType entities.TransactionType, limit int) ([]*entities.Transaction, error) {
	return r.filter(userID, limit, func(tx *entities.Transaction) bool {
		return tx.Type == transactionType
	}), nil
}

// Close is a no-op for the memory repository
func (r *MemoryRepository) Close() error {
	return nil
}

// filter walks the ledger newest first and copies up to limit matches,
// every match when limit <= 0
func (r *MemoryRepository) filter(userID string, limit int, keep func(*entities.Transaction) bool) []*entities.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transactions := r.transactions[userID]
	result := make([]*entities.Transaction, 0)
	for i := len(transactions) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		if keep(transactions[i]) {
			txCopy := *transactions[i]
			result = append(result, &txCopy)
		}
	}
	return result
}
