package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fadedpez/blackjacktrainer/internal/logging"
	"github.com/fadedpez/blackjacktrainer/pkg/entities"
	walletRepo "github.com/fadedpez/blackjacktrainer/pkg/repositories/wallet"
	"github.com/google/uuid"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
)

// DefaultStartingBalance is credited to every new wallet unless overridden
const DefaultStartingBalance int64 = 1000

// Service handles wallet business logic
type Service struct {
	repo            walletRepo.Repository
	startingBalance int64
	logger          *logging.Logger
	mu              sync.Mutex // serializes read-modify-write of balances
}

// NewService creates a new wallet service. New wallets open with
// startingBalance chips, DefaultStartingBalance when it is not positive.
func NewService(repo walletRepo.Repository, startingBalance int64) *Service {
	if startingBalance <= 0 {
		startingBalance = DefaultStartingBalance
	}
	return &Service{
		repo:            repo,
		startingBalance: startingBalance,
		logger:          logging.Default,
	}
}

// GetOrCreateWallet retrieves a wallet or creates a new one if it doesn't exist.
// The bool reports whether the wallet was created by this call.
func (s *Service) GetOrCreateWallet(ctx context.Context, userID string) (*entities.Wallet, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet, err := s.repo.GetWallet(ctx, userID)
	if err == nil {
		return wallet, false, nil
	}
	if !errors.Is(err, walletRepo.ErrWalletNotFound) {
		return nil, false, err
	}

	newWallet := &entities.Wallet{
		UserID:      userID,
		Balance:     s.startingBalance,
		LastUpdated: time.Now(),
	}
	if err := s.repo.SaveWallet(ctx, newWallet); err != nil {
		return nil, false, err
	}

	s.logger.Info("Created wallet for user %s with %d chips", userID, s.startingBalance)

	err = s.record(ctx, newWallet, s.startingBalance, entities.TransactionTypeDeposit, "", "Starting bankroll")
	return newWallet, true, err
}

// GetBalance returns the current balance for a user
func (s *Service) GetBalance(ctx context.Context, userID string) (int64, error) {
	wallet, err := s.repo.GetWallet(ctx, userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// AddFunds credits amount to a user's wallet and records the transaction
func (s *Service) AddFunds(ctx context.Context, userID string, amount int64, txType entities.TransactionType, referenceID, description string) error {
	if amount <= 0 {
		return ErrNegativeAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wallet, err := s.repo.GetWallet(ctx, userID)
	if err != nil {
		return err
	}

	wallet.Balance += amount
	if err := s.repo.SaveWallet(ctx, wallet); err != nil {
		return fmt.Errorf("error saving wallet: %w", err)
	}

	s.logger.Debug("Added %d to wallet for user %s (%s), balance %d", amount, userID, txType, wallet.Balance)

	return s.record(ctx, wallet, amount, txType, referenceID, description)
}

// RemoveFunds debits amount from a user's wallet if sufficient funds exist
func (s *Service) RemoveFunds(ctx context.Context, userID string, amount int64, txType entities.TransactionType, referenceID, description string) error {
	if amount <= 0 {
		return ErrNegativeAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wallet, err := s.repo.GetWallet(ctx, userID)
	if err != nil {
		return err
	}
	if wallet.Balance < amount {
		return ErrInsufficientFunds
	}

	wallet.Balance -= amount
	if err := s.repo.SaveWallet(ctx, wallet); err != nil {
		return fmt.Errorf("error saving wallet: %w", err)
	}

	s.logger.Debug("Removed %d from wallet for user %s (%s), balance %d", amount, userID, txType, wallet.Balance)

	return s.record(ctx, wallet, -amount, txType, referenceID, description)
}

// GetRecentTransactions retrieves recent transactions for a user
func (s *Service) GetRecentTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error) {
	return s.repo.GetTransactions(ctx, userID, limit)
}

func (s *Service) record(ctx context.Context, wallet *entities.Wallet, amount int64, txType entities.TransactionType, referenceID, description string) error {
	transaction := &entities.Transaction{
		ID:           uuid.New().String(),
		UserID:       wallet.UserID,
		Amount:       amount,
		Type:         txType,
		ReferenceID:  referenceID,
		Description:  description,
		Timestamp:    time.Now(),
		BalanceAfter: wallet.Balance,
	}

	if err := s.repo.AddTransaction(ctx, transaction); err != nil {
		s.logger.Error("Error recording %s transaction for user %s: %v", txType, wallet.UserID, err)
		return err
	}
	return nil
}
