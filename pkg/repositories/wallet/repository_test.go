package wallet

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fadedpez/blackjacktrainer/pkg/entities"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	newRepo func(t *testing.T) Repository
	repo    Repository
	ctx     context.Context
}

func TestMemoryRepositorySuite(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(t *testing.T) Repository {
			return NewMemoryRepository()
		},
	})
}

func TestSQLiteRepositorySuite(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(t *testing.T) Repository {
			repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "wallet.db"))
			if err != nil {
				t.Fatalf("Error creating SQLite repository: %v", err)
			}
			return repo
		},
	})
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.newRepo(s.T())
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.NoError(s.repo.Close())
}

func (s *RepositoryTestSuite) TestGetWalletNotFound() {
	wallet, err := s.repo.GetWallet(s.ctx, "nobody")

	s.ErrorIs(err, ErrWalletNotFound)
	s.Nil(wallet)
}

func (s *RepositoryTestSuite) TestSaveAndUpdateWallet() {
	s.Require().NoError(s.repo.SaveWallet(s.ctx, &entities.Wallet{UserID: "user1", Balance: 1000}))

	wallet, err := s.repo.GetWallet(s.ctx, "user1")
	s.Require().NoError(err)
	s.Equal(int64(1000), wallet.Balance)
	s.False(wallet.LastUpdated.IsZero())

	// saving again overwrites
	wallet.Balance = 750
	s.Require().NoError(s.repo.SaveWallet(s.ctx, wallet))

	s.Require().NoError(s.repo.UpdateBalance(s.ctx, "user1", -50))
	s.Require().NoError(s.repo.UpdateBalance(s.ctx, "user1", 20))

	wallet, err = s.repo.GetWallet(s.ctx, "user1")
	s.Require().NoError(err)
	s.Equal(int64(720), wallet.Balance)

	s.ErrorIs(s.repo.UpdateBalance(s.ctx, "nobody", 10), ErrWalletNotFound)
}

func (s *RepositoryTestSuite) TestTransactionsNewestFirst() {
	s.Require().NoError(s.repo.SaveWallet(s.ctx, &entities.Wallet{UserID: "user1"}))
	s.Require().NoError(s.repo.SaveWallet(s.ctx, &entities.Wallet{UserID: "user2"}))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := []struct {
		amount int64
		kind   entities.TransactionType
	}{
		{1000, entities.TransactionTypeDeposit},
		{-10, entities.TransactionTypeBet},
		{25, entities.TransactionTypePayout},
		{-20, entities.TransactionTypeBet},
	}
	balance := int64(0)
	for i, entry := range ledger {
		balance += entry.amount
		s.Require().NoError(s.repo.AddTransaction(s.ctx, &entities.Transaction{
			UserID:       "user1",
			Amount:       entry.amount,
			Type:         entry.kind,
			ReferenceID:  "round",
			Description:  "test",
			Timestamp:    base.Add(time.Duration(i) * time.Second),
			BalanceAfter: balance,
		}))
	}
	s.Require().NoError(s.repo.AddTransaction(s.ctx, &entities.Transaction{
		UserID:    "user2",
		Amount:    5,
		Type:      entities.TransactionTypePayout,
		Timestamp: base,
	}))

	s.Run("all transactions", func() {
		txs, err := s.repo.GetTransactions(s.ctx, "user1", 0)
		s.NoError(err)
		s.Require().Len(txs, 4)
		s.Equal(int64(-20), txs[0].Amount)
		s.Equal(int64(995), txs[0].BalanceAfter)
		s.Equal(entities.TransactionTypeDeposit, txs[3].Type)
		s.NotEmpty(txs[0].ID)
		s.Equal("round", txs[0].ReferenceID)
	})

	s.Run("limited", func() {
		txs, err := s.repo.GetTransactions(s.ctx, "user1", 2)
		s.NoError(err)
		s.Require().Len(txs, 2)
		s.Equal(int64(-20), txs[0].Amount)
		s.Equal(int64(25), txs[1].Amount)
	})

	s.Run("by type", func() {
		txs, err := s.repo.GetTransactionsByType(s.ctx, "user1", entities.TransactionTypeBet, 10)
		s.NoError(err)
		s.Require().Len(txs, 2)
		s.Equal(int64(-20), txs[0].Amount)
		s.Equal(int64(-10), txs[1].Amount)
	})

	s.Run("other user", func() {
		txs, err := s.repo.GetTransactions(s.ctx, "user2", 10)
		s.NoError(err)
		s.Require().Len(txs, 1)
		s.Empty(txs[0].Description)
	})
}
