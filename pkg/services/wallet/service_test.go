package wallet

import (
	"context"
	"io"
	"testing"

	"github.com/fadedpez/blackjacktrainer/internal/logging"
	"github.com/fadedpez/blackjacktrainer/pkg/entities"
	walletRepo "github.com/fadedpez/blackjacktrainer/pkg/repositories/wallet"
	"github.com/stretchr/testify/suite"
)

type ServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *walletRepo.MemoryRepository
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = walletRepo.NewMemoryRepository()
	s.service = NewService(s.repo, 500)
	s.service.logger = logging.NewLoggerWithWriter(logging.ERROR, io.Discard)
}

func (s *ServiceTestSuite) TestGetOrCreateWallet() {
	wallet, created, err := s.service.GetOrCreateWallet(s.ctx, "user1")
	s.Require().NoError(err)
	s.True(created)
	s.Equal(int64(500), wallet.Balance)

	again, created, err := s.service.GetOrCreateWallet(s.ctx, "user1")
	s.Require().NoError(err)
	s.False(created)
	s.Equal(int64(500), again.Balance)

	txs, err := s.service.GetRecentTransactions(s.ctx, "user1", 10)
	s.Require().NoError(err)
	s.Require().Len(txs, 1)
	s.Equal(entities.TransactionTypeDeposit, txs[0].Type)
	s.Equal(int64(500), txs[0].BalanceAfter)
}

func (s *ServiceTestSuite) TestDefaultStartingBalance() {
	service := NewService(s.repo, 0)

	wallet, _, err := service.GetOrCreateWallet(s.ctx, "user2")
	s.Require().NoError(err)
	s.Equal(DefaultStartingBalance, wallet.Balance)
}

func (s *ServiceTestSuite) TestAddAndRemoveFunds() {
	_, _, err := s.service.GetOrCreateWallet(s.ctx, "user1")
	s.Require().NoError(err)

	s.Require().NoError(s.service.RemoveFunds(s.ctx, "user1", 50, entities.TransactionTypeBet, "round1", "Bet"))
	s.Require().NoError(s.service.AddFunds(s.ctx, "user1", 125, entities.TransactionTypePayout, "round1", "Payout"))

	balance, err := s.service.GetBalance(s.ctx, "user1")
	s.Require().NoError(err)
	s.Equal(int64(575), balance)

	txs, err := s.service.GetRecentTransactions(s.ctx, "user1", 2)
	s.Require().NoError(err)
	s.Require().Len(txs, 2)
	s.Equal(entities.TransactionTypePayout, txs[0].Type)
	s.Equal(int64(125), txs[0].Amount)
	s.Equal(int64(575), txs[0].BalanceAfter)
	s.Equal(entities.TransactionTypeBet, txs[1].Type)
	s.Equal(int64(-50), txs[1].Amount)
	s.Equal("round1", txs[1].ReferenceID)
}

func (s *ServiceTestSuite) TestFundErrors() {
	_, _, err := s.service.GetOrCreateWallet(s.ctx, "user1")
	s.Require().NoError(err)

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{
			name: "remove more than balance",
			run: func() error {
				return s.service.RemoveFunds(s.ctx, "user1", 501, entities.TransactionTypeBet, "", "")
			},
			wantErr: ErrInsufficientFunds,
		},
		{
			name: "zero amount",
			run: func() error {
				return s.service.AddFunds(s.ctx, "user1", 0, entities.TransactionTypePayout, "", "")
			},
			wantErr: ErrNegativeAmount,
		},
		{
			name: "negative removal",
			run: func() error {
				return s.service.RemoveFunds(s.ctx, "user1", -5, entities.TransactionTypeBet, "", "")
			},
			wantErr: ErrNegativeAmount,
		},
		{
			name: "unknown wallet",
			run: func() error {
				return s.service.AddFunds(s.ctx, "nobody", 10, entities.TransactionTypePayout, "", "")
			},
			wantErr: walletRepo.ErrWalletNotFound,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.ErrorIs(tt.run(), tt.wantErr)
		})
	}

	balance, err := s.service.GetBalance(s.ctx, "user1")
	s.NoError(err)
	s.Equal(int64(500), balance, "failed operations leave the balance untouched")
}
