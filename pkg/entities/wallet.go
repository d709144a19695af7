package entities

import (
	"time"
)

// Wallet represents a player's persistent bankroll
type Wallet struct {
	UserID      string    // Discord user ID
	Balance     int64     // Current balance in chips
	LastUpdated time.Time // When the wallet was last updated
}

// TransactionType represents the type of wallet transaction
type TransactionType string

const (
	TransactionTypeDeposit TransactionType = "DEPOSIT"
	TransactionTypeBet     TransactionType = "BET"
	TransactionTypePayout  TransactionType = "PAYOUT"
)

// Transaction represents a single wallet transaction
type Transaction struct {
	ID           string          // Unique identifier
	UserID       string          // User associated with the transaction
	Amount       int64           // Amount (positive for additions, negative for subtractions)
	Type         TransactionType // Type of transaction
	ReferenceID  string          // Optional reference (e.g., round ID)
	Description  string          // Human-readable description
	Timestamp    time.Time       // When the transaction occurred
	BalanceAfter int64           // Balance after this transaction
}
