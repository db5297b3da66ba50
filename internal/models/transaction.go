package models

import (
	"fmt"
	"strings"
	"time"
)

// TransactionKind is the closed set of ledger operations.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "DEPOSIT"
	KindWithdrawal TransactionKind = "WITHDRAWAL"
	KindTransfer   TransactionKind = "TRANSFER"
)

// ParseTransactionKind accepts canonical names and every spelling the API has used.
func ParseTransactionKind(raw string) (TransactionKind, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "DEPOSIT", "DEPOT", "VERSEMENT":
		return KindDeposit, nil
	case "WITHDRAWAL", "RETRAIT":
		return KindWithdrawal, nil
	case "TRANSFER", "VIREMENT":
		return KindTransfer, nil
	}
	return "", fmt.Errorf("transaction kind %q: %w", raw, ErrUnknownValue)
}

// Sign is "+" for credits and "-" otherwise, as shown in statements.
func (k TransactionKind) Sign() string {
	if k == KindDeposit {
		return "+"
	}
	return "-"
}

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID                       string          `json:"id"`
	Kind                     TransactionKind `json:"kind"`
	Amount                   float64         `json:"amount"`
	Timestamp                time.Time       `json:"timestamp"`
	Description              string          `json:"description,omitempty"`
	SourceAccountNumber      string          `json:"sourceAccountNumber,omitempty"`
	DestinationAccountNumber string          `json:"destinationAccountNumber,omitempty"`
	BalanceAfter             float64         `json:"balanceAfter"`
}
