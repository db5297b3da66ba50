package models

import (
	"fmt"
	"strings"
	"time"
)

// AccountType is the closed set of account products.
type AccountType string

const (
	AccountCurrent AccountType = "CURRENT"
	AccountSavings AccountType = "SAVINGS"
)

// ParseAccountType accepts both the canonical names and the API's wire names.
func ParseAccountType(raw string) (AccountType, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CURRENT", "COURANT":
		return AccountCurrent, nil
	case "SAVINGS", "EPARGNE":
		return AccountSavings, nil
	}
	return "", fmt.Errorf("account type %q: %w", raw, ErrUnknownValue)
}

// WireValue is the spelling the banking API expects.
func (t AccountType) WireValue() string {
	if t == AccountSavings {
		return "EPARGNE"
	}
	return "COURANT"
}

// Label is the human readable product name.
func (t AccountType) Label() string {
	if t == AccountSavings {
		return "Compte Épargne"
	}
	return "Compte Courant"
}

// Account is a bank account (compte). Balances change only through transactions.
type Account struct {
	ID               string      `json:"id"`
	AccountNumber    string      `json:"accountNumber"`
	Balance          float64     `json:"balance"`
	Type             AccountType `json:"accountType"`
	Active           bool        `json:"active"`
	OwnerClientID    string      `json:"ownerClientId,omitempty"`
	OwnerDisplayName string      `json:"ownerDisplayName,omitempty"`
	CreatedAt        *time.Time  `json:"createdAt,omitempty"`
}
