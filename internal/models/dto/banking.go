package dto

type CreateAccountRequest struct {
	ClientID       string  `json:"clientId" validate:"required"`
	AccountType    string  `json:"accountType" validate:"required,oneof=CURRENT SAVINGS COURANT EPARGNE"`
	InitialBalance float64 `json:"initialBalance" validate:"gte=0"`
}

type DepositRequest struct {
	AccountNumber string  `json:"accountNumber" validate:"required"`
	Amount        float64 `json:"amount" validate:"gte=1"`
	Description   string  `json:"description,omitempty" validate:"max=255"`
}

type WithdrawalRequest struct {
	AccountNumber string  `json:"accountNumber" validate:"required"`
	Amount        float64 `json:"amount" validate:"gte=1"`
	Description   string  `json:"description,omitempty" validate:"max=255"`
}

type TransferRequest struct {
	SourceAccountNumber      string  `json:"sourceAccountNumber" validate:"required"`
	DestinationAccountNumber string  `json:"destinationAccountNumber" validate:"required,nefield=SourceAccountNumber"`
	Amount                   float64 `json:"amount" validate:"gte=1"`
	Description              string  `json:"description,omitempty" validate:"max=255"`
}

// IncomeEntryRequest records a locally kept, non-synced income line.
type IncomeEntryRequest struct {
	Label  string  `json:"label" validate:"required,max=120"`
	Amount float64 `json:"amount" validate:"gt=0"`
	Date   string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
