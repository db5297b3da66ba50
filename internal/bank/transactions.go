package bank

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/Rina-ui/Front-TP-JEE/internal/gql"
	"github.com/Rina-ui/Front-TP-JEE/internal/models"
	"github.com/Rina-ui/Front-TP-JEE/internal/models/dto"
)

// TransactionClient lists and issues ledger operations.
type TransactionClient struct {
	run Runner
	log zerolog.Logger
}

// List returns the transactions of one account, most recent first.
func (c *TransactionClient) List(ctx context.Context, accountNumber string) ([]models.Transaction, error) {
	var out struct {
		Transactions *[]rawTransaction `json:"getAllTransactions"`
	}
	if err := c.run.Run(ctx, gql.GetAllTransactions, map[string]any{"numeroCompte": accountNumber}, &out); err != nil {
		return nil, err
	}
	if out.Transactions == nil {
		return nil, noData(gql.GetAllTransactions.Name)
	}
	txs := mapAll(c.log, gql.GetAllTransactions.Name, *out.Transactions, rawTransaction.toModel)
	SortByTimestampDesc(txs)
	return txs, nil
}

// Deposit credits an account (versement).
func (c *TransactionClient) Deposit(ctx context.Context, req dto.DepositRequest) (models.Transaction, error) {
	input := map[string]any{
		"numeroCompte": req.AccountNumber,
		"montant":      req.Amount,
		"description":  req.Description,
	}
	return c.mutate(ctx, gql.Versement, "versement", input)
}

// Withdraw debits an account (retrait).
func (c *TransactionClient) Withdraw(ctx context.Context, req dto.WithdrawalRequest) (models.Transaction, error) {
	input := map[string]any{
		"numeroCompte": req.AccountNumber,
		"montant":      req.Amount,
		"description":  req.Description,
	}
	return c.mutate(ctx, gql.Retrait, "retrait", input)
}

// Transfer moves funds between two accounts (virement).
func (c *TransactionClient) Transfer(ctx context.Context, req dto.TransferRequest) (models.Transaction, error) {
	input := map[string]any{
		"numeroCompteSource":      req.SourceAccountNumber,
		"numeroCompteDestination": req.DestinationAccountNumber,
		"montant":                 req.Amount,
		"description":             req.Description,
	}
	return c.mutate(ctx, gql.Virement, "virement", input)
}

func (c *TransactionClient) mutate(ctx context.Context, op gql.Operation, field string, input map[string]any) (models.Transaction, error) {
	var out map[string]*rawTransaction
	if err := c.run.Run(ctx, op, map[string]any{"input": input}, &out); err != nil {
		return models.Transaction{}, err
	}
	raw := out[field]
	if raw == nil {
		return models.Transaction{}, noData(op.Name)
	}
	tx, err := raw.toModel()
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", op.Name, err)
	}
	return tx, nil
}

// SortByTimestampDesc orders txs most recent first; ties keep their order.
func SortByTimestampDesc(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})
}
