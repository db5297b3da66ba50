package bank

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Rina-ui/Front-TP-JEE/internal/gql"
	"github.com/Rina-ui/Front-TP-JEE/internal/models"
	"github.com/Rina-ui/Front-TP-JEE/internal/models/dto"
)

// AccountClient reads and manages comptes.
type AccountClient struct {
	run Runner
	log zerolog.Logger
}

// ListAll returns every account visible to the caller.
func (c *AccountClient) ListAll(ctx context.Context) ([]models.Account, error) {
	var out struct {
		Accounts *[]rawAccount `json:"getAllComptes"`
	}
	if err := c.run.Run(ctx, gql.GetAllComptes, nil, &out); err != nil {
		return nil, err
	}
	if out.Accounts == nil {
		return nil, noData(gql.GetAllComptes.Name)
	}
	return mapAll(c.log, gql.GetAllComptes.Name, *out.Accounts, rawAccount.toModel), nil
}

// ListByOwner returns the accounts owned by clientID.
func (c *AccountClient) ListByOwner(ctx context.Context, clientID string) ([]models.Account, error) {
	var out struct {
		Accounts *[]rawAccount `json:"getComptesByClient"`
	}
	if err := c.run.Run(ctx, gql.GetComptesByClient, map[string]any{"clientId": clientID}, &out); err != nil {
		return nil, err
	}
	if out.Accounts == nil {
		return nil, noData(gql.GetComptesByClient.Name)
	}
	accounts := mapAll(c.log, gql.GetComptesByClient.Name, *out.Accounts, rawAccount.toModel)
	for i := range accounts {
		if accounts[i].OwnerClientID == "" {
			accounts[i].OwnerClientID = clientID
		}
	}
	return accounts, nil
}

// FindByNumber looks an account up by its displayable number.
func (c *AccountClient) FindByNumber(ctx context.Context, number string) (models.Account, error) {
	accounts, err := c.ListAll(ctx)
	if err != nil {
		return models.Account{}, err
	}
	for _, a := range accounts {
		if a.AccountNumber == number {
			return a, nil
		}
	}
	return models.Account{}, fmt.Errorf("%s: %w", number, ErrAccountNotFound)
}

// Create opens an account for clientID and returns the server's record.
func (c *AccountClient) Create(ctx context.Context, clientID string, req dto.CreateAccountRequest) (models.Account, error) {
	typ, err := models.ParseAccountType(req.AccountType)
	if err != nil {
		return models.Account{}, err
	}
	vars := map[string]any{
		"clientId": clientID,
		"input": map[string]any{
			"sold":       req.InitialBalance,
			"typeCompte": typ.WireValue(),
		},
	}
	var out struct {
		Account *rawAccount `json:"createCompte"`
	}
	if err := c.run.Run(ctx, gql.CreateCompte, vars, &out); err != nil {
		return models.Account{}, err
	}
	if out.Account == nil {
		return models.Account{}, noData(gql.CreateCompte.Name)
	}
	acc, err := out.Account.toModel()
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", gql.CreateCompte.Name, err)
	}
	if acc.OwnerClientID == "" {
		acc.OwnerClientID = clientID
	}
	return acc, nil
}

// Delete removes the account and reports the server's answer.
func (c *AccountClient) Delete(ctx context.Context, id string) (bool, error) {
	var out struct {
		Deleted *bool `json:"deleteCompte"`
	}
	if err := c.run.Run(ctx, gql.DeleteCompte, map[string]any{"id": id}, &out); err != nil {
		return false, err
	}
	if out.Deleted == nil {
		return false, noData(gql.DeleteCompte.Name)
	}
	return *out.Deleted, nil
}
