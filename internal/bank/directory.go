package bank

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Rina-ui/Front-TP-JEE/internal/gql"
	"github.com/Rina-ui/Front-TP-JEE/internal/models"
	"github.com/Rina-ui/Front-TP-JEE/internal/models/dto"
)

// DirectoryClient manages the client directory. The server is authoritative; no
// copy is kept beyond the caller's view.
type DirectoryClient struct {
	run Runner
	log zerolog.Logger
}

// ListAll returns every client.
func (c *DirectoryClient) ListAll(ctx context.Context) ([]models.Client, error) {
	var out struct {
		Clients *[]rawClient `json:"getAllClients"`
	}
	if err := c.run.Run(ctx, gql.GetAllClients, nil, &out); err != nil {
		return nil, err
	}
	if out.Clients == nil {
		return nil, noData(gql.GetAllClients.Name)
	}
	return mapAll(c.log, gql.GetAllClients.Name, *out.Clients, rawClient.toModel), nil
}

// Get returns one client.
func (c *DirectoryClient) Get(ctx context.Context, id string) (models.Client, error) {
	var out struct {
		Client *rawClient `json:"getClientById"`
	}
	if err := c.run.Run(ctx, gql.GetClientByID, map[string]any{"id": id}, &out); err != nil {
		return models.Client{}, err
	}
	if out.Client == nil {
		return models.Client{}, noData(gql.GetClientByID.Name)
	}
	return wrapOp(gql.GetClientByID.Name)(out.Client.toModel())
}

// Create registers a new client on behalf of staff. The session of the caller is
// not affected.
func (c *DirectoryClient) Create(ctx context.Context, req dto.RegisterRequest) (bool, error) {
	var out struct {
		Register *rawAuth `json:"register"`
	}
	if err := c.run.Run(ctx, gql.Register, map[string]any{"input": registerInput(req)}, &out); err != nil {
		return false, err
	}
	if out.Register == nil {
		return false, noData(gql.Register.Name)
	}
	return true, nil
}

// Update applies req to client id and returns the server's record.
func (c *DirectoryClient) Update(ctx context.Context, id string, req dto.UpdateClientRequest) (models.Client, error) {
	input := map[string]any{}
	setIf := func(key, value string) {
		if value != "" {
			input[key] = value
		}
	}
	setIf("email", req.Email)
	setIf("firstName", req.FirstName)
	setIf("lastName", req.LastName)
	setIf("dateNaissance", req.BirthDate)
	setIf("city", req.City)
	setIf("nationality", req.Nationality)
	if req.NationalID != "" {
		input["numberNationality"] = nationalNumber(req.NationalID)
	}

	var out struct {
		Client *rawClient `json:"updateClient"`
	}
	if err := c.run.Run(ctx, gql.UpdateClient, map[string]any{"id": id, "input": input}, &out); err != nil {
		return models.Client{}, err
	}
	if out.Client == nil {
		return models.Client{}, noData(gql.UpdateClient.Name)
	}
	return wrapOp(gql.UpdateClient.Name)(out.Client.toModel())
}

// Delete removes client id.
func (c *DirectoryClient) Delete(ctx context.Context, id string) (bool, error) {
	var out struct {
		Deleted *bool `json:"deleteClient"`
	}
	if err := c.run.Run(ctx, gql.DeleteClient, map[string]any{"id": id}, &out); err != nil {
		return false, err
	}
	if out.Deleted == nil {
		return false, noData(gql.DeleteClient.Name)
	}
	return *out.Deleted, nil
}

func wrapOp(op string) func(models.Client, error) (models.Client, error) {
	return func(c models.Client, err error) (models.Client, error) {
		if err != nil {
			return models.Client{}, fmt.Errorf("%s: %w", op, err)
		}
		return c, nil
	}
}

// nationalNumber sends digits as an integer, as the API schema expects.
func nationalNumber(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	return raw
}
