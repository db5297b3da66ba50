package bank

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Rina-ui/Front-TP-JEE/internal/gql"
	"github.com/Rina-ui/Front-TP-JEE/internal/models"
	"github.com/Rina-ui/Front-TP-JEE/internal/models/dto"
)

// AuthClient signs identities in against the banking API.
type AuthClient struct {
	run Runner
	log zerolog.Logger
}

// Authenticate exchanges credentials for a token and identity.
func (c *AuthClient) Authenticate(ctx context.Context, email, password string) (dto.AuthResponse, error) {
	var out struct {
		Login *rawAuth `json:"login"`
	}
	vars := map[string]any{"input": map[string]any{"email": email, "password": password}}
	if err := c.run.Run(ctx, gql.Login, vars, &out); err != nil {
		return dto.AuthResponse{}, err
	}
	return toAuthResponse(gql.Login.Name, out.Login)
}

// Register creates a client account and returns its first session.
func (c *AuthClient) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	var out struct {
		Register *rawAuth `json:"register"`
	}
	if err := c.run.Run(ctx, gql.Register, map[string]any{"input": registerInput(req)}, &out); err != nil {
		return dto.AuthResponse{}, err
	}
	return toAuthResponse(gql.Register.Name, out.Register)
}

// CurrentIdentity asks the API who the bearer token belongs to.
func (c *AuthClient) CurrentIdentity(ctx context.Context) (models.Identity, error) {
	var out struct {
		Me *rawIdentity `json:"me"`
	}
	if err := c.run.Run(ctx, gql.Me, nil, &out); err != nil {
		return models.Identity{}, err
	}
	if out.Me == nil {
		return models.Identity{}, noData(gql.Me.Name)
	}
	id, err := out.Me.toModel()
	if err != nil {
		return models.Identity{}, fmt.Errorf("%s: %w", gql.Me.Name, err)
	}
	return id, nil
}

func toAuthResponse(op string, raw *rawAuth) (dto.AuthResponse, error) {
	if raw == nil || raw.User == nil {
		return dto.AuthResponse{}, noData(op)
	}
	id, err := raw.User.toModel()
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	return dto.AuthResponse{Token: raw.Token, User: id}, nil
}

func registerInput(req dto.RegisterRequest) map[string]any {
	return map[string]any{
		"email":             req.Email,
		"password":          req.Password,
		"firstName":         req.FirstName,
		"lastName":          req.LastName,
		"dateNaissance":     req.BirthDate,
		"city":              req.City,
		"nationality":       req.Nationality,
		"numberNationality": nationalNumber(req.NationalID),
	}
}
