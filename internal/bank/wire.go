package bank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Rina-ui/Front-TP-JEE/internal/models"
)

// flexString accepts a JSON string or number; the API is not consistent about IDs
// and national numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type rawIdentity struct {
	ID    flexString `json:"id"`
	Email string     `json:"email"`
	Role  string     `json:"role"`
}

func (r rawIdentity) toModel() (models.Identity, error) {
	role, err := models.ParseRole(r.Role)
	if err != nil {
		return models.Identity{}, err
	}
	return models.Identity{ID: string(r.ID), Email: r.Email, Role: role}, nil
}

type rawAuth struct {
	Token string       `json:"token"`
	User  *rawIdentity `json:"user"`
}

type rawAccount struct {
	ID            flexString `json:"id"`
	AccountNumber string     `json:"accountNumber"`
	Sold          float64    `json:"sold"`
	TypeCompte    string     `json:"typeCompte"`
	Actif         bool       `json:"actif"`
	ClientID      flexString `json:"clientId"`
	ClientNom     string     `json:"clientNom"`
	CreatedAt     string     `json:"createdAt"`
}

func (r rawAccount) toModel() (models.Account, error) {
	typ, err := models.ParseAccountType(r.TypeCompte)
	if err != nil {
		return models.Account{}, err
	}
	acc := models.Account{
		ID:               string(r.ID),
		AccountNumber:    r.AccountNumber,
		Balance:          r.Sold,
		Type:             typ,
		Active:           r.Actif,
		OwnerClientID:    string(r.ClientID),
		OwnerDisplayName: r.ClientNom,
	}
	if r.CreatedAt != "" {
		if ts, err := parseTime(r.CreatedAt); err == nil {
			acc.CreatedAt = &ts
		}
	}
	return acc, nil
}

type rawTransaction struct {
	ID                      flexString `json:"id"`
	Type                    string     `json:"type"`
	Montant                 float64    `json:"montant"`
	DateTransaction         string     `json:"dateTransaction"`
	Description             string     `json:"description"`
	NumeroCompteSource      string     `json:"numeroCompteSource"`
	NumeroCompteDestination string     `json:"numeroCompteDestination"`
	SoldeApres              float64    `json:"soldeApres"`
}

func (r rawTransaction) toModel() (models.Transaction, error) {
	kind, err := models.ParseTransactionKind(r.Type)
	if err != nil {
		return models.Transaction{}, err
	}
	ts, err := parseTime(r.DateTransaction)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		ID:                       string(r.ID),
		Kind:                     kind,
		Amount:                   r.Montant,
		Timestamp:                ts,
		Description:              r.Description,
		SourceAccountNumber:      r.NumeroCompteSource,
		DestinationAccountNumber: r.NumeroCompteDestination,
		BalanceAfter:             r.SoldeApres,
	}, nil
}

type rawClient struct {
	ID                flexString `json:"id"`
	Email             string     `json:"email"`
	Role              string     `json:"role"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	DateNaissance     string     `json:"dateNaissance"`
	City              string     `json:"city"`
	Nationality       string     `json:"nationality"`
	NumberNationality flexString `json:"numberNationality"`
}

// toModel keeps the role empty when the query did not select it.
func (r rawClient) toModel() (models.Client, error) {
	c := models.Client{
		ID:          string(r.ID),
		Email:       r.Email,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		BirthDate:   r.DateNaissance,
		City:        r.City,
		Nationality: r.Nationality,
		NationalID:  string(r.NumberNationality),
	}
	if r.Role != "" {
		role, err := models.ParseRole(r.Role)
		if err != nil {
			return models.Client{}, err
		}
		c.Role = role
	}
	return c, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}
