package models

import (
	"strings"
)

// Identity is the authenticated principal as returned by the banking API.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session couples an identity with the opaque bearer token issued for it.
type Session struct {
	Token    string   `json:"-"`
	Identity Identity `json:"user"`
}

// Client is an entry of the client directory.
type Client struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        Role   `json:"role,omitempty"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	BirthDate   string `json:"birthDate"`
	City        string `json:"city"`
	Nationality string `json:"nationality"`
	NationalID  string `json:"nationalId"`
}

// DisplayName renders "First Last" for list views.
func (c Client) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Initials returns the upper-cased first letters of first and last name.
func (c Client) Initials() string {
	var b strings.Builder
	for _, part := range []string{c.FirstName, c.LastName} {
		for _, r := range part {
			b.WriteRune(r)
			break
		}
	}
	if b.Len() == 0 {
		return "??"
	}
	return strings.ToUpper(b.String())
}
