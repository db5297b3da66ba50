package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownValue is returned when a wire value falls outside a closed set.
var ErrUnknownValue = errors.New("unknown enum value")

// Role is the closed set of identities the banking API recognises.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleAgent  Role = "AGENT"
	RoleClient Role = "CLIENT"
)

// ParseRole maps a raw role string onto Role, rejecting anything unrecognised.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleAgent:
		return RoleAgent, nil
	case RoleClient:
		return RoleClient, nil
	}
	return "", fmt.Errorf("role %q: %w", raw, ErrUnknownValue)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// IsStaff reports whether the role belongs to bank personnel.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleAgent
}
