package dto

import "github.com/Rina-ui/Front-TP-JEE/internal/models"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthResponse is the payload of both the login and register mutations.
type AuthResponse struct {
	Token string          `json:"token"`
	User  models.Identity `json:"user"`
}

// RegisterRequest mirrors the three-step client registration form.
type RegisterRequest struct {
	FirstName       string `json:"firstName" validate:"required,min=2"`
	LastName        string `json:"lastName" validate:"required,min=2"`
	BirthDate       string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	City            string `json:"city" validate:"required"`
	Nationality     string `json:"nationality" validate:"required"`
	NationalID      string `json:"nationalId" validate:"required,numeric"`
}

type UpdateClientRequest struct {
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName   string `json:"firstName,omitempty" validate:"omitempty,min=2"`
	LastName    string `json:"lastName,omitempty" validate:"omitempty,min=2"`
	BirthDate   string `json:"birthDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	City        string `json:"city,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	NationalID  string `json:"nationalId,omitempty" validate:"omitempty,numeric"`
}
