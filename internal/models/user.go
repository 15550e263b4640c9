package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// User is the profile returned by the shop API for the signed in account.
type User struct {
	ID        string `json:"_id,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role,omitempty"`
}

// for registration
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

// for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is what the shop API answers to a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
}

// Claims are the parts of the login token the storefront reads. The token is
// issued and verified by the shop API; the storefront only inspects it.
type Claims struct {
	Role Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}
