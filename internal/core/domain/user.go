package domain

import "time"

type UserRole string

const (
	UserRoleMerchant UserRole = "merchant"
	UserRoleCustomer UserRole = "customer"
)

func (r UserRole) IsValid() bool {
	return r == UserRoleMerchant || r == UserRoleCustomer
}

type User struct {
	ID           ID
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewUser(email string, passwordHash string, role UserRole) *User {
	return &User{
		ID:           NewID(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// Actor is an already-authenticated caller.
type Actor struct {
	ID    ID       `json:"id"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

func (a *Actor) IsMerchant() bool {
	return a != nil && a.Role == UserRoleMerchant
}
