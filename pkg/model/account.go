package model

import "time"

const (
	RolePassenger = "passenger"
	RoleAdmin     = "admin"
)

type Account struct {
	UserID    int64     `json:"user_id" bson:"_id"`
	UserName  string    `json:"user_name" bson:"user_name" validate:"required,username"`
	Email     string    `json:"email" bson:"email" validate:"required,email,max=254"`
	Role      string    `json:"role" bson:"role" validate:"required,oneof=passenger admin"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Credential holds the bcrypt hash for exactly one account.
type Credential struct {
	UserID       int64  `json:"-" bson:"_id"`
	PasswordHash string `json:"-" bson:"password_hash"`
}

type Registration struct {
	UserName string `json:"user_name" validate:"required,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=3,max=72"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=passenger admin"`
}

type LoginRequest struct {
	UserName string `json:"user_name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
