package models

import (
	"time"
)

// User represents a storefront customer, identified by phone number
type User struct {
	ID           string    `db:"id" json:"id"`
	PhoneNumber  string    `db:"phone_number" json:"phone_number"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// NewUser creates a new user with a hashed password
func NewUser(phoneNumber, name, passwordHash string) *User {
	return &User{
		ID:           NewID(),
		PhoneNumber:  phoneNumber,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    GetCurrentTime(),
	}
}
