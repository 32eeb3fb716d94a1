// Package models holds the persistent row types shared by repositories and
// services.
package models

import "time"

// User is a single account record. Password holds the bcrypt digest and is
// never serialized to callers.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
