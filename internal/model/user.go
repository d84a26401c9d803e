// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other
// languages, but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// Users authenticate with email + password. The email is UNIQUE in the
// database and doubles as the JWT subject, so lookups are exact,
// case-sensitive string matches.
//
// WHY PasswordHash AND NOT Password?
// We never store (or log, or serialize) the plaintext password. The bcrypt
// hash embeds its own salt and cost, so this single column is all we need
// to verify a login attempt. The `json:"-"` tag guarantees the hash never
// leaks into an API response, even by accident.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"` // unique, case-sensitive
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
