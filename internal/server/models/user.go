package models

import "time"

// User is the stored account record. PasswordHash never leaves the
// service layer; HTTP responses are built from a separate view.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
