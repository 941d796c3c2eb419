// Package entity defines the domain models for the tracker feature.
package entity

import "time"

// User represents a registered user.
type User struct {
	// ID is the storage-assigned identifier.
	ID uint

	// Username is unique across all users (case-sensitive).
	Username string

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time
}
