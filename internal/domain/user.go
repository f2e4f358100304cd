package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// UserID is the opaque identifier issued by the auth provider at sign-in.
type UserID uuid.UUID

// ParseUserID validates and converts a raw subject claim.
func ParseUserID(raw string) (UserID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return UserID{}, fmt.Errorf("parse user id: %w", err)
	}
	if id == uuid.Nil {
		return UserID{}, fmt.Errorf("parse user id: nil uuid")
	}
	return UserID(id), nil
}

// String returns the canonical textual form.
func (u UserID) String() string {
	return uuid.UUID(u).String()
}

// UUID exposes the underlying value for persistence.
func (u UserID) UUID() uuid.UUID {
	return uuid.UUID(u)
}
