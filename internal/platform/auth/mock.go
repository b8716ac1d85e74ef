package auth

import (
	"context"
)

// StaticVerifier accepts every token as User, or fails every verification with Error.
// It backs tests and the local memory-store mode.
type StaticVerifier struct {
	User  *FirebaseUser
	Error error
}

// Verify returns the configured user or error.
func (s *StaticVerifier) Verify(_ context.Context, _ string) (*FirebaseUser, error) {
	if s.Error != nil {
		return nil, s.Error
	}
	return s.User, nil
}

// TestUser returns the standard local user.
func TestUser() *FirebaseUser {
	return &FirebaseUser{
		UID:           "test-user-123",
		Email:         "test@example.com",
		EmailVerified: true,
	}
}

var _ Verifier = (*StaticVerifier)(nil)
