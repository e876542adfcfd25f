package core

import (
	"errors"
	"fmt"
)

// AccountErrorKind enumerates the client-facing failures of the
// registration/login/validation flows. Store faults are deliberately
// not part of this set; they pass through wrapped and surface as
// internal errors.
type AccountErrorKind int

const (
	// ErrKindMissingParameter reports a required request field that was absent.
	ErrKindMissingParameter AccountErrorKind = iota
	// ErrKindPasswordMismatch reports password1 != password2 on registration.
	ErrKindPasswordMismatch
	// ErrKindDuplicateUsername reports a username already taken.
	ErrKindDuplicateUsername
	// ErrKindDuplicateEmail reports an email already taken.
	ErrKindDuplicateEmail
	// ErrKindInvalidCredentialEncoding reports a password outside the
	// 7-bit-clean character set accepted by the hasher.
	ErrKindInvalidCredentialEncoding
	// ErrKindUserCreationFailed reports a store-level validation failure
	// while persisting the new user.
	ErrKindUserCreationFailed
	// ErrKindAuthenticationFailed reports a failed login. Wrong username
	// and wrong password are indistinguishable on purpose.
	ErrKindAuthenticationFailed
	// ErrKindUnauthenticated reports a missing, unknown, or expired
	// session token.
	ErrKindUnauthenticated
)

// AccountError is the closed error type surfaced by AccountService.
// Field is set for missing-parameter errors; Detail carries the store
// message for user-creation failures.
type AccountError struct {
	Kind   AccountErrorKind
	Field  string
	Detail string
}

func (e *AccountError) Error() string {
	switch e.Kind {
	case ErrKindMissingParameter:
		return fmt.Sprintf("missing parameter %q", e.Field)
	case ErrKindPasswordMismatch:
		return "passwords do not match"
	case ErrKindDuplicateUsername:
		return "username is already taken"
	case ErrKindDuplicateEmail:
		return "email is already taken"
	case ErrKindInvalidCredentialEncoding:
		return "invalid password characters"
	case ErrKindUserCreationFailed:
		return fmt.Sprintf("user creation failed: %s", e.Detail)
	case ErrKindAuthenticationFailed:
		return "invalid username or password"
	case ErrKindUnauthenticated:
		return "not authenticated"
	default:
		return "unknown account error"
	}
}

// Is lets errors.Is match two AccountErrors by kind alone, so callers
// can compare against a bare &AccountError{Kind: ...}.
func (e *AccountError) Is(target error) bool {
	var other *AccountError
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

func missingParameter(field string) *AccountError {
	return &AccountError{Kind: ErrKindMissingParameter, Field: field}
}

var (
	// ErrUserNotFound is returned by UserRepository lookups that match no row.
	ErrUserNotFound = errors.New("user not found")
	// ErrSessionNotFound is returned by SessionStore lookups when the
	// token is absent or already expired.
	ErrSessionNotFound = errors.New("session not found")
)
