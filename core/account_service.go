package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// RegisterInput carries the four registration form fields. Fields left
// empty are reported as missing, in form order.
type RegisterInput struct {
	Email     string
	Username  string
	Password1 string
	Password2 string
}

// AccountService implements the registration, login, and session
// validation flows over a user repository and a session store. Each
// call is stateless; all state lives in the stores.
type AccountService struct {
	users      UserRepository
	sessions   SessionStore
	hasher     *CredentialHasher
	sessionTTL time.Duration
}

func NewAccountService(users UserRepository, sessions SessionStore, hasher *CredentialHasher, sessionTTL time.Duration) *AccountService {
	return &AccountService{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		sessionTTL: sessionTTL,
	}
}

// Register validates the input, creates the user, and issues a session
// token. On any failure no rows survive: if the session write fails
// after the user row was inserted, the user row is rolled back.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (string, error) {
	switch {
	case in.Email == "":
		return "", missingParameter("email")
	case in.Username == "":
		return "", missingParameter("username")
	case in.Password1 == "":
		return "", missingParameter("password1")
	case in.Password2 == "":
		return "", missingParameter("password2")
	}
	if in.Password1 != in.Password2 {
		return "", &AccountError{Kind: ErrKindPasswordMismatch}
	}

	// Check-then-act: the unique indexes close the race, Create maps a
	// late violation back onto the same duplicate errors.
	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return "", &AccountError{Kind: ErrKindDuplicateUsername}
	} else if !errors.Is(err, ErrUserNotFound) {
		return "", fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return "", &AccountError{Kind: ErrKindDuplicateEmail}
	} else if !errors.Is(err, ErrUserNotFound) {
		return "", fmt.Errorf("failed to check email: %w", err)
	}

	credentialHash, err := s.hasher.Hash(in.Password1)
	if err != nil {
		return "", err
	}
	token, err := GenerateToken(in.Username)
	if err != nil {
		return "", err
	}

	user, err := s.users.Create(ctx, in.Username, in.Email, credentialHash)
	if err != nil {
		var accErr *AccountError
		if errors.As(err, &accErr) {
			return "", accErr
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.createSession(ctx, token, user); err != nil {
		// No orphaned user: roll the row back before surfacing.
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			log.Printf("failed to roll back user %d after session error: %v", user.ID, delErr)
		}
		return "", err
	}
	return token, nil
}

// Login authenticates username/password and issues a fresh session
// token. Wrong username and wrong password produce the same error;
// earlier sessions for the user stay valid until their own TTL.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	switch {
	case username == "":
		return "", missingParameter("username")
	case password == "":
		return "", missingParameter("password")
	}

	credentialHash, err := s.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	user, err := s.users.FindByCredentials(ctx, username, credentialHash)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", &AccountError{Kind: ErrKindAuthenticationFailed}
		}
		return "", fmt.Errorf("failed to look up credentials: %w", err)
	}

	token, err := GenerateToken(username)
	if err != nil {
		return "", err
	}
	if err := s.createSession(ctx, token, user); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateSession checks a presented token for liveness and returns the
// bound user reference. Absent and expired tokens are indistinguishable.
func (s *AccountService) ValidateSession(ctx context.Context, token string) (*SessionUser, error) {
	if token == "" {
		return nil, &AccountError{Kind: ErrKindUnauthenticated}
	}
	user, err := s.sessions.Find(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, &AccountError{Kind: ErrKindUnauthenticated}
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	return user, nil
}

// SessionTTL exposes the configured session lifetime for cookie MaxAge.
func (s *AccountService) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *AccountService) createSession(ctx context.Context, token string, user *UserRecord) error {
	return s.sessions.Create(ctx, token, SessionUser{UserID: user.ID, Username: user.Username}, s.sessionTTL)
}
