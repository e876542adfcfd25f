package core

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRecord represents a minimal projection stored in persistence layer.
type UserRecord struct {
	ID             int64
	Username       string
	Email          string
	CredentialHash string
	CreatedAt      time.Time
}

// UserRepository defines persistence operations for accounts. The store
// owns the uniqueness invariant on username and email (unique indexes);
// Create reports a violation as DuplicateUsername/DuplicateEmail even
// when a concurrent registration slipped past the lookup checks.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*UserRecord, error)
	FindByEmail(ctx context.Context, email string) (*UserRecord, error)
	FindByCredentials(ctx context.Context, username, credentialHash string) (*UserRecord, error)
	Create(ctx context.Context, username, email, credentialHash string) (*UserRecord, error)
	// Delete exists solely so registration can roll back the user row
	// when session persistence fails.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	HasUser(ctx context.Context, username string) (bool, error)
}

// PgUserRepository implements UserRepository using pgxpool.
type PgUserRepository struct {
	db *pgxpool.Pool
}

func NewPgUserRepository(db *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{db: db}
}

func (r *PgUserRepository) FindByUsername(ctx context.Context, username string) (*UserRecord, error) {
	const q = `SELECT id, username, email, credential_hash, created_at FROM users WHERE username=$1`
	return r.findOne(ctx, q, username)
}

func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*UserRecord, error) {
	const q = `SELECT id, username, email, credential_hash, created_at FROM users WHERE email=$1`
	return r.findOne(ctx, q, email)
}

// FindByCredentials matches username and credential hash exactly, the
// way login authenticates. A miss on either field looks the same.
func (r *PgUserRepository) FindByCredentials(ctx context.Context, username, credentialHash string) (*UserRecord, error) {
	const q = `SELECT id, username, email, credential_hash, created_at FROM users WHERE username=$1 AND credential_hash=$2`
	return r.findOne(ctx, q, username, credentialHash)
}

func (r *PgUserRepository) findOne(ctx context.Context, q string, args ...any) (*UserRecord, error) {
	var u UserRecord
	err := r.db.QueryRow(ctx, q, args...).Scan(&u.ID, &u.Username, &u.Email, &u.CredentialHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) Create(ctx context.Context, username, email, credentialHash string) (*UserRecord, error) {
	const q = `INSERT INTO users (username, email, credential_hash) VALUES ($1,$2,$3) RETURNING id, created_at`
	u := UserRecord{Username: username, Email: email, CredentialHash: credentialHash}
	if err := r.db.QueryRow(ctx, q, username, email, credentialHash).Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, classifyCreateError(err)
	}
	return &u, nil
}

// classifyCreateError maps constraint violations onto the account error
// taxonomy. Unique violations are dispatched by constraint name so a
// registration race lost at INSERT time still reports the right
// duplicate; other integrity errors become UserCreationFailed.
func classifyCreateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case "users_username_key":
			return &AccountError{Kind: ErrKindDuplicateUsername}
		case "users_email_key":
			return &AccountError{Kind: ErrKindDuplicateEmail}
		}
		return &AccountError{Kind: ErrKindUserCreationFailed, Detail: pgErr.Message}
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.StringDataRightTruncationDataException:
		return &AccountError{Kind: ErrKindUserCreationFailed, Detail: pgErr.Message}
	}
	return err
}

func (r *PgUserRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	return err
}

func (r *PgUserRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// HasUser reports whether an account with the given username exists.
func (r *PgUserRepository) HasUser(ctx context.Context, username string) (bool, error) {
	var one int
	if err := r.db.QueryRow(ctx, `SELECT 1 FROM users WHERE username=$1 LIMIT 1`, username).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
