package pgx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lborres/inventrack/core"
	"github.com/lborres/inventrack/pkg/crypto"
)

// LocalAccounts is an account provider backed by the accounts table.
// Passwords are stored as argon2id hashes.
type LocalAccounts struct {
	pool        *pgxpool.Pool
	passwords   crypto.PasswordHandler
	autoConfirm bool
	now         func() time.Time
}

var (
	_ core.AccountProvider     = (*LocalAccounts)(nil)
	_ core.TransactionalSignUp = (*LocalAccounts)(nil)
)

// NewLocalAccounts returns the provider. With autoConfirm new accounts can
// log in immediately; otherwise email_confirmed_at must be set out of band.
func NewLocalAccounts(pool *pgxpool.Pool, passwords crypto.PasswordHandler, autoConfirm bool) *LocalAccounts {
	if passwords == nil {
		passwords = crypto.NewArgon2()
	}
	return &LocalAccounts{
		pool:        pool,
		passwords:   passwords,
		autoConfirm: autoConfirm,
		now:         time.Now,
	}
}

func (l *LocalAccounts) CreateAccount(ctx context.Context, input core.SignUpInput) (*core.Account, error) {
	return l.createAccount(ctx, l.pool, input)
}

// CreateAccountWithProfile inserts the account and its profile in one
// transaction, so a failed profile write leaves no account behind.
func (l *LocalAccounts) CreateAccountWithProfile(ctx context.Context, input core.SignUpInput, profile *core.Profile) (*core.Account, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin signup transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	account, err := l.createAccount(ctx, tx, input)
	if err != nil {
		return nil, err
	}

	profile.UserID = account.ID
	if err := createProfile(ctx, tx, profile); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit signup transaction: %w", err)
	}
	return account, nil
}

func (l *LocalAccounts) createAccount(ctx context.Context, q querier, input core.SignUpInput) (*core.Account, error) {
	hash, err := l.passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &core.Account{
		ID:    uuid.NewString(),
		Email: strings.ToLower(input.Email),
		Metadata: core.AccountMetadata{
			FirstName:  input.FirstName,
			LastName:   input.LastName,
			CellNumber: input.CellNumber,
		},
	}
	if l.autoConfirm {
		confirmed := l.now().UTC()
		account.EmailConfirmedAt = &confirmed
	}

	query := `INSERT INTO public.accounts (id, email, password_hash, first_name, last_name, cell_number, email_confirmed_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at`

	err = q.QueryRow(ctx, query,
		account.ID, account.Email, hash,
		account.Metadata.FirstName, account.Metadata.LastName, account.Metadata.CellNumber,
		account.EmailConfirmedAt,
	).Scan(&account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == core.CodeUniqueViolation {
			return nil, &core.StoreError{Code: core.CodeUserExists, Message: "User already registered"}
		}
		return nil, storeError(err)
	}

	return account, nil
}

func (l *LocalAccounts) Authenticate(ctx context.Context, email, password string) (*core.Account, error) {
	query := `SELECT id::text, email, password_hash, first_name, last_name, cell_number, email_confirmed_at, created_at
	          FROM public.accounts WHERE email = $1`

	account := &core.Account{}
	var hash string
	err := l.pool.QueryRow(ctx, query, strings.ToLower(email)).Scan(
		&account.ID, &account.Email, &hash,
		&account.Metadata.FirstName, &account.Metadata.LastName, &account.Metadata.CellNumber,
		&account.EmailConfirmedAt, &account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invalidCredentials()
		}
		return nil, storeError(err)
	}

	ok, err := l.passwords.Verify(password, hash)
	if err != nil || !ok {
		return nil, invalidCredentials()
	}
	return account, nil
}

func invalidCredentials() error {
	return &core.StoreError{Code: core.CodeInvalidCredentials, Message: "Invalid login credentials"}
}
