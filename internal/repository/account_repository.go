package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rently/rently-auth/internal/domain"
)

// ErrStoreUnavailable is returned when no database is configured.
var ErrStoreUnavailable = errors.New("account store not configured")

// AccountRepository defines read access to login accounts.
type AccountRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation reading the accounts
// table (id bigint, email, name, password_hash, roles text[], metadata jsonb, status,
// created_at, updated_at).
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const selectAccount = `
        SELECT id, email, name, password_hash, roles, metadata, status, created_at, updated_at
        FROM accounts`

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if r.pool == nil {
		return nil, ErrStoreUnavailable
	}
	return scanAccount(r.pool.QueryRow(ctx, selectAccount+` WHERE lower(email)=lower($1)`, email))
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account  domain.Account
		name     *string
		roles    []string
		metadata map[string]any
	)
	if err := row.Scan(
		&account.ID,
		&account.Email,
		&name,
		&account.PasswordHash,
		&roles,
		&metadata,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if name != nil {
		account.Name = *name
	}
	if roles == nil {
		roles = []string{}
	}
	account.Roles = roles
	account.Metadata = metadata
	return &account, nil
}
