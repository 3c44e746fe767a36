package domain

import "time"

// AccountStatus represents lifecycle states for an account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

// Account is the credential record the login flow reads. Accounts are created and
// maintained elsewhere; this service never writes them.
type Account struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Roles        []string
	Metadata     map[string]any
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active reports whether the account may log in.
func (a *Account) Active() bool {
	return a.Status == AccountStatusActive
}
