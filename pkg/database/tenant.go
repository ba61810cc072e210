package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrMissingCompany is returned when a tenant transaction is opened without a company id.
var ErrMissingCompany = errors.New("company id is required")

// SetCompanyQuery scopes the row level security policies to one company for
// the rest of the transaction. set_config with is_local=true behaves like
// SET LOCAL but accepts a bind parameter.
const SetCompanyQuery = "SELECT set_config('app.current_company', $1, true)"

// WithTenant runs fn in a transaction whose RLS context is companyID.
//
//	err := r.db.WithTenant(ctx, companyID, func(tx *sqlx.Tx) error {
//	    return tx.GetContext(ctx, &emp, "SELECT ... WHERE company_id = $1 AND id = $2", companyID, id)
//	})
//
// Queries should still filter on company_id. The policies are the second line,
// not the only one.
func (db *DB) WithTenant(ctx context.Context, companyID string, fn func(*sqlx.Tx) error) error {
	if companyID == "" {
		return ErrMissingCompany
	}
	return db.Transaction(ctx, scoped(ctx, companyID, fn))
}

// WithTenantSnapshot is WithTenant over a read only repeatable read transaction.
func (db *DB) WithTenantSnapshot(ctx context.Context, companyID string, fn func(*sqlx.Tx) error) error {
	if companyID == "" {
		return ErrMissingCompany
	}
	return db.ReadSnapshot(ctx, scoped(ctx, companyID, fn))
}

func scoped(ctx context.Context, companyID string, fn func(*sqlx.Tx) error) func(*sqlx.Tx) error {
	return func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, SetCompanyQuery, companyID); err != nil {
			return fmt.Errorf("failed to set tenant context: %w", err)
		}
		return fn(tx)
	}
}
