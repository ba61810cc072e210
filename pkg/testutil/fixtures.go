package testutil

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// TenantFixture is one seeded company with the reference data attendance
// needs: two sites, a payer and a work type.
type TenantFixture struct {
	CompanyID   string
	CompanyName string
	SiteID      string
	SiteName    string
	OtherSiteID string
	PayerID     string
	WorkTypeID  string
	WorkType    string

	db *sqlx.DB
}

// SeedTenant inserts a company and its reference data. db must be a role
// that bypasses row level security, such as IntegrationSuite.RawDB.
func SeedTenant(ctx context.Context, db *sqlx.DB, name string) (*TenantFixture, error) {
	fx := &TenantFixture{
		CompanyID:   uuid.NewString(),
		CompanyName: name,
		SiteID:      uuid.NewString(),
		SiteName:    "Tower",
		OtherSiteID: uuid.NewString(),
		PayerID:     uuid.NewString(),
		WorkTypeID:  uuid.NewString(),
		WorkType:    "Mason",
		db:          db,
	}
	clientID := uuid.NewString()

	stmts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO companies (id, name) VALUES ($1, $2)`, []any{fx.CompanyID, name}},
		{`INSERT INTO clients (id, company_id, name) VALUES ($1, $2, $3)`, []any{clientID, fx.CompanyID, "Skyline Developers"}},
		{`INSERT INTO sites (id, company_id, name, client_id) VALUES ($1, $2, $3, $4)`, []any{fx.SiteID, fx.CompanyID, fx.SiteName, clientID}},
		{`INSERT INTO sites (id, company_id, name) VALUES ($1, $2, $3)`, []any{fx.OtherSiteID, fx.CompanyID, "Riverside"}},
		{`INSERT INTO payers (id, company_id, name) VALUES ($1, $2, $3)`, []any{fx.PayerID, fx.CompanyID, "Skyline Accounts"}},
		{`INSERT INTO work_types (id, company_id, name) VALUES ($1, $2, $3)`, []any{fx.WorkTypeID, fx.CompanyID, fx.WorkType}},
	}

	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s.query, s.args...); err != nil {
			return nil, fmt.Errorf("seed %q: %w", s.query, err)
		}
	}

	return fx, nil
}

// AddEmployee inserts an active employee and returns its id.
func (fx *TenantFixture) AddEmployee(ctx context.Context, name, employeeType string, defaultWage int64) (string, error) {
	id := uuid.NewString()
	_, err := fx.db.ExecContext(ctx,
		`INSERT INTO employees (id, company_id, name, phone, type, default_wage) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, fx.CompanyID, name, "+91 98000 00000", employeeType, decimal.NewFromInt(defaultWage),
	)
	if err != nil {
		return "", fmt.Errorf("seed employee %s: %w", name, err)
	}
	return id, nil
}

// Deactivate marks an employee inactive.
func (fx *TenantFixture) Deactivate(ctx context.Context, employeeID string) error {
	_, err := fx.db.ExecContext(ctx, `UPDATE employees SET is_active = FALSE WHERE id = $1`, employeeID)
	return err
}

// Count returns the number of rows in table belonging to the fixture company.
func (fx *TenantFixture) Count(ctx context.Context, table string) (int, error) {
	var n int
	err := fx.db.GetContext(ctx, &n, fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE company_id = $1", table), fx.CompanyID)
	return n, err
}

// Drop deletes the company; foreign keys cascade the rest away.
func (fx *TenantFixture) Drop(ctx context.Context) error {
	for _, table := range []string{"site_transactions", "transactions", "attendance"} {
		if _, err := fx.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE company_id = $1", table), fx.CompanyID); err != nil {
			return err
		}
	}
	_, err := fx.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, fx.CompanyID)
	return err
}
