package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/pkg/database"
	"github.com/wageflow/wageflow-backend/pkg/errors"
)

const (
	getCompanyQuery = `SELECT id, name FROM companies WHERE id = $1`

	wageEntriesQuery = `
		SELECT ` + attendanceColumns + `,
		       COALESCE(s.name, '') AS site_name,
		       COALESCE(w.name, '') AS work_type_name
		FROM attendance a
		LEFT JOIN sites s ON s.company_id = a.company_id AND s.id = a.site_id
		LEFT JOIN work_types w ON w.company_id = a.company_id AND w.id = a.work_type_id
		WHERE a.company_id = $1 AND a.employee_id = $2 AND a.is_present
		ORDER BY a.date, a.id`
)

// LedgerRepository loads the rows an employee ledger is derived from
type LedgerRepository struct {
	db *database.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Load reads the employee, the company, every present attendance row with
// its site and work type names, and every transaction of the employee from
// one snapshot. An employee outside the company is errors.NotFound.
func (r *LedgerRepository) Load(ctx context.Context, companyID, employeeID string) (*domain.LedgerSource, error) {
	src := &domain.LedgerSource{}

	err := r.db.WithTenantSnapshot(ctx, companyID, func(tx *sqlx.Tx) error {
		emp, err := getEmployee(ctx, tx, companyID, employeeID)
		if errors.Is(err, sql.ErrNoRows) {
			return errors.NotFound("employee")
		}
		if err != nil {
			return fmt.Errorf("get employee: %w", err)
		}
		src.Employee = *emp

		err = tx.GetContext(ctx, &src.Company, getCompanyQuery, companyID)
		if errors.Is(err, sql.ErrNoRows) {
			return errors.NotFound("company")
		}
		if err != nil {
			return fmt.Errorf("get company: %w", err)
		}

		src.Wages = []domain.WageEntry{}
		if err := tx.SelectContext(ctx, &src.Wages, wageEntriesQuery, companyID, employeeID); err != nil {
			return fmt.Errorf("list wage entries: %w", err)
		}

		if src.Transactions, err = selectTransactions(ctx, tx, companyID, employeeID); err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	if err != nil {
		var appErr *errors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return src, nil
}
