package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/pkg/database"
	"github.com/wageflow/wageflow-backend/pkg/errors"
)

const employeeColumns = `id, company_id, name, phone, type, default_wage, is_active, created_at, updated_at`

// EmployeeRepository reads employees. Employee CRUD lives with the admin tooling.
type EmployeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// GetByID returns errors.NotFound for an unknown id or one owned by another company
func (r *EmployeeRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Employee, error) {
	var emp *domain.Employee
	err := r.db.WithTenant(ctx, companyID, func(tx *sqlx.Tx) error {
		var err error
		emp, err = getEmployee(ctx, tx, companyID, id)
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("employee")
	}
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return emp, nil
}

func getEmployee(ctx context.Context, q sqlx.QueryerContext, companyID, id string) (*domain.Employee, error) {
	var emp domain.Employee
	err := sqlx.GetContext(ctx, q, &emp,
		`SELECT `+employeeColumns+` FROM employees WHERE company_id = $1 AND id = $2`,
		companyID, id)
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListActive returns the active employees ordered by name
func (r *EmployeeRepository) ListActive(ctx context.Context, companyID string) ([]domain.Employee, error) {
	employees := []domain.Employee{}
	err := r.db.WithTenant(ctx, companyID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &employees,
			`SELECT `+employeeColumns+` FROM employees WHERE company_id = $1 AND is_active ORDER BY name, id`,
			companyID)
	})
	if err != nil {
		return nil, fmt.Errorf("list active employees: %w", err)
	}
	return employees, nil
}

// ListByIDs returns the employees among ids that belong to the company
func (r *EmployeeRepository) ListByIDs(ctx context.Context, companyID string, ids []string) ([]domain.Employee, error) {
	employees := []domain.Employee{}
	if len(ids) == 0 {
		return employees, nil
	}

	err := r.db.WithTenant(ctx, companyID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &employees,
			`SELECT `+employeeColumns+` FROM employees WHERE company_id = $1 AND id = ANY($2::uuid[])`,
			companyID, pq.Array(ids))
	})
	if err != nil {
		return nil, fmt.Errorf("list employees by id: %w", err)
	}
	return employees, nil
}
