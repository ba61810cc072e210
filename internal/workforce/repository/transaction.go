package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/pkg/database"
)

const (
	transactionColumns = `id, company_id, employee_id, type, amount, date, note, payment_mode, created_at`

	insertTransactionQuery = `
		INSERT INTO transactions (id, company_id, employee_id, type, amount, date, note, payment_mode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	// Serializes salary runs of one company so two runs cannot both see
	// "no credit yet" for the same employee.
	salaryRunLockQuery = `SELECT pg_advisory_xact_lock(hashtext('salary:' || $1))`

	salaryCandidatesQuery = `
		SELECT e.id, e.company_id, e.name, e.phone, e.type, e.default_wage, e.is_active, e.created_at, e.updated_at
		FROM employees e
		WHERE e.company_id = $1 AND e.is_active AND e.type = 'salary'
		  AND NOT EXISTS (
		      SELECT 1 FROM transactions t
		      WHERE t.company_id = e.company_id AND t.employee_id = e.id
		        AND t.type = 'salary_credit' AND t.date >= $2 AND t.date < $3
		  )
		ORDER BY e.name, e.id`
)

// TransactionRepository persists employee cash transactions
type TransactionRepository struct {
	db *database.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts t, assigning ID when empty and CreatedAt from the database
func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	err := r.db.WithTenant(ctx, t.CompanyID, func(tx *sqlx.Tx) error {
		return insertTransaction(ctx, tx, t)
	})
	if err != nil {
		if mapped := database.MapPQError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func insertTransaction(ctx context.Context, tx *sqlx.Tx, t *domain.Transaction) error {
	return tx.QueryRowxContext(ctx, insertTransactionQuery,
		t.ID, t.CompanyID, t.EmployeeID, t.Type, t.Amount, t.Date, t.Note, t.PaymentMode,
	).Scan(&t.CreatedAt)
}

// ListByEmployee returns the employee's transactions, newest first
func (r *TransactionRepository) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	err := r.db.WithTenant(ctx, companyID, func(tx *sqlx.Tx) error {
		var err error
		txns, err = selectTransactions(ctx, tx, companyID, employeeID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

func selectTransactions(ctx context.Context, q sqlx.QueryerContext, companyID, employeeID string) ([]domain.Transaction, error) {
	txns := []domain.Transaction{}
	err := sqlx.SelectContext(ctx, q, &txns, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE company_id = $1 AND employee_id = $2
		ORDER BY date DESC, created_at DESC, id DESC`,
		companyID, employeeID)
	return txns, err
}

// SalaryCreditBuilder decides the credit for one eligible employee. Returning
// false skips the employee.
type SalaryCreditBuilder func(emp domain.Employee) (domain.Transaction, bool)

// CreateSalaryCredits finds active salaried employees with no salary credit
// dated inside month and inserts the credit build returns for each, all in
// one transaction. On any failure nothing is created.
func (r *TransactionRepository) CreateSalaryCredits(ctx context.Context, companyID string, month domain.Month, build SalaryCreditBuilder) ([]domain.Transaction, error) {
	created := []domain.Transaction{}

	err := r.db.WithTenant(ctx, companyID, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, salaryRunLockQuery, companyID); err != nil {
			return fmt.Errorf("lock salary run: %w", err)
		}

		var candidates []domain.Employee
		if err := tx.SelectContext(ctx, &candidates, salaryCandidatesQuery, companyID, month.Start, month.Next); err != nil {
			return fmt.Errorf("find salary candidates: %w", err)
		}

		for _, emp := range candidates {
			credit, ok := build(emp)
			if !ok {
				continue
			}
			if credit.ID == "" {
				credit.ID = uuid.New().String()
			}
			credit.CompanyID = companyID
			credit.EmployeeID = emp.ID
			credit.Type = domain.TransactionSalaryCredit

			if err := insertTransaction(ctx, tx, &credit); err != nil {
				return fmt.Errorf("credit salary for employee %s: %w", emp.ID, err)
			}
			created = append(created, credit)
		}
		return nil
	})
	if err != nil {
		if mapped := database.MapPQError(err); mapped != nil {
			return nil, mapped
		}
		return nil, err
	}
	return created, nil
}
