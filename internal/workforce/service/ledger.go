package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/internal/workforce/ledger"
)

// LedgerEmployee is the employee header of a ledger report
type LedgerEmployee struct {
	ID          string
	Name        string
	Phone       string
	Type        domain.EmployeeType
	DefaultWage decimal.Decimal
}

// EmployeeLedger is the full ledger report
type EmployeeLedger struct {
	Employee    LedgerEmployee
	CompanyName string
	Ledger      ledger.Ledger
}

// LedgerService builds employee ledgers. It never writes.
type LedgerService struct {
	ledgers LedgerStore
}

// NewLedgerService creates a new ledger service
func NewLedgerService(ledgers LedgerStore) *LedgerService {
	return &LedgerService{ledgers: ledgers}
}

// GetEmployeeLedger returns errors.NotFound for an employee outside the company
func (s *LedgerService) GetEmployeeLedger(ctx context.Context, companyID, employeeID string) (*EmployeeLedger, error) {
	src, err := s.ledgers.Load(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	emp := src.Employee

	return &EmployeeLedger{
		Employee: LedgerEmployee{
			ID:          emp.ID,
			Name:        emp.Name,
			Phone:       emp.Phone,
			Type:        emp.Type,
			DefaultWage: emp.DefaultWage,
		},
		CompanyName: src.Company.Name,
		Ledger:      ledger.Build(src.Wages, src.Transactions),
	}, nil
}
