package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/pkg/errors"
	"github.com/wageflow/wageflow-backend/pkg/logger"
)

// RecordTransactionInput is a hand-entered cash movement
type RecordTransactionInput struct {
	EmployeeID  string
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Date        time.Time
	Note        string
	PaymentMode string
}

// TransactionService records advances, payments and manual salary credits
type TransactionService struct {
	employees    EmployeeStore
	transactions TransactionStore
	events       PayrollEvents
	logger       *logger.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(employees EmployeeStore, transactions TransactionStore, events PayrollEvents, log *logger.Logger) *TransactionService {
	return &TransactionService{
		employees:    employees,
		transactions: transactions,
		events:       events,
		logger:       log,
	}
}

// Record stores a transaction for an employee of the company
func (s *TransactionService) Record(ctx context.Context, companyID, recordedBy string, input RecordTransactionInput) (*domain.Transaction, error) {
	if !input.Type.Valid() {
		return nil, errors.Validation(fmt.Sprintf("unknown transaction type %q", input.Type),
			map[string]string{"type": "must be one of advance, payment, salary_credit"})
	}
	if !input.Amount.IsPositive() {
		return nil, errors.Validation("amount must be greater than zero",
			map[string]string{"amount": "must be greater than zero"})
	}
	if problem := domain.CheckMoney(input.Amount); problem != "" {
		return nil, errors.Validation("amount "+problem, map[string]string{"amount": problem})
	}

	if _, err := s.employees.GetByID(ctx, companyID, input.EmployeeID); err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		CompanyID:   companyID,
		EmployeeID:  input.EmployeeID,
		Type:        input.Type,
		Amount:      input.Amount,
		Date:        input.Date,
		Note:        input.Note,
		PaymentMode: input.PaymentMode,
	}
	if err := s.transactions.Create(ctx, txn); err != nil {
		return nil, err
	}

	s.events.PublishTransactionRecorded(ctx, *txn, recordedBy)

	s.logger.Info().
		Str("company_id", companyID).
		Str("transaction_id", txn.ID).
		Str("employee_id", txn.EmployeeID).
		Str("type", string(txn.Type)).
		Msg("transaction recorded")

	return txn, nil
}

// ListByEmployee returns the employee's transactions, newest first
func (s *TransactionService) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]domain.Transaction, error) {
	if _, err := s.employees.GetByID(ctx, companyID, employeeID); err != nil {
		return nil, err
	}
	return s.transactions.ListByEmployee(ctx, companyID, employeeID)
}
