// Package service holds the WageFlow operations. Every method takes the
// caller's company id explicitly; nothing here reads tenant state from ctx.
package service

import (
	"context"
	"time"

	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/internal/workforce/repository"
)

// EmployeeStore reads employees
type EmployeeStore interface {
	GetByID(ctx context.Context, companyID, id string) (*domain.Employee, error)
	ListActive(ctx context.Context, companyID string) ([]domain.Employee, error)
	ListByIDs(ctx context.Context, companyID string, ids []string) ([]domain.Employee, error)
}

// SiteStore reads sites
type SiteStore interface {
	GetByID(ctx context.Context, companyID, id string) (*domain.Site, error)
}

// AttendanceStore persists attendance
type AttendanceStore interface {
	ReplaceDay(ctx context.Context, companyID, siteID string, day domain.Day, marks []domain.AttendanceMark) error
	ListForDay(ctx context.Context, companyID, siteID string, day domain.Day) ([]domain.Attendance, error)
}

// LedgerStore loads the rows of one employee ledger from a single snapshot
type LedgerStore interface {
	Load(ctx context.Context, companyID, employeeID string) (*domain.LedgerSource, error)
}

// TransactionStore persists employee cash transactions
type TransactionStore interface {
	Create(ctx context.Context, t *domain.Transaction) error
	ListByEmployee(ctx context.Context, companyID, employeeID string) ([]domain.Transaction, error)
	CreateSalaryCredits(ctx context.Context, companyID string, month domain.Month, build repository.SalaryCreditBuilder) ([]domain.Transaction, error)
}

// SiteTransactionStore persists site income
type SiteTransactionStore interface {
	Create(ctx context.Context, s *domain.SiteTransaction) error
	ListBySite(ctx context.Context, companyID, siteID string) ([]domain.SiteTransaction, error)
}

// PayrollEvents receives notifications after a write has committed
type PayrollEvents interface {
	PublishSalaryCredited(ctx context.Context, month domain.Month, txn domain.Transaction)
	PublishTransactionRecorded(ctx context.Context, txn domain.Transaction, recordedBy string)
}

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

var (
	_ EmployeeStore        = (*repository.EmployeeRepository)(nil)
	_ SiteStore            = (*repository.SiteRepository)(nil)
	_ AttendanceStore      = (*repository.AttendanceRepository)(nil)
	_ LedgerStore          = (*repository.LedgerRepository)(nil)
	_ TransactionStore     = (*repository.TransactionRepository)(nil)
	_ SiteTransactionStore = (*repository.SiteTransactionRepository)(nil)
)
