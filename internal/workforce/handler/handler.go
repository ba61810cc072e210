// Package handler exposes the workforce services over HTTP. Each handler
// reads the verified caller from the request and passes the company id
// explicitly to the service.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/internal/workforce/service"
	"github.com/wageflow/wageflow-backend/pkg/errors"
	"github.com/wageflow/wageflow-backend/pkg/httputil"
	"github.com/wageflow/wageflow-backend/pkg/logger"
	"github.com/wageflow/wageflow-backend/pkg/tenant"
)

// AttendanceService records and reads day sheets
type AttendanceService interface {
	RecordAttendance(ctx context.Context, companyID string, input service.RecordAttendanceInput) (*service.RecordAttendanceResult, error)
	GetDaySheet(ctx context.Context, companyID, siteID string, date time.Time) (*service.DaySheet, error)
}

// LedgerService builds employee ledgers
type LedgerService interface {
	GetEmployeeLedger(ctx context.Context, companyID, employeeID string) (*service.EmployeeLedger, error)
}

// SalaryService runs monthly salary generation
type SalaryService interface {
	GenerateSalaryCredits(ctx context.Context, companyID string) (*service.SalaryRunResult, error)
}

// TransactionService records employee cash movements
type TransactionService interface {
	Record(ctx context.Context, companyID, recordedBy string, input service.RecordTransactionInput) (*domain.Transaction, error)
	ListByEmployee(ctx context.Context, companyID, employeeID string) ([]domain.Transaction, error)
}

// SiteIncomeService records income per site
type SiteIncomeService interface {
	Record(ctx context.Context, companyID string, input service.RecordSiteIncomeInput) (*domain.SiteTransaction, error)
	List(ctx context.Context, companyID, siteID string) (*service.SiteIncome, error)
}

// Handlers groups every workforce endpoint
type Handlers struct {
	Attendance   *AttendanceHandler
	Ledger       *LedgerHandler
	Salary       *SalaryHandler
	Transactions *TransactionHandler
	SiteIncome   *SiteIncomeHandler
}

// Mount registers the workforce routes on r
func (h *Handlers) Mount(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Get("/", h.Attendance.DaySheet)
		r.Post("/", h.Attendance.Record)
	})
	r.Get("/ledger", h.Ledger.Get)
	r.Post("/salary/generate", h.Salary.Generate)
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.Transactions.List)
		r.Post("/", h.Transactions.Create)
	})
	r.Route("/site-transactions", func(r chi.Router) {
		r.Get("/", h.SiteIncome.List)
		r.Post("/", h.SiteIncome.Create)
	})
}

// identity returns the caller set by the auth middleware
func identity(r *http.Request) (tenant.Identity, error) {
	id, ok := tenant.FromContext(r.Context())
	if !ok || id.CompanyID == "" {
		return tenant.Identity{}, errors.Forbidden("no company in token")
	}
	return id, nil
}

// fail writes err and logs the cause of server-side failures
func fail(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	var appErr *errors.AppError
	if !errors.As(err, &appErr) || appErr.StatusCode >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", httputil.GetRequestID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	httputil.Error(w, err)
}
