package service

import (
	"context"
	"time"

	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/pkg/logger"
)

// SalaryRunResult reports one generation run
type SalaryRunResult struct {
	Month   domain.Month
	Credits []domain.Transaction
}

// SalaryService credits monthly salaries
type SalaryService struct {
	transactions TransactionStore
	events       PayrollEvents
	now          Clock
	loc          *time.Location
	logger       *logger.Logger
}

// NewSalaryService creates a new salary service. A nil clock uses time.Now.
func NewSalaryService(transactions TransactionStore, events PayrollEvents, now Clock, loc *time.Location, log *logger.Logger) *SalaryService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &SalaryService{
		transactions: transactions,
		events:       events,
		now:          now,
		loc:          loc,
		logger:       log,
	}
}

// GenerateSalaryCredits credits every active salaried employee who has no
// salary credit in the current month yet. Running it twice in a month
// creates nothing the second time. Employees with no default wage are skipped.
func (s *SalaryService) GenerateSalaryCredits(ctx context.Context, companyID string) (*SalaryRunResult, error) {
	month := domain.MonthOf(s.now(), s.loc)
	note := "Salary for " + month.Label()

	credits, err := s.transactions.CreateSalaryCredits(ctx, companyID, month, func(emp domain.Employee) (domain.Transaction, bool) {
		if !emp.DefaultWage.IsPositive() {
			s.logger.Warn().
				Str("company_id", companyID).
				Str("employee_id", emp.ID).
				Msg("skipping salary credit for employee without a default wage")
			return domain.Transaction{}, false
		}
		return domain.Transaction{
			Amount: emp.DefaultWage,
			Date:   month.Start,
			Note:   note,
		}, true
	})
	if err != nil {
		return nil, err
	}

	for _, c := range credits {
		s.events.PublishSalaryCredited(ctx, month, c)
	}

	s.logger.Info().
		Str("company_id", companyID).
		Str("month", month.Key()).
		Int("created", len(credits)).
		Msg("salary credits generated")

	return &SalaryRunResult{Month: month, Credits: credits}, nil
}
