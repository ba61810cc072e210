package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/pkg/errors"
	"github.com/wageflow/wageflow-backend/pkg/logger"
)

// RecordSiteIncomeInput is money received for a site
type RecordSiteIncomeInput struct {
	SiteID      string
	PayerID     string
	Amount      decimal.Decimal
	Date        time.Time
	Note        string
	PaymentMode string
}

// SiteIncome lists a site's income with its total
type SiteIncome struct {
	Transactions []domain.SiteTransaction
	Total        decimal.Decimal
}

// SiteIncomeService records company income per site. It has no effect on
// employee ledgers.
type SiteIncomeService struct {
	sites  SiteStore
	income SiteTransactionStore
	logger *logger.Logger
}

// NewSiteIncomeService creates a new site income service
func NewSiteIncomeService(sites SiteStore, income SiteTransactionStore, log *logger.Logger) *SiteIncomeService {
	return &SiteIncomeService{sites: sites, income: income, logger: log}
}

// Record stores income for a site of the company
func (s *SiteIncomeService) Record(ctx context.Context, companyID string, input RecordSiteIncomeInput) (*domain.SiteTransaction, error) {
	if !input.Amount.IsPositive() {
		return nil, errors.Validation("amount must be greater than zero",
			map[string]string{"amount": "must be greater than zero"})
	}
	if problem := domain.CheckMoney(input.Amount); problem != "" {
		return nil, errors.Validation("amount "+problem, map[string]string{"amount": problem})
	}
	if _, err := s.sites.GetByID(ctx, companyID, input.SiteID); err != nil {
		return nil, err
	}

	st := &domain.SiteTransaction{
		CompanyID:   companyID,
		SiteID:      input.SiteID,
		PayerID:     input.PayerID,
		Amount:      input.Amount,
		Date:        input.Date,
		Note:        input.Note,
		PaymentMode: input.PaymentMode,
	}
	if err := s.income.Create(ctx, st); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("company_id", companyID).
		Str("site_id", st.SiteID).
		Str("site_transaction_id", st.ID).
		Msg("site income recorded")

	return st, nil
}

// List returns the site's income, newest first, and its sum
func (s *SiteIncomeService) List(ctx context.Context, companyID, siteID string) (*SiteIncome, error) {
	if _, err := s.sites.GetByID(ctx, companyID, siteID); err != nil {
		return nil, err
	}

	txns, err := s.income.ListBySite(ctx, companyID, siteID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	return &SiteIncome{Transactions: txns, Total: total}, nil
}
