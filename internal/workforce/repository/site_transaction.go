package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/pkg/database"
)

// SiteTransactionRepository persists income received per site
type SiteTransactionRepository struct {
	db *database.DB
}

// NewSiteTransactionRepository creates a new site transaction repository
func NewSiteTransactionRepository(db *database.DB) *SiteTransactionRepository {
	return &SiteTransactionRepository{db: db}
}

// Create inserts s, assigning ID when empty
func (r *SiteTransactionRepository) Create(ctx context.Context, s *domain.SiteTransaction) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	err := r.db.WithTenant(ctx, s.CompanyID, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, `
			INSERT INTO site_transactions (id, company_id, site_id, payer_id, amount, date, note, payment_mode)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at`,
			s.ID, s.CompanyID, s.SiteID, s.PayerID, s.Amount, s.Date, s.Note, s.PaymentMode,
		).Scan(&s.CreatedAt)
	})
	if err != nil {
		if mapped := database.MapPQError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("create site transaction: %w", err)
	}
	return nil
}

// ListBySite returns the income recorded for a site, newest first
func (r *SiteTransactionRepository) ListBySite(ctx context.Context, companyID, siteID string) ([]domain.SiteTransaction, error) {
	txns := []domain.SiteTransaction{}
	err := r.db.WithTenant(ctx, companyID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &txns, `
			SELECT id, company_id, site_id, payer_id, amount, date, note, payment_mode, created_at
			FROM site_transactions
			WHERE company_id = $1 AND site_id = $2
			ORDER BY date DESC, created_at DESC, id DESC`,
			companyID, siteID)
	})
	if err != nil {
		return nil, fmt.Errorf("list site transactions: %w", err)
	}
	return txns, nil
}
