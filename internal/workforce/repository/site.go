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

// SiteRepository reads work sites
type SiteRepository struct {
	db *database.DB
}

// NewSiteRepository creates a new site repository
func NewSiteRepository(db *database.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// GetByID returns errors.NotFound unless the site belongs to the company
func (r *SiteRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Site, error) {
	var s domain.Site
	err := r.db.WithTenant(ctx, companyID, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &s,
			`SELECT id, company_id, name, client_id FROM sites WHERE company_id = $1 AND id = $2`,
			companyID, id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("site")
	}
	if err != nil {
		return nil, fmt.Errorf("get site: %w", err)
	}
	return &s, nil
}
