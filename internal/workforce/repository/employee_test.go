package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/wageflow/wageflow-backend/pkg/errors"
	"github.com/wageflow/wageflow-backend/pkg/testutil"
)

func TestEmployeeRepository_GetByID(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewEmployeeRepository(mockDB.Database())
	now := time.Now()

	mockDB.ExpectTenantQuery(companyID, "FROM employees WHERE company_id = $1 AND id = $2",
		testutil.MockRows(employeeCols...).AddRow(empA, companyID, "Ravi", "98000", "daily", "650.00", true, now, now),
	).WithArgs(companyID, empA)

	emp, err := repo.GetByID(context.Background(), companyID, empA)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", emp.Name)
	assert.Equal(t, "650", emp.DefaultWage.String())
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_GetByID_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewEmployeeRepository(mockDB.Database())

	mockDB.ExpectTenant(companyID)
	mockDB.ExpectQuery("FROM employees WHERE company_id = $1 AND id = $2").WillReturnError(sql.ErrNoRows)
	mockDB.ExpectRollback()

	_, err := repo.GetByID(context.Background(), companyID, empA)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_ListByIDs(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewEmployeeRepository(mockDB.Database())
	now := time.Now()

	empty, err := repo.ListByIDs(context.Background(), companyID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	mockDB.ExpectTenantQuery(companyID, "id = ANY($2::uuid[])",
		testutil.MockRows(employeeCols...).AddRow(empA, companyID, "Ravi", "", "daily", "650.00", true, now, now),
	)

	got, err := repo.ListByIDs(context.Background(), companyID, []string{empA, empB})
	require.NoError(t, err)
	require.Len(t, got, 1)
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_ListActive(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewEmployeeRepository(mockDB.Database())
	now := time.Now()

	mockDB.ExpectTenantQuery(companyID, "WHERE company_id = $1 AND is_active ORDER BY name, id",
		testutil.MockRows(employeeCols...).
			AddRow(empA, companyID, "Anita", "", "salary", "15000.00", true, now, now).
			AddRow(empB, companyID, "Ravi", "", "daily", "650.00", true, now, now),
	).WithArgs(companyID)

	got, err := repo.ListActive(context.Background(), companyID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	mockDB.ExpectationsWereMet(t)
}

func TestSiteRepository_GetByID_OtherTenant(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewSiteRepository(mockDB.Database())

	mockDB.ExpectTenant(companyID)
	mockDB.ExpectQuery("FROM sites WHERE company_id = $1 AND id = $2").
		WithArgs(companyID, siteID).
		WillReturnError(sql.ErrNoRows)
	mockDB.ExpectRollback()

	_, err := repo.GetByID(context.Background(), companyID, siteID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}
