package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	apperrors "github.com/wageflow/wageflow-backend/pkg/errors"
	"github.com/wageflow/wageflow-backend/pkg/testutil"
)

const (
	companyID = "11111111-1111-1111-1111-111111111111"
	siteID    = "22222222-2222-2222-2222-222222222222"
	empA      = "33333333-3333-3333-3333-333333333333"
	empB      = "44444444-4444-4444-4444-444444444444"
	workType  = "55555555-5555-5555-5555-555555555555"
	payer     = "66666666-6666-6666-6666-666666666666"
)

func testDay() domain.Day {
	return domain.DayOf(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC), time.UTC)
}

func present(emp string, wage int64) domain.AttendanceMark {
	return domain.Present(emp, domain.PresentDetails{Wage: decimal.NewFromInt(wage), WorkTypeID: workType, PayerID: payer})
}

func TestAttendanceRepository_ReplaceDay(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewAttendanceRepository(mockDB.Database())
	day := testDay()

	mockDB.ExpectTenant(companyID)
	// A present: clear then insert
	mockDB.ExpectExec(deleteAttendanceSlotQuery).
		WithArgs(companyID, empA, siteID, testutil.TimeEq{T: day.Start}, testutil.TimeEq{T: day.End}).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(insertAttendanceQuery).
		WithArgs(testutil.AnyUUID{}, companyID, empA, siteID, testutil.TimeEq{T: day.Start}, "500", workType, payer).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// B absent: clear only
	mockDB.ExpectExec(deleteAttendanceSlotQuery).
		WithArgs(companyID, empB, siteID, testutil.TimeEq{T: day.Start}, testutil.TimeEq{T: day.End}).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectCommit()

	err := repo.ReplaceDay(context.Background(), companyID, siteID, day, []domain.AttendanceMark{
		present(empA, 500),
		domain.Absent(empB),
	})

	require.NoError(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestAttendanceRepository_ReplaceDay_Empty(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewAttendanceRepository(mockDB.Database())

	mockDB.ExpectTenant(companyID)
	mockDB.ExpectCommit()

	require.NoError(t, repo.ReplaceDay(context.Background(), companyID, siteID, testDay(), nil))
	mockDB.ExpectationsWereMet(t)
}

func TestAttendanceRepository_ReplaceDay_RollsBackBatch(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewAttendanceRepository(mockDB.Database())

	mockDB.ExpectTenant(companyID)
	mockDB.ExpectExec(deleteAttendanceSlotQuery).WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectExec(insertAttendanceQuery).WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(deleteAttendanceSlotQuery).WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectExec(insertAttendanceQuery).WillReturnError(errors.New("connection reset"))
	mockDB.ExpectRollback()

	err := repo.ReplaceDay(context.Background(), companyID, siteID, testDay(), []domain.AttendanceMark{
		present(empA, 500),
		present(empB, 450),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), empB)
	mockDB.ExpectationsWereMet(t)
}

func TestAttendanceRepository_ReplaceDay_ConcurrentSlotConflict(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewAttendanceRepository(mockDB.Database())

	mockDB.ExpectTenant(companyID)
	mockDB.ExpectExec(deleteAttendanceSlotQuery).WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectExec(insertAttendanceQuery).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "attendance_slot_unique"})
	mockDB.ExpectRollback()

	err := repo.ReplaceDay(context.Background(), companyID, siteID, testDay(), []domain.AttendanceMark{present(empA, 500)})

	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	mockDB.ExpectationsWereMet(t)
}

func TestAttendanceRepository_ListForDay(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := NewAttendanceRepository(mockDB.Database())
	day := testDay()

	mockDB.ExpectTenant(companyID)
	mockDB.ExpectQuery("FROM attendance a WHERE a.company_id = $1 AND a.site_id = $2 AND a.date BETWEEN $3 AND $4").
		WithArgs(companyID, siteID, testutil.TimeEq{T: day.Start}, testutil.TimeEq{T: day.End}).
		WillReturnRows(testutil.MockRows("id", "company_id", "employee_id", "site_id", "date", "is_present", "wage", "work_type_id", "payer_id", "created_at").
			AddRow("a1", companyID, empA, siteID, day.Start, true, "500.00", workType, payer, day.Start))
	mockDB.ExpectCommit()

	rows, err := repo.ListForDay(context.Background(), companyID, siteID, day)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, empA, rows[0].EmployeeID)
	assert.True(t, decimal.NewFromInt(500).Equal(rows[0].Wage))
	mockDB.ExpectationsWereMet(t)
}
