package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/pkg/database"
)

const (
	deleteAttendanceSlotQuery = `
		DELETE FROM attendance
		WHERE company_id = $1 AND employee_id = $2 AND site_id = $3
		  AND date BETWEEN $4 AND $5`

	insertAttendanceQuery = `
		INSERT INTO attendance (id, company_id, employee_id, site_id, date, is_present, wage, work_type_id, payer_id)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7, $8)`

	attendanceColumns = `a.id, a.company_id, a.employee_id, a.site_id, a.date, a.is_present, a.wage, a.work_type_id, a.payer_id, a.created_at`
)

// AttendanceRepository persists daily attendance
type AttendanceRepository struct {
	db *database.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *database.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ReplaceDay makes the stored rows for (company, site, day) match marks, in
// one transaction. Each mark deletes its slot, and a present mark then
// inserts the single row dated day.Start. Employees without a mark are left
// alone. Any failure rolls back the whole batch.
func (r *AttendanceRepository) ReplaceDay(ctx context.Context, companyID, siteID string, day domain.Day, marks []domain.AttendanceMark) error {
	err := r.db.WithTenant(ctx, companyID, func(tx *sqlx.Tx) error {
		for _, mark := range marks {
			if _, err := tx.ExecContext(ctx, deleteAttendanceSlotQuery,
				companyID, mark.EmployeeID, siteID, day.Start, day.End,
			); err != nil {
				return fmt.Errorf("clear attendance for employee %s: %w", mark.EmployeeID, err)
			}

			d, ok := mark.Details()
			if !ok {
				continue
			}

			if _, err := tx.ExecContext(ctx, insertAttendanceQuery,
				uuid.New().String(), companyID, mark.EmployeeID, siteID, day.Start,
				d.Wage, d.WorkTypeID, d.PayerID,
			); err != nil {
				return fmt.Errorf("record attendance for employee %s: %w", mark.EmployeeID, err)
			}
		}
		return nil
	})
	if err != nil {
		if mapped := database.MapPQError(err); mapped != nil {
			return mapped
		}
		return err
	}
	return nil
}

// ListForDay returns the stored rows for (company, site, day)
func (r *AttendanceRepository) ListForDay(ctx context.Context, companyID, siteID string, day domain.Day) ([]domain.Attendance, error) {
	rows := []domain.Attendance{}
	err := r.db.WithTenant(ctx, companyID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &rows, `
			SELECT `+attendanceColumns+`
			FROM attendance a
			WHERE a.company_id = $1 AND a.site_id = $2 AND a.date BETWEEN $3 AND $4
			ORDER BY a.employee_id`,
			companyID, siteID, day.Start, day.End)
	})
	if err != nil {
		return nil, fmt.Errorf("list attendance for day: %w", err)
	}
	return rows, nil
}
