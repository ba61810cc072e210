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

// AttendanceRecord is one submitted row of a day sheet
type AttendanceRecord struct {
	EmployeeID string
	IsPresent  bool
	Wage       decimal.Decimal
	WorkTypeID string
	PayerID    string
}

// RecordAttendanceInput is a full day sheet for one site. Date may be any
// instant inside the day.
type RecordAttendanceInput struct {
	Date    time.Time
	SiteID  string
	Records []AttendanceRecord
}

// RecordAttendanceResult reports what a submission stored
type RecordAttendanceResult struct {
	Day     domain.Day
	SiteID  string
	Present int
	Absent  int
}

// SheetEntry is the effective state of one active employee for a day sheet
type SheetEntry struct {
	EmployeeID string
	Name       string
	IsPresent  bool
	Wage       decimal.Decimal
	WorkTypeID string
	PayerID    string
}

// DaySheet is the read side of a (site, day) slot
type DaySheet struct {
	Day        domain.Day
	SiteID     string
	Employees  []domain.Employee
	Attendance []domain.Attendance
	Sheet      []SheetEntry
}

// AttendanceService records and reads day sheets
type AttendanceService struct {
	employees  EmployeeStore
	sites      SiteStore
	attendance AttendanceStore
	loc        *time.Location
	logger     *logger.Logger
}

// NewAttendanceService creates a new attendance service. loc defines the calendar day.
func NewAttendanceService(
	employees EmployeeStore,
	sites SiteStore,
	attendance AttendanceStore,
	loc *time.Location,
	log *logger.Logger,
) *AttendanceService {
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceService{
		employees:  employees,
		sites:      sites,
		attendance: attendance,
		loc:        loc,
		logger:     log,
	}
}

// RecordAttendance replaces the stored attendance of the submitted employees
// for (site, day). The whole batch is validated before anything is written
// and is then applied in one transaction.
func (s *AttendanceService) RecordAttendance(ctx context.Context, companyID string, input RecordAttendanceInput) (*RecordAttendanceResult, error) {
	if _, err := s.sites.GetByID(ctx, companyID, input.SiteID); err != nil {
		return nil, err
	}

	known, err := s.lookupEmployees(ctx, companyID, input.Records)
	if err != nil {
		return nil, err
	}

	marks, err := buildMarks(input.Records, known)
	if err != nil {
		return nil, err
	}

	day := domain.DayOf(input.Date, s.loc)
	if err := s.attendance.ReplaceDay(ctx, companyID, input.SiteID, day, marks); err != nil {
		return nil, err
	}

	result := &RecordAttendanceResult{Day: day, SiteID: input.SiteID}
	for _, m := range marks {
		if m.IsPresent() {
			result.Present++
		} else {
			result.Absent++
		}
	}

	s.logger.Info().
		Str("company_id", companyID).
		Str("site_id", input.SiteID).
		Time("date", day.Start).
		Int("present", result.Present).
		Int("absent", result.Absent).
		Msg("attendance recorded")

	return result, nil
}

func (s *AttendanceService) lookupEmployees(ctx context.Context, companyID string, records []AttendanceRecord) (map[string]domain.Employee, error) {
	ids := make([]string, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if !seen[r.EmployeeID] {
			seen[r.EmployeeID] = true
			ids = append(ids, r.EmployeeID)
		}
	}

	employees, err := s.employees.ListByIDs(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}

	known := make(map[string]domain.Employee, len(employees))
	for _, e := range employees {
		known[e.ID] = e
	}
	return known, nil
}

// buildMarks turns records into marks, rejecting the batch on the first bad record.
func buildMarks(records []AttendanceRecord, known map[string]domain.Employee) ([]domain.AttendanceMark, error) {
	marks := make([]domain.AttendanceMark, 0, len(records))

	for i, r := range records {
		emp, ok := known[r.EmployeeID]
		if !ok {
			return nil, errors.Validation(
				fmt.Sprintf("employee %s does not belong to this company", r.EmployeeID),
				map[string]string{fmt.Sprintf("records[%d].employeeId", i): "unknown employee"},
			)
		}

		if !r.IsPresent {
			marks = append(marks, domain.Absent(r.EmployeeID))
			continue
		}

		name := emp.DisplayName()
		switch {
		case r.WorkTypeID == "":
			return nil, invalidRecord(i, "workTypeId", fmt.Sprintf("work type is required for %s", name))
		case r.PayerID == "":
			return nil, invalidRecord(i, "payerId", fmt.Sprintf("payer is required for %s", name))
		case r.Wage.IsNegative():
			return nil, invalidRecord(i, "wage", fmt.Sprintf("wage for %s must not be negative", name))
		}
		if problem := domain.CheckMoney(r.Wage); problem != "" {
			return nil, invalidRecord(i, "wage", fmt.Sprintf("wage for %s %s", name, problem))
		}

		marks = append(marks, domain.Present(r.EmployeeID, domain.PresentDetails{
			Wage:       r.Wage,
			WorkTypeID: r.WorkTypeID,
			PayerID:    r.PayerID,
		}))
	}

	return marks, nil
}

func invalidRecord(i int, field, message string) *errors.AppError {
	return errors.Validation(message, map[string]string{
		fmt.Sprintf("records[%d].%s", i, field): message,
	})
}

// GetDaySheet returns the active employees, the stored rows for (site, day)
// and the merged sheet. An employee with no stored row shows as absent at
// their default wage.
func (s *AttendanceService) GetDaySheet(ctx context.Context, companyID, siteID string, date time.Time) (*DaySheet, error) {
	if _, err := s.sites.GetByID(ctx, companyID, siteID); err != nil {
		return nil, err
	}

	day := domain.DayOf(date, s.loc)

	employees, err := s.employees.ListActive(ctx, companyID)
	if err != nil {
		return nil, err
	}
	rows, err := s.attendance.ListForDay(ctx, companyID, siteID, day)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[string]domain.Attendance, len(rows))
	for _, a := range rows {
		byEmployee[a.EmployeeID] = a
	}

	sheet := make([]SheetEntry, 0, len(employees))
	for _, e := range employees {
		entry := SheetEntry{EmployeeID: e.ID, Name: e.Name, Wage: e.DefaultWage}
		if a, ok := byEmployee[e.ID]; ok {
			entry.IsPresent = a.IsPresent
			entry.Wage = a.Wage
			entry.WorkTypeID = a.WorkTypeID
			entry.PayerID = a.PayerID
		}
		sheet = append(sheet, entry)
	}

	return &DaySheet{
		Day:        day,
		SiteID:     siteID,
		Employees:  employees,
		Attendance: rows,
		Sheet:      sheet,
	}, nil
}
