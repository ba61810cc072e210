package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AttendanceStatus is the submitted state of one employee for one slot
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
)

// PresentDetails is what a present mark carries
type PresentDetails struct {
	Wage       decimal.Decimal
	WorkTypeID string
	PayerID    string
}

// AttendanceMark is either Present with details or Absent with nothing.
// Build it with Present or Absent.
type AttendanceMark struct {
	EmployeeID string
	Status     AttendanceStatus
	details    PresentDetails
}

// Present marks employeeID present with d
func Present(employeeID string, d PresentDetails) AttendanceMark {
	return AttendanceMark{EmployeeID: employeeID, Status: StatusPresent, details: d}
}

// Absent marks employeeID absent
func Absent(employeeID string) AttendanceMark {
	return AttendanceMark{EmployeeID: employeeID, Status: StatusAbsent}
}

// IsPresent reports whether the mark is Present
func (m AttendanceMark) IsPresent() bool {
	return m.Status == StatusPresent
}

// Details returns the present details; ok is false for an absent mark
func (m AttendanceMark) Details() (PresentDetails, bool) {
	if !m.IsPresent() {
		return PresentDetails{}, false
	}
	return m.details, true
}

// Day is one calendar day in a location, as the closed interval [Start, End].
type Day struct {
	Start time.Time
	End   time.Time
}

// DayOf returns the calendar day containing t in loc
func DayOf(t time.Time, loc *time.Location) Day {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return Day{Start: start, End: start.AddDate(0, 0, 1).Add(-time.Millisecond)}
}

// Month is one calendar month in a location, as the half-open interval [Start, Next).
type Month struct {
	Start time.Time
	Next  time.Time
}

// MonthOf returns the calendar month containing t in loc
func MonthOf(t time.Time, loc *time.Location) Month {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return Month{Start: start, Next: start.AddDate(0, 1, 0)}
}

// Key is the YYYY-MM form
func (m Month) Key() string {
	return m.Start.Format("2006-01")
}

// Label is the human form, e.g. "March 2024"
func (m Month) Label() string {
	return m.Start.Format("January 2006")
}
