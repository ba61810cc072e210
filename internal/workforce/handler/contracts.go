package handler

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/internal/workforce/ledger"
	"github.com/wageflow/wageflow-backend/internal/workforce/service"
	"github.com/wageflow/wageflow-backend/pkg/httputil"
)

// Money travels as a quoted decimal string, e.g. "650.00" or "650".

// RecordAttendanceRequest is a full day sheet for one site
type RecordAttendanceRequest struct {
	Date    string                    `json:"date" validate:"required,date"`
	SiteID  string                    `json:"siteId" validate:"required,uuid"`
	Records []AttendanceRecordRequest `json:"records" validate:"required,dive"`
}

// AttendanceRecordRequest is one employee on the sheet. Work type, payer and
// wage are checked by the service for present records only.
type AttendanceRecordRequest struct {
	EmployeeID string          `json:"employeeId" validate:"required,uuid"`
	IsPresent  bool            `json:"isPresent"`
	Wage       decimal.Decimal `json:"wage"`
	WorkTypeID string          `json:"workTypeId" validate:"omitempty,uuid"`
	PayerID    string          `json:"payerId" validate:"omitempty,uuid"`
}

// RecordAttendanceResponse summarises a stored sheet
type RecordAttendanceResponse struct {
	Date    string `json:"date"`
	SiteID  string `json:"siteId"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

type daySheetQuery struct {
	Date   string `json:"date" validate:"required,date"`
	SiteID string `json:"siteId" validate:"required,uuid"`
}

// EmployeeResponse is an employee as returned to clients
type EmployeeResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Phone       string              `json:"phone"`
	Type        domain.EmployeeType `json:"type"`
	DefaultWage decimal.Decimal     `json:"defaultWage"`
	IsActive    bool                `json:"isActive"`
}

// AttendanceResponse is one stored attendance row
type AttendanceResponse struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employeeId"`
	SiteID     string          `json:"siteId"`
	Date       string          `json:"date"`
	IsPresent  bool            `json:"isPresent"`
	Wage       decimal.Decimal `json:"wage"`
	WorkTypeID string          `json:"workTypeId"`
	PayerID    string          `json:"payerId"`
}

// SheetEntryResponse is the effective state of one employee on the sheet
type SheetEntryResponse struct {
	EmployeeID string          `json:"employeeId"`
	Name       string          `json:"name"`
	IsPresent  bool            `json:"isPresent"`
	Wage       decimal.Decimal `json:"wage"`
	WorkTypeID string          `json:"workTypeId,omitempty"`
	PayerID    string          `json:"payerId,omitempty"`
}

// DaySheetResponse is the read side of a (site, day) slot
type DaySheetResponse struct {
	Date       string               `json:"date"`
	SiteID     string               `json:"siteId"`
	Employees  []EmployeeResponse   `json:"employees"`
	Attendance []AttendanceResponse `json:"attendance"`
	Sheet      []SheetEntryResponse `json:"sheet"`
}

type ledgerQuery struct {
	EmployeeID string `json:"employeeId" validate:"required,uuid"`
}

// LedgerEmployeeResponse is the employee header of a ledger
type LedgerEmployeeResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Phone       string              `json:"phone"`
	Type        domain.EmployeeType `json:"type"`
	DefaultWage decimal.Decimal     `json:"defaultWage"`
}

// CompanyResponse names the tenant on a report
type CompanyResponse struct {
	Name string `json:"name"`
}

// LedgerSummaryResponse totals a ledger
type LedgerSummaryResponse struct {
	TotalEarned decimal.Decimal `json:"totalEarned"`
	TotalPaid   decimal.Decimal `json:"totalPaid"`
	Balance     decimal.Decimal `json:"balance"`
}

// LedgerItemResponse is one ledger line
type LedgerItemResponse struct {
	ID          string           `json:"id"`
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Type        ledger.EntryType `json:"type"`
	Credit      decimal.Decimal  `json:"credit"`
	Debit       decimal.Decimal  `json:"debit"`
	Balance     decimal.Decimal  `json:"balance"`
}

// LedgerResponse is the employee ledger report. History is newest first.
type LedgerResponse struct {
	Employee LedgerEmployeeResponse `json:"employee"`
	Company  CompanyResponse        `json:"company"`
	Summary  LedgerSummaryResponse  `json:"summary"`
	History  []LedgerItemResponse   `json:"history"`
}

// SalaryRunResponse reports a salary generation run
type SalaryRunResponse struct {
	Created int    `json:"created"`
	Month   string `json:"month"`
}

// RecordTransactionRequest is a hand-entered cash movement
type RecordTransactionRequest struct {
	EmployeeID  string          `json:"employeeId" validate:"required,uuid"`
	Type        string          `json:"type" validate:"required,oneof=advance payment salary_credit"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Date        string          `json:"date" validate:"required,date"`
	Note        string          `json:"note" validate:"max=500"`
	PaymentMode string          `json:"paymentMode" validate:"max=50"`
}

type employeeQuery struct {
	EmployeeID string `json:"employeeId" validate:"required,uuid"`
}

// TransactionResponse is a stored cash movement
type TransactionResponse struct {
	ID          string                 `json:"id"`
	EmployeeID  string                 `json:"employeeId"`
	Type        domain.TransactionType `json:"type"`
	Amount      decimal.Decimal        `json:"amount"`
	Date        string                 `json:"date"`
	Note        string                 `json:"note"`
	PaymentMode string                 `json:"paymentMode"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// RecordSiteIncomeRequest is money received for a site
type RecordSiteIncomeRequest struct {
	SiteID      string          `json:"siteId" validate:"required,uuid"`
	PayerID     string          `json:"payerId" validate:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Date        string          `json:"date" validate:"required,date"`
	Note        string          `json:"note" validate:"max=500"`
	PaymentMode string          `json:"paymentMode" validate:"max=50"`
}

type siteQuery struct {
	SiteID string `json:"siteId" validate:"required,uuid"`
}

// SiteTransactionResponse is one income entry
type SiteTransactionResponse struct {
	ID          string          `json:"id"`
	SiteID      string          `json:"siteId"`
	PayerID     string          `json:"payerId"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Note        string          `json:"note"`
	PaymentMode string          `json:"paymentMode"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SiteIncomeResponse lists a site's income with its total
type SiteIncomeResponse struct {
	Transactions []SiteTransactionResponse `json:"transactions"`
	Total        decimal.Decimal           `json:"total"`
}

func formatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(httputil.DateLayout)
}

func toEmployeeResponse(e domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:          e.ID,
		Name:        e.Name,
		Phone:       e.Phone,
		Type:        e.Type,
		DefaultWage: e.DefaultWage,
		IsActive:    e.IsActive,
	}
}

func toDaySheetResponse(s *service.DaySheet, loc *time.Location) DaySheetResponse {
	resp := DaySheetResponse{
		Date:       formatDate(s.Day.Start, loc),
		SiteID:     s.SiteID,
		Employees:  make([]EmployeeResponse, 0, len(s.Employees)),
		Attendance: make([]AttendanceResponse, 0, len(s.Attendance)),
		Sheet:      make([]SheetEntryResponse, 0, len(s.Sheet)),
	}
	for _, e := range s.Employees {
		resp.Employees = append(resp.Employees, toEmployeeResponse(e))
	}
	for _, a := range s.Attendance {
		resp.Attendance = append(resp.Attendance, AttendanceResponse{
			ID:         a.ID,
			EmployeeID: a.EmployeeID,
			SiteID:     a.SiteID,
			Date:       formatDate(a.Date, loc),
			IsPresent:  a.IsPresent,
			Wage:       a.Wage,
			WorkTypeID: a.WorkTypeID,
			PayerID:    a.PayerID,
		})
	}
	for _, e := range s.Sheet {
		resp.Sheet = append(resp.Sheet, SheetEntryResponse(e))
	}
	return resp
}

func toLedgerResponse(l *service.EmployeeLedger, loc *time.Location) LedgerResponse {
	history := make([]LedgerItemResponse, 0, len(l.Ledger.History))
	for _, it := range l.Ledger.History {
		history = append(history, LedgerItemResponse{
			ID:          it.ID,
			Date:        formatDate(it.Date, loc),
			Description: it.Description,
			Type:        it.Type,
			Credit:      it.Credit,
			Debit:       it.Debit,
			Balance:     it.Balance,
		})
	}

	return LedgerResponse{
		Employee: LedgerEmployeeResponse(l.Employee),
		Company:  CompanyResponse{Name: l.CompanyName},
		Summary:  LedgerSummaryResponse(l.Ledger.Summary),
		History:  history,
	}
}

func toTransactionResponse(t domain.Transaction, loc *time.Location) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		EmployeeID:  t.EmployeeID,
		Type:        t.Type,
		Amount:      t.Amount,
		Date:        formatDate(t.Date, loc),
		Note:        t.Note,
		PaymentMode: t.PaymentMode,
		CreatedAt:   t.CreatedAt,
	}
}

func toSiteTransactionResponse(s domain.SiteTransaction, loc *time.Location) SiteTransactionResponse {
	return SiteTransactionResponse{
		ID:          s.ID,
		SiteID:      s.SiteID,
		PayerID:     s.PayerID,
		Amount:      s.Amount,
		Date:        formatDate(s.Date, loc),
		Note:        s.Note,
		PaymentMode: s.PaymentMode,
		CreatedAt:   s.CreatedAt,
	}
}
