// Package domain holds the WageFlow entities shared by the repository,
// service and handler layers.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeType distinguishes day labourers from monthly salaried staff
type EmployeeType string

const (
	EmployeeTypeDaily  EmployeeType = "daily"
	EmployeeTypeSalary EmployeeType = "salary"
)

// Company is the tenant
type Company struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Employee is a worker on the company's books
type Employee struct {
	ID          string          `db:"id" json:"id"`
	CompanyID   string          `db:"company_id" json:"-"`
	Name        string          `db:"name" json:"name"`
	Phone       string          `db:"phone" json:"phone"`
	Type        EmployeeType    `db:"type" json:"type"`
	DefaultWage decimal.Decimal `db:"default_wage" json:"defaultWage"`
	IsActive    bool            `db:"is_active" json:"isActive"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// DisplayName is the name, or the id when no name is recorded
func (e *Employee) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// Site is a place where work happens
type Site struct {
	ID        string  `db:"id" json:"id"`
	CompanyID string  `db:"company_id" json:"-"`
	Name      string  `db:"name" json:"name"`
	ClientID  *string `db:"client_id" json:"clientId,omitempty"`
}

// Attendance is one stored day of presence. Absence is never stored.
type Attendance struct {
	ID         string          `db:"id" json:"id"`
	CompanyID  string          `db:"company_id" json:"-"`
	EmployeeID string          `db:"employee_id" json:"employeeId"`
	SiteID     string          `db:"site_id" json:"siteId"`
	Date       time.Time       `db:"date" json:"date"`
	IsPresent  bool            `db:"is_present" json:"isPresent"`
	Wage       decimal.Decimal `db:"wage" json:"wage"`
	WorkTypeID string          `db:"work_type_id" json:"workTypeId"`
	PayerID    string          `db:"payer_id" json:"payerId"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// WageEntry is an attendance row joined with the names the ledger prints
type WageEntry struct {
	Attendance
	SiteName     string `db:"site_name" json:"siteName"`
	WorkTypeName string `db:"work_type_name" json:"workTypeName"`
}

// TransactionType is the kind of cash movement
type TransactionType string

const (
	TransactionAdvance      TransactionType = "advance"
	TransactionPayment      TransactionType = "payment"
	TransactionSalaryCredit TransactionType = "salary_credit"
)

// LedgerSource is everything one employee ledger is built from, read together.
type LedgerSource struct {
	Employee     Employee
	Company      Company
	Wages        []WageEntry
	Transactions []Transaction
}

// Money columns are NUMERIC(12,2).
const MoneyScale = 2

// MaxMoney is the smallest magnitude a money column cannot hold.
var MaxMoney = decimal.New(1, 10)

// CheckMoney returns why d cannot be stored as money, or "" when it can.
func CheckMoney(d decimal.Decimal) string {
	if !d.Equal(d.Round(MoneyScale)) {
		return "must have at most 2 decimal places"
	}
	if d.Abs().GreaterThanOrEqual(MaxMoney) {
		return "must be less than 10000000000"
	}
	return ""
}

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionAdvance, TransactionPayment, TransactionSalaryCredit:
		return true
	}
	return false
}

// Transaction is a cash movement between the company and an employee
type Transaction struct {
	ID          string          `db:"id" json:"id"`
	CompanyID   string          `db:"company_id" json:"-"`
	EmployeeID  string          `db:"employee_id" json:"employeeId"`
	Type        TransactionType `db:"type" json:"type"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Date        time.Time       `db:"date" json:"date"`
	Note        string          `db:"note" json:"note"`
	PaymentMode string          `db:"payment_mode" json:"paymentMode"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// SiteTransaction is income received for a site from a payer
type SiteTransaction struct {
	ID          string          `db:"id" json:"id"`
	CompanyID   string          `db:"company_id" json:"-"`
	SiteID      string          `db:"site_id" json:"siteId"`
	PayerID     string          `db:"payer_id" json:"payerId"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Date        time.Time       `db:"date" json:"date"`
	Note        string          `db:"note" json:"note"`
	PaymentMode string          `db:"payment_mode" json:"paymentMode"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}
