package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/internal/workforce/repository"
	"github.com/wageflow/wageflow-backend/pkg/errors"
)

// store is an in-memory stand-in for the repositories, scoped by company
// the way the SQL is.
type store struct {
	mu           sync.Mutex
	companies    map[string]domain.Company
	employees    map[string]domain.Employee
	sites        map[string]domain.Site
	attendance   []domain.Attendance
	transactions []domain.Transaction
	siteIncome   []domain.SiteTransaction

	replaceCalls int
	failInsert   error
	failLoad     error
}

func newStore() *store {
	return &store{
		companies: map[string]domain.Company{},
		employees: map[string]domain.Employee{},
		sites:     map[string]domain.Site{},
	}
}

func (s *store) addCompany(name string) string {
	id := uuid.NewString()
	s.companies[id] = domain.Company{ID: id, Name: name}
	return id
}

func (s *store) addSite(companyID, name string) string {
	id := uuid.NewString()
	s.sites[id] = domain.Site{ID: id, CompanyID: companyID, Name: name}
	return id
}

func (s *store) addEmployee(e domain.Employee) string {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.IsActive = true
	s.employees[e.ID] = e
	return e.ID
}

func (s *store) rowsFor(companyID, siteID string, day domain.Day) []domain.Attendance {
	rows := []domain.Attendance{}
	for _, a := range s.attendance {
		if a.CompanyID == companyID && a.SiteID == siteID && !a.Date.Before(day.Start) && !a.Date.After(day.End) {
			rows = append(rows, a)
		}
	}
	return rows
}

type employeeStore struct{ *store }

func (f employeeStore) GetByID(_ context.Context, companyID, id string) (*domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[id]
	if !ok || e.CompanyID != companyID {
		return nil, errors.NotFound("employee")
	}
	return &e, nil
}

func (f employeeStore) ListActive(_ context.Context, companyID string) ([]domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Employee{}
	for _, e := range f.employees {
		if e.CompanyID == companyID && e.IsActive {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f employeeStore) ListByIDs(_ context.Context, companyID string, ids []string) ([]domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Employee{}
	for _, id := range ids {
		if e, ok := f.employees[id]; ok && e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out, nil
}

type siteStore struct{ *store }

func (f siteStore) GetByID(_ context.Context, companyID, id string) (*domain.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.sites[id]
	if !ok || st.CompanyID != companyID {
		return nil, errors.NotFound("site")
	}
	return &st, nil
}

type attendanceStore struct{ *store }

// ReplaceDay applies marks to a copy and swaps it in only when every mark succeeded.
func (f attendanceStore) ReplaceDay(_ context.Context, companyID, siteID string, day domain.Day, marks []domain.AttendanceMark) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaceCalls++

	rows := append([]domain.Attendance(nil), f.attendance...)
	for _, m := range marks {
		kept := rows[:0:0]
		for _, a := range rows {
			inSlot := a.CompanyID == companyID && a.EmployeeID == m.EmployeeID && a.SiteID == siteID &&
				!a.Date.Before(day.Start) && !a.Date.After(day.End)
			if !inSlot {
				kept = append(kept, a)
			}
		}
		rows = kept

		d, ok := m.Details()
		if !ok {
			continue
		}
		if f.failInsert != nil {
			return f.failInsert
		}
		rows = append(rows, domain.Attendance{
			ID: uuid.NewString(), CompanyID: companyID, EmployeeID: m.EmployeeID, SiteID: siteID,
			Date: day.Start, IsPresent: true, Wage: d.Wage, WorkTypeID: d.WorkTypeID, PayerID: d.PayerID,
		})
	}
	f.attendance = rows
	return nil
}

func (f attendanceStore) ListForDay(_ context.Context, companyID, siteID string, day domain.Day) ([]domain.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rowsFor(companyID, siteID, day), nil
}

// ledgerStore reads the same maps the other fakes write.
type ledgerStore struct{ *store }

func (f ledgerStore) Load(ctx context.Context, companyID, employeeID string) (*domain.LedgerSource, error) {
	if f.failLoad != nil {
		return nil, f.failLoad
	}
	emp, err := employeeStore(f).GetByID(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	company, ok := f.companies[companyID]
	if !ok {
		return nil, errors.NotFound("company")
	}

	src := &domain.LedgerSource{Employee: *emp, Company: company, Wages: []domain.WageEntry{}, Transactions: []domain.Transaction{}}
	for _, a := range f.attendance {
		if a.CompanyID == companyID && a.EmployeeID == employeeID && a.IsPresent {
			src.Wages = append(src.Wages, domain.WageEntry{Attendance: a, SiteName: f.sites[a.SiteID].Name})
		}
	}
	for _, t := range f.transactions {
		if t.CompanyID == companyID && t.EmployeeID == employeeID {
			src.Transactions = append(src.Transactions, t)
		}
	}
	return src, nil
}

type transactionStore struct{ *store }

func (f transactionStore) Create(_ context.Context, t *domain.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert != nil {
		return f.failInsert
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now()
	f.transactions = append(f.transactions, *t)
	return nil
}

func (f transactionStore) ListByEmployee(_ context.Context, companyID, employeeID string) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Transaction{}
	for _, t := range f.transactions {
		if t.CompanyID == companyID && t.EmployeeID == employeeID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f transactionStore) CreateSalaryCredits(_ context.Context, companyID string, month domain.Month, build repository.SalaryCreditBuilder) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	credited := map[string]bool{}
	for _, t := range f.transactions {
		if t.CompanyID == companyID && t.Type == domain.TransactionSalaryCredit &&
			!t.Date.Before(month.Start) && t.Date.Before(month.Next) {
			credited[t.EmployeeID] = true
		}
	}

	created := []domain.Transaction{}
	for _, e := range f.employees {
		if e.CompanyID != companyID || !e.IsActive || e.Type != domain.EmployeeTypeSalary || credited[e.ID] {
			continue
		}
		credit, ok := build(e)
		if !ok {
			continue
		}
		if f.failInsert != nil {
			return nil, fmt.Errorf("credit salary for employee %s: %w", e.ID, f.failInsert)
		}
		credit.ID = uuid.NewString()
		credit.CompanyID = companyID
		credit.EmployeeID = e.ID
		credit.Type = domain.TransactionSalaryCredit
		created = append(created, credit)
	}
	f.transactions = append(f.transactions, created...)
	return created, nil
}

type siteTransactionStore struct{ *store }

func (f siteTransactionStore) Create(_ context.Context, st *domain.SiteTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	f.siteIncome = append(f.siteIncome, *st)
	return nil
}

func (f siteTransactionStore) ListBySite(_ context.Context, companyID, siteID string) ([]domain.SiteTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.SiteTransaction{}
	for _, st := range f.siteIncome {
		if st.CompanyID == companyID && st.SiteID == siteID {
			out = append(out, st)
		}
	}
	return out, nil
}

type recordedEvent struct {
	kind string
	txn  domain.Transaction
}

type fakeEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeEvents) PublishSalaryCredited(_ context.Context, _ domain.Month, txn domain.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{kind: "salary", txn: txn})
}

func (f *fakeEvents) PublishTransactionRecorded(_ context.Context, txn domain.Transaction, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{kind: "transaction", txn: txn})
}
