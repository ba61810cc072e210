// Package ledger derives an employee's running-balance ledger from stored
// attendance and cash transactions. Nothing here touches storage.
package ledger

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
)

// EntryType is the kind of ledger line
type EntryType string

const (
	EntryWage         EntryType = "wage"
	EntrySalaryCredit EntryType = "salary_credit"
	EntryAdvance      EntryType = "advance"
	EntryPayment      EntryType = "payment"
)

// rank orders entries that share a date: money owed is booked before money paid.
func (t EntryType) rank() int {
	switch t {
	case EntryWage:
		return 0
	case EntrySalaryCredit:
		return 1
	case EntryAdvance:
		return 2
	default:
		return 3
	}
}

// Item is one ledger line. Balance is the running balance after the line.
type Item struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Type        EntryType       `json:"type"`
	Credit      decimal.Decimal `json:"credit"`
	Debit       decimal.Decimal `json:"debit"`
	Balance     decimal.Decimal `json:"balance"`
}

// Summary totals a ledger. Balance always equals TotalEarned - TotalPaid.
type Summary struct {
	TotalEarned decimal.Decimal `json:"totalEarned"`
	TotalPaid   decimal.Decimal `json:"totalPaid"`
	Balance     decimal.Decimal `json:"balance"`
}

// Ledger is the computed result. History is newest first.
type Ledger struct {
	Summary Summary `json:"summary"`
	History []Item  `json:"history"`
}

// FromWage turns a present attendance row into a credit line
func FromWage(w domain.WageEntry) Item {
	desc := "Wage"
	if w.SiteName != "" {
		desc += " at " + w.SiteName
	}
	if w.WorkTypeName != "" {
		desc += " (" + w.WorkTypeName + ")"
	}
	return Item{
		ID:          w.ID,
		Date:        w.Date,
		Description: desc,
		Type:        EntryWage,
		Credit:      w.Wage,
		Debit:       decimal.Zero,
	}
}

// FromTransaction turns a cash transaction into a line. Salary credits are
// credits; advances and payments are debits.
func FromTransaction(t domain.Transaction) Item {
	item := Item{
		ID:          t.ID,
		Date:        t.Date,
		Description: t.Note,
		Credit:      decimal.Zero,
		Debit:       decimal.Zero,
	}

	switch t.Type {
	case domain.TransactionSalaryCredit:
		item.Type = EntrySalaryCredit
		item.Credit = t.Amount
	case domain.TransactionAdvance:
		item.Type = EntryAdvance
		item.Debit = t.Amount
	default:
		item.Type = EntryPayment
		item.Debit = t.Amount
	}

	if item.Description == "" {
		item.Description = label(item.Type)
	}
	return item
}

func label(t EntryType) string {
	switch t {
	case EntrySalaryCredit:
		return "Salary credit"
	case EntryAdvance:
		return "Advance"
	case EntryPayment:
		return "Payment"
	default:
		return "Wage"
	}
}

// Compare orders items by date, then entry rank, then id.
func Compare(a, b Item) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Type.rank(), b.Type.rank()); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Build merges wages and transactions, computes the running balance
// oldest first and returns the history newest first.
func Build(wages []domain.WageEntry, transactions []domain.Transaction) Ledger {
	items := make([]Item, 0, len(wages)+len(transactions))
	for _, w := range wages {
		if !w.IsPresent {
			continue
		}
		items = append(items, FromWage(w))
	}
	for _, t := range transactions {
		items = append(items, FromTransaction(t))
	}

	slices.SortStableFunc(items, Compare)

	earned := decimal.Zero
	paid := decimal.Zero
	balance := decimal.Zero
	for i := range items {
		earned = earned.Add(items[i].Credit)
		paid = paid.Add(items[i].Debit)
		balance = balance.Add(items[i].Credit).Sub(items[i].Debit)
		items[i].Balance = balance
	}

	slices.Reverse(items)

	return Ledger{
		Summary: Summary{TotalEarned: earned, TotalPaid: paid, Balance: balance},
		History: items,
	}
}
