package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/pkg/errors"
	"github.com/wageflow/wageflow-backend/pkg/logger"
)

func TestTransactionService_Record(t *testing.T) {
	st := newStore()
	companyID := st.addCompany("Acme Builders")
	emp := st.addEmployee(domain.Employee{CompanyID: companyID, Name: "Ravi"})
	events := &fakeEvents{}
	svc := NewTransactionService(employeeStore{st}, transactionStore{st}, events, logger.Nop())

	txn, err := svc.Record(context.Background(), companyID, "user-1", RecordTransactionInput{
		EmployeeID: emp,
		Type:       domain.TransactionAdvance,
		Amount:     decimal.NewFromInt(200),
		Date:       time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		Note:       "festival advance",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, companyID, txn.CompanyID)
	require.Len(t, events.events, 1)
	assert.Equal(t, "transaction", events.events[0].kind)

	list, err := svc.ListByEmployee(context.Background(), companyID, emp)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTransactionService_Record_Rejects(t *testing.T) {
	st := newStore()
	companyID := st.addCompany("Acme Builders")
	emp := st.addEmployee(domain.Employee{CompanyID: companyID, Name: "Ravi"})
	foreign := st.addEmployee(domain.Employee{CompanyID: st.addCompany("Other Co"), Name: "Zara"})
	events := &fakeEvents{}
	svc := NewTransactionService(employeeStore{st}, transactionStore{st}, events, logger.Nop())

	tests := []struct {
		name   string
		input  RecordTransactionInput
		target error
	}{
		{"unknown type", RecordTransactionInput{EmployeeID: emp, Type: "bonus", Amount: decimal.NewFromInt(1)}, errors.ErrValidation},
		{"zero amount", RecordTransactionInput{EmployeeID: emp, Type: domain.TransactionPayment}, errors.ErrValidation},
		{"negative amount", RecordTransactionInput{EmployeeID: emp, Type: domain.TransactionPayment, Amount: decimal.NewFromInt(-5)}, errors.ErrValidation},
		{"amount too large", RecordTransactionInput{EmployeeID: emp, Type: domain.TransactionPayment, Amount: decimal.New(1, 10)}, errors.ErrValidation},
		{"sub-cent amount", RecordTransactionInput{EmployeeID: emp, Type: domain.TransactionAdvance, Amount: decimal.RequireFromString("10.001")}, errors.ErrValidation},
		{"other tenant employee", RecordTransactionInput{EmployeeID: foreign, Type: domain.TransactionPayment, Amount: decimal.NewFromInt(5)}, errors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Record(context.Background(), companyID, "", tt.input)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}

	assert.Empty(t, st.transactions)
	assert.Empty(t, events.events)
}

func TestSiteIncomeService(t *testing.T) {
	st := newStore()
	companyID := st.addCompany("Acme Builders")
	siteID := st.addSite(companyID, "Tower")
	svc := NewSiteIncomeService(siteStore{st}, siteTransactionStore{st}, logger.Nop())
	ctx := context.Background()

	for _, amount := range []int64{1000, 2500} {
		_, err := svc.Record(ctx, companyID, RecordSiteIncomeInput{
			SiteID: siteID, PayerID: "payer", Amount: decimal.NewFromInt(amount), Date: time.Now(),
		})
		require.NoError(t, err)
	}

	income, err := svc.List(ctx, companyID, siteID)
	require.NoError(t, err)
	assert.Len(t, income.Transactions, 2)
	assert.True(t, decimal.NewFromInt(3500).Equal(income.Total))

	_, err = svc.Record(ctx, companyID, RecordSiteIncomeInput{SiteID: siteID, Amount: decimal.Zero})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = svc.Record(ctx, companyID, RecordSiteIncomeInput{SiteID: siteID, Amount: decimal.RequireFromString("12345678901.00")})
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Len(t, st.siteIncome, 2)

	_, err = svc.List(ctx, st.addCompany("Other Co"), siteID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
