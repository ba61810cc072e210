package handler

import (
	"net/http"
	"time"

	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/internal/workforce/service"
	"github.com/wageflow/wageflow-backend/pkg/httputil"
	"github.com/wageflow/wageflow-backend/pkg/logger"
)

// TransactionHandler handles employee cash transactions
type TransactionHandler struct {
	service TransactionService
	loc     *time.Location
	logger  *logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(svc TransactionService, loc *time.Location, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{service: svc, loc: loc, logger: log}
}

// Create records an advance, payment or manual salary credit
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req RecordTransactionRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	date, err := httputil.ParseDate(req.Date, h.loc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	txn, err := h.service.Record(r.Context(), id.CompanyID, id.UserID, service.RecordTransactionInput{
		EmployeeID:  req.EmployeeID,
		Type:        domain.TransactionType(req.Type),
		Amount:      req.Amount,
		Date:        date,
		Note:        req.Note,
		PaymentMode: req.PaymentMode,
	})
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}

	httputil.Created(w, toTransactionResponse(*txn, h.loc))
}

// List returns ?employeeId=... transactions, newest first
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	q := employeeQuery{EmployeeID: r.URL.Query().Get("employeeId")}
	if err := httputil.Validate(q); err != nil {
		httputil.Error(w, err)
		return
	}

	txns, err := h.service.ListByEmployee(r.Context(), id.CompanyID, q.EmployeeID)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}

	resp := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		resp = append(resp, toTransactionResponse(t, h.loc))
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// SiteIncomeHandler handles income received per site
type SiteIncomeHandler struct {
	service SiteIncomeService
	loc     *time.Location
	logger  *logger.Logger
}

// NewSiteIncomeHandler creates a new site income handler
func NewSiteIncomeHandler(svc SiteIncomeService, loc *time.Location, log *logger.Logger) *SiteIncomeHandler {
	return &SiteIncomeHandler{service: svc, loc: loc, logger: log}
}

// Create records income for a site
func (h *SiteIncomeHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req RecordSiteIncomeRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	date, err := httputil.ParseDate(req.Date, h.loc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	st, err := h.service.Record(r.Context(), id.CompanyID, service.RecordSiteIncomeInput{
		SiteID:      req.SiteID,
		PayerID:     req.PayerID,
		Amount:      req.Amount,
		Date:        date,
		Note:        req.Note,
		PaymentMode: req.PaymentMode,
	})
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}

	httputil.Created(w, toSiteTransactionResponse(*st, h.loc))
}

// List returns ?siteId=... income with its total
func (h *SiteIncomeHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	q := siteQuery{SiteID: r.URL.Query().Get("siteId")}
	if err := httputil.Validate(q); err != nil {
		httputil.Error(w, err)
		return
	}

	income, err := h.service.List(r.Context(), id.CompanyID, q.SiteID)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}

	resp := SiteIncomeResponse{
		Transactions: make([]SiteTransactionResponse, 0, len(income.Transactions)),
		Total:        income.Total,
	}
	for _, t := range income.Transactions {
		resp.Transactions = append(resp.Transactions, toSiteTransactionResponse(t, h.loc))
	}
	httputil.JSON(w, http.StatusOK, resp)
}
