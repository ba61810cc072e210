package handler

import (
	"net/http"
	"time"

	"github.com/wageflow/wageflow-backend/pkg/httputil"
	"github.com/wageflow/wageflow-backend/pkg/logger"
)

// LedgerHandler handles the employee ledger report
type LedgerHandler struct {
	service LedgerService
	loc     *time.Location
	logger  *logger.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(svc LedgerService, loc *time.Location, log *logger.Logger) *LedgerHandler {
	return &LedgerHandler{service: svc, loc: loc, logger: log}
}

// Get returns the ledger for ?employeeId=...
func (h *LedgerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	q := ledgerQuery{EmployeeID: r.URL.Query().Get("employeeId")}
	if err := httputil.Validate(q); err != nil {
		httputil.Error(w, err)
		return
	}

	l, err := h.service.GetEmployeeLedger(r.Context(), id.CompanyID, q.EmployeeID)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toLedgerResponse(l, h.loc))
}
