package handler

import (
	"net/http"

	"github.com/wageflow/wageflow-backend/pkg/httputil"
	"github.com/wageflow/wageflow-backend/pkg/logger"
)

// SalaryHandler handles salary generation
type SalaryHandler struct {
	service SalaryService
	logger  *logger.Logger
}

// NewSalaryHandler creates a new salary handler
func NewSalaryHandler(svc SalaryService, log *logger.Logger) *SalaryHandler {
	return &SalaryHandler{service: svc, logger: log}
}

// Generate credits this month's salaries. It takes no body.
func (h *SalaryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	res, err := h.service.GenerateSalaryCredits(r.Context(), id.CompanyID)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, SalaryRunResponse{
		Created: len(res.Credits),
		Month:   res.Month.Key(),
	})
}
