package handler

import (
	"net/http"
	"time"

	"github.com/wageflow/wageflow-backend/internal/workforce/service"
	"github.com/wageflow/wageflow-backend/pkg/httputil"
	"github.com/wageflow/wageflow-backend/pkg/logger"
)

// AttendanceHandler handles day sheet endpoints
type AttendanceHandler struct {
	service AttendanceService
	loc     *time.Location
	logger  *logger.Logger
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(svc AttendanceService, loc *time.Location, log *logger.Logger) *AttendanceHandler {
	return &AttendanceHandler{service: svc, loc: loc, logger: log}
}

// Record replaces a (site, day) sheet
func (h *AttendanceHandler) Record(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req RecordAttendanceRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	date, err := httputil.ParseDate(req.Date, h.loc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	input := service.RecordAttendanceInput{
		Date:    date,
		SiteID:  req.SiteID,
		Records: make([]service.AttendanceRecord, 0, len(req.Records)),
	}
	for _, rec := range req.Records {
		input.Records = append(input.Records, service.AttendanceRecord(rec))
	}

	res, err := h.service.RecordAttendance(r.Context(), id.CompanyID, input)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, RecordAttendanceResponse{
		Date:    formatDate(res.Day.Start, h.loc),
		SiteID:  res.SiteID,
		Present: res.Present,
		Absent:  res.Absent,
	})
}

// DaySheet returns the sheet for ?date=YYYY-MM-DD&siteId=...
func (h *AttendanceHandler) DaySheet(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	q := daySheetQuery{
		Date:   r.URL.Query().Get("date"),
		SiteID: r.URL.Query().Get("siteId"),
	}
	if err := httputil.Validate(q); err != nil {
		httputil.Error(w, err)
		return
	}

	date, err := httputil.ParseDate(q.Date, h.loc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	sheet, err := h.service.GetDaySheet(r.Context(), id.CompanyID, q.SiteID, date)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toDaySheetResponse(sheet, h.loc))
}
