package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/wageflow/wageflow-backend/pkg/errors"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]int{"created": 2})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperrors.Validation("records[1] missing payer", map[string]string{"payerId": "is required"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "is required", resp.Error.Details["payerId"])
}

func TestError_HidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

type recordInput struct {
	EmployeeID string          `json:"employeeId" validate:"required"`
	Wage       decimal.Decimal `json:"wage" validate:"gte=0"`
}

type sheetInput struct {
	Date    string        `json:"date" validate:"required,date"`
	SiteID  string        `json:"siteId" validate:"required,uuid"`
	Records []recordInput `json:"records" validate:"required,dive"`
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   bool
		wantField string
	}{
		{"valid", `{"date":"2024-01-05","siteId":"7f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b","records":[{"employeeId":"e1","wage":"500"}]}`, false, ""},
		{"empty records accepted", `{"date":"2024-01-05","siteId":"7f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b","records":[]}`, false, ""},
		{"missing records", `{"date":"2024-01-05","siteId":"7f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b"}`, true, "records"},
		{"bad date", `{"date":"05/01/2024","siteId":"7f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b","records":[]}`, true, "date"},
		{"bad site", `{"date":"2024-01-05","siteId":"tower","records":[]}`, true, "siteId"},
		{"missing employee", `{"date":"2024-01-05","siteId":"7f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b","records":[{"wage":1}]}`, true, "records[0].employeeId"},
		{"negative wage", `{"date":"2024-01-05","siteId":"7f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b","records":[{"employeeId":"e1","wage":-1}]}`, true, "records[0].wage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var in sheetInput
			err := DecodeAndValidate(req, &in)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			var appErr *apperrors.AppError
			require.True(t, apperrors.As(err, &appErr))
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
			assert.Contains(t, appErr.Details, tt.wantField)
		})
	}
}

func TestDecodeJSON_Malformed(t *testing.T) {
	var in sheetInput

	err := DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")), &in)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	err = DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &in)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 29, d.Day())
	assert.Equal(t, time.UTC, d.Location())

	_, err = ParseDate("2023-02-29", time.UTC)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}
