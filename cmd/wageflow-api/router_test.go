package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"github.com/wageflow/wageflow-backend/internal/auth/jwt"
	"github.com/wageflow/wageflow-backend/internal/workforce/domain"
	"github.com/wageflow/wageflow-backend/internal/workforce/handler"
	"github.com/wageflow/wageflow-backend/internal/workforce/service"
	"github.com/wageflow/wageflow-backend/pkg/config"
	"github.com/wageflow/wageflow-backend/pkg/httputil"
	"github.com/wageflow/wageflow-backend/pkg/logger"
	"github.com/wageflow/wageflow-backend/pkg/tenant"
	"github.com/wageflow/wageflow-backend/pkg/testutil"
)

type salaryStub struct{ companyID string }

func (s *salaryStub) GenerateSalaryCredits(_ context.Context, companyID string) (*service.SalaryRunResult, error) {
	s.companyID = companyID
	return &service.SalaryRunResult{Month: domain.MonthOf(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.UTC)}, nil
}

func testRouter(t *testing.T) (http.Handler, *jwt.Manager, *salaryStub) {
	return testRouterWithLimit(t, config.RateLimitConfig{Enabled: false})
}

func testRouterWithLimit(t *testing.T, limit config.RateLimitConfig) (http.Handler, *jwt.Manager, *salaryStub) {
	t.Helper()
	log := logger.Nop()
	auth := jwt.NewManager(&config.JWTConfig{Secret: "test-secret"})
	salary := &salaryStub{}

	rateLimit, err := httputil.RateLimit(limit, memory.NewStore(), log)
	require.NoError(t, err)

	r := newRouter(routerDeps{
		allowedOrigins: []string{"http://localhost:5173"},
		trustProxy:     limit.TrustForwardHeader,
		auth:           auth,
		rateLimit:      rateLimit,
		handlers: &handler.Handlers{
			Attendance:   handler.NewAttendanceHandler(nil, time.UTC, log),
			Ledger:       handler.NewLedgerHandler(nil, time.UTC, log),
			Salary:       handler.NewSalaryHandler(salary, log),
			Transactions: handler.NewTransactionHandler(nil, time.UTC, log),
			SiteIncome:   handler.NewSiteIncomeHandler(nil, time.UTC, log),
		},
		health: func(context.Context) map[string]any { return map[string]any{"status": "healthy"} },
		logger: log,
	})
	return r, auth, salary
}

func TestHealthNeedsNoToken(t *testing.T) {
	r, _, _ := testRouter(t)

	rr := testutil.ExecuteRequest(r, testutil.NewHTTPRequest(http.MethodGet, "/health", nil))

	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertBodyContains(t, rr, "healthy")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestAPIRejectsMissingToken(t *testing.T) {
	r, _, salary := testRouter(t)

	rr := testutil.ExecuteRequest(r, testutil.NewHTTPRequest(http.MethodPost, "/api/v1/salary/generate", nil))

	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	assert.Empty(t, salary.companyID)
}

func TestAPIPassesCompanyFromToken(t *testing.T) {
	r, auth, salary := testRouter(t)
	companyID := "11111111-1111-1111-1111-111111111111"

	token, err := auth.GenerateAccessToken(tenant.Identity{CompanyID: companyID, UserID: "u1"}, time.Minute)
	require.NoError(t, err)

	req := testutil.NewHTTPRequest(http.MethodPost, "/api/v1/salary/generate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := testutil.ExecuteRequest(r, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertBodyContains(t, rr, `"month":"2024-03"`)
	assert.Equal(t, companyID, salary.companyID)
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	r, _, _ := testRouterWithLimit(t, config.RateLimitConfig{Enabled: true, Rate: "1-M"})

	codes := []int{}
	for _, forwarded := range []string{"10.0.0.1", "10.0.0.2"} {
		req := testutil.NewHTTPRequest(http.MethodPost, "/api/v1/salary/generate", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		req.Header.Set("X-Forwarded-For", forwarded)
		codes = append(codes, testutil.ExecuteRequest(r, req).Code)
	}

	assert.Equal(t, http.StatusUnauthorized, codes[0])
	assert.Equal(t, http.StatusTooManyRequests, codes[1])
}
