package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/wageflow/wageflow-backend/pkg/config"
	"github.com/wageflow/wageflow-backend/pkg/database"
	"github.com/wageflow/wageflow-backend/pkg/logger"
)

// IntegrationEnv must be "1" for integration tests to run.
const IntegrationEnv = "WAGEFLOW_INTEGRATION"

const (
	// AppRole is the login the repositories use in integration tests. It is
	// neither superuser nor BYPASSRLS, so the row level security policies apply.
	AppRole         = "wageflow_app"
	appRolePassword = "wageflow_app"
)

var (
	// Global test container (shared across all integration tests)
	globalContainer *PostgresContainer
	globalDB        *sqlx.DB
	globalAppDB     *database.DB
	containerOnce   sync.Once
	containerErr    error
)

// IntegrationSuite provides a base for integration tests with real PostgreSQL.
// RawDB is the container superuser and bypasses row level security; fixtures
// seed and clean up through it. DB connects as AppRole, the way the service
// runs, so repository calls are subject to both the company_id filters and
// the policies.
type IntegrationSuite struct {
	Container *PostgresContainer
	RawDB     *sqlx.DB
	DB        *database.DB
	Logger    *logger.Logger
}

// NewIntegrationSuite skips t unless integration tests are enabled and
// returns a suite backed by the shared, migrated container.
//
//	func TestAttendanceRepository_Integration(t *testing.T) {
//	    suite := testutil.NewIntegrationSuite(t)
//	    fx := suite.NewTenant(t, "Acme Builders")
//	    repo := repository.NewAttendanceRepository(suite.DB)
//	    ...
//	}
func NewIntegrationSuite(t *testing.T) *IntegrationSuite {
	t.Helper()
	SkipIfShort(t)
	if os.Getenv(IntegrationEnv) != "1" {
		t.Skipf("set %s=1 to run integration tests", IntegrationEnv)
	}

	container, db, appDB, err := getOrCreateContainer(context.Background())
	if err != nil {
		t.Fatalf("failed to start test database: %v", err)
	}

	return &IntegrationSuite{
		Container: container,
		RawDB:     db,
		DB:        appDB,
		Logger:    logger.Nop(),
	}
}

// getOrCreateContainer returns the shared test container
func getOrCreateContainer(ctx context.Context) (*PostgresContainer, *sqlx.DB, *database.DB, error) {
	containerOnce.Do(func() {
		globalContainer, containerErr = NewPostgresContainer(ctx, DefaultPostgresConfig())
		if containerErr != nil {
			return
		}
		if globalDB, containerErr = globalContainer.Connect(ctx); containerErr != nil {
			return
		}
		globalAppDB, containerErr = connectAsAppRole(ctx, globalContainer, globalDB)
	})

	return globalContainer, globalDB, globalAppDB, containerErr
}

// connectAsAppRole creates AppRole with DML rights on the migrated tables
// and returns a connection that logs in as it.
func connectAsAppRole(ctx context.Context, c *PostgresContainer, admin *sqlx.DB) (*database.DB, error) {
	stmts := []string{
		fmt.Sprintf(`DO $$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_roles WHERE rolname = '%s') THEN
				CREATE ROLE %s LOGIN PASSWORD '%s' NOSUPERUSER NOBYPASSRLS;
			END IF;
		END $$`, AppRole, AppRole, appRolePassword),
		fmt.Sprintf(`GRANT USAGE ON SCHEMA public TO %s`, AppRole),
		fmt.Sprintf(`GRANT SELECT, INSERT, UPDATE, DELETE ON ALL TABLES IN SCHEMA public TO %s`, AppRole),
	}
	for _, stmt := range stmts {
		if _, err := admin.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to prepare %s: %w", AppRole, err)
		}
	}

	parsed, err := config.ParseDatabaseURL(c.URL)
	if err != nil {
		return nil, err
	}
	parsed.User = AppRole
	parsed.Password = appRolePassword

	return database.NewWithDSN(parsed.ToDSN(), logger.Nop())
}

// NewTenant seeds a company with reference data. The company and everything
// under it is removed when the test ends.
func (s *IntegrationSuite) NewTenant(t *testing.T, name string) *TenantFixture {
	t.Helper()
	ctx := context.Background()

	fx, err := SeedTenant(ctx, s.RawDB, name)
	if err != nil {
		t.Fatalf("failed to seed tenant: %v", err)
	}

	t.Cleanup(func() {
		if err := fx.Drop(ctx); err != nil {
			t.Logf("warning: failed to drop tenant %s: %v", fx.CompanyID, err)
		}
	})

	return fx
}

// TerminateContainer terminates the shared container.
// Only call this in TestMain after all tests have completed.
func TerminateContainer(ctx context.Context) {
	if globalAppDB != nil {
		_ = globalAppDB.Close()
	}
	if globalDB != nil {
		_ = globalDB.Close()
	}
	if globalContainer != nil {
		_ = globalContainer.Terminate(ctx)
	}
}
