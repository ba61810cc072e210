// Command migrate applies the embedded schema migrations.
//
//	migrate [up|down|version]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/wageflow/wageflow-backend/migrations"
	"github.com/wageflow/wageflow-backend/pkg/config"
	"github.com/wageflow/wageflow-backend/pkg/logger"
)

type migrator interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, ok bool, err error)
}

func main() {
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := config.LoadWithValidation("wageflow-api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("wageflow-migrate", cfg.Server.Environment, cfg.Server.LogLevel)

	m, err := migrations.New(cfg.Database.ConnectionURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open migrations")
	}
	defer m.Close()

	msg, err := run(action, m)
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("migration failed")
		m.Close()
		os.Exit(1)
	}

	log.Info().Str("action", action).Msg(msg)
}

func run(action string, m migrator) (string, error) {
	switch action {
	case "up":
		if err := m.Up(); err != nil {
			return "", err
		}
		return "migrations applied", nil
	case "down":
		if err := m.Down(); err != nil {
			return "", err
		}
		return "migrations rolled back", nil
	case "version":
		version, dirty, ok, err := m.Version()
		if err != nil {
			return "", err
		}
		if !ok {
			return "no migration applied", nil
		}
		return fmt.Sprintf("version=%d dirty=%t", version, dirty), nil
	default:
		return "", fmt.Errorf("unsupported action %q", action)
	}
}
