package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/pomohabit/internal/config"
	"github.com/julianstephens/pomohabit/internal/constants"
	"github.com/julianstephens/pomohabit/internal/keyring"
	"github.com/julianstephens/pomohabit/internal/logger"
	"github.com/julianstephens/pomohabit/internal/storage"
	"github.com/julianstephens/pomohabit/internal/storage/postgres"
)

// PostgresFromEnvironment as the --config value selects PostgreSQL with the
// connection string taken from POMOHABIT_DB_CONNECTION or the OS keyring.
const PostgresFromEnvironment = "postgres"

// NewStore returns the backend for a --config value without opening it.
// Connection strings given on the command line must not carry a password.
func NewStore(cfg string) (storage.Provider, error) {
	if cfg != PostgresFromEnvironment && !storage.IsPostgres(cfg) {
		return storage.New(config.ExpandHome(cfg)), nil
	}

	if cfg != PostgresFromEnvironment {
		if err := postgres.ValidateConnString(cfg); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; use .pgpass, %s or 'pomohabit keyring set'", err, constants.EnvDBConnection)
			}
			return nil, err
		}
	}

	connStr, source, err := keyring.ResolveConnectionString(cfg)
	if err != nil {
		return nil, fmt.Errorf("no PostgreSQL connection string available: %w", err)
	}
	logger.Debug("Using PostgreSQL storage", "source", source)
	return storage.New(connStr), nil
}
