package storage

import (
	"net/url"

	"github.com/julianstephens/pomohabit/internal/storage/postgres"
	"github.com/julianstephens/pomohabit/internal/storage/sqlite"
)

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

// IsPostgres reports whether config is a PostgreSQL connection string
// rather than a SQLite file path.
func IsPostgres(config string) bool {
	return postgres.IsConnString(config)
}

// HasEmbeddedCredentials reports whether a PostgreSQL URL carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return false
	}
	_, ok := u.User.Password()
	return ok
}

// New returns the backend matching config without opening it.
func New(config string) Provider {
	if IsPostgres(config) {
		return postgres.New(config)
	}
	return sqlite.NewStore(config)
}
