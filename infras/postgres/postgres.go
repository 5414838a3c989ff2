package postgres

//nolint:revive
import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"hotel/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Connection holds the read replica and the primary. Admission and lifecycle changes always go to Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint mirrors the READ and WRITE blocks of the postgres configuration.
type Endpoint struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	Timezone string
	SSLMode  string
}

func ReadEndpoint(config *config.Config) Endpoint {
	endpoint := Endpoint(config.DB.Postgres.Read)
	endpoint.Name = config.DB.Postgres.Prefix + endpoint.Name

	return endpoint
}

func WriteEndpoint(config *config.Config) Endpoint {
	endpoint := Endpoint(config.DB.Postgres.Write)
	endpoint.Name = config.DB.Postgres.Prefix + endpoint.Name

	return endpoint
}

// URL renders a postgres:// URL with escaped credentials. extra is merged into the query string.
func (e Endpoint) URL(extra url.Values) string {
	query := url.Values{}
	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	if e.Timezone != "" {
		query.Set("timezone", e.Timezone)
	}

	for key, values := range extra {
		query[key] = values
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     e.Name,
		RawQuery: query.Encode(),
	}

	return u.String()
}

func New(config *config.Config) *Connection {
	maxRetry := config.DB.Postgres.MaxRetry
	wait := time.Duration(config.DB.Postgres.RetryWaitTime) * time.Second

	return &Connection{
		Read:  Connect("read", ReadEndpoint(config), maxRetry, wait),
		Write: Connect("write", WriteEndpoint(config), maxRetry, wait),
	}
}

// WithTx runs fn inside a write transaction. The transaction is committed when fn
// returns nil and rolled back otherwise; fn's error is returned unchanged.
func (c *Connection) WithTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := c.Write.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Close closes both pools.
func (c *Connection) Close() error {
	return errors.Join(c.Read.Close(), c.Write.Close())
}

// Connect retries until the database answers, then exits the process once maxRetry attempts have failed.
func Connect(name string, endpoint Endpoint, maxRetry int, wait time.Duration) *sqlx.DB {
	logger := log.With().
		Str("name", name).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("dbName", endpoint.Name).
		Logger()

	var err error

	for attempt := range max(maxRetry, 1) {
		var db *sqlx.DB

		if db, err = sqlx.Connect("postgres", endpoint.URL(nil)); err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxLifetime(postgresConnMaxLifetime)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt+1).Msg("Failed connecting to database, retrying")

		time.Sleep(wait)
	}

	logger.Fatal().Err(err).Msg("Giving up connecting to database")

	return nil
}
