package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/vivemedellin/go-vivemedellin/env"
	"github.com/vivemedellin/go-vivemedellin/service/logger"
)

func init() {
	env.RegisterValidation("POSTGRES_HOST", "localhost")
	env.RegisterValidation("POSTGRES_PORT", 5432)
	env.RegisterValidation("POSTGRES_USER", "postgres")
	env.RegisterValidation("POSTGRES_PASSWORD", "")
	env.RegisterValidation("POSTGRES_DB", "vivemedellin")
}

type connectionParams struct {
	host     string
	port     int
	user     string
	password string
	dbname   string
}

func (c connectionParams) toConnectionString() string {
	port := c.port
	if port == 0 {
		port = 5432
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", c.host, port, c.user, c.dbname)
	if c.password != "" {
		dsn += fmt.Sprintf(" password=%s", c.password)
	}
	return dsn
}

func newConnectionParamsFromEnv() connectionParams {
	return connectionParams{
		host:     env.GetString("POSTGRES_HOST"),
		port:     env.GetInt("POSTGRES_PORT"),
		user:     env.GetString("POSTGRES_USER"),
		password: env.GetString("POSTGRES_PASSWORD"),
		dbname:   env.GetString("POSTGRES_DB"),
	}
}

// ConnectionOption overrides a single connection parameter otherwise read
// from the environment.
type ConnectionOption func(params *connectionParams)

func WithHost(host string) ConnectionOption {
	return func(params *connectionParams) {
		params.host = host
	}
}

func WithPort(port int) ConnectionOption {
	return func(params *connectionParams) {
		params.port = port
	}
}

func WithUser(user string) ConnectionOption {
	return func(params *connectionParams) {
		params.user = user
	}
}

func WithPassword(password string) ConnectionOption {
	return func(params *connectionParams) {
		params.password = password
	}
}

func WithDBName(dbname string) ConnectionOption {
	return func(params *connectionParams) {
		params.dbname = dbname
	}
}

// NewClient creates a new postgres client using the pgx stdlib driver.
func NewClient(opts ...ConnectionOption) (*sql.DB, error) {
	params := newConnectionParamsFromEnv()
	for _, opt := range opts {
		opt(&params)
	}

	db, err := sql.Open("pgx", params.toConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// MustCreateClient panics if the database is unreachable. Used at startup and
// in test fixtures where a missing database is unrecoverable.
func MustCreateClient(opts ...ConnectionOption) *sql.DB {
	db, err := NewClient(opts...)
	if err != nil {
		panic(err)
	}
	return db
}

// NewPgxClient creates a pgx connection pool against the same database.
func NewPgxClient(ctx context.Context, opts ...ConnectionOption) *pgxpool.Pool {
	params := newConnectionParamsFromEnv()
	for _, opt := range opts {
		opt(&params)
	}

	config, err := pgxpool.ParseConfig(params.toConnectionString())
	checkNoErr(err)

	config.MaxConns = 25

	pool, err := pgxpool.ConnectConfig(ctx, config)
	checkNoErr(err)

	if err := pool.Ping(ctx); err != nil {
		logger.For(ctx).Errorf("failed to ping postgres via pgx: %s", err)
		panic(err)
	}

	return pool
}

func checkNoErr(err error) {
	if err != nil {
		panic(err)
	}
}
