package client

import (
	"strconv"
	"strings"
	"time"

	"github.com/satishbabariya/pgops/migrate/introspect"
	"github.com/satishbabariya/pgops/query/executor"
	"github.com/satishbabariya/pgops/telemetry"
)

// MaintenanceDatabase is the database used for CREATE and DROP DATABASE.
const MaintenanceDatabase = "postgres"

// ConnConfig holds PostgreSQL connection parameters.
type ConnConfig struct {
	Database string
	User     string
	Password string
	Host     string
	Port     int
	SSLMode  string
}

// DSN returns a lib/pq keyword/value connection string. Empty fields are
// omitted so libpq defaults and PG* environment variables apply.
func (c ConnConfig) DSN() string {
	var parts []string
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+quoteDSNValue(value))
		}
	}

	add("host", c.Host)
	if c.Port != 0 {
		add("port", strconv.Itoa(c.Port))
	}
	add("dbname", c.Database)
	add("user", c.User)
	add("password", c.Password)
	add("sslmode", c.SSLMode)
	return strings.Join(parts, " ")
}

// WithDatabase returns a copy of c pointing at another database.
func (c ConnConfig) WithDatabase(name string) ConnConfig {
	c.Database = name
	return c
}

func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

type options struct {
	recorder     telemetry.Recorder
	execer       executor.Execer
	middlewares  []Middleware
	maxOpenConns int
	columnCache  *introspect.ColumnCache
}

func defaultOptions() options {
	return options{
		recorder:     telemetry.Noop{},
		maxOpenConns: 1,
	}
}

// Option configures a Client.
type Option func(*options)

// WithRecorder reports every executed statement to r.
func WithRecorder(r telemetry.Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithExecer makes the client use e instead of opening a connection. The
// client does not close e.
func WithExecer(e executor.Execer) Option {
	return func(o *options) {
		o.execer = e
	}
}

// WithMiddleware appends statement middlewares.
func WithMiddleware(mw ...Middleware) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, mw...)
	}
}

// WithMaxOpenConns overrides the single connection limit.
func WithMaxOpenConns(n int) Option {
	return func(o *options) {
		o.maxOpenConns = n
	}
}

// WithColumnCache caches ColumnNames results, holding at most size tables
// for ttl each.
func WithColumnCache(size int, ttl time.Duration) Option {
	return func(o *options) {
		o.columnCache = introspect.NewColumnCache(size, ttl)
	}
}
