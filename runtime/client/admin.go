package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/lib/pq"

	"github.com/satishbabariya/pgops/internal/debug"
	"github.com/satishbabariya/pgops/query/builder"
	"github.com/satishbabariya/pgops/query/executor"
)

const codeUndefinedFunction = "42883"

var (
	// ErrPostGISNotInstalled indicates the database lacks the postgis extension.
	ErrPostGISNotInstalled = errors.New("client: postgis is not installed")

	// ErrPostGISVersion indicates an installed PostGIS outside the required range.
	ErrPostGISVersion = errors.New("client: unsupported postgis version")

	// ErrDatabaseName indicates a missing database name.
	ErrDatabaseName = errors.New("client: database name is required")
)

// CreateDatabase creates database name from the maintenance database and
// enables PostGIS in it.
func CreateDatabase(ctx context.Context, cfg ConnConfig, name string, opts ...Option) error {
	admin, err := Connect(ctx, cfg.WithDatabase(MaintenanceDatabase), opts...)
	if err != nil {
		return err
	}
	defer admin.Close()

	if err := admin.CreateDatabase(ctx, name); err != nil {
		return err
	}

	target, err := Connect(ctx, cfg.WithDatabase(name), opts...)
	if err != nil {
		return err
	}
	defer target.Close()

	return target.EnablePostGIS(ctx)
}

// DropDatabase drops database name from the maintenance database.
func DropDatabase(ctx context.Context, cfg ConnConfig, name string, opts ...Option) error {
	admin, err := Connect(ctx, cfg.WithDatabase(MaintenanceDatabase), opts...)
	if err != nil {
		return err
	}
	defer admin.Close()

	return admin.DropDatabase(ctx, name)
}

// CreateDatabase runs CREATE DATABASE outside of any transaction.
func (c *Client) CreateDatabase(ctx context.Context, name string) error {
	if name == "" {
		return ErrDatabaseName
	}
	return c.admin(ctx, name, "CREATE DATABASE "+pq.QuoteIdentifier(name))
}

// DropDatabase runs DROP DATABASE outside of any transaction.
func (c *Client) DropDatabase(ctx context.Context, name string) error {
	if name == "" {
		return ErrDatabaseName
	}
	return c.admin(ctx, name, "DROP DATABASE "+pq.QuoteIdentifier(name))
}

// EnablePostGIS installs the postgis extension in the connected database.
func (c *Client) EnablePostGIS(ctx context.Context) error {
	return c.admin(ctx, "", "CREATE EXTENSION IF NOT EXISTS postgis")
}

func (c *Client) admin(ctx context.Context, target, query string) error {
	debug.Info("Running administrative statement", "sql", query)

	stmt := adminStatement(query)
	stmt.Table = target
	_, err := c.exec.Exec(ctx, stmt)
	return err
}

// PostGISVersion returns the installed PostGIS library version.
func (c *Client) PostGISVersion(ctx context.Context) (*version.Version, error) {
	v, err := c.exec.QueryValue(ctx, adminStatement("SELECT postgis_lib_version()"))
	if err != nil {
		if executor.Code(err) == codeUndefinedFunction {
			return nil, fmt.Errorf("%w: %w", ErrPostGISNotInstalled, err)
		}
		return nil, err
	}

	raw, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected version value %T", ErrPostGISVersion, v)
	}
	parsed, err := version.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrPostGISVersion, raw, err)
	}
	return parsed, nil
}

// CheckPostGIS verifies the installed PostGIS satisfies constraint, for
// example ">= 2.0".
func (c *Client) CheckPostGIS(ctx context.Context, constraint string) (*version.Version, error) {
	constraints, err := version.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}

	v, err := c.PostGISVersion(ctx)
	if err != nil {
		return nil, err
	}
	if !constraints.Check(v) {
		return v, fmt.Errorf("%w: %s does not satisfy %s", ErrPostGISVersion, v, constraint)
	}
	return v, nil
}

func adminStatement(query string) builder.Statement {
	return builder.Statement{Kind: builder.KindAdmin, SQL: query}
}
