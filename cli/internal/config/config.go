// Package config loads pgops settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/pgops/geom"
	"github.com/satishbabariya/pgops/internal/debug"
	"github.com/satishbabariya/pgops/runtime/client"
)

// AppFs is the filesystem configuration is read from and written to.
var AppFs = afero.NewOsFs()

const (
	configName = ".pgops"
	envPrefix  = "PGOPS"
)

// Config holds the application configuration.
type Config struct {
	Database          DatabaseConfig
	DatabaseURL       string
	Geometry          GeometryConfig
	Debug             bool
	PostGISMinVersion string

	// File is the config file that was read, empty when none was found.
	File string
}

// DatabaseConfig holds connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// GeometryConfig describes the geometry column of the tables being edited.
type GeometryConfig struct {
	Column     string
	SRID       int
	Kind       string
	TargetSRID int
}

// LoadConfig loads configuration from the config file, .env files and
// PGOPS_* environment variables. An explicit file overrides the search path.
func LoadConfig(file string) (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	loadDotEnv()

	v := viper.New()
	v.SetFs(AppFs)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "pgops"))
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("debug", debug.EnvVar); err != nil {
		return nil, err
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			Name:     v.GetString("database.name"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Geometry: GeometryConfig{
			Column:     v.GetString("geometry.column"),
			SRID:       v.GetInt("geometry.srid"),
			Kind:       v.GetString("geometry.kind"),
			TargetSRID: v.GetInt("geometry.target_srid"),
		},
		Debug:             v.GetBool("debug"),
		PostGISMinVersion: v.GetString("postgis.min_version"),
		File:              v.ConfigFileUsed(),
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	spec := geom.DefaultSpec()
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("geometry.column", spec.Column)
	v.SetDefault("geometry.srid", spec.SRID)
	v.SetDefault("geometry.kind", spec.Kind.String())
	v.SetDefault("geometry.target_srid", 0)
	v.SetDefault("debug", false)
	v.SetDefault("postgis.min_version", ">= 2.0")
}

// loadDotEnv loads .env and then .env.local, the latter taking priority.
func loadDotEnv() {
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}
}

// ConnConfig returns the connection parameters of the database section.
func (c *Config) ConnConfig() client.ConnConfig {
	return client.ConnConfig{
		Database: c.Database.Name,
		User:     c.Database.User,
		Password: c.Database.Password,
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		SSLMode:  c.Database.SSLMode,
	}
}

// DSN returns DATABASE_URL when set, otherwise a DSN built from the
// database section.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.ConnConfig().DSN()
}

// GeometrySpec returns the configured geometry conversion.
func (c *Config) GeometrySpec() (*geom.Spec, error) {
	kind, err := geom.ParseKind(c.Geometry.Kind)
	if err != nil {
		return nil, err
	}
	return &geom.Spec{
		Column:     c.Geometry.Column,
		SRID:       c.Geometry.SRID,
		Kind:       kind,
		TargetSRID: c.Geometry.TargetSRID,
	}, nil
}

// SaveConfig writes cfg to ~/.config/pgops/.pgops.yaml.
func SaveConfig(cfg *Config) (string, error) {
	v := viper.New()
	v.SetFs(AppFs)
	v.Set("database.host", cfg.Database.Host)
	v.Set("database.port", cfg.Database.Port)
	v.Set("database.name", cfg.Database.Name)
	v.Set("database.user", cfg.Database.User)
	v.Set("database.sslmode", cfg.Database.SSLMode)
	v.Set("geometry.column", cfg.Geometry.Column)
	v.Set("geometry.srid", cfg.Geometry.SRID)
	v.Set("geometry.kind", cfg.Geometry.Kind)
	v.Set("geometry.target_srid", cfg.Geometry.TargetSRID)
	v.Set("debug", cfg.Debug)
	v.Set("postgis.min_version", cfg.PostGISMinVersion)

	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(home, ".config", "pgops")
	if err := AppFs.MkdirAll(configPath, 0755); err != nil {
		return "", err
	}

	configFile := filepath.Join(configPath, configName+".yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return "", err
	}
	return configFile, nil
}
