package server

import (
	"os"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"
)

// Config holds server options.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Auth struct {
		SigningKey string `yaml:"signing_key"`
		// TokenExpiration is in hours
		TokenExpiration int    `yaml:"token_expiration"`
		Issuer          string `yaml:"issuer"`
	} `yaml:"auth"`

	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`

	// Seed optionally bootstraps the first administrator account.
	Seed struct {
		AdminUsername string `yaml:"admin_username"`
		AdminEmail    string `yaml:"admin_email"`
		AdminPassword string `yaml:"admin_password"`
	} `yaml:"seed"`
}

// DefaultConfig returns a development friendly configuration.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.Server.Addr = ":8080"
	cfg.Auth.TokenExpiration = 24
	cfg.Auth.Issuer = "go-usermgmt"
	cfg.Database.DSN = "file::memory:?cache=shared"
	return cfg
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read config file")
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate will run validation rules
func (c Config) Validate() error {
	err := validation.Errors{
		"server.addr":           validation.Validate(c.Server.Addr, validation.Required),
		"auth.signing_key":      validation.Validate(c.Auth.SigningKey, validation.Required, validation.Length(16, 0)),
		"auth.token_expiration": validation.Validate(c.Auth.TokenExpiration, validation.Required, validation.Min(1)),
		"database.dsn":          validation.Validate(c.Database.DSN, validation.Required),
	}.Filter()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid server configuration")
	}
	return nil
}
