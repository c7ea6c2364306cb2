package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const envPrefix = "SHOPAPI"

type PsqlConfig struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Sslmode  string `mapstructure:"sslmode"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type StorageConfig struct {
	Driver string       `mapstructure:"driver"`
	Psql   PsqlConfig   `mapstructure:"psql_conn"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
}

type HTTPConfig struct {
	Env  string `mapstructure:"env"`
	Port int    `mapstructure:"port"`
}

type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Storage StorageConfig `mapstructure:"storage"`
}

func Load() (*Config, error) {
	return LoadFrom(".", "./config")
}

// LoadFrom reads config.yaml from the first matching path. A .env file in the
// working directory, if present, is loaded into the environment first so that
// SHOPAPI_* variables override file values.
func LoadFrom(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Error loading .env file, %s\n", err)
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.env", EnvLocal)
	v.SetDefault("http.port", 8080)
	v.SetDefault("storage.driver", DriverPostgres)
	v.SetDefault("storage.psql_conn.user", "")
	v.SetDefault("storage.psql_conn.password", "")
	v.SetDefault("storage.psql_conn.database", "")
	v.SetDefault("storage.psql_conn.host", "localhost")
	v.SetDefault("storage.psql_conn.port", 5432)
	v.SetDefault("storage.psql_conn.sslmode", "disable")
	v.SetDefault("storage.sqlite.path", "shop.db")

	err := v.ReadInConfig()
	if err != nil {
		log.Printf("Error reading config file, %s\n", err)
		return nil, err
	}

	var cfg Config
	err = v.Unmarshal(&cfg)
	if err != nil {
		log.Printf("Unable to decode into struct, %v\n", err)
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}

	if c.HTTP.Port <= 0 {
		return fmt.Errorf("config: invalid http port %d", c.HTTP.Port)
	}

	return nil
}

// ConnectionString returns the DSN for the configured storage driver.
func (c *Config) ConnectionString() string {
	if c.Storage.Driver == DriverSQLite {
		return c.Storage.SQLite.Path + "?_pragma=busy_timeout=5000&_pragma=journal_mode=WAL&_pragma=foreign_keys=on"
	}

	p := c.Storage.Psql
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.Sslmode)
}
