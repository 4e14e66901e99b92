package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joefazee/findcountry/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gLogger "gorm.io/gorm/logger"

	// import necessary for gorm to recognize the postgres driver
	_ "github.com/lib/pq"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver   string `env:"DB_DRIVER" env-default:"sqlite" validate:"oneof=sqlite postgres"`
	Path     string `env:"DB_PATH" env-default:"country_info.db"`
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Database string `env:"DB_NAME"`
	UseSSL   bool   `env:"DB_SSL_MODE"`
	LogQuery bool   `env:"DB_LOG_QUERY"`
}

func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSQLite, "":
		if c.Path == "" {
			return models.ErrDatabaseCredentialNotConfigured
		}
	case DriverPostgres:
		if c.Host == "" ||
			c.Password == "" || c.Database == "" || c.User == "" {
			return models.ErrDatabaseCredentialNotConfigured
		}
	default:
		return fmt.Errorf("%w: %q", models.ErrUnsupportedDatabaseDriver, c.Driver)
	}
	return nil
}

func (c *Config) dialector() gorm.Dialector {
	if c.Driver == DriverPostgres {
		SSLMode := "disable"
		if c.UseSSL {
			SSLMode = "require"
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.Host, c.User, c.Password, c.Database, c.Port, SSLMode)
		return postgres.Open(dsn)
	}
	return sqlite.Open(c.Path)
}

// New opens the configured store and migrates the country_info table.
func New(c *Config) (*gorm.DB, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.Driver != DriverPostgres && c.Path != ":memory:" {
		if dir := filepath.Dir(c.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("ensure data dir: %w", err)
			}
		}
	}

	cfg := &gorm.Config{}
	if !c.LogQuery {
		cfg.Logger = gLogger.Discard
	}

	db, err := gorm.Open(c.dialector(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}

	if c.Driver == DriverPostgres {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		// a single writer keeps sqlite away from "database is locked"
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the tables the application owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.CountryInfo{}); err != nil {
		return fmt.Errorf("failed to migrate country_info: %w", err)
	}
	return nil
}

var (
	sharedOnce sync.Once
	sharedDB   *gorm.DB
	sharedErr  error
)

// Shared returns the process-wide connection, opening it on first use. Later
// calls get the same handle (or the same error) whatever config they pass.
func Shared(c *Config) (*gorm.DB, error) {
	sharedOnce.Do(func() {
		sharedDB, sharedErr = New(c)
	})
	return sharedDB, sharedErr
}
