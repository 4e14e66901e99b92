package suites

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/joefazee/findcountry/app/database"
)

// TestDriverEnv selects the store the repository suites run against.
// "postgres" starts a container; anything else uses in-memory sqlite.
const TestDriverEnv = "TEST_DB_DRIVER"

type RepositoryTestSuite struct {
	suite.Suite
	Container           *PostgresContainer
	DB                  *gorm.DB
	SQLDB               *sql.DB
	Driver              string
	MigrationsPath      string
	SkipDatabaseCleanup bool // Allow tests to skip cleanup
}

func (suite *RepositoryTestSuite) SetupSuite() {
	suite.T().Helper()

	suite.Driver = os.Getenv(TestDriverEnv)
	if suite.Driver != database.DriverPostgres {
		suite.Driver = database.DriverSQLite
	}

	if suite.Driver == database.DriverPostgres {
		if testing.Short() {
			suite.T().Skip("Skipping postgres integration tests in short mode")
		}
		suite.setupPostgres()
	} else {
		suite.setupSQLite()
	}

	suite.T().Cleanup(func() {
		suite.cleanup()
	})
}

func (suite *RepositoryTestSuite) setupSQLite() {
	db, err := database.New(&database.Config{Driver: database.DriverSQLite, Path: ":memory:"})
	if err != nil {
		suite.T().Fatalf("Failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		suite.T().Fatalf("Failed to get sql.DB: %v", err)
	}
	suite.DB = db
	suite.SQLDB = sqlDB
}

func (suite *RepositoryTestSuite) setupPostgres() {
	ctx := context.Background()
	container, err := NewPostgresContainer(ctx)
	if err != nil {
		suite.T().Fatalf("Failed to create postgres container: %v", err)
	}
	suite.Container = container

	if suite.MigrationsPath == "" {
		suite.MigrationsPath = findMigrationsPath()
	}
	if err := container.RunMigrations(suite.MigrationsPath); err != nil {
		suite.T().Fatalf("Failed to run migrations: %v", err)
	}

	sqlDB, err := sql.Open("postgres", container.ConnectionString)
	if err != nil {
		suite.T().Fatalf("Failed to open sql connection: %v", err)
	}
	suite.SQLDB = sqlDB

	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		suite.T().Fatalf("Failed to ping database: %v", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		suite.T().Fatalf("Failed to open gorm connection: %v", err)
	}
	suite.DB = gormDB
}

func findMigrationsPath() string {
	wd, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return filepath.Join(wd, "migrations")
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return ""
		}
		wd = parent
	}
}

func (suite *RepositoryTestSuite) TearDownTest() {
	suite.T().Helper()

	if suite.SkipDatabaseCleanup || suite.DB == nil {
		return
	}

	tables, err := suite.DB.Migrator().GetTables()
	if err != nil {
		return
	}
	for _, table := range tables {
		if table == "schema_migrations" {
			continue
		}
		suite.DB.Exec(fmt.Sprintf(`DELETE FROM %q`, table))
	}
}

func (suite *RepositoryTestSuite) BeforeTest(_, _ string) {
	suite.TearDownTest()
}

func (suite *RepositoryTestSuite) cleanup() {
	if suite.SQLDB != nil {
		_ = suite.SQLDB.Close()
	}
	if suite.Container != nil {
		_ = suite.Container.Terminate(context.Background())
	}
}

func (suite *RepositoryTestSuite) CountRecords(table string) int64 {
	var c int64
	suite.DB.Table(table).Count(&c)
	return c
}

func (suite *RepositoryTestSuite) TableExists(table string) bool {
	return suite.DB.Migrator().HasTable(table)
}

func (suite *RepositoryTestSuite) AssertDBError(err error, args ...interface{}) {
	suite.Assert().Error(err, args...)
}

func (suite *RepositoryTestSuite) AssertNoDBError(err error, args ...interface{}) {
	suite.Assert().NoError(err, args...)
}
