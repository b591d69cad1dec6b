// repository/db.go
package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know by name
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Ensure SQLStore implements Store
var _ Store = (*SQLStore)(nil)

// SQLStore implements Store on PostgreSQL or SQLite
type SQLStore struct {
	DB *sqlx.DB

	bills  *BillRepository
	people *PersonRepository
	groups *GroupRepository
}

// Open connects to the database, verifies the connection and creates the
// schema when it is missing.
func Open(driver, dsn string) (*SQLStore, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// a single connection keeps pragmas and writes consistent
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewSQLStore(db), nil
}

// NewSQLStore wraps an already open connection without touching the schema
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{
		DB:     db,
		bills:  NewBillRepository(db),
		people: NewPersonRepository(db),
		groups: NewGroupRepository(db),
	}
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.DB.Close()
}

// PostgresDSN builds a lib/pq connection string
func PostgresDSN(host, port, user, password, dbname string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

// SQLiteDSN builds a modernc sqlite connection string for a file path
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}
