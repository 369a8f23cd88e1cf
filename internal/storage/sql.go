package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// SQLStore persists blobs in a single key-value table. SQLite is the default
// backend; Postgres is selected with DB_TYPE=postgres and DATABASE_URL.
type SQLStore struct {
	db *sqlx.DB
}

// Connect opens the blob database and initializes its schema
func Connect() (*SQLStore, error) {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error

	switch dbType {
	case "sqlite":
		dataDir := "data"
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %v", err)
		}
		db, err = sqlx.Connect("sqlite3", filepath.Join(dataDir, "bgcoach.db"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %v", err)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE: %s", dbType)
	}

	store := &SQLStore{db: db}
	if err := store.initializeSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// initializeSchema creates the blob table if it doesn't exist
func (s *SQLStore) initializeSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS blobs (
			blob_key TEXT PRIMARY KEY,
			blob_value TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create blobs table: %v", err)
	}
	return nil
}

// ReadBlob returns the whole blob stored under key, or ErrNotFound
func (s *SQLStore) ReadBlob(key string) ([]byte, error) {
	var value string
	err := s.db.Get(&value, "SELECT blob_value FROM blobs WHERE blob_key = $1", key)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %q: %v", key, err)
	}
	return []byte(value), nil
}

// WriteBlob replaces the whole blob stored under key. The update-then-insert
// sequence works for both SQLite and Postgres, unlike ON CONFLICT syntax.
func (s *SQLStore) WriteBlob(key string, blob []byte) error {
	result, err := s.db.Exec(
		"UPDATE blobs SET blob_value = $1, updated_at = CURRENT_TIMESTAMP WHERE blob_key = $2",
		string(blob), key,
	)
	if err != nil {
		return fmt.Errorf("failed to update blob %q: %v", key, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows > 0 {
		return nil
	}
	_, err = s.db.Exec(
		"INSERT INTO blobs (blob_key, blob_value) VALUES ($1, $2)",
		key, string(blob),
	)
	if err != nil {
		return fmt.Errorf("failed to insert blob %q: %v", key, err)
	}
	return nil
}
