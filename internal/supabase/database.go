package supabase

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// DatabaseClient wraps the direct PostgreSQL connection to the
// Supabase database. All entity queries hang off it (projects.go,
// profiles.go, images.go, settings.go, queue.go, audit.go).
type DatabaseClient struct {
	db *sql.DB
}

// NewDatabaseClient wraps an existing connection. Tests hand in a
// sqlmock-backed *sql.DB here.
func NewDatabaseClient(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

// Connect opens and verifies a connection from a connection string.
func Connect(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
