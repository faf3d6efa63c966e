package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/crescentlabs/crescentbot/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/crescentlabs/crescentbot/internal/core/domain"
	"github.com/crescentlabs/crescentbot/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.MemoryStore = (*Store)(nil)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Store is a SQLite-backed conversational memory. Both tables are
// append-only; rows are never updated or deleted.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.crescentbot/data/memory.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".crescentbot", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "memory.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// AppendInteraction records one answered query. A missing ID is filled
// with a fresh UUID; a missing timestamp with the current time.
func (s *Store) AppendInteraction(ctx context.Context, it domain.Interaction) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.Timestamp.IsZero() {
		it.Timestamp = time.Now().UTC()
	}

	facetsJSON := jsonNull
	if !it.Facets.IsZero() {
		data, err := json.Marshal(it.Facets)
		if err != nil {
			return fmt.Errorf("marshalling facets: %w", err)
		}
		facetsJSON = string(data)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interactions (id, timestamp, query, response, facets)
		VALUES (?, ?, ?, ?, ?)
	`, it.ID, it.Timestamp.UTC(), it.Query, it.Response, facetsJSON)
	if err != nil {
		return fmt.Errorf("appending interaction: %w", err)
	}
	return nil
}

// RecentInteractions returns up to limit interactions, most recent first.
func (s *Store) RecentInteractions(ctx context.Context, limit int) ([]domain.Interaction, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, query, response, facets
		FROM interactions
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}
	defer rows.Close()

	var interactions []domain.Interaction
	for rows.Next() {
		var it domain.Interaction
		var facetsJSON string
		if err := rows.Scan(&it.ID, &it.Timestamp, &it.Query, &it.Response, &facetsJSON); err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		if facetsJSON != jsonNull {
			if err := json.Unmarshal([]byte(facetsJSON), &it.Facets); err != nil {
				return nil, fmt.Errorf("unmarshalling facets: %w", err)
			}
		}
		interactions = append(interactions, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating interactions: %w", err)
	}
	return interactions, nil
}

// LogQuery records a query with its best retrieval score.
func (s *Store) LogQuery(ctx context.Context, query string, score float64, at time.Time) error {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO query_log (query, best_score, asked_at)
		VALUES (?, ?, ?)
	`, query, score, at.UTC())
	if err != nil {
		return fmt.Errorf("logging query: %w", err)
	}
	return nil
}

// QueryLogCount returns the number of logged queries.
func (s *Store) QueryLogCount(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM query_log")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting query log: %w", err)
	}
	return count, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
