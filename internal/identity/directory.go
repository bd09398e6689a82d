// Package identity is a SQLite-backed user directory serving search values
// for the identity user table.
package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/console/pkg/search"
	_ "modernc.org/sqlite"
)

// Errors returned by Directory.
var (
	ErrUnknownResource = errors.New("unknown resource")
	ErrUnknownColumn   = errors.New("unknown column")
)

// User is one directory entry.
type User struct {
	UserID         string
	Name           string
	State          string
	Email          string
	UserType       string
	RoleName       string
	Backend        string
	LastAccessedAt time.Time
	Timezone       string
}

// columns lists the searchable user columns. Only these names are ever
// interpolated into SQL.
var columns = map[string]bool{
	"user_id":          true,
	"name":             true,
	"state":            true,
	"email":            true,
	"user_type":        true,
	"role_name":        true,
	"backend":          true,
	"last_accessed_at": true,
	"timezone":         true,
}

// Directory implements search.UserSource over a SQLite database.
type Directory struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ search.UserSource = (*Directory)(nil)

// Open opens (creating if needed) the directory database at path.
// ":memory:" opens a private in-memory database.
func Open(path string) (*Directory, error) {
	logger := slog.Default().With("component", "identity")

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across queries.
	db.SetMaxOpenConns(1)

	d := &Directory{db: db, logger: logger}
	if err := d.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debug("identity directory opened", "path", path)
	return d, nil
}

func (d *Directory) createSchema() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			user_id          TEXT PRIMARY KEY,
			name             TEXT NOT NULL DEFAULT '',
			state            TEXT NOT NULL DEFAULT 'ENABLED',
			email            TEXT NOT NULL DEFAULT '',
			user_type        TEXT NOT NULL DEFAULT 'USER',
			role_name        TEXT NOT NULL DEFAULT '',
			backend          TEXT NOT NULL DEFAULT 'LOCAL',
			last_accessed_at TEXT NOT NULL DEFAULT '',
			timezone         TEXT NOT NULL DEFAULT 'UTC',

			CHECK (state IN ('ENABLED', 'DISABLED', 'PENDING')),
			CHECK (user_type IN ('USER', 'API_USER'))
		);

		CREATE INDEX IF NOT EXISTS idx_users_name ON users(name);
		CREATE INDEX IF NOT EXISTS idx_users_role ON users(role_name);
	`)
	return err
}

// Close closes the database.
func (d *Directory) Close() error {
	return d.db.Close()
}

// Seed inserts or replaces users.
func (d *Directory) Seed(ctx context.Context, users ...User) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO users
			(user_id, name, state, email, user_type, role_name, backend, last_accessed_at, timezone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, u := range users {
		var accessed string
		if !u.LastAccessedAt.IsZero() {
			accessed = u.LastAccessedAt.UTC().Format(time.RFC3339)
		}
		_, err := stmt.ExecContext(ctx,
			u.UserID, u.Name, orDefault(u.State, "ENABLED"), u.Email, orDefault(u.UserType, "USER"),
			u.RoleName, orDefault(u.Backend, "LOCAL"), accessed, orDefault(u.Timezone, "UTC"))
		if err != nil {
			return fmt.Errorf("inserting user %q: %w", u.UserID, err)
		}
	}
	return tx.Commit()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Distinct returns distinct non-empty values of a user column containing
// text, sorted ascending.
func (d *Directory) Distinct(ctx context.Context, resource, key, text string, limit int) ([]string, error) {
	if resource != search.UserResource {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
	if !columns[key] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}
	if limit <= 0 {
		limit = search.DefaultLimit
	}

	query := fmt.Sprintf(
		`SELECT DISTINCT %[1]s FROM users WHERE %[1]s != '' AND %[1]s LIKE ? ESCAPE '\' ORDER BY %[1]s LIMIT ?`,
		key)
	rows, err := d.db.QueryContext(ctx, query, likePattern(text), limit)
	if err != nil {
		return nil, fmt.Errorf("querying distinct %s: %w", key, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", key, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// References returns users whose id or name contains text, as
// (user_id, name) pairs ordered by user_id.
func (d *Directory) References(ctx context.Context, resource, text string, limit int) ([]search.ValueItem, error) {
	if resource != search.UserResource {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
	if limit <= 0 {
		limit = search.DefaultLimit
	}

	pattern := likePattern(text)
	rows, err := d.db.QueryContext(ctx, `
		SELECT user_id, name FROM users
		WHERE user_id LIKE ? ESCAPE '\' OR name LIKE ? ESCAPE '\'
		ORDER BY user_id LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("querying references: %w", err)
	}
	defer rows.Close()

	var items []search.ValueItem
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scanning reference: %w", err)
		}
		label := name
		if label == "" {
			label = id
		}
		items = append(items, search.ValueItem{Name: id, Label: label})
	}
	return items, rows.Err()
}

// likePattern builds a LIKE "contains" pattern with wildcards escaped.
func likePattern(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(text) + "%"
}
