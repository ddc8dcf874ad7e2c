// Package session persists per-design view state (expanded instance paths
// and the last selection) in a small SQLite database under the state
// directory, so reopening a design restores the previously visible shape of
// the tree. Stale paths from an edited design simply fail to resolve and
// are dropped on the next save.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

// State is the restorable view state for one design file.
type State struct {
	Expanded []string // dotted instance paths, sorted shallow-first
	Selected string   // dotted path of the selected instance
}

// Store is a handle on the session database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	design_path TEXT PRIMARY KEY,
	expanded    TEXT NOT NULL,
	selected    TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);`

// Open creates or opens the session database under stateDir.
func Open(stateDir string) (*Store, error) {
	if stateDir == "" {
		return nil, errors.New("no state directory available")
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	path := filepath.Join(stateDir, "session.db")
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open session database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing session database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save upserts the state for a design file, keyed by its absolute path.
func (s *Store) Save(designPath string, st State) error {
	// Shallow-first order lets Load re-expand parents before children.
	sort.SliceStable(st.Expanded, func(i, j int) bool {
		di := strings.Count(st.Expanded[i], ".")
		dj := strings.Count(st.Expanded[j], ".")
		if di != dj {
			return di < dj
		}
		return st.Expanded[i] < st.Expanded[j]
	})
	expanded, err := json.Marshal(st.Expanded)
	if err != nil {
		return fmt.Errorf("encoding expanded paths: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO sessions (design_path, expanded, selected, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(design_path) DO UPDATE SET
			expanded = excluded.expanded,
			selected = excluded.selected,
			updated_at = excluded.updated_at`,
		designPath, string(expanded), st.Selected,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load returns the stored state for a design file. ok is false when the
// design has no saved session.
func (s *Store) Load(designPath string) (State, bool, error) {
	var st State
	var expanded string
	err := s.db.QueryRow(
		`SELECT expanded, selected FROM sessions WHERE design_path = ?`,
		designPath).Scan(&expanded, &st.Selected)
	if errors.Is(err, sql.ErrNoRows) {
		return st, false, nil
	}
	if err != nil {
		return st, false, fmt.Errorf("loading session: %w", err)
	}
	if err := json.Unmarshal([]byte(expanded), &st.Expanded); err != nil {
		// A corrupted row is treated as no session rather than an error.
		return State{}, false, nil
	}
	return st, true, nil
}
