package savestore

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// index is the SQLite slot catalog. Saves are rare and user-initiated, so
// every write goes straight through; there is no async queue to drain.
type index struct {
	db *sql.DB
}

func openIndex(path string) (*index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS slots (
		name TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		tick INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		digest TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &index{db: db}, nil
}

func (i *index) close() error { return i.db.Close() }

func (i *index) record(s Slot, digest string) error {
	_, err := i.db.Exec(
		`INSERT OR REPLACE INTO slots(name,path,tick,width,height,digest,saved_at) VALUES(?,?,?,?,?,?,?)`,
		s.Name, s.Path, s.Tick, s.Width, s.Height, digest, s.SavedAt)
	if err != nil {
		return fmt.Errorf("index slot %q: %w", s.Name, err)
	}
	return nil
}

func (i *index) pathOf(name string) (string, error) {
	var path string
	err := i.db.QueryRow(`SELECT path FROM slots WHERE name = ?`, name).Scan(&path)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %q", ErrNoSlot, name)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

func (i *index) list() ([]Slot, error) {
	rows, err := i.db.Query(
		`SELECT name, path, tick, width, height, saved_at FROM slots ORDER BY saved_at DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.Name, &s.Path, &s.Tick, &s.Width, &s.Height, &s.SavedAt); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
