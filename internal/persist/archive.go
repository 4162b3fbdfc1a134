package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// archiveSchema is the DDL executed on first open. IF NOT EXISTS makes it
// safe to run on every startup.
const archiveSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id         TEXT PRIMARY KEY,
    taken_at   TIMESTAMP NOT NULL,
    families   INTEGER NOT NULL,
    members    INTEGER NOT NULL,
    document   TEXT NOT NULL
);
`

// Archive is an append-only store of past snapshot documents, kept in a
// local SQLite database in WAL mode.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens (or creates) the archive database at dbPath.
func OpenArchive(ctx context.Context, dbPath string) (*Archive, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("archive: open database: %w", err)
	}

	// SQLite supports a single writer; one connection avoids SQLITE_BUSY
	// contention between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, archiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: create schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// Append stores one snapshot document under its snapshot ID.
func (a *Archive) Append(ctx context.Context, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("archive: marshal document: %w", err)
	}
	members := 0
	for _, f := range doc.Families {
		members += len(f.Members)
	}
	const q = `
		INSERT INTO snapshots (id, taken_at, families, members, document)
		VALUES (?, ?, ?, ?, ?)`
	if _, err := a.db.ExecContext(ctx, q,
		doc.ManagerState.SnapshotID, doc.ManagerState.SavedAt,
		len(doc.Families), members, string(data)); err != nil {
		return fmt.Errorf("archive: insert snapshot %s: %w", doc.ManagerState.SnapshotID, err)
	}
	return nil
}

// Entry summarizes one archived snapshot.
type Entry struct {
	ID       string
	TakenAt  time.Time
	Families int
	Members  int
}

// List returns archive entries, most recent first.
func (a *Archive) List(ctx context.Context) ([]Entry, error) {
	const q = `
		SELECT id, taken_at, families, members
		FROM snapshots ORDER BY taken_at DESC`
	rows, err := a.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("archive: list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.TakenAt, &e.Families, &e.Members); err != nil {
			return nil, fmt.Errorf("archive: scan snapshot row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: iterate snapshots: %w", err)
	}
	return out, nil
}

// Get loads one archived document by snapshot ID.
func (a *Archive) Get(ctx context.Context, id string) (Document, error) {
	var data string
	const q = `SELECT document FROM snapshots WHERE id = ?`
	if err := a.db.QueryRowContext(ctx, q, id).Scan(&data); err != nil {
		return Document{}, fmt.Errorf("archive: snapshot %s: %w", id, err)
	}
	var doc Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return Document{}, fmt.Errorf("archive: parse snapshot %s: %w", id, err)
	}
	return doc, nil
}

// Close releases the database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}
