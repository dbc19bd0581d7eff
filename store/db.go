// Package store persists a log of generated QR images in SQLite so the
// API can list and search past generations.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Record represents a single generated image logged in the database.
// The image bytes themselves are not stored, only what was asked for.
type Record struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Size      int    `json:"size"`
	Level     string `json:"level"`
	Bytes     int    `json:"bytes"`
	CreatedAt int64  `json:"created_at"`
}

// DayCount is the number of generations performed on one calendar day.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// HistoryStore manages SQLite storage for generation records.
type HistoryStore struct {
	db *sql.DB
}

const createGenerationsTable = `
CREATE TABLE IF NOT EXISTS generations (
    id TEXT PRIMARY KEY,
    content TEXT NOT NULL,
    size INTEGER NOT NULL,
    level TEXT NOT NULL DEFAULT 'medium',
    bytes INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);
`

const createFTSTable = `
CREATE VIRTUAL TABLE IF NOT EXISTS generations_fts USING fts5(
    content,
    content='generations',
    content_rowid='rowid'
);
`

const createFTSTrigger = `
CREATE TRIGGER IF NOT EXISTS generations_ai AFTER INSERT ON generations BEGIN
    INSERT INTO generations_fts(rowid, content)
    VALUES (new.rowid, new.content);
END;
`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_generations_created_at ON generations(created_at);
`

// NewHistoryStore opens (or creates) the SQLite database at dbPath,
// initialises the schema (generations table, FTS5 virtual table, sync
// trigger), and returns a ready-to-use HistoryStore.
func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run schema migrations.
	for _, stmt := range []string{
		createGenerationsTable,
		createFTSTable,
		createFTSTrigger,
		createIndexes,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec schema statement: %w", err)
		}
	}

	return &HistoryStore{db: db}, nil
}

// SaveRecord inserts a generation record. If a record with the same ID
// already exists the insert is silently ignored.
func (s *HistoryStore) SaveRecord(rec *Record) error {
	const query = `
		INSERT OR IGNORE INTO generations
			(id, content, size, level, bytes, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		rec.ID,
		rec.Content,
		rec.Size,
		rec.Level,
		rec.Bytes,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

// Recent returns generation records ordered by creation time descending
// (newest first). Use limit and offset for pagination.
func (s *HistoryStore) Recent(limit, offset int) ([]Record, error) {
	const query = `
		SELECT id, content, size, level, bytes, created_at
		FROM generations
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("recent records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Search performs a full-text search across encoded content using the
// FTS5 index. Results are ranked by relevance.
func (s *HistoryStore) Search(query string, limit int) ([]Record, error) {
	// Escape any double quotes in the query to avoid FTS5 syntax errors.
	escaped := strings.ReplaceAll(query, `"`, `""`)
	ftsQuery := fmt.Sprintf(`"%s"`, escaped)

	const q = `
		SELECT g.id, g.content, g.size, g.level, g.bytes, g.created_at
		FROM generations g
		JOIN generations_fts fts ON g.rowid = fts.rowid
		WHERE generations_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`

	rows, err := s.db.Query(q, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("search records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// CountByDay returns per-day generation counts, newest day first.
func (s *HistoryStore) CountByDay(limit int) ([]DayCount, error) {
	const query = `
		SELECT date(created_at, 'unixepoch') AS day, COUNT(*) AS n
		FROM generations
		GROUP BY day
		ORDER BY day DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("count by day: %w", err)
	}
	defer rows.Close()

	var counts []DayCount
	for rows.Next() {
		var c DayCount
		if err := rows.Scan(&c.Day, &c.Count); err != nil {
			return nil, fmt.Errorf("scan day count row: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day count rows: %w", err)
	}

	return counts, nil
}

// Total returns the number of generation records.
func (s *HistoryStore) Total() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM generations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// --- helpers ----------------------------------------------------------------

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var recs []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(
			&r.ID, &r.Content, &r.Size, &r.Level, &r.Bytes, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record rows: %w", err)
	}
	return recs, nil
}
