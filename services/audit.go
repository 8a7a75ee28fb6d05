package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// AuditLog is a local, append-only trail of every mutation attempt sent to the
// external store. The sheet stays authoritative for the data itself; this
// exists so operators can answer "who tried to change what, and did it stick"
// without trawling the sheet's revision history. It is never read back into
// dashboard views.
type AuditLog struct {
	db *sql.DB
}

// AuditEntry is one recorded mutation attempt.
type AuditEntry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Actor     string    `json:"actor"`
	RowKey    string    `json:"row_key"`
	Status    string    `json:"status"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// OpenAuditLog opens (and if needed creates) the audit database at path.
func OpenAuditLog(path string) (*AuditLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS mutation_audit (
		id         TEXT PRIMARY KEY,
		kind       TEXT NOT NULL,
		actor      TEXT NOT NULL DEFAULT '',
		row_key    TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT '',
		success    INTEGER NOT NULL DEFAULT 0,
		message    TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_mutation_audit_created_at ON mutation_audit(created_at);
	CREATE INDEX IF NOT EXISTS idx_mutation_audit_actor ON mutation_audit(actor);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create audit schema: %w", err)
	}
	return &AuditLog{db: db}, nil
}

// Record appends one attempt.
func (a *AuditLog) Record(entry AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	_, err := a.db.Exec(`
		INSERT INTO mutation_audit (id, kind, actor, row_key, status, success, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Kind, entry.Actor, entry.RowKey, entry.Status, entry.Success, entry.Message)
	return err
}

// Recent returns the newest entries, most recent first.
func (a *AuditLog) Recent(limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.db.Query(`
		SELECT id, kind, actor, row_key, status, success, message, created_at
		FROM mutation_audit
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Actor, &e.RowKey, &e.Status, &e.Success, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (a *AuditLog) Close() error {
	return a.db.Close()
}
