// Package docstore is the document-service collaborator the signing engine
// commits optimistic local state to. It keeps documents, fields, and
// recipients in a single sqlite file; a failed commit is reported to the
// caller and leaves the engine's local state untouched.
package docstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/inksign/inksign/internal/signing"
)

// Document is a stored document row.
type Document struct {
	ID        string                   `json:"id"`
	Title     string                   `json:"title"`
	OrderMode signing.SigningOrderMode `json:"order_mode"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// Store is an sqlite-backed document service.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	stmts := []string{
		`PRAGMA foreign_keys=ON;`,
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			order_mode TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS fields (
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (document_id, id)
		);`,
		`CREATE TABLE IF NOT EXISTS recipients (
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (document_id, id)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureDocument creates the document row if it does not exist yet.
func (s *Store) EnsureDocument(id, title string, mode signing.SigningOrderMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode == "" {
		mode = signing.OrderParallel
	}
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO documents (id, title, order_mode, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		id, title, string(mode), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure document %s: %w", id, err)
	}
	return nil
}

// GetDocument returns a document row, or nil when absent.
func (s *Store) GetDocument(id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.db.QueryRow(
		`SELECT id, title, order_mode, created_at, updated_at FROM documents WHERE id = ?`, id)
	var doc Document
	var mode string
	if err := row.Scan(&doc.ID, &doc.Title, &mode, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}
	doc.OrderMode = signing.SigningOrderMode(mode)
	return &doc, nil
}

// replaceRows swaps a document's rows in one table for the given payloads.
func (s *Store) replaceRows(table, documentID string, ids []string, payloads [][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM `+table+` WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	for i := range ids {
		_, err := tx.Exec(
			`INSERT INTO `+table+` (document_id, id, position, payload) VALUES (?, ?, ?, ?)`,
			documentID, ids[i], i, string(payloads[i]),
		)
		if err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	if _, err := tx.Exec(
		`UPDATE documents SET updated_at = ? WHERE id = ?`, time.Now().UTC(), documentID,
	); err != nil {
		return fmt.Errorf("failed to touch document %s: %w", documentID, err)
	}
	return tx.Commit()
}

// CommitFields replaces the document's stored field list.
func (s *Store) CommitFields(documentID string, fields []signing.Field) error {
	ids := make([]string, len(fields))
	payloads := make([][]byte, len(fields))
	for i, f := range fields {
		raw, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("failed to encode field %s: %w", f.ID, err)
		}
		ids[i], payloads[i] = f.ID, raw
	}
	return s.replaceRows("fields", documentID, ids, payloads)
}

// CommitRecipients replaces the document's stored recipient list.
func (s *Store) CommitRecipients(documentID string, recipients []signing.Recipient) error {
	ids := make([]string, len(recipients))
	payloads := make([][]byte, len(recipients))
	for i, r := range recipients {
		raw, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode recipient %s: %w", r.ID, err)
		}
		ids[i], payloads[i] = r.ID, raw
	}
	return s.replaceRows("recipients", documentID, ids, payloads)
}

// LoadFields reads the document's stored fields in commit order.
func (s *Store) LoadFields(documentID string) ([]signing.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(
		`SELECT payload FROM fields WHERE document_id = ? ORDER BY position`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fields for %s: %w", documentID, err)
	}
	defer rows.Close()

	var fields []signing.Field
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan field row: %w", err)
		}
		var f signing.Field
		if err := json.Unmarshal([]byte(payload), &f); err != nil {
			return nil, fmt.Errorf("failed to decode field payload: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// LoadRecipients reads the document's stored recipients in commit order.
func (s *Store) LoadRecipients(documentID string) ([]signing.Recipient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(
		`SELECT payload FROM recipients WHERE document_id = ? ORDER BY position`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipients for %s: %w", documentID, err)
	}
	defer rows.Close()

	var recipients []signing.Recipient
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan recipient row: %w", err)
		}
		var r signing.Recipient
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("failed to decode recipient payload: %w", err)
		}
		recipients = append(recipients, r)
	}
	return recipients, rows.Err()
}
