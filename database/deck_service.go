package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DeckRecord is one persisted deck document. Document holds the full
// structured export (meta + branding + slides) verbatim, so a load
// reconstructs exactly what was saved.
type DeckRecord struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Document  json.RawMessage `json:"document"`
	CreatedAt int64           `json:"createdAt"`
	UpdatedAt int64           `json:"updatedAt"`
}

// DeckService provides deck document persistence on sqlite.
type DeckService struct {
	db *sql.DB
}

// NewDeckService creates a service over an open database handle.
func NewDeckService(db *sql.DB) *DeckService {
	return &DeckService{db: db}
}

// Open opens (or creates) the deck database at the given path and runs
// migrations.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open deck database: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS deck_documents (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			document TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_deck_updated ON deck_documents(updated_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate deck schema: %w", err)
	}
	return nil
}

// SaveDeck inserts or updates a deck record. A missing id is generated;
// timestamps are maintained here.
func (s *DeckService) SaveDeck(rec DeckRecord) (DeckRecord, error) {
	if s.db == nil {
		return DeckRecord{}, fmt.Errorf("database connection is nil")
	}
	if len(rec.Document) == 0 {
		return DeckRecord{}, fmt.Errorf("document is required")
	}
	if !json.Valid(rec.Document) {
		return DeckRecord{}, fmt.Errorf("document is not valid JSON")
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	now := time.Now().UnixMilli()
	if rec.CreatedAt == 0 {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	tx, err := s.db.Begin()
	if err != nil {
		return DeckRecord{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO deck_documents (id, title, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			document = excluded.document,
			updated_at = excluded.updated_at
	`, rec.ID, rec.Title, string(rec.Document), rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return DeckRecord{}, fmt.Errorf("failed to save deck: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return DeckRecord{}, fmt.Errorf("failed to commit deck save: %w", err)
	}
	return rec, nil
}

// LoadDeck fetches one deck record by id.
func (s *DeckService) LoadDeck(id string) (DeckRecord, error) {
	if s.db == nil {
		return DeckRecord{}, fmt.Errorf("database connection is nil")
	}
	var rec DeckRecord
	var doc string
	err := s.db.QueryRow(`
		SELECT id, title, document, created_at, updated_at
		FROM deck_documents WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Title, &doc, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return DeckRecord{}, fmt.Errorf("deck %s not found", id)
	}
	if err != nil {
		return DeckRecord{}, fmt.Errorf("failed to load deck: %w", err)
	}
	rec.Document = json.RawMessage(doc)
	return rec, nil
}

// ListDecks returns all saved decks, most recently updated first, without
// their document bodies.
func (s *DeckService) ListDecks() ([]DeckRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	rows, err := s.db.Query(`
		SELECT id, title, created_at, updated_at
		FROM deck_documents ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	var records []DeckRecord
	for rows.Next() {
		var rec DeckRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deck row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteDeck removes a saved deck.
func (s *DeckService) DeleteDeck(id string) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	res, err := s.db.Exec(`DELETE FROM deck_documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deck %s not found", id)
	}
	return nil
}
