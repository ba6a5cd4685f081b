// Package history persists completed predictions in SQLite so operators can
// review what the service answered. Records are append-only.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/disease-prediction-server/internal/domain"
)

// SQLiteStore implements domain.HistoryStore using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite history store. It creates the database
// file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// NewStoreWithDB wraps an existing database handle. Used in tests.
func NewStoreWithDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS predictions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		correlation_id TEXT NOT NULL DEFAULT '',
		symptoms TEXT NOT NULL,
		predictions TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
	CREATE INDEX IF NOT EXISTS idx_predictions_correlation_id ON predictions(correlation_id);
	`

	_, err := db.Exec(schema)
	return err
}

// Save appends one prediction record.
func (s *SQLiteStore) Save(ctx context.Context, record *domain.PredictionRecord) error {
	symptoms, err := json.Marshal(record.Symptoms)
	if err != nil {
		return fmt.Errorf("failed to encode symptoms: %w", err)
	}
	predictions, err := json.Marshal(record.Predictions)
	if err != nil {
		return fmt.Errorf("failed to encode predictions: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO predictions (correlation_id, symptoms, predictions, created_at)
		VALUES (?, ?, ?, ?)
	`,
		record.CorrelationID,
		string(symptoms),
		string(predictions),
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert ID: %w", err)
	}
	record.ID = id

	return nil
}

// List returns prediction records, newest first, with pagination.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*domain.PredictionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, correlation_id, symptoms, predictions, created_at
		FROM predictions
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var records []*domain.PredictionRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Count returns the total number of stored predictions.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM predictions").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return count, nil
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecord scans a row into a PredictionRecord.
func scanRecord(s scanner) (*domain.PredictionRecord, error) {
	record := &domain.PredictionRecord{}
	var symptoms, predictions string

	err := s.Scan(&record.ID, &record.CorrelationID, &symptoms, &predictions, &record.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(symptoms), &record.Symptoms); err != nil {
		return nil, fmt.Errorf("decoding symptoms: %w", err)
	}
	if err := json.Unmarshal([]byte(predictions), &record.Predictions); err != nil {
		return nil, fmt.Errorf("decoding predictions: %w", err)
	}
	return record, nil
}
