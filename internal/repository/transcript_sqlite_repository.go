package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"gopherai-interview/internal/model"
)

type SQLiteTranscriptRepository struct {
	db *sql.DB
}

func NewSQLiteTranscriptRepository(ctx context.Context, dbPath string) (*SQLiteTranscriptRepository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite failed: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite failed: %w", err)
	}

	r := &SQLiteTranscriptRepository{db: db}
	if err := r.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteTranscriptRepository) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS interview_transcripts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		name TEXT NOT NULL,
		topic TEXT NOT NULL,
		total_score REAL NOT NULL,
		payload TEXT NOT NULL,
		completed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transcripts_session_id ON interview_transcripts(session_id);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create transcripts table failed: %w", err)
	}
	return nil
}

func (r *SQLiteTranscriptRepository) Append(ctx context.Context, t model.Transcript) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal transcript failed: %w", err)
	}

	query := `
		INSERT INTO interview_transcripts (session_id, name, topic, total_score, payload, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, t.SessionID, t.Name, t.Topic, t.TotalScore, string(payload), t.CompletedAt); err != nil {
		return fmt.Errorf("insert transcript failed: %w", err)
	}
	return nil
}

func (r *SQLiteTranscriptRepository) List(ctx context.Context) ([]model.Transcript, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM interview_transcripts ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list transcripts failed: %w", err)
	}
	defer rows.Close()

	var out []model.Transcript
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan transcript failed: %w", err)
		}
		var t model.Transcript
		if err := json.Unmarshal([]byte(payload), &t); err != nil {
			return nil, fmt.Errorf("decode transcript failed: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcripts failed: %w", err)
	}
	return out, nil
}

func (r *SQLiteTranscriptRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.Transcript, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM interview_transcripts WHERE session_id = ? ORDER BY id DESC LIMIT 1`,
		sessionID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTranscriptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transcript failed: %w", err)
	}

	var t model.Transcript
	if err := json.Unmarshal([]byte(payload), &t); err != nil {
		return nil, fmt.Errorf("decode transcript failed: %w", err)
	}
	return &t, nil
}

func (r *SQLiteTranscriptRepository) Close() error {
	return r.db.Close()
}
