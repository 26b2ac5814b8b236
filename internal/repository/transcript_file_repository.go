package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopherai-interview/internal/model"
)

// FileTranscriptRepository keeps every transcript in one JSON array on disk.
// The file is read fully on open and rewritten fully on every append.
type FileTranscriptRepository struct {
	mu          sync.Mutex
	path        string
	transcripts []model.Transcript
}

func NewFileTranscriptRepository(path string) (*FileTranscriptRepository, error) {
	r := &FileTranscriptRepository{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read transcripts file failed: %w", err)
	}
	if len(data) == 0 {
		return r, nil
	}
	if err := json.Unmarshal(data, &r.transcripts); err != nil {
		return nil, fmt.Errorf("decode transcripts file failed: %w", err)
	}
	return r, nil
}

func (r *FileTranscriptRepository) Append(_ context.Context, t model.Transcript) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := append(append([]model.Transcript(nil), r.transcripts...), t)
	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transcripts failed: %w", err)
	}
	if err := writeFileAtomic(r.path, data); err != nil {
		return err
	}
	r.transcripts = next
	return nil
}

func (r *FileTranscriptRepository) List(_ context.Context) ([]model.Transcript, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Transcript(nil), r.transcripts...), nil
}

func (r *FileTranscriptRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.Transcript, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return findBySessionID(all, sessionID)
}

func (r *FileTranscriptRepository) Close() error {
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create transcripts dir failed: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".transcripts-*.json")
	if err != nil {
		return fmt.Errorf("create temp transcripts file failed: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write transcripts file failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close transcripts file failed: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace transcripts file failed: %w", err)
	}
	return nil
}
