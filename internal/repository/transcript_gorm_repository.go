package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gopherai-interview/internal/model"
)

// GormTranscriptRepository stores transcripts as model.TranscriptRecord rows.
type GormTranscriptRepository struct {
	db *gorm.DB
}

func NewGormTranscriptRepository(db *gorm.DB) *GormTranscriptRepository {
	return &GormTranscriptRepository{db: db}
}

func (r *GormTranscriptRepository) Append(ctx context.Context, t model.Transcript) error {
	record, err := model.NewTranscriptRecord(t)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("create transcript failed: %w", err)
	}
	return nil
}

func (r *GormTranscriptRepository) List(ctx context.Context) ([]model.Transcript, error) {
	var records []model.TranscriptRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list transcripts failed: %w", err)
	}
	out := make([]model.Transcript, 0, len(records))
	for i := range records {
		t, err := records[i].Transcript()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *GormTranscriptRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.Transcript, error) {
	var record model.TranscriptRecord
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("id DESC").First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("get transcript failed: %w", err)
	}
	t, err := record.Transcript()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Close is a no-op; the *gorm.DB is owned by bootstrap.
func (r *GormTranscriptRepository) Close() error {
	return nil
}
