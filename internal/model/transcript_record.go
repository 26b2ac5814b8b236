package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// TranscriptRecord is the relational row for a Transcript. The full record
// lives in Payload; the other columns exist for lookups.
type TranscriptRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SessionID   string    `gorm:"size:64;not null;index" json:"session_id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Topic       string    `gorm:"size:128;not null;index" json:"topic"`
	TotalScore  float64   `gorm:"not null" json:"total_score"`
	Payload     string    `gorm:"type:longtext;not null" json:"-"`
	CompletedAt time.Time `gorm:"index" json:"completed_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (TranscriptRecord) TableName() string {
	return "interview_transcripts"
}

func NewTranscriptRecord(t Transcript) (*TranscriptRecord, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal transcript failed: %w", err)
	}
	return &TranscriptRecord{
		SessionID:   t.SessionID,
		Name:        t.Name,
		Topic:       t.Topic,
		TotalScore:  t.TotalScore,
		Payload:     string(payload),
		CompletedAt: t.CompletedAt,
	}, nil
}

func (r *TranscriptRecord) Transcript() (Transcript, error) {
	var t Transcript
	if err := json.Unmarshal([]byte(r.Payload), &t); err != nil {
		return Transcript{}, fmt.Errorf("unmarshal transcript payload failed: %w", err)
	}
	return t, nil
}
