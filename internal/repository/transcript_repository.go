package repository

import (
	"context"
	"errors"

	"gopherai-interview/internal/model"
)

var ErrTranscriptNotFound = errors.New("transcript not found")

// TranscriptRepository is the append-only log of finished interviews.
type TranscriptRepository interface {
	Append(ctx context.Context, t model.Transcript) error
	List(ctx context.Context) ([]model.Transcript, error)
	GetBySessionID(ctx context.Context, sessionID string) (*model.Transcript, error)
	Close() error
}

func findBySessionID(all []model.Transcript, sessionID string) (*model.Transcript, error) {
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].SessionID == sessionID {
			t := all[i]
			return &t, nil
		}
	}
	return nil, ErrTranscriptNotFound
}
