package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gopherai-interview/internal/model"
)

type recordingSink struct {
	got []model.Transcript
	err error
}

func (s *recordingSink) Append(_ context.Context, t model.Transcript) error {
	if s.err != nil {
		return s.err
	}
	s.got = append(s.got, t)
	return nil
}

func TestProcessAppendsDecodedTranscript(t *testing.T) {
	sink := &recordingSink{}
	w := NewTranscriptArchiveWorker(nil, sink, "q")

	tr := model.Transcript{SessionID: "s1", Name: "Asha"}
	tr.Questions.Set("Q1", "first")
	body, err := json.Marshal(tr)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if err := w.process(context.Background(), body); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(sink.got) != 1 || sink.got[0].SessionID != "s1" {
		t.Fatalf("sink got %+v", sink.got)
	}
	if q, _ := sink.got[0].Questions.Get("Q1"); q != "first" {
		t.Fatalf("Q1 = %q, want first", q)
	}
}

func TestProcessRejectsBadPayload(t *testing.T) {
	w := NewTranscriptArchiveWorker(nil, &recordingSink{}, "q")
	if err := w.process(context.Background(), []byte("not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestProcessPropagatesSinkError(t *testing.T) {
	boom := errors.New("db down")
	w := NewTranscriptArchiveWorker(nil, &recordingSink{err: boom}, "q")
	if err := w.process(context.Background(), []byte(`{"Session ID":"s"}`)); !errors.Is(err, boom) {
		t.Fatalf("process error = %v, want %v", err, boom)
	}
}
