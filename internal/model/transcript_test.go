package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEntriesPreserveInsertionOrder(t *testing.T) {
	var qs Entries[string]
	qs.Set("Q2", "second")
	qs.Set("Q10", "tenth")
	qs.Set("Q1", "first")
	qs.Set("Q2", "second, updated")

	raw, err := json.Marshal(qs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"Q2":"second, updated","Q10":"tenth","Q1":"first"}`
	if string(raw) != want {
		t.Fatalf("marshal = %s, want %s", raw, want)
	}

	var back Entries[string]
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if strings.Join(back.Keys(), ",") != "Q2,Q10,Q1" {
		t.Fatalf("keys after round trip = %v", back.Keys())
	}
}

func TestEntriesRejectNonObject(t *testing.T) {
	var e Entries[string]
	if err := json.Unmarshal([]byte(`["Q1"]`), &e); err == nil {
		t.Fatal("expected error for array input")
	}
}

func TestTranscriptRecordRoundTrip(t *testing.T) {
	tr := Transcript{SessionID: "s1", Name: "Asha", Topic: "Finance", TotalScore: 42.5, FinalVerdict: "ok"}
	tr.Questions.Set("Q1", "What is VLOOKUP?")
	tr.Evaluations.Set("E1", TranscriptEvaluation{Score: 7.5, Justification: "j", Improvement: "i"})

	rec, err := NewTranscriptRecord(tr)
	if err != nil {
		t.Fatalf("NewTranscriptRecord: %v", err)
	}
	if rec.SessionID != "s1" || rec.TotalScore != 42.5 {
		t.Fatalf("unexpected record columns %+v", rec)
	}
	if !strings.Contains(rec.Payload, `"Final Verdict":"ok"`) {
		t.Fatalf("payload missing verdict: %s", rec.Payload)
	}

	got, err := rec.Transcript()
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	e1, ok := got.Evaluations.Get("E1")
	if !ok || e1.Score != 7.5 {
		t.Fatalf("E1 = %+v, %v", e1, ok)
	}
}
