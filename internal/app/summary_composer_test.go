package app

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gopherai-interview/internal/session"
)

var completedAt = time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)

func answeredSession() *session.Session {
	s := &session.Session{
		ID:        "sess-1",
		Name:      "Asha",
		Topic:     "Finance",
		Questions: numberedQuestions("Base", session.QuestionCount),
		Followups: make([][]string, session.QuestionCount),
		StartTime: completedAt.Add(-20 * time.Minute),
	}
	s.InstallFollowups(0, []string{"Follow A?", "Follow B?"})

	s.Record(session.QuestionRef{Slot: 2}, "third answer", session.Evaluation{Score: 6, ExampleAnswer: "ex3"}, completedAt)
	s.Record(session.QuestionRef{Slot: 0}, "first answer", session.Evaluation{Score: 8, Justification: "j", Improvement: "i", ExampleAnswer: "ex1"}, completedAt)
	s.Record(session.QuestionRef{Slot: 0, IsFollowup: true, FollowupIndex: 1}, "fb answer", session.Evaluation{Score: 9, ExampleAnswer: "ex1.2"}, completedAt)
	s.Record(session.QuestionRef{Slot: 0, IsFollowup: true, FollowupIndex: 0}, "fa answer", session.Evaluation{Score: 7, ExampleAnswer: "ex1.1"}, completedAt)
	return s
}

func TestSummaryComposer_Compose(t *testing.T) {
	reply := `Summary: {"verdict": "Strong candidate.", "pros": "p", "cons": "c", "areas_of_improvement": "a"}`
	transcript := NewSummaryComposer(replyWith(reply, nil), "Excel").Compose(context.Background(), answeredSession(), completedAt)

	// slot 0 averages 8, 9 and 7; slot 2 is 6
	if transcript.TotalScore != 14 {
		t.Fatalf("total = %v, want 14", transcript.TotalScore)
	}
	if transcript.FinalVerdict != "Strong candidate. Total score: 14.0/100" {
		t.Fatalf("verdict = %q", transcript.FinalVerdict)
	}
	if transcript.Pros != "p" || transcript.Cons != "c" || transcript.AreasOfImprovement != "a" {
		t.Fatalf("unexpected narrative %+v", transcript)
	}

	wantKeys := []string{"Q1", "Q1.2", "Q1.1", "Q3"}
	gotKeys := transcript.Questions.Keys()
	if strings.Join(gotKeys, ",") != strings.Join(wantKeys, ",") {
		t.Fatalf("question keys = %v, want %v", gotKeys, wantKeys)
	}

	if q, _ := transcript.Questions.Get("Q1.2"); q != "Follow B?" {
		t.Fatalf("Q1.2 = %q", q)
	}
	if a, _ := transcript.CandidateAnswers.Get("A1.1"); a != "fa answer" {
		t.Fatalf("A1.1 = %q", a)
	}
	if l, _ := transcript.LLMAnswers.Get("L3"); l != "ex3" {
		t.Fatalf("L3 = %q", l)
	}
	e, ok := transcript.Evaluations.Get("E1")
	if !ok || e.Score != 8 || e.Justification != "j" || e.Improvement != "i" {
		t.Fatalf("E1 = %+v", e)
	}
	if transcript.SessionID != "sess-1" || !transcript.CompletedAt.Equal(completedAt) {
		t.Fatalf("unexpected header %+v", transcript)
	}
}

func TestSummaryComposer_FallbackEmbedsTotal(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{name: "model error", err: errors.New("boom")},
		{name: "no json", reply: "great job"},
		{name: "missing verdict", reply: `{"pros": "p"}`},
		{name: "empty verdict", reply: `{"verdict": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transcript := NewSummaryComposer(replyWith(tt.reply, tt.err), "Excel").Compose(context.Background(), answeredSession(), completedAt)
			want := "Candidate performance was average with a total score of 14.0/100"
			if transcript.FinalVerdict != want {
				t.Fatalf("verdict = %q, want %q", transcript.FinalVerdict, want)
			}
			if transcript.Pros != "Fallback pros" {
				t.Fatalf("pros = %q", transcript.Pros)
			}
			if len(transcript.Questions) != 4 {
				t.Fatalf("questions = %v", transcript.Questions.Keys())
			}
		})
	}
}

func TestBuildTranscript_EmptySession(t *testing.T) {
	s := &session.Session{
		ID:        "empty",
		Questions: numberedQuestions("Base", session.QuestionCount),
		Followups: make([][]string, session.QuestionCount),
	}
	transcript := BuildTranscript(s, FallbackSummary(0), 0, completedAt)

	raw, err := json.Marshal(transcript)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"Questions":{}`) {
		t.Fatalf("expected empty question map, got %s", raw)
	}
	if !strings.Contains(string(raw), `"Final Verdict":"Candidate performance was average with a total score of 0.0/100"`) {
		t.Fatalf("unexpected verdict in %s", raw)
	}
}
