package session

import (
	"errors"
	"testing"
	"time"
)

var zeroTime = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func testQuestions() []string {
	qs := make([]string, QuestionCount)
	for i := range qs {
		qs[i] = "question " + string(rune('A'+i))
	}
	return qs
}

func TestResolve(t *testing.T) {
	s := newSession("id", "Asha", "Finance", testQuestions(), zeroTime)
	s.InstallFollowups(0, []string{"f0", "f1"})

	tests := []struct {
		name    string
		ref     QuestionRef
		want    string
		wantErr error
	}{
		{name: "base question", ref: QuestionRef{Slot: 3}, want: "question D"},
		{name: "installed follow-up", ref: QuestionRef{Slot: 0, IsFollowup: true, FollowupIndex: 1}, want: "f1"},
		{name: "negative slot", ref: QuestionRef{Slot: -1}, wantErr: ErrInvalidQuestion},
		{name: "slot past end", ref: QuestionRef{Slot: QuestionCount}, wantErr: ErrInvalidQuestion},
		{name: "follow-up index out of range", ref: QuestionRef{Slot: 0, IsFollowup: true, FollowupIndex: 2}, wantErr: ErrInvalidQuestion},
		{name: "follow-up on slot without follow-ups", ref: QuestionRef{Slot: 1, IsFollowup: true}, wantErr: ErrInvalidQuestion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Resolve(tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve(%+v) error = %v, want %v", tt.ref, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%+v) unexpected error: %v", tt.ref, err)
			}
			if got != tt.want {
				t.Fatalf("Resolve(%+v) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestInstallFollowupsIsOneShot(t *testing.T) {
	s := newSession("id", "n", "t", testQuestions(), zeroTime)

	if s.InstallFollowups(2, nil) {
		t.Fatal("empty follow-up list must not install")
	}
	if !s.InstallFollowups(2, []string{"first", "second"}) {
		t.Fatal("expected first non-empty list to install")
	}
	if s.InstallFollowups(2, []string{"other"}) {
		t.Fatal("second list must not overwrite installed follow-ups")
	}

	got := s.FollowupsFor(2)
	if len(got) != 2 || got[0] != "first" {
		t.Fatalf("followups = %v, want [first second]", got)
	}
}

func TestSanitizeFollowups(t *testing.T) {
	got := SanitizeFollowups([]string{" a ", "", "b", "   ", "c", "d", "e", "f", "g"})
	want := []string{"a", "b", "c", "d", "e"}
	if len(got) != len(want) {
		t.Fatalf("SanitizeFollowups = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SanitizeFollowups[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecordAndAllQuestions(t *testing.T) {
	s := newSession("id", "n", "t", testQuestions(), zeroTime)
	s.InstallFollowups(1, []string{"x"})
	s.InstallFollowups(0, []string{"y", "z"})

	s.Record(QuestionRef{Slot: 1}, "main", Evaluation{Score: 5}, zeroTime)
	rec := s.Record(QuestionRef{Slot: 1, IsFollowup: true, FollowupIndex: 0}, "fu", Evaluation{Score: 6}, zeroTime)

	if !rec.IsFollowup || rec.FollowupIndex != 0 || rec.QuestionID != 1 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if len(s.Responses) != 2 {
		t.Fatalf("responses = %d, want 2", len(s.Responses))
	}

	all := s.AllQuestions()
	if len(all) != QuestionCount+3 {
		t.Fatalf("all questions = %d, want %d", len(all), QuestionCount+3)
	}
	if all[QuestionCount] != "y" || all[QuestionCount+2] != "x" {
		t.Fatalf("follow-ups not flattened in slot order: %v", all[QuestionCount:])
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := newSession("id", "n", "t", testQuestions(), zeroTime)
	s.InstallFollowups(0, []string{"a"})

	c := s.Clone()
	c.Followups[0][0] = "changed"
	c.Questions[0] = "changed"

	if s.Followups[0][0] != "a" || s.Questions[0] != "question A" {
		t.Fatal("clone shares memory with original")
	}
}
