package session

import (
	"errors"
	"strings"
	"time"
)

const (
	// QuestionCount is the fixed number of base-question slots per session.
	QuestionCount = 10
	// MaxFollowups caps the follow-up list installed into a single slot.
	MaxFollowups = 5
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidQuestion = errors.New("invalid question")
)

type Evaluation struct {
	Score         float64 `json:"score"`
	Justification string  `json:"justification"`
	Improvement   string  `json:"improvement"`
	ExampleAnswer string  `json:"example_answer"`
}

type ResponseRecord struct {
	QuestionID    int        `json:"questionId"`
	IsFollowup    bool       `json:"isFollowup,omitempty"`
	FollowupIndex int        `json:"followupIndex,omitempty"`
	Answer        string     `json:"answer"`
	Evaluation    Evaluation `json:"evaluation"`
	AnsweredAt    time.Time  `json:"answeredAt"`
}

// Session is one running interview. Questions has exactly QuestionCount
// entries and Followups is indexed by the same slot numbers.
type Session struct {
	ID        string
	Name      string
	Topic     string
	Questions []string
	Followups [][]string
	Responses []ResponseRecord
	StartTime time.Time
}

// QuestionRef addresses either a base question or one of its follow-ups.
type QuestionRef struct {
	Slot          int
	IsFollowup    bool
	FollowupIndex int
}

func newSession(id, name, topic string, questions []string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Name:      name,
		Topic:     topic,
		Questions: questions,
		Followups: make([][]string, QuestionCount),
		Responses: make([]ResponseRecord, 0, QuestionCount),
		StartTime: now,
	}
}

// Elapsed reports how long the interview has been running at now.
func (s *Session) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartTime)
}

// LastActivity is the time of the latest recorded answer, or StartTime when
// nothing has been answered yet.
func (s *Session) LastActivity() time.Time {
	last := s.StartTime
	for _, r := range s.Responses {
		if r.AnsweredAt.After(last) {
			last = r.AnsweredAt
		}
	}
	return last
}

// Resolve returns the text of the question ref points at. A ref to a slot
// outside 0..9 or to a follow-up that was never installed is ErrInvalidQuestion.
func (s *Session) Resolve(ref QuestionRef) (string, error) {
	if ref.Slot < 0 || ref.Slot >= len(s.Questions) {
		return "", ErrInvalidQuestion
	}
	if !ref.IsFollowup {
		q := s.Questions[ref.Slot]
		if q == "" {
			return "", ErrInvalidQuestion
		}
		return q, nil
	}
	followups := s.Followups[ref.Slot]
	if ref.FollowupIndex < 0 || ref.FollowupIndex >= len(followups) {
		return "", ErrInvalidQuestion
	}
	return followups[ref.FollowupIndex], nil
}

// InstallFollowups attaches followups to slot unless the slot already has a
// non-empty list. It reports whether the list was installed.
func (s *Session) InstallFollowups(slot int, followups []string) bool {
	if slot < 0 || slot >= len(s.Followups) {
		return false
	}
	if len(s.Followups[slot]) > 0 {
		return false
	}
	cleaned := SanitizeFollowups(followups)
	if len(cleaned) == 0 {
		return false
	}
	s.Followups[slot] = cleaned
	return true
}

// FollowupsFor returns a copy of the follow-up list installed on slot, never
// nil.
func (s *Session) FollowupsFor(slot int) []string {
	if slot < 0 || slot >= len(s.Followups) {
		return []string{}
	}
	return append([]string{}, s.Followups[slot]...)
}

// Record appends a response for ref.
func (s *Session) Record(ref QuestionRef, answer string, eval Evaluation, at time.Time) ResponseRecord {
	rec := ResponseRecord{
		QuestionID: ref.Slot,
		Answer:     answer,
		Evaluation: eval,
		AnsweredAt: at,
	}
	if ref.IsFollowup {
		rec.IsFollowup = true
		rec.FollowupIndex = ref.FollowupIndex
	}
	s.Responses = append(s.Responses, rec)
	return rec
}

// AllQuestions flattens base questions followed by every installed
// follow-up in slot order.
func (s *Session) AllQuestions() []string {
	all := append([]string(nil), s.Questions...)
	for _, followups := range s.Followups {
		all = append(all, followups...)
	}
	return all
}

// Clone returns a deep copy safe to read without holding the session lock.
func (s *Session) Clone() *Session {
	out := *s
	out.Questions = append([]string(nil), s.Questions...)
	out.Followups = make([][]string, len(s.Followups))
	for i, f := range s.Followups {
		out.Followups[i] = append([]string(nil), f...)
	}
	out.Responses = append([]ResponseRecord(nil), s.Responses...)
	return &out
}

// SanitizeFollowups drops blank entries and keeps at most MaxFollowups.
func SanitizeFollowups(followups []string) []string {
	out := make([]string, 0, len(followups))
	for _, f := range followups {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		out = append(out, f)
		if len(out) == MaxFollowups {
			break
		}
	}
	return out
}
