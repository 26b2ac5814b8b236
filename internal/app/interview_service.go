package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gopherai-interview/internal/model"
	"gopherai-interview/internal/session"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrTimeUp              = errors.New("time up")
	ErrTranscriptPersist   = errors.New("persist transcript failed")
	ErrSessionNotFound     = session.ErrSessionNotFound
	ErrInvalidQuestion     = session.ErrInvalidQuestion
	defaultTimeLimit       = 30 * time.Minute
	completionThankYouText = "Thank you for taking the test and we'll contact you if you get selected."
)

// TranscriptStore is where finished transcripts are appended.
type TranscriptStore interface {
	Append(ctx context.Context, t model.Transcript) error
}

// TranscriptPublisher is notified after a transcript has been stored.
type TranscriptPublisher interface {
	Publish(ctx context.Context, t model.Transcript) error
}

type InterviewService struct {
	sessions    *session.Store
	evaluator   *AnswerEvaluator
	composer    *SummaryComposer
	transcripts TranscriptStore
	publisher   TranscriptPublisher
	timeLimit   time.Duration
	now         func() time.Time
}

type InterviewServiceOption func(*InterviewService)

func WithTimeLimit(limit time.Duration) InterviewServiceOption {
	return func(s *InterviewService) {
		if limit > 0 {
			s.timeLimit = limit
		}
	}
}

func WithPublisher(p TranscriptPublisher) InterviewServiceOption {
	return func(s *InterviewService) { s.publisher = p }
}

func WithClock(now func() time.Time) InterviewServiceOption {
	return func(s *InterviewService) { s.now = now }
}

func NewInterviewService(
	sessions *session.Store,
	evaluator *AnswerEvaluator,
	composer *SummaryComposer,
	transcripts TranscriptStore,
	opts ...InterviewServiceOption,
) *InterviewService {
	s := &InterviewService{
		sessions:    sessions,
		evaluator:   evaluator,
		composer:    composer,
		transcripts: transcripts,
		timeLimit:   defaultTimeLimit,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type StartSessionInput struct {
	Name  string
	Topic string
}

type StartSessionResult struct {
	SessionID string   `json:"sessionId"`
	Questions []string `json:"questions"`
}

type SubmitAnswerInput struct {
	SessionID     string
	QuestionID    int
	Answer        string
	IsFollowup    bool
	FollowupIndex *int
}

type SubmitAnswerResult struct {
	OK        bool     `json:"ok"`
	Followups []string `json:"followups"`
}

type EndSessionResult struct {
	OK         bool             `json:"ok"`
	Message    string           `json:"message"`
	TotalScore float64          `json:"-"`
	Transcript model.Transcript `json:"-"`
}

func (s *InterviewService) StartSession(ctx context.Context, input StartSessionInput) (*StartSessionResult, error) {
	name := strings.TrimSpace(input.Name)
	topic := strings.TrimSpace(input.Topic)
	if name == "" || topic == "" {
		return nil, fmt.Errorf("%w: missing name or topic", ErrInvalidInput)
	}

	sess, err := s.sessions.Create(ctx, name, topic)
	if err != nil {
		return nil, err
	}
	return &StartSessionResult{
		SessionID: sess.ID,
		Questions: sess.Questions,
	}, nil
}

// SubmitAnswer evaluates one answer and records it. Submissions on the same
// session are serialized, including the model call.
func (s *InterviewService) SubmitAnswer(ctx context.Context, input SubmitAnswerInput) (*SubmitAnswerResult, error) {
	if strings.TrimSpace(input.SessionID) == "" {
		return nil, fmt.Errorf("%w: missing sessionId", ErrInvalidInput)
	}
	ref := session.QuestionRef{Slot: input.QuestionID, IsFollowup: input.IsFollowup}
	if input.IsFollowup {
		if input.FollowupIndex == nil {
			return nil, fmt.Errorf("%w: missing followupIndex", ErrInvalidQuestion)
		}
		ref.FollowupIndex = *input.FollowupIndex
	}

	result := &SubmitAnswerResult{OK: true, Followups: []string{}}
	err := s.sessions.Update(input.SessionID, func(sess *session.Session) error {
		now := s.now()
		if sess.Elapsed(now) > s.timeLimit && input.Answer == "" {
			return ErrTimeUp
		}

		question, err := sess.Resolve(ref)
		if err != nil {
			return err
		}

		eval := s.evaluator.Evaluate(ctx, question, input.Answer)
		if !ref.IsFollowup {
			sess.InstallFollowups(ref.Slot, eval.Followups)
		}
		sess.Record(ref, input.Answer, eval.Evaluation, s.now())

		if !ref.IsFollowup {
			result.Followups = sess.FollowupsFor(ref.Slot)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// EndSession aggregates scores, composes the transcript, appends it to the
// transcript store and destroys the session. The session survives when the
// transcript cannot be stored so the caller can retry.
func (s *InterviewService) EndSession(ctx context.Context, sessionID string) (*EndSessionResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: missing sessionId", ErrInvalidInput)
	}

	var transcript model.Transcript
	err := s.sessions.Close(sessionID, func(sess *session.Session) error {
		transcript = s.composer.Compose(ctx, sess, s.now())
		if err := s.transcripts.Append(ctx, transcript); err != nil {
			log.Printf("append transcript for session %s failed: %v", sess.ID, err)
			return fmt.Errorf("%w: %v", ErrTranscriptPersist, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, transcript); err != nil {
			log.Printf("publish transcript for session %s failed: %v", sessionID, err)
		}
	}

	return &EndSessionResult{
		OK:         true,
		Message:    completionThankYouText,
		TotalScore: transcript.TotalScore,
		Transcript: transcript,
	}, nil
}

// ActiveSessions reports how many interviews are in progress.
func (s *InterviewService) ActiveSessions() int {
	return s.sessions.Len()
}
