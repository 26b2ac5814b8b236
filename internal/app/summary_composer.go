package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"gopherai-interview/internal/ai"
	"gopherai-interview/internal/model"
	"gopherai-interview/internal/session"
)

const summarySchema = `{
	"type": "object",
	"required": ["verdict"],
	"properties": {
		"verdict": {"type": "string", "minLength": 1},
		"pros": {"type": ["string", "null"]},
		"cons": {"type": ["string", "null"]},
		"areas_of_improvement": {"type": ["string", "null"]}
	}
}`

var summaryValidator = mustSchema(summarySchema)

// Summary is the qualitative narrative of a finished interview.
type Summary struct {
	Verdict            string `json:"verdict"`
	Pros               string `json:"pros"`
	Cons               string `json:"cons"`
	AreasOfImprovement string `json:"areas_of_improvement"`
}

func FallbackSummary(totalScore float64) Summary {
	return Summary{
		Verdict:            fmt.Sprintf("Candidate performance was average with a total score of %s/100", formatScore(totalScore)),
		Pros:               "Fallback pros",
		Cons:               "Fallback cons",
		AreasOfImprovement: "Fallback areas",
	}
}

type SummaryComposer struct {
	llm     ai.Completer
	subject string
}

func NewSummaryComposer(llm ai.Completer, subject string) *SummaryComposer {
	return &SummaryComposer{llm: llm, subject: subject}
}

// Compose asks the model for a verdict on s, folds the aggregated total into
// it and shapes the transcript record.
func (c *SummaryComposer) Compose(ctx context.Context, s *session.Session, completedAt time.Time) model.Transcript {
	scores := s.Scores()
	summary := c.summarize(ctx, s, scores.Total)
	return BuildTranscript(s, summary, scores.Total, completedAt)
}

func (c *SummaryComposer) summarize(ctx context.Context, s *session.Session, total float64) Summary {
	if c.llm == nil {
		return FallbackSummary(total)
	}

	items := make([]summaryItem, 0, len(s.Responses))
	for _, r := range s.Responses {
		items = append(items, summaryItem{
			Question:   questionText(s, r),
			Answer:     r.Answer,
			Evaluation: r.Evaluation,
		})
	}

	text, err := c.llm.Complete(ctx, ai.UserPrompt(promptSummary(c.subject, s.Topic, s.AllQuestions(), items)))
	if err != nil {
		log.Printf("summarize interview %s failed: %v", s.ID, err)
		return FallbackSummary(total)
	}
	raw, err := ai.ExtractJSON(text)
	if err != nil {
		log.Printf("summarize interview %s: %v", s.ID, err)
		return FallbackSummary(total)
	}
	if !validateJSON(summaryValidator, raw, "summarize interview") {
		return FallbackSummary(total)
	}

	var summary Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		log.Printf("summarize interview %s: decode failed: %v", s.ID, err)
		return FallbackSummary(total)
	}
	summary.Verdict = fmt.Sprintf("%s Total score: %s/100", strings.TrimSpace(summary.Verdict), formatScore(total))
	return summary
}

// BuildTranscript lays out the Q/A/L/E key families. Responses are ordered
// by slot, keeping arrival order within a slot; a repeated key keeps its
// first position and takes the latest value.
func BuildTranscript(s *session.Session, summary Summary, total float64, completedAt time.Time) model.Transcript {
	t := model.Transcript{
		SessionID:          s.ID,
		Name:               s.Name,
		Topic:              s.Topic,
		CompletedAt:        completedAt,
		TotalScore:         total,
		FinalVerdict:       summary.Verdict,
		AreasOfImprovement: summary.AreasOfImprovement,
		Pros:               summary.Pros,
		Cons:               summary.Cons,
		Questions:          model.Entries[string]{},
		CandidateAnswers:   model.Entries[string]{},
		LLMAnswers:         model.Entries[string]{},
		Evaluations:        model.Entries[model.TranscriptEvaluation]{},
	}

	responses := append([]session.ResponseRecord(nil), s.Responses...)
	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].QuestionID < responses[j].QuestionID
	})

	for _, r := range responses {
		suffix := transcriptSuffix(r)
		t.Questions.Set("Q"+suffix, questionText(s, r))
		t.CandidateAnswers.Set("A"+suffix, r.Answer)
		t.LLMAnswers.Set("L"+suffix, r.Evaluation.ExampleAnswer)
		t.Evaluations.Set("E"+suffix, model.TranscriptEvaluation{
			Score:         r.Evaluation.Score,
			Justification: r.Evaluation.Justification,
			Improvement:   r.Evaluation.Improvement,
		})
	}
	return t
}

// transcriptSuffix is "n" for base question n and "n.m" for its m-th
// follow-up, both 1-indexed.
func transcriptSuffix(r session.ResponseRecord) string {
	if r.IsFollowup {
		return fmt.Sprintf("%d.%d", r.QuestionID+1, r.FollowupIndex+1)
	}
	return fmt.Sprintf("%d", r.QuestionID+1)
}

func questionText(s *session.Session, r session.ResponseRecord) string {
	q, err := s.Resolve(session.QuestionRef{
		Slot:          r.QuestionID,
		IsFollowup:    r.IsFollowup,
		FollowupIndex: r.FollowupIndex,
	})
	if err != nil {
		return ""
	}
	return q
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.1f", score)
}
