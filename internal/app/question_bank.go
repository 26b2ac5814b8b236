package app

import (
	"context"
	"log"
	"strings"

	"gopherai-interview/internal/ai"
	"gopherai-interview/internal/session"
)

var fallbackQuestions = [session.QuestionCount]string{
	"What are advanced uses of VLOOKUP in Excel?",
	"How do you optimize large datasets in Excel?",
	"Explain how to create a dynamic dashboard in Excel.",
	"How can you use Power Query to clean data?",
	"What are the benefits of using PivotTables for data analysis?",
	"How do you implement conditional formatting with formulas?",
	"Describe the use of array formulas in Excel.",
	"How do you automate repetitive tasks using VBA?",
	"What is the difference between INDEX/MATCH and VLOOKUP?",
	"How do you handle errors in Excel formulas?",
}

// FallbackQuestions returns a copy of the built-in question list.
func FallbackQuestions() []string {
	return append([]string(nil), fallbackQuestions[:]...)
}

// QuestionCache is the optional shared cache of generated question banks.
type QuestionCache interface {
	GetQuestions(ctx context.Context, subject, topic string) ([]string, bool, error)
	SetQuestions(ctx context.Context, subject, topic string, questions []string) error
}

// QuestionBank produces the base questions of a session.
type QuestionBank struct {
	llm     ai.Completer
	cache   QuestionCache
	subject string
}

func NewQuestionBank(llm ai.Completer, cache QuestionCache, subject string) *QuestionBank {
	return &QuestionBank{
		llm:     llm,
		cache:   cache,
		subject: subject,
	}
}

// Generate always returns exactly session.QuestionCount questions, falling
// back to the built-in list when the model output is unusable.
func (b *QuestionBank) Generate(ctx context.Context, topic string) []string {
	if b.cache != nil {
		cached, hit, err := b.cache.GetQuestions(ctx, b.subject, topic)
		if err != nil {
			log.Printf("question cache read failed: %v", err)
		} else if hit && validQuestions(cached) {
			return cached
		}
	}

	questions, ok := b.fromModel(ctx, topic)
	if !ok {
		return FallbackQuestions()
	}

	if b.cache != nil {
		if err := b.cache.SetQuestions(ctx, b.subject, topic, questions); err != nil {
			log.Printf("question cache write failed: %v", err)
		}
	}
	return questions
}

func (b *QuestionBank) fromModel(ctx context.Context, topic string) ([]string, bool) {
	if b.llm == nil {
		return nil, false
	}
	text, err := b.llm.Complete(ctx, ai.UserPrompt(promptGenerateQuestions(b.subject, topic)))
	if err != nil {
		log.Printf("generate questions failed: %v", err)
		return nil, false
	}

	var questions []string
	if err := ai.DecodeJSON(text, &questions); err != nil {
		log.Printf("generate questions: unusable model output: %v", err)
		return nil, false
	}
	for i := range questions {
		questions[i] = strings.TrimSpace(questions[i])
	}
	if !validQuestions(questions) {
		log.Printf("generate questions: got %d questions, want %d", len(questions), session.QuestionCount)
		return nil, false
	}
	return questions, true
}

func validQuestions(questions []string) bool {
	if len(questions) != session.QuestionCount {
		return false
	}
	for _, q := range questions {
		if q == "" {
			return false
		}
	}
	return true
}
