package app

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"gopherai-interview/internal/ai"
	"gopherai-interview/internal/session"
)

const evaluationSchema = `{
	"type": "object",
	"required": ["score"],
	"properties": {
		"score": {"type": "number", "minimum": 0, "maximum": 10}
	}
}`

var evaluationValidator = mustSchema(evaluationSchema)

func mustSchema(schema string) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(err)
	}
	return compiled
}

// validateJSON reports whether raw satisfies schema, logging the reasons
// when it does not.
func validateJSON(schema *gojsonschema.Schema, raw []byte, what string) bool {
	validation, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		log.Printf("%s: schema validation failed: %v", what, err)
		return false
	}
	if !validation.Valid() {
		msgs := make([]string, 0, len(validation.Errors()))
		for _, verr := range validation.Errors() {
			msgs = append(msgs, verr.String())
		}
		log.Printf("%s: invalid model output: %s", what, strings.Join(msgs, "; "))
		return false
	}
	return true
}

// EvaluationResult is an evaluation together with the follow-up questions
// the model proposed for it.
type EvaluationResult struct {
	session.Evaluation
	Followups []string `json:"followups"`
}

// FallbackEvaluation is used whenever the model call fails or its output
// does not validate.
func FallbackEvaluation() EvaluationResult {
	return EvaluationResult{
		Evaluation: session.Evaluation{
			Score:         5.0,
			Justification: "Fallback evaluation",
			Improvement:   "Fallback improvement",
			ExampleAnswer: "Fallback example",
		},
		Followups: []string{},
	}
}

type AnswerEvaluator struct {
	llm     ai.Completer
	subject string
}

func NewAnswerEvaluator(llm ai.Completer, subject string) *AnswerEvaluator {
	return &AnswerEvaluator{llm: llm, subject: subject}
}

// Evaluate scores answer against question. It never fails: model errors and
// malformed or out-of-range output produce FallbackEvaluation.
func (e *AnswerEvaluator) Evaluate(ctx context.Context, question, answer string) EvaluationResult {
	if e.llm == nil {
		return FallbackEvaluation()
	}
	text, err := e.llm.Complete(ctx, ai.UserPrompt(promptEvaluateAnswer(e.subject, question, answer)))
	if err != nil {
		log.Printf("evaluate answer failed: %v", err)
		return FallbackEvaluation()
	}
	result, ok := parseEvaluation(text)
	if !ok {
		return FallbackEvaluation()
	}
	return result
}

func parseEvaluation(text string) (EvaluationResult, bool) {
	raw, err := ai.ExtractJSON(text)
	if err != nil {
		log.Printf("evaluate answer: %v", err)
		return EvaluationResult{}, false
	}

	if !validateJSON(evaluationValidator, raw, "evaluate answer") {
		return EvaluationResult{}, false
	}

	var reply evaluationReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		log.Printf("evaluate answer: decode failed: %v", err)
		return EvaluationResult{}, false
	}
	return EvaluationResult{
		Evaluation: session.Evaluation{
			Score:         roundScore(reply.Score),
			Justification: lenientString(reply.Justification),
			Improvement:   lenientString(reply.Improvement),
			ExampleAnswer: lenientString(reply.ExampleAnswer),
		},
		Followups: session.SanitizeFollowups(lenientStrings(reply.Followups)),
	}, true
}

// evaluationReply is the model's evaluation as sent. Only score is
// mandatory; the text fields and followups may be null or mistyped.
type evaluationReply struct {
	Score         float64         `json:"score"`
	Justification json.RawMessage `json:"justification"`
	Improvement   json.RawMessage `json:"improvement"`
	ExampleAnswer json.RawMessage `json:"example_answer"`
	Followups     json.RawMessage `json:"followups"`
}

// lenientString returns raw as a string, or "" when it is absent or not a
// JSON string.
func lenientString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// lenientStrings keeps the string items of a JSON array. Anything that is not
// an array yields no items.
func lenientStrings(raw json.RawMessage) []string {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			out = append(out, s)
		}
	}
	return out
}

// roundScore rounds to one decimal place and keeps the result in [0,10].
func roundScore(score float64) float64 {
	rounded := math.Round(score*10) / 10
	return math.Min(10, math.Max(0, rounded))
}
