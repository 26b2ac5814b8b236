package app

import (
	"fmt"
	"strings"

	"gopherai-interview/internal/session"
)

func promptGenerateQuestions(subject, topic string) string {
	return fmt.Sprintf("Generate an array of %d advanced %s interview questions tailored to the %s department. Return only the JSON array of %d question strings.",
		session.QuestionCount, subject, topic, session.QuestionCount)
}

func promptEvaluateAnswer(subject, question, answer string) string {
	return fmt.Sprintf(`Evaluate the following answer to this %[1]s interview question, prioritizing the answer's content for relevance, accuracy, and depth. Only generate follow-up questions if the answer is meaningful and related to the question.
Question: %[2]s
Answer: %[3]s
Return only JSON with:
"score": number from 0 to 10 with one decimal place (e.g., 8.5),
"justification": string explaining the score,
"improvement": string with suggestions for improvement,
"example_answer": string with a good example answer,
"followups": array of 1 to %[4]d relevant follow-up question strings based on the answer's accuracy, depth, and relevance to the original question (at least 1, max %[4]d). Return an empty array [] if the answer is nonsensical, irrelevant, gibberish, or completely unrelated to the question (e.g., no meaningful content or off-topic). For incorrect but meaningful answers, generate follow-ups that address specific misconceptions or weaknesses without generating irrelevant questions.`,
		subject, question, answer, session.MaxFollowups)
}

// summaryItem is one answered question as shown to the model.
type summaryItem struct {
	Question   string
	Answer     string
	Evaluation session.Evaluation
}

func promptSummary(subject, topic string, allQuestions []string, items []summaryItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are summarizing an %s mock interview for %s.\n", subject, topic)
	b.WriteString("The interview covered these questions:\n")
	for i, q := range allQuestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	b.WriteString("Based on the following questions, answers, and evaluations:\n")
	for i, item := range items {
		fmt.Fprintf(&b, "\nQuestion %d: %s\nAnswer: %s\nEvaluation: score %.1f, justification: %s, improvement: %s\n",
			i+1, item.Question, item.Answer, item.Evaluation.Score, item.Evaluation.Justification, item.Evaluation.Improvement)
	}
	b.WriteString(`
Return only JSON with:
"verdict": a single sentence verdict on the candidate's performance,
"pros": a paragraph describing the candidate's strengths,
"cons": a paragraph describing the candidate's weaknesses,
"areas_of_improvement": a paragraph with areas for improvement.`)
	return b.String()
}
