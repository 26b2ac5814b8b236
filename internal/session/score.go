package session

// Scores is the result of aggregating a session's responses.
type Scores struct {
	PerQuestion [QuestionCount]float64 `json:"perQuestion"`
	Total       float64                `json:"total"`
}

// Aggregate collapses every slot's main and follow-up scores into a single
// slot score and sums the slots into a total on a 0-100 scale.
//
// A slot score is the mean of its non-zero scores. A score of exactly 0 is
// treated as "no data", so a genuine 0.0 evaluation is indistinguishable from
// an unanswered question and does not pull the mean down.
func Aggregate(responses []ResponseRecord) Scores {
	var out Scores
	for slot := 0; slot < QuestionCount; slot++ {
		scores := make([]float64, 0, 1+MaxFollowups)

		mainScore := 0.0
		for _, r := range responses {
			if r.QuestionID == slot && !r.IsFollowup {
				mainScore = r.Evaluation.Score
				break
			}
		}
		scores = append(scores, mainScore)
		for _, r := range responses {
			if r.QuestionID == slot && r.IsFollowup {
				scores = append(scores, r.Evaluation.Score)
			}
		}

		sum, n := 0.0, 0
		for _, score := range scores {
			if score > 0 {
				sum += score
				n++
			}
		}
		if n > 0 {
			out.PerQuestion[slot] = sum / float64(n)
		}
		out.Total += out.PerQuestion[slot]
	}
	return out
}

// Scores aggregates the session's recorded responses.
func (s *Session) Scores() Scores {
	return Aggregate(s.Responses)
}
