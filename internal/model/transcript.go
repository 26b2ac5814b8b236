package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TranscriptEvaluation is the E-family value of a transcript.
type TranscriptEvaluation struct {
	Score         float64 `json:"score"`
	Justification string  `json:"justification"`
	Improvement   string  `json:"improvement"`
}

// Transcript is the persisted record of one finished interview. The key
// families share suffixes: Q1 / A1 / L1 / E1 for base question 1 and
// Q1.2 / A1.2 / L1.2 / E1.2 for its second follow-up.
type Transcript struct {
	SessionID          string                        `json:"Session ID"`
	Name               string                        `json:"Name"`
	Topic              string                        `json:"Topic"`
	CompletedAt        time.Time                     `json:"Completed At"`
	TotalScore         float64                       `json:"Total Score"`
	FinalVerdict       string                        `json:"Final Verdict"`
	AreasOfImprovement string                        `json:"Areas of improvement"`
	Pros               string                        `json:"Pros"`
	Cons               string                        `json:"Cons"`
	Questions          Entries[string]               `json:"Questions"`
	CandidateAnswers   Entries[string]               `json:"Candidate Answers"`
	LLMAnswers         Entries[string]               `json:"LLM Answers"`
	Evaluations        Entries[TranscriptEvaluation] `json:"Evaluations"`
}

type Entry[V any] struct {
	Key   string
	Value V
}

// Entries is a JSON object that keeps insertion order. Setting an existing
// key replaces its value in place.
type Entries[V any] []Entry[V]

func (e *Entries[V]) Set(key string, value V) {
	for i := range *e {
		if (*e)[i].Key == key {
			(*e)[i].Value = value
			return
		}
	}
	*e = append(*e, Entry[V]{Key: key, Value: value})
}

func (e Entries[V]) Get(key string) (V, bool) {
	for _, entry := range e {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	var zero V
	return zero, false
}

func (e Entries[V]) Keys() []string {
	keys := make([]string, len(e))
	for i, entry := range e {
		keys[i] = entry.Key
	}
	return keys
}

func (e Entries[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e *Entries[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*e = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("transcript entries: expected object, got %v", tok)
	}

	out := Entries[V]{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("transcript entries: expected string key, got %v", keyTok)
		}
		var value V
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("transcript entries: decode %q: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*e = out
	return nil
}
