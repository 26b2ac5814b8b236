package ai

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrNoJSON = errors.New("no json value in model output")

// ExtractJSON recovers a JSON value from model output. The whole text is
// tried first; failing that, the substring running from the first '{' or '['
// to the last matching closer is tried. Anything else yields ErrNoJSON.
func ExtractJSON(text string) (json.RawMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNoJSON
	}
	if json.Valid([]byte(text)) {
		return json.RawMessage(text), nil
	}

	start := strings.IndexAny(text, "{[")
	if start == -1 {
		return nil, ErrNoJSON
	}
	closer := byte('}')
	if text[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(text, closer)
	if end <= start {
		return nil, ErrNoJSON
	}

	candidate := []byte(text[start : end+1])
	if !json.Valid(candidate) {
		return nil, ErrNoJSON
	}
	return json.RawMessage(candidate), nil
}

// DecodeJSON runs ExtractJSON and unmarshals the result into v.
func DecodeJSON(text string, v any) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Join(ErrNoJSON, err)
	}
	return nil
}
