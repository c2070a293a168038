package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type AnswerKind int

const (
	AnswerSingle AnswerKind = iota
	AnswerMatching
)

// Answer is the correct-answer encoding of an exercise as an explicit
// variant: a single option id for multiple-choice and audio exercises, or an
// item-to-zone mapping for drag-drop matching. On the wire and in the
// database it keeps the original representation (plain id vs JSON object).
type Answer struct {
	Kind     AnswerKind
	OptionID string
	Pairs    map[string]string
}

func SingleAnswer(optionID string) Answer {
	return Answer{Kind: AnswerSingle, OptionID: optionID}
}

func MatchingAnswer(pairs map[string]string) Answer {
	return Answer{Kind: AnswerMatching, Pairs: pairs}
}

// Matches reports whether a submitted single choice is correct.
func (a Answer) Matches(optionID string) bool {
	return a.Kind == AnswerSingle && a.OptionID == optionID
}

// MatchesPairs requires every expected pair to be satisfied exactly.
// Partial matches and extra assignments both fail.
func (a Answer) MatchesPairs(assignments map[string]string) bool {
	if a.Kind != AnswerMatching || len(assignments) != len(a.Pairs) {
		return false
	}
	for item, zone := range a.Pairs {
		if assignments[item] != zone {
			return false
		}
	}
	return true
}

func decodeAnswer(raw string) (Answer, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Answer{}, errors.New("empty answer encoding")
	}
	if strings.HasPrefix(trimmed, "{") {
		var pairs map[string]string
		if err := json.Unmarshal([]byte(trimmed), &pairs); err != nil {
			return Answer{}, fmt.Errorf("decode matching answer: %w", err)
		}
		return MatchingAnswer(pairs), nil
	}
	return SingleAnswer(trimmed), nil
}

func (a Answer) encode() (string, error) {
	switch a.Kind {
	case AnswerSingle:
		return a.OptionID, nil
	case AnswerMatching:
		data, err := json.Marshal(a.Pairs)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", fmt.Errorf("unknown answer kind %d", a.Kind)
}

func (a Answer) Value() (driver.Value, error) {
	return a.encode()
}

func (a *Answer) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into Answer", value)
	}
	decoded, err := decodeAnswer(raw)
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}

func (a Answer) MarshalJSON() ([]byte, error) {
	encoded, err := a.encode()
	if err != nil {
		return nil, err
	}
	return json.Marshal(encoded)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		decoded, decodeErr := decodeAnswer(raw)
		if decodeErr != nil {
			return decodeErr
		}
		*a = decoded
		return nil
	}
	// A bare JSON object is accepted as a matching answer so clients do not
	// have to double-encode.
	var pairs map[string]string
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	*a = MatchingAnswer(pairs)
	return nil
}
