// Package matching turns webhook payloads into job match records.
package matching

import (
	"errors"

	"github.com/mitchellh/mapstructure"
)

const (
	DefaultJobTitle  = "Unknown Position"
	DefaultReasoning = "No analysis provided"
)

var (
	// ErrBadShape is returned when the payload matches none of the known response shapes.
	ErrBadShape = errors.New("invalid response format, check the webhook configuration")
	// ErrNoMatches reports a well-formed response without any match. It is
	// guidance for the user rather than a failure.
	ErrNoMatches = errors.New("no matching positions found, try another CV or add more skills")
)

// Match is a single position ranked against the submitted résumé.
type Match struct {
	JobTitle string `json:"job_title"`
	// SemanticScore and Score always carry the same value. Upstream workflows
	// use either name.
	SemanticScore float64  `json:"semantic_score"`
	Score         float64  `json:"score"`
	Reasoning     string   `json:"reasoning"`
	SkillGaps     []string `json:"skill_gaps"`
	Strengths     []string `json:"strengths"`
}

// rawMatch keeps pointers so absent fields can be told apart from zero values.
type rawMatch struct {
	JobTitle      *string
	SemanticScore *float64
	Score         *float64
	Reasoning     *string
	SkillGaps     []string
	Strengths     []string
}

// Normalize converts a decoded JSON payload into match records, preserving
// the order of the payload. Only an unknown top-level shape is an error.
func Normalize(payload any) ([]*Match, error) {
	_, items, err := Detect(payload)
	if err != nil {
		return nil, err
	}

	return NormalizeItems(items)
}

// NormalizeItems converts an already detected raw match list.
func NormalizeItems(items []any) ([]*Match, error) {
	if len(items) == 0 {
		return nil, ErrNoMatches
	}

	matches := make([]*Match, 0, len(items))
	for _, item := range items {
		matches = append(matches, normalizeItem(item).toMatch())
	}

	return matches, nil
}

// normalizeItem decodes each field on its own. A field that is absent, null
// or not convertible is left unset and gets its default. Anything other
// than an object yields a record made of defaults only.
func normalizeItem(item any) *rawMatch {
	var raw rawMatch

	obj, ok := item.(map[string]any)
	if !ok {
		return &raw
	}

	var (
		title, reasoning     string
		semantic, score      float64
		skillGaps, strengths []string
	)

	if decodeField(obj, "job_title", &title) {
		raw.JobTitle = &title
	}
	if decodeField(obj, "semantic_score", &semantic) {
		raw.SemanticScore = &semantic
	}
	if decodeField(obj, "score", &score) {
		raw.Score = &score
	}
	if decodeField(obj, "reasoning", &reasoning) {
		raw.Reasoning = &reasoning
	}
	if decodeField(obj, "skill_gaps", &skillGaps) {
		raw.SkillGaps = skillGaps
	}
	if decodeField(obj, "strengths", &strengths) {
		raw.Strengths = strengths
	}

	return &raw
}

func decodeField(obj map[string]any, key string, out any) bool {
	value, ok := obj[key]
	if !ok || value == nil {
		return false
	}

	return mapstructure.WeakDecode(value, out) == nil
}

func (r *rawMatch) toMatch() *Match {
	m := &Match{
		JobTitle:  DefaultJobTitle,
		Reasoning: DefaultReasoning,
		SkillGaps: []string{},
		Strengths: []string{},
	}

	if r.JobTitle != nil {
		m.JobTitle = *r.JobTitle
	}
	if r.Reasoning != nil {
		m.Reasoning = *r.Reasoning
	}

	switch {
	case r.SemanticScore != nil:
		m.SemanticScore = *r.SemanticScore
	case r.Score != nil:
		m.SemanticScore = *r.Score
	}
	m.Score = m.SemanticScore

	if r.SkillGaps != nil {
		m.SkillGaps = r.SkillGaps
	}
	if r.Strengths != nil {
		m.Strengths = r.Strengths
	}

	return m
}
