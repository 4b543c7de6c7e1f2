// Package model defines the pure data entities exchanged between the
// analysis stages: extracted facts, normalized inputs, sufficiency
// verdicts. All entities are created fresh per analysis request and are
// never mutated after construction.
package model

import "math"

// SourceRef points at the document location a fact was extracted from.
type SourceRef struct {
	Document string `json:"document"`
	Location string `json:"location,omitempty"`
}

// Fact is a single extracted value. A fact carries either a numeric or a
// textual value; Number is nil for text-only facts.
type Fact struct {
	Key    string     `json:"key"`
	Number *float64   `json:"number,omitempty"`
	Text   string     `json:"text,omitempty"`
	Source *SourceRef `json:"source,omitempty"`
}

// ExtractedFacts is the normalized extraction record handed in by the
// upstream document-extraction collaborator. It is immutable once built;
// the normalizer produces a derived copy and never writes back.
type ExtractedFacts struct {
	facts map[string]Fact
}

// NewExtractedFacts builds an ExtractedFacts record from a list of facts.
// Later facts with the same key replace earlier ones.
func NewExtractedFacts(facts []Fact) ExtractedFacts {
	m := make(map[string]Fact, len(facts))
	for _, f := range facts {
		m[f.Key] = f
	}
	return ExtractedFacts{facts: m}
}

// Number returns the numeric value for key. The boolean is false when the
// fact is absent, non-numeric, or non-finite. Zero and negative values are
// returned as-is; interpreting them is the normalizer's job.
func (e ExtractedFacts) Number(key string) (float64, bool) {
	f, ok := e.facts[key]
	if !ok || f.Number == nil {
		return 0, false
	}
	v := *f.Number
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// PositiveNumber returns the numeric value for key only when it is finite
// and strictly positive.
func (e ExtractedFacts) PositiveNumber(key string) (float64, bool) {
	v, ok := e.Number(key)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// Text returns the textual value for key, or "" when absent.
func (e ExtractedFacts) Text(key string) string {
	return e.facts[key].Text
}

// Source returns the source reference for key, or nil when absent.
func (e ExtractedFacts) Source(key string) *SourceRef {
	f, ok := e.facts[key]
	if !ok {
		return nil
	}
	return f.Source
}

// Len returns the number of facts in the record.
func (e ExtractedFacts) Len() int {
	return len(e.facts)
}

// Keys returns the fact keys present in the record.
func (e ExtractedFacts) Keys() []string {
	keys := make([]string, 0, len(e.facts))
	for k := range e.facts {
		keys = append(keys, k)
	}
	return keys
}
