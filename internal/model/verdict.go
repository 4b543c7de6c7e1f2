package model

// SufficiencyVerdict is the outcome of checking a required-field set
// against normalized inputs. When insufficient, Missing names every
// unresolved field — not just the first — so callers can render one
// consolidated report.
type SufficiencyVerdict struct {
	Sufficient bool     `json:"sufficient"`
	Missing    []string `json:"missing,omitempty"`
}

// Sufficient is the verdict for a fully resolved field set.
func Sufficient() SufficiencyVerdict {
	return SufficiencyVerdict{Sufficient: true}
}

// Insufficient builds a verdict listing the unresolved fields.
func Insufficient(missing ...string) SufficiencyVerdict {
	return SufficiencyVerdict{Sufficient: false, Missing: missing}
}
