package model

import (
	"fmt"
	"strings"
)

// AssessmentType identifies one of the purchasable assessment products.
// The set is closed: anything outside these four variants is rejected at
// construction time rather than carried around as a free-form string.
type AssessmentType string

const (
	AssessmentAcademicWriting  AssessmentType = "academic_writing"
	AssessmentGeneralWriting   AssessmentType = "general_writing"
	AssessmentAcademicSpeaking AssessmentType = "academic_speaking"
	AssessmentGeneralSpeaking  AssessmentType = "general_speaking"
)

// AllAssessmentTypes lists every known assessment product.
var AllAssessmentTypes = []AssessmentType{
	AssessmentAcademicWriting,
	AssessmentGeneralWriting,
	AssessmentAcademicSpeaking,
	AssessmentGeneralSpeaking,
}

// ParseAssessmentType validates a raw product tag against the known set.
func ParseAssessmentType(raw string) (AssessmentType, error) {
	at := AssessmentType(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range AllAssessmentTypes {
		if at == known {
			return at, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAssessmentType, raw)
}

// IsValid reports whether the assessment type is one of the known variants.
func (at AssessmentType) IsValid() bool {
	_, err := ParseAssessmentType(string(at))
	return err == nil
}

// Entitlement is the set of assessment products a token or session grants
// access to. It is always non-empty and contains only valid types.
type Entitlement []AssessmentType

// NewEntitlement builds an entitlement from raw product tags.
func NewEntitlement(raw []string) (Entitlement, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyEntitlement
	}
	ent := make(Entitlement, 0, len(raw))
	seen := make(map[AssessmentType]bool, len(raw))
	for _, r := range raw {
		at, err := ParseAssessmentType(r)
		if err != nil {
			return nil, err
		}
		if seen[at] {
			continue
		}
		seen[at] = true
		ent = append(ent, at)
	}
	return ent, nil
}

// Contains reports whether the entitlement covers the given assessment type.
func (e Entitlement) Contains(at AssessmentType) bool {
	for _, have := range e {
		if have == at {
			return true
		}
	}
	return false
}

// Strings returns the entitlement as raw product tags, e.g. for JSON responses.
func (e Entitlement) Strings() []string {
	out := make([]string, len(e))
	for i, at := range e {
		out[i] = string(at)
	}
	return out
}
