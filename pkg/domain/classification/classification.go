// Package classification defines the sensitivity model shared by the
// classifier, the crypto service and the persistence layer.
package classification

// Class is the sensitivity level assigned to an extracted field.
type Class string

const (
	Public    Class = "PUBLIC"
	PII       Class = "PII"
	Sensitive Class = "SENSITIVE"
	PHI       Class = "PHI"
)

// Valid reports whether c is one of the four known classes.
func (c Class) Valid() bool {
	switch c {
	case Public, PII, Sensitive, PHI:
		return true
	}
	return false
}

// Searchable reports whether fields of this class get a blind index.
// The payload is encrypted wholesale either way; this only gates equality
// search on the field.
func (c Class) Searchable() bool {
	return c != Public
}

// Reason records which rule produced a classification, for auditability.
type Reason string

const (
	ReasonTemplate     Reason = "template"
	ReasonKeyPattern   Reason = "key_pattern"
	ReasonValuePattern Reason = "value_pattern"
	ReasonHeuristic    Reason = "heuristic"
	ReasonDefault      Reason = "default"
)

// ClassifiedField is the immutable outcome of one classification pass over a
// single extracted field. It is never mutated, only superseded by a fresh
// extraction.
type ClassifiedField struct {
	Key            string  `json:"key"`
	Value          string  `json:"value"`
	Classification Class   `json:"classification"`
	Confidence     float64 `json:"confidence"`
	Reason         Reason  `json:"reason"`
}
