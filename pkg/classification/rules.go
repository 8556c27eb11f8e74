package classification

import (
	"regexp"

	"github.com/FormVault/formvault/pkg/domain/classification"
)

// KeyRule matches on the normalized field name. Rules are evaluated in slice
// order, first match wins; Confidence is the rule's static value.
type KeyRule struct {
	Name       string
	Pattern    *regexp.Regexp
	Class      classification.Class
	Confidence float64
}

// ValueRule matches on the field value, catching PII hiding behind generic or
// missing labels.
type ValueRule struct {
	Name    string
	Pattern *regexp.Regexp
	Class   classification.Class
}

// DefaultKeyRules returns the built-in key-name rule chain. Most specific
// names first; the generic "name" rule deliberately sits last.
func DefaultKeyRules() []KeyRule {
	return []KeyRule{
		{"ssn", regexp.MustCompile(`(?i)ssn|social_security`), classification.PII, 0.99},
		{"password", regexp.MustCompile(`(?i)password|secret|pin_code`), classification.Sensitive, 0.99},
		{"medical", regexp.MustCompile(`(?i)medical|diagnosis|blood_type|health|insurance_no`), classification.PHI, 0.95},
		{"passport", regexp.MustCompile(`(?i)passport`), classification.PII, 0.95},
		{"national_id", regexp.MustCompile(`(?i)emirates_id|national_id|\beid\b|id_number|identity_no`), classification.PII, 0.95},
		{"bank", regexp.MustCompile(`(?i)iban|account_no|bank_account|swift|card_number`), classification.Sensitive, 0.9},
		{"email", regexp.MustCompile(`(?i)email|e_mail`), classification.PII, 0.9},
		{"phone", regexp.MustCompile(`(?i)phone|mobile|telephone|fax`), classification.PII, 0.9},
		{"birth", regexp.MustCompile(`(?i)birth|\bdob\b`), classification.PII, 0.9},
		{"salary", regexp.MustCompile(`(?i)salary|income|wage`), classification.Sensitive, 0.85},
		{"address", regexp.MustCompile(`(?i)address|residence|po_box`), classification.PII, 0.85},
		{"nationality", regexp.MustCompile(`(?i)nationality|citizenship`), classification.PII, 0.85},
		{"name", regexp.MustCompile(`(?i)name`), classification.PII, 0.8},
	}
}

// DefaultValueRules returns the built-in value-shape rule chain. All value
// rules carry the same confidence (see valueRuleConfidence).
func DefaultValueRules() []ValueRule {
	return []ValueRule{
		{"emirates_id_shape", regexp.MustCompile(`^784[-\s]?\d{4}[-\s]?\d{7}[-\s]?\d$`), classification.PII},
		{"email_shape", regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`), classification.PII},
		{"iban_shape", regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Z0-9]{4,30}$`), classification.Sensitive},
		{"ssn_shape", regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`), classification.PII},
		{"passport_shape", regexp.MustCompile(`^[A-Z]{1,2}[0-9]{6,9}$`), classification.PII},
		{"phone_shape", regexp.MustCompile(`^\+?\d{1,4}[\s-]?\(?\d{2,4}\)?[\s-]?\d{3}[\s-]?\d{4}$`), classification.PII},
	}
}

const (
	templateConfidence  = 1.0
	valueRuleConfidence = 0.85
	heuristicConfidence = 0.6
	defaultConfidence   = 0.5
)

var (
	nonLatinPattern   = regexp.MustCompile(`[^\x00-\x7F]`)
	separatorPattern  = regexp.MustCompile(`[\s\-./]`)
	digitsOnlyPattern = regexp.MustCompile(`^\d+$`)
	nameShapePattern  = regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z][a-z]+$`)
)

// looksSensitive is the last-resort heuristic: non-Latin script, long
// digit-only tokens, or a two-word capitalized name shape.
func looksSensitive(value string) bool {
	if nonLatinPattern.MatchString(value) {
		return true
	}
	stripped := separatorPattern.ReplaceAllString(value, "")
	if len(stripped) >= 6 && digitsOnlyPattern.MatchString(stripped) {
		return true
	}
	return nameShapePattern.MatchString(value)
}
