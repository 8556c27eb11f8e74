package extraction

import "regexp"

// Entity is a typed value class the extractor can pull from raw text.
type Entity string

const (
	Email      Entity = "email"
	Phone      Entity = "phone"
	Date       Entity = "date"
	Address    Entity = "address"
	Name       Entity = "name"
	EmiratesID Entity = "emirates_id"
	Passport   Entity = "passport"
	IBAN       Entity = "iban"
	Currency   Entity = "currency"
	Percentage Entity = "percentage"
)

// entityPatterns maps each entity to its capture regex. Patterns are compiled
// once at package init and treated as immutable.
var entityPatterns = map[Entity]*regexp.Regexp{
	Email:      regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	Phone:      regexp.MustCompile(`(\+?\d{1,4}[\s-]?)?(\(?\d{2,4}\)?[\s-]?)\d{3}[\s-]?\d{4}\b`),
	Date:       regexp.MustCompile(`\b(\d{4}[-/]\d{2}[-/]\d{2}|\d{1,2}[-/]\d{1,2}[-/]\d{4}|\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4})\b`),
	Address:    regexp.MustCompile(`\b(?:P\.?O\.?\s*Box\s*\d+|\d+\s+[A-Za-z][A-Za-z\s]+(?:Street|St|Road|Rd|Avenue|Ave))\b`),
	EmiratesID: regexp.MustCompile(`\b784[-\s]?\d{4}[-\s]?\d{7}[-\s]?\d\b`),
	Passport:   regexp.MustCompile(`\b[A-Z]{1,2}[0-9]{6,9}\b`),
	IBAN:       regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{4,30}\b`),
	Currency:   regexp.MustCompile(`\b(?:AED|USD|EUR|GBP|\$|€|£)\s?\d[\d,]*(?:\.\d{1,2})?\b`),
	Percentage: regexp.MustCompile(`\b\d{1,3}(?:\.\d+)?\s?%`),
}

// entityOrder fixes scan order: earlier patterns claim their text spans, so
// overlapping captures (Emirates ID before generic phone digits, IBAN before
// passport) resolve to the more specific entity.
var entityOrder = []Entity{
	EmiratesID,
	IBAN,
	Email,
	Date,
	Currency,
	Percentage,
	Passport,
	Phone,
	Address,
}
