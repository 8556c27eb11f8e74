// Package extraction pulls labeled fields and typed entities out of raw
// document text. Extraction is deliberately pattern-driven and total: text
// with no matches yields empty results, never an error.
package extraction

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/FormVault/formvault/pkg/domain/document"
)

// labelPattern sweeps "Label: value" lines into the fields map.
var labelPattern = regexp.MustCompile(`(?m)^\s*([A-Za-z][A-Za-z\s./]{1,40}?)\s*:\s*([^\n]+)`)

// namePattern catches "Capitalized Capitalized" word pairs that look like
// person names. It feeds the entity bag only; the classifier decides
// sensitivity.
var namePattern = regexp.MustCompile(`\b[A-Z][a-z]{2,}\s+[A-Z][a-z]{2,}\b`)

type Extractor struct {
	logger logrus.FieldLogger
}

func NewExtractor(logger logrus.FieldLogger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract applies the label sweep and the ordered entity patterns against the
// full text. Values are returned as raw matched strings; normalization is a
// mapping concern.
func (e *Extractor) Extract(text string) (map[string]string, document.EntityBag) {
	fields := e.extractFields(text)
	entities := e.extractEntities(text)

	e.logger.WithFields(logrus.Fields{
		"fields":   len(fields),
		"emails":   len(entities.Emails),
		"phones":   len(entities.Phones),
		"dates":    len(entities.Dates),
		"ids":      len(entities.IDs),
		"names":    len(entities.Names),
	}).Debug("extraction completed")

	return fields, entities
}

func (e *Extractor) extractFields(text string) map[string]string {
	fields := make(map[string]string)
	for _, m := range labelPattern.FindAllStringSubmatch(text, -1) {
		key := NormalizeKey(m[1])
		value := strings.TrimSpace(m[2])
		if key == "" || value == "" {
			continue
		}
		// first occurrence wins for repeated labels
		if _, seen := fields[key]; !seen {
			fields[key] = value
		}
	}
	return fields
}

func (e *Extractor) extractEntities(text string) document.EntityBag {
	var bag document.EntityBag
	var claimed [][]int
	for _, entity := range entityOrder {
		pattern := entityPatterns[entity]
		var raw []string
		for _, span := range pattern.FindAllStringIndex(text, -1) {
			// a span claimed by an earlier, more specific pattern is not
			// re-reported: the digits of an Emirates ID are not a phone
			if overlapsClaimed(claimed, span) {
				continue
			}
			claimed = append(claimed, span)
			raw = append(raw, text[span[0]:span[1]])
		}
		matches := dedupe(raw)
		if len(matches) == 0 {
			continue
		}
		switch entity {
		case Email:
			bag.Emails = append(bag.Emails, matches...)
		case Phone:
			bag.Phones = append(bag.Phones, matches...)
		case Date:
			bag.Dates = append(bag.Dates, matches...)
		case Address:
			bag.Addresses = append(bag.Addresses, matches...)
		case EmiratesID, Passport, IBAN:
			bag.IDs = append(bag.IDs, matches...)
		case Currency, Percentage:
			bag.Currencies = append(bag.Currencies, matches...)
		}
	}
	bag.IDs = dedupe(bag.IDs)
	bag.Currencies = dedupe(bag.Currencies)
	bag.Names = dedupe(namePattern.FindAllString(text, -1))
	return bag
}

func overlapsClaimed(claimed [][]int, span []int) bool {
	for _, c := range claimed {
		if span[0] < c[1] && c[0] < span[1] {
			return true
		}
	}
	return false
}

var keySeparators = regexp.MustCompile(`[\s./]+`)

// NormalizeKey lower-cases a field label and collapses runs of whitespace,
// dots and slashes to single underscores.
func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = keySeparators.ReplaceAllString(key, "_")
	return strings.Trim(key, "_")
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
