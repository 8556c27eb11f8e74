// Package doctype classifies raw document text into one of the known
// templates using keyword co-occurrence and structural patterns.
package doctype

import (
	"regexp"
	"strings"

	"github.com/FormVault/formvault/pkg/domain/document"
)

var emiratesIDPattern = regexp.MustCompile(`\b784[-\s]?\d{4}[-\s]?\d{7}[-\s]?\d\b`)

// predicate is one detection rule over the upper-cased text.
type predicate struct {
	docType document.Type
	matches func(upper string) bool
}

// detectionOrder is part of the contract: documents can satisfy several weak
// signals, so the first matching predicate wins and the order below must not
// be reshuffled. More structural rules come first.
var detectionOrder = []predicate{
	{document.TypeEmiratesID, func(u string) bool {
		return emiratesIDPattern.MatchString(u) ||
			(strings.Contains(u, "IDENTITY CARD") && containsUAE(u)) ||
			strings.Contains(u, "EMIRATES ID")
	}},
	{document.TypePassport, func(u string) bool {
		return strings.Contains(u, "PASSPORT") && containsUAE(u) ||
			strings.Contains(u, "PASSPORT NO")
	}},
	{document.TypeVisa, func(u string) bool {
		return (strings.Contains(u, "VISA") || strings.Contains(u, "ENTRY PERMIT")) &&
			(strings.Contains(u, "SPONSOR") || containsUAE(u))
	}},
	{document.TypeTradeLicense, func(u string) bool {
		return strings.Contains(u, "TRADE LICENSE") || strings.Contains(u, "COMMERCIAL LICENSE") ||
			(strings.Contains(u, "LICENSE") && strings.Contains(u, "ECONOMIC DEPARTMENT"))
	}},
	{document.TypeDrivingLicense, func(u string) bool {
		return strings.Contains(u, "DRIVING LICENSE") || strings.Contains(u, "DRIVING LICENCE")
	}},
}

type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns the first template whose predicate matches, or TypeUnknown.
// Pure function: no side effects, total over all inputs.
func (d *Detector) Detect(text string) document.Type {
	upper := strings.ToUpper(text)
	for _, p := range detectionOrder {
		if p.matches(upper) {
			return p.docType
		}
	}
	return document.TypeUnknown
}

func containsUAE(upper string) bool {
	return strings.Contains(upper, "UAE") || strings.Contains(upper, "UNITED ARAB EMIRATES")
}
