package mapping

import "regexp"

// expectedFormat is the value shape a target field name implies, used for the
// type-validation confidence boost: corroborating evidence raises confidence
// without changing which source field was chosen.
type expectedFormat struct {
	keyword *regexp.Regexp
	valid   *regexp.Regexp
}

var expectedFormats = []expectedFormat{
	{regexp.MustCompile(`email`), regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)},
	{regexp.MustCompile(`date|birth|expiry|issue`), regexp.MustCompile(`^(\d{4}[-/]\d{2}[-/]\d{2}|\d{1,2}[-/]\d{1,2}[-/]\d{2,4}|\d{1,2}\s+[A-Za-z]{3,9}\s+\d{4})$`)},
	{regexp.MustCompile(`phone|mobile|fax`), regexp.MustCompile(`^\+?[\d\s()-]{7,18}$`)},
	{regexp.MustCompile(`zip|postal`), regexp.MustCompile(`^\d{5}(-\d{4})?$`)},
	{regexp.MustCompile(`amount|salary|fee|capital`), regexp.MustCompile(`^(?:AED|USD|EUR|GBP|\$|€|£)?\s?\d[\d,]*(?:\.\d{1,2})?$`)},
	{regexp.MustCompile(`emirates|national`), regexp.MustCompile(`^784[-\s]?\d{4}[-\s]?\d{7}[-\s]?\d$`)},
	{regexp.MustCompile(`passport`), regexp.MustCompile(`^[A-Z]{1,2}[0-9]{6,9}$`)},
}

// matchesExpectedFormat reports whether value has the shape the normalized
// target field name calls for. Targets with no implied shape never boost.
func matchesExpectedFormat(targetKey, value string) bool {
	for _, f := range expectedFormats {
		if f.keyword.MatchString(targetKey) {
			return f.valid.MatchString(value)
		}
	}
	return false
}
