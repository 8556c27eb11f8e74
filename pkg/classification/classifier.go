// Package classification assigns a sensitivity class to every extracted
// field. Rules run in strict priority order and short-circuit on the first
// match: template lists, then key-name patterns, then value-shape patterns,
// then a conservative heuristic, then the PUBLIC default. When evidence
// conflicts the more structural signal always wins.
package classification

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/FormVault/formvault/pkg/doctype"
	"github.com/FormVault/formvault/pkg/domain/classification"
	"github.com/FormVault/formvault/pkg/domain/document"
	"github.com/FormVault/formvault/pkg/extraction"
)

// Config is the classifier's immutable rule set, assembled once at startup
// and passed in explicitly so tenants and tests can override it.
type Config struct {
	Templates  map[document.Type]doctype.Template
	KeyRules   []KeyRule
	ValueRules []ValueRule
}

func DefaultConfig() Config {
	return Config{
		Templates:  doctype.Templates(),
		KeyRules:   DefaultKeyRules(),
		ValueRules: DefaultValueRules(),
	}
}

type Classifier struct {
	cfg    Config
	logger logrus.FieldLogger
}

func NewClassifier(cfg Config, logger logrus.FieldLogger) *Classifier {
	return &Classifier{cfg: cfg, logger: logger}
}

// Classify runs every field through the rule chain. It never fails:
// unclassifiable fields fall through to PUBLIC. Output is sorted by key so
// repeated passes over the same input produce identical slices.
func (c *Classifier) Classify(fields map[string]string, docType document.Type) []classification.ClassifiedField {
	out := make([]classification.ClassifiedField, 0, len(fields))
	for key, value := range fields {
		out = append(out, c.classifyField(key, value, docType))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (c *Classifier) classifyField(key, value string, docType document.Type) classification.ClassifiedField {
	normalized := extraction.NormalizeKey(key)

	if docType != document.TypeUnknown {
		if tpl, ok := c.cfg.Templates[docType]; ok {
			if class, ok := templateLookup(tpl, normalized); ok {
				return classification.ClassifiedField{
					Key:            normalized,
					Value:          value,
					Classification: class,
					Confidence:     templateConfidence,
					Reason:         classification.ReasonTemplate,
				}
			}
		}
	}

	for _, rule := range c.cfg.KeyRules {
		if rule.Pattern.MatchString(normalized) {
			return classification.ClassifiedField{
				Key:            normalized,
				Value:          value,
				Classification: rule.Class,
				Confidence:     rule.Confidence,
				Reason:         classification.ReasonKeyPattern,
			}
		}
	}

	for _, rule := range c.cfg.ValueRules {
		if rule.Pattern.MatchString(value) {
			return classification.ClassifiedField{
				Key:            normalized,
				Value:          value,
				Classification: rule.Class,
				Confidence:     valueRuleConfidence,
				Reason:         classification.ReasonValuePattern,
			}
		}
	}

	if looksSensitive(value) {
		return classification.ClassifiedField{
			Key:            normalized,
			Value:          value,
			Classification: classification.Sensitive,
			Confidence:     heuristicConfidence,
			Reason:         classification.ReasonHeuristic,
		}
	}

	return classification.ClassifiedField{
		Key:            normalized,
		Value:          value,
		Classification: classification.Public,
		Confidence:     defaultConfidence,
		Reason:         classification.ReasonDefault,
	}
}

// templateLookup checks the template's field lists in descending sensitivity
// so a key present in two lists resolves to the stricter class.
func templateLookup(tpl doctype.Template, key string) (classification.Class, bool) {
	if containsKey(tpl.PHIFields, key) {
		return classification.PHI, true
	}
	if containsKey(tpl.PIIFields, key) {
		return classification.PII, true
	}
	if containsKey(tpl.SensitiveFields, key) {
		return classification.Sensitive, true
	}
	if containsKey(tpl.PublicFields, key) {
		return classification.Public, true
	}
	return "", false
}

func containsKey(list []string, key string) bool {
	for _, k := range list {
		if k == key {
			return true
		}
	}
	return false
}
