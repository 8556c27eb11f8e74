// Package mapping matches a target form's field names against a decrypted
// source record. Every strategy produces a confidence score; per target the
// best candidate wins and anything below the floor is omitted entirely, so
// callers must treat "unmapped" and "mapped to empty" as distinct outcomes.
package mapping

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/FormVault/formvault/pkg/doctype"
	"github.com/FormVault/formvault/pkg/domain/document"
	"github.com/FormVault/formvault/pkg/extraction"
)

// Method identifies which strategy produced a mapping.
type Method string

const (
	MethodTemplate Method = "template"
	MethodEntity   Method = "entity"
	MethodDirect   Method = "direct"
)

// strategyRank breaks exact confidence ties: template beats entity beats
// direct match.
var strategyRank = map[Method]int{
	MethodTemplate: 3,
	MethodEntity:   2,
	MethodDirect:   1,
}

// FieldMapping is the unit handed to the form-filling collaborator. Nothing
// here assumes how the value will be rendered.
type FieldMapping struct {
	TargetField string  `json:"target_field"`
	SourceKey   string  `json:"source_key"`
	Value       string  `json:"value"`
	Confidence  float64 `json:"confidence"`
	Method      Method  `json:"method"`
}

const (
	templateConfidence = 0.95
	similarityFloor    = 0.65
	confidenceFloor    = 0.6
	validationBoost    = 0.15
	maxConfidence      = 0.99
)

// Config is the mapper's immutable alias table plus tuning knobs, assembled
// once at startup.
type Config struct {
	// Aliases maps a canonical source key to the names a target form may
	// use for it.
	Aliases         map[string][]string
	SimilarityFloor float64
	MaxSuggestions  int
}

// DefaultConfig flattens the alias tables of every document template and adds
// the generic contact aliases.
func DefaultConfig() Config {
	aliases := map[string][]string{
		"email":   {"email", "email_address", "e_mail"},
		"phone":   {"phone", "phone_number", "mobile", "mobile_number", "telephone"},
		"address": {"address", "home_address", "residential_address", "po_box"},
	}
	for _, tpl := range doctype.Templates() {
		for source, names := range tpl.FieldAliases {
			aliases[source] = mergeAliases(aliases[source], names)
		}
	}
	return Config{
		Aliases:         aliases,
		SimilarityFloor: similarityFloor,
		MaxSuggestions:  5,
	}
}

type Mapper struct {
	cfg    Config
	logger logrus.FieldLogger
}

func NewMapper(cfg Config, logger logrus.FieldLogger) *Mapper {
	if cfg.SimilarityFloor == 0 {
		cfg.SimilarityFloor = similarityFloor
	}
	if cfg.MaxSuggestions == 0 {
		cfg.MaxSuggestions = 5
	}
	return &Mapper{cfg: cfg, logger: logger}
}

// Map resolves every target field to its best candidate. Mapping never
// fails; a target with no candidate above the floor is simply absent from
// the result.
func (m *Mapper) Map(targetFields []string, payload *document.ExtractedPayload) []FieldMapping {
	out := make([]FieldMapping, 0, len(targetFields))
	for _, target := range targetFields {
		candidates := m.candidates(target, payload)
		if len(candidates) == 0 {
			continue
		}
		best := candidates[0]
		if len(candidates) > 1 && candidates[1].Confidence >= best.Confidence-0.05 {
			m.logger.WithFields(logrus.Fields{
				"target":    target,
				"winner":    best.SourceKey,
				"runner_up": candidates[1].SourceKey,
			}).Warn("close mapping conflict resolved by confidence")
		}
		out = append(out, best)
	}
	return out
}

// Suggestions returns the top-n ranked candidates for a single target field,
// winner first, for callers that surface alternates.
func (m *Mapper) Suggestions(target string, payload *document.ExtractedPayload, n int) []FieldMapping {
	if n <= 0 || n > m.cfg.MaxSuggestions {
		n = m.cfg.MaxSuggestions
	}
	candidates := m.candidates(target, payload)
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

// candidates runs all strategies and returns the boosted, sorted list of
// matches above the confidence floor.
func (m *Mapper) candidates(target string, payload *document.ExtractedPayload) []FieldMapping {
	targetKey := extraction.NormalizeKey(target)
	var out []FieldMapping

	if c, ok := m.templateMatch(target, targetKey, payload.Fields); ok {
		out = append(out, c)
	}
	if c, ok := m.entityMatch(target, targetKey, payload.Entities); ok {
		out = append(out, c)
	}
	out = append(out, m.directMatches(target, targetKey, payload.Fields)...)

	for i := range out {
		if matchesExpectedFormat(targetKey, out[i].Value) {
			boosted := out[i].Confidence + validationBoost
			if boosted > maxConfidence {
				boosted = maxConfidence
			}
			out[i].Confidence = boosted
		}
	}

	filtered := out[:0]
	for _, c := range out {
		if c.Confidence >= confidenceFloor {
			filtered = append(filtered, c)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Confidence != filtered[j].Confidence {
			return filtered[i].Confidence > filtered[j].Confidence
		}
		return strategyRank[filtered[i].Method] > strategyRank[filtered[j].Method]
	})
	return filtered
}

// templateMatch consults the alias table: the target name must contain or be
// contained by an alias whose canonical source key (or any of its aliases)
// exists in the source fields. Alias groups are visited in sorted canonical
// order so a target matching several groups resolves to the same source on
// every run.
func (m *Mapper) templateMatch(target, targetKey string, fields map[string]string) (FieldMapping, bool) {
	canonicals := make([]string, 0, len(m.cfg.Aliases))
	for canonical := range m.cfg.Aliases {
		canonicals = append(canonicals, canonical)
	}
	sort.Strings(canonicals)

	for _, canonical := range canonicals {
		names := m.cfg.Aliases[canonical]
		aliasHit := false
		for _, alias := range names {
			if strings.Contains(targetKey, alias) || strings.Contains(alias, targetKey) {
				aliasHit = true
				break
			}
		}
		if !aliasHit {
			continue
		}
		for _, sourceKey := range append([]string{canonical}, names...) {
			if value, ok := fields[sourceKey]; ok && value != "" {
				return FieldMapping{
					TargetField: target,
					SourceKey:   sourceKey,
					Value:       value,
					Confidence:  templateConfidence,
					Method:      MethodTemplate,
				}, true
			}
		}
	}
	return FieldMapping{}, false
}

// entityKeywords routes a target name keyword to an entity bucket and its
// base confidence.
var entityKeywords = []struct {
	keyword    string
	confidence float64
	pick       func(bag document.EntityBag) (string, string)
}{
	{"emirates", 0.9, func(b document.EntityBag) (string, string) { return firstMatching(b.IDs, "784"), "entities.ids" }},
	{"passport", 0.85, func(b document.EntityBag) (string, string) { return first(b.IDs), "entities.ids" }},
	{"email", 0.85, func(b document.EntityBag) (string, string) { return first(b.Emails), "entities.emails" }},
	{"phone", 0.85, func(b document.EntityBag) (string, string) { return first(b.Phones), "entities.phones" }},
	{"mobile", 0.85, func(b document.EntityBag) (string, string) { return first(b.Phones), "entities.phones" }},
	{"date", 0.8, func(b document.EntityBag) (string, string) { return first(b.Dates), "entities.dates" }},
	{"birth", 0.8, func(b document.EntityBag) (string, string) { return first(b.Dates), "entities.dates" }},
	{"name", 0.8, func(b document.EntityBag) (string, string) { return first(b.Names), "entities.names" }},
	{"address", 0.8, func(b document.EntityBag) (string, string) { return first(b.Addresses), "entities.addresses" }},
	{"amount", 0.8, func(b document.EntityBag) (string, string) { return first(b.Currencies), "entities.currencies" }},
}

func (m *Mapper) entityMatch(target, targetKey string, bag document.EntityBag) (FieldMapping, bool) {
	for _, ek := range entityKeywords {
		if !strings.Contains(targetKey, ek.keyword) {
			continue
		}
		value, sourceKey := ek.pick(bag)
		if value == "" {
			continue
		}
		return FieldMapping{
			TargetField: target,
			SourceKey:   sourceKey,
			Value:       value,
			Confidence:  ek.confidence,
			Method:      MethodEntity,
		}, true
	}
	return FieldMapping{}, false
}

// directMatches scores every source key against the target by blended
// Levenshtein and Jaccard similarity, with a substring-containment floor of
// 0.7, scaling confidence into the 0.60–0.90 band.
func (m *Mapper) directMatches(target, targetKey string, fields map[string]string) []FieldMapping {
	var out []FieldMapping
	for sourceKey, value := range fields {
		if value == "" {
			continue
		}
		similarity := calculateSimilarity(targetKey, sourceKey)
		if j := jaccardSimilarity(targetKey, sourceKey); j > similarity {
			similarity = j
		}
		if strings.Contains(targetKey, sourceKey) || strings.Contains(sourceKey, targetKey) {
			if similarity < 0.7 {
				similarity = 0.7
			}
		}
		if similarity < m.cfg.SimilarityFloor {
			continue
		}
		// scale [floor,1] into [0.60,0.90]
		scaled := 0.6 + (similarity-m.cfg.SimilarityFloor)/(1-m.cfg.SimilarityFloor)*0.3
		out = append(out, FieldMapping{
			TargetField: target,
			SourceKey:   sourceKey,
			Value:       value,
			Confidence:  scaled,
			Method:      MethodDirect,
		})
	}
	return out
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func firstMatching(values []string, prefix string) string {
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			return v
		}
	}
	return ""
}

func mergeAliases(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(extra))
	out := make([]string, 0, len(existing)+len(extra))
	for _, a := range append(existing, extra...) {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
