package classification

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainclass "github.com/FormVault/formvault/pkg/domain/classification"
	"github.com/FormVault/formvault/pkg/domain/document"
)

func newTestClassifier() *Classifier {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewClassifier(DefaultConfig(), logger)
}

func classify(t *testing.T, fields map[string]string, docType document.Type) map[string]domainclass.ClassifiedField {
	t.Helper()
	out := newTestClassifier().Classify(fields, docType)
	byKey := make(map[string]domainclass.ClassifiedField, len(out))
	for _, cf := range out {
		byKey[cf.Key] = cf
	}
	return byKey
}

func TestClassify_TemplateWins(t *testing.T) {
	fields := map[string]string{
		"passport_no":    "A1234567",
		"date_of_birth":  "15/08/1990",
		"date_of_expiry": "15/08/2030",
		"country_code":   "ARE",
	}

	byKey := classify(t, fields, document.TypePassport)

	passportNo := byKey["passport_no"]
	assert.Equal(t, domainclass.PII, passportNo.Classification)
	assert.Equal(t, domainclass.ReasonTemplate, passportNo.Reason)
	assert.Equal(t, 1.0, passportNo.Confidence)

	assert.Equal(t, domainclass.Sensitive, byKey["date_of_expiry"].Classification)

	country := byKey["country_code"]
	assert.Equal(t, domainclass.Public, country.Classification)
	assert.Equal(t, domainclass.ReasonTemplate, country.Reason)
}

func TestClassify_KeyRulesWithoutTemplate(t *testing.T) {
	fields := map[string]string{
		"email":        "a@example.com",
		"phone":        "+971 50 123 4567",
		"iban":         "AE070331234567890123456",
		"salary":       "25000",
		"name":         "John Smith",
		"blood_type":   "O+",
	}

	byKey := classify(t, fields, document.TypeUnknown)

	assert.Equal(t, domainclass.PII, byKey["email"].Classification)
	assert.Equal(t, domainclass.PII, byKey["phone"].Classification)
	assert.Equal(t, domainclass.Sensitive, byKey["iban"].Classification)
	assert.Equal(t, domainclass.Sensitive, byKey["salary"].Classification)
	assert.Equal(t, domainclass.PII, byKey["name"].Classification)
	assert.Equal(t, domainclass.PHI, byKey["blood_type"].Classification)

	for _, key := range []string{"email", "phone", "iban", "salary", "name", "blood_type"} {
		assert.Equal(t, domainclass.ReasonKeyPattern, byKey[key].Reason, key)
	}
}

func TestClassify_ValueShapeCatchesGenericLabel(t *testing.T) {
	byKey := classify(t, map[string]string{"field_1": "784-1990-1234567-1"}, document.TypeUnknown)

	cf := byKey["field_1"]
	assert.Equal(t, domainclass.PII, cf.Classification)
	assert.Equal(t, domainclass.ReasonValuePattern, cf.Reason)
	assert.Equal(t, 0.85, cf.Confidence)
}

func TestClassify_HeuristicFallback(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"long digit run", "123456789"},
		{"non latin script", "محمد"},
		{"capitalized name shape", "John Smith"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			byKey := classify(t, map[string]string{"remarks": tt.value}, document.TypeUnknown)
			cf := byKey["remarks"]
			assert.Equal(t, domainclass.Sensitive, cf.Classification)
			assert.Equal(t, domainclass.ReasonHeuristic, cf.Reason)
		})
	}
}

func TestClassify_PublicDefault(t *testing.T) {
	byKey := classify(t, map[string]string{"remarks": "approved"}, document.TypeUnknown)

	cf := byKey["remarks"]
	assert.Equal(t, domainclass.Public, cf.Classification)
	assert.Equal(t, domainclass.ReasonDefault, cf.Reason)
	assert.Equal(t, 0.5, cf.Confidence)
}

func TestClassify_DeterministicOrder(t *testing.T) {
	fields := map[string]string{"zeta": "1", "alpha": "2", "mid": "3"}

	first := newTestClassifier().Classify(fields, document.TypeUnknown)
	second := newTestClassifier().Classify(fields, document.TypeUnknown)

	require.Equal(t, first, second)
	assert.Equal(t, "alpha", first[0].Key)
	assert.Equal(t, "zeta", first[2].Key)
}

func TestWithOverrides_CustomRulePrepended(t *testing.T) {
	settings := map[string]interface{}{
		"key_patterns": []map[string]interface{}{
			{"name": "employee_code", "pattern": `(?i)emp_code`, "class": "SENSITIVE", "confidence": 0.92},
		},
	}

	cfg, err := DefaultConfig().WithOverrides(settings)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	out := NewClassifier(cfg, logger).Classify(map[string]string{"emp_code": "X-42"}, document.TypeUnknown)

	require.Len(t, out, 1)
	assert.Equal(t, domainclass.Sensitive, out[0].Classification)
	assert.Equal(t, 0.92, out[0].Confidence)
	assert.Equal(t, domainclass.ReasonKeyPattern, out[0].Reason)
}

func TestWithOverrides_InvalidInputs(t *testing.T) {
	_, err := DefaultConfig().WithOverrides(map[string]interface{}{
		"key_patterns": []map[string]interface{}{
			{"name": "broken", "pattern": `([`, "class": "PII"},
		},
	})
	assert.Error(t, err)

	_, err = DefaultConfig().WithOverrides(map[string]interface{}{
		"key_patterns": []map[string]interface{}{
			{"name": "bad class", "pattern": `x`, "class": "TOP_SECRET"},
		},
	})
	assert.Error(t, err)
}

func TestWithOverrides_DoesNotMutateReceiver(t *testing.T) {
	base := DefaultConfig()
	before := len(base.KeyRules)

	_, err := base.WithOverrides(map[string]interface{}{
		"key_patterns": []map[string]interface{}{
			{"name": "extra", "pattern": `extra`, "class": "PII"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, base.KeyRules, before)
}
