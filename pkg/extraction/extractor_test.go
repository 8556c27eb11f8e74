package extraction

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestExtractor() *Extractor {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewExtractor(logger)
}

func TestExtract_LabeledFields(t *testing.T) {
	text := "Name: John Smith\n" +
		"Passport No: A1234567\n" +
		"Date of Birth: 15/08/1990\n" +
		"Nationality: British\n"

	fields, _ := newTestExtractor().Extract(text)

	assert.Equal(t, "John Smith", fields["name"])
	assert.Equal(t, "A1234567", fields["passport_no"])
	assert.Equal(t, "15/08/1990", fields["date_of_birth"])
	assert.Equal(t, "British", fields["nationality"])
}

func TestExtract_FirstOccurrenceWins(t *testing.T) {
	text := "Name: John Smith\nName: Someone Else\n"

	fields, _ := newTestExtractor().Extract(text)

	assert.Equal(t, "John Smith", fields["name"])
}

func TestExtract_NoMatchesYieldsEmptyResults(t *testing.T) {
	fields, entities := newTestExtractor().Extract("completely unstructured blob of text with nothing labeled")

	assert.Empty(t, fields)
	assert.Empty(t, entities.Emails)
	assert.Empty(t, entities.IDs)
}

func TestExtract_Entities(t *testing.T) {
	text := "Contact john.smith@example.com or call +971 50 123 4567.\n" +
		"Issued 15/08/1990, passport A1234567.\n"

	_, entities := newTestExtractor().Extract(text)

	assert.Contains(t, entities.Emails, "john.smith@example.com")
	assert.Contains(t, entities.Phones, "+971 50 123 4567")
	assert.Contains(t, entities.Dates, "15/08/1990")
	assert.Contains(t, entities.IDs, "A1234567")
	assert.Contains(t, entities.Names, "John Smith")
}

func TestExtract_EmiratesIDEntity(t *testing.T) {
	text := "ID Number: 784-1990-1234567-1\n"

	fields, entities := newTestExtractor().Extract(text)

	assert.Equal(t, "784-1990-1234567-1", fields["id_number"])
	assert.Contains(t, entities.IDs, "784-1990-1234567-1")
	// the ID's digit run must not be re-reported as a phone number
	assert.Empty(t, entities.Phones)
}

func TestExtract_ClaimedSpansDoNotLeakAcrossEntities(t *testing.T) {
	text := "ID: 784-1990-1234567-1\nCall +971 50 123 4567\n"

	_, entities := newTestExtractor().Extract(text)

	assert.Equal(t, []string{"784-1990-1234567-1"}, entities.IDs)
	assert.Equal(t, []string{"+971 50 123 4567"}, entities.Phones)
}

func TestExtract_DeduplicatesEntities(t *testing.T) {
	text := "a@example.com wrote to b@example.com, cc a@example.com"

	_, entities := newTestExtractor().Extract(text)

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, entities.Emails)
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Name", "name"},
		{"Passport No.", "passport_no"},
		{"Date of Birth", "date_of_birth"},
		{"  ID / Number  ", "id_number"},
		{"TRADE LICENSE NO", "trade_license_no"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKey(tt.in), "NormalizeKey(%q)", tt.in)
	}
}
