package doctype

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FormVault/formvault/pkg/domain/document"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want document.Type
	}{
		{
			name: "emirates id by number pattern",
			text: "Resident Card\nID Number: 784-1990-1234567-1\nName: John Smith",
			want: document.TypeEmiratesID,
		},
		{
			name: "emirates id by identity card wording",
			text: "UNITED ARAB EMIRATES\nIDENTITY CARD\nName: John Smith",
			want: document.TypeEmiratesID,
		},
		{
			name: "passport with country",
			text: "United Arab Emirates\nPassport\nSurname: Smith\nGiven Names: John",
			want: document.TypePassport,
		},
		{
			name: "passport by field label",
			text: "Passport No: A1234567\nSurname: Smith",
			want: document.TypePassport,
		},
		{
			name: "visa with sponsor",
			text: "Entry Permit\nVisa Number: 201-2024-1234\nSponsor: Acme LLC",
			want: document.TypeVisa,
		},
		{
			name: "trade license",
			text: "Department of Economic Development\nTrade License\nLicense No: CN-123456",
			want: document.TypeTradeLicense,
		},
		{
			name: "driving license",
			text: "Driving License\nLicense No: 98765\nName: John Smith",
			want: document.TypeDrivingLicense,
		},
		{
			name: "unstructured text",
			text: "meeting notes from tuesday, nothing official here",
			want: document.TypeUnknown,
		},
		{
			name: "empty text",
			text: "",
			want: document.TypeUnknown,
		},
	}

	detector := NewDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.Detect(tt.text))
		})
	}
}

func TestDetect_EmiratesIDNumberBeatsPassportWording(t *testing.T) {
	// an Emirates ID number is a stronger structural signal than a
	// passport keyword appearing on the same scan
	text := "ID Number: 784-1990-1234567-1\nPassport No: A1234567"
	assert.Equal(t, document.TypeEmiratesID, NewDetector().Detect(text))
}
