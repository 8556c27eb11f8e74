package doctype

import "github.com/FormVault/formvault/pkg/domain/document"

// Template carries everything downstream components need to know about one
// known document layout: which extracted keys are sensitive at which level,
// and which aliases a target form field may use for them.
type Template struct {
	Type            document.Type
	PIIFields       []string
	PHIFields       []string
	SensitiveFields []string
	PublicFields    []string
	// FieldAliases maps a canonical source key to the names target forms
	// commonly use for it.
	FieldAliases map[string][]string
}

// Templates returns the built-in template table. The result is constructed
// fresh so callers can layer tenant overrides without mutating shared state.
func Templates() map[document.Type]Template {
	return map[document.Type]Template{
		document.TypePassport: {
			Type:            document.TypePassport,
			PIIFields:       []string{"passport_no", "passport_number", "full_name", "name", "surname", "given_names", "date_of_birth", "place_of_birth", "nationality"},
			SensitiveFields: []string{"date_of_issue", "date_of_expiry", "issuing_authority"},
			PublicFields:    []string{"type", "country_code"},
			FieldAliases: map[string][]string{
				"passport_no":   {"passport_no", "passport_number", "passport", "travel_document_no"},
				"full_name":     {"full_name", "name", "holder_name", "applicant_name"},
				"date_of_birth": {"date_of_birth", "dob", "birth_date", "birthdate"},
				"nationality":   {"nationality", "citizenship", "country_of_nationality"},
			},
		},
		document.TypeEmiratesID: {
			Type:            document.TypeEmiratesID,
			PIIFields:       []string{"id_number", "emirates_id", "eid", "name", "full_name", "date_of_birth", "nationality"},
			SensitiveFields: []string{"card_number", "expiry_date", "issuing_date", "occupation", "employer", "sex"},
			PublicFields:    []string{"card_type"},
			FieldAliases: map[string][]string{
				"emirates_id":   {"emirates_id", "eid", "id_number", "national_id", "uae_id"},
				"full_name":     {"full_name", "name", "holder_name"},
				"date_of_birth": {"date_of_birth", "dob", "birth_date"},
				"expiry_date":   {"expiry_date", "expiration_date", "valid_until"},
			},
		},
		document.TypeTradeLicense: {
			Type:            document.TypeTradeLicense,
			PIIFields:       []string{"owner_name", "manager_name", "partner_name"},
			SensitiveFields: []string{"license_number", "commercial_register_no", "share_capital"},
			PublicFields:    []string{"trade_name", "legal_form", "activity", "issue_date", "expiry_date", "emirate"},
			FieldAliases: map[string][]string{
				"license_number": {"license_number", "license_no", "trade_license_no", "tl_number"},
				"trade_name":     {"trade_name", "company_name", "business_name", "establishment_name"},
				"owner_name":     {"owner_name", "owner", "proprietor"},
			},
		},
		document.TypeDrivingLicense: {
			Type:            document.TypeDrivingLicense,
			PIIFields:       []string{"license_no", "name", "full_name", "date_of_birth", "nationality"},
			SensitiveFields: []string{"issue_date", "expiry_date", "traffic_code_no", "permitted_vehicles"},
			PublicFields:    []string{"place_of_issue"},
			FieldAliases: map[string][]string{
				"license_no":    {"license_no", "license_number", "driving_license_no", "dl_number"},
				"full_name":     {"full_name", "name", "holder_name"},
				"date_of_birth": {"date_of_birth", "dob", "birth_date"},
			},
		},
		document.TypeVisa: {
			Type:            document.TypeVisa,
			PIIFields:       []string{"visa_number", "full_name", "passport_no", "date_of_birth", "nationality"},
			SensitiveFields: []string{"visa_type", "sponsor", "profession", "issue_date", "expiry_date", "uid_no"},
			PublicFields:    []string{"place_of_issue"},
			FieldAliases: map[string][]string{
				"visa_number": {"visa_number", "visa_no", "entry_permit_no", "residence_no"},
				"full_name":   {"full_name", "name", "holder_name"},
				"sponsor":     {"sponsor", "sponsor_name", "employer"},
			},
		},
	}
}
