package document

// EntityBag holds the typed matches pulled from document text. Entries are
// deduplicated case-sensitively; ordering carries no meaning for matching.
type EntityBag struct {
	Emails     []string `json:"emails,omitempty"`
	Phones     []string `json:"phones,omitempty"`
	Dates      []string `json:"dates,omitempty"`
	Addresses  []string `json:"addresses,omitempty"`
	Names      []string `json:"names,omitempty"`
	IDs        []string `json:"ids,omitempty"`
	Currencies []string `json:"currencies,omitempty"`
}

// ExtractedPayload is the single schema crossing the encryption boundary:
// everything a document contributed, serialized as one JSON blob before
// encrypt and after decrypt.
type ExtractedPayload struct {
	Fields   map[string]string `json:"fields"`
	Entities EntityBag         `json:"entities"`
	RawText  string            `json:"raw_text,omitempty"`
}
