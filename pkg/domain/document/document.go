package document

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Type tags a document with the template it matched, or TypeUnknown when no
// detector predicate fired.
type Type string

const (
	TypeUnknown        Type = ""
	TypePassport       Type = "passport"
	TypeEmiratesID     Type = "emirates_id"
	TypeTradeLicense   Type = "trade_license"
	TypeDrivingLicense Type = "driving_license"
	TypeVisa           Type = "visa"
)

// Document is the persisted form of one processed document. The extracted
// payload is stored only as ciphertext; LegacyPlaintext is non-empty only for
// records written before encryption was introduced and is cleared by the
// migration sweep.
type Document struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID     string    `json:"tenant_id" gorm:"index:idx_documents_tenant;not null"`
	DocumentType Type      `json:"document_type"`
	Ciphertext   []byte    `json:"-" gorm:"type:bytea"`
	Nonce        []byte    `json:"-" gorm:"type:bytea"`
	KeyVersion   int       `json:"key_version"`
	// LegacyPlaintext holds the pre-encryption JSON payload of old records.
	LegacyPlaintext string       `json:"-" gorm:"column:legacy_plaintext"`
	BlindIndexes    []BlindIndex `json:"-" gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	return nil
}

func (d *Document) BeforeUpdate(tx *gorm.DB) error {
	d.UpdatedAt = time.Now()
	return nil
}

// Encrypted reports whether the record carries ciphertext.
func (d *Document) Encrypted() bool {
	return len(d.Ciphertext) > 0
}

// BlindIndex is one searchable-field hash for a record. (DocumentID,
// FieldName) is unique; the hash is an HMAC over the normalized plaintext, so
// equality search never touches the ciphertext.
type BlindIndex struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	DocumentID uuid.UUID `json:"document_id" gorm:"uniqueIndex:idx_blind_field;not null"`
	FieldName  string    `json:"field_name" gorm:"uniqueIndex:idx_blind_field;not null"`
	IndexHash  string    `json:"index_hash" gorm:"index:idx_blind_hash;not null"`
}

func (b *BlindIndex) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
