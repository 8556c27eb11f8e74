// Package crypto implements the per-tenant encryption boundary: HKDF key
// derivation, AES-256-GCM payload encryption, and HMAC blind indexes for
// equality search over sensitive values.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/FormVault/formvault/pkg/domain"
)

const NonceSize = 12

// EncryptedPayload is ciphertext plus everything needed to decrypt it later.
// The 16-byte GCM tag is appended to the ciphertext, not stored separately; a
// payload is never persisted without its nonce and key version.
type EncryptedPayload struct {
	Ciphertext []byte `json:"ciphertext"`
	Nonce      []byte `json:"nonce"`
	KeyVersion int    `json:"key_version"`
}

// Service is the tenant crypto boundary. Safe for concurrent use across
// unrelated tenants and documents.
type Service struct {
	keyring        *Keyring
	tenantVersions map[string]int
	defaultVersion int
	logger         logrus.FieldLogger
}

func NewService(keyring *Keyring, tenantVersions map[string]int, defaultVersion int, logger logrus.FieldLogger) *Service {
	if defaultVersion < 1 {
		defaultVersion = 1
	}
	return &Service{
		keyring:        keyring,
		tenantVersions: tenantVersions,
		defaultVersion: defaultVersion,
		logger:         logger,
	}
}

// CurrentKeyVersion returns the tenant's active key version. Rotation is a
// version bump here plus re-encryption of existing records, opportunistically
// on read or via the migration sweep.
func (s *Service) CurrentKeyVersion(tenantID string) int {
	if v, ok := s.tenantVersions[tenantID]; ok && v >= 1 {
		return v
	}
	return s.defaultVersion
}

// Encrypt serializes v to JSON and seals it with AES-256-GCM under the
// tenant's key for keyVersion. Every call draws a fresh random nonce; nonce
// reuse under the same key is a hard correctness violation.
func (s *Service) Encrypt(v interface{}, tenantID string, keyVersion int) (*EncryptedPayload, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payload: %w", err)
	}

	key, err := s.keyring.DeriveKey(tenantID, keyVersion, PurposeEncryption)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return &EncryptedPayload{
		Ciphertext: gcm.Seal(nil, nonce, plaintext, nil),
		Nonce:      nonce,
		KeyVersion: keyVersion,
	}, nil
}

// Decrypt opens payload with the key version recorded in it and unmarshals
// the plaintext into out. A failed tag check means tampering or wrong key
// material; it surfaces as an AuthenticationError and is never downgraded to
// best-effort output.
func (s *Service) Decrypt(payload *EncryptedPayload, tenantID string, out interface{}) error {
	if payload == nil || len(payload.Ciphertext) == 0 {
		return domain.NewAuthenticationError(tenantID, 0, "empty payload")
	}
	if len(payload.Nonce) != NonceSize {
		return domain.NewAuthenticationError(tenantID, payload.KeyVersion, "invalid nonce length")
	}

	key, err := s.keyring.DeriveKey(tenantID, payload.KeyVersion, PurposeEncryption)
	if err != nil {
		return err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("failed to create gcm: %w", err)
	}

	plaintext, err := gcm.Open(nil, payload.Nonce, payload.Ciphertext, nil)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"tenant_id":   tenantID,
			"key_version": payload.KeyVersion,
		}).Warn("payload authentication failed")
		return domain.NewAuthenticationError(tenantID, payload.KeyVersion, "ciphertext authentication failed")
	}

	if err := json.Unmarshal(plaintext, out); err != nil {
		return fmt.Errorf("failed to deserialize payload: %w", err)
	}
	return nil
}

// BlindIndex computes the deterministic equality-search hash for a value:
// HMAC-SHA256 of the lower-cased, trimmed plaintext under the tenant's
// blind-index key at its current version.
func (s *Service) BlindIndex(value, tenantID string) (string, error) {
	key, err := s.keyring.DeriveKey(tenantID, s.CurrentKeyVersion(tenantID), PurposeBlindIndex)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(normalizeValue(value)))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// MatchesBlindIndex recomputes the index for value and compares it in
// constant time, avoiding the timing side channel of a short-circuit string
// compare.
func (s *Service) MatchesBlindIndex(value, indexHash, tenantID string) (bool, error) {
	computed, err := s.BlindIndex(value, tenantID)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(indexHash)) == 1, nil
}

func normalizeValue(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
