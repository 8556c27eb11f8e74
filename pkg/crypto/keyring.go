package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/sync/singleflight"

	"github.com/FormVault/formvault/pkg/domain"
	"github.com/FormVault/formvault/pkg/infra/cache"
)

// Purpose selects which family of keys to derive. Encryption and blind-index
// keys must be cryptographically independent even for the same tenant and
// version: blind-index keys are used for equality search and must never be
// able to decrypt ciphertext.
type Purpose string

const (
	PurposeEncryption Purpose = "encryption"
	PurposeBlindIndex Purpose = "blind-index"
)

// infoStrings are the fixed per-purpose HKDF info parameters.
var infoStrings = map[Purpose][]byte{
	PurposeEncryption: []byte("formvault:payload-encryption:aes-256-gcm"),
	PurposeBlindIndex: []byte("formvault:blind-index:hmac-sha256"),
}

const KeySize = 32

// Keyring derives per-tenant keys from the master secret. Derived keys are
// cached per (tenant, version, purpose) behind the read-mostly TTL map;
// singleflight collapses concurrent derivations of the same key.
type Keyring struct {
	masterKey []byte
	keyCache  *cache.TTLMap
	group     singleflight.Group
}

// NewKeyring validates and decodes the base64-encoded master secret. A
// missing or malformed secret is a fatal ConfigurationError, never a runtime
// error.
func NewKeyring(masterKeyB64 string, keyCache *cache.TTLMap) (*Keyring, error) {
	if masterKeyB64 == "" {
		return nil, domain.NewConfigurationError("master_key", "master key is not set")
	}
	masterKey, err := base64.StdEncoding.DecodeString(masterKeyB64)
	if err != nil {
		return nil, domain.NewConfigurationError("master_key", "master key is not valid base64")
	}
	if len(masterKey) != KeySize {
		return nil, domain.NewConfigurationError("master_key",
			fmt.Sprintf("master key must be %d bytes, got %d", KeySize, len(masterKey)))
	}
	if keyCache == nil {
		keyCache = cache.NewTTLMap(cache.KeyMaterialCacheTTL)
	}
	return &Keyring{masterKey: masterKey, keyCache: keyCache}, nil
}

// DeriveKey returns the 32-byte key for (tenant, version, purpose) via
// HKDF-SHA256 over the master key with salt "{purpose}:{tenantID}:v{version}".
func (k *Keyring) DeriveKey(tenantID string, keyVersion int, purpose Purpose) ([]byte, error) {
	info, ok := infoStrings[purpose]
	if !ok {
		return nil, fmt.Errorf("unknown key purpose '%s'", purpose)
	}

	cacheKey := fmt.Sprintf("%s:%s:v%d", purpose, tenantID, keyVersion)
	if cached, found := k.keyCache.Get(cacheKey); found {
		if key, ok := cached.([]byte); ok {
			return key, nil
		}
	}

	derived, err, _ := k.group.Do(cacheKey, func() (interface{}, error) {
		salt := []byte(cacheKey)
		reader := hkdf.New(sha256.New, k.masterKey, salt, info)
		key := make([]byte, KeySize)
		if _, err := io.ReadFull(reader, key); err != nil {
			return nil, fmt.Errorf("hkdf expand failed: %w", err)
		}
		k.keyCache.Set(cacheKey, key)
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	key, ok := derived.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected key cache type")
	}
	return key, nil
}
