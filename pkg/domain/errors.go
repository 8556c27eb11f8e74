package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// AuthenticationError is returned when an AES-GCM tag check fails on decrypt.
// It means tampered data, a wrong key version, or a wrong tenant; it is never
// downgraded to a data-format issue.
type AuthenticationError struct {
	TenantID   string
	KeyVersion int
	Reason     string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed for tenant '%s' (key version %d): %s", e.TenantID, e.KeyVersion, e.Reason)
}

func NewAuthenticationError(tenantID string, keyVersion int, reason string) error {
	return &AuthenticationError{TenantID: tenantID, KeyVersion: keyVersion, Reason: reason}
}

func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// ConfigurationError is fatal: a missing or malformed master key must stop the
// process at startup, not surface later as a decrypt failure.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration '%s': %s", e.Setting, e.Reason)
}

func NewConfigurationError(setting, reason string) error {
	return &ConfigurationError{Setting: setting, Reason: reason}
}

func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

type notFoundError struct {
	EntityType string
	ID         uuid.UUID
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%s with ID '%s' not found", e.EntityType, e.ID.String())
}

func NewNotFoundError(entityType string, id uuid.UUID) error {
	return &notFoundError{EntityType: entityType, ID: id}
}

func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var nfErr *notFoundError
	return errors.As(err, &nfErr)
}
