// Package sdk is the Go client for the Lumino fine-tuning API.
package sdk

import (
	"time"

	"github.com/google/uuid"
)

// APIKeyResponse describes an API key without its secret.
type APIKeyResponse struct {
	ID         uuid.UUID    `json:"id"`
	CreatedAt  DateTime     `json:"created_at"`
	LastUsedAt *DateTime    `json:"last_used_at,omitempty"`
	ExpiresAt  DateTime     `json:"expires_at"`
	Status     APIKeyStatus `json:"status"`
	Name       string       `json:"name"`
	Prefix     string       `json:"prefix"`
}

// APIKeyWithSecretResponse is returned once, on creation. The secret cannot be
// fetched again.
type APIKeyWithSecretResponse struct {
	APIKeyResponse
	Secret string `json:"secret"`
}

// APIKeyCreate mirrors POST /api-keys.
type APIKeyCreate struct {
	Name      string   `json:"name"`
	ExpiresAt DateTime `json:"expires_at"`
}

// NewAPIKeyCreate validates and returns a creation request.
func NewAPIKeyCreate(name string, expiresAt time.Time) (APIKeyCreate, error) {
	req := APIKeyCreate{Name: name, ExpiresAt: NewDateTime(expiresAt)}
	if err := req.Validate(); err != nil {
		return APIKeyCreate{}, err
	}
	return req, nil
}

// Validate checks the name pattern and that the key expires in the future.
func (r APIKeyCreate) Validate() error {
	if err := validateName("name", r.Name); err != nil {
		return err
	}
	return validateFuture("expires_at", r.ExpiresAt.Time)
}

// APIKeyUpdate is a partial update of an API key.
type APIKeyUpdate struct {
	Name      Optional[string]   `json:"name,omitzero"`
	ExpiresAt Optional[DateTime] `json:"expires_at,omitzero"`
}

// Validate checks only the fields that are set.
func (r APIKeyUpdate) Validate() error {
	if name, ok := r.Name.Get(); ok {
		if err := validateName("name", name); err != nil {
			return err
		}
	}
	if expiresAt, ok := r.ExpiresAt.Get(); ok {
		if err := validateFuture("expires_at", expiresAt.Time); err != nil {
			return err
		}
	}
	return nil
}
