package sdk

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/luminolabs/lumino/sdk/go/routes"
)

// APIKeysClient wraps API key CRUD endpoints.
type APIKeysClient struct {
	doer   Doer
	logger *zap.Logger
}

// NewAPIKeysClient binds the API key endpoints to d.
func NewAPIKeysClient(d Doer, logger *zap.Logger) *APIKeysClient {
	return &APIKeysClient{doer: d, logger: facadeLogger(logger, "api_keys")}
}

func (a *APIKeysClient) ensureInitialized() error {
	if a == nil || a.doer == nil {
		return fmt.Errorf("sdk: api keys client not initialized")
	}
	return nil
}

// Create issues a new API key. The returned secret is shown only once.
func (a *APIKeysClient) Create(ctx context.Context, req APIKeyCreate) (APIKeyWithSecretResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return APIKeyWithSecretResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return APIKeyWithSecretResponse{}, err
	}
	a.logger.Info("creating api key", zap.String("name", req.Name))
	return call[APIKeyWithSecretResponse](ctx, a.doer, Request{Method: http.MethodPost, Path: routes.APIKeys, JSON: req})
}

// List returns one page of the caller's API keys.
func (a *APIKeysClient) List(ctx context.Context, opts ListOptions) (ListResponse[APIKeyResponse], error) {
	if err := a.ensureInitialized(); err != nil {
		return ListResponse[APIKeyResponse]{}, err
	}
	if err := opts.Validate(); err != nil {
		return ListResponse[APIKeyResponse]{}, err
	}
	a.logger.Info("listing api keys", zap.Int("page", opts.page()))
	return call[ListResponse[APIKeyResponse]](ctx, a.doer, Request{Method: http.MethodGet, Path: routes.APIKeys, Query: opts.values()})
}

// Get returns a single API key by name.
func (a *APIKeysClient) Get(ctx context.Context, name string) (APIKeyResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return APIKeyResponse{}, err
	}
	if err := validatePathName("name", name); err != nil {
		return APIKeyResponse{}, err
	}
	a.logger.Info("getting api key", zap.String("name", name))
	return call[APIKeyResponse](ctx, a.doer, Request{Method: http.MethodGet, Path: routes.APIKey(name)})
}

// Update applies a partial update; unset fields are left unchanged server-side.
func (a *APIKeysClient) Update(ctx context.Context, name string, update APIKeyUpdate) (APIKeyResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return APIKeyResponse{}, err
	}
	if err := validatePathName("name", name); err != nil {
		return APIKeyResponse{}, err
	}
	if err := update.Validate(); err != nil {
		return APIKeyResponse{}, err
	}
	a.logger.Info("updating api key", zap.String("name", name))
	return call[APIKeyResponse](ctx, a.doer, Request{Method: http.MethodPatch, Path: routes.APIKey(name), JSON: update})
}

// Revoke disables an API key and returns its final state.
func (a *APIKeysClient) Revoke(ctx context.Context, name string) (APIKeyResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return APIKeyResponse{}, err
	}
	if err := validatePathName("name", name); err != nil {
		return APIKeyResponse{}, err
	}
	a.logger.Info("revoking api key", zap.String("name", name))
	return call[APIKeyResponse](ctx, a.doer, Request{Method: http.MethodDelete, Path: routes.APIKey(name)})
}
