package sdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/luminolabs/lumino/sdk/go/routes"
)

// UserResponse is the authenticated user's profile.
type UserResponse struct {
	ID             uuid.UUID       `json:"id"`
	CreatedAt      DateTime        `json:"created_at"`
	UpdatedAt      DateTime        `json:"updated_at"`
	Status         UserStatus      `json:"status"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	CreditsBalance decimal.Decimal `json:"credits_balance"`
}

// UserUpdate is a partial update of the current user.
type UserUpdate struct {
	Name Optional[string] `json:"name,omitzero"`
}

// Validate checks the name length when it is set.
func (u UserUpdate) Validate() error {
	if name, ok := u.Name.Get(); ok {
		return validateLength("name", name, 1, MaxNameLength)
	}
	return nil
}

// UsersClient wraps the /users/me endpoints.
type UsersClient struct {
	doer   Doer
	logger *zap.Logger
}

// NewUsersClient binds the user endpoints to d. A nil logger disables logging.
func NewUsersClient(d Doer, logger *zap.Logger) *UsersClient {
	return &UsersClient{doer: d, logger: facadeLogger(logger, "user")}
}

func (u *UsersClient) ensureInitialized() error {
	if u == nil || u.doer == nil {
		return fmt.Errorf("sdk: users client not initialized")
	}
	return nil
}

// GetCurrentUser returns the profile of the key's owner.
func (u *UsersClient) GetCurrentUser(ctx context.Context) (UserResponse, error) {
	if err := u.ensureInitialized(); err != nil {
		return UserResponse{}, err
	}
	u.logger.Info("getting current user")
	return call[UserResponse](ctx, u.doer, Request{Method: http.MethodGet, Path: routes.UsersMe})
}

// UpdateCurrentUser applies a partial update to the current user.
func (u *UsersClient) UpdateCurrentUser(ctx context.Context, update UserUpdate) (UserResponse, error) {
	if err := u.ensureInitialized(); err != nil {
		return UserResponse{}, err
	}
	if err := update.Validate(); err != nil {
		return UserResponse{}, err
	}
	u.logger.Info("updating current user")
	return call[UserResponse](ctx, u.doer, Request{Method: http.MethodPatch, Path: routes.UsersMe, JSON: update})
}

// DeleteAccount deletes the current user's account and returns the server's
// confirmation payload.
func (u *UsersClient) DeleteAccount(ctx context.Context) (Object, error) {
	if err := u.ensureInitialized(); err != nil {
		return Object{}, err
	}
	u.logger.Info("deleting current user account")
	return call[Object](ctx, u.doer, Request{Method: http.MethodDelete, Path: routes.UsersMe})
}

// GetAccountSettings returns the current user's settings.
func (u *UsersClient) GetAccountSettings(ctx context.Context) (Object, error) {
	if err := u.ensureInitialized(); err != nil {
		return Object{}, err
	}
	u.logger.Info("getting account settings")
	return call[Object](ctx, u.doer, Request{Method: http.MethodGet, Path: routes.UsersMeSettings})
}

// UpdateAccountSettings patches the current user's settings.
func (u *UsersClient) UpdateAccountSettings(ctx context.Context, settings map[string]any) (Object, error) {
	if err := u.ensureInitialized(); err != nil {
		return Object{}, err
	}
	if len(settings) == 0 {
		return Object{}, invalidField("settings", "at least one setting is required")
	}
	u.logger.Info("updating account settings", zap.Int("keys", len(settings)))
	return call[Object](ctx, u.doer, Request{Method: http.MethodPatch, Path: routes.UsersMeSettings, JSON: settings})
}
