package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/luminolabs/lumino/sdk/go/routes"
)

// CreditHistoryResponse is one credit ledger entry.
type CreditHistoryResponse struct {
	ID              uuid.UUID              `json:"id"`
	CreatedAt       DateTime               `json:"created_at"`
	Credits         decimal.Decimal        `json:"credits"`
	TransactionID   string                 `json:"transaction_id"`
	TransactionType BillingTransactionType `json:"transaction_type"`
}

// CreditHistoryParams selects ledger entries in a date range.
type CreditHistoryParams struct {
	DateRange
	ListOptions
}

// Validate checks the date range and paging.
func (p CreditHistoryParams) Validate() error {
	if err := p.DateRange.Validate(); err != nil {
		return err
	}
	return p.ListOptions.Validate()
}

func (p CreditHistoryParams) values() url.Values {
	q := p.DateRange.values()
	for k, v := range p.ListOptions.values() {
		q[k] = v
	}
	return q
}

// CreditAdjustment is an admin credit grant or deduction for one user.
type CreditAdjustment struct {
	UserID        uuid.UUID       `json:"user_id"`
	Credits       decimal.Decimal `json:"credits"`
	TransactionID string          `json:"transaction_id,omitempty"`
}

// Validate requires a user and a positive amount.
func (a CreditAdjustment) Validate() error {
	if a.UserID == uuid.Nil {
		return invalidField("user_id", "is required")
	}
	if !a.Credits.IsPositive() {
		return invalidField("credits", "must be greater than 0, got %s", a.Credits.String())
	}
	return nil
}

// BillingClient wraps credit history and admin credit endpoints.
type BillingClient struct {
	doer   Doer
	logger *zap.Logger
}

// NewBillingClient binds the billing endpoints to d.
func NewBillingClient(d Doer, logger *zap.Logger) *BillingClient {
	return &BillingClient{doer: d, logger: facadeLogger(logger, "billing")}
}

func (b *BillingClient) ensureInitialized() error {
	if b == nil || b.doer == nil {
		return fmt.Errorf("sdk: billing client not initialized")
	}
	return nil
}

// GetCreditHistory returns one page of the caller's credit ledger.
func (b *BillingClient) GetCreditHistory(ctx context.Context, params CreditHistoryParams) (ListResponse[CreditHistoryResponse], error) {
	if err := b.ensureInitialized(); err != nil {
		return ListResponse[CreditHistoryResponse]{}, err
	}
	if err := params.Validate(); err != nil {
		return ListResponse[CreditHistoryResponse]{}, err
	}
	b.logger.Info("getting credit history",
		zap.Stringer("start_date", params.StartDate),
		zap.Stringer("end_date", params.EndDate),
		zap.Int("page", params.page()),
	)
	return call[ListResponse[CreditHistoryResponse]](ctx, b.doer, Request{Method: http.MethodGet, Path: routes.BillingCreditHistory, Query: params.values()})
}

// AddCredits grants credits to a user. Requires an admin key.
func (b *BillingClient) AddCredits(ctx context.Context, adj CreditAdjustment) (CreditHistoryResponse, error) {
	return b.adjust(ctx, routes.BillingCreditsAdd, "adding credits", adj)
}

// DeductCredits removes credits from a user. Requires an admin key.
func (b *BillingClient) DeductCredits(ctx context.Context, adj CreditAdjustment) (CreditHistoryResponse, error) {
	return b.adjust(ctx, routes.BillingCreditsDeduct, "deducting credits", adj)
}

func (b *BillingClient) adjust(ctx context.Context, path, msg string, adj CreditAdjustment) (CreditHistoryResponse, error) {
	if err := b.ensureInitialized(); err != nil {
		return CreditHistoryResponse{}, err
	}
	if err := adj.Validate(); err != nil {
		return CreditHistoryResponse{}, err
	}
	b.logger.Info(msg, zap.Stringer("user_id", adj.UserID), zap.Stringer("credits", adj.Credits))
	return call[CreditHistoryResponse](ctx, b.doer, Request{Method: http.MethodPost, Path: path, JSON: adj})
}
