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

// UsageRecordResponse is one metered usage entry.
type UsageRecordResponse struct {
	ID                uuid.UUID       `json:"id"`
	CreatedAt         DateTime        `json:"created_at"`
	ServiceName       ServiceName     `json:"service_name"`
	UsageAmount       decimal.Decimal `json:"usage_amount"`
	UsageUnit         UsageUnit       `json:"usage_unit"`
	Cost              decimal.Decimal `json:"cost"`
	FineTuningJobName string          `json:"fine_tuning_job_name"`
}

// TotalCostResponse is the cost accrued over a date range.
type TotalCostResponse struct {
	StartDate Date            `json:"start_date"`
	EndDate   Date            `json:"end_date"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	StartDate Date
	EndDate   Date
}

// Validate requires both ends and rejects an end before the start.
func (r DateRange) Validate() error {
	if r.StartDate.IsZero() {
		return invalidField("start_date", "is required")
	}
	if r.EndDate.IsZero() {
		return invalidField("end_date", "is required")
	}
	return validateDateRange(r.StartDate, r.EndDate)
}

func (r DateRange) values() url.Values {
	q := url.Values{}
	q.Set("start_date", r.StartDate.String())
	q.Set("end_date", r.EndDate.String())
	return q
}

// UsageRecordsParams selects usage records in a date range.
type UsageRecordsParams struct {
	DateRange
	ListOptions
	ServiceName ServiceName
}

// Validate checks the date range, paging and service filter.
func (p UsageRecordsParams) Validate() error {
	if err := p.DateRange.Validate(); err != nil {
		return err
	}
	if err := p.ListOptions.Validate(); err != nil {
		return err
	}
	if p.ServiceName != "" && !p.ServiceName.IsValid() {
		return invalidField("service_name", "unknown service name %q", p.ServiceName)
	}
	return nil
}

func (p UsageRecordsParams) values() url.Values {
	q := p.DateRange.values()
	for k, v := range p.ListOptions.values() {
		q[k] = v
	}
	if p.ServiceName != "" {
		q.Set("service_name", string(p.ServiceName))
	}
	return q
}

// UsageClient wraps usage metering endpoints.
type UsageClient struct {
	doer   Doer
	logger *zap.Logger
}

// NewUsageClient binds the usage endpoints to d.
func NewUsageClient(d Doer, logger *zap.Logger) *UsageClient {
	return &UsageClient{doer: d, logger: facadeLogger(logger, "usage")}
}

func (u *UsageClient) ensureInitialized() error {
	if u == nil || u.doer == nil {
		return fmt.Errorf("sdk: usage client not initialized")
	}
	return nil
}

// GetTotalCost returns the cost accrued between start and end, inclusive.
func (u *UsageClient) GetTotalCost(ctx context.Context, start, end Date) (TotalCostResponse, error) {
	if err := u.ensureInitialized(); err != nil {
		return TotalCostResponse{}, err
	}
	span := DateRange{StartDate: start, EndDate: end}
	if err := span.Validate(); err != nil {
		return TotalCostResponse{}, err
	}
	u.logger.Info("getting total cost", zap.Stringer("start_date", start), zap.Stringer("end_date", end))
	return call[TotalCostResponse](ctx, u.doer, Request{Method: http.MethodGet, Path: routes.UsageTotalCost, Query: span.values()})
}

// ListRecords returns one page of usage records in a date range.
func (u *UsageClient) ListRecords(ctx context.Context, params UsageRecordsParams) (ListResponse[UsageRecordResponse], error) {
	if err := u.ensureInitialized(); err != nil {
		return ListResponse[UsageRecordResponse]{}, err
	}
	if err := params.Validate(); err != nil {
		return ListResponse[UsageRecordResponse]{}, err
	}
	u.logger.Info("listing usage records",
		zap.Stringer("start_date", params.StartDate),
		zap.Stringer("end_date", params.EndDate),
		zap.Int("page", params.page()),
	)
	return call[ListResponse[UsageRecordResponse]](ctx, u.doer, Request{Method: http.MethodGet, Path: routes.UsageRecords, Query: params.values()})
}
