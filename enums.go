package sdk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// UserStatus is the lifecycle state of a user account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

var userStatuses = []UserStatus{UserStatusActive, UserStatusInactive}

// APIKeyStatus is the lifecycle state of an API key.
type APIKeyStatus string

const (
	APIKeyStatusActive  APIKeyStatus = "ACTIVE"
	APIKeyStatusExpired APIKeyStatus = "EXPIRED"
	APIKeyStatusRevoked APIKeyStatus = "REVOKED"
)

var apiKeyStatuses = []APIKeyStatus{APIKeyStatusActive, APIKeyStatusExpired, APIKeyStatusRevoked}

// DatasetStatus is the processing state of an uploaded dataset.
type DatasetStatus string

const (
	DatasetStatusUploaded  DatasetStatus = "UPLOADED"
	DatasetStatusValidated DatasetStatus = "VALIDATED"
	DatasetStatusError     DatasetStatus = "ERROR"
	DatasetStatusDeleted   DatasetStatus = "DELETED"
)

var datasetStatuses = []DatasetStatus{DatasetStatusUploaded, DatasetStatusValidated, DatasetStatusError, DatasetStatusDeleted}

// FineTuningJobStatus is reported by the server as a job progresses through
// NEW, QUEUED, RUNNING and then STOPPING/STOPPED, COMPLETED or FAILED.
type FineTuningJobStatus string

const (
	FineTuningJobStatusNew       FineTuningJobStatus = "NEW"
	FineTuningJobStatusQueued    FineTuningJobStatus = "QUEUED"
	FineTuningJobStatusRunning   FineTuningJobStatus = "RUNNING"
	FineTuningJobStatusStopping  FineTuningJobStatus = "STOPPING"
	FineTuningJobStatusStopped   FineTuningJobStatus = "STOPPED"
	FineTuningJobStatusCompleted FineTuningJobStatus = "COMPLETED"
	FineTuningJobStatusFailed    FineTuningJobStatus = "FAILED"
	FineTuningJobStatusDeleted   FineTuningJobStatus = "DELETED"
)

var fineTuningJobStatuses = []FineTuningJobStatus{
	FineTuningJobStatusNew, FineTuningJobStatusQueued, FineTuningJobStatusRunning, FineTuningJobStatusStopping,
	FineTuningJobStatusStopped, FineTuningJobStatusCompleted, FineTuningJobStatusFailed, FineTuningJobStatusDeleted,
}

// IsTerminal reports whether the job can no longer change state on its own.
func (s FineTuningJobStatus) IsTerminal() bool {
	switch s {
	case FineTuningJobStatusStopped, FineTuningJobStatusCompleted, FineTuningJobStatusFailed, FineTuningJobStatusDeleted:
		return true
	default:
		return false
	}
}

// FineTuningJobType selects the training method.
type FineTuningJobType string

const (
	FineTuningJobTypeFull  FineTuningJobType = "FULL"
	FineTuningJobTypeLoRA  FineTuningJobType = "LORA"
	FineTuningJobTypeQLoRA FineTuningJobType = "QLORA"
)

var fineTuningJobTypes = []FineTuningJobType{FineTuningJobTypeFull, FineTuningJobTypeLoRA, FineTuningJobTypeQLoRA}

// BaseModelStatus is the availability of a catalog model.
type BaseModelStatus string

const (
	BaseModelStatusActive     BaseModelStatus = "ACTIVE"
	BaseModelStatusInactive   BaseModelStatus = "INACTIVE"
	BaseModelStatusDeprecated BaseModelStatus = "DEPRECATED"
)

var baseModelStatuses = []BaseModelStatus{BaseModelStatusActive, BaseModelStatusInactive, BaseModelStatusDeprecated}

// FineTunedModelStatus is the state of a model produced by a job.
type FineTunedModelStatus string

const (
	FineTunedModelStatusActive  FineTunedModelStatus = "ACTIVE"
	FineTunedModelStatusDeleted FineTunedModelStatus = "DELETED"
)

var fineTunedModelStatuses = []FineTunedModelStatus{FineTunedModelStatusActive, FineTunedModelStatusDeleted}

// ComputeProvider is where a fine-tuning job runs.
type ComputeProvider string

const (
	ComputeProviderGCP ComputeProvider = "GCP"
	ComputeProviderLUM ComputeProvider = "LUM"
)

var computeProviders = []ComputeProvider{ComputeProviderGCP, ComputeProviderLUM}

// BillingTransactionType is the cause of a credit ledger entry.
type BillingTransactionType string

const (
	BillingTransactionManualAdjustment BillingTransactionType = "MANUAL_ADJUSTMENT"
	BillingTransactionNewUserCredit    BillingTransactionType = "NEW_USER_CREDIT"
	BillingTransactionFineTuningJob    BillingTransactionType = "FINE_TUNING_JOB"
	BillingTransactionStripeCheckout   BillingTransactionType = "STRIPE_CHECKOUT"
)

var billingTransactionTypes = []BillingTransactionType{
	BillingTransactionManualAdjustment, BillingTransactionNewUserCredit,
	BillingTransactionFineTuningJob, BillingTransactionStripeCheckout,
}

// UsageUnit is the unit a usage amount is measured in.
type UsageUnit string

const UsageUnitToken UsageUnit = "TOKEN"

var usageUnits = []UsageUnit{UsageUnitToken}

// ServiceName identifies the metered service of a usage record.
type ServiceName string

const ServiceNameFineTuningJob ServiceName = "FINE_TUNING_JOB"

var serviceNames = []ServiceName{ServiceNameFineTuningJob}

type enumValue interface {
	~string
}

func parseEnum[T enumValue](kind, raw string, known []T) (T, error) {
	v := T(raw)
	if slices.Contains(known, v) {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q", kind, raw)
}

// unmarshalEnum rejects null and values outside known. Optional enum fields
// are pointers, which encoding/json sets to nil without calling here.
func unmarshalEnum[T enumValue](kind string, data []byte, known []T, dst *T) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return fmt.Errorf("%s is required", kind)
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%s must be a string: %w", kind, err)
	}
	v, err := parseEnum(kind, raw, known)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func ParseUserStatus(raw string) (UserStatus, error) {
	return parseEnum("user status", raw, userStatuses)
}

func ParseAPIKeyStatus(raw string) (APIKeyStatus, error) {
	return parseEnum("api key status", raw, apiKeyStatuses)
}

func ParseDatasetStatus(raw string) (DatasetStatus, error) {
	return parseEnum("dataset status", raw, datasetStatuses)
}

func ParseFineTuningJobStatus(raw string) (FineTuningJobStatus, error) {
	return parseEnum("fine-tuning job status", raw, fineTuningJobStatuses)
}

func ParseFineTuningJobType(raw string) (FineTuningJobType, error) {
	return parseEnum("fine-tuning job type", raw, fineTuningJobTypes)
}

func ParseBaseModelStatus(raw string) (BaseModelStatus, error) {
	return parseEnum("base model status", raw, baseModelStatuses)
}

func ParseFineTunedModelStatus(raw string) (FineTunedModelStatus, error) {
	return parseEnum("fine-tuned model status", raw, fineTunedModelStatuses)
}

func ParseComputeProvider(raw string) (ComputeProvider, error) {
	return parseEnum("compute provider", raw, computeProviders)
}

func ParseBillingTransactionType(raw string) (BillingTransactionType, error) {
	return parseEnum("billing transaction type", raw, billingTransactionTypes)
}

func ParseUsageUnit(raw string) (UsageUnit, error) {
	return parseEnum("usage unit", raw, usageUnits)
}

func ParseServiceName(raw string) (ServiceName, error) {
	return parseEnum("service name", raw, serviceNames)
}

func (s UserStatus) IsValid() bool             { return slices.Contains(userStatuses, s) }
func (s APIKeyStatus) IsValid() bool           { return slices.Contains(apiKeyStatuses, s) }
func (s DatasetStatus) IsValid() bool          { return slices.Contains(datasetStatuses, s) }
func (s FineTuningJobStatus) IsValid() bool    { return slices.Contains(fineTuningJobStatuses, s) }
func (t FineTuningJobType) IsValid() bool      { return slices.Contains(fineTuningJobTypes, t) }
func (s BaseModelStatus) IsValid() bool        { return slices.Contains(baseModelStatuses, s) }
func (s FineTunedModelStatus) IsValid() bool   { return slices.Contains(fineTunedModelStatuses, s) }
func (p ComputeProvider) IsValid() bool        { return slices.Contains(computeProviders, p) }
func (t BillingTransactionType) IsValid() bool { return slices.Contains(billingTransactionTypes, t) }
func (u UsageUnit) IsValid() bool              { return slices.Contains(usageUnits, u) }
func (n ServiceName) IsValid() bool            { return slices.Contains(serviceNames, n) }

func (s *UserStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("user status", data, userStatuses, s)
}

func (s *APIKeyStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("api key status", data, apiKeyStatuses, s)
}

func (s *DatasetStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("dataset status", data, datasetStatuses, s)
}

func (s *FineTuningJobStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("fine-tuning job status", data, fineTuningJobStatuses, s)
}

func (t *FineTuningJobType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("fine-tuning job type", data, fineTuningJobTypes, t)
}

func (s *BaseModelStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("base model status", data, baseModelStatuses, s)
}

func (s *FineTunedModelStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("fine-tuned model status", data, fineTunedModelStatuses, s)
}

func (p *ComputeProvider) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("compute provider", data, computeProviders, p)
}

func (t *BillingTransactionType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("billing transaction type", data, billingTransactionTypes, t)
}

func (u *UsageUnit) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("usage unit", data, usageUnits, u)
}

func (n *ServiceName) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("service name", data, serviceNames, n)
}
