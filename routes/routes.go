// Package routes provides the Lumino API route constants and builders used by
// the SDK facades, so every endpoint path is spelled in one place.
package routes

import "net/url"

// API route paths, relative to the versioned base URL.
const (
	// UsersMe is the authenticated user's profile.
	UsersMe = "/users/me"
	// UsersMeSettings holds the authenticated user's account settings.
	UsersMeSettings = "/users/me/settings"

	// APIKeys lists and creates API keys.
	APIKeys = "/api-keys" // #nosec G101 -- route path, not a credential

	// Datasets lists and uploads datasets.
	Datasets = "/datasets"

	// FineTuning lists and creates fine-tuning jobs.
	FineTuning = "/fine-tuning"

	// ModelsBase lists base models.
	ModelsBase = "/models/base"
	// ModelsFineTuned lists fine-tuned models.
	ModelsFineTuned = "/models/fine-tuned"
	// ModelsCompare compares performance metrics across models.
	ModelsCompare = "/models/compare"

	// UsageTotalCost returns the total cost for a date range.
	UsageTotalCost = "/usage/total-cost"
	// UsageRecords lists usage records for a date range.
	UsageRecords = "/usage/records"

	// BillingCreditHistory lists credit ledger entries for a date range.
	BillingCreditHistory = "/billing/credit-history"
	// BillingCreditsAdd grants credits to a user (admin only).
	BillingCreditsAdd = "/billing/credits-add"
	// BillingCreditsDeduct removes credits from a user (admin only).
	BillingCreditsDeduct = "/billing/credits-deduct"
)

// APIKey returns the path for a single API key.
func APIKey(name string) string {
	return APIKeys + "/" + url.PathEscape(name)
}

// Dataset returns the path for a single dataset.
func Dataset(name string) string {
	return Datasets + "/" + url.PathEscape(name)
}

// DatasetDownload returns the streaming download path for a dataset.
func DatasetDownload(name string) string {
	return Dataset(name) + "/download"
}

// FineTuningJob returns the path for a single fine-tuning job.
func FineTuningJob(name string) string {
	return FineTuning + "/" + url.PathEscape(name)
}

// FineTuningJobCancel returns the cancel path for a fine-tuning job.
func FineTuningJobCancel(name string) string {
	return FineTuningJob(name) + "/cancel"
}

// FineTuningJobMetrics returns the metrics path for a fine-tuning job.
func FineTuningJobMetrics(name string) string {
	return FineTuningJob(name) + "/metrics"
}

// FineTuningJobLogs returns the logs path for a fine-tuning job.
func FineTuningJobLogs(name string) string {
	return FineTuningJob(name) + "/logs"
}

// BaseModel returns the path for a single base model.
func BaseModel(name string) string {
	return ModelsBase + "/" + url.PathEscape(name)
}

// FineTunedModel returns the path for a single fine-tuned model.
func FineTunedModel(name string) string {
	return ModelsFineTuned + "/" + url.PathEscape(name)
}

// ModelPerformance returns the performance metrics path for a base or fine-tuned model.
func ModelPerformance(name string) string {
	return "/models/" + url.PathEscape(name) + "/performance"
}
