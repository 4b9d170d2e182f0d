package sdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luminolabs/lumino/sdk/go/routes"
)

// Fine-tuning parameter bounds and defaults.
const (
	MaxBatchSize    = 8
	MaxNumEpochs    = 10
	MaxLearningRate = 1.0

	DefaultBatchSize    = 2
	DefaultNumEpochs    = 1
	DefaultLearningRate = 3e-4
)

// FineTuningJobParameters are the training hyperparameters of a job.
type FineTuningJobParameters struct {
	BatchSize int     `json:"batch_size"`
	Shuffle   bool    `json:"shuffle"`
	NumEpochs int     `json:"num_epochs"`
	LR        float64 `json:"lr"`
	Seed      *int    `json:"seed"`
}

// DefaultFineTuningJobParameters returns batch size 2, shuffling on, one epoch
// and a 3e-4 learning rate.
func DefaultFineTuningJobParameters() FineTuningJobParameters {
	return FineTuningJobParameters{
		BatchSize: DefaultBatchSize,
		Shuffle:   true,
		NumEpochs: DefaultNumEpochs,
		LR:        DefaultLearningRate,
	}
}

// WithSeed returns a copy of p with a fixed random seed.
func (p FineTuningJobParameters) WithSeed(seed int) FineTuningJobParameters {
	p.Seed = &seed
	return p
}

// Validate enforces batch_size in (0, 8], num_epochs in (0, 10], lr in (0, 1]
// and a non-negative seed.
func (p FineTuningJobParameters) Validate() error {
	if p.BatchSize <= 0 || p.BatchSize > MaxBatchSize {
		return invalidField("parameters.batch_size", "must be greater than 0 and at most %d, got %d", MaxBatchSize, p.BatchSize)
	}
	if p.NumEpochs <= 0 || p.NumEpochs > MaxNumEpochs {
		return invalidField("parameters.num_epochs", "must be greater than 0 and at most %d, got %d", MaxNumEpochs, p.NumEpochs)
	}
	if !(p.LR > 0 && p.LR <= MaxLearningRate) {
		return invalidField("parameters.lr", "must be greater than 0 and at most 1, got %g", p.LR)
	}
	if p.Seed != nil && *p.Seed < 0 {
		return invalidField("parameters.seed", "must be at least 0, got %d", *p.Seed)
	}
	return nil
}

// FineTuningJobCreate mirrors POST /fine-tuning.
type FineTuningJobCreate struct {
	BaseModelName string                  `json:"base_model_name"`
	DatasetName   string                  `json:"dataset_name"`
	Name          string                  `json:"name"`
	Type          FineTuningJobType       `json:"type"`
	Provider      ComputeProvider         `json:"provider"`
	Parameters    FineTuningJobParameters `json:"parameters"`
}

// NewFineTuningJobCreate builds a job request on GCP and validates it.
func NewFineTuningJobCreate(name, baseModel, dataset string, jobType FineTuningJobType, params FineTuningJobParameters) (FineTuningJobCreate, error) {
	req := FineTuningJobCreate{
		BaseModelName: baseModel,
		DatasetName:   dataset,
		Name:          name,
		Type:          jobType,
		Provider:      ComputeProviderGCP,
		Parameters:    params,
	}
	if err := req.Validate(); err != nil {
		return FineTuningJobCreate{}, err
	}
	return req, nil
}

// Validate checks the request. An empty Provider is valid and means GCP.
func (r FineTuningJobCreate) Validate() error {
	if r.BaseModelName == "" {
		return invalidField("base_model_name", "is required")
	}
	if r.DatasetName == "" {
		return invalidField("dataset_name", "is required")
	}
	if err := validateName("name", r.Name); err != nil {
		return err
	}
	if !r.Type.IsValid() {
		return invalidField("type", "unknown fine-tuning job type %q", r.Type)
	}
	if r.Provider != "" && !r.Provider.IsValid() {
		return invalidField("provider", "unknown compute provider %q", r.Provider)
	}
	return r.Parameters.Validate()
}

func (r FineTuningJobCreate) withDefaults() FineTuningJobCreate {
	if r.Provider == "" {
		r.Provider = ComputeProviderGCP
	}
	return r
}

// FineTuningJobResponse is the summary view of a job.
type FineTuningJobResponse struct {
	ID            uuid.UUID           `json:"id"`
	CreatedAt     DateTime            `json:"created_at"`
	UpdatedAt     DateTime            `json:"updated_at"`
	BaseModelName string              `json:"base_model_name"`
	DatasetName   string              `json:"dataset_name"`
	Status        FineTuningJobStatus `json:"status"`
	Name          string              `json:"name"`
	Type          FineTuningJobType   `json:"type"`
	Provider      ComputeProvider     `json:"provider"`
	CurrentStep   *int                `json:"current_step"`
	TotalSteps    *int                `json:"total_steps"`
	CurrentEpoch  *int                `json:"current_epoch"`
	TotalEpochs   *int                `json:"total_epochs"`
	NumTokens     *int64              `json:"num_tokens"`
}

// FineTuningJobDetailResponse adds parameters, metrics and timestamps.
type FineTuningJobDetailResponse struct {
	FineTuningJobResponse
	Parameters Object  `json:"parameters"`
	Metrics    *Object `json:"metrics"`
	Timestamps *Object `json:"timestamps"`
}

// ListFineTuningJobsParams filters the job list.
type ListFineTuningJobsParams struct {
	ListOptions
	Status FineTuningJobStatus
}

// FineTuningClient wraps fine-tuning job endpoints.
type FineTuningClient struct {
	doer   Doer
	logger *zap.Logger
}

// NewFineTuningClient binds the fine-tuning endpoints to d.
func NewFineTuningClient(d Doer, logger *zap.Logger) *FineTuningClient {
	return &FineTuningClient{doer: d, logger: facadeLogger(logger, "fine_tuning")}
}

func (f *FineTuningClient) ensureInitialized() error {
	if f == nil || f.doer == nil {
		return fmt.Errorf("sdk: fine-tuning client not initialized")
	}
	return nil
}

// Create starts a fine-tuning job.
func (f *FineTuningClient) Create(ctx context.Context, req FineTuningJobCreate) (FineTuningJobResponse, error) {
	if err := f.ensureInitialized(); err != nil {
		return FineTuningJobResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return FineTuningJobResponse{}, err
	}
	req = req.withDefaults()
	f.logger.Info("creating fine-tuning job", zap.String("name", req.Name), zap.String("type", string(req.Type)))
	return call[FineTuningJobResponse](ctx, f.doer, Request{Method: http.MethodPost, Path: routes.FineTuning, JSON: req})
}

// List returns one page of jobs, optionally filtered by status.
func (f *FineTuningClient) List(ctx context.Context, params ListFineTuningJobsParams) (ListResponse[FineTuningJobResponse], error) {
	if err := f.ensureInitialized(); err != nil {
		return ListResponse[FineTuningJobResponse]{}, err
	}
	if err := params.ListOptions.Validate(); err != nil {
		return ListResponse[FineTuningJobResponse]{}, err
	}
	if params.Status != "" && !params.Status.IsValid() {
		return ListResponse[FineTuningJobResponse]{}, invalidField("status", "unknown fine-tuning job status %q", params.Status)
	}
	query := params.values()
	if params.Status != "" {
		query.Set("status", string(params.Status))
	}
	f.logger.Info("listing fine-tuning jobs", zap.Int("page", params.page()))
	return call[ListResponse[FineTuningJobResponse]](ctx, f.doer, Request{Method: http.MethodGet, Path: routes.FineTuning, Query: query})
}

// Get returns the detailed view of a job.
func (f *FineTuningClient) Get(ctx context.Context, name string) (FineTuningJobDetailResponse, error) {
	if err := f.ensureInitialized(); err != nil {
		return FineTuningJobDetailResponse{}, err
	}
	if err := validatePathName("name", name); err != nil {
		return FineTuningJobDetailResponse{}, err
	}
	f.logger.Info("getting fine-tuning job", zap.String("name", name))
	return call[FineTuningJobDetailResponse](ctx, f.doer, Request{Method: http.MethodGet, Path: routes.FineTuningJob(name)})
}

// Cancel asks the server to stop a job and returns its updated detail.
func (f *FineTuningClient) Cancel(ctx context.Context, name string) (FineTuningJobDetailResponse, error) {
	if err := f.ensureInitialized(); err != nil {
		return FineTuningJobDetailResponse{}, err
	}
	if err := validatePathName("name", name); err != nil {
		return FineTuningJobDetailResponse{}, err
	}
	f.logger.Info("cancelling fine-tuning job", zap.String("name", name))
	return call[FineTuningJobDetailResponse](ctx, f.doer, Request{Method: http.MethodPatch, Path: routes.FineTuningJobCancel(name)})
}

// Delete marks a job as deleted.
func (f *FineTuningClient) Delete(ctx context.Context, name string) error {
	if err := f.ensureInitialized(); err != nil {
		return err
	}
	if err := validatePathName("name", name); err != nil {
		return err
	}
	f.logger.Info("deleting fine-tuning job", zap.String("name", name))
	return callNoContent(ctx, f.doer, Request{Method: http.MethodDelete, Path: routes.FineTuningJob(name)})
}

// Metrics returns the training metrics recorded for a job.
func (f *FineTuningClient) Metrics(ctx context.Context, name string) (Object, error) {
	if err := f.ensureInitialized(); err != nil {
		return Object{}, err
	}
	if err := validatePathName("name", name); err != nil {
		return Object{}, err
	}
	f.logger.Info("getting fine-tuning job metrics", zap.String("name", name))
	return call[Object](ctx, f.doer, Request{Method: http.MethodGet, Path: routes.FineTuningJobMetrics(name)})
}

// Logs returns the training logs of a job.
func (f *FineTuningClient) Logs(ctx context.Context, name string) (Object, error) {
	if err := f.ensureInitialized(); err != nil {
		return Object{}, err
	}
	if err := validatePathName("name", name); err != nil {
		return Object{}, err
	}
	f.logger.Info("getting fine-tuning job logs", zap.String("name", name))
	return call[Object](ctx, f.doer, Request{Method: http.MethodGet, Path: routes.FineTuningJobLogs(name)})
}
