package sdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luminolabs/lumino/sdk/go/routes"
)

// BaseModelResponse is a catalog model that jobs can fine-tune.
type BaseModelResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description *string         `json:"description,omitempty"`
	HFURL       string          `json:"hf_url"`
	Status      BaseModelStatus `json:"status"`
	Name        string          `json:"name"`
	Meta        *Object         `json:"meta,omitempty"`
}

// FineTunedModelResponse is a model produced by a fine-tuning job.
type FineTunedModelResponse struct {
	ID                uuid.UUID            `json:"id"`
	CreatedAt         DateTime             `json:"created_at"`
	UpdatedAt         DateTime             `json:"updated_at"`
	FineTuningJobName string               `json:"fine_tuning_job_name"`
	Status            FineTunedModelStatus `json:"status"`
	Name              string               `json:"name"`
	Artifacts         *Object              `json:"artifacts,omitempty"`
}

// ModelsClient wraps the base and fine-tuned model catalog.
type ModelsClient struct {
	doer   Doer
	logger *zap.Logger
}

// NewModelsClient binds the model endpoints to d.
func NewModelsClient(d Doer, logger *zap.Logger) *ModelsClient {
	return &ModelsClient{doer: d, logger: facadeLogger(logger, "model")}
}

func (m *ModelsClient) ensureInitialized() error {
	if m == nil || m.doer == nil {
		return fmt.Errorf("sdk: models client not initialized")
	}
	return nil
}

// ListBaseModels returns one page of base models.
func (m *ModelsClient) ListBaseModels(ctx context.Context, opts ListOptions) (ListResponse[BaseModelResponse], error) {
	if err := m.ensureInitialized(); err != nil {
		return ListResponse[BaseModelResponse]{}, err
	}
	if err := opts.Validate(); err != nil {
		return ListResponse[BaseModelResponse]{}, err
	}
	m.logger.Info("listing base models", zap.Int("page", opts.page()))
	return call[ListResponse[BaseModelResponse]](ctx, m.doer, Request{Method: http.MethodGet, Path: routes.ModelsBase, Query: opts.values()})
}

// GetBaseModel returns a base model by name.
func (m *ModelsClient) GetBaseModel(ctx context.Context, name string) (BaseModelResponse, error) {
	if err := m.ensureInitialized(); err != nil {
		return BaseModelResponse{}, err
	}
	if err := validatePathName("name", name); err != nil {
		return BaseModelResponse{}, err
	}
	m.logger.Info("getting base model", zap.String("name", name))
	return call[BaseModelResponse](ctx, m.doer, Request{Method: http.MethodGet, Path: routes.BaseModel(name)})
}

// ListFineTunedModels returns one page of the caller's fine-tuned models.
func (m *ModelsClient) ListFineTunedModels(ctx context.Context, opts ListOptions) (ListResponse[FineTunedModelResponse], error) {
	if err := m.ensureInitialized(); err != nil {
		return ListResponse[FineTunedModelResponse]{}, err
	}
	if err := opts.Validate(); err != nil {
		return ListResponse[FineTunedModelResponse]{}, err
	}
	m.logger.Info("listing fine-tuned models", zap.Int("page", opts.page()))
	return call[ListResponse[FineTunedModelResponse]](ctx, m.doer, Request{Method: http.MethodGet, Path: routes.ModelsFineTuned, Query: opts.values()})
}

// GetFineTunedModel returns a fine-tuned model by name.
func (m *ModelsClient) GetFineTunedModel(ctx context.Context, name string) (FineTunedModelResponse, error) {
	if err := m.ensureInitialized(); err != nil {
		return FineTunedModelResponse{}, err
	}
	if err := validatePathName("name", name); err != nil {
		return FineTunedModelResponse{}, err
	}
	m.logger.Info("getting fine-tuned model", zap.String("name", name))
	return call[FineTunedModelResponse](ctx, m.doer, Request{Method: http.MethodGet, Path: routes.FineTunedModel(name)})
}

// DeleteFineTunedModel marks a fine-tuned model as deleted.
func (m *ModelsClient) DeleteFineTunedModel(ctx context.Context, name string) error {
	if err := m.ensureInitialized(); err != nil {
		return err
	}
	if err := validatePathName("name", name); err != nil {
		return err
	}
	m.logger.Info("deleting fine-tuned model", zap.String("name", name))
	return callNoContent(ctx, m.doer, Request{Method: http.MethodDelete, Path: routes.FineTunedModel(name)})
}

// GetPerformance returns the evaluation metrics of a base or fine-tuned model.
func (m *ModelsClient) GetPerformance(ctx context.Context, name string) (Object, error) {
	if err := m.ensureInitialized(); err != nil {
		return Object{}, err
	}
	if err := validatePathName("name", name); err != nil {
		return Object{}, err
	}
	m.logger.Info("getting model performance", zap.String("name", name))
	return call[Object](ctx, m.doer, Request{Method: http.MethodGet, Path: routes.ModelPerformance(name)})
}

type compareModelsRequest struct {
	Models []string `json:"models"`
}

// Compare returns side-by-side metrics for the named models.
func (m *ModelsClient) Compare(ctx context.Context, names []string) (Object, error) {
	if err := m.ensureInitialized(); err != nil {
		return Object{}, err
	}
	if len(names) == 0 {
		return Object{}, invalidField("models", "at least one model name is required")
	}
	for _, name := range names {
		if err := validatePathName("models", name); err != nil {
			return Object{}, err
		}
	}
	m.logger.Info("comparing models", zap.Strings("models", names))
	return call[Object](ctx, m.doer, Request{
		Method: http.MethodPost,
		Path:   routes.ModelsCompare,
		JSON:   compareModelsRequest{Models: names},
	})
}
