package sdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luminolabs/lumino/sdk/go/routes"
)

// ChunkSize is the buffer size used to stream dataset files.
const ChunkSize = 8192

// DatasetResponse describes an uploaded dataset.
type DatasetResponse struct {
	ID          uuid.UUID     `json:"id"`
	CreatedAt   DateTime      `json:"created_at"`
	UpdatedAt   DateTime      `json:"updated_at"`
	Status      DatasetStatus `json:"status"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	FileName    string        `json:"file_name"`
	FileSize    int64         `json:"file_size"`
	Errors      *Object       `json:"errors,omitempty"`
}

// DatasetCreate holds the form fields sent with an upload.
type DatasetCreate struct {
	Name        string
	Description string
}

// NewDatasetCreate validates and returns upload metadata.
func NewDatasetCreate(name, description string) (DatasetCreate, error) {
	req := DatasetCreate{Name: name, Description: description}
	if err := req.Validate(); err != nil {
		return DatasetCreate{}, err
	}
	return req, nil
}

// Validate checks the name pattern and description length.
func (r DatasetCreate) Validate() error {
	if err := validateName("name", r.Name); err != nil {
		return err
	}
	return validateDescription("description", r.Description)
}

// DatasetUpdate is a partial update of a dataset.
type DatasetUpdate struct {
	Name        Optional[string] `json:"name,omitzero"`
	Description Optional[string] `json:"description,omitzero"`
}

// Validate checks only the fields that are set.
func (r DatasetUpdate) Validate() error {
	if name, ok := r.Name.Get(); ok {
		if err := validateName("name", name); err != nil {
			return err
		}
	}
	if description, ok := r.Description.Get(); ok {
		if err := validateDescription("description", description); err != nil {
			return err
		}
	}
	return nil
}

// DatasetsClient wraps dataset upload and management endpoints.
type DatasetsClient struct {
	doer   Doer
	logger *zap.Logger
}

// NewDatasetsClient binds the dataset endpoints to d.
func NewDatasetsClient(d Doer, logger *zap.Logger) *DatasetsClient {
	return &DatasetsClient{doer: d, logger: facadeLogger(logger, "dataset")}
}

func (d *DatasetsClient) ensureInitialized() error {
	if d == nil || d.doer == nil {
		return fmt.Errorf("sdk: datasets client not initialized")
	}
	return nil
}

// Upload streams the file at filePath as a multipart form. A file that cannot
// be opened is reported unchanged and nothing is sent.
func (d *DatasetsClient) Upload(ctx context.Context, filePath string, req DatasetCreate) (DatasetResponse, error) {
	if err := d.ensureInitialized(); err != nil {
		return DatasetResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return DatasetResponse{}, err
	}
	file, err := os.Open(filePath)
	if err != nil {
		d.logger.Error("dataset file not readable", zap.String("path", filePath), zap.Error(err))
		return DatasetResponse{}, err
	}
	defer file.Close()

	d.logger.Info("uploading dataset", zap.String("name", req.Name), zap.String("path", filePath))
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeDatasetForm(form, file, req))
	}()
	resp, err := call[DatasetResponse](ctx, d.doer, Request{
		Method:      http.MethodPost,
		Path:        routes.Datasets,
		Body:        pr,
		ContentType: form.FormDataContentType(),
	})
	// Unblocks the form writer if the request ended before draining the pipe.
	_ = pr.Close()
	return resp, err
}

func writeDatasetForm(form *multipart.Writer, file *os.File, req DatasetCreate) error {
	part, err := form.CreateFormFile("file", filepath.Base(file.Name()))
	if err != nil {
		return err
	}
	if _, err := io.CopyBuffer(part, struct{ io.Reader }{file}, make([]byte, ChunkSize)); err != nil {
		return err
	}
	if err := form.WriteField("name", req.Name); err != nil {
		return err
	}
	if req.Description != "" {
		if err := form.WriteField("description", req.Description); err != nil {
			return err
		}
	}
	return form.Close()
}

// List returns one page of datasets.
func (d *DatasetsClient) List(ctx context.Context, opts ListOptions) (ListResponse[DatasetResponse], error) {
	if err := d.ensureInitialized(); err != nil {
		return ListResponse[DatasetResponse]{}, err
	}
	if err := opts.Validate(); err != nil {
		return ListResponse[DatasetResponse]{}, err
	}
	d.logger.Info("listing datasets", zap.Int("page", opts.page()))
	return call[ListResponse[DatasetResponse]](ctx, d.doer, Request{Method: http.MethodGet, Path: routes.Datasets, Query: opts.values()})
}

// Get returns a dataset by name.
func (d *DatasetsClient) Get(ctx context.Context, name string) (DatasetResponse, error) {
	if err := d.ensureInitialized(); err != nil {
		return DatasetResponse{}, err
	}
	if err := validatePathName("name", name); err != nil {
		return DatasetResponse{}, err
	}
	d.logger.Info("getting dataset", zap.String("name", name))
	return call[DatasetResponse](ctx, d.doer, Request{Method: http.MethodGet, Path: routes.Dataset(name)})
}

// Update applies a partial update to a dataset.
func (d *DatasetsClient) Update(ctx context.Context, name string, update DatasetUpdate) (DatasetResponse, error) {
	if err := d.ensureInitialized(); err != nil {
		return DatasetResponse{}, err
	}
	if err := validatePathName("name", name); err != nil {
		return DatasetResponse{}, err
	}
	if err := update.Validate(); err != nil {
		return DatasetResponse{}, err
	}
	d.logger.Info("updating dataset", zap.String("name", name))
	return call[DatasetResponse](ctx, d.doer, Request{Method: http.MethodPatch, Path: routes.Dataset(name), JSON: update})
}

// Delete marks a dataset as deleted.
func (d *DatasetsClient) Delete(ctx context.Context, name string) error {
	if err := d.ensureInitialized(); err != nil {
		return err
	}
	if err := validatePathName("name", name); err != nil {
		return err
	}
	d.logger.Info("deleting dataset", zap.String("name", name))
	return callNoContent(ctx, d.doer, Request{Method: http.MethodDelete, Path: routes.Dataset(name)})
}

// Download streams a dataset into outputPath and returns the bytes written.
// The output file is created only after the server accepts the request.
func (d *DatasetsClient) Download(ctx context.Context, name, outputPath string) (int64, error) {
	if err := d.ensureInitialized(); err != nil {
		return 0, err
	}
	if err := validatePathName("name", name); err != nil {
		return 0, err
	}
	if outputPath == "" {
		return 0, invalidField("output_path", "is required")
	}
	d.logger.Info("downloading dataset", zap.String("name", name))
	resp, err := d.doer.Do(ctx, Request{Method: http.MethodGet, Path: routes.DatasetDownload(name), Stream: true})
	if err != nil {
		return 0, err
	}
	stream := resp.Stream
	if stream == nil {
		stream = http.NoBody
	}
	defer stream.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		d.logger.Error("error writing dataset to file", zap.String("path", outputPath), zap.Error(err))
		return 0, err
	}
	written, err := copyChunks(out, stream)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		d.logger.Error("error writing dataset to file", zap.String("path", outputPath), zap.Error(err))
		return written, err
	}
	d.logger.Info("dataset downloaded", zap.String("path", outputPath), zap.Int64("bytes", written))
	return written, nil
}

// copyChunks copies src to dst through a ChunkSize buffer. Read failures are
// transport errors; write failures are returned unchanged.
func copyChunks(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, ChunkSize)
	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			w, err := dst.Write(buf[:n])
			written += int64(w)
			if err != nil {
				return written, err
			}
			if w != n {
				return written, io.ErrShortWrite
			}
		}
		if errors.Is(readErr, io.EOF) {
			return written, nil
		}
		if readErr != nil {
			return written, transportError("read download stream", readErr)
		}
	}
}
