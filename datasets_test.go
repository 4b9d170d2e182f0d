package sdk

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luminolabs/lumino/sdk/go/testutil"
)

const datasetJSON = `{"id":"7c4e2b9d-1a2b-4c3d-8e9f-222222222222","created_at":"2024-05-01T00:00:00Z","updated_at":"2024-05-01T00:00:00Z","status":"UPLOADED","name":"train-set","description":"chat pairs","file_name":"train.jsonl","file_size":20000,"errors":null}`

func TestDatasetUploadStreamsMultipart(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodPost, "/datasets", http.StatusCreated, datasetJSON)
	client := newTestClient(t, srv)

	// Larger than one chunk so the copy loops.
	content := strings.Repeat(`{"prompt":"hi","completion":"hello"}`+"\n", 600)
	path := filepath.Join(t.TempDir(), "train.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	req, err := NewDatasetCreate("train-set", "chat pairs")
	if err != nil {
		t.Fatalf("NewDatasetCreate: %v", err)
	}
	dataset, err := client.Datasets.Upload(context.Background(), path, req)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if dataset.Status != DatasetStatusUploaded || dataset.FileSize != 20000 {
		t.Fatalf("unexpected dataset %+v", dataset)
	}
	if dataset.Description == nil || *dataset.Description != "chat pairs" {
		t.Fatalf("description = %v", dataset.Description)
	}

	form, err := lastRequest(t, srv).Form()
	if err != nil {
		t.Fatalf("parse form: %v", err)
	}
	if got := form.Value["name"]; len(got) != 1 || got[0] != "train-set" {
		t.Fatalf("name field = %v", got)
	}
	if got := form.Value["description"]; len(got) != 1 || got[0] != "chat pairs" {
		t.Fatalf("description field = %v", got)
	}
	files := form.File["file"]
	if len(files) != 1 || files[0].Filename != "train.jsonl" {
		t.Fatalf("file part = %v", files)
	}
	f, err := files[0].Open()
	if err != nil {
		t.Fatalf("open part: %v", err)
	}
	defer f.Close()
	uploaded, _ := io.ReadAll(f)
	if string(uploaded) != content {
		t.Fatalf("uploaded %d bytes, want %d", len(uploaded), len(content))
	}
}

func TestDatasetUploadOmitsEmptyDescription(t *testing.T) {
	mock := NewMockDoer().WithJSON(http.StatusCreated, map[string]any{"name": "train-set", "status": "UPLOADED"})
	datasets := NewDatasetsClient(mock, nil)

	path := filepath.Join(t.TempDir(), "train.jsonl")
	if err := os.WriteFile(path, []byte("{}\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := datasets.Upload(context.Background(), path, DatasetCreate{Name: "train-set"}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	reqs := mock.Requests()
	if len(reqs) != 1 || reqs[0].Method != http.MethodPost || !strings.HasPrefix(reqs[0].ContentType, "multipart/form-data") {
		t.Fatalf("unexpected requests %+v", reqs)
	}
}

func TestDatasetUploadMissingFile(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	client := newTestClient(t, srv)

	_, err := client.Datasets.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.jsonl"), DatasetCreate{Name: "train-set"})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) || IsServerError(err) || IsClientError(err) {
		t.Fatalf("expected the os error unchanged, got %T", err)
	}
	if len(srv.Requests()) != 0 {
		t.Fatal("no request should be sent")
	}
}

func TestDatasetUploadValidatesFirst(t *testing.T) {
	mock := NewMockDoer()
	datasets := NewDatasetsClient(mock, nil)

	_, err := datasets.Upload(context.Background(), "ignored.jsonl", DatasetCreate{Name: "Train Set"})
	assertClientError(t, err, "name")
	_, err = datasets.Upload(context.Background(), "ignored.jsonl", DatasetCreate{Name: "ok", Description: strings.Repeat("d", MaxDescriptionLength+1)})
	assertClientError(t, err, "description")
	if len(mock.Requests()) != 0 {
		t.Fatal("no request should be sent")
	}
}

func TestDatasetDownloadWritesChunks(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	chunks := []string{strings.Repeat("a", ChunkSize), strings.Repeat("b", 100), "\n"}
	srv.Handle(http.MethodGet, "/datasets/train-set/download", testutil.Route{Chunks: chunks, ContentType: "application/octet-stream"})
	client := newTestClient(t, srv)

	out := filepath.Join(t.TempDir(), "out.jsonl")
	written, err := client.Datasets.Download(context.Background(), "train-set", out)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	want := strings.Join(chunks, "")
	if written != int64(len(want)) {
		t.Fatalf("written = %d, want %d", written, len(want))
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != want {
		t.Fatal("downloaded content differs")
	}
	if accept := lastRequest(t, srv).Header.Get("Accept"); accept != "" {
		t.Fatalf("streaming request should not ask for JSON, Accept = %q", accept)
	}
}

func TestDatasetDownloadErrorCreatesNoFile(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	client := newTestClient(t, srv)

	out := filepath.Join(t.TempDir(), "out.jsonl")
	_, err := client.Datasets.Download(context.Background(), "missing", out)
	if !IsNotFound(err) {
		t.Fatalf("expected 404, got %v", err)
	}
	if _, statErr := os.Stat(out); !errors.Is(statErr, fs.ErrNotExist) {
		t.Fatalf("output file should not exist, stat err = %v", statErr)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCopyChunksErrors(t *testing.T) {
	_, err := copyChunks(io.Discard, failingReader{})
	if !IsServerError(err) || StatusCode(err) != 0 {
		t.Fatalf("read failure should be a transport error, got %v", err)
	}
	_, err = copyChunks(failingWriter{}, bytes.NewReader([]byte("data")))
	if err == nil || IsServerError(err) {
		t.Fatalf("write failure should be returned unchanged, got %v", err)
	}
}

func TestDatasetUpdateAndDelete(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodPatch, "/datasets/train-set", http.StatusOK, datasetJSON)
	srv.Handle(http.MethodDelete, "/datasets/train-set", testutil.Route{Status: http.StatusNoContent})
	client := newTestClient(t, srv)

	_, err := client.Datasets.Update(context.Background(), "train-set", DatasetUpdate{Description: Null[string]()})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	body := decodeBody(t, lastRequest(t, srv).Body)
	if v, ok := body["description"]; !ok || v != nil || len(body) != 1 {
		t.Fatalf("expected explicit null description only, got %v", body)
	}

	if err := client.Datasets.Delete(context.Background(), "train-set"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := lastRequest(t, srv).Method; got != http.MethodDelete {
		t.Fatalf("method = %s", got)
	}
}

func TestDatasetList(t *testing.T) {
	mock := NewMockDoer().WithRaw(http.StatusOK, []byte(`{"data":[`+datasetJSON+`],"pagination":{"total_pages":1,"current_page":1,"items_per_page":20}}`))
	datasets := NewDatasetsClient(mock, nil)

	page, err := datasets.List(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Name != "train-set" || page.Data[0].Errors != nil {
		t.Fatalf("unexpected page %+v", page)
	}
}
