package sdk

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/luminolabs/lumino/sdk/go/testutil"
)

const jobDetailJSON = `{
	"id":"3d5e7f90-1111-4222-8333-444444444444",
	"created_at":"2024-05-01T00:00:00Z","updated_at":"2024-05-01T01:00:00Z",
	"base_model_name":"llama-3-8b","dataset_name":"train-set",
	"status":"STOPPING","name":"job-1","type":"LORA","provider":"GCP",
	"current_step":10,"total_steps":100,"current_epoch":null,"total_epochs":1,"num_tokens":123456,
	"parameters":{"lr":0.0003,"batch_size":2,"shuffle":true},
	"metrics":null,
	"timestamps":{"queued":"2024-05-01T00:00:00Z","running":"2024-05-01T00:10:00Z"}
}`

func TestFineTuningCreate(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodPost, "/fine-tuning", http.StatusCreated, jobDetailJSON)
	client := newTestClient(t, srv)

	req, err := NewFineTuningJobCreate("job-1", "llama-3-8b", "train-set", FineTuningJobTypeLoRA, DefaultFineTuningJobParameters().WithSeed(42))
	if err != nil {
		t.Fatalf("NewFineTuningJobCreate: %v", err)
	}
	req.Provider = ""
	job, err := client.FineTuning.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if job.Name != "job-1" || job.Type != FineTuningJobTypeLoRA || job.NumTokens == nil || *job.NumTokens != 123456 {
		t.Fatalf("unexpected job %+v", job)
	}

	body := decodeBody(t, lastRequest(t, srv).Body)
	if body["provider"] != string(ComputeProviderGCP) {
		t.Fatalf("provider should default to GCP, got %v", body["provider"])
	}
	params := body["parameters"].(map[string]any)
	if params["batch_size"] != float64(DefaultBatchSize) || params["seed"] != float64(42) || params["shuffle"] != true {
		t.Fatalf("unexpected parameters %v", params)
	}
}

func TestFineTuningCreateWithoutSeedSendsNull(t *testing.T) {
	mock := NewMockDoer().WithJSON(http.StatusCreated, map[string]any{"name": "job-1"})
	jobs := NewFineTuningClient(mock, nil)

	req, err := NewFineTuningJobCreate("job-1", "llama-3-8b", "train-set", FineTuningJobTypeFull, DefaultFineTuningJobParameters())
	if err != nil {
		t.Fatalf("NewFineTuningJobCreate: %v", err)
	}
	if _, err := jobs.Create(context.Background(), req); err != nil {
		t.Fatalf("Create: %v", err)
	}
	raw, err := EncodedJSON(mock.Requests()[0])
	if err != nil {
		t.Fatalf("EncodedJSON: %v", err)
	}
	params := decodeBody(t, raw)["parameters"].(map[string]any)
	if v, ok := params["seed"]; !ok || v != nil {
		t.Fatalf("seed should be an explicit null, got %v", params)
	}
}

func TestFineTuningCreateValidation(t *testing.T) {
	mock := NewMockDoer()
	jobs := NewFineTuningClient(mock, nil)
	base := FineTuningJobCreate{
		BaseModelName: "llama-3-8b",
		DatasetName:   "train-set",
		Name:          "job-1",
		Type:          FineTuningJobTypeQLoRA,
		Parameters:    DefaultFineTuningJobParameters(),
	}
	tests := []struct {
		name   string
		mutate func(*FineTuningJobCreate)
		field  string
	}{
		{name: "missing base model", mutate: func(r *FineTuningJobCreate) { r.BaseModelName = "" }, field: "base_model_name"},
		{name: "missing dataset", mutate: func(r *FineTuningJobCreate) { r.DatasetName = "" }, field: "dataset_name"},
		{name: "bad name", mutate: func(r *FineTuningJobCreate) { r.Name = "Job_1" }, field: "name"},
		{name: "bad type", mutate: func(r *FineTuningJobCreate) { r.Type = "PARTIAL" }, field: "type"},
		{name: "bad provider", mutate: func(r *FineTuningJobCreate) { r.Provider = "AWS" }, field: "provider"},
		{name: "bad batch", mutate: func(r *FineTuningJobCreate) { r.Parameters.BatchSize = 9 }, field: "parameters.batch_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := jobs.Create(context.Background(), req)
			assertClientError(t, err, tt.field)
		})
	}
	if len(mock.Requests()) != 0 {
		t.Fatal("no request should be sent")
	}
}

func TestFineTuningGetDetail(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodGet, "/fine-tuning/job-1", http.StatusOK, jobDetailJSON)
	client := newTestClient(t, srv)

	job, err := client.FineTuning.Get(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if job.Status != FineTuningJobStatusStopping || job.Status.IsTerminal() {
		t.Fatalf("status = %q", job.Status)
	}
	if job.CurrentStep == nil || *job.CurrentStep != 10 || job.CurrentEpoch != nil {
		t.Fatalf("unexpected progress %+v", job.FineTuningJobResponse)
	}
	if keys := job.Parameters.Keys(); len(keys) != 3 || keys[0] != "lr" || keys[2] != "shuffle" {
		t.Fatalf("parameters keys = %v", keys)
	}
	if job.Metrics != nil {
		t.Fatalf("expected nil metrics, got %v", job.Metrics)
	}
	if job.Timestamps == nil || job.Timestamps.Len() != 2 {
		t.Fatalf("unexpected timestamps %v", job.Timestamps)
	}
}

func TestFineTuningListFiltersByStatus(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodGet, "/fine-tuning", http.StatusOK, `{"data":[],"pagination":{"total_pages":0,"current_page":1,"items_per_page":20}}`)
	client := newTestClient(t, srv)

	if _, err := client.FineTuning.List(context.Background(), ListFineTuningJobsParams{Status: FineTuningJobStatusRunning}); err != nil {
		t.Fatalf("List: %v", err)
	}
	query, _ := url.ParseQuery(lastRequest(t, srv).RawQuery)
	if query.Get("status") != "RUNNING" || query.Get("page") != "1" {
		t.Fatalf("unexpected query %v", query)
	}

	_, err := client.FineTuning.List(context.Background(), ListFineTuningJobsParams{Status: "SLEEPING"})
	assertClientError(t, err, "status")
}

func TestFineTuningCancelUsesPatch(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodPatch, "/fine-tuning/job-1/cancel", http.StatusOK, jobDetailJSON)
	client := newTestClient(t, srv)

	job, err := client.FineTuning.Cancel(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if job.Status != FineTuningJobStatusStopping {
		t.Fatalf("status = %q", job.Status)
	}
}

func TestFineTuningMetricsLogsDelete(t *testing.T) {
	mock := NewMockDoer().
		WithRaw(http.StatusOK, []byte(`{"loss":[1.2,0.9],"step":[1,2]}`)).
		WithRaw(http.StatusOK, []byte(`{"lines":["start","done"]}`)).
		WithRaw(http.StatusNoContent, nil)
	jobs := NewFineTuningClient(mock, nil)
	ctx := context.Background()

	metrics, err := jobs.Metrics(ctx, "job-1")
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if keys := metrics.Keys(); len(keys) != 2 || keys[0] != "loss" {
		t.Fatalf("metrics keys = %v", keys)
	}
	logs, err := jobs.Logs(ctx, "job-1")
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if lines, _ := logs.Get("lines"); len(lines.([]any)) != 2 {
		t.Fatalf("lines = %v", lines)
	}
	if err := jobs.Delete(ctx, "job-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	reqs := mock.Requests()
	want := []string{"GET /fine-tuning/job-1/metrics", "GET /fine-tuning/job-1/logs", "DELETE /fine-tuning/job-1"}
	for i, req := range reqs {
		if got := req.Method + " " + req.Path; got != want[i] {
			t.Fatalf("request %d = %s, want %s", i, got, want[i])
		}
	}
}

func TestJobStatusIsTerminal(t *testing.T) {
	terminal := map[FineTuningJobStatus]bool{
		FineTuningJobStatusStopped:   true,
		FineTuningJobStatusCompleted: true,
		FineTuningJobStatusFailed:    true,
		FineTuningJobStatusDeleted:   true,
	}
	for _, status := range fineTuningJobStatuses {
		if status.IsTerminal() != terminal[status] {
			t.Fatalf("IsTerminal(%s) = %v", status, status.IsTerminal())
		}
	}
}
