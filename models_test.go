package sdk

import (
	"context"
	"net/http"
	"testing"

	"github.com/luminolabs/lumino/sdk/go/testutil"
)

func TestBaseModels(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodGet, "/models/base", http.StatusOK, `{"data":[
		{"id":"6f1c2f8a-4a53-4c3e-9e0b-5d0b3f7b8a11","hf_url":"https://huggingface.co/meta-llama/Llama-3-8B","status":"ACTIVE","name":"llama-3-8b","meta":{"params":"8B","context":8192}},
		{"id":"6f1c2f8a-4a53-4c3e-9e0b-5d0b3f7b8a12","hf_url":"https://huggingface.co/x","status":"DEPRECATED","name":"old","description":"legacy"}
	],"pagination":{"total_pages":1,"current_page":1,"items_per_page":20}}`)
	srv.HandleJSON(http.MethodGet, "/models/base/llama-3-8b", http.StatusOK,
		`{"id":"6f1c2f8a-4a53-4c3e-9e0b-5d0b3f7b8a11","hf_url":"https://huggingface.co/meta-llama/Llama-3-8B","status":"ACTIVE","name":"llama-3-8b"}`)
	client := newTestClient(t, srv)
	ctx := context.Background()

	page, err := client.Models.ListBaseModels(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("ListBaseModels: %v", err)
	}
	if len(page.Data) != 2 || page.Data[1].Status != BaseModelStatusDeprecated {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Data[0].Meta == nil || page.Data[0].Meta.Keys()[0] != "params" {
		t.Fatalf("meta = %v", page.Data[0].Meta)
	}
	if page.Data[1].Description == nil || *page.Data[1].Description != "legacy" {
		t.Fatalf("description = %v", page.Data[1].Description)
	}

	model, err := client.Models.GetBaseModel(ctx, "llama-3-8b")
	if err != nil {
		t.Fatalf("GetBaseModel: %v", err)
	}
	if model.HFURL != "https://huggingface.co/meta-llama/Llama-3-8B" {
		t.Fatalf("hf_url = %q", model.HFURL)
	}
}

func TestFineTunedModels(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodGet, "/models/fine-tuned/job-1-model", http.StatusOK,
		`{"id":"6f1c2f8a-4a53-4c3e-9e0b-5d0b3f7b8a13","created_at":"2024-05-01T00:00:00Z","updated_at":"2024-05-02T00:00:00Z","fine_tuning_job_name":"job-1","status":"ACTIVE","name":"job-1-model","artifacts":{"weights":"gs://bucket/job-1"}}`)
	srv.Handle(http.MethodDelete, "/models/fine-tuned/job-1-model", testutil.Route{Status: http.StatusNoContent})
	client := newTestClient(t, srv)
	ctx := context.Background()

	model, err := client.Models.GetFineTunedModel(ctx, "job-1-model")
	if err != nil {
		t.Fatalf("GetFineTunedModel: %v", err)
	}
	if model.FineTuningJobName != "job-1" || model.Status != FineTunedModelStatusActive {
		t.Fatalf("unexpected model %+v", model)
	}
	if weights, _ := model.Artifacts.Get("weights"); weights != "gs://bucket/job-1" {
		t.Fatalf("weights = %v", weights)
	}
	if err := client.Models.DeleteFineTunedModel(ctx, "job-1-model"); err != nil {
		t.Fatalf("DeleteFineTunedModel: %v", err)
	}
}

func TestModelNamesAreEscaped(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.HandleJSON(http.MethodGet, "/models/org%2Fmodel/performance", http.StatusOK, `{"accuracy":0.91}`)
	client := newTestClient(t, srv)

	perf, err := client.Models.GetPerformance(context.Background(), "org/model")
	if err != nil {
		t.Fatalf("GetPerformance: %v", err)
	}
	if perf.Len() != 1 {
		t.Fatalf("performance = %v", perf.Map())
	}
}

func TestCompareModels(t *testing.T) {
	mock := NewMockDoer().WithRaw(http.StatusOK, []byte(`{"a":{"loss":1},"b":{"loss":2}}`))
	models := NewModelsClient(mock, nil)

	out, err := models.Compare(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if keys := out.Keys(); len(keys) != 2 || keys[0] != "a" {
		t.Fatalf("keys = %v", keys)
	}
	raw, _ := EncodedJSON(mock.Requests()[0])
	if string(raw) != `{"models":["a","b"]}` {
		t.Fatalf("body = %s", raw)
	}

	_, err = models.Compare(context.Background(), nil)
	assertClientError(t, err, "models")
}
