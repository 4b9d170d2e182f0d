package routes

import "testing"

func TestBuildersEscapeNames(t *testing.T) {
	cases := map[string]string{
		APIKey("my-key"):              "/api-keys/my-key",
		Dataset("a b"):                "/datasets/a%20b",
		DatasetDownload("train"):      "/datasets/train/download",
		FineTuningJob("job-1"):        "/fine-tuning/job-1",
		FineTuningJobCancel("job-1"):  "/fine-tuning/job-1/cancel",
		FineTuningJobMetrics("job-1"): "/fine-tuning/job-1/metrics",
		FineTuningJobLogs("job-1"):    "/fine-tuning/job-1/logs",
		BaseModel("llama-3"):          "/models/base/llama-3",
		FineTunedModel("ft/x"):        "/models/fine-tuned/ft%2Fx",
		ModelPerformance("llama-3"):   "/models/llama-3/performance",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("got %q want %q", got, want)
		}
	}
}
