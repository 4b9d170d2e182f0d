package sdk

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/luminolabs/lumino/sdk/go/testutil"
)

func newTestClient(t *testing.T, srv *testutil.Server) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("new test client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// pinNow fixes the validation clock for the duration of the test.
func pinNow(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func decodeBody(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	return out
}

func lastRequest(t *testing.T, srv *testutil.Server) testutil.RecordedRequest {
	t.Helper()
	req, ok := srv.LastRequest()
	if !ok {
		t.Fatal("expected a request")
	}
	return req
}

func assertClientError(t *testing.T, err error, field string) *ClientError {
	t.Helper()
	clientErr, ok := err.(*ClientError)
	if !ok {
		t.Fatalf("expected *ClientError, got %T (%v)", err, err)
	}
	if clientErr.Field != field {
		t.Fatalf("expected field %q, got %q (%s)", field, clientErr.Field, clientErr.Message)
	}
	return clientErr
}
