package sdk

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestObjectKeepsKeyOrder(t *testing.T) {
	raw := `{"zeta":1,"alpha":{"inner_b":true,"inner_a":null},"mid":["x",2.5]}`
	var obj Object
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if keys := strings.Join(obj.Keys(), ","); keys != "zeta,alpha,mid" {
		t.Fatalf("keys = %s", keys)
	}
	out, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != raw {
		t.Fatalf("round trip = %s", out)
	}
	if n, _ := obj.Get("zeta"); n != json.Number("1") {
		t.Fatalf("zeta = %#v", n)
	}
	plain := obj.Map()
	if _, ok := plain["alpha"].(map[string]any); !ok {
		t.Fatalf("Map should flatten nested objects, got %T", plain["alpha"])
	}
}

func TestObjectMutation(t *testing.T) {
	obj := NewObject("b", 1, "a", 2)
	obj.Set("c", 3)
	obj.Set("b", 10)
	obj.Delete("a")
	if keys := strings.Join(obj.Keys(), ","); keys != "b,c" {
		t.Fatalf("keys = %s", keys)
	}
	if v, _ := obj.Get("b"); v != 10 {
		t.Fatalf("b = %v", v)
	}
	var empty Object
	out, _ := json.Marshal(empty)
	if string(out) != "{}" {
		t.Fatalf("empty object = %s", out)
	}
	if err := json.Unmarshal([]byte(`[1]`), &empty); err == nil {
		t.Fatal("expected error for non-object")
	}
}

func TestOptional(t *testing.T) {
	type patch struct {
		Name Optional[string] `json:"name,omitzero"`
		Note Optional[string] `json:"note,omitzero"`
	}
	out, err := json.Marshal(patch{Name: Some("x"), Note: Null[string]()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"name":"x","note":null}` {
		t.Fatalf("marshal = %s", out)
	}
	out, _ = json.Marshal(patch{})
	if string(out) != `{}` {
		t.Fatalf("unset fields should be omitted, got %s", out)
	}

	var in patch
	if err := json.Unmarshal([]byte(`{"note":null}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !in.Name.IsZero() || !in.Note.IsNull() {
		t.Fatalf("unexpected decode %+v", in)
	}
	if _, ok := in.Note.Get(); ok {
		t.Fatal("null optional should not report a value")
	}
}

func TestDateTimeWireFormat(t *testing.T) {
	in := time.Date(2024, 12, 31, 23, 59, 59, 999, time.FixedZone("X", -2*3600))
	dt := NewDateTime(in)
	if dt.String() != "2025-01-01T01:59:59Z" {
		t.Fatalf("String = %s", dt)
	}
	out, _ := json.Marshal(dt)
	if string(out) != `"2025-01-01T01:59:59Z"` {
		t.Fatalf("marshal = %s", out)
	}

	for _, raw := range []string{
		"2025-01-01T01:59:59Z",
		"2025-01-01T01:59:59.123456Z",
		"2025-01-01T02:59:59+01:00",
		"2025-01-01T01:59:59",
		"2025-01-01 01:59:59",
	} {
		parsed, err := ParseDateTime(raw)
		if err != nil {
			t.Fatalf("ParseDateTime(%q): %v", raw, err)
		}
		if !parsed.Equal(dt) {
			t.Fatalf("ParseDateTime(%q) = %s", raw, parsed)
		}
	}
	if _, err := ParseDateTime("yesterday"); err == nil {
		t.Fatal("expected parse error")
	}

	var holder struct {
		At  DateTime  `json:"at"`
		Opt *DateTime `json:"opt"`
	}
	if err := json.Unmarshal([]byte(`{"at":null,"opt":null}`), &holder); err != nil {
		t.Fatalf("null timestamps should decode: %v", err)
	}
	if !holder.At.IsZero() || holder.Opt != nil {
		t.Fatalf("unexpected decode %+v", holder)
	}
}

func TestDateWireFormat(t *testing.T) {
	d, err := ParseDate("2024-02-28")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if next := d.AddDays(1); next.String() != "2024-02-29" {
		t.Fatalf("AddDays = %s", next)
	}
	if !d.Before(d.AddDays(1)) || d.Before(d) {
		t.Fatal("Before disagrees with calendar order")
	}
	out, _ := json.Marshal(d)
	if string(out) != `"2024-02-28"` {
		t.Fatalf("marshal = %s", out)
	}
	if _, err := ParseDate("2024-02-30"); err == nil {
		t.Fatal("expected invalid date")
	}

	pinNow(t, time.Date(2024, 3, 1, 23, 30, 0, 0, time.FixedZone("Y", -3600)))
	if got := Today().String(); got != "2024-03-02" {
		t.Fatalf("Today = %s", got)
	}
	if got := DateOf(time.Date(2024, 3, 1, 23, 30, 0, 0, time.FixedZone("Y", -3600))).String(); got != "2024-03-01" {
		t.Fatalf("DateOf = %s", got)
	}
}

func TestEnumsRejectUnknownValues(t *testing.T) {
	var status FineTuningJobStatus
	if err := json.Unmarshal([]byte(`"RUNNING"`), &status); err != nil || status != FineTuningJobStatusRunning {
		t.Fatalf("decode RUNNING: %v %q", err, status)
	}
	if err := json.Unmarshal([]byte(`"running"`), &status); err == nil {
		t.Fatal("enum values are case sensitive")
	}
	var job FineTuningJobResponse
	if err := json.Unmarshal([]byte(`{"status":"PAUSED"}`), &job); err == nil {
		t.Fatal("expected unknown status to fail decoding")
	}
	var key APIKeyResponse
	if err := json.Unmarshal([]byte(`{"status":null}`), &key); err == nil {
		t.Fatalf("expected null status to fail decoding, got %q", key.Status)
	}
	var holder struct {
		Status *DatasetStatus `json:"status"`
	}
	if err := json.Unmarshal([]byte(`{"status":null}`), &holder); err != nil || holder.Status != nil {
		t.Fatalf("null into an optional status: %v %v", err, holder.Status)
	}

	tests := []struct {
		name  string
		parse func(string) error
		good  string
	}{
		{name: "user status", parse: func(s string) error { _, err := ParseUserStatus(s); return err }, good: "ACTIVE"},
		{name: "api key status", parse: func(s string) error { _, err := ParseAPIKeyStatus(s); return err }, good: "EXPIRED"},
		{name: "dataset status", parse: func(s string) error { _, err := ParseDatasetStatus(s); return err }, good: "VALIDATED"},
		{name: "job type", parse: func(s string) error { _, err := ParseFineTuningJobType(s); return err }, good: "QLORA"},
		{name: "base model status", parse: func(s string) error { _, err := ParseBaseModelStatus(s); return err }, good: "DEPRECATED"},
		{name: "fine-tuned model status", parse: func(s string) error { _, err := ParseFineTunedModelStatus(s); return err }, good: "DELETED"},
		{name: "provider", parse: func(s string) error { _, err := ParseComputeProvider(s); return err }, good: "LUM"},
		{name: "transaction type", parse: func(s string) error { _, err := ParseBillingTransactionType(s); return err }, good: "NEW_USER_CREDIT"},
		{name: "usage unit", parse: func(s string) error { _, err := ParseUsageUnit(s); return err }, good: "TOKEN"},
		{name: "service name", parse: func(s string) error { _, err := ParseServiceName(s); return err }, good: "FINE_TUNING_JOB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.parse(tt.good); err != nil {
				t.Fatalf("parse %q: %v", tt.good, err)
			}
			if err := tt.parse("BOGUS"); err == nil {
				t.Fatal("expected unknown value to fail")
			}
		})
	}
}

func TestEnumsRoundTrip(t *testing.T) {
	for _, s := range datasetStatuses {
		out, _ := json.Marshal(s)
		var back DatasetStatus
		if err := json.Unmarshal(out, &back); err != nil || back != s {
			t.Fatalf("round trip %q: %v %q", s, err, back)
		}
	}
}

func TestResponseRoundTrip(t *testing.T) {
	raw := `{"id":"7c4e2b9d-1a2b-4c3d-8e9f-222222222222","created_at":"2024-05-01T00:00:00Z","updated_at":"2024-05-01T00:00:00Z","status":"VALIDATED","name":"train-set","file_name":"train.jsonl","file_size":10,"errors":{"line_3":"bad json","line_1":"missing field"}}`
	var first DatasetResponse
	if err := json.Unmarshal([]byte(raw), &first); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var second DatasetResponse
	if err := json.Unmarshal(out, &second); err != nil {
		t.Fatalf("unmarshal again: %v", err)
	}
	again, _ := json.Marshal(second)
	if string(out) != string(again) {
		t.Fatalf("round trip changed the value:\n%s\n%s", out, again)
	}
	if keys := first.Errors.Keys(); keys[0] != "line_3" {
		t.Fatalf("error keys = %v", keys)
	}
}
