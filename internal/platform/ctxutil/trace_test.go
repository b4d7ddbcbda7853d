package ctxutil

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTraceDataRoundTrip(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1", RequestID: "r1"})
	td := GetTraceData(ctx)
	if td == nil || td.TraceID != "t1" || td.RequestID != "r1" {
		t.Fatalf("GetTraceData = %+v", td)
	}
	want := []interface{}{"request_id", "r1", "trace_id", "t1"}
	if diff := cmp.Diff(want, LogFields(ctx)); diff != "" {
		t.Fatalf("LogFields mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingTraceData(t *testing.T) {
	if td := GetTraceData(context.Background()); td != nil {
		t.Fatalf("expected nil, got %+v", td)
	}
	if f := LogFields(context.Background()); f != nil {
		t.Fatalf("expected nil fields, got %v", f)
	}
}
