// Package ctxutil carries per-request correlation ids through context.
package ctxutil

import "context"

type traceKey struct{}

// TraceData correlates one HTTP request across logs, spans and error bodies.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	td, _ := ctx.Value(traceKey{}).(*TraceData)
	return td
}

// LogFields returns the ids as logger key-value pairs.
func LogFields(ctx context.Context) []interface{} {
	td := GetTraceData(ctx)
	if td == nil {
		return nil
	}
	var kv []interface{}
	for _, f := range [...]struct{ k, v string }{{"request_id", td.RequestID}, {"trace_id", td.TraceID}} {
		if f.v != "" {
			kv = append(kv, f.k, f.v)
		}
	}
	return kv
}
