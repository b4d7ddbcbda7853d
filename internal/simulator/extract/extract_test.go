package extract

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func decode(t *testing.T, raw json.RawMessage) any {
	t.Helper()
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	return v
}

func TestExtractEquivalentAcrossWrappings(t *testing.T) {
	want := map[string]any{"a": float64(1), "b": []any{"x", "y"}}
	inputs := map[string]string{
		"bare":             `{"a":1,"b":["x","y"]}`,
		"fenced":           "```json\n{\"a\":1,\"b\":[\"x\",\"y\"]}\n```",
		"fence no lang":    "```\n{\"a\": 1, \"b\": [\"x\", \"y\"]}\n```",
		"prose then fence": "Sure! ```json\n{\"a\":1,\"b\":[\"x\",\"y\"]}\n```",
		"prose around":     "Here is the scenario:\n{\"a\": 1, \"b\": [\"x\", \"y\"]}\nLet me know if you need more.",
		"whitespace":       "\n\n   {\"a\":1,\"b\":[\"x\",\"y\"]}   \n",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			got, err := Extract(in, Object)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if diff := cmp.Diff(want, decode(t, got)); diff != "" {
				t.Fatalf("payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractFencedReplyWithPreamble(t *testing.T) {
	got, err := Extract("Sure! ```json\n{\"a\":1}\n```", Object)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Fatalf("got %s", got)
	}
}

func TestExtractNoBraceIsExtractionError(t *testing.T) {
	_, err := Extract("I'm sorry, I can't produce a scenario right now.", Object)
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %T %v, want *ExtractionError", err, err)
	}
	if ee.ErrorCode() != "extraction_failed" {
		t.Fatalf("code = %q", ee.ErrorCode())
	}

	_, err = Extract(`{"only":"an object"}`, Array)
	if !errors.As(err, &ee) {
		t.Fatalf("array shape on object text: err = %v", err)
	}

	_, err = Extract("closing only } here", Object)
	if !errors.As(err, &ee) {
		t.Fatalf("close before open: err = %v", err)
	}
}

func TestExtractMalformedPayload(t *testing.T) {
	_, err := Extract(`{"alert_title": "Ice storm", "briefing": }`, Object)
	var me *MalformedPayloadError
	if !errors.As(err, &me) {
		t.Fatalf("err = %T %v, want *MalformedPayloadError", err, err)
	}
	if errors.Unwrap(err) == nil {
		t.Fatal("malformed payload error should wrap the parse error")
	}
	var ee *ExtractionError
	if errors.As(err, &ee) {
		t.Fatal("malformed payload must not also be an extraction error")
	}
}

func TestExtractOuterGreedyPrefersWholePayload(t *testing.T) {
	in := `Example format {"x": 1} is shown first, then the answer: {"scenario": {"a": {"b": 2}}}`
	got, err := Extract(in, Object)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	// The outer span does not parse, so the first balanced span is taken.
	if string(got) != `{"x":1}` {
		t.Fatalf("got %s", got)
	}

	nested := `{"outer": {"inner": [1, {"deep": true}]}}`
	got, err = Extract("prefix "+nested+" suffix", Object)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if diff := cmp.Diff(decode(t, json.RawMessage(nested)), decode(t, got)); diff != "" {
		t.Fatalf("nested mismatch:\n%s", diff)
	}
}

func TestExtractTrailingBracesFallsBackToBalanced(t *testing.T) {
	in := "{\"grade\": \"B\", \"score\": 85}\n\nNote: use {braces} carefully."
	got, err := Extract(in, Object)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := map[string]any{"grade": "B", "score": float64(85)}
	if diff := cmp.Diff(want, decode(t, got)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractPrefersPayloadOverProseFragment(t *testing.T) {
	in := `Scores use the {"scale":"0-100"} convention. {"grade":"B","score":85,"summary":"Solid triage"} Let me know if you need more }`
	got, err := Extract(in, Object)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := map[string]any{"grade": "B", "score": float64(85), "summary": "Solid triage"}
	if diff := cmp.Diff(want, decode(t, got)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractBracesInsideStrings(t *testing.T) {
	in := `{"briefing": "use the {template} field } carefully", "n": 2} trailing }`
	got, err := Extract(in, Object)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := map[string]any{"briefing": "use the {template} field } carefully", "n": float64(2)}
	if diff := cmp.Diff(want, decode(t, got)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractArray(t *testing.T) {
	in := "```json\n[{\"id\": 1, \"type\": \"free_text\"}, {\"id\": 2}]\n```"
	got, err := Extract(in, Array)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	arr, ok := decode(t, got).([]any)
	if !ok || len(arr) != 2 {
		t.Fatalf("got %s", got)
	}
}

func TestDecodeInto(t *testing.T) {
	type grade struct {
		Grade string `json:"grade"`
		Score int    `json:"score"`
	}
	g, err := DecodeInto[grade]("```json\n{\"grade\":\"B\",\"score\":85}\n```", Object)
	if err != nil {
		t.Fatalf("DecodeInto: %v", err)
	}
	if g.Score != 85 || g.Grade != "B" {
		t.Fatalf("got %+v", g)
	}

	_, err = DecodeInto[grade](`{"grade": ["not", "a", "string"]}`, Object)
	var me *MalformedPayloadError
	if !errors.As(err, &me) {
		t.Fatalf("type mismatch err = %v, want *MalformedPayloadError", err)
	}
}

func TestStripFences(t *testing.T) {
	tests := map[string]string{
		"```json\n{}\n```": "{}",
		"```{}```":         "{}",
		"  plain  ":        "plain",
		"```JSON\n[1]":     "[1]",
	}
	for in, want := range tests {
		if got := StripFences(in); got != want {
			t.Errorf("StripFences(%q) = %q, want %q", in, got, want)
		}
	}
}
