package extract

import "fmt"

const previewLen = 160

// ExtractionError means the model answered but no JSON span of the expected shape
// could be located in the text.
type ExtractionError struct {
	Shape   Shape
	Preview string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("no JSON %s found in model output", e.Shape)
}

func (e *ExtractionError) ErrorCode() string { return "extraction_failed" }

// MalformedPayloadError means a candidate span was found but it is not valid JSON,
// or it does not decode into the requested type.
type MalformedPayloadError struct {
	Shape Shape
	Span  string
	Err   error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("model output contained a malformed JSON %s: %v", e.Shape, e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

func (e *MalformedPayloadError) ErrorCode() string { return "malformed_payload" }

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "…"
}
