package promptstyle

import "strings"

const marker = "FLIGHTSIM_OUTPUT_RULES"

// Output modes understood by ApplySystem.
const (
	ModeJSONObject = "json_object"
	ModeJSONArray  = "json_array"
	ModeMarkdown   = "markdown"
	ModeText       = "text"
)

// ApplySystem appends a short output-rules block to a composed prompt. It is
// idempotent and deterministic.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" {
		return base
	}
	if strings.Contains(base, marker) {
		return base
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\n")
	b.WriteString(marker)
	b.WriteString(":\n- Use only the identifiers present in the data above; do not invent flight or patient ids.")
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeJSONObject:
		b.WriteString("\n- Return exactly one JSON object and nothing else. No markdown fences.")
	case ModeJSONArray:
		b.WriteString("\n- Return exactly one JSON array and nothing else. No markdown fences.")
	case ModeMarkdown:
		b.WriteString("\n- Format the answer with markdown.")
	default:
		b.WriteString("\n- Reply in plain prose.")
	}
	return b.String()
}
