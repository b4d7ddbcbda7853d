package prompts

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Prompt is a rendered instruction pair ready for an LLM engine.
type Prompt struct {
	Name    string
	Version int
	Mode    string
	System  string
	User    string
}

// Text joins system and user parts for providers that take one string.
func (p Prompt) Text() string {
	return strings.TrimSpace(p.System + "\n\n" + p.User)
}

func (p Prompt) Fingerprint() string {
	h := sha256.Sum256([]byte(
		strings.TrimSpace(p.Name) + "|" +
			strconv.Itoa(p.Version) + "|" +
			strings.TrimSpace(p.System) + "|" +
			strings.TrimSpace(p.User),
	))
	return hex.EncodeToString(h[:])
}
