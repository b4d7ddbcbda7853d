package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// redactor scrubs structured log fields. A nil or disabled redactor passes values through.
type redactor struct {
	enabled bool
	salt    string
}

func redactorFromEnv() *redactor {
	r := &redactor{enabled: true, salt: strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))}
	switch strings.TrimSpace(strings.ToLower(os.Getenv("LOG_REDACTION_ENABLED"))) {
	case "0", "false", "no", "off":
		r.enabled = false
	}
	return r
}

// patient identifiers embedded in free text (briefings, prompts, model output)
var patientIDPattern = regexp.MustCompile(`\bPT-\d{3,6}\b`)

func (r *redactor) kvs(kv []interface{}) []interface{} {
	if r == nil || !r.enabled || len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := strings.TrimSpace(strings.ToLower(toString(kv[i])))
		out = append(out, toString(kv[i]), r.value(key, kv[i+1]))
	}
	return out
}

func (r *redactor) value(key string, val interface{}) interface{} {
	switch classify(key) {
	case keySecret:
		return "[REDACTED]"
	case keyPatient:
		return r.hash(val)
	}
	switch v := val.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, inner := range v {
			out[k] = r.value(strings.TrimSpace(strings.ToLower(k)), inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, inner := range v {
			out = append(out, r.value("", inner))
		}
		return out
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			out = append(out, r.text(s))
		}
		return out
	case string:
		if looksLikeJWT(v) {
			return "[REDACTED]"
		}
		return r.text(v)
	default:
		return val
	}
}

// text hashes patient ids found inside free-form strings.
func (r *redactor) text(s string) string {
	if !strings.Contains(s, "PT-") {
		return s
	}
	return patientIDPattern.ReplaceAllStringFunc(s, func(m string) string { return r.hash(m) })
}

func (r *redactor) hash(val interface{}) string {
	raw := toString(val)
	if raw == "" {
		return ""
	}
	h := sha256.New()
	if r.salt != "" {
		_, _ = h.Write([]byte(r.salt))
	}
	_, _ = h.Write([]byte(raw))
	sum := hex.EncodeToString(h.Sum(nil))
	if len(sum) > 12 {
		sum = sum[:12]
	}
	return "hash:" + sum
}

type keyClass int

const (
	keyPlain keyClass = iota
	keySecret
	keyPatient
)

var (
	secretKeyParts  = []string{"token", "authorization", "password", "secret", "api_key", "apikey", "x-api-key"}
	patientKeyParts = []string{"patient_id", "patientid"}
)

func classify(key string) keyClass {
	if key == "" {
		return keyPlain
	}
	for _, p := range secretKeyParts {
		if strings.Contains(key, p) {
			return keySecret
		}
	}
	for _, p := range patientKeyParts {
		if strings.Contains(key, p) {
			return keyPatient
		}
	}
	return keyPlain
}

func looksLikeJWT(s string) bool {
	if s == "" {
		return false
	}
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
