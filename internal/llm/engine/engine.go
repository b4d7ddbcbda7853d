// Package engine defines the provider-neutral text generation contract.
package engine

import (
	"context"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

type GenerateOptions struct {
	// Task is the prompt name; engines may use it for routing or canned output.
	Task            string
	Temperature     float64
	JSONMode        bool
	MaxOutputTokens int
}

type Engine interface {
	Name() string
	GenerateText(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error)
}

// SplitSystem joins all system messages and returns the remaining conversation.
// Empty messages are dropped.
func SplitSystem(messages []Message) (string, []Message) {
	var system []string
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(m.Role), RoleSystem) {
			system = append(system, content)
			continue
		}
		role := RoleUser
		switch strings.ToLower(strings.TrimSpace(m.Role)) {
		case RoleAssistant, "model":
			role = RoleAssistant
		}
		rest = append(rest, Message{Role: role, Content: content})
	}
	return strings.Join(system, "\n\n"), rest
}
