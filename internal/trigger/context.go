// Package trigger classifies the CI trigger event into a Mode and derives
// the facts (PR number, commit hash) that job assembly depends on.
package trigger

import (
	"encoding/json"
	"fmt"
)

// Event kinds delivered by the workflow engine.
const (
	EventPullRequest = "pull_request"
	EventPush        = "push"
)

// Context is the trigger metadata supplied by the workflow engine, decoded
// from the JSON context argument. Read-only after parsing.
type Context struct {
	EventName string       `json:"event_name"`
	Ref       string       `json:"ref"`
	Event     ContextEvent `json:"event"`
}

// ContextEvent carries the event payload fields we consume. Only
// pull_request events populate Number.
type ContextEvent struct {
	Number int `json:"number"`
}

// ParseContext decodes the workflow engine's context JSON.
func ParseContext(data []byte) (*Context, error) {
	var ctx Context
	if err := json.Unmarshal(data, &ctx); err != nil {
		return nil, fmt.Errorf("failed to decode trigger context: %w", err)
	}
	if ctx.EventName == "" {
		return nil, fmt.Errorf("trigger context missing required field: event_name")
	}
	return &ctx, nil
}
