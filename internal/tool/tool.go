package tool

import (
	"context"
	"encoding/json"
	"time"
)

// Tool defines the interface that all tools must implement
type Tool interface {
	// Name returns the unique identifier the model calls the tool by
	Name() string

	// Description tells the model when the tool is useful
	Description() string

	// Parameters returns the JSON schema for the tool's parameters
	Parameters() map[string]any

	// Execute runs the tool. A returned error aborts the agent run; a
	// Result with Success=false is reported back to the model instead.
	Execute(ctx context.Context, params json.RawMessage) (*Result, error)
}

type Result struct {
	Success bool
	Output  string
	Error   string
}

// Observation is the text handed back to the model for this result
func (r *Result) Observation() string {
	if r.Success || r.Error == "" {
		return r.Output
	}
	return r.Error
}

type CallResult struct {
	ToolName  string
	CallID    string
	Params    json.RawMessage
	Result    *Result
	StartTime time.Time
	EndTime   time.Time
}
