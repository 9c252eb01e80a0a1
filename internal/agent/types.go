package agent

import (
	"ihint/internal/llm"
	"ihint/internal/tool"
)

// Factory builds the agent a capability runs. Services take a Factory so
// the reasoning loop can be replaced in tests.
type Factory func(client llm.Client, registry *tool.Registry) Agent

// NewFactory returns a Factory producing function-calling agents with cfg.
func NewFactory(cfg *Config) Factory {
	return func(client llm.Client, registry *tool.Registry) Agent {
		return NewBaseAgent("functions", client, registry, cfg)
	}
}
