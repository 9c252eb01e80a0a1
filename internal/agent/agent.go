package agent

import (
	"context"

	"ihint/internal/llm"
	"ihint/internal/logger"
	"ihint/internal/tool"
)

// StoppedMessage is the output of a run that used up its turns.
const StoppedMessage = "Agent stopped due to iteration limit or time limit."

// DefaultMaxTurns bounds the tool-calling loop when neither the Input nor the
// Config sets a limit.
const DefaultMaxTurns = 15

type Agent interface {
	Name() string
	Run(ctx context.Context, input *Input) (*Output, error)
}

// Input describes one run. ExtraPrompts are system messages placed after
// SystemPrompt; their {input} and {agent_scratchpad} markers are filled on
// every turn. A non-nil Handler switches the run to streaming.
type Input struct {
	Question     string
	SystemPrompt string
	ExtraPrompts []string
	Temperature  float32
	MaxTurns     int
	Handler      llm.StreamHandler
	Logger       *logger.Logger
}

type Output struct {
	Messages  []llm.Message
	Result    string
	ToolCalls []*tool.CallResult
	Turns     int
	Stopped   bool
}

type Config struct {
	MaxTokens         int
	MaxTurns          int
	ToolExecutionMode tool.ExecutionMode
}
