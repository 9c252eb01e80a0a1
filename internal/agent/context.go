package agent

import (
	"time"

	"ihint/internal/logger"
)

// ExecutionContext tracks the execution state of an agent and provides logging utilities
type ExecutionContext struct {
	Logger        *logger.Logger
	StartTime     time.Time
	CurrentTurn   int
	TotalTurns    int
	ToolCallCount int
}

func NewExecutionContext(log *logger.Logger) *ExecutionContext {
	return &ExecutionContext{
		Logger:    log,
		StartTime: time.Now(),
	}
}

// LogToolCall logs a tool call with its parameters
func (ctx *ExecutionContext) LogToolCall(toolName, params string) {
	ctx.ToolCallCount++
	ctx.Logger.ToolCall(toolName, params)
}

func (ctx *ExecutionContext) LogToolResult(toolName string, success bool, output string, duration time.Duration) {
	ctx.Logger.ToolResult(toolName, success, output, duration)
}

func (ctx *ExecutionContext) LogResponse(content string) {
	ctx.Logger.AgentResponse(content)
}

func (ctx *ExecutionContext) LogProgress() {
	ctx.Logger.Debug("turn %d/%d", ctx.CurrentTurn, ctx.TotalTurns)
}
