package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ihint/internal/llm"
	"ihint/internal/logger"
	"ihint/internal/prompt"
	"ihint/internal/tool"
)

// BaseAgent drives an OpenAI function-calling loop: call the model with the
// registry's tools, run the requested tools, feed the observations back and
// stop at the first turn without tool calls.
type BaseAgent struct {
	name         string
	llmClient    llm.Client
	toolRegistry *tool.Registry
	executor     *tool.Executor
	config       *Config
}

func NewBaseAgent(name string, client llm.Client, registry *tool.Registry, cfg *Config) *BaseAgent {
	if cfg == nil {
		cfg = &Config{MaxTurns: DefaultMaxTurns}
	}

	executor := tool.NewExecutor(registry)
	if cfg.ToolExecutionMode != "" {
		executor.SetMode(cfg.ToolExecutionMode)
	}

	return &BaseAgent{
		name:         name,
		llmClient:    client,
		toolRegistry: registry,
		executor:     executor,
		config:       cfg,
	}
}

func (a *BaseAgent) Name() string {
	return a.name
}

func (a *BaseAgent) Run(ctx context.Context, input *Input) (*Output, error) {
	log := input.Logger
	if log == nil {
		log = logger.FromContext(ctx)
	}
	if log == nil {
		log = logger.Discard()
	}

	execCtx := NewExecutionContext(log)
	execCtx.Logger.SessionStart(input.Question)

	maxTurns := input.MaxTurns
	if maxTurns <= 0 {
		maxTurns = a.config.MaxTurns
	}
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	execCtx.TotalTurns = maxTurns

	var (
		exchange     []llm.Message
		allToolCalls []*tool.CallResult
	)

	for turn := 0; turn < maxTurns; turn++ {
		execCtx.CurrentTurn = turn + 1
		execCtx.LogProgress()

		messages := buildMessages(input, formatScratchpad(allToolCalls), exchange)
		resp, err := a.callModel(ctx, &llm.ChatRequest{
			Messages:    messages,
			Tools:       a.toolRegistry.GetToolDefinitions(),
			Temperature: input.Temperature,
			MaxTokens:   a.config.MaxTokens,
		}, input.Handler)
		if err != nil {
			execCtx.Logger.Error("LLM call failed: %v", err)
			return nil, fmt.Errorf("LLM call failed: %w", err)
		}

		exchange = append(exchange, resp.Message)

		if len(resp.Message.ToolCalls) == 0 {
			if resp.StopReason == llm.StopReasonLength {
				execCtx.Logger.Info("response truncated by max tokens")
			}
			execCtx.LogResponse(resp.Message.Content)
			execCtx.Logger.SessionEnd(time.Since(execCtx.StartTime), execCtx.ToolCallCount)
			return &Output{
				Messages:  append(messages, resp.Message),
				Result:    resp.Message.Content,
				ToolCalls: allToolCalls,
				Turns:     turn + 1,
			}, nil
		}

		for _, tc := range resp.Message.ToolCalls {
			if tc.Function != nil {
				execCtx.LogToolCall(tc.Function.Name, tc.Function.Arguments)
			}
		}

		results, err := a.executor.Execute(ctx, resp.Message.ToolCalls)
		if err != nil {
			execCtx.Logger.Error("Tool execution failed: %v", err)
			return nil, fmt.Errorf("tool execution failed: %w", err)
		}

		for _, tr := range results {
			execCtx.LogToolResult(tr.ToolName, tr.Result.Success, tr.Result.Observation(), tr.EndTime.Sub(tr.StartTime))
			exchange = append(exchange, llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: tr.CallID,
				Name:       tr.ToolName,
				Content:    tr.Result.Observation(),
			})
		}
		allToolCalls = append(allToolCalls, results...)
	}

	execCtx.Logger.Error("Max turns (%d) exceeded", maxTurns)
	execCtx.Logger.SessionEnd(time.Since(execCtx.StartTime), execCtx.ToolCallCount)
	return &Output{
		Messages:  buildMessages(input, formatScratchpad(allToolCalls), exchange),
		Result:    StoppedMessage,
		ToolCalls: allToolCalls,
		Turns:     maxTurns,
		Stopped:   true,
	}, nil
}

func (a *BaseAgent) callModel(ctx context.Context, req *llm.ChatRequest, handler llm.StreamHandler) (*llm.ChatResponse, error) {
	if handler == nil {
		return a.llmClient.Chat(ctx, req)
	}

	stream, err := a.llmClient.ChatStream(ctx, req)
	if err != nil {
		return nil, err
	}
	return llm.CollectStream(ctx, stream, handler)
}

// buildMessages lays out one turn's prompt: system prefix, filled extra
// prompts, the question, then the assistant and tool messages so far.
func buildMessages(input *Input, scratchpad string, exchange []llm.Message) []llm.Message {
	messages := make([]llm.Message, 0, len(input.ExtraPrompts)+len(exchange)+2)

	if input.SystemPrompt != "" {
		messages = append(messages, llm.SystemMessage(input.SystemPrompt))
	}
	for _, extra := range input.ExtraPrompts {
		messages = append(messages, llm.SystemMessage(prompt.FillSuffix(extra, input.Question, scratchpad)))
	}
	messages = append(messages, llm.UserMessage(input.Question))
	return append(messages, exchange...)
}

// formatScratchpad renders the tool calls made so far as text.
func formatScratchpad(calls []*tool.CallResult) string {
	var sb strings.Builder
	for _, c := range calls {
		fmt.Fprintf(&sb, "Action: %s\nAction Input: %s\nObservation: %s\n",
			c.ToolName, string(c.Params), c.Result.Observation())
	}
	return sb.String()
}
