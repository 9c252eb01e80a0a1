package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ihint/internal/llm"

	"golang.org/x/sync/errgroup"
)

type ExecutionMode string

const (
	ExecutionModeSequential ExecutionMode = "sequential"
	ExecutionModeParallel   ExecutionMode = "parallel"
)

// EmptyOutputPlaceholder is returned when a tool produces no output.
// LLM APIs reject tool messages with empty content.
const EmptyOutputPlaceholder = "(Tool executed successfully with no output)"

type Executor struct {
	registry *Registry
	mode     ExecutionMode
}

func NewExecutor(registry *Registry) *Executor {
	return &Executor{
		registry: registry,
		mode:     ExecutionModeParallel,
	}
}

func (e *Executor) SetMode(mode ExecutionMode) {
	e.mode = mode
}

// Execute runs the tool calls of one model turn. Results keep the order of
// toolCalls. The first tool that returns an error cancels the rest and its
// error is returned.
func (e *Executor) Execute(ctx context.Context, toolCalls []*llm.ToolCall) ([]*CallResult, error) {
	if e.mode == ExecutionModeSequential || len(toolCalls) < 2 {
		return e.ExecuteSequential(ctx, toolCalls)
	}
	return e.ExecuteParallel(ctx, toolCalls)
}

// ExecuteSequential executes tools one by one in order
func (e *Executor) ExecuteSequential(ctx context.Context, toolCalls []*llm.ToolCall) ([]*CallResult, error) {
	results := make([]*CallResult, len(toolCalls))

	for i, tc := range toolCalls {
		result, err := e.executeOne(ctx, tc)
		if err != nil {
			return nil, err
		}
		results[i] = result
	}

	return results, nil
}

// ExecuteParallel executes all tools concurrently
func (e *Executor) ExecuteParallel(ctx context.Context, toolCalls []*llm.ToolCall) ([]*CallResult, error) {
	results := make([]*CallResult, len(toolCalls))

	g, gctx := errgroup.WithContext(ctx)
	for i, tc := range toolCalls {
		g.Go(func() error {
			result, err := e.executeOne(gctx, tc)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Executor) executeOne(ctx context.Context, tc *llm.ToolCall) (*CallResult, error) {
	startTime := time.Now()
	name := ""
	args := ""
	if tc.Function != nil {
		name = tc.Function.Name
		args = tc.Function.Arguments
	}

	t, err := e.registry.Get(name)
	if err != nil {
		msg := fmt.Sprintf("%s is not a valid tool, try one of [%s].", name, strings.Join(e.registry.Names(), ", "))
		return &CallResult{
			ToolName:  name,
			CallID:    tc.ID,
			Params:    []byte(args),
			Result:    &Result{Success: false, Error: msg},
			StartTime: startTime,
			EndTime:   time.Now(),
		}, nil
	}

	if args == "" {
		args = "{}"
	}

	result, err := t.Execute(ctx, []byte(args))
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", name, err)
	}

	if result.Output == "" && result.Success {
		result.Output = EmptyOutputPlaceholder
	}

	return &CallResult{
		ToolName:  name,
		CallID:    tc.ID,
		Params:    []byte(args),
		Result:    result,
		StartTime: startTime,
		EndTime:   time.Now(),
	}, nil
}
