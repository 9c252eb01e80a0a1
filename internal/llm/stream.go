package llm

import (
	"context"
	"strings"

	apperrors "ihint/internal/errors"
)

// StreamHandler receives generated tokens while a streaming call is in
// flight. The serving layer owns it; capabilities only push to it.
type StreamHandler interface {
	OnToken(ctx context.Context, token string) error
}

// HandlerFunc adapts a plain function to StreamHandler.
type HandlerFunc func(ctx context.Context, token string) error

func (f HandlerFunc) OnToken(ctx context.Context, token string) error {
	return f(ctx, token)
}

// CollectStream drains reader, forwarding every content chunk to handler in
// arrival order, and returns the assembled response. The reader is closed
// before returning. A nil handler only accumulates.
func CollectStream(ctx context.Context, reader StreamReader, handler StreamHandler) (*ChatResponse, error) {
	defer reader.Close()

	var content strings.Builder
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		delta, err := reader.Recv()
		if err != nil {
			return nil, err
		}

		if delta.Done {
			resp := &ChatResponse{
				Message: Message{
					Role:    RoleAssistant,
					Content: content.String(),
				},
				StopReason: delta.StopReason,
			}
			if delta.Message != nil {
				resp.Message.ToolCalls = delta.Message.ToolCalls
			}
			if resp.StopReason == "" {
				resp.StopReason = StopReasonStop
			}
			if len(resp.Message.ToolCalls) > 0 {
				resp.StopReason = StopReasonToolCalls
			}
			return resp, nil
		}

		if delta.Content == "" {
			continue
		}
		content.WriteString(delta.Content)
		if handler != nil {
			if err := handler.OnToken(ctx, delta.Content); err != nil {
				return nil, apperrors.Handler(err)
			}
		}
	}
}
