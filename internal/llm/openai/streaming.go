package openai

import (
	"context"
	"errors"
	"io"

	apperrors "ihint/internal/errors"
	"ihint/internal/llm"

	openai "github.com/sashabaranov/go-openai"
)

type StreamReader struct {
	stream         *openai.ChatCompletionStream
	accumulatedMsg llm.Message
	toolCallsMap   map[int]*llm.ToolCall // Track tool calls by index
	stopReason     llm.StopReason
}

func (c *Client) ChatStream(ctx context.Context, req *llm.ChatRequest) (llm.StreamReader, error) {
	request := c.buildRequest(req)
	request.Stream = true

	stream, err := c.client.CreateChatCompletionStream(ctx, request)
	if err != nil {
		return nil, apperrors.Provider(providerName, err)
	}

	return &StreamReader{
		stream: stream,
		accumulatedMsg: llm.Message{
			Role: llm.RoleAssistant,
		},
		toolCallsMap: make(map[int]*llm.ToolCall),
	}, nil
}

func (s *StreamReader) Recv() (*llm.Delta, error) {
	resp, err := s.stream.Recv()
	if errors.Is(err, io.EOF) {
		s.finalizeToolCalls()
		msg := s.accumulatedMsg
		return &llm.Delta{
			Done:       true,
			Message:    &msg,
			StopReason: s.stopReason,
		}, nil
	}
	if err != nil {
		return nil, apperrors.Provider(providerName, err)
	}

	// Some compatible endpoints send keep-alive chunks without choices.
	if len(resp.Choices) == 0 {
		return &llm.Delta{}, nil
	}

	delta := resp.Choices[0].Delta

	result := &llm.Delta{
		Role:    llm.Role(delta.Role),
		Content: delta.Content,
	}

	if delta.Content != "" {
		s.accumulatedMsg.Content += delta.Content
	}

	// Tool calls arrive in fragments keyed by index
	for _, tc := range delta.ToolCalls {
		index := 0
		if tc.Index != nil {
			index = *tc.Index
		}

		toolCall, exists := s.toolCallsMap[index]
		if !exists {
			toolCall = &llm.ToolCall{
				ID:       tc.ID,
				Type:     string(tc.Type),
				Function: &llm.FunctionCall{},
			}
			s.toolCallsMap[index] = toolCall
		}

		toolCall.Function.Name += tc.Function.Name
		toolCall.Function.Arguments += tc.Function.Arguments
		if tc.ID != "" {
			toolCall.ID = tc.ID
		}

		result.ToolCalls = append(result.ToolCalls, toolCall)
	}

	switch resp.Choices[0].FinishReason {
	case openai.FinishReasonStop:
		s.stopReason = llm.StopReasonStop
	case openai.FinishReasonToolCalls, openai.FinishReasonFunctionCall:
		s.stopReason = llm.StopReasonToolCalls
	case openai.FinishReasonLength:
		s.stopReason = llm.StopReasonLength
	}

	return result, nil
}

func (s *StreamReader) Close() error {
	return s.stream.Close()
}

func (s *StreamReader) finalizeToolCalls() {
	if len(s.toolCallsMap) == 0 || s.accumulatedMsg.ToolCalls != nil {
		return
	}
	s.accumulatedMsg.ToolCalls = make([]*llm.ToolCall, 0, len(s.toolCallsMap))
	for i := 0; i < len(s.toolCallsMap); i++ {
		if tc, ok := s.toolCallsMap[i]; ok {
			s.accumulatedMsg.ToolCalls = append(s.accumulatedMsg.ToolCalls, tc)
		}
	}
}
