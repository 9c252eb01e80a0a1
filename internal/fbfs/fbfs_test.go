package fbfs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ihint/internal/config"
	apperrors "ihint/internal/errors"
	"ihint/internal/llm"
	"ihint/internal/llm/llmtest"
)

const stubChain = "大象比蚂蚁大，大象的体积大，蚂蚁的体积小，所以大象比蚂蚁大，蚂蚁比大象小"

func newGenerator(client *llmtest.Client) *Generator {
	return NewGenerator(config.Default().FBFS, client.Factory(), nil)
}

func TestGenerate_ReturnsStubAndSamplesAsConfigured(t *testing.T) {
	client := &llmtest.Client{Responses: []*llm.ChatResponse{llmtest.Text(stubChain)}}

	got, err := newGenerator(client).Generate(context.Background(), "大象比蚂蚁大", "蚂蚁比大象小")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != stubChain {
		t.Errorf("expected stub text unchanged, got %q", got)
	}

	reqs := client.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 call, got %d", len(reqs))
	}
	req := reqs[0]
	if req.Temperature != 0.75 || req.MaxTokens != 512 {
		t.Errorf("expected temperature 0.75 and max tokens 512, got %v / %d", req.Temperature, req.MaxTokens)
	}
	if req.PresencePenalty != 0 || req.FrequencyPenalty != 0 {
		t.Errorf("non-streaming call should not set penalties: %+v", req)
	}
	if len(req.Tools) != 0 {
		t.Errorf("expected no tools, got %d", len(req.Tools))
	}
	if models := client.Models(); len(models) != 1 || models[0] != "gpt-3.5-turbo" {
		t.Errorf("unexpected model: %v", models)
	}

	if len(req.Messages) != 1 || req.Messages[0].Role != llm.RoleUser {
		t.Fatalf("expected a single user message, got %+v", req.Messages)
	}
	content := req.Messages[0].Content
	if !strings.Contains(content, "**必须**以\"大象比蚂蚁大，\"开头并以\"所以大象比蚂蚁大，蚂蚁比大象小\"结尾。") {
		t.Errorf("template not filled: %q", content)
	}
}

func TestGenerate_NoPostProcessing(t *testing.T) {
	raw := "  not a chain at all\n\n"
	client := &llmtest.Client{Responses: []*llm.ChatResponse{llmtest.Text(raw)}}

	got, err := newGenerator(client).Generate(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != raw {
		t.Errorf("expected raw content, got %q", got)
	}
}

func TestGenerate_ProviderErrorPropagates(t *testing.T) {
	client := &llmtest.Client{Err: apperrors.Provider("openai", errors.New("rate limited"))}

	_, err := newGenerator(client).Generate(context.Background(), "a", "b")
	if !apperrors.IsProvider(err) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}

func TestGenerateStream_PenaltiesAndEquivalence(t *testing.T) {
	client := &llmtest.Client{Responses: []*llm.ChatResponse{
		llmtest.Text(stubChain + " 完"),
		llmtest.Text(stubChain + " 完"),
	}}
	gen := newGenerator(client)

	plain, err := gen.Generate(context.Background(), "大象比蚂蚁大", "蚂蚁比大象小")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var tokens []string
	streamed, err := gen.GenerateStream(context.Background(), "大象比蚂蚁大", "蚂蚁比大象小",
		llm.HandlerFunc(func(ctx context.Context, token string) error {
			tokens = append(tokens, token)
			return nil
		}))
	if err != nil {
		t.Fatalf("GenerateStream failed: %v", err)
	}

	if streamed != plain {
		t.Errorf("stream %q differs from plain %q", streamed, plain)
	}
	if len(tokens) < 2 || strings.Join(tokens, "") != streamed {
		t.Errorf("unexpected tokens %q", tokens)
	}

	req := client.Requests()[1]
	if req.PresencePenalty != 0.75 || req.FrequencyPenalty != 1.25 {
		t.Errorf("expected penalties 0.75/1.25, got %v/%v", req.PresencePenalty, req.FrequencyPenalty)
	}
	if req.Temperature != 0.75 {
		t.Errorf("expected temperature 0.75, got %v", req.Temperature)
	}
	if req.MaxTokens != 0 {
		t.Errorf("streaming call should leave max tokens unset, got %d", req.MaxTokens)
	}
}

func TestGenerateStream_HandlerFailureKeepsDeliveredTokens(t *testing.T) {
	client := &llmtest.Client{Responses: []*llm.ChatResponse{llmtest.Text("one two three")}}

	var delivered []string
	_, err := newGenerator(client).GenerateStream(context.Background(), "a", "b",
		llm.HandlerFunc(func(ctx context.Context, token string) error {
			if len(delivered) == 2 {
				return errors.New("socket closed")
			}
			delivered = append(delivered, token)
			return nil
		}))
	if !apperrors.IsHandler(err) {
		t.Fatalf("expected HandlerError, got %v", err)
	}
	if strings.Join(delivered, "") != "one two " {
		t.Errorf("unexpected delivered tokens %q", delivered)
	}
}
