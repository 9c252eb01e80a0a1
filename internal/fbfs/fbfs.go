// Package fbfs turns a comparative claim into a one-line chain of reasoning
// that links it to its converse.
package fbfs

import (
	"context"
	"fmt"

	"ihint/internal/config"
	"ihint/internal/llm"
	"ihint/internal/logger"
	"ihint/internal/prompt"
)

type Generator struct {
	cfg       config.FBFSConfig
	newClient llm.Factory
	log       *logger.Logger
}

func NewGenerator(cfg config.FBFSConfig, newClient llm.Factory, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Discard()
	}
	return &Generator{cfg: cfg, newClient: newClient, log: log}
}

// Generate sends the filled template as a single user message and returns
// the completion unmodified.
func (g *Generator) Generate(ctx context.Context, fishBigger, fishSmaller string) (string, error) {
	msg, err := g.message(fishBigger, fishSmaller)
	if err != nil {
		return "", err
	}

	client := g.newClient(g.cfg.Model)
	resp, err := client.Chat(ctx, &llm.ChatRequest{
		Messages:    []llm.Message{msg},
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		g.logger(ctx).Error("fbfs generation failed: %v", err)
		return "", fmt.Errorf("fbfs: %w", err)
	}

	g.logger(ctx).AgentResponse(resp.Message.Content)
	return resp.Message.Content, nil
}

// GenerateStream streams the completion to handler and returns the full
// text. Unlike Generate it applies presence and frequency penalties and
// leaves max tokens unset; the two paths have always sampled differently
// and are kept that way.
func (g *Generator) GenerateStream(ctx context.Context, fishBigger, fishSmaller string, handler llm.StreamHandler) (string, error) {
	msg, err := g.message(fishBigger, fishSmaller)
	if err != nil {
		return "", err
	}

	client := g.newClient(g.cfg.Model)
	stream, err := client.ChatStream(ctx, &llm.ChatRequest{
		Messages:         []llm.Message{msg},
		Temperature:      g.cfg.Temperature,
		PresencePenalty:  g.cfg.PresencePenalty,
		FrequencyPenalty: g.cfg.FrequencyPenalty,
	})
	if err != nil {
		g.logger(ctx).Error("fbfs stream failed: %v", err)
		return "", fmt.Errorf("fbfs: %w", err)
	}

	resp, err := llm.CollectStream(ctx, stream, handler)
	if err != nil {
		g.logger(ctx).Error("fbfs stream failed: %v", err)
		return "", fmt.Errorf("fbfs: %w", err)
	}

	g.logger(ctx).AgentResponse(resp.Message.Content)
	return resp.Message.Content, nil
}

func (g *Generator) message(fishBigger, fishSmaller string) (llm.Message, error) {
	content, err := prompt.RenderFixedTemplate(fishBigger, fishSmaller)
	if err != nil {
		return llm.Message{}, fmt.Errorf("fbfs: %w", err)
	}
	return llm.UserMessage(content), nil
}

func (g *Generator) logger(ctx context.Context) *logger.Logger {
	if log := logger.FromContext(ctx); log != nil {
		return log.WithField("capability", "fbfs")
	}
	return g.log.WithField("capability", "fbfs")
}
