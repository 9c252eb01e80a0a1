// Package chat answers free-form questions in character, letting the model
// search the web when it needs to.
package chat

import (
	"context"
	"fmt"

	"ihint/internal/agent"
	"ihint/internal/config"
	"ihint/internal/llm"
	"ihint/internal/logger"
	"ihint/internal/prompt"
	"ihint/internal/search"
	"ihint/internal/tool"
	"ihint/internal/tool/builtin"
)

// Service is safe for concurrent use. Every call builds its own model
// client, tool registry and agent.
type Service struct {
	cfg       config.ChatConfig
	newClient llm.Factory
	newAgent  agent.Factory
	search    search.Provider
	log       *logger.Logger
}

func NewService(cfg config.ChatConfig, newClient llm.Factory, newAgent agent.Factory, provider search.Provider, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	if newAgent == nil {
		newAgent = agent.NewFactory(&agent.Config{MaxTurns: cfg.MaxTurns})
	}
	return &Service{
		cfg:       cfg,
		newClient: newClient,
		newAgent:  newAgent,
		search:    provider,
		log:       log,
	}
}

// Ask returns the agent's final answer to question.
func (s *Service) Ask(ctx context.Context, question string) (string, error) {
	return s.run(ctx, question, nil)
}

// AskStream is Ask with the model in streaming mode. Every content chunk is
// passed to handler in generation order before the full text is returned.
func (s *Service) AskStream(ctx context.Context, question string, handler llm.StreamHandler) (string, error) {
	if handler == nil {
		handler = llm.HandlerFunc(func(context.Context, string) error { return nil })
	}
	return s.run(ctx, question, handler)
}

func (s *Service) run(ctx context.Context, question string, handler llm.StreamHandler) (string, error) {
	prefix, suffix, err := prompt.BuildPersonaPrompt(s.cfg.Persona)
	if err != nil {
		return "", fmt.Errorf("build persona prompt: %w", err)
	}

	registry := tool.NewRegistry()
	if err := registry.Register(builtin.NewWebSearchTool(s.search)); err != nil {
		return "", err
	}

	log := logger.FromContext(ctx)
	if log == nil {
		log = s.log
	}

	a := s.newAgent(s.newClient(s.cfg.Model), registry)
	out, err := a.Run(ctx, &agent.Input{
		Question:     question,
		SystemPrompt: prefix,
		ExtraPrompts: []string{suffix},
		Temperature:  s.cfg.Temperature,
		MaxTurns:     s.cfg.MaxTurns,
		Handler:      handler,
		Logger:       log.WithField("capability", "ask"),
	})
	if err != nil {
		return "", fmt.Errorf("ask: %w", err)
	}
	return out.Result, nil
}
