package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ihint/internal/agent"
	"ihint/internal/chat"
	"ihint/internal/config"
	"ihint/internal/fbfs"
	"ihint/internal/llm/openai"
	"ihint/internal/logger"
	"ihint/internal/mcp"
	"ihint/internal/search"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	noColor    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "ihint",
		Short:         "Persona chat agent and logic-chain generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./ihint.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug mode)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(serveCmd(), mcpCmd(), askCmd(), fbfsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the capabilities built from the loaded config
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	chat    *chat.Service
	fbfs    *fbfs.Generator
	closers []func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return nil, err
	}

	level := logger.ParseLevel(cfg.Log.Level)
	if verbose {
		level = logger.LevelDebug
	}
	// stdout is reserved for answers and the MCP stdio transport
	log := logger.NewLogger(os.Stderr, level)
	log.SetColorMode(cfg.Log.Color && !noColor)

	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key required (set OPENAI_API_KEY or openai.api_key)")
	}

	a := &app{cfg: cfg, log: log}

	provider, err := a.searchProvider(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug("search provider: %s", provider.Name())

	newClient := openai.NewFactory(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
	a.chat = chat.NewService(cfg.Chat, newClient, agent.NewFactory(&agent.Config{MaxTurns: cfg.Chat.MaxTurns}), provider, log)
	a.fbfs = fbfs.NewGenerator(cfg.FBFS, newClient, log)
	return a, nil
}

func (a *app) searchProvider(ctx context.Context) (search.Provider, error) {
	if a.cfg.Search.Provider != "mcp" {
		return search.New(a.cfg.Search, nil)
	}

	a.log.Info("starting MCP search server %s", a.cfg.Search.MCP.Name)
	provider, err := mcp.NewSearchProvider(ctx, a.cfg.Search.MCP)
	if err != nil {
		return nil, fmt.Errorf("failed to start MCP search: %w", err)
	}
	a.closers = append(a.closers, provider.Close)
	return provider, nil
}

func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.log.Error("close: %v", err)
		}
	}
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
