package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete ihint configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	OpenAI OpenAIConfig `yaml:"openai"`
	Search SearchConfig `yaml:"search"`
	Chat   ChatConfig   `yaml:"chat"`
	FBFS   FBFSConfig   `yaml:"fbfs"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// MCPPath mounts the MCP streamable HTTP endpoint; empty disables it.
	MCPPath string `yaml:"mcp_path"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// SearchConfig selects the backend behind the WebSearch tool
type SearchConfig struct {
	Provider   string           `yaml:"provider"` // "serpapi", "duckduckgo" or "mcp"
	SerpAPI    SerpAPIConfig    `yaml:"serpapi"`
	DuckDuckGo DuckDuckGoConfig `yaml:"duckduckgo"`
	MCP        MCPSearchConfig  `yaml:"mcp"`
}

type SerpAPIConfig struct {
	APIKey  string `yaml:"api_key"`
	Engine  string `yaml:"engine"`
	BaseURL string `yaml:"base_url"`
}

type DuckDuckGoConfig struct {
	BaseURL    string `yaml:"base_url"`
	MaxResults int    `yaml:"max_results"`
}

// MCPSearchConfig points at an MCP server exposing a search tool
type MCPSearchConfig struct {
	Name    string            `yaml:"name"`
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args"`
	Env     map[string]string `yaml:"env"` // Values support ${VAR}
	Tool    string            `yaml:"tool"`
}

// ChatConfig holds the fixed parameters of the persona agent
type ChatConfig struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	Persona     string  `yaml:"persona"`
	MaxTurns    int     `yaml:"max_turns"`
}

// FBFSConfig holds the fixed parameters of the logic-chain generator
type FBFSConfig struct {
	Model            string  `yaml:"model"`
	Temperature      float32 `yaml:"temperature"`
	MaxTokens        int     `yaml:"max_tokens"`
	PresencePenalty  float32 `yaml:"presence_penalty"`
	FrequencyPenalty float32 `yaml:"frequency_penalty"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Color bool   `yaml:"color"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			MCPPath: "/mcp",
		},
		Search: SearchConfig{
			Provider: "serpapi",
			SerpAPI: SerpAPIConfig{
				Engine:  "google",
				BaseURL: "https://serpapi.com/search",
			},
			DuckDuckGo: DuckDuckGoConfig{
				BaseURL:    "https://html.duckduckgo.com/html/",
				MaxResults: 5,
			},
			MCP: MCPSearchConfig{
				Name: "search",
				Tool: "search",
			},
		},
		Chat: ChatConfig{
			Model:       "gpt-3.5-turbo-0613",
			Temperature: 0.45,
			Persona:     "Rick Sanchez",
			MaxTurns:    15,
		},
		FBFS: FBFSConfig{
			Model:            "gpt-3.5-turbo",
			Temperature:      0.75,
			MaxTokens:        512,
			PresencePenalty:  0.75,
			FrequencyPenalty: 1.25,
		},
		Log: LogConfig{
			Level: "info",
			Color: true,
		},
	}
}

// Load reads and parses the YAML config file on top of the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return finish(cfg)
}

// LoadWithDefaults loads .env files and the config with fallback to default locations
// Checks: ./ihint.yaml, ./configs/ihint.yaml, ~/.config/ihint/ihint.yaml, /etc/ihint/ihint.yaml
func LoadWithDefaults(path string) (*Config, error) {
	loadEnvFiles()

	if path != "" {
		return Load(path)
	}

	locations := []string{
		"./ihint.yaml",
		"./configs/ihint.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "ihint", "ihint.yaml"))
	}
	locations = append(locations, "/etc/ihint/ihint.yaml")

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return Load(loc)
		}
	}

	// No config found - defaults plus environment
	return finish(Default())
}

// loadEnvFiles loads .env files; variables already set in the environment win
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

func finish(cfg *Config) (*Config, error) {
	cfg.expand()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) expand() {
	c.OpenAI.APIKey = ExpandEnv(c.OpenAI.APIKey)
	c.OpenAI.BaseURL = ExpandEnv(c.OpenAI.BaseURL)
	c.Search.SerpAPI.APIKey = ExpandEnv(c.Search.SerpAPI.APIKey)
	c.Search.MCP.Env = ExpandEnvMap(c.Search.MCP.Env)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_BASE_URL"); v != "" && c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = v
	}
	if v := os.Getenv("SERPAPI_API_KEY"); v != "" && c.Search.SerpAPI.APIKey == "" {
		c.Search.SerpAPI.APIKey = v
	}
}

// Validate checks config correctness
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	switch c.Search.Provider {
	case "serpapi", "duckduckgo":
	case "mcp":
		if c.Search.MCP.Command == "" {
			return fmt.Errorf("search.mcp.command is required for the mcp provider")
		}
		if c.Search.MCP.Tool == "" {
			return fmt.Errorf("search.mcp.tool is required for the mcp provider")
		}
	default:
		return fmt.Errorf("unsupported search provider: %s (use serpapi, duckduckgo or mcp)", c.Search.Provider)
	}

	if c.Chat.Model == "" || c.FBFS.Model == "" {
		return fmt.Errorf("chat.model and fbfs.model are required")
	}
	if c.Chat.MaxTurns <= 0 {
		return fmt.Errorf("chat.max_turns must be positive")
	}
	if c.FBFS.MaxTokens < 0 {
		return fmt.Errorf("fbfs.max_tokens cannot be negative")
	}

	return nil
}

// Addr returns host:port for the HTTP listener
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
