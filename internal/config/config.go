package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultMaxDepth is the default bound on path edge count.
	DefaultMaxDepth = 6

	// DefaultSearchTimeout bounds a single path search.
	DefaultSearchTimeout = 5 * time.Second

	// DefaultGraphPath is the seed graph read when no path is configured.
	DefaultGraphPath = "data/seed_graph.json"
)

// Graph source kinds.
const (
	SourceFile  = "file"
	SourceNeo4j = "neo4j"
)

// Config holds all configuration for openclaw-repurpose.
type Config struct {
	Graph   GraphConfig   `mapstructure:"graph"`
	Neo4j   Neo4jConfig   `mapstructure:"neo4j"`
	Search  SearchConfig  `mapstructure:"search"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GraphConfig selects where the graph snapshot is loaded from.
type GraphConfig struct {
	Source     string `mapstructure:"source"`
	Path       string `mapstructure:"path"`
	EdgePolicy string `mapstructure:"edge_policy"`
}

// Neo4jConfig holds Neo4j connection settings used when graph.source is neo4j.
type Neo4jConfig struct {
	URI         string `mapstructure:"uri"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	Database    string `mapstructure:"database"`
	EntityLabel string `mapstructure:"entity_label"`
}

// String returns a safe representation of Neo4jConfig with the password masked.
func (c Neo4jConfig) String() string {
	return fmt.Sprintf("Neo4jConfig{URI:%s, Username:%s, Password:%s, Database:%s}",
		c.URI, c.Username, maskSecret(c.Password), c.Database)
}

// maskSecret shows first 2 + last 2 chars, replacing the middle with asterisks.
func maskSecret(s string) string {
	const visible = 2
	if len(s) <= visible*2 {
		return "***"
	}
	return s[:visible] + "****" + s[len(s)-visible:]
}

// SearchConfig holds path search and discovery settings.
type SearchConfig struct {
	MaxDepth    int           `mapstructure:"max_depth"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Alternates  int           `mapstructure:"alternates"`
	Concurrency int           `mapstructure:"concurrency"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional .env file, a config file and
// environment variables.
func Load() (*Config, error) {
	// A missing .env is normal; anything else is reported.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()

	// Defaults
	v.SetDefault("graph.source", SourceFile)
	v.SetDefault("graph.path", DefaultGraphPath)
	v.SetDefault("graph.edge_policy", "last_wins")

	v.SetDefault("neo4j.uri", "neo4j://localhost:7687")
	v.SetDefault("neo4j.username", "neo4j")
	v.SetDefault("neo4j.database", "neo4j")
	v.SetDefault("neo4j.entity_label", "Entity")

	v.SetDefault("search.max_depth", DefaultMaxDepth)
	v.SetDefault("search.timeout", DefaultSearchTimeout)
	v.SetDefault("search.alternates", 3)
	v.SetDefault("search.concurrency", 4)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir(), ".openclaw-repurpose"))
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("OPENCLAW_REPURPOSE")
	v.AutomaticEnv()

	_ = v.BindEnv("graph.path", "OPENCLAW_REPURPOSE_GRAPH_PATH")
	_ = v.BindEnv("graph.source", "OPENCLAW_REPURPOSE_GRAPH_SOURCE")
	_ = v.BindEnv("neo4j.uri", "NEO4J_URI", "OPENCLAW_REPURPOSE_NEO4J_URI")
	_ = v.BindEnv("neo4j.username", "NEO4J_USERNAME", "OPENCLAW_REPURPOSE_NEO4J_USERNAME")
	_ = v.BindEnv("neo4j.password", "NEO4J_PASSWORD", "OPENCLAW_REPURPOSE_NEO4J_PASSWORD")
	_ = v.BindEnv("search.max_depth", "OPENCLAW_REPURPOSE_SEARCH_MAX_DEPTH")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, defaults + env vars apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	switch c.Graph.Source {
	case SourceFile:
		if c.Graph.Path == "" {
			return fmt.Errorf("graph.path must not be empty when graph.source is file")
		}
	case SourceNeo4j:
		if c.Neo4j.URI == "" {
			return fmt.Errorf("neo4j.uri must not be empty when graph.source is neo4j")
		}
	default:
		return fmt.Errorf("graph.source must be file or neo4j, got %q", c.Graph.Source)
	}
	if c.Graph.EdgePolicy != "last_wins" && c.Graph.EdgePolicy != "distinct" {
		return fmt.Errorf("graph.edge_policy must be last_wins or distinct, got %q", c.Graph.EdgePolicy)
	}
	if c.Search.MaxDepth <= 0 {
		return fmt.Errorf("search.max_depth must be greater than 0")
	}
	if c.Search.Timeout < 0 {
		return fmt.Errorf("search.timeout must be >= 0")
	}
	if c.Search.Alternates < 0 {
		return fmt.Errorf("search.alternates must be >= 0")
	}
	if c.Search.Concurrency <= 0 {
		return fmt.Errorf("search.concurrency must be greater than 0")
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
