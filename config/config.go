// Package config loads pipeline configuration from defaults, an optional
// mnemo.yaml, and MNEMO_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full pipeline configuration. Invalid configuration is a
// fatal startup error; nothing here is re-read mid-session.
type Config struct {
	Persona      string `mapstructure:"persona"`
	DataDir      string `mapstructure:"data_dir"`
	KnowledgeDir string `mapstructure:"knowledge_dir"`

	Buffer struct {
		Capacity int `mapstructure:"capacity"`
	} `mapstructure:"buffer"`

	Vector struct {
		TopK         int `mapstructure:"top_k"`
		ChunkSize    int `mapstructure:"chunk_size"`
		ChunkOverlap int `mapstructure:"chunk_overlap"`
		ChunkCharCap int `mapstructure:"chunk_char_cap"`
	} `mapstructure:"vector"`

	Graph struct {
		TopK int `mapstructure:"top_k"`
	} `mapstructure:"graph"`

	Assemble struct {
		Budget      int `mapstructure:"budget"`
		TurnCharCap int `mapstructure:"turn_char_cap"`
	} `mapstructure:"assemble"`

	Embedding struct {
		Backend   string `mapstructure:"backend"` // openai | onnx | mock
		Model     string `mapstructure:"model"`
		BaseURL   string `mapstructure:"base_url"`
		CacheSize int64  `mapstructure:"cache_size"`

		ONNX struct {
			ModelPath     string `mapstructure:"model_path"`
			TokenizerPath string `mapstructure:"tokenizer_path"`
			LibraryPath   string `mapstructure:"library_path"`
		} `mapstructure:"onnx"`
	} `mapstructure:"embedding"`

	Generation struct {
		Backend     string  `mapstructure:"backend"` // anthropic | openai
		Model       string  `mapstructure:"model"`
		BaseURL     string  `mapstructure:"base_url"`
		Temperature float64 `mapstructure:"temperature"`
		MaxTokens   int     `mapstructure:"max_tokens"`
	} `mapstructure:"generation"`

	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
}

// Load reads configuration. path may name a config file explicitly; when
// empty, mnemo.yaml in the working directory is used if present.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("persona", "")
	v.SetDefault("data_dir", "data")
	v.SetDefault("knowledge_dir", "knowledge_base")
	v.SetDefault("buffer.capacity", 5)
	v.SetDefault("vector.top_k", 3)
	v.SetDefault("vector.chunk_size", 200)
	v.SetDefault("vector.chunk_overlap", 30)
	v.SetDefault("vector.chunk_char_cap", 700)
	v.SetDefault("graph.top_k", 5)
	v.SetDefault("assemble.budget", 6000)
	v.SetDefault("assemble.turn_char_cap", 200)
	v.SetDefault("embedding.backend", "openai")
	v.SetDefault("embedding.cache_size", 4096)
	v.SetDefault("generation.backend", "openai")
	v.SetDefault("generation.model", "llama-3.2-1b-instruct")
	v.SetDefault("generation.base_url", "http://localhost:8080/v1")
	v.SetDefault("generation.temperature", 0.2)
	v.SetDefault("generation.max_tokens", 512)
	v.SetDefault("server.addr", ":8090")

	v.SetEnvPrefix("MNEMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("mnemo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
