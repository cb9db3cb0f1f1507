package llm

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/wonny/fsa/backend/pkg/config"
)

// WriterConfig holds the article writer model settings
type WriterConfig struct {
	Provider string `yaml:"provider"`

	Model       string  `yaml:"writer_model"`
	APIBase     string  `yaml:"writer_api_base"`
	APIKey      string  `yaml:"writer_api_key"`
	Temperature float64 `yaml:"writer_temperature"`
	MaxTokens   int     `yaml:"writer_max_tokens"`
	TimeoutSec  int     `yaml:"writer_timeout"`

	MaxRetries int `yaml:"max_retries"`
	RetryDelay int `yaml:"retry_delay"`
}

var envVarRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// substituteEnvVars expands ${VAR} references, leaving unknown ones as-is
func substituteEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return match
	})
}

// LoadWriterConfig merges app-level defaults with the optional YAML config
// file. YAML values win; ${VAR} references in string values expand from the
// environment.
func LoadWriterConfig(cfg *config.Config) (*WriterConfig, error) {
	wc := &WriterConfig{
		Provider:    "openai",
		Model:       cfg.LLM.Model,
		APIBase:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Temperature: 0.7,
		MaxTokens:   8000,
		TimeoutSec:  180,
		MaxRetries:  3,
		RetryDelay:  2,
	}

	if cfg.LLM.ConfigFile != "" {
		data, err := os.ReadFile(cfg.LLM.ConfigFile)
		if err != nil {
			if os.IsNotExist(err) {
				return wc, nil
			}
			return nil, fmt.Errorf("read llm config: %w", err)
		}
		if err := yaml.Unmarshal(data, wc); err != nil {
			return nil, fmt.Errorf("parse llm config: %w", err)
		}
	}

	wc.APIKey = substituteEnvVars(wc.APIKey)
	wc.APIBase = substituteEnvVars(wc.APIBase)
	wc.Model = substituteEnvVars(wc.Model)
	return wc, nil
}
