package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   Server   `yaml:"server" json:"server"`
	Firebase Firebase `yaml:"firebase" json:"firebase"`
	Sharing  Sharing  `yaml:"sharing" json:"sharing"`
	Suggest  Suggest  `yaml:"suggest" json:"suggest"`
}

type Server struct {
	Addr string `yaml:"addr" json:"addr"`
}

type Firebase struct {
	ProjectID       string `yaml:"project_id" json:"project_id"`
	CredentialsFile string `yaml:"credentials_file" json:"credentials_file"`
}

type Sharing struct {
	// AllowDuplicateInvites reproduces the legacy behavior of stacking
	// multiple pending invitations for the same (task, recipient) pair.
	AllowDuplicateInvites bool `yaml:"allow_duplicate_invites" json:"allow_duplicate_invites"`
}

type Suggest struct {
	APIKey    string `yaml:"api_key" json:"api_key"`
	BaseURL   string `yaml:"base_url" json:"base_url"`
	Model     string `yaml:"model" json:"model"`
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`
}

func Default() *Config {
	return &Config{
		Server: Server{Addr: ":8080"},
		Suggest: Suggest{
			Model:     "gpt-3.5-turbo",
			MaxTokens: 250,
		},
	}
}

// Load reads the YAML config at path, then applies TASKLY_* env overrides.
// A missing file is not an error; defaults plus the environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// fall through to env
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	return cfg, nil
}
