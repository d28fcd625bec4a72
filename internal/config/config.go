package config

import (
	"fmt"
	"os"

	"stockbot/internal/dialog"
	"stockbot/internal/nlu"
	"stockbot/pkg"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config is the environment-driven application configuration.
type Config struct {
	Log        pkg.LogConfig
	Redis      pkg.RedisConfig
	Recognizer pkg.RecognizerConfig
	Bot        pkg.BotConfig
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}
	return &config, nil
}

// Profile is the optional YAML bot profile: recognizer entity-key
// aliases and user-facing message templates. Missing fields fall back
// to the compiled-in defaults.
type Profile struct {
	Entities  nlu.Aliases      `yaml:"entities"`
	Responses dialog.Responses `yaml:"responses"`
}

// DefaultProfile returns a profile with all defaults applied.
func DefaultProfile() *Profile {
	return &Profile{
		Entities:  nlu.DefaultAliases(),
		Responses: dialog.DefaultResponses(),
	}
}

// LoadProfile loads the bot profile from a YAML file. A missing file is
// not an error; the defaults are used.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultProfile(), nil
		}
		return nil, fmt.Errorf("error reading profile file: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("error parsing profile YAML: %w", err)
	}
	profile.Responses = profile.Responses.Merged()
	return &profile, nil
}
