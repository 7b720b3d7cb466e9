package core

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved client configuration.
type Config struct {
	// APIBaseURL is the root the REST paths are appended to.
	APIBaseURL string
	// APITimeout bounds every HTTP call; a timed-out call fails like any
	// other network error.
	APITimeout time.Duration
	// Permissions is the name→code mapping, including the "all" sentinel.
	Permissions PermissionMap
	// GoogleCredentialsFile points at the OAuth client secrets JSON used by
	// the Google login flow.
	GoogleCredentialsFile string
}

// ConfigurationManager loads the .taskctl.yaml configuration file.
type ConfigurationManager interface {
	Load() (*Config, error)
}

// viperConfigManager implements ConfigurationManager using Viper.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// .taskctl.yaml from basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

func defaultConfig() *Config {
	return &Config{
		APIBaseURL: "http://localhost:3000/api",
		APITimeout: 10 * time.Second,
	}
}

// defaultPermissionSpec mirrors the deployment's standard mapping; a real
// install overrides it in .taskctl.yaml.
const defaultPermissionSpec = "user_management:1,role_management:2,task_management:3,all:99"

// Load reads .taskctl.yaml from the base path. A missing file yields the
// defaults; a malformed file or permission map is an error.
func (cm *viperConfigManager) Load() (*Config, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetConfigName(".taskctl")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("api.base_url", cfg.APIBaseURL)
	v.SetDefault("api.timeout_seconds", int(cfg.APITimeout/time.Second))
	v.SetDefault("permissions", defaultPermissionSpec)
	v.SetDefault("google.credentials_file", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading .taskctl.yaml: %w", err)
		}
	}

	cfg.APIBaseURL = v.GetString("api.base_url")
	if secs := v.GetInt("api.timeout_seconds"); secs > 0 {
		cfg.APITimeout = time.Duration(secs) * time.Second
	}
	cfg.GoogleCredentialsFile = v.GetString("google.credentials_file")

	pm, err := ParsePermissionMap(v.GetString("permissions"))
	if err != nil {
		return nil, err
	}
	cfg.Permissions = pm

	return cfg, nil
}
