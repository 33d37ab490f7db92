package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// RestConfig aggregates all settings required by the REST application
type RestConfig struct {
	Server            ServerSettings            `mapstructure:"server"`
	Logger            LoggerSettings            `mapstructure:"logger"`
	Database          DatabaseSettings          `mapstructure:"database"`
	ArtifactConnector ArtifactConnectorSettings `mapstructure:"artifact_connector"`
	Executor          ExecutorSettings          `mapstructure:"executor"`
}

// Validate checks every settings section of the RestConfig
func (c *RestConfig) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.ArtifactConnector.Validate(); err != nil {
		return err
	}
	if err := c.Executor.Validate(); err != nil {
		return err
	}
	return nil
}

// InitializeRestConfig reads the YAML config file at configPath, applies
// CRS_-prefixed environment variable overrides and defaults, and returns
// the validated RestConfig.
func InitializeRestConfig(configPath string) (*RestConfig, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("CRS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setRestDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg RestConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setRestDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.request_timeout_seconds", 120)
	v.SetDefault("server.shutdown_timeout_seconds", 15)
	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
	v.SetDefault("database.type", SqliteDbType)
	v.SetDefault("artifact_connector.provider", FsStorageProvider)
	v.SetDefault("artifact_connector.directory", "/tmp/artifacts")
	v.SetDefault("executor.python_path", "python3")
	v.SetDefault("executor.base_work_dir", "/tmp/runs")
	v.SetDefault("executor.max_concurrent_runs", 4)
	v.SetDefault("executor.max_run_seconds", 30)
	v.SetDefault("executor.max_output_bytes", 200000)
	v.SetDefault("executor.max_memory_bytes", 256*1024*1024)
}
