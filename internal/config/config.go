package config

import (
	"errors"

	"github.com/spf13/viper"
)

/**
 * Server configuration parameters
 * @property {string} address - Server listening address (e.g. ":8591")
 * @property {string} mode - Application mode (debug/release/test)
 */
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"`
}

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path, "console" logs to stdout only
 */
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

/**
 * Package provisioning configuration
 * @property {int} node_major - Pinned Node.js major version
 * @property {int} countdown_seconds - Pre-delete warning countdown length
 * @property {[]string} base_packages - System packages every install needs
 */
type ProvisionConfig struct {
	NodeMajor        int      `mapstructure:"node_major"`
	CountdownSeconds int      `mapstructure:"countdown_seconds"`
	BasePackages     []string `mapstructure:"base_packages"`
	DockerScriptURL  string   `mapstructure:"docker_script_url"`
	NodeSetupURL     string   `mapstructure:"node_setup_url"`
}

/**
 * Admin bootstrap configuration
 * @property {int} ready_delay_seconds - Fixed wait before the liveness probe
 */
type BootstrapConfig struct {
	ReadyDelaySeconds int `mapstructure:"ready_delay_seconds"`
}

var ErrComponentNotFound = errors.New("component not found")

type AppConfig struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Provision ProvisionConfig `mapstructure:"provision"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
}

/**
 * Load application configuration from YAML file
 * @description
 * - Searches ./config.yaml then /etc/panelkeeper/config.yaml
 * - A missing file is not an error: defaults cover everything
 */
func LoadConfig() (*AppConfig, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/panelkeeper")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var Config AppConfig

func collectConfig(cfg *AppConfig) *AppConfig {
	if cfg.Server.Address == "" {
		cfg.Server.Address = "127.0.0.1:8591"
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Provision.NodeMajor == 0 {
		cfg.Provision.NodeMajor = 20
	}
	if cfg.Provision.CountdownSeconds == 0 {
		cfg.Provision.CountdownSeconds = 8
	}
	if len(cfg.Provision.BasePackages) == 0 {
		cfg.Provision.BasePackages = []string{"git", "curl", "tar", "unzip"}
	}
	if cfg.Provision.DockerScriptURL == "" {
		cfg.Provision.DockerScriptURL = "https://get.docker.com"
	}
	if cfg.Provision.NodeSetupURL == "" {
		// %d is replaced by the pinned major version
		cfg.Provision.NodeSetupURL = "https://deb.nodesource.com/setup_%d.x"
	}
	if cfg.Bootstrap.ReadyDelaySeconds == 0 {
		cfg.Bootstrap.ReadyDelaySeconds = 6
	}
	return cfg
}

// ReloadConfig re-reads config.yaml (server mode API).
func ReloadConfig() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	Config = *cfg
	collectConfig(&Config)
	return nil
}

func init() {
	cfg, err := LoadConfig()
	if err == nil {
		Config = *cfg
	}
	collectConfig(&Config)
}
