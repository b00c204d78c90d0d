package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const envPrefix = "TALLY"

// YNABConfig holds the settings used to push the ledger to a YNAB account.
type YNABConfig struct {
	BudgetID  string `mapstructure:"budget_id"`
	AccountID string `mapstructure:"account_id"`
	TokenEnv  string `mapstructure:"token_env"`
}

// Token reads the API token from the configured environment variable.
func (y YNABConfig) Token() string {
	return os.Getenv(y.TokenEnv)
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type Config struct {
	DataDir          string       `mapstructure:"data_dir"`
	TransactionsFile string       `mapstructure:"transactions_file"`
	SettingsFile     string       `mapstructure:"settings_file"`
	LogLevel         string       `mapstructure:"log_level"`
	UseCustomID      bool         `mapstructure:"use_custom_id"`
	Server           ServerConfig `mapstructure:"server"`
	YNAB             YNABConfig   `mapstructure:"ynab"`
}

// TransactionsPath is TransactionsFile resolved against DataDir.
func (c *Config) TransactionsPath() string {
	return c.resolve(c.TransactionsFile)
}

// SettingsPath is SettingsFile resolved against DataDir.
func (c *Config) SettingsPath() string {
	return c.resolve(c.SettingsFile)
}

func (c *Config) resolve(name string) string {
	name = expandHome(name)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(expandHome(c.DataDir), name)
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.TransactionsFile) == "" {
		errs = append(errs, errors.New("transactions_file cannot be empty"))
	}
	if strings.TrimSpace(c.SettingsFile) == "" {
		errs = append(errs, errors.New("settings_file cannot be empty"))
	}
	if c.TransactionsPath() == c.SettingsPath() {
		errs = append(errs, errors.New("transactions_file and settings_file must differ"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		errs = append(errs, fmt.Errorf("invalid log_level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", ".")
	v.SetDefault("transactions_file", "transactions.json")
	v.SetDefault("settings_file", "settings.json")
	v.SetDefault("log_level", "info")
	v.SetDefault("use_custom_id", true)
	v.SetDefault("server.addr", "127.0.0.1:3000")
	v.SetDefault("ynab.token_env", "YNAB_TOKEN")
	v.SetDefault("ynab.budget_id", "")
	v.SetDefault("ynab.account_id", "")
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"data-dir":  "data_dir",
	"log-level": "log_level",
	"addr":      "server.addr",
	"budget-id": "ynab.budget_id",
	"account":   "ynab.account_id",
}

// Build loads configuration with increasing precedence: defaults, config file,
// environment (TALLY_*, after loading .env), then flags that were set.
// cfgFile may be empty, in which case tally.yaml is searched for in the
// working directory and in $HOME/.config/tally.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("tally")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tally"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
