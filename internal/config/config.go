// Package config loads backplan settings from an optional YAML file and
// BACKPLAN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "BACKPLAN"
	configName     = ".backplan"
	defaultDataDir = ".backplan"
)

type HolidayAPI struct {
	URL        string
	ServiceKey string
}

type Slack struct {
	WebhookURL string
}

type JIRA struct {
	BaseURL    string
	ProjectKey string
	IssueType  string
	User       string
	Token      string
	StartField string
	DueField   string
}

// Config is the resolved runtime configuration.
type Config struct {
	DBPath     string
	LogLevel   string
	Timezone   string
	Location   *time.Location
	HolidayAPI HolidayAPI
	Slack      Slack
	JIRA       JIRA
}

// SetDefaults registers every known key so env overrides work even when no
// config file sets them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("timezone", "Local")
	v.SetDefault("holiday_api.url", "")
	v.SetDefault("holiday_api.service_key", "")
	v.SetDefault("slack.webhook_url", "")
	v.SetDefault("jira.base_url", "")
	v.SetDefault("jira.project_key", "")
	v.SetDefault("jira.issue_type", "Task")
	v.SetDefault("jira.user", "")
	v.SetDefault("jira.token", "")
	v.SetDefault("jira.start_field", "customfield_10015")
	v.SetDefault("jira.due_field", "duedate")
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"db":        "db",
	"log-level": "log_level",
}

// BindFlags lets the global --db and --log-level flags override the file
// and environment. Flags missing from fs are ignored.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for flag, key := range flagKeys {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// ReadFile points v at cfgFile, or at $HOME/.backplan.yaml when cfgFile is
// empty, and reads it. A missing default file is not an error.
func ReadFile(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load resolves v into a Config. It expands ~ in paths and loads the
// configured time zone.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		LogLevel: v.GetString("log_level"),
		Timezone: v.GetString("timezone"),
		HolidayAPI: HolidayAPI{
			URL:        v.GetString("holiday_api.url"),
			ServiceKey: v.GetString("holiday_api.service_key"),
		},
		Slack: Slack{WebhookURL: v.GetString("slack.webhook_url")},
		JIRA: JIRA{
			BaseURL:    strings.TrimRight(v.GetString("jira.base_url"), "/"),
			ProjectKey: v.GetString("jira.project_key"),
			IssueType:  v.GetString("jira.issue_type"),
			User:       v.GetString("jira.user"),
			Token:      v.GetString("jira.token"),
			StartField: v.GetString("jira.start_field"),
			DueField:   v.GetString("jira.due_field"),
		},
	}

	dbPath, err := resolveDBPath(v.GetString("db"))
	if err != nil {
		return nil, err
	}
	cfg.DBPath = dbPath

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc
	return cfg, nil
}

func resolveDBPath(raw string) (string, error) {
	if raw == ":memory:" {
		return raw, nil
	}
	if raw == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("finding home directory: %w", err)
		}
		return filepath.Join(home, defaultDataDir, "backplan.db"), nil
	}
	expanded, err := homedir.Expand(raw)
	if err != nil {
		return "", fmt.Errorf("expanding db path %q: %w", raw, err)
	}
	return expanded, nil
}
