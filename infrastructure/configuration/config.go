package configuration

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"youtube-unlister/infrastructure/logger"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrMissingConfig is returned when a required setting has no value.
var ErrMissingConfig = errors.New("missing required configuration")

// DefaultScope grants full video management, which videos.update requires.
const DefaultScope = "https://www.googleapis.com/auth/youtube.force-ssl"

const (
	DefaultPort      = 3000
	DefaultTokenPath = "tokens.json"
)

type Config struct {
	App     App     `mapstructure:"app"`
	YouTube YouTube `mapstructure:"youtube"`
	Token   Token   `mapstructure:"token"`
	Unlist  Unlist  `mapstructure:"unlist"`
}

type App struct {
	Port int    `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type YouTube struct {
	ClientID     string   `mapstructure:"clientId"`
	ClientSecret string   `mapstructure:"clientSecret"`
	RedirectURI  string   `mapstructure:"redirectURI"`
	RefreshToken string   `mapstructure:"refreshToken"`
	Scopes       []string `mapstructure:"scopes"`
}

// Token locates the cached credential. A gs://bucket/object path selects
// Google Cloud Storage, anything else is a local file.
type Token struct {
	Path string `mapstructure:"path"`
}

type Unlist struct {
	DryRun bool `mapstructure:"dryRun"`
}

var C Config

// envBindings maps configuration keys to the environment variables that may
// carry them, first non-empty wins.
var envBindings = map[string][]string{
	"app.env":              {"ENV"},
	"app.port":             {"PORT", "APP_PORT"},
	"youtube.clientId":     {"CLIENT_ID", "YOUTUBE_CLIENT_ID"},
	"youtube.clientSecret": {"CLIENT_SECRET", "YOUTUBE_CLIENT_SECRET"},
	"youtube.redirectURI":  {"REDIRECT_URI", "YOUTUBE_REDIRECT_URL"},
	"youtube.refreshToken": {"REFRESH_TOKEN", "YOUTUBE_REFRESH_TOKEN"},
	"token.path":           {"TOKENS_PATH"},
	"unlist.dryRun":        {"DRY_RUN"},
}

// flagBindings maps configuration keys to command-line flag names.
var flagBindings = map[string]string{
	"app.port":      "port",
	"token.path":    "tokens",
	"unlist.dryRun": "dry-run",
}

// RegisterFlags adds the flags LoadConfig understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Int("port", DefaultPort, "port of the local OAuth consent listener")
	fs.String("tokens", DefaultTokenPath, "token file path or gs://bucket/object")
	RegisterDryRunFlag(fs)
}

// RegisterDryRunFlag adds only --dry-run, for entry points without a
// consent listener or token store.
func RegisterDryRunFlag(fs *pflag.FlagSet) {
	fs.Bool("dry-run", false, "report private videos without updating them")
}

// LoadConfig resolves C from flags, environment, config file and defaults,
// in that order of precedence. Env files are loaded first and never override
// variables that are already set.
func LoadConfig(flags *pflag.FlagSet) error {
	LoadEnvFromFile("config.env", ".env")

	v := viper.New()
	name := getConfig()
	v.SetConfigName(name)
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")

	v.SetDefault("app.port", DefaultPort)
	v.SetDefault("token.path", DefaultTokenPath)
	v.SetDefault("unlist.dryRun", false)
	v.SetDefault("youtube.scopes", []string{DefaultScope})

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	if flags != nil {
		for key, flag := range flagBindings {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return fmt.Errorf("bind flag --%s: %w", flag, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().WithField("config", name).Debug("Config file not found, using environment only")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
			return fmt.Errorf("read config %s: %w", name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if cfg.YouTube.RedirectURI == "" {
		cfg.YouTube.RedirectURI = fmt.Sprintf("http://localhost:%d/oauth2callback", cfg.App.Port)
	}
	C = cfg

	logger.GetLogger().WithFields(map[string]interface{}{
		"config":          name,
		"port":            C.App.Port,
		"tokenPath":       C.Token.Path,
		"redirectURI":     C.YouTube.RedirectURI,
		"clientIDSet":     C.YouTube.ClientID != "",
		"hasRefreshToken": C.YouTube.RefreshToken != "",
		"dryRun":          C.Unlist.DryRun,
	}).Info("Config set up successfully")
	return nil
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

// ValidateOAuthClient checks the settings every entry point needs.
func (c *Config) ValidateOAuthClient() error {
	var missing []string
	if c.YouTube.ClientID == "" {
		missing = append(missing, "CLIENT_ID")
	}
	if c.YouTube.ClientSecret == "" {
		missing = append(missing, "CLIENT_SECRET")
	}
	if c.YouTube.RedirectURI == "" {
		missing = append(missing, "REDIRECT_URI")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateRefreshToken additionally requires a pre-obtained refresh token.
func (c *Config) ValidateRefreshToken() error {
	if err := c.ValidateOAuthClient(); err != nil {
		return err
	}
	if c.YouTube.RefreshToken == "" {
		return fmt.Errorf("%w: REFRESH_TOKEN", ErrMissingConfig)
	}
	return nil
}
