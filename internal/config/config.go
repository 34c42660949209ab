package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Mode           string        `mapstructure:"mode"`
	LogLevel       string        `mapstructure:"log_level"`
	APIURL         string        `mapstructure:"api_url"`
	WSURL          string        `mapstructure:"ws_url"`
	Token          string        `mapstructure:"token"`
	UserID         string        `mapstructure:"user_id"`
	Username       string        `mapstructure:"username"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	ReadLimit      int64         `mapstructure:"read_limit"`
	PingPeriod     time.Duration `mapstructure:"ping_period"`
	SendBuffer     int           `mapstructure:"send_buffer"`
	EmitLimit      int           `mapstructure:"emit_limit"`
	EmitInterval   time.Duration `mapstructure:"emit_interval"`
	InspectAddr    string        `mapstructure:"inspect_addr"`

	// Create and Join come from the command line only.
	Create string `mapstructure:"create"`
	Join   string `mapstructure:"join"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_url", "http://localhost:8080/api")
	v.SetDefault("ws_url", "ws://localhost:8080/ws")
	v.SetDefault("token", "")
	v.SetDefault("user_id", "")
	v.SetDefault("username", "")
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("emit_limit", 10)
	v.SetDefault("emit_interval", "1s")
	v.SetDefault("inspect_addr", "127.0.0.1:7070")
}

// Flags declares the command-line overrides. Only flags the user set
// take precedence over file and env values.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("sketch", pflag.ContinueOnError)
	fs.String("mode", "", "gin mode: release or debug")
	fs.String("log_level", "", "zerolog level")
	fs.String("api_url", "", "REST base url")
	fs.String("ws_url", "", "realtime channel url")
	fs.String("token", "", "bearer token")
	fs.String("user_id", "", "local user id")
	fs.String("username", "", "local username")
	fs.String("inspect_addr", "", "inspection API listen address, empty to disable")
	fs.String("create", "", "create a room with this codeword")
	fs.String("join", "", "join the room with this codeword")
	return fs
}

// Load reads config/config.<CONFIG_ENV>.yaml, then SKETCH_* env vars,
// then the flags in args.
func Load(args []string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvPrefix("SKETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := Flags()
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}
	var bindErr error
	fs.Visit(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Create != "" && cfg.Join != "" {
		return nil, fmt.Errorf("--create and --join are mutually exclusive")
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Str("api", cfg.APIURL).Str("ws", cfg.WSURL).Msg("config ready")
	return &cfg, nil
}
