package config

import (
	"net"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"

	"github.com/Mordinel/gargoyle-web-monitor/probe"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	APIKeys        []string `mapstructure:"api_keys"`
	RateLimitRPM   int      `mapstructure:"rate_limit_rpm"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
}

type ProbeConfig struct {
	UserAgent string `mapstructure:"user_agent"`
	Timeout   string `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Probe   ProbeConfig   `mapstructure:"probe"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Load reads config.yaml from ./config or the working directory, layers
// environment variables on top (SERVER_ADDR, PROBE_USER_AGENT, ...), fills
// defaults, and validates the result.
func Load() (*Config, error) {
	viper.SetDefault("server.addr", "127.0.0.1:8080")
	viper.SetDefault("server.allowed_origins", []string{"*"})
	viper.SetDefault("server.rate_limit_rpm", 120)
	viper.SetDefault("server.rate_limit_burst", 30)
	viper.SetDefault("probe.user_agent", probe.DefaultUserAgent)
	viper.SetDefault("probe.timeout", probe.DefaultTimeout.String())
	viper.SetDefault("logging.level", LogLevelInfo)
	viper.SetDefault("logging.dir", "logs")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server, validation.Required, validation.By(validateServerConfig)),
		validation.Field(&c.Probe, validation.Required, validation.By(validateProbeConfig)),
		validation.Field(&c.Logging, validation.Required, validation.By(validateLoggingConfig)),
	)
}

func validateServerConfig(value interface{}) error {
	sc, ok := value.(ServerConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a ServerConfig")
	}
	return validation.ValidateStruct(&sc,
		validation.Field(&sc.Addr,
			validation.Required,
			validation.By(validateHostPort),
		),
		validation.Field(&sc.RateLimitRPM, validation.Min(0)),
		validation.Field(&sc.RateLimitBurst, validation.Min(0)),
	)
}

func validateProbeConfig(value interface{}) error {
	pc, ok := value.(ProbeConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a ProbeConfig")
	}
	return validation.ValidateStruct(&pc,
		validation.Field(&pc.UserAgent,
			validation.Required,
			validation.By(validateUserAgent),
		),
		validation.Field(&pc.Timeout,
			validation.Required,
			validation.By(validateDuration),
		),
	)
}

func validateLoggingConfig(value interface{}) error {
	lc, ok := value.(LoggingConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
	}
	return validation.ValidateStruct(&lc,
		validation.Field(&lc.Level,
			validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
		),
		validation.Field(&lc.Dir, validation.Required),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}
	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}
	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}
	return nil
}

func validateUserAgent(value interface{}) error {
	ua, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	if err := probe.ValidateUserAgent(ua); err != nil {
		return validation.NewError("validation_invalid_user_agent", err.Error())
	}
	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}
	if d <= 0 {
		return validation.NewError("validation_invalid_duration", "must be greater than zero")
	}
	return nil
}
