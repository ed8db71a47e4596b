package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

// Duration wraps time.Duration so yaml values like "15m" parse naturally.
// Plain integers are accepted as nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		var ns int64
		if err2 := unmarshal(&ns); err2 != nil {
			return err
		}
		d.Duration = time.Duration(ns)
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

// Public holds settings safe to expose in logs or to other services.
type Public struct {
	HTTPPort              int      `yaml:"http_port"`
	LogLevel              string   `yaml:"log_level"`
	LogJSON               bool     `yaml:"log_json"`
	AccessTokenTTL        Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL       Duration `yaml:"refresh_token_ttl"`
	ResetTokenTTL         Duration `yaml:"reset_token_ttl"` // lifetime of the emailed reset link
	BlacklistRetention    Duration `yaml:"blacklist_retention"`
	BcryptCost            int      `yaml:"bcrypt_cost"`
	DefaultPageSize       int      `yaml:"default_page_size"`
	SecureCookies         bool     `yaml:"secure_cookies"`
	ResetLinkBase         string   `yaml:"reset_link_base"` // e.g. https://shop.example.com/v1/reset-password
	AllowedOrigins        []string `yaml:"allowed_origins"`
	StorageRequestTimeout Duration `yaml:"storage_request_timeout"`
}

type Private struct {
	Pg     Pg     `yaml:"pg"`
	JwtKey string `yaml:"jwt_key"`
	Email  Email  `yaml:"email"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
	Timeout    int    `yaml:"timeout"` // seconds
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	if err := cfg.validate(); err != nil {
		panic(err.Error())
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) validate() error {
	if c.Public.AccessTokenTTL.Duration <= 0 {
		return fmt.Errorf("config: access_token_ttl must be positive")
	}
	if c.Public.RefreshTokenTTL.Duration <= 0 {
		return fmt.Errorf("config: refresh_token_ttl must be positive")
	}
	if c.Public.ResetTokenTTL.Duration <= 0 {
		return fmt.Errorf("config: reset_token_ttl must be positive")
	}
	if c.Public.BlacklistRetention.Duration <= 0 {
		return fmt.Errorf("config: blacklist_retention must be positive")
	}
	if c.Private.JwtKey == "" {
		return fmt.Errorf("config: jwt_key is required")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Public.HTTPPort == 0 {
		c.Public.HTTPPort = 8080
	}
	if c.Public.BcryptCost == 0 {
		c.Public.BcryptCost = 12
	}
	if c.Public.DefaultPageSize == 0 {
		c.Public.DefaultPageSize = 10
	}
	if c.Public.StorageRequestTimeout.Duration == 0 {
		c.Public.StorageRequestTimeout.Duration = 5 * time.Second
	}
	if c.Public.LogLevel == "" {
		c.Public.LogLevel = "info"
	}
}
