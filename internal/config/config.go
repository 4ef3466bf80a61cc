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
	private Private
}

type Public struct {
	Pg            Pg            `yaml:"pg"`
	HttpPort      int           `yaml:"http_port"`
	JwtTTL        time.Duration `yaml:"jwt_ttl"`
	PageSize      int           `yaml:"page_size"`       // default pin feed page size
	MaxPageSize   int           `yaml:"max_page_size"`   // caller-supplied sizes are clamped to this
	SweepInterval time.Duration `yaml:"sweep_interval"`  // consistency repair sweep period
	MediaRoot     string        `yaml:"media_root"`      // local media storage directory
	MediaBaseURL  string        `yaml:"media_base_url"`  // public prefix for stored variants
	LogLevel      string        `yaml:"log_level"`
	LogJSON       bool          `yaml:"log_json"`
	SecureCookies bool          `yaml:"secure_cookies"`
	AllowedOrigin string        `yaml:"allowed_origin"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

func (p *Pg) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.Dbname)
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
}

func (c *Config) JwtKey() string { return c.private.JwtKey }

func (c *Config) JwtTTL() time.Duration { return c.Public.JwtTTL }

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + configPath)
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Public.PageSize <= 0 {
		c.Public.PageSize = 20
	}
	if c.Public.MaxPageSize <= 0 {
		c.Public.MaxPageSize = 100
	}
	if c.Public.SweepInterval <= 0 {
		c.Public.SweepInterval = time.Hour
	}
	if c.Public.HttpPort == 0 {
		c.Public.HttpPort = 8080
	}
}
