package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/voterlist"
	ConfigFileName    = "voterlist.yml"

	// EnvPrefix prefixes every environment override of a file attribute
	EnvPrefix = "VOTERLIST_"
)

// Store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Attribute sources
const (
	SourceDefault     = "default"
	SourceFile        = "file"
	SourceEnvironment = "environment"
)

// MinTokenKeyLength is the minimum decoded length of VOTERLIST_TOKEN_KEY
const MinTokenKeyLength = 32

// Config holds all voterlist configuration settings
type Config struct {
	// Store selects the state backend: memory or postgres
	Store string `yaml:"store" json:"store" env:"STORE"`

	// TokenTTL is the lifetime of issued caller tokens
	TokenTTL time.Duration `yaml:"token_ttl" json:"token_ttl" env:"TOKEN_TTL"`

	// TokenIssuer is the iss claim of issued tokens, checked on verification
	TokenIssuer string `yaml:"token_issuer" json:"token_issuer" env:"TOKEN_ISSUER"`

	// RateLimitRequests is the number of requests a client may make per window
	RateLimitRequests int `yaml:"rate_limit_requests" json:"rate_limit_requests" env:"RATE_LIMIT_REQUESTS"`

	// RateLimitWindow is the window over which RateLimitRequests is counted
	RateLimitWindow time.Duration `yaml:"rate_limit_window" json:"rate_limit_window" env:"RATE_LIMIT_WINDOW"`

	// RateLimitBurst is the number of requests a client may make at once
	RateLimitBurst int `yaml:"rate_limit_burst" json:"rate_limit_burst" env:"RATE_LIMIT_BURST"`

	// TrustedProxies is a list of CIDR ranges for trusted proxies
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies" env:"TRUSTED_PROXIES" envSeparator:","`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Secrets are read from the environment only and never shown.
type Secrets struct {
	DatabaseURL      string `env:"DATABASE_URL"`
	TokenKey         string `env:"VOTERLIST_TOKEN_KEY"`
	AuditDatabaseURL string `env:"AUDIT_DATABASE_URL"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

func newDefault() *Config {
	c := &Config{
		Store:             StoreMemory,
		TokenTTL:          8 * time.Minute,
		TokenIssuer:       "voterlist",
		RateLimitRequests: 600,
		RateLimitWindow:   time.Minute,
		RateLimitBurst:    50,
		TrustedProxies:    []string{},
		sources:           make(map[string]string),
	}
	for _, name := range attributeNames() {
		c.sources[name] = SourceDefault
	}
	return c
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	configPath := os.Getenv("VOTERLIST_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	return LoadFile(filepath.Join(configPath, ConfigFileName))
}

// LoadFile loads configuration from the given file, which may be absent,
// and the environment.
func LoadFile(path string) (*Config, error) {
	config := newDefault()
	config.configFilePath = path

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := config.applyFile(data); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

func attributeNames() []string {
	return []string{
		"store", "token_ttl", "token_issuer",
		"rate_limit_requests", "rate_limit_window", "rate_limit_burst",
		"trusted_proxies",
	}
}

// applyFile overlays the attributes present in a YAML document
func (c *Config) applyFile(data []byte) error {
	var present map[string]yaml.Node
	if err := yaml.Unmarshal(data, &present); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	for name := range present {
		if _, ok := c.sources[name]; !ok {
			return fmt.Errorf("unknown attribute %q", name)
		}
		c.sources[name] = SourceFile
	}
	return nil
}

// applyEnv overlays VOTERLIST_* environment variables
func (c *Config) applyEnv() error {
	opts := env.Options{
		Prefix: EnvPrefix,
		OnSet: func(tag string, _ interface{}, isDefault bool) {
			if _, ok := os.LookupEnv(tag); isDefault || !ok {
				return
			}
			name := strings.ToLower(strings.TrimPrefix(tag, EnvPrefix))
			c.sources[name] = SourceEnvironment
		},
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	c.TrustedProxies = trimList(c.TrustedProxies)
	return nil
}

// trimList drops surrounding whitespace and empty entries from a
// comma-separated list
func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LoadSecrets reads the secret settings from the environment
func LoadSecrets() (*Secrets, error) {
	var s Secrets
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &s, nil
}

// DecodeTokenKey returns the decoded HMAC key for caller tokens
func (s *Secrets) DecodeTokenKey() ([]byte, error) {
	if s.TokenKey == "" {
		return nil, errors.New("VOTERLIST_TOKEN_KEY is not set")
	}
	key, err := base64.StdEncoding.DecodeString(s.TokenKey)
	if err != nil {
		return nil, fmt.Errorf("VOTERLIST_TOKEN_KEY is not valid base64: %w", err)
	}
	if len(key) < MinTokenKeyLength {
		return nil, fmt.Errorf("VOTERLIST_TOKEN_KEY must decode to at least %d bytes, got %d", MinTokenKeyLength, len(key))
	}
	return key, nil
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return SourceDefault
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return SourceDefault
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *Config) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if p := net.ParseIP(cidr); p != nil && p.Equal(parsedIP) {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("invalid store: %q (expected %s or %s)", c.Store, StoreMemory, StorePostgres)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %s", c.TokenTTL)
	}
	if c.TokenIssuer == "" {
		return errors.New("token_issuer must not be empty")
	}
	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("rate_limit_requests must be positive, got %d", c.RateLimitRequests)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("rate_limit_window must be positive, got %s", c.RateLimitWindow)
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate_limit_burst must be positive, got %d", c.RateLimitBurst)
	}

	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "store", Value: c.Store, Source: c.Source("store")},
		{Name: "token_ttl", Value: c.TokenTTL.String(), Source: c.Source("token_ttl")},
		{Name: "token_issuer", Value: c.TokenIssuer, Source: c.Source("token_issuer")},
		{Name: "rate_limit_requests", Value: strconv.Itoa(c.RateLimitRequests), Source: c.Source("rate_limit_requests")},
		{Name: "rate_limit_window", Value: c.RateLimitWindow.String(), Source: c.Source("rate_limit_window")},
		{Name: "rate_limit_burst", Value: strconv.Itoa(c.RateLimitBurst), Source: c.Source("rate_limit_burst")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-24s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-24s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-24s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
