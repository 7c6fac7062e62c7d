package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds the settings for dungeon generation and the replay server.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Replay     ReplayConfig     `yaml:"replay"`
}

// GenerationConfig holds the parameters passed to the generator.
type GenerationConfig struct {
	// Width and Height are the size of the area to partition.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// MinWidth and MinHeight are the smallest room dimensions a split may produce.
	// Values <= 0 disable splitting.
	MinWidth  int `yaml:"min_width"`
	MinHeight int `yaml:"min_height"`

	// Seed for the random source. 0 means pick one from the clock.
	Seed int64 `yaml:"seed"`
}

// ReplayConfig holds settings for the WebSocket replay server.
type ReplayConfig struct {
	// Address is the listen address, e.g. ":8080".
	Address string `yaml:"address"`

	// FrameIntervalMS is the delay between frames sent to a viewer.
	FrameIntervalMS int `yaml:"frame_interval_ms"`

	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum inbound WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`

	// MaxRooms caps the rooms a single request may produce, estimated from its
	// size and minimums. 0 means unlimited.
	MaxRooms int `yaml:"max_rooms"`

	Connections ConnectionsConfig `yaml:"connections"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent viewers from a single IP address.
	// 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent viewers.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// RateLimitConfig holds the lockout policy for clients sending malformed requests.
type RateLimitConfig struct {
	// MaxBadRequests is the number of bad requests before a lockout.
	MaxBadRequests int `yaml:"max_bad_requests"`

	// LockoutSeconds is the first lockout; each later one doubles.
	LockoutSeconds int `yaml:"lockout_seconds"`

	// MaxLockoutSeconds caps the lockout.
	MaxLockoutSeconds int `yaml:"max_lockout_seconds"`
}

// DefaultConfig returns a Config with usable defaults.
func DefaultConfig() *Config {
	return &Config{
		Generation: GenerationConfig{
			Width:     80,
			Height:    40,
			MinWidth:  8,
			MinHeight: 6,
			Seed:      0,
		},
		Replay: ReplayConfig{
			Address:         ":8080",
			FrameIntervalMS: 100,
			AllowedOrigins:  []string{}, // Same-origin only by default
			MaxMessageSize:  1024,
			MaxRooms:        4096,
			Connections: ConnectionsConfig{
				MaxPerIP: 3,
				MaxTotal: 50,
			},
			RateLimit: RateLimitConfig{
				MaxBadRequests:    5,
				LockoutSeconds:    30,
				MaxLockoutSeconds: 300,
			},
		},
	}
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, returns default config.
// If it can't be parsed, returns default config and the parse error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// Validate checks the values that would make generation or serving impossible.
// Non-positive minimum room sizes are allowed; they just disable splitting.
func (c *Config) Validate() error {
	if c.Generation.Width <= 0 || c.Generation.Height <= 0 {
		return fmt.Errorf("%w: generation size %dx%d must be positive",
			ErrInvalidConfig, c.Generation.Width, c.Generation.Height)
	}
	if c.Replay.FrameIntervalMS < 0 {
		return fmt.Errorf("%w: frame_interval_ms %d is negative", ErrInvalidConfig, c.Replay.FrameIntervalMS)
	}
	if c.Replay.MaxMessageSize < 0 {
		return fmt.Errorf("%w: max_message_size %d is negative", ErrInvalidConfig, c.Replay.MaxMessageSize)
	}
	if c.Replay.MaxRooms < 0 {
		return fmt.Errorf("%w: max_rooms %d is negative", ErrInvalidConfig, c.Replay.MaxRooms)
	}
	return nil
}

// ResolveSeed returns Seed, or a seed taken from the clock when Seed is 0.
func (g GenerationConfig) ResolveSeed() int64 {
	if g.Seed != 0 {
		return g.Seed
	}
	return time.Now().UnixNano()
}

// FrameInterval returns the configured delay between frames.
func (c *ReplayConfig) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMS) * time.Millisecond
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *ReplayConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means a non-browser client
	}

	// "http://localhost:3000" -> "localhost:3000"
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
