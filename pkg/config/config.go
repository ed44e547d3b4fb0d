// Package config provides TOML configuration loading for landisc.
package config

import (
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration structure.
type Config struct {
	Discovery DiscoveryConfig `toml:"discovery"`
	Identity  IdentityConfig  `toml:"identity"`
}

// DiscoveryConfig holds the multicast discovery settings. The defaults
// match the shipped protocol constants; the intervals are configurable
// because the default staleness window (2s) equals the announce
// interval, which some deployments will want to widen to avoid peers
// flickering out of the registry on a single delayed announce.
type DiscoveryConfig struct {
	Group            string `toml:"group"`
	Port             int    `toml:"port"`
	AnnounceInterval string `toml:"announce_interval"`
	PeerTimeout      string `toml:"peer_timeout"`
	SweepInterval    string `toml:"sweep_interval"`
	TTL              int    `toml:"ttl"`
	LogLevel         string `toml:"log_level"`
}

// IdentityConfig holds the local announcement identity. An empty name
// falls back to the machine hostname at startup.
type IdentityConfig struct {
	Name        string `toml:"name"`
	ServicePort int    `toml:"service_port"`
}

// ParseAnnounceInterval parses the announce interval string to a time.Duration.
func (d *DiscoveryConfig) ParseAnnounceInterval() (time.Duration, error) {
	if d.AnnounceInterval == "" {
		return 2 * time.Second, nil
	}
	return time.ParseDuration(d.AnnounceInterval)
}

// ParsePeerTimeout parses the peer staleness window string to a time.Duration.
func (d *DiscoveryConfig) ParsePeerTimeout() (time.Duration, error) {
	if d.PeerTimeout == "" {
		return 2 * time.Second, nil
	}
	return time.ParseDuration(d.PeerTimeout)
}

// ParseSweepInterval parses the expiry sweep interval string to a time.Duration.
func (d *DiscoveryConfig) ParseSweepInterval() (time.Duration, error) {
	if d.SweepInterval == "" {
		return 3 * time.Second, nil
	}
	return time.ParseDuration(d.SweepInterval)
}

// Load reads and parses a TOML config file, applying defaults for unset values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Discovery.Group == "" {
		cfg.Discovery.Group = "239.255.255.250"
	}
	if cfg.Discovery.Port == 0 {
		cfg.Discovery.Port = 9999
	}
	if cfg.Discovery.AnnounceInterval == "" {
		cfg.Discovery.AnnounceInterval = "2s"
	}
	if cfg.Discovery.PeerTimeout == "" {
		cfg.Discovery.PeerTimeout = "2s"
	}
	if cfg.Discovery.SweepInterval == "" {
		cfg.Discovery.SweepInterval = "3s"
	}
	if cfg.Discovery.TTL == 0 {
		cfg.Discovery.TTL = 1
	}
	if cfg.Discovery.LogLevel == "" {
		cfg.Discovery.LogLevel = "info"
	}
	if cfg.Identity.ServicePort == 0 {
		cfg.Identity.ServicePort = 8080
	}
}
