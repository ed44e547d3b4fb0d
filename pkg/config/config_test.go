package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")

	content := `
[discovery]
  group = "239.1.2.3"
  port = 5353
  announce_interval = "5s"
  peer_timeout = "12s"
  sweep_interval = "4s"
  ttl = 2
  log_level = "debug"

[identity]
  name = "arcade-1"
  service_port = 7777
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Discovery.Group != "239.1.2.3" {
		t.Errorf("Discovery.Group: got %s, want 239.1.2.3", cfg.Discovery.Group)
	}
	if cfg.Discovery.Port != 5353 {
		t.Errorf("Discovery.Port: got %d, want 5353", cfg.Discovery.Port)
	}
	if cfg.Discovery.TTL != 2 {
		t.Errorf("Discovery.TTL: got %d, want 2", cfg.Discovery.TTL)
	}
	if cfg.Discovery.LogLevel != "debug" {
		t.Errorf("Discovery.LogLevel: got %s, want debug", cfg.Discovery.LogLevel)
	}
	if cfg.Identity.Name != "arcade-1" {
		t.Errorf("Identity.Name: got %s, want arcade-1", cfg.Identity.Name)
	}
	if cfg.Identity.ServicePort != 7777 {
		t.Errorf("Identity.ServicePort: got %d, want 7777", cfg.Identity.ServicePort)
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")

	// Minimal config — all defaults should apply
	content := `
[identity]
  name = "arcade-1"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Discovery.Group != "239.255.255.250" {
		t.Errorf("default Group: got %s, want 239.255.255.250", cfg.Discovery.Group)
	}
	if cfg.Discovery.Port != 9999 {
		t.Errorf("default Port: got %d, want 9999", cfg.Discovery.Port)
	}
	if cfg.Discovery.AnnounceInterval != "2s" {
		t.Errorf("default AnnounceInterval: got %s, want 2s", cfg.Discovery.AnnounceInterval)
	}
	if cfg.Discovery.PeerTimeout != "2s" {
		t.Errorf("default PeerTimeout: got %s, want 2s", cfg.Discovery.PeerTimeout)
	}
	if cfg.Discovery.SweepInterval != "3s" {
		t.Errorf("default SweepInterval: got %s, want 3s", cfg.Discovery.SweepInterval)
	}
	if cfg.Discovery.TTL != 1 {
		t.Errorf("default TTL: got %d, want 1", cfg.Discovery.TTL)
	}
	if cfg.Discovery.LogLevel != "info" {
		t.Errorf("default LogLevel: got %s, want info", cfg.Discovery.LogLevel)
	}
	if cfg.Identity.ServicePort != 8080 {
		t.Errorf("default ServicePort: got %d, want 8080", cfg.Identity.ServicePort)
	}
}

func TestLoad_NonexistentFile(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(cfgPath, []byte("invalid [[[ toml"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Load(cfgPath)
	if err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestParseAnnounceInterval(t *testing.T) {
	cfg := &DiscoveryConfig{AnnounceInterval: "10s"}
	d, err := cfg.ParseAnnounceInterval()
	if err != nil {
		t.Fatalf("parse interval: %v", err)
	}
	if d.Seconds() != 10 {
		t.Errorf("AnnounceInterval: got %v, want 10s", d)
	}
}

func TestParseAnnounceInterval_Default(t *testing.T) {
	cfg := &DiscoveryConfig{}
	d, err := cfg.ParseAnnounceInterval()
	if err != nil {
		t.Fatalf("parse interval: %v", err)
	}
	if d.Seconds() != 2 {
		t.Errorf("Default interval: got %v, want 2s", d)
	}
}

func TestParsePeerTimeout(t *testing.T) {
	cfg := &DiscoveryConfig{PeerTimeout: "120s"}
	d, err := cfg.ParsePeerTimeout()
	if err != nil {
		t.Fatalf("parse timeout: %v", err)
	}
	if d.Seconds() != 120 {
		t.Errorf("PeerTimeout: got %v, want 120s", d)
	}
}

func TestParseSweepInterval_Default(t *testing.T) {
	cfg := &DiscoveryConfig{}
	d, err := cfg.ParseSweepInterval()
	if err != nil {
		t.Fatalf("parse sweep interval: %v", err)
	}
	if d.Seconds() != 3 {
		t.Errorf("Default sweep interval: got %v, want 3s", d)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Discovery.Group != "239.255.255.250" || cfg.Discovery.Port != 9999 {
		t.Errorf("Default() missing protocol constants: %+v", cfg.Discovery)
	}
}
