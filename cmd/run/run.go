// Package run starts a discovery node and periodically logs the peers
// it can see.
package run

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"landisc/internal/discovery"
	"landisc/internal/sysid"
	"landisc/pkg/config"
	"landisc/pkg/logger"
)

const peerReportInterval = 5 * time.Second

// Run starts the discovery node and blocks until SIGINT/SIGTERM.
func Run(configPath string) error {
	cfg := config.Default()
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	log := logger.Init(cfg.Discovery.LogLevel)

	name := cfg.Identity.Name
	if name == "" {
		name = sysid.DefaultName()
	}

	announceInterval, err := cfg.Discovery.ParseAnnounceInterval()
	if err != nil {
		return fmt.Errorf("parsing announce interval: %w", err)
	}
	peerTimeout, err := cfg.Discovery.ParsePeerTimeout()
	if err != nil {
		return fmt.Errorf("parsing peer timeout: %w", err)
	}
	sweepInterval, err := cfg.Discovery.ParseSweepInterval()
	if err != nil {
		return fmt.Errorf("parsing sweep interval: %w", err)
	}

	host := sysid.Describe()
	log.Info().
		Str("name", name).
		Str("platform", host.Platform).
		Str("kernel", host.Kernel).
		Str("arch", host.Arch).
		Msg("Starting landisc node")

	eng, err := discovery.New(uint16(cfg.Identity.ServicePort), name, discovery.Config{
		Group:            cfg.Discovery.Group,
		Port:             cfg.Discovery.Port,
		TTL:              cfg.Discovery.TTL,
		AnnounceInterval: announceInterval,
		PeerTimeout:      peerTimeout,
		SweepInterval:    sweepInterval,
	}, log)
	if err != nil {
		return fmt.Errorf("constructing discovery engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng.Start(ctx)

	ticker := time.NewTicker(peerReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Shutting down")
			return nil
		case <-ticker.C:
			peers := eng.Peers()
			if len(peers) == 0 {
				log.Info().Msg("No peers visible")
				continue
			}
			for _, p := range peers {
				log.Info().
					Str("name", p.Name).
					Str("addr", p.Addr).
					Uint16("port", p.Port).
					Msg("Peer visible")
			}
		}
	}
}
