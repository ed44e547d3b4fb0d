// Package discovery implements the multicast peer discovery engine:
// socket setup, the announce/listen/expiry loops, and the snapshot API.
package discovery

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"landisc/internal/announce"
	"landisc/internal/netif"
	"landisc/internal/registry"
	"landisc/internal/socket"
)

// Config holds the tunable discovery parameters. Zero values are not
// meaningful; use DefaultConfig as the base.
type Config struct {
	Group            string
	Port             int
	TTL              int
	AnnounceInterval time.Duration
	PeerTimeout      time.Duration
	SweepInterval    time.Duration
}

// DefaultConfig returns the shipped protocol parameters.
func DefaultConfig() Config {
	return Config{
		Group:            "239.255.255.250",
		Port:             9999,
		TTL:              1,
		AnnounceInterval: 2 * time.Second,
		PeerTimeout:      2 * time.Second,
		SweepInterval:    3 * time.Second,
	}
}

// Discovery owns the socket pair, the peer registry, and the local
// announcement payload. Construct with New, then call Start exactly
// once; the loops run until the context is cancelled.
type Discovery struct {
	cfg   Config
	log   zerolog.Logger
	socks *socket.Sockets
	reg   *registry.Registry

	// payload is read by the announcer (to send) and the listener (to
	// self-filter) and written through SetIdentity. Never exposed raw.
	mu      sync.RWMutex
	payload announce.Announcement
}

// New selects the local interface, provisions both sockets, and
// initializes the registry. No loop is started; a construction error
// never leaves a half-configured engine behind.
func New(servicePort uint16, name string, cfg Config, log zerolog.Logger) (*Discovery, error) {
	group := net.ParseIP(cfg.Group)
	if group == nil {
		return nil, fmt.Errorf("invalid multicast group %q", cfg.Group)
	}

	localIP, err := netif.Local()
	if err != nil {
		return nil, fmt.Errorf("selecting local interface: %w", err)
	}

	socks, err := socket.Provision(group, cfg.Port, cfg.TTL, localIP, log)
	if err != nil {
		return nil, fmt.Errorf("provisioning sockets: %w", err)
	}

	log.Info().
		Str("local_ip", localIP.String()).
		Str("group", socks.Group.String()).
		Str("name", name).
		Uint16("service_port", servicePort).
		Msg("Discovery engine ready")

	return &Discovery{
		cfg:   cfg,
		log:   log,
		socks: socks,
		reg:   registry.New(),
		payload: announce.Announcement{
			Name: name,
			Port: servicePort,
		},
	}, nil
}

// Start launches the announcer, listener, and expiry loops. Calling it
// twice duplicates the loops; call exactly once. Cancelling ctx stops
// all three and closes the sockets.
func (d *Discovery) Start(ctx context.Context) {
	context.AfterFunc(ctx, d.socks.Close)

	go d.runAnnouncer(ctx)
	go d.runListener(ctx)
	go d.runExpiry(ctx)
}

// Identity returns the current local announcement.
func (d *Discovery) Identity() announce.Announcement {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.payload
}

// SetIdentity replaces the local announcement name and service port.
// The next announce tick picks it up.
func (d *Discovery) SetIdentity(name string, servicePort uint16) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payload = announce.Announcement{Name: name, Port: servicePort}
}

// Peers returns a registry snapshot at call time; may be empty.
func (d *Discovery) Peers() []registry.Peer {
	return d.reg.Snapshot()
}

// PeersBytes returns the snapshot serialized to the wire encoding, a
// single transferable buffer for boundary consumers. A marshal failure
// yields an empty buffer, not an error.
func (d *Discovery) PeersBytes() []byte {
	data, err := msgpack.Marshal(d.Peers())
	if err != nil {
		d.log.Error().Err(err).Msg("Failed to marshal peer snapshot")
		return []byte{}
	}
	return data
}

func (d *Discovery) runAnnouncer(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.AnnounceInterval)
	defer ticker.Stop()

	d.announceOnce()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.announceOnce()
		}
	}
}

func (d *Discovery) announceOnce() {
	data, err := d.Identity().Marshal()
	if err != nil {
		d.log.Error().Err(err).Msg("Failed to marshal announcement")
		return
	}

	if _, err := d.socks.Announce.WriteToUDP(data, d.socks.Group); err != nil {
		// Non-fatal; the next tick is the retry.
		d.log.Error().Err(err).Str("target", d.socks.Group.String()).Msg("Failed to send announcement")
		return
	}

	d.log.Debug().
		Str("target", d.socks.Group.String()).
		Int("bytes", len(data)).
		Msg("Announcement sent")
}

func (d *Discovery) runListener(ctx context.Context) {
	buf := make([]byte, announce.MaxPacketSize)
	for {
		n, src, err := d.socks.Listen.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			d.log.Error().Err(err).Msg("Error reading from UDP")
			continue
		}
		d.handleDatagram(buf[:n], src, time.Now())
	}
}

// handleDatagram decodes one received announcement, drops malformed
// payloads and self-announcements, and refreshes the registry.
func (d *Discovery) handleDatagram(data []byte, src *net.UDPAddr, now time.Time) {
	msg, err := announce.Unmarshal(data)
	if err != nil {
		d.log.Warn().Err(err).Str("src", src.String()).Msg("Discarding malformed announcement")
		return
	}

	if msg.Name == d.Identity().Name {
		return
	}

	_, known := d.reg.Get(msg.Name)
	d.reg.Upsert(registry.Peer{
		Addr:     src.String(),
		Name:     msg.Name,
		Port:     msg.Port,
		LastSeen: now,
	})

	if !known {
		d.log.Info().
			Str("name", msg.Name).
			Str("addr", src.String()).
			Uint16("port", msg.Port).
			Msg("Peer discovered")
	} else {
		d.log.Debug().Str("name", msg.Name).Msg("Peer refreshed")
	}
}

func (d *Discovery) runExpiry(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, p := range d.reg.EvictStale(time.Now(), d.cfg.PeerTimeout) {
				d.log.Info().
					Str("name", p.Name).
					Time("last_seen", p.LastSeen).
					Msg("Peer expired")
			}
		}
	}
}
