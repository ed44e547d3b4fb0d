// Package bridge adapts the discovery engine for foreign synchronous
// callers that cannot run its loops themselves. It owns a process-wide,
// reference-counted root context: the first live handle brings it up,
// the last handle's destruction tears it down. The cgo surface in
// cmd/liblandisc is a thin wrapper over this package.
package bridge

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"landisc/internal/discovery"
	"landisc/pkg/logger"
)

var (
	// ErrInvalidName rejects a missing or empty identity name.
	ErrInvalidName = errors.New("bridge: invalid name")
	// ErrInvalidHandle rejects operations on a nil handle.
	ErrInvalidHandle = errors.New("bridge: invalid handle")
)

// root is the shared execution context for all bridge handles.
type root struct {
	mu     sync.Mutex
	refs   int
	ctx    context.Context
	cancel context.CancelFunc
	log    zerolog.Logger
}

var shared root

// acquire takes a reference on the shared context, initializing it on
// the zero→one transition.
func (r *root) acquire() (context.Context, zerolog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refs == 0 {
		r.ctx, r.cancel = context.WithCancel(context.Background())
		r.log = logger.Init("info")
	}
	r.refs++
	return r.ctx, r.log
}

// release drops a reference, cancelling the shared context when the
// last one goes.
func (r *root) release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refs == 0 {
		return
	}
	r.refs--
	if r.refs == 0 {
		r.cancel()
		r.ctx, r.cancel = nil, nil
	}
}

// Handle owns one running engine. It is freed by exactly one Destroy
// call; use after Destroy is caller misuse and is not guarded against.
type Handle struct {
	eng    *discovery.Discovery
	cancel context.CancelFunc
}

// Create constructs and starts an engine. It fails on an empty name or
// any construction error; a failed Create leaves no engine running and
// no reference held.
func Create(servicePort uint16, name string) (*Handle, error) {
	if name == "" {
		return nil, ErrInvalidName
	}

	ctx, log := shared.acquire()

	eng, err := discovery.New(servicePort, name, discovery.DefaultConfig(), log)
	if err != nil {
		shared.release()
		return nil, err
	}

	engCtx, cancel := context.WithCancel(ctx)
	eng.Start(engCtx)

	return &Handle{eng: eng, cancel: cancel}, nil
}

// Destroy stops the engine's loops and releases the shared context
// reference. A nil handle is a no-op.
func (h *Handle) Destroy() {
	if h == nil {
		return
	}
	h.cancel()
	shared.release()
}

// PeersBytes returns the serialized peer snapshot. A nil handle yields
// ErrInvalidHandle and no side effects.
func (h *Handle) PeersBytes() ([]byte, error) {
	if h == nil {
		return nil, ErrInvalidHandle
	}
	return h.eng.PeersBytes(), nil
}
