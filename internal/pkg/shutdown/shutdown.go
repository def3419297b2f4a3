// Package shutdown coordinates graceful teardown of service resources.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"linewall/internal/pkg/logger"
)

// Manager runs registered cleanup handlers on shutdown.
type Manager struct {
	log      *logger.Logger
	timeout  time.Duration
	handlers []handler
	mu       sync.Mutex
	once     sync.Once
	done     chan struct{}
}

type handler struct {
	name    string
	cleanup func(ctx context.Context) error
}

// NewManager creates a shutdown manager with an overall timeout.
func NewManager(log *logger.Logger, timeout time.Duration) *Manager {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Manager{
		log:     log,
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// Register adds a cleanup handler. Handlers run in reverse
// registration order, so dependencies registered first close last.
func (m *Manager) Register(name string, cleanup func(ctx context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, handler{name: name, cleanup: cleanup})
	m.log.Debug("registered shutdown handler", "name", name)
}

// RegisterSimple adds a cleanup handler that takes no context.
func (m *Manager) RegisterSimple(name string, cleanup func()) {
	m.Register(name, func(ctx context.Context) error {
		cleanup()
		return nil
	})
}

// Wait blocks until SIGINT/SIGTERM/SIGHUP, then runs cleanup.
func (m *Manager) Wait() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigChan
	m.log.Info("shutdown signal received", "signal", sig.String())

	m.Shutdown()
}

// Shutdown runs all cleanup handlers in LIFO order. Safe to call more
// than once; only the first call runs the handlers.
func (m *Manager) Shutdown() {
	m.once.Do(m.runHandlers)
}

func (m *Manager) runHandlers() {
	m.mu.Lock()
	handlers := make([]handler, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	m.log.Info("starting graceful shutdown",
		"handlers", len(handlers),
		"timeout", m.timeout.String(),
	)

	for i := len(handlers) - 1; i >= 0; i-- {
		h := handlers[i]

		if ctx.Err() != nil {
			m.log.Warn("shutdown timeout exceeded, skipping remaining handlers",
				"skipped", i+1,
			)
			break
		}

		start := time.Now()
		if err := h.cleanup(ctx); err != nil {
			m.log.Error("shutdown handler failed",
				"name", h.name,
				"error", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			continue
		}
		m.log.Debug("shutdown handler completed",
			"name", h.name,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	m.log.Info("graceful shutdown completed")
	close(m.done)
}

// Done returns a channel closed once shutdown has completed.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Context returns a context canceled when shutdown completes.
func (m *Manager) Context() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-m.done
		cancel()
	}()
	return ctx
}
