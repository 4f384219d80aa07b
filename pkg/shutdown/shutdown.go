package shutdown

import (
	"context"
	"sync"

	"github.com/paperdesk/gostock/pkg/logger"
)

// Handler is a shutdown callback. It should respect ctx's deadline.
type Handler func(ctx context.Context)

// Manager collects shutdown callbacks and runs them concurrently on
// Shutdown, bounded by the caller's context.
type Manager struct {
	callbacks []Handler
	mu        sync.Mutex
}

func NewManager() *Manager {
	return &Manager{}
}

// OnShutdown registers a callback.
func (m *Manager) OnShutdown(handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, handler)
}

// Shutdown runs every registered callback and blocks until they finish or
// ctx expires.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	callbacks := m.callbacks
	m.mu.Unlock()

	if len(callbacks) == 0 {
		return
	}
	logger.Infof("shutting down, %d callbacks", len(callbacks))

	var wg sync.WaitGroup
	wg.Add(len(callbacks))
	for _, cb := range callbacks {
		go func(h Handler) {
			defer wg.Done()
			h(ctx)
		}(cb)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("shutdown complete")
	case <-ctx.Done():
		logger.Warn("shutdown timed out, exiting anyway")
	}
}
