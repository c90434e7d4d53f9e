package services

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/sybel-io/settlement/internal/utils/log"
)

type (
	// SystemManager owns the lifetime of a process: the root context carrying the logger,
	// the service context canceled on shutdown and the hooks run before it is canceled.
	SystemManager interface {
		Context() context.Context
		ServiceContext() context.Context
		Logger() *zap.Logger
		AddPreShutdownHook(hook PreShutdownHook)
		WaitForInterrupt()
		Shutdown()
	}

	ManagerOption func(m *systemManager)

	PreShutdownHook func()

	systemManager struct {
		logger        *zap.Logger
		ctx           context.Context
		serviceCtx    context.Context
		cancelService context.CancelFunc

		mu       sync.Mutex
		hooks    []PreShutdownHook
		shutdown chan struct{}
		once     sync.Once
	}
)

// forceExitDelay is how long a second signal leaves the hooks before the process exits.
const forceExitDelay = 20 * time.Second

func NewManager(opts ...ManagerOption) SystemManager {
	m := &systemManager{
		ctx:      context.Background(),
		shutdown: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.New()
	}

	m.ctx = ctxzap.ToContext(m.ctx, m.logger)
	m.serviceCtx, m.cancelService = context.WithCancel(m.ctx)
	return m
}

func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *systemManager) {
		m.logger = logger
	}
}

// WithContext replaces context.Background() as the root context.
func WithContext(ctx context.Context) ManagerOption {
	return func(m *systemManager) {
		m.ctx = ctx
	}
}

func (m *systemManager) Context() context.Context {
	return m.ctx
}

func (m *systemManager) ServiceContext() context.Context {
	return m.serviceCtx
}

func (m *systemManager) Logger() *zap.Logger {
	return m.logger
}

// AddPreShutdownHook registers a hook run, concurrently with the others, before the service context is canceled.
func (m *systemManager) AddPreShutdownHook(hook PreShutdownHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook)
}

// Shutdown unblocks WaitForInterrupt. Calling it more than once is a no-op.
func (m *systemManager) Shutdown() {
	m.once.Do(func() {
		close(m.shutdown)
	})
}

// WaitForInterrupt blocks until Shutdown is called or SIGINT/SIGTERM is received,
// then runs the pre-shutdown hooks and cancels the service context.
// A second signal exits after forceExitDelay, a third one exits immediately.
func (m *systemManager) WaitForInterrupt() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signals)
		close(signals)
	}()

	go m.handleSignals(signals)

	<-m.shutdown
	m.logger.Info("shutting down")
	m.runHooks()
	m.cancelService()
	_ = m.logger.Sync()
}

func (m *systemManager) handleSignals(signals <-chan os.Signal) {
	received := 0
	for sig := range signals {
		received++
		logger := m.logger.With(zap.String("signal", sig.String()))
		switch received {
		case 1:
			logger.Info("shutdown requested")
			m.Shutdown()
		case 2:
			logger.Warn("forced exit requested", zap.Duration("delay", forceExitDelay))
			time.AfterFunc(forceExitDelay, func() { os.Exit(2) })
		default:
			logger.Warn("exiting now")
			_ = m.logger.Sync()
			os.Exit(2)
		}
	}
}

func (m *systemManager) runHooks() {
	m.mu.Lock()
	hooks := append([]PreShutdownHook(nil), m.hooks...)
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, hook := range hooks {
		wg.Add(1)
		go func(hook PreShutdownHook) {
			defer wg.Done()
			hook()
		}(hook)
	}
	wg.Wait()
}
