package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/sybel-io/settlement/internal/utils/log"
)

// MockSystemManager never blocks: Shutdown runs the hooks inline.
type MockSystemManager struct {
	logger *zap.Logger
	hooks  []PreShutdownHook
}

var _ SystemManager = (*MockSystemManager)(nil)

func NewMockSystemManager() SystemManager {
	logger := log.NewDevelopment()
	zap.ReplaceGlobals(logger)
	return &MockSystemManager{logger: logger}
}

func (m *MockSystemManager) Context() context.Context {
	return context.Background()
}

func (m *MockSystemManager) ServiceContext() context.Context {
	return context.Background()
}

func (m *MockSystemManager) Logger() *zap.Logger {
	return m.logger
}

func (m *MockSystemManager) AddPreShutdownHook(hook PreShutdownHook) {
	m.hooks = append(m.hooks, hook)
}

func (m *MockSystemManager) WaitForInterrupt() {
}

func (m *MockSystemManager) Shutdown() {
	for _, hook := range m.hooks {
		hook()
	}
}
