package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/okra-platform/contractgen/internal/config"
	"github.com/okra-platform/contractgen/internal/dev"
)

type mockConfigLoader struct {
	mock.Mock
}

func (m *mockConfigLoader) LoadConfig() (*config.Config, string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*config.Config), args.String(1), args.Error(2)
}

type mockOutput struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockOutput) Printf(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, fmt.Sprintf(format, args...))
}

func (m *mockOutput) Println(args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, fmt.Sprintln(args...))
}

func (m *mockOutput) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return strings.Join(m.messages, "")
}

type mockSignalNotifier struct {
	mock.Mock
}

func (m *mockSignalNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	m.Called(c, sig)
}

func (m *mockSignalNotifier) Stop(c chan<- os.Signal) {
	m.Called(c)
}

type mockSession struct {
	mock.Mock
}

func (m *mockSession) Run(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockSessionFactory struct {
	mock.Mock
	onResult dev.ResultFunc
}

func (m *mockSessionFactory) NewSession(cfg *config.Config, projectRoot string, onResult dev.ResultFunc) Session {
	m.onResult = onResult
	args := m.Called(cfg, projectRoot)
	return args.Get(0).(Session)
}
