package utils

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

/**
 * MockRunner records commands instead of executing them (test support)
 * @property {[][]string} Commands - Every invocation, argv style
 * @property {map[string]bool} Present - Executables LookPath resolves
 * @property {map[string]error} Fail - Command prefix -> error to return
 * @property {map[string]string} Outputs - Command prefix -> Output() result
 * @property {map[string]func} Hooks - Command prefix -> side effect to run,
 *           for commands whose filesystem result later steps depend on
 */
type MockRunner struct {
	mu       sync.Mutex
	Commands [][]string
	Dirs     []string
	Present  map[string]bool
	Fail     map[string]error
	Outputs  map[string]string
	Hooks    map[string]func(argv []string) error
}

var _ CommandRunner = (*MockRunner)(nil)

func NewMockRunner() *MockRunner {
	return &MockRunner{
		Present: make(map[string]bool),
		Fail:    make(map[string]error),
		Outputs: make(map[string]string),
		Hooks:   make(map[string]func(argv []string) error),
	}
}

func (m *MockRunner) record(name string, args []string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = append(m.Commands, append([]string{name}, args...))
	return strings.Join(append([]string{name}, args...), " ")
}

func (m *MockRunner) match(table map[string]error, line string) error {
	for prefix, err := range table {
		if strings.HasPrefix(line, prefix) {
			return err
		}
	}
	return nil
}

func (m *MockRunner) Run(ctx context.Context, name string, args ...string) error {
	line := m.record(name, args)
	if err := m.match(m.Fail, line); err != nil {
		return err
	}
	for prefix, hook := range m.Hooks {
		if strings.HasPrefix(line, prefix) {
			return hook(append([]string{name}, args...))
		}
	}
	return nil
}

func (m *MockRunner) RunIn(ctx context.Context, dir, name string, args ...string) error {
	m.mu.Lock()
	m.Dirs = append(m.Dirs, dir)
	m.mu.Unlock()
	return m.Run(ctx, name, args...)
}

func (m *MockRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	line := m.record(name, args)
	if err := m.match(m.Fail, line); err != nil {
		return "", err
	}
	for prefix, out := range m.Outputs {
		if strings.HasPrefix(line, prefix) {
			return out, nil
		}
	}
	return "", nil
}

func (m *MockRunner) LookPath(file string) (string, error) {
	if m.Present[file] {
		return "/usr/bin/" + file, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
}

// CommandLines returns the recorded invocations joined with spaces.
func (m *MockRunner) CommandLines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make([]string, 0, len(m.Commands))
	for _, c := range m.Commands {
		lines = append(lines, strings.Join(c, " "))
	}
	return lines
}
