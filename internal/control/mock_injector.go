package control

import "fmt"

// MockInjector records issued commands for tests.
type MockInjector struct {
	Commands []string
	Width    int
	Height   int
	Err      error

	LastX, LastY int
	ButtonHeld   bool
	ScrollTotal  int
}

// NewMockInjector returns a mock with a 1920x1080 virtual screen.
func NewMockInjector() *MockInjector {
	return &MockInjector{Width: 1920, Height: 1080}
}

func (m *MockInjector) record(cmd string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Commands = append(m.Commands, cmd)
	return nil
}

func (m *MockInjector) MoveCursor(x, y int) error {
	if err := m.record(fmt.Sprintf("move %d,%d", x, y)); err != nil {
		return err
	}
	m.LastX, m.LastY = x, y
	return nil
}

func (m *MockInjector) ButtonDown() error {
	if err := m.record("down"); err != nil {
		return err
	}
	m.ButtonHeld = true
	return nil
}

func (m *MockInjector) ButtonUp() error {
	if err := m.record("up"); err != nil {
		return err
	}
	m.ButtonHeld = false
	return nil
}

func (m *MockInjector) Click() error       { return m.record("click") }
func (m *MockInjector) RightClick() error  { return m.record("rightclick") }
func (m *MockInjector) DoubleClick() error { return m.record("doubleclick") }

func (m *MockInjector) Scroll(n int) error {
	if err := m.record(fmt.Sprintf("scroll %d", n)); err != nil {
		return err
	}
	m.ScrollTotal += n
	return nil
}

func (m *MockInjector) ScreenSize() (int, int) {
	return m.Width, m.Height
}

// Count returns how many recorded commands equal cmd.
func (m *MockInjector) Count(cmd string) int {
	n := 0
	for _, c := range m.Commands {
		if c == cmd {
			n++
		}
	}
	return n
}
