// Package control turns stable gesture events into OS input commands:
// the trigger state machine gates discrete actions, the executor maps
// them onto the injector.
package control

import (
	"github.com/go-vgo/robotgo"
)

// Injector abstracts the OS input surface. All calls are
// fire-and-forget; implementations may fail (a safety abort at a
// screen corner, a denied accessibility permission) and callers must
// degrade to a no-op for the tick rather than crash.
type Injector interface {
	MoveCursor(x, y int) error
	ButtonDown() error
	ButtonUp() error
	Click() error
	RightClick() error
	DoubleClick() error
	// Scroll moves the wheel by n steps; positive is up.
	Scroll(n int) error
	ScreenSize() (width, height int)
}

// RobotInjector drives the real cursor through robotgo.
type RobotInjector struct{}

// NewRobotInjector returns the production injector.
func NewRobotInjector() *RobotInjector {
	return &RobotInjector{}
}

func (r *RobotInjector) MoveCursor(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

func (r *RobotInjector) ButtonDown() error {
	return robotgo.Toggle("left", "down")
}

func (r *RobotInjector) ButtonUp() error {
	return robotgo.Toggle("left", "up")
}

func (r *RobotInjector) Click() error {
	robotgo.Click("left", false)
	return nil
}

func (r *RobotInjector) RightClick() error {
	robotgo.Click("right", false)
	return nil
}

func (r *RobotInjector) DoubleClick() error {
	robotgo.Click("left", true)
	return nil
}

func (r *RobotInjector) Scroll(n int) error {
	robotgo.Scroll(0, n)
	return nil
}

func (r *RobotInjector) ScreenSize() (int, int) {
	return robotgo.GetScreenSize()
}
