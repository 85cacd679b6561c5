package control

import (
	"log"
	"math"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/filter"
	"github.com/ayusman/mudra/internal/gesture"
)

// ExecutorConfig tunes screen mapping, smoothing and rate limiting.
type ExecutorConfig struct {
	// PaddingX/PaddingY shrink the camera frame to an active box: the
	// center fraction of the view that maps onto the full screen, so
	// the hand reaches screen edges without leaving the frame.
	PaddingX float64
	PaddingY float64

	// One Euro parameters for the cursor axes.
	CursorMinCutoff float64
	CursorBeta      float64
	// One Euro parameters for scroll speed, tuned smoother.
	ScrollMinCutoff float64
	ScrollBeta      float64
	// DerivativeCutoff is shared by all filter instances.
	DerivativeCutoff float64

	// ClickCooldown is the floor between any two emitted clicks,
	// independent of the trigger machine's hold logic.
	ClickCooldown time.Duration
	// ScrollCooldown throttles discrete (three/four finger) scrolls.
	ScrollCooldown time.Duration
	// ScrollStep is the wheel amount per discrete scroll.
	ScrollStep int
	// ScrollDeadZone suppresses speed-driven scroll below this speed.
	ScrollDeadZone float64
}

// DefaultExecutorConfig returns the tuned production mapping.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		PaddingX:         0.15,
		PaddingY:         0.15,
		CursorMinCutoff:  1.0,
		CursorBeta:       0.02,
		ScrollMinCutoff:  1.5,
		ScrollBeta:       0.0,
		DerivativeCutoff: 1.0,
		ClickCooldown:    500 * time.Millisecond,
		ScrollCooldown:   200 * time.Millisecond,
		ScrollStep:       50,
		ScrollDeadZone:   0.5,
	}
}

// Executor performs the OS-facing effect of a resolved command. It
// owns the filter state for all smoothed scalars and the drag latch.
// Not safe for concurrent use; the decision stage is the sole caller.
type Executor struct {
	cfg ExecutorConfig
	inj Injector

	screenW int
	screenH int

	filterX     *filter.OneEuro
	filterY     *filter.OneEuro
	filterSpeed *filter.OneEuro

	scrollAccum float64
	dragging    bool

	lastClick  time.Time
	lastScroll time.Time

	prevX, prevY float64
	havePrev     bool
	tickSpeed    float64
}

// NewExecutor creates an executor bound to the given injector. Screen
// dimensions are read once from the injector.
func NewExecutor(cfg ExecutorConfig, inj Injector) *Executor {
	w, h := inj.ScreenSize()
	return &Executor{
		cfg:         cfg,
		inj:         inj,
		screenW:     w,
		screenH:     h,
		filterX:     filter.New(cfg.CursorMinCutoff, cfg.CursorBeta, cfg.DerivativeCutoff),
		filterY:     filter.New(cfg.CursorMinCutoff, cfg.CursorBeta, cfg.DerivativeCutoff),
		filterSpeed: filter.New(cfg.ScrollMinCutoff, cfg.ScrollBeta, cfg.DerivativeCutoff),
	}
}

// CursorSpeed returns the cursor displacement in pixels over the last
// executed movement tick. The stability buffer uses it for the
// velocity lock.
func (e *Executor) CursorSpeed() float64 {
	return e.tickSpeed
}

// Execute performs cmd for this tick. Injector failures degrade to a
// no-op; Execute never returns an error to the pipeline.
func (e *Executor) Execute(cmd Command, hand *detector.HandLandmarks, now time.Time) {
	// Drag is released the instant anything other than drag is the
	// resolved action, whatever that action is.
	if e.dragging && cmd.Action != gesture.ActionDrag {
		e.releaseDrag()
	}

	switch cmd.Action {
	case gesture.ActionMoveCursor:
		e.moveCursor(hand, now)

	case gesture.ActionDrag:
		if !e.dragging {
			if err := e.inj.ButtonDown(); err != nil {
				log.Printf("injector: button down: %v", err)
				return
			}
			e.dragging = true
		}
		e.moveCursor(hand, now)

	case gesture.ActionLeftClick:
		e.click(now, e.inj.Click)

	case gesture.ActionRightClick:
		e.click(now, e.inj.RightClick)

	case gesture.ActionDoubleClick:
		e.click(now, e.inj.DoubleClick)

	case gesture.ActionScroll:
		e.scrollBySpeed(cmd.ScrollSpeed, now)

	case gesture.ActionScrollUp:
		e.scrollDiscrete(e.cfg.ScrollStep, now)

	case gesture.ActionScrollDown:
		e.scrollDiscrete(-e.cfg.ScrollStep, now)

	case gesture.ActionStop:
		// Intentional release of smoothing momentum.
		e.filterX.Reset()
		e.filterY.Reset()
		e.havePrev = false
		e.tickSpeed = 0
	}
}

// Reset releases the drag latch and clears all filter and speed state,
// for when the hand disappears or control is disabled.
func (e *Executor) Reset() {
	if e.dragging {
		e.releaseDrag()
	}
	e.filterX.Reset()
	e.filterY.Reset()
	e.filterSpeed.Reset()
	e.scrollAccum = 0
	e.havePrev = false
	e.tickSpeed = 0
}

func (e *Executor) releaseDrag() {
	if err := e.inj.ButtonUp(); err != nil {
		log.Printf("injector: button up: %v", err)
	}
	e.dragging = false
}

func (e *Executor) moveCursor(hand *detector.HandLandmarks, now time.Time) {
	tip := hand.Points[detector.IndexTip]
	rawX, rawY := e.mapToScreen(tip.X, tip.Y)

	x := e.filterX.Filter(rawX, now)
	y := e.filterY.Filter(rawY, now)

	if e.havePrev {
		e.tickSpeed = math.Hypot(x-e.prevX, y-e.prevY)
	}
	e.prevX, e.prevY = x, y
	e.havePrev = true

	if err := e.inj.MoveCursor(int(x), int(y)); err != nil {
		log.Printf("injector: move: %v", err)
	}
}

// mapToScreen maps a normalized camera position through the active box
// onto screen pixels. Positions outside the box clamp first, so they
// saturate at the screen edges. X is mirrored for natural movement.
func (e *Executor) mapToScreen(nx, ny float64) (float64, float64) {
	x := (nx - e.cfg.PaddingX) / (1 - 2*e.cfg.PaddingX)
	y := (ny - e.cfg.PaddingY) / (1 - 2*e.cfg.PaddingY)

	x = clamp01(x)
	y = clamp01(y)

	sx := (1 - x) * float64(e.screenW-1)
	sy := y * float64(e.screenH-1)
	return sx, sy
}

func (e *Executor) click(now time.Time, emit func() error) {
	if now.Sub(e.lastClick) < e.cfg.ClickCooldown {
		return
	}
	if err := emit(); err != nil {
		log.Printf("injector: click: %v", err)
		return
	}
	e.lastClick = now
}

// scrollBySpeed accumulates filtered speed and emits whole wheel steps,
// keeping the fractional remainder for smooth sub-unit scrolling.
func (e *Executor) scrollBySpeed(speed float64, now time.Time) {
	v := e.filterSpeed.Filter(speed, now)
	if math.Abs(v) < e.cfg.ScrollDeadZone {
		return
	}

	e.scrollAccum += v
	steps := int(e.scrollAccum)
	if steps == 0 {
		return
	}

	if err := e.inj.Scroll(steps); err != nil {
		log.Printf("injector: scroll: %v", err)
		return
	}
	e.scrollAccum -= float64(steps)
}

func (e *Executor) scrollDiscrete(amount int, now time.Time) {
	if now.Sub(e.lastScroll) < e.cfg.ScrollCooldown {
		return
	}
	if err := e.inj.Scroll(amount); err != nil {
		log.Printf("injector: scroll: %v", err)
		return
	}
	e.lastScroll = now
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
