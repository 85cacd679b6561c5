// Package app wires the mudra control pipeline: capture, inference and
// decision stages connected by bounded latest-value channels.
package app

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
	"gocv.io/x/gocv"
)

// DetectorFactory constructs a hand detector. It is invoked on the
// inference goroutine so detectors with thread affinity are built
// where they will be used.
type DetectorFactory func() (detector.Detector, error)

// HandState is one hand's per-tick decision output, published to HUD
// subscribers for display only.
type HandState struct {
	Landmarks detector.HandLandmarks `json:"landmarks"`
	Raw       gesture.Classification `json:"raw"`
	Stable    gesture.StableGesture  `json:"stable"`
}

// FrameEvent is the decision stage's per-tick output. Consumers must
// not feed anything back into the decision logic.
type FrameEvent struct {
	Hands     []HandState `json:"hands"`
	Timestamp int64       `json:"timestamp"`
}

// App is the main application that orchestrates gesture detection and
// mouse control.
type App struct {
	cfg   config.Config
	store *store.Store

	camera      capture.Camera
	motion      *capture.MotionDetector
	newDetector DetectorFactory
	injector    control.Injector

	classifier *gesture.Classifier
	buffer     *gesture.StabilityBuffer
	machine    *control.TriggerMachine
	executor   *control.Executor
	trigger    control.TriggerState

	enabled bool
	mu      sync.RWMutex

	stopCh  chan struct{}
	wg      sync.WaitGroup
	frameCh chan *gocv.Mat

	latestMu sync.Mutex
	latest   *inferenceResult

	handsVisible bool
	visMu        sync.Mutex

	// Preview plumbing. The capture loop is the camera's only reader;
	// the HTTP stream consumes these snapshots instead of the device.
	jpegMu     sync.Mutex
	latestJPEG []byte
	streamRefs atomic.Int32

	frameCallbacks []func(FrameEvent)
}

// New creates an App from the given configuration. The camera,
// injector and detector factory have production defaults and can be
// replaced before Start for testing.
func New(cfg config.Config, st *store.Store) *App {
	a := &App{
		cfg:        cfg,
		store:      st,
		camera:     capture.NewCamera(cfg.Camera.Index, cfg.Camera.Width, cfg.Camera.Height),
		motion:     capture.NewMotionDetector(cfg.Camera.MotionThreshold),
		injector:   control.NewRobotInjector(),
		classifier: gesture.NewClassifier(cfg.ClassifierConfig()),
		buffer:     gesture.NewStabilityBuffer(cfg.StabilityBufferConfig()),
		machine:    control.NewTriggerMachine(cfg.TriggerMachineConfig()),
		enabled:    cfg.Control.Enabled,
		frameCh:    make(chan *gocv.Mat, 1),
	}

	a.newDetector = func() (detector.Detector, error) {
		mp, err := detector.NewMediaPipeDetector(detector.Config{
			MaxHands:        cfg.Detector.MaxHands,
			MinConfidence:   cfg.Detector.MinConfidence,
			MinTrackingConf: cfg.Detector.MinTrackingConf,
		})
		if err == nil {
			log.Println("Using MediaPipe hand detection")
			return mp, nil
		}
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		return detector.NewMockDetector(), nil
	}

	return a
}

// SetCamera replaces the camera. Must be called before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.camera = c
}

// SetInjector replaces the OS input injector. Must be called before Start.
func (a *App) SetInjector(inj control.Injector) {
	a.injector = inj
}

// SetDetectorFactory replaces the detector factory. Must be called
// before Start. The factory runs on the inference goroutine.
func (a *App) SetDetectorFactory(f DetectorFactory) {
	a.newDetector = f
}

// SetEnabled enables or disables mouse control. Disabling releases any
// held drag on the next decision tick.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether mouse control is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Camera returns the camera instance, for the preview stream.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// OnFrame registers a callback invoked on the decision goroutine with
// each tick's output. Register before Start; callbacks must be fast.
func (a *App) OnFrame(fn func(FrameEvent)) {
	a.frameCallbacks = append(a.frameCallbacks, fn)
}

// Start opens the camera and launches the pipeline stages.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.cfg.Camera.ActiveFPS)

	a.executor = control.NewExecutor(a.cfg.ExecutorConfig(), a.injector)

	a.stopCh = make(chan struct{})
	a.wg.Add(3)
	go a.captureLoop(a.stopCh)
	go a.inferenceLoop(a.stopCh)
	go a.decisionLoop(a.stopCh)

	log.Println("Control pipeline started")
	return nil
}

// Stop halts the pipeline and releases resources. Device and model
// resources are closed only after their owning goroutine has exited.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	a.stopCh = nil
	a.mu.Unlock()

	a.wg.Wait()

	// Drain any frame left in the channel.
	select {
	case frame := <-a.frameCh:
		frame.Close()
	default:
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()

	log.Println("Control pipeline stopped")
}

func (a *App) setHandsVisible(v bool) {
	a.visMu.Lock()
	a.handsVisible = v
	a.visMu.Unlock()
}

func (a *App) anyHandsVisible() bool {
	a.visMu.Lock()
	defer a.visMu.Unlock()
	return a.handsVisible
}

// AcquireStream registers a preview consumer. While at least one is
// registered, the capture loop keeps the JPEG snapshot fresh.
func (a *App) AcquireStream() {
	a.streamRefs.Add(1)
}

// ReleaseStream unregisters a preview consumer.
func (a *App) ReleaseStream() {
	a.streamRefs.Add(-1)
}

// LatestJPEG returns the most recent preview frame, or nil if no frame
// has been encoded yet. The returned slice must not be modified.
func (a *App) LatestJPEG() []byte {
	a.jpegMu.Lock()
	defer a.jpegMu.Unlock()
	return a.latestJPEG
}

func (a *App) setLatestJPEG(data []byte) {
	a.jpegMu.Lock()
	a.latestJPEG = data
	a.jpegMu.Unlock()
}

func (a *App) publish(ev FrameEvent) {
	for _, fn := range a.frameCallbacks {
		fn(ev)
	}
}
