package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/detector"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Trigger.EntryDebounceMS = 0
	cfg.Control.TickRate = 200
	return cfg
}

// testApp wires an App with mock camera, detector and injector.
func testApp(t *testing.T, hands []detector.HandLandmarks) (*App, *control.MockInjector, func()) {
	t.Helper()

	det := detector.NewMockDetector()
	det.SetHands(hands)
	return mockApp(t, det)
}

func TestSubmitFrame_DropOldest(t *testing.T) {
	a := New(testConfig(), nil)

	m1 := gocv.NewMat()
	m2 := gocv.NewMat()

	// Neither call may block even though nothing is consuming.
	a.submitFrame(&m1)
	a.submitFrame(&m2)

	got := <-a.frameCh
	if got != &m2 {
		t.Fatal("expected the newest frame in the slot")
	}
	if !m1.Closed() {
		t.Error("expected the evicted frame to be closed")
	}
	m2.Close()
}

func TestPrimaryHand(t *testing.T) {
	low := detector.IndexOnlyPose()
	low.Score = 0.6
	high := detector.FistPose()
	high.Score = 0.9
	invalid := detector.HandLandmarks{Score: 0.99}

	hands := []detector.HandLandmarks{low, invalid, high}
	if got := primaryHand(hands); got != 2 {
		t.Errorf("expected index 2 (highest valid score), got %d", got)
	}

	if got := primaryHand([]detector.HandLandmarks{invalid}); got != -1 {
		t.Errorf("expected -1 for no valid hands, got %d", got)
	}
	if got := primaryHand(nil); got != -1 {
		t.Errorf("expected -1 for empty slice, got %d", got)
	}
}

func TestPipeline_MovesCursor(t *testing.T) {
	hand := detector.PinchPose()
	a, inj, cleanup := testApp(t, []detector.HandLandmarks{hand})
	defer cleanup()

	if err := a.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	time.Sleep(400 * time.Millisecond)
	a.Stop()

	if inj.LastX == 0 && inj.LastY == 0 && len(inj.Commands) == 0 {
		t.Error("expected cursor movement from a pinch pose")
	}
	for _, cmd := range inj.Commands {
		if cmd == "click" || cmd == "down" {
			t.Errorf("unexpected command %q from a pinch pose", cmd)
		}
	}
}

// mockApp wires an App around det so tests can flip its results while
// the pipeline runs.
func mockApp(t *testing.T, det *detector.MockDetector) (*App, *control.MockInjector, func()) {
	t.Helper()

	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	camera := capture.NewMockCamera([]*gocv.Mat{&frame}, true)

	inj := control.NewMockInjector()

	a := New(testConfig(), nil)
	a.SetCamera(camera)
	a.SetInjector(inj)
	a.SetDetectorFactory(func() (detector.Detector, error) {
		return det, nil
	})

	return a, inj, func() { frame.Close() }
}

func TestPipeline_DetectorErrorIssuesNothing(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.PinchPose()})
	det.SetError(errors.New("landmark service crashed"))

	a, inj, cleanup := mockApp(t, det)
	defer cleanup()

	if err := a.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	a.Stop()

	if len(inj.Commands) != 0 {
		t.Errorf("expected no commands while detection fails, got %v", inj.Commands)
	}
}

func TestPipeline_DetectorRecoversAfterErrors(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.PinchPose()})
	det.SetError(errors.New("landmark service crashed"))

	a, inj, cleanup := mockApp(t, det)
	defer cleanup()

	if err := a.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Every frame fails for a while; the inference loop must ride it
	// out and pick detection back up when the backend recovers.
	time.Sleep(200 * time.Millisecond)
	det.SetError(nil)
	time.Sleep(300 * time.Millisecond)
	a.Stop()

	if len(inj.Commands) == 0 {
		t.Error("expected cursor movement after detection recovered")
	}
}

// idleCountingDetector records idle notifications from the pipeline.
type idleCountingDetector struct {
	*detector.MockDetector
	idleStops int
}

func (d *idleCountingDetector) IdleStop(now time.Time) {
	d.idleStops++
}

func TestInferenceLoop_NotifiesIdleDetector(t *testing.T) {
	det := &idleCountingDetector{MockDetector: detector.NewMockDetector()}

	a := New(testConfig(), nil)
	a.SetDetectorFactory(func() (detector.Detector, error) {
		return det, nil
	})

	stop := make(chan struct{})
	a.wg.Add(1)
	go a.inferenceLoop(stop)

	// No frames are ever submitted, so the poll timeout should fire
	// and pass each timeout on to the detector.
	time.Sleep(250 * time.Millisecond)
	close(stop)
	a.wg.Wait()

	if det.idleStops == 0 {
		t.Error("expected idle notifications while no frames arrive")
	}
}

func TestPipeline_NoHandsIssuesNothing(t *testing.T) {
	a, inj, cleanup := testApp(t, nil)
	defer cleanup()

	if err := a.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	a.Stop()

	if len(inj.Commands) != 0 {
		t.Errorf("expected no commands without hands, got %v", inj.Commands)
	}
}

func TestPipeline_DisabledIssuesNothing(t *testing.T) {
	hand := detector.PinchPose()
	a, inj, cleanup := testApp(t, []detector.HandLandmarks{hand})
	defer cleanup()

	a.SetEnabled(false)

	if err := a.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	a.Stop()

	if len(inj.Commands) != 0 {
		t.Errorf("expected no commands while disabled, got %v", inj.Commands)
	}
}

func TestPipeline_PublishesFrameEvents(t *testing.T) {
	hand := detector.PinchPose()
	a, _, cleanup := testApp(t, []detector.HandLandmarks{hand})
	defer cleanup()

	var mu sync.Mutex
	var events []FrameEvent
	a.OnFrame(func(ev FrameEvent) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	if err := a.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	time.Sleep(300 * time.Millisecond)
	a.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(events) == 0 {
		t.Fatal("expected frame events")
	}

	sawHand := false
	for _, ev := range events {
		if len(ev.Hands) > 0 {
			sawHand = true
			break
		}
	}
	if !sawHand {
		t.Error("expected at least one frame event carrying the hand")
	}
}

func TestApp_StartStopIdempotent(t *testing.T) {
	a, _, cleanup := testApp(t, nil)
	defer cleanup()

	if err := a.Start(); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if err := a.Start(); err != nil {
		t.Fatalf("second start failed: %v", err)
	}

	a.Stop()
	a.Stop()
}
