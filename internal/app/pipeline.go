package app

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// inferPollInterval bounds the inference goroutine's wait for a frame
// so shutdown is never delayed by a stalled camera.
const inferPollInterval = 100 * time.Millisecond

// inferenceResult is one published detection: all hands in a frame and
// their raw classifications, index-aligned.
type inferenceResult struct {
	Hands     []detector.HandLandmarks
	Raw       []gesture.Classification
	Timestamp time.Time
}

// captureLoop reads frames at a motion-gated rate and hands them to the
// inference stage through a single-slot channel. When the slot is full
// the old frame is dropped: inference always works on the freshest
// frame and capture never blocks.
func (a *App) captureLoop(stop chan struct{}) {
	defer a.wg.Done()

	idleAfter := time.Duration(a.cfg.Camera.IdleAfterMS) * time.Millisecond
	interval := time.Second / time.Duration(a.cfg.Camera.ActiveFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	idle := false
	lastMotion := time.Now()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			log.Printf("Error reading frame: %v", err)
			continue
		}

		a.encodePreview(frame)

		// A hand held still generates almost no pixel change, so hands
		// in frame count as motion for rate purposes.
		moving, _ := a.motion.Detect(frame)
		if moving || a.anyHandsVisible() {
			lastMotion = time.Now()
			if idle {
				idle = false
				a.camera.SetFPS(a.cfg.Camera.ActiveFPS)
				ticker.Reset(time.Second / time.Duration(a.cfg.Camera.ActiveFPS))
				log.Println("Motion detected, resuming active capture")
			}
		} else if !idle && time.Since(lastMotion) > idleAfter {
			idle = true
			a.camera.SetFPS(a.cfg.Camera.IdleFPS)
			ticker.Reset(time.Second / time.Duration(a.cfg.Camera.IdleFPS))
			log.Println("No motion, dropping to idle capture rate")
		}

		a.submitFrame(frame)
	}
}

// encodePreview refreshes the JPEG snapshot served to preview streams.
// The mirror flip applies only here: the detector and the cursor
// mapping both work in raw camera coordinates.
func (a *App) encodePreview(frame *gocv.Mat) {
	if a.streamRefs.Load() == 0 {
		return
	}

	src := *frame
	if a.cfg.Camera.Mirror {
		flipped := gocv.NewMat()
		defer flipped.Close()
		gocv.Flip(*frame, &flipped, 1)
		src = flipped
	}

	buf, err := gocv.IMEncode(".jpg", src)
	if err != nil {
		log.Printf("Error encoding preview frame: %v", err)
		return
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	a.setLatestJPEG(data)
}

// submitFrame places frame in the single-slot channel, evicting and
// closing any unconsumed predecessor.
func (a *App) submitFrame(frame *gocv.Mat) {
	for {
		select {
		case a.frameCh <- frame:
			return
		default:
		}
		select {
		case old := <-a.frameCh:
			old.Close()
		default:
		}
	}
}

// inferenceLoop owns the hand detector for its whole lifetime. The
// detector is constructed here, not in Start, because some backends
// bind to the thread or goroutine that first touches them.
func (a *App) inferenceLoop(stop chan struct{}) {
	defer a.wg.Done()

	det, err := a.newDetector()
	if err != nil {
		log.Printf("Error creating detector: %v", err)
		return
	}
	defer det.Close()

	for {
		select {
		case <-stop:
			return
		case frame := <-a.frameCh:
			a.processFrame(det, frame)
		case <-time.After(inferPollInterval):
			// No frame. Let the detector release its backend if it has
			// sat unused long enough; it restarts on the next frame.
			if s, ok := det.(detector.IdleStopper); ok {
				s.IdleStop(time.Now())
			}
		}
	}
}

func (a *App) processFrame(det detector.Detector, frame *gocv.Mat) {
	defer frame.Close()

	hands, err := det.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return
	}

	raw := make([]gesture.Classification, len(hands))
	for i := range hands {
		raw[i] = a.classifier.Classify(&hands[i])
	}

	res := &inferenceResult{
		Hands:     hands,
		Raw:       raw,
		Timestamp: time.Now(),
	}

	a.latestMu.Lock()
	a.latest = res
	a.latestMu.Unlock()

	a.setHandsVisible(len(hands) > 0)
}

// decisionLoop runs the control logic on a fixed wall-clock tick,
// decoupled from the camera rate. Each tick consumes whatever detection
// is latest; a slow detector means repeated decisions on the same
// hands, never a backlog.
func (a *App) decisionLoop(stop chan struct{}) {
	defer a.wg.Done()

	ticker := time.NewTicker(time.Second / time.Duration(a.cfg.Control.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.tick(time.Now())
		}
	}
}

func (a *App) tick(now time.Time) {
	a.latestMu.Lock()
	res := a.latest
	a.latestMu.Unlock()

	if !a.IsEnabled() || res == nil || len(res.Hands) == 0 {
		a.resetControl()
		a.publish(FrameEvent{Timestamp: now.UnixMilli()})
		return
	}

	idx := primaryHand(res.Hands)
	if idx < 0 {
		a.resetControl()
		a.publish(FrameEvent{Timestamp: now.UnixMilli()})
		return
	}

	hand := &res.Hands[idx]
	raw := res.Raw[idx]

	stable := a.buffer.Push(raw, a.executor.CursorSpeed())
	cmd := a.machine.Step(&a.trigger, stable, hand, now)
	a.executor.Execute(cmd, hand, now)

	if gesture.IsClickKey(cmd.Key) && cmd.Action != gesture.ActionNone {
		a.recordEvent(cmd.Key, cmd.Action, hand.Handedness)
	}

	states := make([]HandState, len(res.Hands))
	for i := range res.Hands {
		states[i] = HandState{
			Landmarks: res.Hands[i],
			Raw:       res.Raw[i],
		}
	}
	states[idx].Stable = stable
	a.publish(FrameEvent{Hands: states, Timestamp: now.UnixMilli()})
}

// primaryHand picks the hand that drives the cursor: the valid hand
// with the highest detection score. Returns -1 when none qualifies.
func primaryHand(hands []detector.HandLandmarks) int {
	best := -1
	for i := range hands {
		if !hands[i].Valid() {
			continue
		}
		if best < 0 || hands[i].Score > hands[best].Score {
			best = i
		}
	}
	return best
}

// resetControl clears all per-hand state. Called when the hand leaves
// the frame or control is disabled; any held drag is released.
func (a *App) resetControl() {
	a.buffer.Reset()
	a.machine.Reset(&a.trigger)
	a.executor.Reset()
}

func (a *App) recordEvent(key gesture.Key, action gesture.Action, hand string) {
	if a.store == nil {
		return
	}
	ev := &store.Event{
		ID:      uuid.NewString(),
		Gesture: string(key),
		Action:  string(action),
		Hand:    hand,
	}
	if err := a.store.Events().Insert(ev); err != nil {
		log.Printf("Error recording gesture event: %v", err)
	}
}
