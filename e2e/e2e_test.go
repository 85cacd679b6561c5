package e2e

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"net/http/httptest"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

func TestE2E_GestureToClick(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	// Timing compressed so the whole hold/click cycle fits in a short
	// test run.
	cfg := config.Default()
	cfg.Trigger.EntryDebounceMS = 0
	cfg.Trigger.ClickHoldDelayMS = 50
	cfg.Control.TickRate = 200

	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()
	camera := capture.NewMockCamera([]*gocv.Mat{&frame}, true)

	mockDetector := detector.NewMockDetector()
	mockDetector.SetHands([]detector.HandLandmarks{detector.IndexOnlyPose()})

	inj := control.NewMockInjector()

	application := app.New(cfg, s)
	application.SetCamera(camera)
	application.SetInjector(inj)
	application.SetDetectorFactory(func() (detector.Detector, error) {
		return mockDetector, nil
	})

	srv := server.New(server.Config{Store: s, App: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	client := ts.Client()

	if err := application.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Hold the pointing pose long enough for the stability window and
	// the click hold delay.
	time.Sleep(500 * time.Millisecond)
	application.Stop()

	t.Run("ClickFired", func(t *testing.T) {
		if got := inj.Count("click"); got != 1 {
			t.Errorf("clicks = %d, want 1", got)
		}
	})

	t.Run("EventRecorded", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/events")
		if err != nil {
			t.Fatalf("get events error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var body struct {
			Events []struct {
				Gesture string `json:"gesture"`
				Action  string `json:"action"`
			} `json:"events"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if len(body.Events) != 1 {
			t.Fatalf("events = %d, want 1", len(body.Events))
		}
		if body.Events[0].Gesture != "LEFT_CLICK" || body.Events[0].Action != "left_click" {
			t.Errorf("unexpected event %+v", body.Events[0])
		}
	})

	t.Run("ControlToggle", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/control",
			strings.NewReader(`{"enabled":false}`))
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("put control error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		if application.IsEnabled() {
			t.Error("expected control disabled after toggle")
		}
	})

	t.Run("Health", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("get health error = %v", err)
		}
		defer resp.Body.Close()

		var body map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if body["status"] != "ok" {
			t.Errorf("status = %v, want ok", body["status"])
		}
		if body["control_enabled"] != false {
			t.Errorf("control_enabled = %v, want false", body["control_enabled"])
		}
	})
}
