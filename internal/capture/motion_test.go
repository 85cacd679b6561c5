package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func solidFrame(value float64) gocv.Mat {
	m := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	m.SetTo(gocv.NewScalar(value, value, value, 0))
	return m
}

func TestMotionDetector_FirstFrameIsBaseline(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	frame := solidFrame(128)
	defer frame.Close()

	if moved, _ := md.Detect(&frame); moved {
		t.Error("first frame should only seed the baseline")
	}
}

func TestMotionDetector_StaticSceneIsQuiet(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	a := solidFrame(128)
	defer a.Close()
	b := solidFrame(128)
	defer b.Close()

	md.Detect(&a)
	if moved, percent := md.Detect(&b); moved {
		t.Errorf("identical frames reported motion (%.1f%%)", percent)
	}
}

func TestMotionDetector_SceneChangeIsMotion(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	dark := solidFrame(20)
	defer dark.Close()
	bright := solidFrame(220)
	defer bright.Close()

	md.Detect(&dark)
	if moved, percent := md.Detect(&bright); !moved {
		t.Errorf("full-frame change not detected (%.1f%%)", percent)
	}
}

func TestMotionDetector_NilAndEmptyFrames(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	if moved, _ := md.Detect(nil); moved {
		t.Error("nil frame reported motion")
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if moved, _ := md.Detect(&empty); moved {
		t.Error("empty frame reported motion")
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	dark := solidFrame(20)
	defer dark.Close()
	bright := solidFrame(220)
	defer bright.Close()

	md.Detect(&dark)
	md.Reset()

	// After reset the bright frame re-seeds instead of diffing.
	if moved, _ := md.Detect(&bright); moved {
		t.Error("expected reseed after reset, got motion")
	}
}
