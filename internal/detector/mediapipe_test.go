package detector

import (
	"bufio"
	"os/exec"
	"testing"
	"time"
)

// startFakeService stands in for the Python landmark service: a cat
// process with the same pipe wiring, so shutdown paths can be
// exercised without MediaPipe installed.
func startFakeService(t *testing.T, d *MediaPipeDetector) {
	t.Helper()

	cmd := exec.Command("cat")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.Fatalf("stdin pipe failed: %v", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.Fatalf("stdout pipe failed: %v", err)
	}
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start helper process: %v", err)
	}

	d.cmd = cmd
	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
}

func TestMediaPipeDetector_IdleStop(t *testing.T) {
	d := &MediaPipeDetector{config: DefaultConfig()}

	// Nothing running: nothing to stop.
	d.IdleStop(time.Now())
	if d.started {
		t.Fatal("expected an unstarted detector to stay unstarted")
	}

	startFakeService(t, d)
	d.lastUsed = time.Now()

	d.IdleStop(time.Now())
	if !d.started {
		t.Fatal("expected a recently used detector to keep its process")
	}

	d.IdleStop(time.Now().Add(idleShutdownAfter + time.Second))
	if d.started {
		t.Error("expected the process to stop after the idle window")
	}
	if d.cmd != nil || d.stdin != nil || d.stdout != nil {
		t.Error("expected process state to be cleared after idle stop")
	}
}

func TestMediaPipeDetector_CloseUnstarted(t *testing.T) {
	d := &MediaPipeDetector{config: DefaultConfig()}
	if err := d.Close(); err != nil {
		t.Errorf("close of unstarted detector failed: %v", err)
	}
}
