package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (default ~/.mudra/config.yaml)")
		cameraIdx  = flag.Int("camera", -1, "camera device index override")
		addr       = flag.String("addr", "", "HTTP listen address override")
		noTray     = flag.Bool("no-tray", false, "run headless without the system tray")
	)
	flag.Parse()

	fmt.Println("Mudra - Hand Gesture Mouse Control")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	if *configPath == "" {
		*configPath = filepath.Join(dataDir, "config.yaml")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *cameraIdx >= 0 {
		cfg.Camera.Index = *cameraIdx
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	st, err := store.New(filepath.Join(dataDir, "mudra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a := app.New(cfg, st)

	webDir := cfg.Server.StaticDir
	if webDir == "" {
		webDir = findWebDir(dataDir)
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	// The tray registers frame callbacks, so it is built before the
	// pipeline starts.
	var t *tray.Tray
	if !*noTray {
		t = tray.New(cfg.Control.Enabled)
		t.OnToggle(a.SetEnabled)
		t.OnSettings(func() {
			openBrowser("http://localhost" + cfg.Server.Addr)
		})
		a.OnFrame(func(ev app.FrameEvent) {
			name := ""
			for _, h := range ev.Hands {
				if h.Stable.Stable && h.Stable.Key != gesture.KeyUnknown {
					name = gesture.LabelFor(h.Stable.Key)
					break
				}
			}
			t.SetGesture(name)
		})
	}

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer a.Stop()

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Server.Addr)
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	if t == nil {
		<-sig
		fmt.Println("Shutting down")
		return
	}

	go func() {
		<-sig
		t.Quit()
	}()

	// Some platforms require the tray loop on the main goroutine.
	t.Run()
	fmt.Println("Shutting down")
}

// openBrowser opens url in the default browser, best effort.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks "web", "../web", "../../web" and <dataDir>/web, returning
// the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
