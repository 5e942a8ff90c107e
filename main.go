package main

import (
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"audioviz/cmd"
	"audioviz/internal/analyzer"
	"audioviz/internal/audio"
	applog "audioviz/internal/log"
	"audioviz/internal/transport"
	"audioviz/internal/tui"
	"audioviz/pkg/build"

	tea "github.com/charmbracelet/bubbletea"
)

// main is the entry point for the analysis engine.
// The program flow is divided into three distinct phases:
//
// 1. Startup Phase (Cold Path):
//   - Initialize build information
//   - Configure runtime settings
//   - Initialize PortAudio
//   - Parse command line arguments
//   - Execute one-off commands if requested
//
// 2. Concurrent Phase (Hot Path):
//   - Start the capture engine feeding the analyzer
//   - Start the WebSocket broadcaster if streaming is enabled
//   - Run the terminal meter
//
// 3. Shutdown Phase (Cold Path):
//   - Handle termination signals
//   - Stop the broadcaster and transport
//   - Clean up capture resources
func main() {
	// ==================== STARTUP PHASE (Cold Path) ====================

	// Overlay ldflags-provided metadata before the CLI reads build info.
	build.Initialize()

	// Limit OS threads to optimize for real-time processing:
	// - One thread dedicated to the audio callback (time-critical)
	// - One thread for UI, streaming, and I/O
	runtime.GOMAXPROCS(2)

	// Initialize PortAudio subsystem
	if err := audio.Initialize(); err != nil {
		applog.Fatalf("Startup: %v", err)
	}
	defer audio.Terminate()

	// Parse command line arguments and build configuration
	cfg, err := cmd.ParseArgs()
	if err != nil {
		applog.Fatalf("Startup: %v", err)
	}

	if level, ok := applog.ParseLevel(cfg.LogLevel); ok {
		applog.SetLevel(level)
	}

	// Handle one-off commands that don't require the engine to be running
	if cfg.Command == "list" {
		if err := audio.ListDevices(); err != nil {
			applog.Fatalf("Startup: %v", err)
		}
		return
	}
	if !cfg.TUIMode {
		return
	}

	// ==================== CONCURRENT PHASE (Hot Path) ====================

	mode, err := analyzer.ParseMode(cfg.Analysis.Mode)
	if err != nil {
		applog.Fatalf("Startup: %v", err)
	}
	an := analyzer.New(mode)
	an.SetSmoothingTimeConstant(cfg.Analysis.Smoothing)
	an.SetSensitivity(cfg.Analysis.Sensitivity)

	engine, err := audio.NewEngine(cfg, an)
	if err != nil {
		applog.Fatalf("Startup: %v", err)
	}

	// CRITICAL: the first callback after StartInputStream marks the start of
	// the hot path.
	if err := engine.StartInputStream(); err != nil {
		applog.Fatalf("Startup: %v", err)
	}

	var ws *transport.WebSocketTransport
	var broadcaster *transport.Broadcaster
	if cfg.Stream.Enabled {
		ws = transport.NewWebSocketTransport(cfg.Stream.Port)
		broadcaster, err = transport.NewBroadcaster(cfg.Stream.Interval, ws, an,
			cfg.Analysis.Bands, cfg.Analysis.BandLoPass, cfg.Analysis.BandHiPass)
		if err != nil {
			applog.Fatalf("Startup: %v", err)
		}
		broadcaster.Start()
	}

	// A termination signal quits the meter, which unblocks the shutdown path.
	program := tea.NewProgram(tui.NewMeterModel(engine,
		cfg.Analysis.Bands, cfg.Analysis.BandLoPass, cfg.Analysis.BandHiPass))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		applog.Errorf("Meter: %v", err)
	}

	// ==================== SHUTDOWN PHASE (Cold Path) ====================

	if broadcaster != nil {
		broadcaster.Stop()
	}
	if ws != nil {
		if err := ws.Close(); err != nil {
			applog.Errorf("Shutdown: closing transport: %v", err)
		}
	}
	if err := engine.Close(); err != nil {
		applog.Errorf("Shutdown: closing engine: %v", err)
	}
}
