package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/lixenwraith/pointerd/collab"
	"github.com/lixenwraith/pointerd/config"
	"github.com/lixenwraith/pointerd/corerun"
	"github.com/lixenwraith/pointerd/engine"
	"github.com/lixenwraith/pointerd/events"
	"github.com/lixenwraith/pointerd/status"
	"github.com/lixenwraith/pointerd/tick"
	"github.com/lixenwraith/pointerd/trackpad"
	"github.com/lixenwraith/pointerd/vmath"
)

var configPath = flag.String("config", "", "path to a TOML config overlay (optional)")

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "pointerd crashed: %v\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	reg := status.NewRegistry()
	e := engine.New(cfg, reg)

	queue := events.NewQueue()
	smoother := trackpad.NewSmoother(queue)

	frames := make(chan trackpad.Frame, 8)
	stopSmoother := make(chan struct{})
	corerun.Go(func() {
		smoother.Consume(stopSmoother, frames, time.Now)
	}, func(recovered any) {
		slog.Error("trackpad consumer crashed", "panic", recovered)
	})

	coordinator := tick.New(e, smoother, stubCollaborators(), cfg, reg)
	coordinator.Start()
	slog.Info("pointerd started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	slog.Info("pointerd stopping")
	close(stopSmoother)
	coordinator.Stop()
	reg.LogSnapshot(slog.Default())
}

// stubCollaborators wires no-op implementations of the §6 external
// collaborators. Real OS backends (CoreGraphics pointer/cursor/display
// queries, the Accessibility API, window-ownership lookups) are outside
// this module's scope per spec.md §1; a platform build swaps these for
// concrete adapters behind the same collab interfaces.
func stubCollaborators() tick.Collaborators {
	return tick.Collaborators{
		Pointer:   noopPointer{},
		Cursor:    noopCursor{},
		Display:   noopDisplay{},
		Inspector: noopInspector{},
		Overlay:   noopOverlay{},
	}
}

type noopPointer struct{}

func (noopPointer) CurrentPointerLocation() vmath.Point { return vmath.Point{} }

type noopCursor struct{}

func (noopCursor) WarpCursor(vmath.Point) error { return nil }
func (noopCursor) HideCursor()                  {}
func (noopCursor) ShowCursor()                  {}

type noopDisplay struct{}

func (noopDisplay) EnumerateDisplays() []vmath.Rect {
	return []vmath.Rect{{X: 0, Y: 0, W: 1920, H: 1080}}
}

type noopInspector struct{}

func (noopInspector) ElementInfoAt(vmath.Point) (collab.ElementInfo, bool) {
	return collab.ElementInfo{}, false
}

type noopOverlay struct{}

func (noopOverlay) IsKnownOverlayTopmost(vmath.Point) bool { return false }
