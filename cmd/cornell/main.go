// cornell - terminal ray tracer
// Renders the Cornell box, or any glTF/GLB scene, with direct lighting and
// soft shadows, straight into the terminal.
//
// Controls:
//
//	Up/Down     - Move camera forward/back
//	Left/Right  - Turn camera
//	W/S         - Move light forward/back
//	A/D         - Move light left/right
//	Q/E         - Move light up/down
//	B           - Toggle bounding box overlay
//	?           - Toggle HUD overlay (FPS, scene, triangle count, ray stats)
//	R           - Reset camera and light
//	Esc         - Quit
package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
)

// Set via ldflags.
var (
	Version = "dev"
	Commit  = ""
)

func main() {
	err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithVersion(Version),
		fang.WithCommit(Commit),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	if err != nil {
		os.Exit(1)
	}
}
