package main

import (
	"math"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/cornell/pkg/config"
	"github.com/taigrr/cornell/pkg/math3d"
	"github.com/taigrr/cornell/pkg/render"
	"github.com/taigrr/cornell/pkg/tracer"
)

// settleEpsilon is how close an axis must be to its target, with how little
// velocity, before it snaps and stops animating.
const settleEpsilon = 1e-4

// Axis is one smoothly animated value. Key presses move Target by fixed
// steps; a critically damped spring carries Value after it.
type Axis struct {
	Value    float64
	Target   float64
	velocity float64
	spring   harmonica.Spring
}

// NewAxis creates an axis at rest at v.
func NewAxis(fps int, v float64) Axis {
	return Axis{
		Value:  v,
		Target: v,
		// Frequency 6.0 = quick, damping 1.0 = critically damped (no overshoot)
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Nudge moves the target by delta.
func (a *Axis) Nudge(delta float64) {
	a.Target += delta
}

// Update advances the spring one frame and reports whether Value changed.
func (a *Axis) Update() bool {
	if a.Value == a.Target && a.velocity == 0 {
		return false
	}
	a.Value, a.velocity = a.spring.Update(a.Value, a.velocity, a.Target)
	if math.Abs(a.Target-a.Value) < settleEpsilon && math.Abs(a.velocity) < settleEpsilon {
		a.Value, a.velocity = a.Target, 0
	}
	return true
}

// Action is what the view loop should do after a key press.
type Action int

const (
	ActionNone    Action = iota
	ActionMove           // Camera or light targets changed
	ActionRedraw         // Overlay changed, the frame must be traced again
	ActionOverlay        // Only the HUD changed
	ActionQuit
)

// Controller turns key presses into camera and light motion.
type Controller struct {
	Position [3]Axis
	Yaw      Axis
	Light    [3]Axis

	ShowHUD    bool
	ShowBounds bool

	fps    int
	home   config.Config
	motion config.MotionCfg
}

// NewController starts at the camera and light of cfg.
func NewController(cfg config.Config, fps int) *Controller {
	c := &Controller{fps: fps}
	c.Rebase(cfg)
	return c
}

// Rebase adopts cfg as the new home and jumps to it without animating.
func (c *Controller) Rebase(cfg config.Config) {
	c.home = cfg
	c.motion = cfg.Motion
	pos, light := cfg.Camera.Position, cfg.Light.Center
	for i := range 3 {
		c.Position[i] = NewAxis(c.fps, pos[i])
		c.Light[i] = NewAxis(c.fps, light[i])
	}
	c.Yaw = NewAxis(c.fps, cfg.Yaw())
}

// Reset points every axis back at the home camera and light. The springs
// carry the view there over the following frames.
func (c *Controller) Reset() {
	pos, light := c.home.Camera.Position, c.home.Light.Center
	for i := range 3 {
		c.Position[i].Target = pos[i]
		c.Light[i].Target = light[i]
	}
	c.Yaw.Target = c.home.Yaw()
}

// HandleKey applies one key press.
func (c *Controller) HandleKey(k uv.KeyPressEvent) Action {
	switch {
	case k.MatchString("esc", "ctrl+c"):
		return ActionQuit
	case k.MatchString("up"):
		c.moveCamera(c.motion.Move)
	case k.MatchString("down"):
		c.moveCamera(-c.motion.Move)
	case k.MatchString("left"):
		c.Yaw.Nudge(-c.motion.Turn)
	case k.MatchString("right"):
		c.Yaw.Nudge(c.motion.Turn)
	case k.MatchString("w", "W"):
		c.Light[2].Nudge(c.motion.Light)
	case k.MatchString("s", "S"):
		c.Light[2].Nudge(-c.motion.Light)
	case k.MatchString("a", "A"):
		c.Light[0].Nudge(-c.motion.Light)
	case k.MatchString("d", "D"):
		c.Light[0].Nudge(c.motion.Light)
	case k.MatchString("q", "Q"):
		c.Light[1].Nudge(-c.motion.Light)
	case k.MatchString("e", "E"):
		c.Light[1].Nudge(c.motion.Light)
	case k.MatchString("r", "R"):
		c.Reset()
	case k.MatchString("b", "B"):
		c.ShowBounds = !c.ShowBounds
		return ActionRedraw
	case k.MatchString("?", "shift+/"):
		c.ShowHUD = !c.ShowHUD
		return ActionOverlay
	default:
		return ActionNone
	}
	return ActionMove
}

// moveCamera steps along the forward axis of the target yaw.
func (c *Controller) moveCamera(distance float64) {
	forward := math3d.YawRotation(c.Yaw.Target).Col(2).Scale(distance)
	c.Position[0].Nudge(forward.X)
	c.Position[1].Nudge(forward.Y)
	c.Position[2].Nudge(forward.Z)
}

// Update advances every axis one frame and reports whether anything moved.
func (c *Controller) Update() bool {
	moved := false
	for i := range 3 {
		moved = c.Position[i].Update() || moved
		moved = c.Light[i].Update() || moved
	}
	moved = c.Yaw.Update() || moved
	return moved
}

// Apply copies the animated values onto the camera and light. The camera's
// rotation is recomputed only when the yaw changed.
func (c *Controller) Apply(cam *render.Camera, light *tracer.Light) {
	cam.Position = math3d.V3(c.Position[0].Value, c.Position[1].Value, c.Position[2].Value)
	if cam.Yaw() != c.Yaw.Value {
		cam.SetYaw(c.Yaw.Value)
	}
	light.Center = math3d.V3(c.Light[0].Value, c.Light[1].Value, c.Light[2].Value)
}
