package system

import (
	"time"

	"github.com/ballpit/ballpit/internal/camera"
	coresys "github.com/ballpit/ballpit/internal/core/system"
	"github.com/ballpit/ballpit/internal/input"
	"github.com/ballpit/ballpit/internal/render"
)

// CameraSystem runs the free-look controller from the held set and mouse
// delta. Phase 4 (Camera).
type CameraSystem struct {
	cam   *camera.Camera
	ctl   *camera.Controller
	input *input.State
	frame *Frame
}

func NewCameraSystem(cam *camera.Camera, ctl *camera.Controller, in *input.State, frame *Frame) *CameraSystem {
	return &CameraSystem{cam: cam, ctl: ctl, input: in, frame: frame}
}

func (s *CameraSystem) Phase() coresys.Phase { return coresys.PhaseCamera }

func (s *CameraSystem) Update(_ time.Duration) {
	dx, dy := s.input.Mouse()
	s.ctl.Update(s.cam, camera.Controls{
		Forward: s.input.Held(input.CamForward),
		Back:    s.input.Held(input.CamBack),
		Left:    s.input.Held(input.CamLeft),
		Right:   s.input.Held(input.CamRight),
		Sprint:  s.input.Held(input.Sprint),
		MouseDX: dx,
		MouseDY: dy,
	}, s.frame.DT)
}

// ViewSystem opens the renderer's frame with the camera state.
// Phase 5 (View).
type ViewSystem struct {
	cam      *camera.Camera
	renderer render.Renderer
}

func NewViewSystem(cam *camera.Camera, r render.Renderer) *ViewSystem {
	return &ViewSystem{cam: cam, renderer: r}
}

func (s *ViewSystem) Phase() coresys.Phase { return coresys.PhaseView }

func (s *ViewSystem) Update(_ time.Duration) {
	s.renderer.BeginFrame(render.View{
		View:       s.cam.ViewMatrix(),
		Projection: s.cam.Projection,
		CameraPos:  s.cam.Position,
		Light:      s.cam.Light,
	})
}
