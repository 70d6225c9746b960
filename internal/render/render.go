// Package render is the drawing boundary. The simulation pushes a view and
// one draw call per visual each frame; implementations decide what a frame
// looks like.
package render

import (
	"github.com/ballpit/ballpit/internal/core/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

// View is the per-frame camera state.
type View struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	CameraPos  mgl32.Vec3
	Light      mgl32.Vec3
}

// DrawCall draws one mesh with a model matrix. Children of an entity are
// drawn with the entity's id.
type DrawCall struct {
	Entity ecs.EntityID
	Model  mgl32.Mat4
	Mesh   int
}

type Renderer interface {
	BeginFrame(View)
	Draw(DrawCall)
	Present() error
}

// StatusSetter is implemented by renderers that can show a status line.
type StatusSetter interface {
	SetStatus(string)
}

// Frame is one presented frame as seen by a Recorder.
type Frame struct {
	View  View
	Calls []DrawCall
}

// Recorder keeps presented frames in memory. Headless runs and tests use it.
type Recorder struct {
	frames  []Frame
	current Frame
	limit   int
	status  string
}

// NewRecorder keeps at most limit frames; zero keeps all.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

func (r *Recorder) BeginFrame(v View) {
	r.current = Frame{View: v}
}

func (r *Recorder) Draw(c DrawCall) {
	r.current.Calls = append(r.current.Calls, c)
}

func (r *Recorder) Present() error {
	r.frames = append(r.frames, r.current)
	if r.limit > 0 && len(r.frames) > r.limit {
		r.frames = r.frames[len(r.frames)-r.limit:]
	}
	r.current = Frame{}
	return nil
}

func (r *Recorder) SetStatus(s string) { r.status = s }

func (r *Recorder) Status() string { return r.status }

func (r *Recorder) Frames() []Frame { return r.frames }

// Last returns the most recently presented frame.
func (r *Recorder) Last() (Frame, bool) {
	if len(r.frames) == 0 {
		return Frame{}, false
	}
	return r.frames[len(r.frames)-1], true
}
