// Package engine wires the frame systems around one scene and drives them,
// one frame per tick.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/ballpit/ballpit/internal/behavior"
	"github.com/ballpit/ballpit/internal/camera"
	"github.com/ballpit/ballpit/internal/config"
	"github.com/ballpit/ballpit/internal/core/event"
	coresys "github.com/ballpit/ballpit/internal/core/system"
	"github.com/ballpit/ballpit/internal/data"
	"github.com/ballpit/ballpit/internal/input"
	"github.com/ballpit/ballpit/internal/physics"
	"github.com/ballpit/ballpit/internal/render"
	"github.com/ballpit/ballpit/internal/system"
	"github.com/ballpit/ballpit/internal/world"
	"go.uber.org/zap"
)

// Scripts is a Lua host usable by the script behavior.
type Scripts interface {
	behavior.ScriptHost
	FunctionChecker
}

// Options configure a new Engine. Scripts and Telemetry are optional.
// Meshes, when set, must be built from Scene.Meshes; otherwise New builds
// the registry itself.
type Options struct {
	Config   *config.Config
	Scene    *data.Scene
	Meshes   *data.MeshRegistry
	Source   input.Source
	Renderer render.Renderer
	Scripts  Scripts
	Aspect   float32

	Telemetry system.TelemetrySink
	RunID     int64

	Log *zap.Logger
}

// Engine owns the simulation state and the system runner.
type Engine struct {
	Store   *world.Store
	Physics *physics.World
	Camera  *camera.Camera
	Input   *input.State
	Bus     *event.Bus
	Meshes  *data.MeshRegistry
	Floors  behavior.FloorSet

	cfg       *config.Config
	frame     *system.Frame
	runner    *coresys.Runner
	telemetry *system.TelemetrySystem
	fault     error
	frames    int64
	elapsed   float64
	log       *zap.Logger
}

// New builds the scene and registers every frame system.
func New(opts Options) (*Engine, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	aspect := opts.Aspect
	if aspect <= 0 {
		aspect = 16.0 / 9.0
	}

	meshes := opts.Meshes
	if meshes == nil {
		var err error
		if meshes, err = data.NewMeshRegistry(opts.Scene.Meshes); err != nil {
			return nil, fmt.Errorf("meshes: %w", err)
		}
	}
	phys := physics.NewWorld(cfg.Physics, log.Named("physics"))
	store := world.NewStore(phys, log.Named("store"))

	var checker FunctionChecker
	var host behavior.ScriptHost
	if opts.Scripts != nil {
		checker, host = opts.Scripts, opts.Scripts
	}
	floors, err := buildScene(opts.Scene, meshes, phys, store, checker)
	if err != nil {
		return nil, fmt.Errorf("build scene %q: %w", opts.Scene.Name, err)
	}

	e := &Engine{
		Store:   store,
		Physics: phys,
		Camera:  newCamera(opts.Scene.Camera, aspect),
		Input:   input.NewState(),
		Bus:     event.NewBus(),
		Meshes:  meshes,
		Floors:  floors,
		cfg:     cfg,
		frame:   system.NewFrame(),
		runner:  coresys.NewRunner(),
		log:     log,
	}

	e.runner.SetHalt(func() bool { return e.frame.Fault != nil })

	sysLog := log.Named("system")
	e.runner.Register(system.NewInputSystem(opts.Source, e.Input, sysLog))
	e.runner.Register(system.NewEventSystem(e.Bus))
	e.runner.Register(system.NewPhysicsSystem(phys, e.frame))
	e.runner.Register(system.NewCollisionSystem(phys, e.frame))
	e.runner.Register(system.NewCameraSystem(e.Camera, camera.NewController(cfg.Camera), e.Input, e.frame))
	e.runner.Register(system.NewViewSystem(e.Camera, opts.Renderer))
	e.runner.Register(system.NewDispatchSystem(system.DispatchDeps{
		Store:    store,
		Physics:  phys,
		Floors:   floors,
		Input:    e.Input,
		Camera:   e.Camera,
		Scripts:  host,
		Renderer: opts.Renderer,
		Defaults: cfg.Behavior,
		Strict:   cfg.Debug.Strict,
	}, e.frame, sysLog))
	e.runner.Register(system.NewApplySystem(store, e.Bus, e.frame, sysLog))
	e.runner.Register(system.NewPresentSystem(opts.Renderer, store, e.Input, e.frame, cfg.Debug.ReportFPS, sysLog))
	if opts.Telemetry != nil {
		e.telemetry = system.NewTelemetrySystem(opts.Telemetry, opts.RunID, cfg.Telemetry, store, phys, e.frame, sysLog)
		e.runner.Register(e.telemetry)
	}

	log.Info("scene built",
		zap.String("scene", opts.Scene.Name),
		zap.Int("entities", store.Len()),
		zap.Int("bodies", phys.BodyCount()),
		zap.Int("meshes", meshes.Count()),
		zap.Int("systems", e.runner.Len()),
	)
	return e, nil
}

// Frame runs one frame with step dt and elapsed game time, both in seconds.
// It returns the store/physics desync fault when strict mode caught one.
// A halted frame's queued changes are dropped, and every later call
// returns the same fault without running.
func (e *Engine) Frame(dt, elapsed float64) error {
	if e.fault != nil {
		return e.fault
	}
	e.frames++
	e.elapsed = elapsed
	e.frame.Begin(e.frames, dt, elapsed)
	phase := e.runner.Tick(e.frame.Duration())
	if phase < 0 {
		return nil
	}
	dropped := e.frame.DiscardPending(e.Physics)
	e.fault = fmt.Errorf("frame %d halted in %s: %w", e.frames, phase, e.frame.Fault)
	e.log.Error("frame halted",
		zap.Int64("frame", e.frames),
		zap.Stringer("phase", phase),
		zap.Int("dropped_additions", dropped),
	)
	return e.fault
}

// Fault returns the error that halted the engine, if any.
func (e *Engine) Fault() error { return e.fault }

// Step runs one frame of dt seconds after the last one.
func (e *Engine) Step(dt float64) error {
	return e.Frame(dt, e.elapsed+dt)
}

// Frames reports how many frames have run.
func (e *Engine) Frames() int64 { return e.frames }

// Elapsed is the game time of the last frame.
func (e *Engine) Elapsed() float64 { return e.elapsed }

// Last returns the state of the most recent frame.
func (e *Engine) Last() *system.Frame { return e.frame }

// Run drives frames from a ticker at the configured rate until quit input,
// ctx cancellation, maxFrames (when > 0) or a fault. dt is the measured
// wall time between frames.
func (e *Engine) Run(ctx context.Context, maxFrames int64) error {
	defer e.flush()

	interval := time.Second / time.Duration(e.cfg.Render.TargetFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	last := start
	e.log.Info("frame loop started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			e.log.Info("frame loop stopped", zap.Int64("frames", e.frames), zap.Error(ctx.Err()))
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := e.Frame(dt, now.Sub(start).Seconds()); err != nil {
				return err
			}
			if e.done(maxFrames) {
				return nil
			}
		}
	}
}

// RunFixed runs frames back to back with a fixed step, for headless runs
// and replays. It stops on the same conditions as Run.
func (e *Engine) RunFixed(ctx context.Context, maxFrames int64, dt float64) error {
	defer e.flush()
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := e.Step(dt); err != nil {
			return err
		}
		if e.done(maxFrames) {
			return nil
		}
	}
}

func (e *Engine) done(maxFrames int64) bool {
	if e.Input.QuitRequested() {
		e.log.Info("quit", zap.Int64("frames", e.frames))
		return true
	}
	return maxFrames > 0 && e.frames >= maxFrames
}

func (e *Engine) flush() {
	if e.telemetry != nil {
		e.telemetry.Flush()
	}
}
