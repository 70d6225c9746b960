package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ballpit/ballpit/internal/audio"
	"github.com/ballpit/ballpit/internal/config"
	"github.com/ballpit/ballpit/internal/data"
	"github.com/ballpit/ballpit/internal/engine"
	"github.com/ballpit/ballpit/internal/input"
	"github.com/ballpit/ballpit/internal/persist"
	"github.com/ballpit/ballpit/internal/render"
	"github.com/ballpit/ballpit/internal/scripting"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configFlag   = flag.String("config", "", "config file (default config/ballpit.toml or $BALLPIT_CONFIG)")
	headlessFlag = flag.Bool("headless", false, "run without a terminal at a fixed step")
	replayFlag   = flag.String("replay", "", "feed input from a YAML replay file (implies -headless)")
	framesFlag   = flag.Int64("frames", 0, "stop after this many frames (0 = until quit)")
	profileFlag  = flag.String("profile", "", "write a profile: cpu, mem or trace")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/ballpit.toml"
	if p := os.Getenv("BALLPIT_CONFIG"); p != "" {
		cfgPath = p
	}
	if *configFlag != "" {
		cfgPath = *configFlag
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if p := startProfile(*profileFlag); p != nil {
		defer p.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Scene and scripts
	scene, err := data.LoadScene(cfg.Scene.Path)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	meshes, err := data.NewMeshRegistry(scene.Meshes)
	if err != nil {
		return fmt.Errorf("meshes: %w", err)
	}
	scripts, err := scripting.NewEngine(cfg.Scripts.Dir, log.Named("lua"))
	if err != nil {
		return fmt.Errorf("scripts: %w", err)
	}
	defer scripts.Close()

	// 4. Telemetry
	opts := engine.Options{
		Config:  cfg,
		Scene:   scene,
		Meshes:  meshes,
		Scripts: scripts,
		Log:     log,
	}
	if cfg.Telemetry.Enabled {
		db, err := persist.Open(ctx, cfg.Database, cfg.Telemetry.Timeout, log.Named("db"))
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		repo := persist.NewTelemetryRepo(db)
		runID, err := repo.StartRun(ctx, scene.Name, scene.Raw)
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		defer func() {
			fctx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.Timeout)
			defer cancel()
			if err := repo.FinishRun(fctx, runID); err != nil {
				log.Warn("finish telemetry run", zap.Error(err))
			}
		}()
		opts.Telemetry = repo
		opts.RunID = runID
		log.Info("telemetry run started", zap.Int64("run", runID))
	}

	// 5. Frontend: terminal or headless
	headless := *headlessFlag || *replayFlag != ""
	if headless {
		opts.Renderer = render.NewRecorder(1)
		opts.Source = input.NewHold()
		if *replayFlag != "" {
			replay, err := input.LoadReplay(*replayFlag)
			if err != nil {
				return err
			}
			opts.Source = replay
			log.Info("replay loaded", zap.String("file", *replayFlag), zap.Int("frames", replay.Remaining()))
		}
	} else {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		defer screen.Fini()
		screen.EnableMouse()
		w, h := screen.Size()
		if h > 0 {
			opts.Aspect = float32(w) / float32(2*h)
		}
		opts.Source = input.NewTerminal(screen, cfg.Input, log.Named("input"))
		opts.Renderer = render.NewTerminal(screen, engine.Glyphs(meshes), cfg.Render.CellsPerUnit, cfg.Render.ShowHUD)
	}

	eng, err := engine.New(opts)
	if err != nil {
		return err
	}

	// 6. Audio cues
	if cfg.Audio.Enabled {
		cues := audio.NewCues(cfg.Audio, log.Named("audio"))
		if err := cues.Initialize(); err != nil {
			log.Warn("audio unavailable, continuing without sound", zap.Error(err))
		} else {
			cues.Subscribe(eng.Bus)
			defer cues.Close()
		}
	}

	// 7. Frame loop
	start := time.Now()
	if headless {
		err = eng.RunFixed(ctx, *framesFlag, 1/float64(cfg.Render.TargetFPS))
	} else {
		err = eng.Run(ctx, *framesFlag)
	}
	log.Info("stopped",
		zap.Int64("frames", eng.Frames()),
		zap.Float64("game_time", eng.Elapsed()),
		zap.Int("entities", eng.Store.Len()),
		zap.Duration("wall", time.Since(start)),
	)
	return err
}

func startProfile(kind string) interface{ Stop() } {
	var mode func(*profile.Profile)
	switch kind {
	case "":
		return nil
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfileAllocs
	case "trace":
		mode = profile.TraceProfile
	default:
		fmt.Fprintf(os.Stderr, "unknown profile %q, ignored\n", kind)
		return nil
	}
	return profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// The terminal renderer owns the screen, so logs go to a file.
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	return zapCfg.Build()
}
