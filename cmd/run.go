package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/fretiz/internal/app"
	"github.com/abhisek/fretiz/internal/config"
	"github.com/abhisek/fretiz/internal/flow"
	"github.com/abhisek/fretiz/internal/logging"
	"github.com/abhisek/fretiz/internal/mastery"
	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/screens/home"
	"github.com/abhisek/fretiz/internal/store"
)

// environment is everything a command needs once config, logging and the
// store are set up.
type environment struct {
	cfg     config.Config
	logger  *zap.Logger
	store   *store.Store
	board   *music.Fretboard
	zone    *music.PositionSet
	flow    flow.Config
	tracker *mastery.Tracker
}

// openEnv loads the config, applies override on top of it and opens the
// store. With tui set the logger writes to a file so it does not draw over
// the terminal UI.
func openEnv(cmd *cobra.Command, tui bool, override func(*config.Config)) (*environment, error) {
	cfg, err := config.Load(resolveConfigPath(cmd))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if override != nil {
		override(&cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logPath := cfg.Log.File
	if tui && logPath == "" {
		logPath = config.DefaultLogPath()
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, logPath)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	env := &environment{cfg: cfg, logger: logger, store: st}
	if err := env.build(cmd.Context()); err != nil {
		env.Close()
		return nil, err
	}
	logger.Debug("environment ready",
		zap.String("db", dbPath),
		zap.String("tuning", cfg.Fretboard.Tuning),
		zap.String("zone", env.zone.Name()))
	return env, nil
}

func (e *environment) build(ctx context.Context) error {
	var err error
	if e.board, err = e.cfg.NewFretboard(); err != nil {
		return err
	}
	if e.zone, err = e.cfg.Zone(); err != nil {
		return err
	}
	if e.flow, err = e.cfg.Flow(); err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	e.tracker, err = mastery.Load(ctx, e.store.SnapshotRepo(), mastery.DefaultConfig(), nil)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	return nil
}

// Close releases the store and flushes the logger.
func (e *environment) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("failed to close store", zap.Error(err))
	}
	_ = e.logger.Sync()
}

func (e *environment) appOptions(splash bool) app.Options {
	events := e.store.EventRepo()
	return app.Options{
		Splash: splash,
		Home: home.Deps{
			Fretboard:   e.board,
			Zone:        e.zone,
			Flow:        e.flow,
			Progressive: e.cfg.Quiz.Progressive,
			Tracker:     e.tracker,
			Snapshots:   e.store.SnapshotRepo(),
			Events:      events,
			Recorder:    flow.NewStoreRecorder(events),
			Logger:      e.logger,
		},
	}
}

// runApp opens the environment and launches the TUI.
func runApp(cmd *cobra.Command, splash bool, override func(*config.Config)) error {
	env, err := openEnv(cmd, true, override)
	if err != nil {
		return err
	}
	defer env.Close()

	env.logger.Info("starting fretiz", zap.String("version", version))
	return app.Run(env.appOptions(splash))
}
