package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	"github.com/arnavsurve/sidrastep/pkg/phases"
	"github.com/arnavsurve/sidrastep/pkg/types"
)

const snapshotTimeout = 5 * time.Second

type Engine struct {
	Logger types.Logger
	Driver browser.Driver
}

func NewEngine(logger types.Logger, driver browser.Driver) *Engine {
	return &Engine{
		Logger: logger,
		Driver: driver,
	}
}

// Execute launches a browser and runs every phase in order against cfg, which
// must already be resolved and validated. The browser is closed on every exit
// path. On a fatal phase error a best-effort screenshot is written to the
// snapshot path and the phase error is returned alongside the partial report.
func (e *Engine) Execute(ctx context.Context, cfg *Config, runID string) (*RunReport, error) {
	report := &RunReport{RunID: runID, Outcome: OutcomeFailed}

	e.Logger.Info().Str("driver", cfg.Driver).Msg("Launching browser")
	b, err := e.Driver.Launch(ctx, browser.LaunchOptions{Headless: cfg.Headless})
	if err != nil {
		return report, fmt.Errorf("launching browser: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			e.Logger.Warn().Err(err).Msg("Error closing browser")
			return
		}
		e.Logger.Debug().Msg("Browser closed")
	}()

	page, err := b.NewPage(ctx, browser.PageOptions{
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		UserAgent:      cfg.Browser.UserAgent,
		DefaultTimeout: cfg.Timeouts.Page,
	})
	if err != nil {
		return report, fmt.Errorf("opening page: %w", err)
	}

	rc := &types.RunContext{
		RunID:   runID,
		Config:  cfg,
		Browser: b,
		Page:    page,
		Logger:  e.Logger,
	}

	for _, name := range phases.Sequence {
		phase, err := phases.GetPhase(name)
		if err != nil {
			return report, fmt.Errorf("error getting phase %q: %w", name, err)
		}

		phaseLogger := e.Logger.With().Str("phase", name).Logger()
		phaseLogger.Info().Msg("Starting phase")

		started := time.Now()
		result, err := phase.Run(ctx, rc)
		elapsed := time.Since(started)
		if result != nil {
			report.Phases = append(report.Phases, result)
			if result.Artifact != nil {
				report.Artifact = result.Artifact
			}
		}
		if err != nil {
			phaseLogger.Error().Err(err).Dur("elapsed", elapsed).Msg("Phase failed")
			e.snapshot(ctx, rc)
			return report, &types.PhaseError{Phase: name, Err: err}
		}
		phaseLogger.Info().Str("status", string(result.Status)).Dur("elapsed", elapsed).Msg("Phase finished")
	}

	report.Outcome = outcomeOf(report)
	return report, nil
}

// snapshot captures the page for debugging. Its own failure is only logged so
// it never masks the error that triggered it.
func (e *Engine) snapshot(ctx context.Context, rc *types.RunContext) {
	path := rc.Config.SnapshotPath
	if path == "" {
		return
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			e.Logger.Warn().Err(err).Msg("Could not create snapshot directory")
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotTimeout)
	defer cancel()
	if err := rc.Page.Screenshot(ctx, path); err != nil {
		e.Logger.Warn().Err(err).Msg("Could not capture debug screenshot")
		return
	}
	e.Logger.Info().Str("path", path).Msg("Debug screenshot saved")
}

func outcomeOf(report *RunReport) Outcome {
	if report.Artifact == nil || !report.Artifact.Verified {
		return OutcomeUnverified
	}
	if f := report.Phase(phases.FiltersPhaseName); f != nil && f.Status != types.PhaseSuccess {
		return OutcomeDegraded
	}
	return OutcomeSuccess
}
