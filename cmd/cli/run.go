package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	"github.com/arnavsurve/sidrastep/pkg/core"
	"github.com/arnavsurve/sidrastep/pkg/log"
	"github.com/arnavsurve/sidrastep/pkg/log/sinks"
	"github.com/arnavsurve/sidrastep/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	// Register the browser drivers
	_ "github.com/arnavsurve/sidrastep/pkg/browser/playwright"
	_ "github.com/arnavsurve/sidrastep/pkg/browser/rod"
)

const logsDir = ".sidrastep/logs"

type RunCmd struct {
	Headless bool `help:"Run the browser without a window, overriding the config file."`
}

func (r *RunCmd) Run() error {
	runID := uuid.New().String()

	logFilePath := filepath.Join(logsDir, fmt.Sprintf("%s.json", runID))
	fileSink, err := sinks.NewFileSink(logFilePath, runID)
	if err != nil {
		return fmt.Errorf("creating file log sink: %w", err)
	}

	logRouter := log.NewRouter(sinks.NewConsoleSink(), fileSink)
	logRouter.SetMinLevel(types.InfoLevel)
	cmdLogger := log.NewZerologAdapter(zerolog.New(logRouter).With().Timestamp().Logger())

	defer func() {
		if err := logRouter.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during log shutdown: %v\n", err)
		}
	}()

	cmdLogger.Info().Msgf("Starting run with ID: %s", runID)
	cmdLogger.Info().Msgf("Logs will be saved to %q", logFilePath)

	cfg, err := LoadConfig(cmdLogger)
	if err != nil {
		return err
	}
	if r.Headless {
		cfg.Headless = true
	}

	driver, err := browser.GetDriver(cfg.Driver)
	if err != nil {
		return fmt.Errorf("getting browser driver: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printBanner(cmdLogger, cfg)

	engine := core.NewEngine(cmdLogger, driver)
	report, err := engine.Execute(ctx, cfg, runID)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			cmdLogger.Warn().Msg("Run interrupted, browser closed")
			return fmt.Errorf("run interrupted: %w", err)
		}
		cmdLogger.Error().Err(err).Msgf("Run failed. Logs can be found at %q", logFilePath)
		return err
	}

	reportOutcome(cmdLogger, report)
	cmdLogger.Info().Msgf("Logs can be found at %q", logFilePath)
	return nil
}

func printBanner(logger types.Logger, cfg *core.Config) {
	logger.Info().Msg("==================================================")
	logger.Info().Msgf("SIDRA table %s: %s", cfg.TableID, cfg.Name)
	logger.Info().Msgf("Source: %s", cfg.BaseURL)
	logger.Info().Msgf("Output: %s", cfg.OutputPath)
	logger.Info().Msgf("Driver: %s (headless=%t)", cfg.Driver, cfg.Headless)
	logger.Info().Msg("==================================================")
}

func reportOutcome(logger types.Logger, report *core.RunReport) {
	switch report.Outcome {
	case core.OutcomeSuccess:
		logger.Info().
			Str("path", report.Artifact.Path).
			Int64("bytes", report.Artifact.Size).
			Msgf("Download complete: %s (%.1f KB)", report.Artifact.Path, kilobytes(report.Artifact.Size))
	case core.OutcomeDegraded:
		logger.Warn().
			Str("path", report.Artifact.Path).
			Int64("bytes", report.Artifact.Size).
			Msgf("Download complete but filters were only partly applied: %s (%.1f KB)", report.Artifact.Path, kilobytes(report.Artifact.Size))
	case core.OutcomeUnverified:
		path := ""
		if report.Artifact != nil {
			path = report.Artifact.Path
		}
		logger.Warn().Str("path", path).Msg("Download finished but the file could not be verified")
	}
}

func kilobytes(n int64) float64 {
	return float64(n) / 1024
}
