package cli

import (
	"github.com/arnavsurve/sidrastep/pkg/log"
	"github.com/arnavsurve/sidrastep/pkg/log/sinks"
	"github.com/rs/zerolog"

	// Register the browser drivers so the driver name can be checked
	_ "github.com/arnavsurve/sidrastep/pkg/browser/playwright"
	_ "github.com/arnavsurve/sidrastep/pkg/browser/rod"
)

type LintCmd struct{}

func (l *LintCmd) Run() error {
	logRouter := log.NewRouter(sinks.NewConsoleSink())
	defer logRouter.Close()
	cmdLogger := log.NewZerologAdapter(zerolog.New(logRouter).With().Timestamp().Logger())

	cmdLogger.Info().Msgf("Validating %s", describePath(ConfigPath()))

	cfg, err := LoadConfig(cmdLogger)
	if err != nil {
		return err
	}

	cmdLogger.Info().Msgf("Table %s, driver %s, output %s", cfg.TableID, cfg.Driver, cfg.OutputPath)
	cmdLogger.Info().Msg("Successfully validated configuration ✅")
	return nil
}

func describePath(path string) string {
	if path == "" {
		return "built-in defaults"
	}
	return path
}
