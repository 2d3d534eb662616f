package cli

import (
	"fmt"
	"os"

	"github.com/arnavsurve/sidrastep/pkg/core"
	"github.com/arnavsurve/sidrastep/pkg/types"
	"github.com/joho/godotenv"
)

// ConfigEnv names the variable that points at a config file.
const ConfigEnv = "SIDRA_CONFIG"

// ConfigPath returns the config file to load: $SIDRA_CONFIG when set, the
// default file when it exists, or "" for the built-in defaults.
func ConfigPath() string {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p
	}
	if _, err := os.Stat(core.DefaultConfigFile); err == nil {
		return core.DefaultConfigFile
	}
	return ""
}

// LoadConfig loads, resolves and validates the run configuration.
func LoadConfig(logger types.Logger) (*core.Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file found, relying on existing ENV for {{ env.* }} variables")
	}

	var cfg *core.Config
	path := ConfigPath()
	if path == "" {
		logger.Info().Msg("No config file found, using built-in SIDRA defaults")
		cfg = core.DefaultConfig()
	} else {
		loaded, err := core.LoadConfigFromFile(path)
		if err != nil {
			logger.Error().Err(err).Msgf("Failed to load config file %s", path)
			return nil, fmt.Errorf("loading config file %q: %w", path, err)
		}
		logger.Info().Msgf("Loaded config %q from %s", loaded.Name, path)
		cfg = loaded
	}

	vars, err := core.BuildVarContext(cfg)
	if err != nil {
		return nil, fmt.Errorf("building variable context: %w", err)
	}
	resolved, err := core.ResolveConfigVariables(cfg, vars)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to resolve config variables")
		return nil, fmt.Errorf("resolving config variables: %w", err)
	}
	if err := core.ValidateConfig(resolved); err != nil {
		logger.Error().Err(err).Msg("Config validation failed")
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return resolved, nil
}
