package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arnavsurve/sidrastep/cmd/cli"
	"github.com/arnavsurve/sidrastep/pkg/core"
	"github.com/arnavsurve/sidrastep/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(cli.ConfigEnv, "")

	assert.Equal(t, "", cli.ConfigPath())

	writeFile(t, filepath.Join(dir, core.DefaultConfigFile), "table_id: \"1209\"\n")
	assert.Equal(t, core.DefaultConfigFile, cli.ConfigPath())

	t.Setenv(cli.ConfigEnv, "/etc/sidra/custom.yml")
	assert.Equal(t, "/etc/sidra/custom.yml", cli.ConfigPath())
}

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(cli.ConfigEnv, "")

	cfg, err := cli.LoadConfig(log.Nop())
	require.NoError(t, err)
	assert.Equal(t, core.DefaultTableID, cfg.TableID)
	assert.Equal(t, "dados/populacao_60mais_1209.csv", cfg.OutputPath)
}

func TestLoadConfigFromEnvPath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "custom.yml")
	writeFile(t, path, `
table_id: "6579"
driver: rod
output_path: "{{ env.SIDRA_TEST_OUT }}/t_{{ table_id }}.csv"
`)
	t.Setenv(cli.ConfigEnv, path)
	t.Setenv("SIDRA_TEST_OUT", "/tmp/out")

	cfg, err := cli.LoadConfig(log.Nop())
	require.NoError(t, err)
	assert.Equal(t, "rod", cfg.Driver)
	assert.Equal(t, "/tmp/out/t_6579.csv", cfg.OutputPath)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown driver", "driver: firefox\n", "validating config"},
		{"undefined variable", "output_path: \"{{ nope }}/x.csv\"\n", "resolving config variables"},
		{"bad yaml", "timeouts: [\n", "loading config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "c.yml")
			writeFile(t, path, tt.content)
			t.Setenv(cli.ConfigEnv, path)

			_, err := cli.LoadConfig(log.Nop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		t.Setenv(cli.ConfigEnv, filepath.Join(dir, "absent.yml"))
		_, err := cli.LoadConfig(log.Nop())
		assert.ErrorContains(t, err, "loading config file")
	})
}
