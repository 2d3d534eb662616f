package core_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	bt "github.com/arnavsurve/sidrastep/pkg/browser/browsertest"
	"github.com/arnavsurve/sidrastep/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Stand-ins so driver names validate without a real browser backend.
	for _, name := range []string{"playwright", "rod"} {
		browser.RegisterDriver(name, func() (browser.Driver, error) {
			return bt.NewDriver(bt.NewPage()), nil
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := core.DefaultConfig()
	vars, err := core.BuildVarContext(cfg)
	require.NoError(t, err)

	resolved, err := core.ResolveConfigVariables(cfg, vars)
	require.NoError(t, err)
	require.NoError(t, core.ValidateConfig(resolved))

	assert.Equal(t, "dados/populacao_60mais_1209.csv", resolved.OutputPath)
	assert.Equal(t, "dados/populacao_60mais_{{ table_id }}.csv", cfg.OutputPath, "input config must not be modified")
	assert.Equal(t, 1920, resolved.Browser.ViewportWidth)
	assert.Equal(t, "br.csv", resolved.Download.FormatValue)
	assert.Equal(t, 30*time.Second, resolved.Timeouts.Download)
}

func TestLoadConfigFixture(t *testing.T) {
	t.Setenv("SIDRA_OUT_DIR", "/tmp/sidra")

	cfg, err := core.LoadConfigFromFile("test_fixtures/sidra.yml")
	require.NoError(t, err)

	assert.Equal(t, "populacao-idosa", cfg.Name)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 3*time.Second, cfg.Timeouts.Element)
	assert.Equal(t, time.Minute, cfg.Timeouts.Download)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Page, "unset fields keep their defaults")
	assert.Equal(t, "playwright", cfg.Driver)
	require.Len(t, cfg.Filters.AgeGroups, 2)
	assert.Len(t, cfg.Filters.AgeGroups[0], 1)
	assert.Equal(t, browser.HasText("label", "70 anos ou mais"), cfg.Filters.AgeGroups[1][1])
	assert.NotEmpty(t, cfg.Download.Triggers)

	vars, err := core.BuildVarContext(cfg)
	require.NoError(t, err)
	resolved, err := core.ResolveConfigVariables(cfg, vars)
	require.NoError(t, err)
	assert.Equal(t, "1209", resolved.TableID)
	assert.Equal(t, "/tmp/sidra/tabela_1209.csv", resolved.OutputPath)
	require.NoError(t, core.ValidateConfig(resolved))
}

func TestLoadBrokenConfigFixture(t *testing.T) {
	cfg, err := core.LoadConfigFromFile("test_fixtures/broken.yml")
	require.NoError(t, err)

	err = core.ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "navigation.search_open[0]")
	assert.Contains(t, err.Error(), "unknown selector kind")
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := core.LoadConfigFromFile("test_fixtures/missing.yml")
	assert.ErrorContains(t, err, "reading config file")

	path := filepath.Join(t.TempDir(), "invalid.yml")
	require.NoError(t, os.WriteFile(path, []byte("timeouts: [oops"), 0644))
	_, err = core.LoadConfigFromFile(path)
	assert.ErrorContains(t, err, "parsing config YAML")

	_, err = core.LoadConfig([]byte("timeouts:\n  element: soon\n"))
	assert.Error(t, err)
}

func TestLoadEmptyConfigKeepsDefaults(t *testing.T) {
	cfg, err := core.LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultConfig(), cfg)
}

func TestResolveStringWithContext(t *testing.T) {
	t.Setenv("SIDRA_TEST_HOST", "sidra.example")
	vars := core.VarContext{"table_id": "1209"}

	tests := []struct {
		input   string
		want    string
		wantErr string
	}{
		{input: "no placeholders", want: "no placeholders"},
		{input: "tabela_{{ table_id }}.csv", want: "tabela_1209.csv"},
		{input: "{{table_id}}-{{ table_id }}", want: "1209-1209"},
		{input: "https://{{ env.SIDRA_TEST_HOST }}/", want: "https://sidra.example/"},
		{input: "{{ nope }}", wantErr: "undefined variable: nope"},
		{input: "{{ env.SIDRA_TEST_UNSET_VAR }}", wantErr: "undefined variable: env.SIDRA_TEST_UNSET_VAR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := core.ResolveStringWithContext(tt.input, vars)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveConfigVariablesInSelectors(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Vars = map[string]string{"label": "Unidade da Federação"}
	cfg.Filters.Territorial.Tree.TargetLabel = "{{ label }}"
	cfg.Filters.Territorial.Options[0][0] = browser.Text("{{ label }}")

	vars, err := core.BuildVarContext(cfg)
	require.NoError(t, err)
	resolved, err := core.ResolveConfigVariables(cfg, vars)
	require.NoError(t, err)

	assert.Equal(t, "Unidade da Federação", resolved.Filters.Territorial.Tree.TargetLabel)
	assert.Equal(t, browser.Text("Unidade da Federação"), resolved.Filters.Territorial.Options[0][0])
	assert.Equal(t, browser.Text("{{ label }}"), cfg.Filters.Territorial.Options[0][0])

	cfg.Download.FormatValue = "{{ missing }}"
	_, err = core.ResolveConfigVariables(cfg, vars)
	assert.ErrorContains(t, err, "download.format_value")
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *core.Config)
		wantErr string
	}{
		{"empty table id", func(c *core.Config) { c.TableID = " " }, "table_id"},
		{"no base url", func(c *core.Config) { c.BaseURL = "" }, "base_url"},
		{"no output path", func(c *core.Config) { c.OutputPath = "" }, "output_path"},
		{"unknown driver", func(c *core.Config) { c.Driver = "selenium" }, "unknown driver"},
		{"zero element timeout", func(c *core.Config) { c.Timeouts.Element = 0 }, "timeouts.element"},
		{"negative settle", func(c *core.Config) { c.Timeouts.Settle = -time.Second }, "timeouts.settle"},
		{"no search input", func(c *core.Config) { c.Navigation.SearchInput = nil }, "navigation.search_input"},
		{"text without text", func(c *core.Config) { c.Download.Confirm[0] = browser.Selector{Kind: browser.KindText} }, "download.confirm[0]"},
		{"no age groups", func(c *core.Config) { c.Filters.AgeGroups = nil }, "filters.age_groups"},
		{"empty age group", func(c *core.Config) { c.Filters.AgeGroups[1] = nil }, "filters.age_groups[1]"},
		{"tree without label", func(c *core.Config) { c.Filters.Territorial.Tree.TargetLabel = "" }, "target_label"},
		{"no territorial", func(c *core.Config) {
			c.Filters.Territorial.Tree = core.DefaultConfig().Filters.Territorial.Tree
			c.Filters.Territorial.Tree.Items = browser.Selector{}
			c.Filters.Territorial.Options = nil
		}, "filters.territorial"},
		{"no format value", func(c *core.Config) { c.Download.FormatValue = "" }, "download.format_value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := core.DefaultConfig()
			tt.mutate(cfg)
			err := core.ValidateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
