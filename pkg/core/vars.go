package core

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// VarContext holds the variables available to {{ name }} placeholders.
type VarContext map[string]string

// varRegex is a package-level compiled regular expression for matching {{ varName }} placeholders.
var varRegex = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9\._-]+)\s*\}\}`)

const envPrefix = "env."

// BuildVarContext collects the config's own vars plus table_id and base_url.
// The config's vars may themselves reference the environment.
func BuildVarContext(cfg *Config) (VarContext, error) {
	vars := make(VarContext, len(cfg.Vars)+2)
	for key, val := range cfg.Vars {
		resolved, err := ResolveStringWithContext(val, nil)
		if err != nil {
			return nil, fmt.Errorf("resolving var %q: %w", key, err)
		}
		vars[key] = resolved
	}

	tableID, err := ResolveStringWithContext(cfg.TableID, vars)
	if err != nil {
		return nil, fmt.Errorf("resolving table_id: %w", err)
	}
	vars["table_id"] = tableID

	baseURL, err := ResolveStringWithContext(cfg.BaseURL, vars)
	if err != nil {
		return nil, fmt.Errorf("resolving base_url: %w", err)
	}
	vars["base_url"] = baseURL
	return vars, nil
}

// ResolveStringWithContext is the core template resolution engine.
func ResolveStringWithContext(input string, vars VarContext) (string, error) {
	var firstErr error
	output := varRegex.ReplaceAllStringFunc(input, func(match string) string {
		if firstErr != nil {
			return match // Stop processing if an error has occurred
		}

		key := varRegex.FindStringSubmatch(match)[1]
		val, found := FindValueInContext(key, vars)

		if !found {
			firstErr = fmt.Errorf("undefined variable: %s", key)
			return match
		}
		return val
	})

	if firstErr != nil {
		return "", firstErr
	}
	return output, nil
}

// FindValueInContext looks a placeholder key up, either in the environment
// (env.NAME) or in vars.
func FindValueInContext(key string, vars VarContext) (string, bool) {
	if name, ok := strings.CutPrefix(key, envPrefix); ok {
		return os.LookupEnv(name)
	}
	val, ok := vars[key]
	return val, ok
}

// ResolveConfigVariables returns a copy of cfg with every templated string
// field resolved against vars. cfg itself is left untouched.
func ResolveConfigVariables(cfg *Config, vars VarContext) (*Config, error) {
	// Create a deep copy of the config to avoid modifying the loaded definition.
	var resolved Config
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("deep copying config for resolution: %w", err)
	}
	if err := yaml.Unmarshal(b, &resolved); err != nil {
		return nil, fmt.Errorf("deep copying config for resolution: %w", err)
	}

	r := &stringResolver{vars: vars}
	r.field("name", &resolved.Name)
	r.field("table_id", &resolved.TableID)
	r.field("base_url", &resolved.BaseURL)
	r.field("output_path", &resolved.OutputPath)
	r.field("snapshot_path", &resolved.SnapshotPath)
	r.field("browser.user_agent", &resolved.Browser.UserAgent)

	nav := &resolved.Navigation
	r.candidates("navigation.search_open", nav.SearchOpen)
	r.candidates("navigation.search_input", nav.SearchInput)
	r.candidates("navigation.search_submit", nav.SearchSubmit)

	filters := &resolved.Filters
	for i, group := range filters.AgeGroups {
		r.candidates(fmt.Sprintf("filters.age_groups[%d]", i), group)
	}
	tree := &filters.Territorial.Tree
	r.candidate("filters.territorial.tree.items", &tree.Items)
	r.candidate("filters.territorial.tree.toggle", &tree.Toggle)
	r.candidate("filters.territorial.tree.check", &tree.Check)
	r.field("filters.territorial.tree.target_label", &tree.TargetLabel)
	for i, group := range filters.Territorial.Options {
		r.candidates(fmt.Sprintf("filters.territorial.options[%d]", i), group)
	}
	r.candidates("filters.apply", filters.Apply)

	dl := &resolved.Download
	r.candidates("download.triggers", dl.Triggers)
	for i := range dl.Keywords {
		r.field(fmt.Sprintf("download.keywords[%d]", i), &dl.Keywords[i])
	}
	r.candidates("download.modal", dl.Modal)
	r.candidates("download.format_select", dl.FormatSelect)
	r.candidates("download.format_select_alternates", dl.FormatAlt)
	r.field("download.format_value", &dl.FormatValue)
	r.candidates("download.confirm", dl.Confirm)
	r.candidates("download.confirm_alternates", dl.ConfirmAlt)

	if r.err != nil {
		return nil, r.err
	}
	return &resolved, nil
}

// stringResolver resolves fields in place and keeps the first error.
type stringResolver struct {
	vars VarContext
	err  error
}

func (r *stringResolver) field(name string, s *string) {
	if r.err != nil || *s == "" {
		return
	}
	out, err := ResolveStringWithContext(*s, r.vars)
	if err != nil {
		r.err = fmt.Errorf("resolving %s: %w", name, err)
		return
	}
	*s = out
}

func (r *stringResolver) candidate(name string, c *Candidate) {
	r.field(name+".css", &c.CSS)
	r.field(name+".text", &c.Text)
}

func (r *stringResolver) candidates(name string, cs []Candidate) {
	for i := range cs {
		r.candidate(fmt.Sprintf("%s[%d]", name, i), &cs[i])
	}
}
