package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/arnavsurve/sidrastep/pkg/browser"
)

// ValidateConfig checks a resolved config before any browser is launched.
func ValidateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.TableID) == "" {
		return fmt.Errorf("config is missing 'table_id'")
	}
	if cfg.BaseURL == "" {
		return fmt.Errorf("config is missing 'base_url'")
	}
	if cfg.OutputPath == "" {
		return fmt.Errorf("config is missing 'output_path'")
	}
	if !browser.HasDriver(cfg.Driver) {
		return fmt.Errorf("unknown driver %q (available: %s)", cfg.Driver, strings.Join(browser.Drivers(), ", "))
	}
	if cfg.Browser.ViewportWidth < 0 || cfg.Browser.ViewportHeight < 0 {
		return fmt.Errorf("browser viewport must not be negative")
	}

	timeouts := []struct {
		name string
		d    time.Duration
	}{
		{"timeouts.element", cfg.Timeouts.Element},
		{"timeouts.page", cfg.Timeouts.Page},
		{"timeouts.modal", cfg.Timeouts.Modal},
		{"timeouts.download", cfg.Timeouts.Download},
	}
	for _, t := range timeouts {
		if t.d <= 0 {
			return fmt.Errorf("%s must be positive", t.name)
		}
	}
	if cfg.Timeouts.Settle < 0 {
		return fmt.Errorf("timeouts.settle must not be negative")
	}

	required := []struct {
		name string
		list []Candidate
	}{
		{"navigation.search_open", cfg.Navigation.SearchOpen},
		{"navigation.search_input", cfg.Navigation.SearchInput},
		{"navigation.search_submit", cfg.Navigation.SearchSubmit},
		{"download.triggers", cfg.Download.Triggers},
		{"download.modal", cfg.Download.Modal},
		{"download.format_select", cfg.Download.FormatSelect},
		{"download.confirm", cfg.Download.Confirm},
	}
	for _, r := range required {
		if len(r.list) == 0 {
			return fmt.Errorf("config must define at least one candidate for '%s'", r.name)
		}
		if err := validateCandidates(r.name, r.list); err != nil {
			return err
		}
	}

	optional := []struct {
		name string
		list []Candidate
	}{
		{"filters.apply", cfg.Filters.Apply},
		{"download.format_select_alternates", cfg.Download.FormatAlt},
		{"download.confirm_alternates", cfg.Download.ConfirmAlt},
	}
	for _, o := range optional {
		if err := validateCandidates(o.name, o.list); err != nil {
			return err
		}
	}

	if len(cfg.Filters.AgeGroups) == 0 {
		return fmt.Errorf("config must define at least one entry in 'filters.age_groups'")
	}
	for i, group := range cfg.Filters.AgeGroups {
		name := fmt.Sprintf("filters.age_groups[%d]", i)
		if len(group) == 0 {
			return fmt.Errorf("'%s' is empty", name)
		}
		if err := validateCandidates(name, group); err != nil {
			return err
		}
	}

	territorial := cfg.Filters.Territorial
	tree := territorial.Tree
	hasTree := tree.Items.Kind != ""
	if hasTree {
		for name, c := range map[string]Candidate{
			"filters.territorial.tree.items":  tree.Items,
			"filters.territorial.tree.toggle": tree.Toggle,
			"filters.territorial.tree.check":  tree.Check,
		} {
			if err := c.Validate(); err != nil {
				return fmt.Errorf("'%s': %w", name, err)
			}
		}
		if tree.CheckedClass == "" || tree.TargetLabel == "" {
			return fmt.Errorf("'filters.territorial.tree' must define 'checked_class' and 'target_label'")
		}
	}
	for i, group := range territorial.Options {
		if err := validateCandidates(fmt.Sprintf("filters.territorial.options[%d]", i), group); err != nil {
			return err
		}
	}
	if !hasTree && len(territorial.Options) == 0 {
		return fmt.Errorf("config must define 'filters.territorial.tree' or 'filters.territorial.options'")
	}

	if cfg.Download.FormatValue == "" {
		return fmt.Errorf("config is missing 'download.format_value'")
	}

	return nil
}

func validateCandidates(name string, list []Candidate) error {
	for i, c := range list {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("'%s[%d]': %w", name, i, err)
		}
	}
	return nil
}
