package types

import "time"

// Config carries every site-specific value the phases need: URLs, selectors,
// timeouts and output paths.
type Config struct {
	Name         string            `yaml:"name"`
	Driver       string            `yaml:"driver"`
	BaseURL      string            `yaml:"base_url"`
	TableID      string            `yaml:"table_id"`
	OutputPath   string            `yaml:"output_path"`
	SnapshotPath string            `yaml:"snapshot_path"`
	Headless     bool              `yaml:"headless"`
	Vars         map[string]string `yaml:"vars,omitempty"`
	Browser      BrowserConfig     `yaml:"browser"`
	Timeouts     Timeouts          `yaml:"timeouts"`
	Navigation   NavigationConfig  `yaml:"navigation"`
	Filters      FilterConfig      `yaml:"filters"`
	Download     DownloadConfig    `yaml:"download"`
}

type BrowserConfig struct {
	ViewportWidth  int    `yaml:"viewport_width"`
	ViewportHeight int    `yaml:"viewport_height"`
	UserAgent      string `yaml:"user_agent"`
}

type Timeouts struct {
	Element  time.Duration `yaml:"element"`
	Page     time.Duration `yaml:"page"`
	Modal    time.Duration `yaml:"modal"`
	Download time.Duration `yaml:"download"`
	Settle   time.Duration `yaml:"settle"`
}

type NavigationConfig struct {
	SearchOpen   []Candidate `yaml:"search_open"`
	SearchInput  []Candidate `yaml:"search_input"`
	SearchSubmit []Candidate `yaml:"search_submit"`
}

type FilterConfig struct {
	AgeGroups   []CandidateGroup  `yaml:"age_groups"`
	Territorial TerritorialConfig `yaml:"territorial"`
	Apply       []Candidate       `yaml:"apply"`
}

// TerritorialConfig describes both ways of setting the territorial breakdown:
// reconciling the tree of levels, and clicking a label as a fallback.
type TerritorialConfig struct {
	Tree    TreeConfig       `yaml:"tree"`
	Options []CandidateGroup `yaml:"options"`
}

type TreeConfig struct {
	Items        Candidate `yaml:"items"`
	Toggle       Candidate `yaml:"toggle"`
	Check        Candidate `yaml:"check"`
	CheckedClass string    `yaml:"checked_class"`
	TargetLabel  string    `yaml:"target_label"`
}

type DownloadConfig struct {
	Triggers     []Candidate `yaml:"triggers"`
	Keywords     []string    `yaml:"keywords"`
	Modal        []Candidate `yaml:"modal"`
	FormatSelect []Candidate `yaml:"format_select"`
	FormatAlt    []Candidate `yaml:"format_select_alternates"`
	FormatValue  string      `yaml:"format_value"`
	Confirm      []Candidate `yaml:"confirm"`
	ConfirmAlt   []Candidate `yaml:"confirm_alternates"`
}
