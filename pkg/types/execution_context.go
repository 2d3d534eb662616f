package types

import "github.com/arnavsurve/sidrastep/pkg/browser"

// RunContext holds the state owned by a single run: the browser session, its
// page and the resolved configuration. It lives from run start until the
// browser is closed at run end.
type RunContext struct {
	RunID   string
	Config  *Config
	Browser browser.Browser
	Page    browser.Page
	Logger  Logger
}
