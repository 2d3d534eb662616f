package phases_test

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	bt "github.com/arnavsurve/sidrastep/pkg/browser/browsertest"
	"github.com/arnavsurve/sidrastep/pkg/log"
	"github.com/arnavsurve/sidrastep/pkg/types"
)

var (
	openSel   = browser.CSS(`a[title="Pesquisa Tabela"]`)
	inputSel  = browser.CSS(`#sidra-pesquisa-lg input[placeholder="pesquisar"]`)
	submitSel = browser.HasText("#sidra-pesquisa-lg button", "OK")

	age60 = browser.Text("60 a 69 anos")
	age70 = browser.Text("70 anos ou mais")

	itemSel   = browser.CSS("#arvore-niveis > li")
	toggleSel = browser.CSS(".nome-arvore .sidra-toggle")
	checkSel  = browser.CSS(".sidra-check")
	ufLabel   = browser.Text("Unidade da Federação")
	applySel  = browser.HasText("button", "Visualizar")

	triggerSel    = browser.HasText(`button, a, [role="button"]`, "Download")
	modalSel      = browser.CSS("#modal-downloads.in")
	formatSel     = browser.CSS(`#modal-downloads select[name="formato-arquivo"]`)
	formatAltSel  = browser.CSS(`select[name="formato-arquivo"]`)
	confirmSel    = browser.CSS("#opcao-downloads")
	confirmAltSel = browser.HasText("#modal-downloads button", "Download")
)

func testConfig(t *testing.T) *types.Config {
	t.Helper()
	return &types.Config{
		BaseURL:    "https://sidra.example/",
		TableID:    "1209",
		OutputPath: filepath.Join(t.TempDir(), "dados", "populacao.csv"),
		Timeouts: types.Timeouts{
			Element:  10 * time.Millisecond,
			Page:     10 * time.Millisecond,
			Modal:    10 * time.Millisecond,
			Download: 10 * time.Millisecond,
		},
		Navigation: types.NavigationConfig{
			SearchOpen:   []types.Candidate{openSel},
			SearchInput:  []types.Candidate{inputSel},
			SearchSubmit: []types.Candidate{submitSel},
		},
		Filters: types.FilterConfig{
			AgeGroups: []types.CandidateGroup{{age60}, {age70}},
			Territorial: types.TerritorialConfig{
				Tree: types.TreeConfig{
					Items:        itemSel,
					Toggle:       toggleSel,
					Check:        checkSel,
					CheckedClass: "checked",
					TargetLabel:  "Unidade da Federação",
				},
				Options: []types.CandidateGroup{{ufLabel}},
			},
			Apply: []types.Candidate{applySel},
		},
		Download: types.DownloadConfig{
			Triggers:     []types.Candidate{triggerSel},
			Keywords:     []string{"csv", "download", "baixar"},
			Modal:        []types.Candidate{modalSel},
			FormatSelect: []types.Candidate{formatSel},
			FormatAlt:    []types.Candidate{formatAltSel},
			FormatValue:  "br.csv",
			Confirm:      []types.Candidate{confirmSel},
			ConfirmAlt:   []types.Candidate{confirmAltSel},
		},
	}
}

func runContext(cfg *types.Config, page *bt.Page) *types.RunContext {
	return &types.RunContext{RunID: "test", Config: cfg, Page: page, Logger: log.Nop()}
}

func navigationElements() []*bt.Element {
	return []*bt.Element{
		bt.Button("open", "Pesquisa Tabela", openSel),
		{Name: "input", Shown: true, Selectors: []browser.Selector{inputSel}},
		bt.Button("submit", "OK", submitSel),
	}
}

// treeItem builds a level of the territorial tree whose toggle flips its
// check box.
func treeItem(name, label string, checked bool) *bt.Element {
	check := &bt.Element{Name: name + "-check", Shown: true, Selectors: []browser.Selector{checkSel}}
	setChecked(check, checked)
	toggle := &bt.Element{
		Name:      name + "-toggle",
		Shown:     true,
		Selectors: []browser.Selector{toggleSel},
		OnClick: func(_ *bt.Page, _ *bt.Element) {
			setChecked(check, !isChecked(check))
		},
	}
	return &bt.Element{
		Name:      name,
		Shown:     true,
		Content:   label,
		Selectors: []browser.Selector{itemSel},
		Children:  []*bt.Element{toggle, check},
	}
}

func setChecked(check *bt.Element, checked bool) {
	if checked {
		check.SetClass("sidra-check checked")
		return
	}
	check.SetClass("sidra-check")
}

func isChecked(check *bt.Element) bool {
	return strings.Contains(check.Class(), "checked")
}

func ageElements() []*bt.Element {
	return []*bt.Element{
		bt.Button("age60", "60 a 69 anos", age60),
		bt.Button("age70", "70 anos ou mais", age70),
	}
}

// exportElements builds an export control that opens the format dialog, and
// a confirm button that starts the download.
func exportElements() []*bt.Element {
	modal := bt.Hidden(bt.Button("modal", "", modalSel))
	export := bt.Button("export", "Download", triggerSel)
	export.OnClick = func(_ *bt.Page, _ *bt.Element) { modal.Shown = true }
	return []*bt.Element{
		bt.Button("share", "Compartilhar", triggerSel),
		export,
		modal,
		{Name: "format", Shown: true, Options: []string{"us.csv", "br.csv"}, Selectors: []browser.Selector{formatSel, formatAltSel}},
		bt.Button("confirm", "Download", confirmSel, confirmAltSel),
	}
}

func indexOf(events []string, ev string) int {
	for i, e := range events {
		if e == ev {
			return i
		}
	}
	return -1
}
