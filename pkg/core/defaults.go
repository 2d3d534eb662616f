package core

import (
	"time"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	"github.com/arnavsurve/sidrastep/pkg/types"
)

const (
	DefaultConfigFile = "sidra.yml"
	DefaultDriver     = "playwright"
	DefaultTableID    = "1209"
)

// DefaultConfig returns the configuration for table 1209 on the SIDRA portal as
// the site is laid out today. A config file only needs to name what differs.
func DefaultConfig() *Config {
	return &Config{
		Name:         "populacao-60-mais",
		Driver:       DefaultDriver,
		BaseURL:      "https://sidra.ibge.gov.br/",
		TableID:      DefaultTableID,
		OutputPath:   "dados/populacao_60mais_{{ table_id }}.csv",
		SnapshotPath: "erro_debug.png",
		Browser: types.BrowserConfig{
			ViewportWidth:  1920,
			ViewportHeight: 1080,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		},
		Timeouts: types.Timeouts{
			Element:  5 * time.Second,
			Page:     10 * time.Second,
			Modal:    2 * time.Second,
			Download: 30 * time.Second,
			Settle:   time.Second,
		},
		Navigation: types.NavigationConfig{
			SearchOpen: []Candidate{
				browser.CSS(`a[title="Pesquisa Tabela"]`),
			},
			SearchInput: []Candidate{
				browser.CSS(`#sidra-pesquisa-lg input[placeholder="pesquisar"]`),
			},
			SearchSubmit: []Candidate{
				browser.HasText("#sidra-pesquisa-lg button", "OK"),
			},
		},
		Filters: types.FilterConfig{
			AgeGroups: []types.CandidateGroup{
				{browser.Text("60 a 69 anos"), browser.HasText("label", "60 a 69 anos")},
				{browser.Text("70 anos ou mais"), browser.HasText("label", "70 anos ou mais")},
			},
			Territorial: types.TerritorialConfig{
				Tree: types.TreeConfig{
					Items:        browser.CSS("#arvore-niveis > li"),
					Toggle:       browser.CSS(".nome-arvore .sidra-toggle"),
					Check:        browser.CSS(".sidra-check"),
					CheckedClass: "checked",
					TargetLabel:  "Unidade da Federação",
				},
				Options: []types.CandidateGroup{
					{browser.Text("Unidade da Federação"), browser.HasText("label", "Unidade da Federação")},
				},
			},
			Apply: []Candidate{
				browser.HasText("button", "Visualizar"),
				browser.HasText("button", "Aplicar"),
				browser.HasText("button", "Atualizar"),
			},
		},
		Download: types.DownloadConfig{
			Triggers: []Candidate{
				browser.HasText(`button, a, [role="button"]`, "Download"),
				browser.HasText(`button, a, [role="button"]`, "CSV"),
				browser.HasText(`button, a, [role="button"]`, "Baixar"),
				browser.HasText(`button, a, [role="button"]`, "Exportar"),
			},
			Keywords: []string{"csv", "download", "baixar"},
			Modal: []Candidate{
				browser.CSS("#modal-downloads.in"),
			},
			FormatSelect: []Candidate{
				browser.CSS(`#modal-downloads select[name="formato-arquivo"]`),
			},
			FormatAlt: []Candidate{
				browser.CSS(`select[name="formato-arquivo"]`),
			},
			FormatValue: "br.csv",
			Confirm: []Candidate{
				browser.CSS("#opcao-downloads"),
			},
			ConfirmAlt: []Candidate{
				browser.HasText("#modal-downloads button", "Download"),
			},
		},
	}
}
