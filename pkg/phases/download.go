package phases

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	"github.com/arnavsurve/sidrastep/pkg/resolver"
	"github.com/arnavsurve/sidrastep/pkg/types"
)

type DownloadPhase struct{}

func init() {
	RegisterPhaseFactory(DownloadPhaseName, func() Phase { return &DownloadPhase{} })
}

func (p *DownloadPhase) Name() string { return DownloadPhaseName }

func (p *DownloadPhase) Run(ctx context.Context, rc *types.RunContext) (*types.PhaseResult, error) {
	_, result, err := DownloadCSV(ctx, rc, rc.Config.OutputPath)
	return result, err
}

// DownloadCSV triggers the CSV export and saves it to outputPath.
//
// The download listener is armed before the export control is clicked, and
// the whole click sequence (export, optional format dialog, confirm) runs
// inside it. A missing or empty file after saving is not an error: the
// artifact comes back with Verified=false and the phase is partial.
func DownloadCSV(ctx context.Context, rc *types.RunContext, outputPath string) (*types.DownloadArtifact, *types.PhaseResult, error) {
	r := newPhaseRun(rc, DownloadPhaseName)
	fail := func(err error) (*types.DownloadArtifact, *types.PhaseResult, error) {
		result, err := r.fail(err)
		return nil, result, err
	}

	trigger, label, err := r.findExportControl(ctx)
	if err != nil {
		return fail(err)
	}
	r.logger.Info().Str("control", label).Msg("Export control found")

	var triggerErr error
	download, err := rc.Page.ExpectDownload(ctx, r.cfg.Timeouts.Download, func() error {
		if err := trigger.Click(ctx); err != nil {
			triggerErr = fmt.Errorf("click export control: %w", err)
			return triggerErr
		}
		triggerErr = r.chooseFormat(ctx)
		return triggerErr
	})
	if err != nil {
		if triggerErr == nil && ctx.Err() == nil && resolver.IsTimeout(err) {
			err = fmt.Errorf("%w: nothing arrived within %s", types.ErrDownloadTimeout, r.cfg.Timeouts.Download)
		}
		return fail(err)
	}
	r.logger.Info().Str("suggested", download.SuggestedFilename()).Msg("Download captured")

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fail(fmt.Errorf("create output directory %q: %w", dir, err))
		}
	}
	if err := download.SaveAs(outputPath); err != nil {
		return fail(fmt.Errorf("save download to %q: %w", outputPath, err))
	}

	artifact := &types.DownloadArtifact{Path: outputPath}
	r.result.Artifact = artifact
	info, err := os.Stat(outputPath)
	switch {
	case err != nil:
		r.logger.Warn().Err(err).Str("path", outputPath).Msg("Saved file not found")
		r.result.Status = types.PhasePartial
		r.note("file not found at %s after saving", outputPath)
	case info.Size() == 0:
		r.logger.Warn().Str("path", outputPath).Msg("Saved file is empty")
		r.result.Status = types.PhasePartial
		r.note("file at %s is empty", outputPath)
	default:
		artifact.Size = info.Size()
		artifact.Verified = true
		r.logger.Info().Str("path", outputPath).Int64("bytes", artifact.Size).Msg("CSV saved")
		r.note("saved %s (%d bytes)", outputPath, artifact.Size)
	}
	return artifact, r.result, nil
}

// findExportControl waits for any trigger candidate, then scans every match
// for a visible control whose text mentions one of the keywords.
func (r *phaseRun) findExportControl(ctx context.Context) (browser.Element, string, error) {
	dl := r.cfg.Download
	page := r.rc.Page

	if _, ok := resolver.Resolve(ctx, page, dl.Triggers, r.cfg.Timeouts.Element); !ok {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: no export control visible", types.ErrElementNotFound)
	}

	for _, c := range dl.Triggers {
		els, err := page.QueryAll(ctx, c)
		if err != nil {
			r.logger.Debug().Err(err).Str("candidate", c.String()).Msg("Query failed")
			continue
		}
		for _, el := range els {
			if visible, err := el.Visible(ctx); err != nil || !visible {
				continue
			}
			text, err := el.Text(ctx)
			if err != nil {
				continue
			}
			if mentionsKeyword(text, dl.Keywords) {
				return el, strings.TrimSpace(text), nil
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	return nil, "", fmt.Errorf("%w: no export control mentions any of %v", types.ErrElementNotFound, dl.Keywords)
}

// chooseFormat handles the format dialog if the export click opened one.
func (r *phaseRun) chooseFormat(ctx context.Context) error {
	dl := r.cfg.Download
	if _, ok := resolver.Resolve(ctx, r.rc.Page, dl.Modal, r.cfg.Timeouts.Modal); !ok {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.logger.Info().Msg("No format dialog, waiting for download")
		return nil
	}

	res, err := r.ex.Execute(ctx, types.Step{
		Name:       "select_format",
		Targets:    dl.FormatSelect,
		Alternates: dl.FormatAlt,
		Action:     types.ActionSelect,
		Value:      dl.FormatValue,
		Timeout:    r.cfg.Timeouts.Element,
		OnFailure:  types.OnFailureRetryAlternate,
	})
	r.record(res)
	if err != nil {
		return err
	}

	res, err = r.ex.Execute(ctx, types.Step{
		Name:       "confirm_download",
		Targets:    dl.Confirm,
		Alternates: dl.ConfirmAlt,
		Action:     types.ActionClick,
		Timeout:    r.cfg.Timeouts.Element,
		OnFailure:  types.OnFailureRetryAlternate,
	})
	r.record(res)
	return err
}

func mentionsKeyword(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	text = strings.ToLower(text)
	for _, k := range keywords {
		if k != "" && strings.Contains(text, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
