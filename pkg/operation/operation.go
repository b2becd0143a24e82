// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmirror/pkg/config"
	"github.com/walteh/docmirror/pkg/deploy"
	"github.com/walteh/docmirror/pkg/index"
	"github.com/walteh/docmirror/pkg/log"
	"github.com/walteh/docmirror/pkg/remote"
	"github.com/walteh/docmirror/pkg/status"
	"github.com/walteh/docmirror/pkg/text"
	"github.com/walteh/docmirror/pkg/tree"
)

// 🎯 Operation is a unit of work the runner executes
type Operation interface {
	Execute(ctx context.Context) error
}

// 🔧 Options contains configuration for a mirror run
type Options struct {
	// Config is the validated docmirror configuration
	Config *config.Config
	// Target is the directory receiving the mirror
	Target string
	// DryRun builds staging and the changelog without touching Target
	DryRun bool
	// Fetcher overrides the fetcher named in Config
	Fetcher remote.Fetcher
	// Token is passed to fetchers that understand it
	Token string
}

// 📊 Report summarizes a finished run
type Report struct {
	Source    string
	Documents int
	Changelog *status.Changelog
	Deployed  *deploy.Result // nil for dry runs
}

// 🪞 MirrorOperation fetches, cleans, indexes, diffs and deploys one documentation tree
type MirrorOperation struct {
	opts   Options
	report *Report
}

// 🏭 NewMirrorOperation creates a new mirror operation
func NewMirrorOperation(opts Options) (*MirrorOperation, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Target == "" {
		return nil, errors.Errorf("target is required")
	}
	return &MirrorOperation{opts: opts}, nil
}

// Report returns the summary of the last Execute, or nil.
func (op *MirrorOperation) Report() *Report {
	return op.report
}

// 🏃 Execute runs the mirror pipeline. The target is changed only after staging
// is complete and the comparison succeeded.
func (op *MirrorOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	console := log.FromContext(ctx)
	cfg := op.opts.Config

	console.StartRun(ctx, log.RunOperation{
		Source: cfg.String(),
		Ref:    cfg.Source.Ref,
		Target: op.opts.Target,
		DryRun: op.opts.DryRun,
	})
	defer console.EndRun(ctx)

	fetcher := op.opts.Fetcher
	if fetcher == nil {
		var err error
		if fetcher, err = remote.Get(ctx, cfg.Source.Fetcher); err != nil {
			return errors.Errorf("resolving fetcher: %w", err)
		}
	}

	transformer, err := text.NewTransformer(TextOptions(cfg.Transform))
	if err != nil {
		return errors.Errorf("creating transformer: %w", err)
	}

	workspace, err := os.MkdirTemp("", "docmirror-*")
	if err != nil {
		return errors.Errorf("creating workspace: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workspace); err != nil {
			logger.Warn().Err(err).Str("workspace", workspace).Msg("removing workspace")
		}
	}()
	logger.Debug().Str("workspace", workspace).Msg("created workspace")

	fetchDir := filepath.Join(workspace, "fetch")
	stagingDir := filepath.Join(workspace, "staging")
	for _, dir := range []string{fetchDir, stagingDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Errorf("creating %s: %w", dir, err)
		}
	}

	srcDir, err := remote.Retrieve(ctx, fetcher, remote.Source{
		Repo:   cfg.Source.Repo,
		Ref:    cfg.Source.Ref,
		Subdir: cfg.Source.Subdir,
		Depth:  cfg.Source.Depth,
		Path:   cfg.Source.Path,
		Token:  op.opts.Token,
	}, fetchDir)
	if err != nil {
		return errors.Errorf("retrieving source: %w", err)
	}

	processor := tree.NewProcessor(transformer, tree.Options{
		Include:    cfg.Output.Include,
		Ignore:     cfg.Output.Ignore,
		Extensions: cfg.Output.Extensions,
		Reserved:   []string{cfg.Output.IndexFile, cfg.Output.ChangelogFile},
	})
	processed, err := processor.Process(ctx, srcDir, stagingDir)
	if err != nil {
		return errors.Errorf("processing source tree: %w", err)
	}

	if err := index.Write(stagingDir, cfg.Output.IndexFile, processed.Index, index.RenderOptions{
		Title:       cfg.Output.IndexTitle,
		Description: cfg.Output.IndexDescription,
	}); err != nil {
		return errors.Errorf("writing index: %w", err)
	}

	changelog, err := status.Generate(ctx, op.opts.Target, stagingDir, status.GenerateOptions{
		IndexFile:     cfg.Output.IndexFile,
		ChangelogFile: cfg.Output.ChangelogFile,
		Limit:         cfg.Output.ChangelogLimit,
		LineDeltas:    true,
	})
	if err != nil {
		return errors.Errorf("generating changelog: %w", err)
	}
	logChanges(ctx, console, changelog)

	op.report = &Report{
		Source:    cfg.String(),
		Documents: len(processed.Files),
		Changelog: changelog,
	}

	if op.opts.DryRun {
		console.Info("dry run, target left untouched")
		return nil
	}

	if err := changelog.Write(op.opts.Target, cfg.Output.ChangelogFile); err != nil {
		return errors.Errorf("writing changelog: %w", err)
	}

	deployed, err := deploy.Deploy(ctx, stagingDir, op.opts.Target, deploy.Options{
		Preserve: []string{cfg.Output.ChangelogFile},
	})
	if err != nil {
		return errors.Errorf("deploying: %w", err)
	}
	op.report.Deployed = deployed
	console.Successf("%s: %d documents in %s", changelog.Kind, len(processed.Files), op.opts.Target)

	return nil
}

// 🧹 TextOptions converts the transform configuration into transformer options
func TextOptions(t config.Transform) text.Options {
	opts := text.Options{
		Components:      t.Components,
		HTMLTags:        t.HTMLTags,
		ImportNamespace: t.ImportNamespace,
	}
	for _, r := range t.Replacements {
		rule := text.ReplacementRule{FromText: r.Old, ToText: r.New}
		if r.File != nil {
			rule.FileFilterGlob = *r.File
		}
		opts.Replacements = append(opts.Replacements, rule)
	}
	return opts
}

func logChanges(ctx context.Context, console *log.Logger, cl *status.Changelog) {
	if cl.Changes == nil {
		return
	}
	for _, f := range cl.Changes.Files {
		console.LogFileOperation(ctx, log.FileOperation{
			Path:         f.Path,
			Status:       f.Status.String(),
			IsNew:        f.Status == status.StatusAdded,
			IsModified:   f.Status == status.StatusModified,
			IsRemoved:    f.Status == status.StatusRemoved,
			LinesAdded:   f.LinesAdded,
			LinesRemoved: f.LinesRemoved,
		})
	}
}

// 🪞 Mirror runs a MirrorOperation and returns its report
func Mirror(ctx context.Context, opts Options) (*Report, error) {
	op, err := NewMirrorOperation(opts)
	if err != nil {
		return nil, err
	}
	if err := NewRunner(zerolog.Ctx(ctx)).Run(ctx, op); err != nil {
		return nil, err
	}
	return op.Report(), nil
}
