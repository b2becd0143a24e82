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

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmirror/pkg/config"
	"github.com/walteh/docmirror/pkg/log"
	"github.com/walteh/docmirror/pkg/operation"
)

// rootOpts holds the parsed command line
type rootOpts struct {
	configFile string
	debug      bool
	dryRun     bool
	fetcher    string
	repo       string
	ref        string
	subdir     string
	sourceDir  string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "docmirror [flags] <target-dir>",
		Short: "Mirror a remote documentation tree as cleaned plain text",
		Long: `docmirror fetches a documentation subtree, strips framework markup from every
document, writes an index of titles and a changelog against the previous
mirror, and replaces the target directory with the result.`,
		Version:       readBuildVersion().module,
		Args:          reportErrors(cobra.ExactArgs(1)),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return o.run(cmd, args[0], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate(versionText(readBuildVersion()))
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.PrintErrln("Error:", err)
		return err
	})

	addRootFlags(cmd, o)

	return cmd
}

// reportErrors prints usage errors, which RunE never sees
func reportErrors(args cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := args(cmd, a); err != nil {
			cmd.PrintErrln("Error:", err)
			return err
		}
		return nil
	}
}

func addRootFlags(cmd *cobra.Command, o *rootOpts) {
	cmd.PersistentFlags().StringVarP(&o.configFile, "config", "c", "", "config file path (.yaml, .yml, .json or .hcl)")
	cmd.PersistentFlags().BoolVarP(&o.debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "build the mirror and print the changelog without touching the target")
	cmd.Flags().StringVar(&o.fetcher, "fetcher", "", "source fetcher: git, github or local")
	cmd.Flags().StringVar(&o.repo, "repo", "", "source repository")
	cmd.Flags().StringVar(&o.ref, "ref", "", "branch or tag to mirror")
	cmd.Flags().StringVar(&o.subdir, "subdir", "", "documentation subtree inside the source")
	cmd.Flags().StringVar(&o.sourceDir, "source-dir", "", "mirror a local checkout instead of fetching (implies --fetcher local)")
}

func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

// 🔧 loadConfig reads the config file, if any, then applies flag overrides
func (o *rootOpts) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.Load(cmd.Context(), o.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("fetcher") {
		cfg.Source.Fetcher = o.fetcher
	}
	if flags.Changed("repo") {
		cfg.Source.Repo = o.repo
	}
	if flags.Changed("ref") {
		cfg.Source.Ref = o.ref
	}
	if flags.Changed("subdir") {
		cfg.Source.Subdir = o.subdir
	}
	if flags.Changed("source-dir") {
		cfg.Source.Fetcher = config.FetcherLocal
		cfg.Source.Path = o.sourceDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func (o *rootOpts) run(cmd *cobra.Command, target string, stdout, stderr io.Writer) error {
	zlog := setupLogging(stderr, o.debug)
	ctx := zlog.WithContext(cmd.Context())
	ctx = log.NewContext(ctx, log.New(stdout, zlog))
	cmd.SetContext(ctx)

	user := log.NewUserLogger(ctx).WithWriter(stdout)

	cfg, err := o.loadConfig(cmd)
	if err != nil {
		user.LogResult("Invalid configuration", err)
		return err
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return errors.Errorf("resolving target %s: %w", target, err)
	}

	report, err := operation.Mirror(ctx, operation.Options{
		Config: cfg,
		Target: absTarget,
		DryRun: o.dryRun,
		Token:  os.Getenv("GITHUB_TOKEN"),
	})
	if err != nil {
		user.LogResult("Mirror failed", err)
		return err
	}

	user.LogStateChange(fmt.Sprintf("%d documents from %s (%s)", report.Documents, report.Source, report.Changelog.Kind))
	if o.dryRun {
		fmt.Fprintf(stdout, "\n%s", report.Changelog.Render())
		user.LogResult("Dry run complete, target untouched", nil)
		return nil
	}
	user.LogResult(fmt.Sprintf("Mirrored into %s", absTarget), nil)
	return nil
}
