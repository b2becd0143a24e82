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

package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

type hclSource struct {
	Fetcher *string `hcl:"fetcher,optional"`
	Repo    *string `hcl:"repo,optional"`
	Ref     *string `hcl:"ref,optional"`
	Subdir  *string `hcl:"subdir,optional"`
	Depth   *int    `hcl:"depth,optional"`
	Path    *string `hcl:"path,optional"`
}

type hclReplacement struct {
	Old  string  `hcl:"old"`
	New  string  `hcl:"new"`
	File *string `hcl:"file,optional"`
}

type hclTransform struct {
	Components      *[]string        `hcl:"components,optional"`
	HTMLTags        *[]string        `hcl:"html_tags,optional"`
	ImportNamespace *string          `hcl:"import_namespace,optional"`
	Replacements    []hclReplacement `hcl:"replacement,block"`
}

type hclOutput struct {
	Include          *[]string          `hcl:"include,optional"`
	Ignore           *[]string          `hcl:"ignore,optional"`
	Extensions       *map[string]string `hcl:"extensions,optional"`
	IndexFile        *string            `hcl:"index_file,optional"`
	IndexTitle       *string            `hcl:"index_title,optional"`
	IndexDescription *string            `hcl:"index_description,optional"`
	ChangelogFile    *string            `hcl:"changelog_file,optional"`
	ChangelogLimit   *int               `hcl:"changelog_limit,optional"`
}

type hclConfig struct {
	Source    *hclSource    `hcl:"source,block"`
	Transform *hclTransform `hcl:"transform,block"`
	Output    *hclOutput    `hcl:"output,block"`
}

// 📝 Parse parses the config from HCL, exposing the process environment as env.NAME
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "docmirror.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": environment(),
		},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := Default()
	if s := hclCfg.Source; s != nil {
		setString(&cfg.Source.Fetcher, s.Fetcher)
		setString(&cfg.Source.Repo, s.Repo)
		setString(&cfg.Source.Ref, s.Ref)
		setString(&cfg.Source.Subdir, s.Subdir)
		setString(&cfg.Source.Path, s.Path)
		if s.Depth != nil {
			cfg.Source.Depth = *s.Depth
		}
	}
	if t := hclCfg.Transform; t != nil {
		setStrings(&cfg.Transform.Components, t.Components)
		setStrings(&cfg.Transform.HTMLTags, t.HTMLTags)
		setString(&cfg.Transform.ImportNamespace, t.ImportNamespace)
		for _, r := range t.Replacements {
			cfg.Transform.Replacements = append(cfg.Transform.Replacements, Replacement{
				Old:  r.Old,
				New:  r.New,
				File: r.File,
			})
		}
	}
	if o := hclCfg.Output; o != nil {
		setStrings(&cfg.Output.Include, o.Include)
		setStrings(&cfg.Output.Ignore, o.Ignore)
		if o.Extensions != nil {
			cfg.Output.Extensions = *o.Extensions
		}
		setString(&cfg.Output.IndexFile, o.IndexFile)
		setString(&cfg.Output.IndexTitle, o.IndexTitle)
		setString(&cfg.Output.IndexDescription, o.IndexDescription)
		setString(&cfg.Output.ChangelogFile, o.ChangelogFile)
		if o.ChangelogLimit != nil {
			cfg.Output.ChangelogLimit = *o.ChangelogLimit
		}
	}

	return cfg, nil
}

func environment() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	return cty.ObjectVal(vars)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setStrings(dst *[]string, v *[]string) {
	if v != nil {
		*dst = *v
	}
}
