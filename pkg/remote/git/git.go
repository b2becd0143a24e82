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

// Package git fetches documentation sources with a shallow clone.
package git

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmirror/pkg/remote"
)

func init() {
	remote.Register("git", New)
}

// 🌿 Fetcher clones a single revision of a repository
type Fetcher struct{}

// 🏭 New creates a new git fetcher
func New(ctx context.Context) (remote.Fetcher, error) {
	return &Fetcher{}, nil
}

// Name returns "git".
func (f *Fetcher) Name() string {
	return "git"
}

// 📥 Fetch clones src.Repo into workDir/repo.
// A non-empty ref is tried as a branch first and then as a tag.
func (f *Fetcher) Fetch(ctx context.Context, src remote.Source, workDir string) (string, error) {
	logger := zerolog.Ctx(ctx)

	if src.Repo == "" {
		return "", errors.Errorf("git fetcher needs a repository")
	}

	dir := filepath.Join(workDir, "repo")

	if src.Ref == "" {
		if err := f.clone(ctx, src, dir, ""); err != nil {
			return "", err
		}
	} else {
		err := f.clone(ctx, src, dir, plumbing.NewBranchReferenceName(src.Ref))
		if isMissingRef(err) {
			logger.Debug().Str("ref", src.Ref).Msg("no such branch, trying tag")
			err = f.clone(ctx, src, dir, plumbing.NewTagReferenceName(src.Ref))
		}
		if err != nil {
			return "", err
		}
	}

	return dir, nil
}

func (f *Fetcher) clone(ctx context.Context, src remote.Source, dir string, ref plumbing.ReferenceName) error {
	logger := zerolog.Ctx(ctx)

	if err := os.RemoveAll(dir); err != nil {
		return errors.Errorf("removing existing directory: %w", err)
	}

	opts := &git.CloneOptions{
		URL:           src.Repo,
		Depth:         src.Depth,
		SingleBranch:  true,
		ReferenceName: ref,
		Tags:          git.NoTags,
		Auth:          auth(src.Token),
	}

	logger.Debug().
		Str("url", src.Repo).
		Str("ref", ref.String()).
		Int("depth", src.Depth).
		Str("path", dir).
		Msg("cloning repository")

	repo, err := git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		return errors.Errorf("cloning %s: %w", src.Repo, err)
	}

	if head, err := repo.Head(); err == nil {
		logger.Info().Str("url", src.Repo).Str("commit", head.Hash().String()[:8]).Msg("repository cloned")
	}

	return nil
}

func isMissingRef(err error) bool {
	return errors.Is(err, plumbing.ErrReferenceNotFound) || errors.Is(err, git.NoMatchingRefSpecError{})
}

// auth uses token auth the way most git hosts accept it; nil leaves the transport anonymous
func auth(token string) transport.AuthMethod {
	if token == "" {
		return nil
	}
	return &http.BasicAuth{
		Username: "token",
		Password: token,
	}
}
