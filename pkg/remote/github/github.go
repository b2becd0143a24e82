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

// Package github fetches documentation sources as repository tarballs from the GitHub API.
package github

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmirror/pkg/remote"
)

func init() {
	remote.Register("github", New)
}

// 🐙 Fetcher downloads and unpacks a repository tarball
type Fetcher struct {
	client *github.Client
}

// 🏭 New creates a GitHub fetcher, authenticated when GITHUB_TOKEN is set
func New(ctx context.Context) (remote.Fetcher, error) {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}
	return NewWithClient(client), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *github.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Name returns "github".
func (f *Fetcher) Name() string {
	return "github"
}

// 🔍 parseRepo extracts owner and name from github.com/owner/name style references
func parseRepo(repo string) (owner, name string, err error) {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(repo), "/"), ".git")
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	trimmed = strings.TrimPrefix(trimmed, "github.com/")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid GitHub repository: %s", repo)
	}
	return parts[0], parts[1], nil
}

// 📥 Fetch downloads the tarball of src.Ref, or of the default branch, into workDir/repo.
// A non-empty src.Token takes precedence over the client's own credentials.
func (f *Fetcher) Fetch(ctx context.Context, src remote.Source, workDir string) (string, error) {
	logger := zerolog.Ctx(ctx)

	owner, name, err := parseRepo(src.Repo)
	if err != nil {
		return "", err
	}

	client := f.client
	if src.Token != "" {
		client = client.WithAuthToken(src.Token)
	}

	ref := src.Ref
	if ref == "" {
		repo, _, err := client.Repositories.Get(ctx, owner, name)
		if err != nil {
			return "", errors.Errorf("getting repository %s/%s: %w", owner, name, err)
		}
		ref = repo.GetDefaultBranch()
		logger.Debug().Str("ref", ref).Msg("using default branch")
	}

	archive, err := os.CreateTemp(workDir, "tarball-*.tar.gz")
	if err != nil {
		return "", errors.Errorf("creating archive file: %w", err)
	}
	defer os.Remove(archive.Name())
	defer archive.Close()

	req, err := client.NewRequest(http.MethodGet, fmt.Sprintf("repos/%s/%s/tarball/%s", owner, name, ref), nil)
	if err != nil {
		return "", errors.Errorf("creating tarball request: %w", err)
	}
	resp, err := client.Do(ctx, req, archive)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", errors.Errorf("invalid tag or reference '%s': %w", ref, err)
		}
		return "", errors.Errorf("downloading tarball: %w", err)
	}

	if _, err := archive.Seek(0, io.SeekStart); err != nil {
		return "", errors.Errorf("rewinding archive: %w", err)
	}

	dir := filepath.Join(workDir, "repo")
	n, err := extract(ctx, archive, dir)
	if err != nil {
		return "", errors.Errorf("extracting tarball: %w", err)
	}

	logger.Info().Str("repo", owner+"/"+name).Str("ref", ref).Int("files", n).Msg("tarball extracted")
	return dir, nil
}

// extract unpacks a gzip tarball into dir, dropping the single top-level directory GitHub adds
func extract(ctx context.Context, r io.Reader, dir string) (int, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return 0, errors.Errorf("invalid archive format: %w", err)
	}
	defer gz.Close()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, errors.Errorf("creating %s: %w", dir, err)
	}

	files := 0
	tr := tar.NewReader(gz)
	for {
		if err := ctx.Err(); err != nil {
			return files, err
		}

		hdr, err := tr.Next()
		if err == io.EOF {
			return files, nil
		}
		if err != nil {
			return files, errors.Errorf("reading archive: %w", err)
		}

		rel, ok := stripTopLevel(hdr.Name)
		if !ok {
			continue
		}
		dst := filepath.Join(dir, filepath.FromSlash(rel))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dst, 0755); err != nil {
				return files, errors.Errorf("creating %s: %w", rel, err)
			}
		case tar.TypeReg:
			if err := writeFile(dst, tr); err != nil {
				return files, errors.Errorf("writing %s: %w", rel, err)
			}
			files++
		}
	}
}

// stripTopLevel drops the first path element and rejects entries escaping the root
func stripTopLevel(name string) (string, bool) {
	_, rest, ok := strings.Cut(strings.TrimPrefix(name, "./"), "/")
	if !ok || rest == "" {
		return "", false
	}
	rest = path.Clean(rest)
	if rest == "." || rest == ".." || strings.HasPrefix(rest, "../") || path.IsAbs(rest) {
		return "", false
	}
	return rest, true
}

func writeFile(dst string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
