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

package github

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/docmirror/pkg/remote"
)

func tarball(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "owner-docs-abc123/", Typeflag: tar.TypeDir, Mode: 0755}))
	for name, content := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0644,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func newTestFetcher(t *testing.T, handler http.Handler) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	return NewWithClient(client)
}

func TestFetch(t *testing.T) {
	archive := tarball(t, map[string]string{
		"owner-docs-abc123/source/_docs/getting_started.markdown": "---\ntitle: Getting Started\n---\nHi\n",
		"owner-docs-abc123/README.md":                             "readme",
	})

	var requested []string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/docs", func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"docs","default_branch":"current"}`))
	})
	mux.HandleFunc("/repos/owner/docs/tarball/", func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		if r.URL.Path != "/repos/owner/docs/tarball/current" && r.URL.Path != "/repos/owner/docs/tarball/rc" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/x-gzip")
		_, _ = w.Write(archive)
	})

	tests := []struct {
		name          string
		repo          string
		ref           string
		wantRequested []string
		wantErr       string
	}{
		{
			name:          "default_branch",
			repo:          "github.com/owner/docs",
			wantRequested: []string{"/repos/owner/docs", "/repos/owner/docs/tarball/current"},
		},
		{
			name:          "explicit_ref",
			repo:          "https://github.com/owner/docs.git",
			ref:           "rc",
			wantRequested: []string{"/repos/owner/docs/tarball/rc"},
		},
		{
			name:    "unknown_ref",
			repo:    "owner/docs",
			ref:     "nope",
			wantErr: "invalid tag or reference 'nope'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requested = nil
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
			f := newTestFetcher(t, mux)
			workDir := t.TempDir()

			dir, err := f.Fetch(ctx, remote.Source{Repo: tt.repo, Ref: tt.ref}, workDir)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err, "Fetch should succeed")
			assert.Equal(t, tt.wantRequested, requested)

			data, err := os.ReadFile(filepath.Join(dir, "source", "_docs", "getting_started.markdown"))
			require.NoError(t, err)
			assert.Contains(t, string(data), "Getting Started")
			assert.FileExists(t, filepath.Join(dir, "README.md"))

			matches, err := filepath.Glob(filepath.Join(workDir, "tarball-*"))
			require.NoError(t, err)
			assert.Empty(t, matches, "downloaded archive should be removed")
		})
	}
}

func TestFetchUsesSourceToken(t *testing.T) {
	archive := tarball(t, map[string]string{"owner-docs-abc123/docs/a.md": "a"})

	var auth []string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/docs/tarball/main", func(w http.ResponseWriter, r *http.Request) {
		auth = append(auth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/x-gzip")
		_, _ = w.Write(archive)
	})

	tests := []struct {
		name     string
		token    string
		wantAuth string
	}{
		{name: "token_sent_as_bearer", token: "secret", wantAuth: "Bearer secret"},
		{name: "no_token_no_header", token: "", wantAuth: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth = nil
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
			f := newTestFetcher(t, mux)

			_, err := f.Fetch(ctx, remote.Source{Repo: "owner/docs", Ref: "main", Token: tt.token}, t.TempDir())
			require.NoError(t, err)
			assert.Equal(t, []string{tt.wantAuth}, auth)
		})
	}
}

func TestParseRepo(t *testing.T) {
	tests := []struct {
		name      string
		repo      string
		wantOwner string
		wantName  string
		wantErr   bool
	}{
		{name: "short", repo: "home-assistant/home-assistant.io", wantOwner: "home-assistant", wantName: "home-assistant.io"},
		{name: "host_prefix", repo: "github.com/acme/docs", wantOwner: "acme", wantName: "docs"},
		{name: "clone_url", repo: "https://github.com/home-assistant/home-assistant.io.git", wantOwner: "home-assistant", wantName: "home-assistant.io"},
		{name: "invalid", repo: "invalid", wantErr: true},
		{name: "too_deep", repo: "github.com/a/b/c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, name, err := parseRepo(tt.repo)
			if tt.wantErr {
				require.Error(t, err, "parseRepo should return error")
				assert.Contains(t, err.Error(), "invalid GitHub repository")
				return
			}
			require.NoError(t, err, "parseRepo should succeed")
			assert.Equal(t, tt.wantOwner, owner, "owner should match")
			assert.Equal(t, tt.wantName, name, "name should match")
		})
	}
}

func TestStripTopLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "repo-sha/a/b.md", want: "a/b.md", wantOK: true},
		{in: "./repo-sha/a.md", want: "a.md", wantOK: true},
		{in: "repo-sha/", wantOK: false},
		{in: "pax_global_header", wantOK: false},
		{in: "repo-sha/../../etc/passwd", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := stripTopLevel(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractRejectsNonGzip(t *testing.T) {
	_, err := extract(context.Background(), bytes.NewReader([]byte("404: Not Found")), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid archive format")
}
