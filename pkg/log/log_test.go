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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_file_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileOperation(context.Background(), FileOperation{
					Path:   "getting_started.md",
					Status: "added",
					IsNew:  true,
				})
			},
			wantLogs: []string{
				"✓ getting_started.md                  added",
			},
		},
		{
			name: "log_run_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartRun(context.Background(), RunOperation{
					Source: "https://github.com/home-assistant/home-assistant.io.git",
					Ref:    "current",
					Target: "/tmp/docs",
				})
			},
			wantLogs: []string{
				"docmirror • mirroring into /tmp/docs",
				"◆ https://github.com/home-assistant/home-assistant.io.git • current",
			},
		},
		{
			name: "log_dry_run_default_ref",
			op: func(t *testing.T, logger *Logger) {
				logger.StartRun(context.Background(), RunOperation{
					Source: "local:/src",
					Target: "/tmp/docs",
					DryRun: true,
				})
			},
			wantLogs: []string{
				"docmirror • dry run for /tmp/docs",
				"◆ local:/src • HEAD",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Warningf("warning %s", "test")
				logger.Successf("success %d", 3)
			},
			wantLogs: []string{
				"⚠️  warning test",
				"✅ success 3",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.New(zerolog.NewTestWriter(t)))

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestRunLifecycle(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop())
	ctx := context.Background()

	assert.Equal(t, 0, logger.EndRun(ctx), "ending without a run should be a no-op")

	logger.StartRun(ctx, RunOperation{Source: "src", Target: "dst"})
	logger.LogFileOperation(ctx, FileOperation{Path: "a.md", Status: "added", IsNew: true})
	logger.LogFileOperation(ctx, FileOperation{Path: "b.md", Status: "removed", IsRemoved: true})
	assert.Equal(t, 2, logger.EndRun(ctx))
	assert.Equal(t, 0, logger.EndRun(ctx), "run state should be cleared")
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop())

	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx), "logger from context should be the same instance")

	fallback := FromContext(context.Background())
	require.NotNil(t, fallback, "missing logger should fall back to a silent one")
	assert.NotPanics(t, func() { fallback.Info("dropped") })
}

func TestFileOperationFormatting(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   FileOperation
		want string
	}{
		{
			name: "added_file",
			op:   FileOperation{Path: "getting_started.md", Status: "added", IsNew: true},
			want: "    ✓ getting_started.md                  added     ",
		},
		{
			name: "modified_file_with_delta",
			op: FileOperation{
				Path:         "automation/trigger.md",
				Status:       "modified",
				IsModified:   true,
				LinesAdded:   3,
				LinesRemoved: 1,
			},
			want: "    ⟳ automation/trigger.md               modified   +3 -1",
		},
		{
			name: "removed_file",
			op:   FileOperation{Path: "old.md", Status: "removed", IsRemoved: true},
			want: "    ✗ old.md                              removed   ",
		},
	}

	logger := New(io.Discard, zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.formatFileOperation(tt.op))
		})
	}
}

func TestUserLogger(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	buf := &bytes.Buffer{}
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	user := NewUserLogger(ctx).WithWriter(buf)

	user.LogStateChange("3 files changed")
	user.LogResult("mirror updated", nil)
	user.LogResult("mirror failed", errors.New("clone refused"))

	out := buf.String()
	assert.Contains(t, out, "3 files changed")
	assert.Contains(t, out, "mirror updated")
	assert.Contains(t, out, "mirror failed")
	assert.Contains(t, out, "clone refused")
}
