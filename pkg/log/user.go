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
	"context"
	"io"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger prints the few top-level outcome messages of a command
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
	out io.Writer      // nil keeps pterm's default output
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// WithWriter redirects the printed messages to w.
func (u *UserLogger) WithWriter(w io.Writer) *UserLogger {
	u.out = w
	return u
}

func (u *UserLogger) printer(base pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	p := base.WithPrefix(pterm.Prefix{Text: prefix, Style: base.Prefix.Style})
	if u.out != nil {
		p = p.WithWriter(u.out)
	}
	return p
}

// 📊 LogStateChange logs a change to the mirrored tree
func (u *UserLogger) LogStateChange(description string) {
	u.printer(pterm.Info, "📦").Println(description)
	u.log.Info().Msg(description)
}

// 🔍 LogResult logs the outcome of a run
func (u *UserLogger) LogResult(description string, err error) {
	if err == nil {
		u.printer(pterm.Success, "✅").Println(description)
		u.log.Info().Msg(description)
		return
	}
	u.printer(pterm.Error, "❌").Println(description)
	u.printer(pterm.Error, "❌").Println(err.Error())
	u.log.Error().Err(err).Msg(description)
}
