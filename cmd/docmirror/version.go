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
	"runtime"
	"runtime/debug"
	"strings"
)

// buildVersion is what --version reports
type buildVersion struct {
	module   string
	revision string
	built    string
	modified bool
}

func readBuildVersion() buildVersion {
	v := buildVersion{module: "dev"}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		v.module = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			v.revision = s.Value
		case "vcs.time":
			v.built = s.Value
		case "vcs.modified":
			v.modified = s.Value == "true"
		}
	}
	return v
}

// 🚀 versionText renders the --version output
func versionText(v buildVersion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚀 docmirror %s\n", v.module)
	if v.revision != "" {
		rev := v.revision
		if v.modified {
			rev += " (modified)"
		}
		fmt.Fprintf(&b, "Revision:  %s\n", rev)
	}
	if v.built != "" {
		fmt.Fprintf(&b, "Built:     %s\n", v.built)
	}
	fmt.Fprintf(&b, "Go:        %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return b.String()
}
