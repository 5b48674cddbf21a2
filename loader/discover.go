// Copyright 2025 Poiesic Systems
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


package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover returns the files under root matching "**/*<ext>" for any of the
// extensions, minus the paths listed in ignored. Paths are joined onto root,
// de-duplicated and sorted.
func Discover(root string, extensions []string, ignored []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	skip := make(map[string]struct{}, len(ignored))
	for _, p := range ignored {
		skip[p] = struct{}{}
	}

	fsys := os.DirFS(root)
	seen := make(map[string]struct{})
	var paths []string
	for _, ext := range extensions {
		matches, err := doublestar.Glob(fsys, "**/*"+ext, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", ext, err)
		}
		for _, m := range matches {
			p := filepath.Join(root, filepath.FromSlash(m))
			if _, ok := skip[p]; ok {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			paths = append(paths, p)
		}
	}

	slices.Sort(paths)
	return paths, nil
}
