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
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/schema"
)

// MetadataSource is the metadata key holding a document's file path.
const MetadataSource = "source"

// Loader reads one file into one or more documents.
type Loader interface {
	Load(ctx context.Context, path string) ([]schema.Document, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, path string) ([]schema.Document, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, path string) ([]schema.Document, error) {
	return f(ctx, path)
}

// Registry maps lower-cased file extensions to loaders. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// DefaultRegistry returns a registry with a loader for every supported format.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(".csv", LoaderFunc(LoadCSV))
	r.Register(".docx", LoaderFunc(LoadDOCX))
	r.Register(".enex", LoaderFunc(LoadENEX))
	r.Register(".eml", LoaderFunc(LoadEmail))
	r.Register(".epub", LoaderFunc(LoadEPUB))
	r.Register(".html", LoaderFunc(LoadHTML))
	r.Register(".md", LoaderFunc(LoadMarkdown))
	r.Register(".odt", LoaderFunc(LoadODT))
	r.Register(".pdf", LoaderFunc(LoadPDF))
	r.Register(".pptx", LoaderFunc(LoadPPTX))
	r.Register(".txt", LoaderFunc(LoadText))
	return r
}

// Register installs l for ext, replacing any previous loader.
// The extension may be given with or without its leading dot.
func (r *Registry) Register(ext string, l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[normalizeExt(ext)] = l
}

// Lookup returns the loader registered for ext.
func (r *Registry) Lookup(ext string) (Loader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.loaders[normalizeExt(ext)]
	return l, ok
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.loaders))
	for ext := range r.loaders {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Load reads path with the loader registered for its extension and tags
// every document with its source path.
func (r *Registry) Load(ctx context.Context, path string) ([]schema.Document, error) {
	ext := filepath.Ext(path)
	l, ok := r.Lookup(ext)
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnsupportedExtension, ext)
	}

	docs, err := l.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	for i := range docs {
		if docs[i].Metadata == nil {
			docs[i].Metadata = make(map[string]any)
		}
		docs[i].Metadata[MetadataSource] = path
	}
	return docs, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
