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


package ai

import (
	"context"
	"log/slog"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/cache"
)

// DefaultCacheEntries bounds the number of completions a CachedModel keeps.
const DefaultCacheEntries = 1024

// responseCache is a ristretto-backed cache.Backend.
type responseCache struct {
	store  *ristretto.Cache[string, *llms.ContentResponse]
	logger *slog.Logger
}

var _ cache.Backend = (*responseCache)(nil)

func (c *responseCache) Get(ctx context.Context, key string) *llms.ContentResponse {
	resp, ok := c.store.Get(key)
	if !ok {
		return nil
	}
	c.logger.Debug("completion cache hit", "key", key[:min(len(key), 12)])
	return resp
}

func (c *responseCache) Put(ctx context.Context, key string, response *llms.ContentResponse) {
	var cost int64
	for _, choice := range response.Choices {
		cost += int64(len(choice.Content))
	}
	if cost == 0 {
		cost = 1
	}
	c.store.Set(key, response, cost)
	// Make the entry visible to the next Get
	c.store.Wait()
}

// CachedModel memoizes completions of a wrapped model, keyed by the rendered
// messages and call options.
type CachedModel struct {
	*cache.Cacher
	store *ristretto.Cache[string, *llms.ContentResponse]
}

var _ llms.Model = (*CachedModel)(nil)

// NewCachedModel wraps model with an in-memory completion cache holding
// roughly maxEntries responses of average size.
func NewCachedModel(model llms.Model, maxEntries int64) (*CachedModel, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	// Cost is measured in bytes; budget about 4KiB per entry.
	store, err := ristretto.NewCache(&ristretto.Config[string, *llms.ContentResponse]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries * 4096,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	backend := &responseCache{
		store:  store,
		logger: slog.Default().With("component", "completion-cache"),
	}
	return &CachedModel{
		Cacher: cache.New(model, backend),
		store:  store,
	}, nil
}

// Close releases the cache.
func (m *CachedModel) Close() {
	m.store.Close()
}
