package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/poiesic/threadoor/ai"
	"github.com/poiesic/threadoor/core"
	"github.com/poiesic/threadoor/storage"
)

const (
	// verbatimBoost is added to the score of chunks containing every query word.
	verbatimBoost = 0.3

	// candidateFactor widens the vector scan so the boost can reorder results.
	candidateFactor = 4
)

// Searcher provides semantic search over stored chunks.
type Searcher struct {
	repository    storage.Repository
	embedder      ai.Embedder
	minSimilarity float32
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMinSimilarity drops candidates whose cosine similarity is below min.
// Default is 0.
func WithMinSimilarity(min float32) Option {
	return func(s *Searcher) error {
		s.minSimilarity = min
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(repository storage.Repository, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		repository: repository,
		embedder:   embedder,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindSimilar searches for chunks similar to the query.
// Returns up to maxHits results, ranked by relevance score.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]*core.SearchResult, error) {
	return s.FindSimilarWithMonitor(ctx, query, maxHits, nil)
}

// FindSimilarWithMonitor searches for chunks similar to the query with monitoring.
// The monitor receives callbacks at each stage of the search process.
// Returns up to maxHits results, ranked by relevance score.
func (s *Searcher) FindSimilarWithMonitor(ctx context.Context, query string, maxHits int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if maxHits <= 0 {
		return []*core.SearchResult{}, nil
	}

	monitor.Start(query)

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	embedding = core.NormalizeVector(embedding)
	monitor.AfterQueryEmbedding(embedding)

	matches, err := s.repository.FindSimilar(ctx, embedding, s.minSimilarity, maxHits*candidateFactor)
	if err != nil {
		s.logger.Error("error querying for similar chunks", "err", err)
		return nil, err
	}
	monitor.AfterSemanticSearch(matches)

	results := make([]*core.SearchResult, 0, len(matches))
	for _, match := range matches {
		if match == nil || match.Chunk == nil {
			continue
		}
		score := match.Score
		if mentionsAll(match.Chunk.Contents, query) {
			score += verbatimBoost
			monitor.VerbatimHit(match.Chunk)
		}
		results = append(results, &core.SearchResult{
			Chunk: match.Chunk,
			Score: score,
		})
	}

	// Stable so equal scores keep the repository's similarity order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxHits {
		results = results[:maxHits]
	}
	s.logger.Debug("search complete", "query", query, "candidates", len(matches), "results", len(results))
	monitor.Finish(results)

	return results, nil
}
