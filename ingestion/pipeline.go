package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/threadoor/ai"
	"github.com/poiesic/threadoor/core"
	"github.com/poiesic/threadoor/loader"
	"github.com/poiesic/threadoor/splitter"
	"github.com/poiesic/threadoor/storage"
	"github.com/tmc/langchaingo/schema"
)

// DefaultBatchSize is the number of chunks embedded per request.
const DefaultBatchSize = 32

// Result summarizes an ingestion run.
type Result struct {
	Documents int           // Source documents loaded
	Chunks    int           // Chunks embedded and stored
	Skipped   int           // Sources already stored before the run
	Elapsed   time.Duration
}

// Pipeline orchestrates loading, splitting, embedding and storing source documents.
type Pipeline struct {
	documentRepository storage.DocumentRepository
	chunkRepository    storage.ChunkRepository
	registry           *loader.Registry
	splitter           *splitter.Splitter
	embeddingPool      *ants.Pool
	embeddingProc      processor
	extensions         []string
	batchSize          int
	now                func() time.Time
	logger             *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embeddingPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithBatchSize sets how many chunks are sent to the embedder at once.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = DefaultBatchSize
		}
		p.batchSize = size
		return nil
	}
}

// WithSplitter replaces the default splitter (500 characters, 50 overlap).
func WithSplitter(s *splitter.Splitter) Option {
	return func(p *Pipeline) error {
		if s != nil {
			p.splitter = s
		}
		return nil
	}
}

// WithExtensions restricts discovery to the given extensions.
// Default is every extension in the loader registry.
func WithExtensions(exts ...string) Option {
	return func(p *Pipeline) error {
		p.extensions = exts
		return nil
	}
}

// WithClock sets the time source used to stamp elapsed time.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) error {
		if now != nil {
			p.now = now
		}
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	documentRepository storage.DocumentRepository,
	chunkRepository storage.ChunkRepository,
	embedder ai.Embedder,
	registry *loader.Registry,
	opts ...Option,
) (*Pipeline, error) {
	if documentRepository == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if registry == nil {
		return nil, ErrRegistryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	embeddingPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	defaultSplitter, err := splitter.New(splitter.DefaultConfig())
	if err != nil {
		embeddingPool.Release()
		return nil, err
	}

	p := &Pipeline{
		documentRepository: documentRepository,
		chunkRepository:    chunkRepository,
		registry:           registry,
		splitter:           defaultSplitter,
		embeddingPool:      embeddingPool,
		batchSize:          DefaultBatchSize,
		now:                time.Now,
		logger:             slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Created after options so the processor gets the final logger.
	embeddingProc, err := newEmbeddingProcessor(embedder, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.embeddingProc = embeddingProc

	return p, nil
}

// Run ingests every new source file under sourceDir.
// Returns ErrNoNewDocuments, along with a Result, when nothing new was found.
func (p *Pipeline) Run(ctx context.Context, sourceDir string) (*Result, error) {
	start := p.now()
	result := &Result{}

	p.logger.Info(fmt.Sprintf("Loading documents from %s", sourceDir))

	sources, err := p.documentRepository.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ingested sources: %w", err)
	}
	result.Skipped = len(sources)
	if len(sources) > 0 {
		p.logger.Info("Appending to existing vectorstore", "documents", len(sources))
	} else {
		p.logger.Info("Creating new vectorstore")
	}

	extensions := p.extensions
	if len(extensions) == 0 {
		extensions = p.registry.Extensions()
	}
	paths, err := loader.Discover(sourceDir, extensions, sources)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		p.logger.Info("No new documents to load")
		result.Elapsed = p.now().Sub(start)
		return result, ErrNoNewDocuments
	}

	docs := make([]*core.Document, 0, len(paths))
	texts := make([]string, 0, len(paths))
	for _, path := range paths {
		doc, text, err := p.load(ctx, path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		texts = append(texts, text)
	}
	result.Documents = len(docs)
	p.logger.Info(fmt.Sprintf("Loaded %d documents from %s", len(docs), sourceDir))

	chunksByDoc := make([][]*core.Chunk, len(docs))
	var chunks []*core.Chunk
	for i, doc := range docs {
		docChunks, err := p.split(doc, texts[i])
		if err != nil {
			return nil, err
		}
		doc.ChunkCount = len(docChunks)
		chunksByDoc[i] = docChunks
		chunks = append(chunks, docChunks...)
	}
	cfg := p.splitter.Config()
	p.logger.Info(fmt.Sprintf("Split into %d chunks of text (max. %d tokens each)", len(chunks), cfg.ChunkSize))

	if err := p.validate(chunks); err != nil {
		return nil, err
	}
	if err := p.embed(ctx, chunks); err != nil {
		return nil, err
	}

	stored, err := p.store(ctx, docs, chunksByDoc)
	if err != nil {
		return nil, err
	}
	result.Chunks = stored

	result.Elapsed = p.now().Sub(start)
	secs := result.Elapsed.Seconds()
	p.logger.Info(fmt.Sprintf("Took %.2fs (%.2fmin) to create and store in local vectorstore", secs, secs/60))
	return result, nil
}

// load reads one file and joins its parts into a single document text.
func (p *Pipeline) load(ctx context.Context, path string) (*core.Document, string, error) {
	parts, err := p.registry.Load(ctx, path)
	if err != nil {
		return nil, "", err
	}

	texts := make([]string, 0, len(parts))
	metadata := make(map[string]string)
	for _, part := range parts {
		if text := strings.TrimSpace(part.PageContent); text != "" {
			texts = append(texts, text)
		}
		mergeMetadata(metadata, part)
	}
	delete(metadata, loader.MetadataSource)

	doc := &core.Document{
		Id:       core.DocumentIDFromSource(path),
		Source:   path,
		Type:     strings.ToLower(filepath.Ext(path)),
		Title:    metadata["title"],
		Metadata: metadata,
	}
	p.logger.Debug("loaded document", "source", path, "parts", len(parts))
	return doc, strings.Join(texts, "\n\n"), nil
}

// mergeMetadata copies a part's metadata, keeping the first value seen per key.
func mergeMetadata(dst map[string]string, part schema.Document) {
	for k, v := range part.Metadata {
		if _, ok := dst[k]; ok || v == nil {
			continue
		}
		dst[k] = fmt.Sprint(v)
	}
}

// split cuts a document's text into chunks.
func (p *Pipeline) split(doc *core.Document, text string) ([]*core.Chunk, error) {
	segments, err := p.splitter.Split(text)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", doc.Source, err)
	}

	chunks := make([]*core.Chunk, len(segments))
	for i, seg := range segments {
		chunks[i] = &core.Chunk{
			Id:         core.ChunkIDFor(doc.Source, seg.Index, seg.Text),
			DocumentId: doc.Id,
			Source:     doc.Source,
			Index:      seg.Index,
			Offset:     seg.Offset,
			Contents:   seg.Text,
			Metadata:   map[string]string{loader.MetadataSource: doc.Source},
		}
	}
	return chunks, nil
}

// embed generates vectors for chunks in batches on the worker pool.
func (p *Pipeline) embed(ctx context.Context, chunks []*core.Chunk) error {
	return ProcessBatches(ctx, p.embeddingPool, chunks, p.batchSize, func(ctx context.Context, batch []*core.Chunk) error {
		if err := p.embeddingProc.process(ctx, batch...); err != nil {
			p.logger.Error("error processing embeddings", "err", err)
			return err
		}
		return nil
	})
}

// validate checks every chunk against the splitter's size limit.
func (p *Pipeline) validate(chunks []*core.Chunk) error {
	maxSize := p.splitter.Config().ChunkSize
	length := func(text string) int {
		n, _ := p.splitter.Len(text)
		return n
	}
	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk, maxSize, length); err != nil {
			return fmt.Errorf("chunk %d of %s: %w", chunk.Index, chunk.Source, err)
		}
	}
	return nil
}

// store persists documents one at a time, chunks first. A document and its
// source index entry are written only after all of its chunks are stored, so
// a source stays eligible for the next run until it is complete.
func (p *Pipeline) store(ctx context.Context, docs []*core.Document, chunksByDoc [][]*core.Chunk) (int, error) {
	stored := 0
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		if _, err := p.chunkRepository.AddChunks(ctx, chunksByDoc[i]...); err != nil {
			return stored, fmt.Errorf("store chunks of %s: %w", doc.Source, err)
		}
		if _, err := p.documentRepository.AddDocuments(ctx, doc); err != nil {
			return stored, fmt.Errorf("store document %s: %w", doc.Source, err)
		}
		stored += len(chunksByDoc[i])
		p.logger.Debug("stored document", "source", doc.Source, "chunks", len(chunksByDoc[i]))
	}
	return stored, nil
}

// Release releases resources including worker pools.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
