package content

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/poiesic/threadoor/chain"
	"github.com/poiesic/threadoor/core"
	"github.com/poiesic/threadoor/loader"
)

// Output describes what a Generate call produced.
type Output struct {
	Note      string          // Path of the source note
	File      string          // Path of the artifact file
	Image     string          // Path of the stored image, empty when none
	Artifacts []core.Artifact // Sequence outputs in order
}

// Generator runs the thread sequence over a content folder's note.
type Generator struct {
	sequence      *chain.Sequence
	registry      *loader.Registry
	client        *resty.Client
	outDir        string
	imageDir      string
	noteStructure string
	now           func() time.Time
	logger        *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithOutputDir sets where artifact files are written. Default is "threads".
func WithOutputDir(dir string) Option {
	return func(g *Generator) { g.outDir = dir }
}

// WithImageDir sets where the downloaded image is stored. Default is "images".
func WithImageDir(dir string) Option {
	return func(g *Generator) { g.imageDir = dir }
}

// WithNoteStructure overrides the aspects of the notes the thread preserves.
func WithNoteStructure(s string) Option {
	return func(g *Generator) { g.noteStructure = s }
}

// WithClock sets the time source for dated file names.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithHTTPClient sets the client used to download images.
func WithHTTPClient(client *resty.Client) Option {
	return func(g *Generator) {
		if client != nil {
			g.client = client
		}
	}
}

// WithRegistry sets the loader registry used to read notes.
func WithRegistry(r *loader.Registry) Option {
	return func(g *Generator) {
		if r != nil {
			g.registry = r
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
	}
}

// NewGenerator creates a generator around a thread sequence.
func NewGenerator(sequence *chain.Sequence, opts ...Option) (*Generator, error) {
	if sequence == nil {
		return nil, ErrSequenceRequired
	}
	g := &Generator{
		sequence:      sequence,
		registry:      loader.DefaultRegistry(),
		outDir:        "threads",
		imageDir:      "images",
		noteStructure: chain.DefaultNoteStructure,
		now:           time.Now,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.client == nil {
		g.client = newHTTPClient()
	}
	g.logger = g.logger.With("component", "content")
	return g, nil
}

// Generate turns the note in dir into artifacts, an artifact file and, when
// an image URL was produced, a PNG image.
func (g *Generator) Generate(ctx context.Context, dir string) (*Output, error) {
	note, err := FindNote(dir)
	if err != nil {
		return nil, err
	}
	g.logger.Info(fmt.Sprintf("The markdown file path is: %s", note))

	notes, err := g.readNote(ctx, note)
	if err != nil {
		return nil, err
	}

	result, err := g.sequence.Run(ctx, map[string]string{
		chain.VarNoteStructure: g.noteStructure,
		chain.VarNotes:         notes,
	})
	if err != nil {
		return nil, err
	}

	out := &Output{Note: note, Artifacts: result.Artifacts}
	out.File, err = writeArtifactFile(g.outDir, OutputName(g.now(), note), result.Artifacts)
	if err != nil {
		return nil, err
	}
	g.logger.Info("wrote artifacts", "file", out.File, "artifacts", len(result.Artifacts))

	if link, ok := result.Artifact(chain.KeyImage); ok {
		if !isHTTPURL(link) {
			g.logger.Warn("image output is not a URL, skipping download", "value", link)
			return out, nil
		}
		path := filepath.Join(g.imageDir, DefaultImageName)
		if err := downloadImage(ctx, g.client, link, path); err != nil {
			return out, err
		}
		out.Image = path
		g.logger.Info("saved image", "file", path)
	}
	return out, nil
}

func (g *Generator) readNote(ctx context.Context, path string) (string, error) {
	docs, err := g.registry.Load(ctx, path)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, d.PageContent)
	}
	return strings.Join(parts, "\n\n"), nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
