package splitter

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"github.com/tmc/langchaingo/textsplitter"
)

// Length selects how segment length is measured.
type Length string

const (
	LengthCharacters Length = "characters"
	LengthTokens     Length = "tokens"
)

// TokenEncoding is the tiktoken encoding used in token mode.
const TokenEncoding = "cl100k_base"

var separators = []string{"\n\n", "\n", " ", ""}

// Config controls segment size and overlap.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	Length       Length
}

// DefaultConfig returns the chunking settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    500,
		ChunkOverlap: 50,
		Length:       LengthCharacters,
	}
}

// Segment is one piece of split text.
type Segment struct {
	Index  int    // Position among the non-empty segments of the text
	Offset int    // Rune offset of Text within the original text
	Text   string
}

// Splitter splits text recursively on a fixed separator list.
type Splitter struct {
	cfg Config

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
	encErr  error
}

// New validates cfg and returns a Splitter.
func New(cfg Config) (*Splitter, error) {
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, cfg.ChunkSize)
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("%w: overlap %d, size %d", ErrInvalidChunkOverlap, cfg.ChunkOverlap, cfg.ChunkSize)
	}
	switch cfg.Length {
	case "":
		cfg.Length = LengthCharacters
	case LengthCharacters, LengthTokens:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLength, cfg.Length)
	}
	return &Splitter{cfg: cfg}, nil
}

// Config returns the validated configuration.
func (s *Splitter) Config() Config {
	return s.cfg
}

// Len measures text in the splitter's length unit.
func (s *Splitter) Len(text string) (int, error) {
	if s.cfg.Length == LengthCharacters {
		return utf8.RuneCountInString(text), nil
	}
	enc, err := s.encoding()
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// encoding loads the BPE ranks on first use.
func (s *Splitter) encoding() (*tiktoken.Tiktoken, error) {
	s.encOnce.Do(func() {
		s.enc, s.encErr = tiktoken.GetEncoding(TokenEncoding)
		if s.encErr != nil {
			s.encErr = fmt.Errorf("load %s encoding: %w", TokenEncoding, s.encErr)
		}
	})
	return s.enc, s.encErr
}

// Split cuts text into segments. Whitespace-only segments are dropped.
func (s *Splitter) Split(text string) ([]Segment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	lenFunc := utf8.RuneCountInString
	if s.cfg.Length == LengthTokens {
		enc, err := s.encoding()
		if err != nil {
			return nil, err
		}
		lenFunc = func(t string) int {
			return len(enc.Encode(t, nil, nil))
		}
	}

	rc := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.cfg.ChunkSize),
		textsplitter.WithChunkOverlap(s.cfg.ChunkOverlap),
		textsplitter.WithSeparators(separators),
		textsplitter.WithLenFunc(lenFunc),
	)
	pieces, err := rc.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	segments := make([]Segment, 0, len(pieces))
	cursor := 0 // byte position where the previous segment started
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		pos := cursor
		if i := strings.Index(text[cursor:], piece); i >= 0 {
			pos = cursor + i
			cursor = pos
		}
		segments = append(segments, Segment{
			Index:  len(segments),
			Offset: utf8.RuneCountInString(text[:pos]),
			Text:   piece,
		})
	}
	return segments, nil
}

// Texts returns just the text of each segment.
func Texts(segments []Segment) []string {
	out := make([]string, len(segments))
	for i, seg := range segments {
		out[i] = seg.Text
	}
	return out
}
