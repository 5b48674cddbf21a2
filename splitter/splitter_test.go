package splitter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"defaults", DefaultConfig(), nil},
		{"zero size", Config{ChunkSize: 0}, ErrInvalidChunkSize},
		{"negative size", Config{ChunkSize: -5}, ErrInvalidChunkSize},
		{"negative overlap", Config{ChunkSize: 10, ChunkOverlap: -1}, ErrInvalidChunkOverlap},
		{"overlap equals size", Config{ChunkSize: 10, ChunkOverlap: 10}, ErrInvalidChunkOverlap},
		{"unknown length", Config{ChunkSize: 10, Length: "bytes"}, ErrUnknownLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestNew_DefaultsLengthToCharacters(t *testing.T) {
	s, err := New(Config{ChunkSize: 10, ChunkOverlap: 2})
	require.NoError(t, err)
	assert.Equal(t, LengthCharacters, s.Config().Length)

	n, err := s.Len("héllo")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestSplit_Empty(t *testing.T) {
	s, err := New(DefaultConfig())
	require.NoError(t, err)

	segments, err := s.Split("  \n\n  ")
	require.NoError(t, err)
	assert.Empty(t, segments)
}

func TestSplit_ShortText(t *testing.T) {
	s, err := New(DefaultConfig())
	require.NoError(t, err)

	segments, err := s.Split("A short note.")
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, Segment{Index: 0, Offset: 0, Text: "A short note."}, segments[0])
}

func TestSplit_RespectsChunkSize(t *testing.T) {
	paragraphs := []string{
		"Threads start with a hook that makes the reader stop scrolling.",
		"Each following post expands one idea from the notes in plain language.",
		"The final post closes the loop and points back to the first one.",
	}
	text := strings.Join(paragraphs, "\n\n")

	s, err := New(Config{ChunkSize: 40, ChunkOverlap: 10})
	require.NoError(t, err)

	segments, err := s.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(segments), 3)

	runes := []rune(text)
	for i, seg := range segments {
		assert.Equal(t, i, seg.Index)
		assert.NotEmpty(t, strings.TrimSpace(seg.Text))
		assert.LessOrEqual(t, utf8.RuneCountInString(seg.Text), 40, "segment %d: %q", i, seg.Text)

		// Offsets point back into the original text.
		end := seg.Offset + utf8.RuneCountInString(seg.Text)
		require.LessOrEqual(t, end, len(runes))
		assert.Equal(t, seg.Text, string(runes[seg.Offset:end]))
	}

	for i := 1; i < len(segments); i++ {
		assert.GreaterOrEqual(t, segments[i].Offset, segments[i-1].Offset)
	}
}

func TestSplit_CoversAllWords(t *testing.T) {
	text := "alpha beta gamma delta epsilon zeta eta theta iota kappa lambda mu"

	s, err := New(Config{ChunkSize: 20, ChunkOverlap: 0})
	require.NoError(t, err)

	segments, err := s.Split(text)
	require.NoError(t, err)

	joined := strings.Join(Texts(segments), " ")
	for _, word := range strings.Fields(text) {
		assert.Contains(t, joined, word)
	}
}

func TestSplit_UnicodeOffsets(t *testing.T) {
	text := "ünïcödé wörds\n\nsecond paragraph with more wörds"

	s, err := New(Config{ChunkSize: 20, ChunkOverlap: 0})
	require.NoError(t, err)

	segments, err := s.Split(text)
	require.NoError(t, err)
	require.NotEmpty(t, segments)

	runes := []rune(text)
	for _, seg := range segments {
		end := seg.Offset + utf8.RuneCountInString(seg.Text)
		assert.Equal(t, seg.Text, string(runes[seg.Offset:end]))
	}
}
