package loader

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/schema"
)

type enexExport struct {
	Notes []struct {
		Title   string   `xml:"title"`
		Content string   `xml:"content"`
		Created string   `xml:"created"`
		Tags    []string `xml:"tag"`
	} `xml:"note"`
}

// LoadENEX reads an Evernote export, one document per note with the ENML
// content reduced to text.
func LoadENEX(ctx context.Context, path string) ([]schema.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var export enexExport
	if err := xml.NewDecoder(f).Decode(&export); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	docs := make([]schema.Document, 0, len(export.Notes))
	for _, note := range export.Notes {
		text, err := readHTML(strings.NewReader(note.Content))
		if err != nil {
			return nil, err
		}
		metadata := map[string]any{"title": note.Title}
		if note.Created != "" {
			metadata["created"] = note.Created
		}
		if len(note.Tags) > 0 {
			metadata["tags"] = strings.Join(note.Tags, ",")
		}
		docs = append(docs, schema.Document{PageContent: text, Metadata: metadata})
	}
	return docs, nil
}
