package loader

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/schema"
)

// xmlLayout describes where the text lives in an office XML part.
type xmlLayout struct {
	// text lists elements whose character data, including that of their
	// descendants, is kept.
	text map[string]bool
	// paragraphs lists elements that end with a newline.
	paragraphs map[string]bool
	// breaks maps empty elements to the text they stand for.
	breaks map[string]string
}

var (
	wordLayout = xmlLayout{
		text:       map[string]bool{"t": true},
		paragraphs: map[string]bool{"p": true},
		breaks:     map[string]string{"br": "\n", "cr": "\n"},
	}
	slideLayout = xmlLayout{
		text:       map[string]bool{"t": true},
		paragraphs: map[string]bool{"p": true},
		breaks:     map[string]string{"br": "\n"},
	}
	openDocumentLayout = xmlLayout{
		text:       map[string]bool{"p": true, "h": true},
		paragraphs: map[string]bool{"p": true, "h": true},
		breaks:     map[string]string{"s": " ", "tab": "\t", "line-break": "\n"},
	}
)

// LoadDOCX reads the paragraphs of word/document.xml.
func LoadDOCX(ctx context.Context, path string) ([]schema.Document, error) {
	return loadZipPart(path, "word/document.xml", wordLayout)
}

// LoadODT reads the paragraphs and headings of content.xml.
func LoadODT(ctx context.Context, path string) ([]schema.Document, error) {
	return loadZipPart(path, "content.xml", openDocumentLayout)
}

var slidePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// LoadPPTX reads the text of every slide, one document per slide in slide order.
func LoadPPTX(ctx context.Context, path string) ([]schema.Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	defer zr.Close()

	type slide struct {
		number int
		file   *zip.File
	}
	var slides []slide
	for _, f := range zr.File {
		m := slidePattern.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		slides = append(slides, slide{number: n, file: f})
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("%w: no slides in %s", ErrMalformedDocument, path)
	}
	slices.SortFunc(slides, func(a, b slide) int { return a.number - b.number })

	docs := make([]schema.Document, 0, len(slides))
	for _, s := range slides {
		text, err := readZipText(s.file, slideLayout)
		if err != nil {
			return nil, err
		}
		if text == "" {
			continue
		}
		docs = append(docs, schema.Document{
			PageContent: text,
			Metadata:    map[string]any{"slide": s.number},
		})
	}
	return docs, nil
}

func loadZipPart(path, name string, layout xmlLayout) ([]schema.Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		text, err := readZipText(f, layout)
		if err != nil {
			return nil, err
		}
		return []schema.Document{{PageContent: text, Metadata: map[string]any{}}}, nil
	}
	return nil, fmt.Errorf("%w: %s has no %s", ErrMalformedDocument, path, name)
}

func readZipText(f *zip.File, layout xmlLayout) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	defer rc.Close()
	return extractXMLText(rc, layout)
}

// extractXMLText streams an XML document and keeps the text selected by layout.
func extractXMLText(r io.Reader, layout xmlLayout) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		b     strings.Builder
		depth int
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if layout.text[t.Name.Local] {
				depth++
			}
			if s, ok := layout.breaks[t.Name.Local]; ok {
				b.WriteString(s)
			}
		case xml.EndElement:
			if layout.text[t.Name.Local] {
				depth--
			}
			if layout.paragraphs[t.Name.Local] {
				b.WriteString("\n")
			}
		case xml.CharData:
			if depth > 0 {
				b.Write(t)
			}
		}
	}
	return collapseBlankLines(b.String()), nil
}
