package loader

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/PuerkitoBio/goquery"
	"github.com/tmc/langchaingo/schema"
)

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Title    string `xml:"metadata>title"`
	Manifest []struct {
		ID   string `xml:"id,attr"`
		Href string `xml:"href,attr"`
	} `xml:"manifest>item"`
	Spine []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

// LoadEPUB reads the content documents of an EPUB in spine order, one
// document per chapter.
func LoadEPUB(ctx context.Context, filePath string) ([]schema.Document, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	var container epubContainer
	if err := decodeZipXML(files["META-INF/container.xml"], &container); err != nil {
		return nil, err
	}
	if len(container.Rootfiles) == 0 {
		return nil, fmt.Errorf("%w: %s has no rootfile", ErrMalformedDocument, filePath)
	}

	opfPath := container.Rootfiles[0].FullPath
	var pkg epubPackage
	if err := decodeZipXML(files[opfPath], &pkg); err != nil {
		return nil, err
	}

	hrefs := make(map[string]string, len(pkg.Manifest))
	for _, item := range pkg.Manifest {
		hrefs[item.ID] = item.Href
	}

	var docs []schema.Document
	for i, ref := range pkg.Spine {
		href, ok := hrefs[ref.IDRef]
		if !ok {
			continue
		}
		if unescaped, err := url.PathUnescape(href); err == nil {
			href = unescaped
		}
		f := files[path.Join(path.Dir(opfPath), href)]
		if f == nil {
			continue
		}

		text, err := readZipHTML(f)
		if err != nil {
			return nil, err
		}
		if text == "" {
			continue
		}
		metadata := map[string]any{"chapter": i + 1}
		if pkg.Title != "" {
			metadata["title"] = pkg.Title
		}
		docs = append(docs, schema.Document{PageContent: text, Metadata: metadata})
	}
	return docs, nil
}

func decodeZipXML(f *zip.File, v any) error {
	if f == nil {
		return fmt.Errorf("%w: missing archive part", ErrMalformedDocument)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	defer rc.Close()
	if err := xml.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedDocument, f.Name, err)
	}
	return nil
}

func readZipHTML(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	defer rc.Close()
	return readHTML(rc)
}

func readHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return htmlText(doc.Find("body")), nil
}
