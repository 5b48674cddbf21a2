package loader

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o644))
	return p
}

func writeZip(t *testing.T, dir, name string, parts map[string]string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for partName, body := range parts {
		w, err := zw.Create(partName)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return p
}

func pageContents(docs []schema.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.PageContent
	}
	return out
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{".csv", ".docx", ".enex", ".eml", ".epub", ".html", ".md", ".odt", ".pdf", ".pptx", ".txt"}, r.Extensions())

	_, ok := r.Lookup(".TXT")
	assert.True(t, ok)
	_, ok = r.Lookup("md")
	assert.True(t, ok)
	_, ok = r.Lookup(".doc")
	assert.False(t, ok)
}

func TestRegistry_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "data.xyz", "x")

	_, err := DefaultRegistry().Load(context.Background(), p)
	require.ErrorIs(t, err, ErrUnsupportedExtension)
	assert.Equal(t, "unsupported file extension '.xyz'", err.Error())
}

func TestRegistry_RegisterCustom(t *testing.T) {
	r := NewRegistry()
	r.Register("log", LoaderFunc(func(ctx context.Context, path string) ([]schema.Document, error) {
		return []schema.Document{{PageContent: "custom"}}, nil
	}))

	docs, err := r.Load(context.Background(), "/var/app.log")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "custom", docs[0].PageContent)
	assert.Equal(t, "/var/app.log", docs[0].Metadata[MetadataSource])
}

func TestLoadText(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "notes.txt", "héllo wörld\nsecond line")

	docs, err := DefaultRegistry().Load(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "héllo wörld\nsecond line", docs[0].PageContent)
	assert.Equal(t, p, docs[0].Metadata["source"])
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "people.csv", "name,role\nada,engineer\ngrace,admiral\n")

	docs, err := DefaultRegistry().Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"name: ada\nrole: engineer", "name: grace\nrole: admiral"}, pageContents(docs))
	assert.Equal(t, p, docs[1].Metadata["source"])
}

func TestLoadHTML(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "page.html", "<html><head><title>T</title></head><body><h1>Welcome</h1><p>Body text</p></body></html>")

	docs, err := DefaultRegistry().Load(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0].PageContent, "Welcome")
	assert.Contains(t, docs[0].PageContent, "Body text")
}

func TestLoadPDF_Invalid(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "broken.pdf", "this is not a pdf")

	_, err := DefaultRegistry().Load(context.Background(), p)
	assert.Error(t, err)
}

func TestLoadMarkdown(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "post.md", strings.Join([]string{
		"# Building in public",
		"",
		"Some *emphasis* and a [link](https://example.com).",
		"",
		"- first",
		"- second",
		"",
		"```go",
		"fmt.Println(\"hi\")",
		"```",
	}, "\n"))

	docs, err := DefaultRegistry().Load(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	text := docs[0].PageContent
	assert.True(t, strings.HasPrefix(text, "Building in public\n\n"))
	assert.Contains(t, text, "Some emphasis and a link.")
	assert.Contains(t, text, "first\nsecond")
	assert.Contains(t, text, `fmt.Println("hi")`)
	assert.NotContains(t, text, "*")
	assert.NotContains(t, text, "https://example.com")
	assert.NotContains(t, text, "\n\n\n")
	assert.Equal(t, "Building in public", docs[0].Metadata["title"])
}

func TestMarkdownText_NoHeading(t *testing.T) {
	body, title := MarkdownText([]byte("just a line\nand another"))
	assert.Equal(t, "", title)
	assert.Equal(t, "just a line\nand another", body)
}

func TestLoadEmail(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "msg.eml", strings.Join([]string{
		"From: Ada Lovelace <ada@example.com>",
		"To: team@example.com",
		"Subject: Launch notes",
		"Date: Mon, 02 Jan 2006 15:04:05 +0000",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="b1"`,
		"",
		"--b1",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Plain body here.",
		"--b1",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>HTML body here.</p>",
		"--b1--",
		"",
	}, "\r\n"))

	docs, err := DefaultRegistry().Load(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	text := docs[0].PageContent
	assert.Contains(t, text, "Subject: Launch notes")
	assert.Contains(t, text, "ada@example.com")
	assert.Contains(t, text, "Plain body here.")
	assert.NotContains(t, text, "HTML body here.")
	assert.Equal(t, "Launch notes", docs[0].Metadata["title"])
}

func TestLoadEmail_HTMLOnly(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "html.eml", strings.Join([]string{
		"Subject: Newsletter",
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<html><body><p>Only <b>HTML</b> here.</p></body></html>",
		"",
	}, "\r\n"))

	docs, err := DefaultRegistry().Load(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0].PageContent, "Only HTML here.")
}

func TestLoadDOCX(t *testing.T) {
	dir := t.TempDir()
	p := writeZip(t, dir, "report.docx", map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second</w:t><w:br/><w:t>line.</w:t></w:r></w:p>
  </w:body>
</w:document>`,
	})

	docs, err := DefaultRegistry().Load(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "First paragraph.\nSecond\nline.", docs[0].PageContent)
}

func TestLoadDOCX_MissingPart(t *testing.T) {
	dir := t.TempDir()
	p := writeZip(t, dir, "empty.docx", map[string]string{"other.xml": "<x/>"})

	_, err := DefaultRegistry().Load(context.Background(), p)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestLoadODT(t *testing.T) {
	dir := t.TempDir()
	p := writeZip(t, dir, "essay.odt", map[string]string{
		"content.xml": `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
  <office:body><office:text>
    <text:h>Heading</text:h>
    <text:p>One<text:s/>two <text:span>three</text:span></text:p>
  </office:text></office:body>
</office:document-content>`,
	})

	docs, err := DefaultRegistry().Load(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Heading\nOne two three", docs[0].PageContent)
}

func TestLoadPPTX(t *testing.T) {
	slide := func(text string) string {
		return `<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`
	}
	dir := t.TempDir()
	p := writeZip(t, dir, "deck.pptx", map[string]string{
		"ppt/slides/slide10.xml": slide("Ten"),
		"ppt/slides/slide2.xml":  slide("Two"),
		"ppt/slides/slide1.xml":  slide("One"),
		"ppt/slides/_rels/slide1.xml.rels": "<Relationships/>",
	})

	docs, err := DefaultRegistry().Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"One", "Two", "Ten"}, pageContents(docs))
	assert.Equal(t, 10, docs[2].Metadata["slide"])
}

func TestLoadEPUB(t *testing.T) {
	dir := t.TempDir()
	p := writeZip(t, dir, "book.epub", map[string]string{
		"mimetype": "application/epub+zip",
		"META-INF/container.xml": `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles>
</container>`,
		"OEBPS/content.opf": `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/" version="3.0">
  <metadata><dc:title>Field Notes</dc:title></metadata>
  <manifest>
    <item id="c2" href="text/chapter%202.xhtml" media-type="application/xhtml+xml"/>
    <item id="c1" href="text/chapter1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="c1"/><itemref idref="c2"/></spine>
</package>`,
		"OEBPS/text/chapter1.xhtml":   `<html xmlns="http://www.w3.org/1999/xhtml"><head><title>Ch1</title></head><body><h1>Chapter One</h1><p>It begins.</p></body></html>`,
		"OEBPS/text/chapter 2.xhtml":  `<html xmlns="http://www.w3.org/1999/xhtml"><body><p>It ends.</p></body></html>`,
	})

	docs, err := DefaultRegistry().Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"Chapter One\nIt begins.", "It ends."}, pageContents(docs))
	assert.Equal(t, "Field Notes", docs[0].Metadata["title"])
}

func TestLoadENEX(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "export.enex", `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE en-export SYSTEM "http://xml.evernote.com/pub/evernote-export3.dtd">
<en-export>
  <note>
    <title>Groceries</title>
    <content><![CDATA[<?xml version="1.0" encoding="UTF-8"?><!DOCTYPE en-note SYSTEM "http://xml.evernote.com/pub/enml2.dtd"><en-note><div>Milk</div><div>Bread<br/>Eggs</div></en-note>]]></content>
    <created>20240102T150405Z</created>
    <tag>home</tag>
  </note>
  <note>
    <title>Ideas</title>
    <content><![CDATA[<en-note><p>Write a thread about Go.</p></en-note>]]></content>
  </note>
</en-export>`)

	docs, err := DefaultRegistry().Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"Milk\nBread\nEggs", "Write a thread about Go."}, pageContents(docs))
	assert.Equal(t, "Groceries", docs[0].Metadata["title"])
	assert.Equal(t, "home", docs[0].Metadata["tags"])
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "a")
	writeFile(t, dir, "nested/deep/b.md", "b")
	writeFile(t, dir, "nested/c.pdf", "c")
	writeFile(t, dir, "nested/skip.bin", "x")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "folder.md"), 0o755))

	paths, err := Discover(dir, []string{".md", ".txt", ".pdf", ".txt"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "nested", "c.pdf"),
		filepath.Join(dir, "nested", "deep", "b.md"),
	}, paths)

	t.Run("ignored paths", func(t *testing.T) {
		paths, err := Discover(dir, []string{".md", ".txt"}, []string{filepath.Join(dir, "a.txt")})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "nested", "deep", "b.md")}, paths)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := Discover(filepath.Join(dir, "nope"), []string{".md"}, nil)
		assert.Error(t, err)
	})
}
