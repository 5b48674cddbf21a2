package loader

import (
	"context"
	"os"
	"strings"

	"github.com/tmc/langchaingo/schema"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// LoadMarkdown reads a markdown file as plain text. Markup is dropped and
// blocks are separated by blank lines. The first heading becomes the title.
func LoadMarkdown(ctx context.Context, path string) ([]schema.Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	body, title := MarkdownText(source)
	metadata := map[string]any{}
	if title != "" {
		metadata["title"] = title
	}
	return []schema.Document{{PageContent: body, Metadata: metadata}}, nil
}

// MarkdownText renders markdown source to plain text and returns it with the
// text of the first heading.
func MarkdownText(source []byte) (body, title string) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var (
		b       strings.Builder
		heading strings.Builder
		inTitle bool
	)
	write := func(p []byte) {
		b.Write(p)
		if inTitle {
			heading.Write(p)
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading:
			if entering {
				inTitle = title == "" && heading.Len() == 0
			} else {
				if inTitle {
					title = strings.TrimSpace(heading.String())
					inTitle = false
				}
				b.WriteString("\n\n")
			}
		case *ast.Text:
			if entering {
				write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				write(node.Label(source))
			}
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.Write(seg.Value(source))
				}
				b.WriteString("\n")
			}
		case *ast.Paragraph, *ast.ThematicBreak, *ast.List:
			if !entering {
				b.WriteString("\n\n")
			}
		case *ast.TextBlock:
			if !entering {
				b.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})

	return collapseBlankLines(b.String()), title
}

// collapseBlankLines trims s and squeezes runs of blank lines to one.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
