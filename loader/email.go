package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/tmc/langchaingo/schema"
)

// LoadEmail reads an RFC 822 message. The document holds the subject and
// sender followed by the inline text parts; HTML parts are used only when the
// message has no plain text.
func LoadEmail(ctx context.Context, path string) ([]schema.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mr, err := mail.CreateReader(f)
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	defer mr.Close()

	metadata := map[string]any{}
	var header strings.Builder
	if subject, err := mr.Header.Subject(); err == nil && subject != "" {
		metadata["title"] = subject
		fmt.Fprintf(&header, "Subject: %s\n", subject)
	}
	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		metadata["from"] = from[0].String()
		fmt.Fprintf(&header, "From: %s\n", from[0].String())
	}
	if date, err := mr.Header.Date(); err == nil && !date.IsZero() {
		metadata["date"] = date.UTC().Format("2006-01-02T15:04:05Z")
	}

	var plain, html []string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		body, err := io.ReadAll(p.Body)
		if err != nil {
			return nil, err
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain"):
			plain = append(plain, strings.TrimSpace(string(body)))
		case strings.HasPrefix(contentType, "text/html"):
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
			if err != nil {
				continue
			}
			html = append(html, strings.TrimSpace(doc.Text()))
		}
	}

	parts := plain
	if len(parts) == 0 {
		parts = html
	}

	content := header.String()
	if content != "" {
		content += "\n"
	}
	content += strings.Join(parts, "\n\n")

	return []schema.Document{{PageContent: strings.TrimSpace(content), Metadata: metadata}}, nil
}
