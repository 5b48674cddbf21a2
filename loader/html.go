package loader

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "en-note": true,
	"figcaption": true, "figure": true, "footer": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true,
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// htmlText flattens the text under sel, ending each block element with a newline.
func htmlText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			name := goquery.NodeName(c)
			switch name {
			case "#text":
				b.WriteString(whitespaceRun.ReplaceAllString(c.Text(), " "))
			case "script", "style", "head", "title":
			case "br":
				b.WriteString("\n")
			default:
				walk(c)
				if blockElements[name] {
					b.WriteString("\n")
				}
			}
		})
	}
	walk(sel)

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return collapseBlankLines(strings.Join(lines, "\n"))
}
