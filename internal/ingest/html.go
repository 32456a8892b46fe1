package ingest

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is the readable content of an HTML briefing.
type Document struct {
	Title string
	Text  string
}

// noiseSelector lists elements that never carry briefing content.
const noiseSelector = "script, style, noscript, nav, footer, aside, iframe, template"

// contentSelectors are tried in order; the first match is the briefing body.
var contentSelectors = []string{"main", "article", "#content", ".content", "body"}

// FromHTML extracts readable text from an HTML briefing, preferring <main>
// or <article> and falling back to <body>. Headings, paragraphs, list items
// and table cells stay on their own lines so label patterns like
// "Audience: ..." keep matching after conversion.
func FromHTML(input []byte) Document {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return Document{}
	}
	doc := goquery.NewDocumentFromNode(node)
	title := strings.TrimSpace(doc.Find("head title").First().Text())

	doc.Find(noiseSelector).Remove()
	doc.Find("[id], [class], [role], [aria-label]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return isBoilerplateContainer(s.Get(0))
	}).Remove()

	var b strings.Builder
	for _, sel := range contentSelectors {
		if content := doc.Find(sel).First(); content.Length() > 0 {
			collectText(&b, content.Get(0), false)
			break
		}
	}
	return Document{Title: title, Text: normalizeWhitespace(b.String())}
}

func collectText(b *strings.Builder, n *html.Node, inPre bool) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "pre", "code":
			inPre = true
		case "br", "hr":
			b.WriteString("\n")
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "tr", "div", "ul", "ol", "dt", "dd":
			b.WriteString("\n")
		case "td", "th":
			b.WriteString(" ")
		}
	}

	if n.Type == html.TextNode {
		data := n.Data
		if !inPre {
			data = strings.ReplaceAll(data, "\t", " ")
			data = strings.ReplaceAll(data, "\r", " ")
			data = strings.ReplaceAll(data, "\n", " ")
		}
		b.WriteString(data)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c, inPre)
	}

	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "p", "h1", "h2", "h3", "h4", "h5", "h6":
			b.WriteString("\n\n")
		case "li", "tr", "div", "dd":
			b.WriteString("\n")
		case "pre":
			b.WriteString("\n")
		}
	}
}

// isBoilerplateContainer reports elements that look like cookie or consent
// banners, which exported briefing pages often still carry.
func isBoilerplateContainer(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if key != "id" && key != "class" && !strings.HasPrefix(key, "data-") && key != "aria-label" && key != "role" {
			continue
		}
		if containsAny(strings.ToLower(attr.Val), []string{"cookie", "consent", "gdpr"}) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// normalizeWhitespace collapses space runs inside lines and keeps at most
// one blank line between blocks.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(out) > 0 && out[len(out)-1] == "" {
				continue
			}
			out = append(out, "")
			continue
		}
		out = append(out, strings.Join(strings.Fields(trimmed), " "))
	}
	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
