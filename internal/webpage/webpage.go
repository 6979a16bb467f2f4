// Package webpage parses raw HTML into the handful of facts the people
// adapter and the forensic researcher care about: title, meta description,
// link hrefs, embedded JSON-LD blocks and the visible text.
package webpage

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Page is a parsed HTML document
type Page struct {
	Title           string
	MetaDescription string
	Links           []string
	JSONLD          []string
	Text            string
}

// Parse extracts page facts from raw HTML
func Parse(data []byte) (*Page, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	page := &Page{}
	var text strings.Builder
	walk(root, page, &text, false)
	page.Text = text.String()
	return page, nil
}

func walk(n *html.Node, page *Page, text *strings.Builder, skipText bool) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "title":
			if page.Title == "" {
				page.Title = strings.TrimSpace(textContent(n))
			}
		case "meta":
			name := attr(n, "name")
			property := attr(n, "property")
			if (name == "description" || property == "og:description") && page.MetaDescription == "" {
				page.MetaDescription = strings.TrimSpace(attr(n, "content"))
			}
		case "a":
			if href := attr(n, "href"); href != "" {
				page.Links = append(page.Links, href)
			}
		case "script":
			if strings.EqualFold(attr(n, "type"), "application/ld+json") {
				if raw := textContent(n); strings.TrimSpace(raw) != "" {
					page.JSONLD = append(page.JSONLD, raw)
				}
			}
			skipText = true
		case "style", "noscript":
			skipText = true
		}
	}

	if n.Type == html.TextNode && !skipText {
		if s := strings.TrimSpace(n.Data); s != "" {
			text.WriteString(s)
			text.WriteByte(' ')
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, page, text, skipText)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// ContainsAny reports whether the page text contains any of the given
// keywords, case-insensitively
func (p *Page) ContainsAny(keywords ...string) bool {
	text := strings.ToLower(p.Text)
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
