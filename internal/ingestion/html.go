package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"br": true, "tr": true, "table": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "footer": true, "address": true, "blockquote": true, "pre": true,
}

// ExtractHTMLText converts an HTML resume into plain text: headings and
// paragraphs become their own lines and list items become "- " bullets.
func ExtractHTMLText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, nav, iframe, svg, form, button").Remove()

	var sb strings.Builder
	walk(doc.Find("body"), &sb)
	return CleanText(sb.String()), nil
}

func walk(sel *goquery.Selection, sb *strings.Builder) {
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		name := goquery.NodeName(node)
		switch {
		case name == "#text":
			sb.WriteString(node.Text())
		case name == "li":
			sb.WriteString("\n- ")
			walk(node, sb)
			sb.WriteString("\n")
		case name == "a":
			text := strings.TrimSpace(node.Text())
			href, _ := node.Attr("href")
			href = strings.TrimPrefix(href, "mailto:")
			switch {
			case href == "" || href == text || strings.HasPrefix(href, "#"):
				sb.WriteString(text)
			case text == "":
				sb.WriteString(href)
			default:
				sb.WriteString(text + " (" + href + ")")
			}
		case blockElements[name]:
			sb.WriteString("\n")
			walk(node, sb)
			sb.WriteString("\n")
		case name == "td" || name == "th":
			walk(node, sb)
			sb.WriteString(" ")
		default:
			walk(node, sb)
		}
	})
}
