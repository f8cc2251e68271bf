package ingest

import (
	"bytes"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

var (
	headingRe   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	strongRe    = regexp.MustCompile(`(\*\*|__|~~|` + "`" + `)`)
	emphasisRe  = regexp.MustCompile(`(^|[^\w\\])[_*]([^_*\s][^_*]*?)[_*]($|\W)`)
	escapeRe    = regexp.MustCompile(`\\([\\` + "`" + `*_{}\[\]()#+\-.!|~>])`)
	linkRe      = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	listRe      = regexp.MustCompile(`(?m)^\s*(?:[-+*]|\d+\.)\s+`)
	blankLineRe = regexp.MustCompile(`\n{3,}`)
)

// dropElements never carry corpus text.
var dropElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "nav": true,
	"header": true, "footer": true, "aside": true, "form": true,
	"iframe": true, "object": true, "embed": true, "button": true,
}

// HTMLConverter turns HTML pages into plain text for classification and
// extraction.
type HTMLConverter struct {
	converter *md.Converter
}

// NewHTMLConverter creates a converter with GitHub-flavoured table and
// strikethrough handling.
func NewHTMLConverter() *HTMLConverter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &HTMLConverter{converter: converter}
}

// Text returns the page title and the visible body text of content.
func (c *HTMLConverter) Text(content []byte) (title, text string, err error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return "", "", err
	}
	title = findTitle(doc)
	prune(doc)

	var buf bytes.Buffer
	body := findElement(doc, "body")
	if body == nil {
		body = doc
	}
	if err := html.Render(&buf, body); err != nil {
		return "", "", err
	}

	markdown, err := c.converter.ConvertString(buf.String())
	if err != nil {
		return "", "", err
	}
	return title, plainText(markdown), nil
}

// plainText strips the markdown markup the converter emits.
func plainText(markdown string) string {
	s := linkRe.ReplaceAllString(markdown, "$1")
	s = headingRe.ReplaceAllString(s, "")
	s = listRe.ReplaceAllString(s, "")
	s = strongRe.ReplaceAllString(s, "")
	s = emphasisRe.ReplaceAllString(s, "$1$2$3")
	s = escapeRe.ReplaceAllString(s, "$1")
	s = blankLineRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func findTitle(n *html.Node) string {
	if t := findElement(n, "title"); t != nil && t.FirstChild != nil {
		return strings.TrimSpace(t.FirstChild.Data)
	}
	return ""
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func prune(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && dropElements[c.Data] {
			n.RemoveChild(c)
		} else {
			prune(c)
		}
		c = next
	}
}
