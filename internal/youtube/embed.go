package youtube

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// EmbedAttributes are the player settings carried by a reference.
type EmbedAttributes struct {
	Width       int
	Height      int
	Autoplay    bool
	PrivacyMode bool
	// FromEmbed is true when the reference was an HTML snippet with a player
	// element (<iframe>, <object> or <embed>).
	FromEmbed bool
}

// ParseEmbed inspects reference for player attributes. HTML snippets are
// parsed for the first player element and the <embed>/<param name="movie">
// nested in it; plain URLs only yield the flags that live in the URL itself.
// Privacy mode also follows the host captured by the extraction pattern.
func ParseEmbed(reference string) EmbedAttributes {
	var (
		attrs EmbedAttributes
		src   string
	)

	if strings.Contains(reference, "<") {
		if node := firstPlayer(reference); node != nil {
			attrs.FromEmbed = true
			src = collectPlayerAttrs(node, &attrs)
		}
	}

	match, matched := MatchReference(reference)
	if src == "" {
		src = strings.TrimSpace(reference)
		if matched {
			src = urlAround(reference, match.URL)
		}
	}

	attrs.PrivacyMode = matched && match.NoCookie
	if strings.HasPrefix(src, "//") {
		src = "https:" + src
	}
	u, err := url.Parse(src)
	if err != nil {
		return attrs
	}
	if strings.Contains(strings.ToLower(u.Host), "youtube-nocookie.") {
		attrs.PrivacyMode = true
	}
	switch strings.ToLower(u.Query().Get("autoplay")) {
	case "1", "true":
		attrs.Autoplay = true
	}
	return attrs
}

func isPlayer(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "iframe", "object", "embed":
		return true
	}
	return false
}

func firstPlayer(snippet string) *html.Node {
	doc, err := html.Parse(strings.NewReader(snippet))
	if err != nil {
		return nil
	}
	var walk func(*html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		if isPlayer(n) {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(doc)
}

// collectPlayerAttrs fills missing dimensions from node and its descendants,
// outermost first, and returns the first player source found.
func collectPlayerAttrs(node *html.Node, attrs *EmbedAttributes) string {
	var src string
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "iframe", "object", "embed":
				for _, a := range n.Attr {
					switch strings.ToLower(a.Key) {
					case "src", "data":
						if src == "" {
							src = strings.TrimSpace(a.Val)
						}
					case "width":
						if attrs.Width == 0 {
							attrs.Width = parseDimension(a.Val)
						}
					case "height":
						if attrs.Height == 0 {
							attrs.Height = parseDimension(a.Val)
						}
					}
				}
			case "param":
				if src == "" && strings.EqualFold(attrValue(n, "name"), "movie") {
					src = strings.TrimSpace(attrValue(n, "value"))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(node)
	return src
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// urlAround widens the matched part of reference up to the end of the URL so
// its query string is kept.
func urlAround(reference, matched string) string {
	start := strings.Index(reference, matched)
	if start < 0 {
		return matched
	}
	rest := reference[start:]
	if end := strings.IndexAny(rest, " \t\r\n\"'<>"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

func parseDimension(v string) int {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
