package structurer

import (
	"golang.org/x/net/html"

	"github.com/dgallion1/statflat/internal/record"
)

// StructureHTML applies the same structuring rules to an HTML node tree,
// for monitor endpoints that expose an HTML status page instead of XML.
// The HTML parser surfaces no CDATA sections, so that branch is absent.
func StructureHTML(n *html.Node, includeRoot bool) *record.Record {
	if n.Type == html.DocumentNode {
		root := htmlDocumentElement(n)
		if root == nil {
			return record.New()
		}
		n = root
	}
	if includeRoot {
		out := record.New()
		out.Set(n.Data, structureHTMLElement(n))
		return out
	}
	return structureHTMLElement(n)
}

func htmlDocumentElement(doc *html.Node) *html.Node {
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

func structureHTMLElement(n *html.Node) *record.Record {
	out := record.New()

	for _, attr := range n.Attr {
		out.Set(attr.Key, record.Scalar(attr.Val))
	}

	counts := make(map[string]int)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			counts[c.Data]++
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && counts[c.Data] > 1 {
			if _, ok := out.Get(c.Data); !ok {
				out.Set(c.Data, record.List{})
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			out.AppendText(TextKey, c.Data)
		case html.ElementNode:
			structureHTMLChild(out, c)
		}
	}

	return out
}

func structureHTMLChild(out *record.Record, c *html.Node) {
	name := c.Data

	if text, ok := singleHTMLText(c); ok {
		if len(c.Attr) > 0 {
			sub := record.New()
			for _, attr := range c.Attr {
				sub.Set(attr.Key, record.Scalar(attr.Val))
			}
			sub.Set(TextKey, record.Scalar(text))
			out.Append(name, sub)
			return
		}
		out.Append(name, record.Scalar(text))
		return
	}

	if items, ok := htmlWrapperItems(c); ok {
		list := make(record.List, 0, len(items))
		for _, item := range items {
			list = append(list, structureHTMLElement(item))
		}
		out.Append(name, list)
		return
	}

	out.Append(name, structureHTMLElement(c))
}

func singleHTMLText(n *html.Node) (string, bool) {
	c := n.FirstChild
	if c == nil || c.NextSibling != nil || c.Type != html.TextNode {
		return "", false
	}
	return c.Data, true
}

func htmlWrapperItems(n *html.Node) ([]*html.Node, bool) {
	if len(n.Attr) != 0 {
		return nil, false
	}
	var items []*html.Node
	name := ""
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			if name == "" {
				name = c.Data
			} else if c.Data != name {
				return nil, false
			}
			items = append(items, c)
		case html.TextNode:
			return nil, false
		}
	}
	if len(items) < 2 {
		return nil, false
	}
	return items, true
}
