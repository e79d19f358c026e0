// Package structurer converts parsed markup node trees into order-preserving
// nested records, independent of any particular schema. Repeated sibling
// tags become lists, attributes become leading scalar fields, and an element
// carrying both attributes and text keeps its text under "#text".
package structurer

import (
	"github.com/antchfx/xmlquery"

	"github.com/dgallion1/statflat/internal/record"
)

// TextKey is the field name holding element text when it co-occurs with
// attribute fields.
const TextKey = "#text"

// Structure converts an XML node into a nested record. A document node is
// first unwrapped to its document element. With includeRoot the document
// element appears as the single top-level field instead of being skipped.
func Structure(n *xmlquery.Node, includeRoot bool) *record.Record {
	if n.Type == xmlquery.DocumentNode {
		root := documentElement(n)
		if root == nil {
			return record.New()
		}
		n = root
	}
	if includeRoot {
		out := record.New()
		out.Set(n.Data, structureElement(n))
		return out
	}
	return structureElement(n)
}

func documentElement(doc *xmlquery.Node) *xmlquery.Node {
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

func structureElement(n *xmlquery.Node) *record.Record {
	out := record.New()

	for _, attr := range n.Attr {
		out.Set(attr.Name.Local, record.Scalar(attr.Value))
	}

	// Reserve a list under every tag that repeats among the children, so a
	// repeated tag is a sequence even before its first element is visited.
	counts := make(map[string]int)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			counts[c.Data]++
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && counts[c.Data] > 1 {
			if _, ok := out.Get(c.Data); !ok {
				out.Set(c.Data, record.List{})
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			// Whitespace-only text accumulates like any other text.
			out.AppendText(TextKey, c.Data)
		case xmlquery.ElementNode:
			structureChild(out, c)
		}
		// Comments, declarations and notations carry no data.
	}

	return out
}

func structureChild(out *record.Record, c *xmlquery.Node) {
	name := c.Data

	if text, ok := singleTextContent(c); ok {
		if len(c.Attr) > 0 {
			sub := record.New()
			for _, attr := range c.Attr {
				sub.Set(attr.Name.Local, record.Scalar(attr.Value))
			}
			sub.Set(TextKey, record.Scalar(text))
			out.Append(name, sub)
			return
		}
		out.Append(name, record.Scalar(text))
		return
	}

	if cdata, ok := cdataContent(c); ok {
		// Raw payload wins outright; repeated CDATA siblings overwrite.
		out.Set(name, record.Scalar(cdata))
		return
	}

	if items, ok := wrapperItems(c); ok {
		list := make(record.List, 0, len(items))
		for _, item := range items {
			list = append(list, structureElement(item))
		}
		out.Append(name, list)
		return
	}

	out.Append(name, structureElement(c))
}

// singleTextContent reports whether n's only content is one text node.
func singleTextContent(n *xmlquery.Node) (string, bool) {
	c := n.FirstChild
	if c == nil || c.NextSibling != nil || c.Type != xmlquery.TextNode {
		return "", false
	}
	return c.Data, true
}

// cdataContent returns the payload of the first CDATA section under n.
func cdataContent(n *xmlquery.Node) (string, bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.CharDataNode {
			return c.Data, true
		}
	}
	return "", false
}

// wrapperItems detects a pure wrapper element: no attributes, no text, just
// two or more sub-elements sharing one tag name. Its children are returned
// so the wrapper collapses into a single sequence.
func wrapperItems(n *xmlquery.Node) ([]*xmlquery.Node, bool) {
	if len(n.Attr) != 0 {
		return nil, false
	}
	var items []*xmlquery.Node
	name := ""
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode:
			if name == "" {
				name = c.Data
			} else if c.Data != name {
				return nil, false
			}
			items = append(items, c)
		case xmlquery.TextNode, xmlquery.CharDataNode:
			return nil, false
		}
	}
	if len(items) < 2 {
		return nil, false
	}
	return items, true
}
