// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ImageRefs returns the distinct src values of <img> tags in an HTML
// fragment, in document order.
func ImageRefs(fragment string) []string {
	nodes, err := parseFragment(fragment)
	if err != nil {
		return nil
	}
	var refs []string
	seen := make(map[string]bool)
	for _, n := range nodes {
		walk(n, func(el *html.Node) {
			if el.DataAtom != atom.Img {
				return
			}
			if src := getAttr(el, "src"); src != "" && !seen[src] {
				seen[src] = true
				refs = append(refs, src)
			}
		})
	}
	return refs
}

// RewriteImages adds lazy loading to every <img> of an HTML fragment. When
// lookup knows the src, the tag is pointed at the processed file and gets a
// srcset. Tags that already carry a srcset keep it. Fragments that cannot be
// parsed are returned unchanged.
func RewriteImages(fragment string, lookup func(src string) (Image, bool)) string {
	if !strings.Contains(fragment, "<img") && !strings.Contains(fragment, "<IMG") {
		return fragment
	}
	nodes, err := parseFragment(fragment)
	if err != nil {
		slog.Warn("image rewrite: parse failed, keeping fragment", "error", err)
		return fragment
	}

	for _, n := range nodes {
		walk(n, func(el *html.Node) {
			if el.DataAtom != atom.Img {
				return
			}
			setDefaultAttr(el, "loading", "lazy")
			setDefaultAttr(el, "decoding", "async")
			if lookup == nil || getAttr(el, "srcset") != "" {
				return
			}
			img, ok := lookup(getAttr(el, "src"))
			if !ok {
				return
			}
			setAttr(el, "src", img.Src)
			if img.SrcSet != "" {
				setAttr(el, "srcset", img.SrcSet)
			}
		})
	}

	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			slog.Warn("image rewrite: render failed, keeping fragment", "error", err)
			return fragment
		}
	}
	return b.String()
}

func parseFragment(fragment string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(fragment), body)
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func setDefaultAttr(n *html.Node, key, val string) {
	if getAttr(n, key) == "" {
		setAttr(n, key, val)
	}
}
