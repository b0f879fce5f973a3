// Package css scopes component stylesheets to a mount point.
package css

import (
	"regexp"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/pthm/tmplcmp/lib/dom"
	"golang.org/x/net/html"
)

var (
	nonIdent     = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
	selectorLine = regexp.MustCompile(`(?m)^([ ]*)([a-zA-Z0-9,.:>_ -]+?)\s?\{`)
)

// SanitizeID turns an arbitrary string (a stylesheet path, a component kind)
// into an id attribute value by replacing every run of characters outside
// [A-Za-z0-9_-] with a single underscore.
func SanitizeID(s string) string {
	return nonIdent.ReplaceAllString(s, "_")
}

// Namespace prefixes every selector in text with scope so the rules only
// apply inside the mount point. Rules nested in @media, @supports and
// @document are scoped too; @keyframes steps and @font-face are left alone.
//
// Stylesheets the parser rejects fall back to a line based rewrite that
// prefixes each "selector {" line.
func Namespace(scope, text string) string {
	scope = strings.TrimSpace(scope)
	if scope == "" || strings.TrimSpace(text) == "" {
		return text
	}
	sheet, err := parser.Parse(text)
	if err != nil {
		return namespaceLines(scope, text)
	}
	for _, rule := range sheet.Rules {
		scopeRule(scope, rule)
	}
	return sheet.String()
}

func scopeRule(scope string, rule *css.Rule) {
	switch rule.Kind {
	case css.QualifiedRule:
		for i, sel := range rule.Selectors {
			rule.Selectors[i] = scope + " " + sel
		}
		rule.Prelude = strings.Join(rule.Selectors, ", ")
	case css.AtRule:
		switch rule.Name {
		case "@media", "@supports", "@document":
			for _, sub := range rule.Rules {
				scopeRule(scope, sub)
			}
		}
	}
}

func namespaceLines(scope, text string) string {
	return selectorLine.ReplaceAllString(text, "${1}"+scope+" ${2} {")
}

// Selector returns a selector naming n: "#id" when it has an id, otherwise
// the tag followed by its classes.
func Selector(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	if id := dom.Attr(n, "id"); id != "" {
		return "#" + id
	}
	sel := n.Data
	for _, class := range strings.Fields(dom.Attr(n, "class")) {
		sel += "." + class
	}
	return sel
}
