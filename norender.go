package tmplcmp

import (
	"github.com/pthm/tmplcmp/lib/dom"
	"golang.org/x/net/html"
)

// NoRenderAttr marks an element whose attributes and children Render must
// leave alone, for example a widget managed by other code:
//
//	<div id="map" norender></div>
const NoRenderAttr = "norender"

// SkipNoRender is a morph.Options.OnBeforeElUpdated guard that refuses to
// update live elements carrying NoRenderAttr.
func SkipNoRender(from, to *html.Node) bool {
	return !dom.HasAttr(from, NoRenderAttr)
}

// NoRenderGuard returns SkipNoRender for a custom marker attribute.
func NoRenderGuard(attr string) func(from, to *html.Node) bool {
	if attr == NoRenderAttr {
		return SkipNoRender
	}
	return func(from, _ *html.Node) bool {
		return !dom.HasAttr(from, attr)
	}
}
