package tmplcmp

import (
	"io"
	"log/slog"

	"golang.org/x/net/html"
)

// Option configures a Component.
type Option func(*options)

type options struct {
	doc          *Document
	parent       *html.Node
	logger       *slog.Logger
	noRenderAttr string
}

func defaultOptions() options {
	return options{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		noRenderAttr: NoRenderAttr,
	}
}

// WithDocument sets the document the component belongs to. It is needed for
// stylesheets and event delegation.
func WithDocument(doc *Document) Option {
	return func(o *options) {
		o.doc = doc
	}
}

// WithParent makes Init attach the component under parent in doc and load
// its stylesheet.
func WithParent(doc *Document, parent *html.Node) Option {
	return func(o *options) {
		o.doc = doc
		o.parent = parent
	}
}

// WithLogger sets the logger for attach and render diagnostics. By default
// nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithNoRenderAttr changes the attribute that marks nodes render must not
// touch. The default is NoRenderAttr.
func WithNoRenderAttr(name string) Option {
	return func(o *options) {
		if name != "" {
			o.noRenderAttr = name
		}
	}
}
