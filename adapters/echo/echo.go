// Package tmplcmpecho serves a tmplcmp document with Echo and streams the
// patches of every re-render to websocket clients.
//
// Mount the preview onto an Echo instance or group:
//
//	e := echo.New()
//	preview := tmplcmpecho.Mount(e, doc, tmplcmpecho.WithKey(key))
//
// Mutate the document through Update so page requests never see a half
// applied render, and so the resulting patches are published:
//
//	counter.SetState(next)
//	err := preview.Update(counter)
//
// Each patch set is sent as one text message holding an encoding.Frame,
// signed (or sealed, WithSealed) with the preview key. Clients that hold the
// key decode it with encoding.Encoder.Decode.
package tmplcmpecho

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/a-h/templ"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pthm/tmplcmp"
	"github.com/pthm/tmplcmp/lib/css"
	"github.com/pthm/tmplcmp/lib/encoding"
	"github.com/pthm/tmplcmp/lib/morph"
	"golang.org/x/net/html"
)

// Option configures the Mount and MountGroup functions.
type Option func(*options)

type options struct {
	key    []byte
	path   string
	sealed bool
	logger *slog.Logger
}

// WithKey sets the key frames are signed or sealed with.
// The key should be at least 32 bytes of cryptographically random data.
// If not provided, a random key is generated (suitable for development only).
func WithKey(key []byte) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithPath sets the URL path of the patch stream.
// Defaults to "/patches".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithSealed encrypts frames instead of only signing them.
func WithSealed(sealed bool) Option {
	return func(o *options) {
		o.sealed = sealed
	}
}

// WithLogger sets the logger for connection and publish diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Preview owns a document being served and the websocket clients watching
// it.
type Preview struct {
	doc    *tmplcmp.Document
	enc    *encoding.Encoder
	path   string
	sealed bool
	logger *slog.Logger

	// mu serializes document mutation against page rendering.
	mu sync.Mutex

	// wmu orders frames and keeps one writer per connection.
	wmu sync.Mutex
	seq uint64

	clients  map[*websocket.Conn]bool
	cmu      sync.RWMutex
	upgrader websocket.Upgrader
}

// Mount creates a preview and mounts its routes on an Echo instance:
// GET / serves the document and GET <path> upgrades to the patch stream.
//
//	e := echo.New()
//	preview := tmplcmpecho.Mount(e, doc)
//
//	// With options:
//	preview := tmplcmpecho.Mount(e, doc, tmplcmpecho.WithKey(key), tmplcmpecho.WithSealed(true))
func Mount(e *echo.Echo, doc *tmplcmp.Document, opts ...Option) *Preview {
	p := newPreview(doc, opts)
	e.GET("/", p.handlePage)
	e.GET(p.path, p.handleStream)
	return p
}

// MountGroup creates a preview and mounts its routes on an Echo group.
// This allows the preview to share middleware with the group.
//
//	g := e.Group("/preview", authMiddleware)
//	preview := tmplcmpecho.MountGroup(g, doc)
func MountGroup(g *echo.Group, doc *tmplcmp.Document, opts ...Option) *Preview {
	p := newPreview(doc, opts)
	g.GET("", p.handlePage)
	g.GET("/", p.handlePage)
	g.GET(p.path, p.handleStream)
	return p
}

func newPreview(doc *tmplcmp.Document, opts []Option) *Preview {
	o := &options{
		path:   "/patches",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}

	key := o.key
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("tmplcmpecho: failed to generate random key: %v", err))
		}
	}
	enc, err := encoding.NewEncoder(key)
	if err != nil {
		panic(fmt.Sprintf("tmplcmpecho: %v", err))
	}

	return &Preview{
		doc:     doc,
		enc:     enc,
		path:    o.path,
		sealed:  o.sealed,
		logger:  o.logger,
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // preview is a development server
			},
		},
	}
}

// Encoder returns the frame encoder, for clients in the same process.
func (p *Preview) Encoder() *encoding.Encoder {
	return p.enc
}

// Page returns the document as a templ component.
func (p *Preview) Page() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p.mu.Lock()
		page := p.doc.String()
		p.mu.Unlock()
		_, err := io.WriteString(w, page)
		return err
	})
}

// Renderer is the part of a mounted component Update drives.
type Renderer interface {
	Kind() string
	Element() *html.Node
	Render() (morph.Patches, error)
}

// Update re-renders c while holding the document lock and publishes the
// patches it produced. Renders that change nothing are not published.
func (p *Preview) Update(c Renderer) error {
	p.mu.Lock()
	patches, err := c.Render()
	root := css.Selector(c.Element())
	p.mu.Unlock()
	if err != nil {
		return err
	}
	if len(patches) == 0 {
		return nil
	}
	return p.Publish(c.Kind(), root, patches)
}

// Publish sends one frame holding patches to every connected client. root
// names the node the patch paths are relative to.
func (p *Preview) Publish(kind, root string, patches morph.Patches) error {
	p.wmu.Lock()
	defer p.wmu.Unlock()

	p.seq++
	frame := encoding.Frame{Seq: p.seq, Kind: kind, Root: root, Patches: patches}

	msg, err := p.enc.Encode(frame, p.sealed)
	if err != nil {
		return fmt.Errorf("tmplcmpecho: encoding frame: %w", err)
	}

	p.cmu.RLock()
	clients := make([]*websocket.Conn, 0, len(p.clients))
	for client := range p.clients {
		clients = append(clients, client)
	}
	p.cmu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			p.drop(client)
		}
	}
	p.logger.Debug("frame published",
		"kind", kind,
		"seq", frame.Seq,
		"patches", len(patches),
		"clients", len(clients),
	)
	return nil
}

// ClientCount returns the number of connected stream clients.
func (p *Preview) ClientCount() int {
	p.cmu.RLock()
	defer p.cmu.RUnlock()
	return len(p.clients)
}

// Close disconnects every stream client.
func (p *Preview) Close() {
	p.cmu.Lock()
	defer p.cmu.Unlock()

	for client := range p.clients {
		client.Close()
		delete(p.clients, client)
	}
}

func (p *Preview) handlePage(c echo.Context) error {
	return Render(c, p.Page())
}

func (p *Preview) handleStream(c echo.Context) error {
	conn, err := p.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil
	}

	p.cmu.Lock()
	p.clients[conn] = true
	p.cmu.Unlock()
	p.logger.Debug("stream client connected", "remote", c.RealIP())

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	p.drop(conn)
	return nil
}

func (p *Preview) drop(conn *websocket.Conn) {
	p.cmu.Lock()
	delete(p.clients, conn)
	p.cmu.Unlock()
	conn.Close()
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return tmplcmpecho.Render(c, counter.Markup())
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
