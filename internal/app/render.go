package app

import (
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/glamour"
)

const maxRenderCache = 256

// renderCacheKey identifies a rendered note body.
type renderCacheKey struct {
	hash  uint64
	width int
}

// Renderer renders markdown note bodies with glamour, caching the output by
// body hash and width.
type Renderer struct {
	style string

	mu        sync.Mutex
	cache     map[renderCacheKey]string
	renderers map[int]*glamour.TermRenderer
}

// NewRenderer creates a renderer for a glamour standard style name.
func NewRenderer(style string) *Renderer {
	if style == "" {
		style = "dark"
	}
	return &Renderer{
		style:     style,
		cache:     make(map[renderCacheKey]string),
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Render returns body rendered to width columns. On failure the raw body is
// returned.
func (r *Renderer) Render(body string, width int) string {
	if width < 10 {
		width = 10
	}
	key := renderCacheKey{hash: xxhash.Sum64String(body), width: width}

	r.mu.Lock()
	defer r.mu.Unlock()

	if out, ok := r.cache[key]; ok {
		return out
	}

	tr, ok := r.renderers[width]
	if !ok {
		var err error
		tr, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return body
		}
		r.renderers[width] = tr
	}

	out, err := tr.Render(body)
	if err != nil {
		return body
	}
	out = strings.Trim(out, "\n")

	if len(r.cache) >= maxRenderCache {
		clear(r.cache)
	}
	r.cache[key] = out
	return out
}

// Len returns the number of cached renders.
func (r *Renderer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}
