package tmplcmp

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	sanitizeOnce   sync.Once
	sanitizePolicy *bluemonday.Policy
)

// Sanitize turns untrusted HTML into Markup by stripping everything outside
// bluemonday's user generated content policy: scripts, event handler
// attributes and javascript: URLs are removed, formatting is kept.
func Sanitize(untrusted string) Markup {
	return HTML(sanitizer().Sanitize(untrusted))
}

func sanitizer() *bluemonday.Policy {
	sanitizeOnce.Do(func() {
		sanitizePolicy = bluemonday.UGCPolicy()
	})
	return sanitizePolicy
}
