// Package render turns transcript content into displayable markup.
//
// Trust boundary: assistant content comes from the legal backend or the
// built-in fixtures and is emitted as-is, raw HTML included, without
// sanitization. User content is always escaped and is never interpreted as
// markup. If assistant content ever stops being backend-controlled, add a
// sanitizing policy in Renderer.assistant before anything else.
package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"

	"ura-xlaw/internal/domain"
)

// SafeMarkup is HTML that may be inserted into a page without further escaping
type SafeMarkup string

// markdownMarkers are the substrings that make assistant text count as markdown
var markdownMarkers = []string{"###", "**", "*", "[", "---"}

// LooksLikeMarkdown is the content sniff used when the producer did not say
// what it sent. It is a heuristic: HTML containing a literal "*" or "[" is
// classified as markdown.
func LooksLikeMarkdown(content string) bool {
	for _, marker := range markdownMarkers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}

// Resolve decides how assistant content is encoded. An explicit type from the
// producer wins over sniffing.
func Resolve(content string, ct domain.ContentType) domain.ContentType {
	if ct != domain.ContentUnknown {
		return ct
	}
	if LooksLikeMarkdown(content) {
		return domain.ContentMarkdown
	}
	return domain.ContentHTML
}

// Renderer converts messages to HTML
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a renderer with GitHub-flavoured markdown and
// preserved line breaks.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
				gmhtml.WithUnsafe(),
			),
		),
	}
}

// Render produces markup for content according to its origin
func (r *Renderer) Render(content string, origin domain.Origin, ct domain.ContentType) SafeMarkup {
	if origin != domain.OriginAssistant {
		return EscapeText(content)
	}
	return r.assistant(content, ct)
}

// RenderMessage is Render applied to a transcript message
func (r *Renderer) RenderMessage(msg domain.Message) SafeMarkup {
	return r.Render(msg.Text, msg.Origin, msg.ContentType)
}

func (r *Renderer) assistant(content string, ct domain.ContentType) SafeMarkup {
	if Resolve(content, ct) == domain.ContentHTML {
		return SafeMarkup(content)
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		// goldmark only fails on writer errors; fall back to literal text
		return EscapeText(content)
	}
	return SafeMarkup(buf.String())
}

// EscapeText renders s as literal text, keeping its line breaks
func EscapeText(s string) SafeMarkup {
	escaped := html.EscapeString(s)
	return SafeMarkup(strings.ReplaceAll(escaped, "\n", "<br>"))
}
