package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"ura-xlaw/internal/domain"
)

// Terminal renders transcript content for an ANSI terminal. Markdown goes
// through glamour; HTML is first reduced to markdown so both look alike.
type Terminal struct {
	renderer *glamour.TermRenderer
}

// NewTerminal creates a terminal renderer wrapping at width. An empty style
// picks light or dark from the terminal background.
func NewTerminal(width int, style string) (*Terminal, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}

	renderer, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Terminal{renderer: renderer}, nil
}

// Render returns the message body ready to print. User text is returned
// verbatim; terminals do not interpret markup.
func (t *Terminal) Render(msg domain.Message) string {
	if msg.IsUser() {
		return msg.Text
	}

	source := msg.Text
	if Resolve(msg.Text, msg.ContentType) == domain.ContentHTML {
		md, err := HTMLToMarkdown(msg.Text)
		if err != nil {
			return msg.Text
		}
		source = md
	}

	rendered, err := t.renderer.Render(source)
	if err != nil {
		return source
	}
	return strings.TrimRight(rendered, "\n")
}

// HTMLToMarkdown converts the small HTML vocabulary used by answer cards
// (div, p, lists, bold, links, badges) to markdown text.
func HTMLToMarkdown(src string) (string, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(src), ctx)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var sb strings.Builder
	for _, n := range nodes {
		writeNode(&sb, n, 0)
	}
	return cleanMarkdown(sb.String()), nil
}

func writeNode(sb *strings.Builder, n *html.Node, listIndex int) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(collapseSpace(n.Data))
		return
	case html.ElementNode:
	default:
		writeChildren(sb, n)
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style:
		return
	case atom.Br:
		sb.WriteString("\n")
	case atom.P, atom.Div:
		sb.WriteString("\n")
		writeChildren(sb, n)
		sb.WriteString("\n")
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		sb.WriteString("\n### ")
		writeChildren(sb, n)
		sb.WriteString("\n")
	case atom.Ul, atom.Ol:
		sb.WriteString("\n")
		i := 0
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.DataAtom == atom.Li {
				i++
				if n.DataAtom == atom.Ol {
					writeNode(sb, c, i)
				} else {
					writeNode(sb, c, 0)
				}
			}
		}
		sb.WriteString("\n")
	case atom.Li:
		if listIndex > 0 {
			fmt.Fprintf(sb, "\n%d. ", listIndex)
		} else {
			sb.WriteString("\n- ")
		}
		writeChildren(sb, n)
	case atom.B, atom.Strong:
		wrapChildren(sb, n, "**")
	case atom.I, atom.Em:
		if hasClass(n, "fas") {
			// icon font glyphs carry no text
			return
		}
		wrapChildren(sb, n, "*")
	case atom.Code:
		wrapChildren(sb, n, "`")
	case atom.A:
		href := attr(n, "href")
		if href == "" || href == "#" {
			writeChildren(sb, n)
			return
		}
		sb.WriteString("[")
		writeChildren(sb, n)
		fmt.Fprintf(sb, "](%s)", href)
	case atom.Span:
		if hasClass(n, "status-badge") {
			sb.WriteString(" `")
			sb.WriteString(strings.TrimSpace(textOf(n)))
			sb.WriteString("` ")
			return
		}
		writeChildren(sb, n)
	default:
		writeChildren(sb, n)
	}
}

func writeChildren(sb *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(sb, c, 0)
	}
}

func wrapChildren(sb *strings.Builder, n *html.Node, marker string) {
	inner := strings.TrimSpace(textOf(n))
	if inner == "" {
		return
	}
	sb.WriteString(marker)
	sb.WriteString(inner)
	sb.WriteString(marker)
}

// textOf extracts all text from a node and its children
func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return collapseSpace(n.Data)
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textOf(c))
	}
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// collapseSpace replaces runs of whitespace with one space, keeping a single
// leading or trailing space so adjacent inline text stays separated.
func collapseSpace(s string) string {
	if strings.TrimSpace(s) == "" {
		if s == "" {
			return ""
		}
		return " "
	}
	out := strings.Join(strings.Fields(s), " ")
	if strings.TrimLeft(s, " \t\r\n") != s {
		out = " " + out
	}
	if strings.TrimRight(s, " \t\r\n") != s {
		out += " "
	}
	return out
}

// cleanMarkdown trims every line and squeezes blank lines
func cleanMarkdown(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
