package render

import (
	"fmt"
	"io"
	"strings"
)

// Style decorates text fragments. Nil fields leave text unchanged.
type Style struct {
	Title   func(string) string
	Heading func(string) string
	Muted   func(string) string
	Accent  func(string) string
	Error   func(string) string
}

func apply(f func(string) string, s string) string {
	if f == nil {
		return s
	}
	return f(s)
}

// Text writes n as terminal text. Play controls are numbered [p1], [p2], ...
// and chips [1], [2], ... in document order, matching Plays and Chips.
func Text(w io.Writer, n *Node, s Style) error {
	tw := &textWriter{style: s}
	tw.node(n)
	_, err := io.WriteString(w, tw.b.String())
	return err
}

type textWriter struct {
	b     strings.Builder
	style Style
	plays int
	chips int
}

func (t *textWriter) line(indent int, text string) {
	t.b.WriteString(strings.Repeat("  ", indent))
	t.b.WriteString(text)
	t.b.WriteByte('\n')
}

func (t *textWriter) playSuffix(n *Node) string {
	var out string
	for _, c := range n.Children {
		if c.Kind == KindPlay {
			t.plays++
			out += " " + apply(t.style.Accent, fmt.Sprintf("[p%d]", t.plays))
		}
	}
	return out
}

func (t *textWriter) node(n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindCard:
		for _, c := range n.Children {
			t.node(c)
		}
	case KindTitle:
		t.line(0, apply(t.style.Title, n.Text)+t.playSuffix(n))
	case KindPhonetics:
		t.line(1, apply(t.style.Muted, n.Text))
	case KindTranslation:
		t.line(1, "→ "+n.Text+t.playSuffix(n))
	case KindSection, KindRelated:
		t.b.WriteByte('\n')
		for _, c := range n.Children {
			t.node(c)
		}
	case KindHeading:
		t.line(0, apply(t.style.Heading, n.Text))
	case KindDefinition:
		var pos, text, example string
		for _, c := range n.Children {
			switch c.Kind {
			case KindPartOfSpeech:
				pos = c.Text
			case KindText:
				text = c.Text
			case KindExample:
				example = c.Text
			}
		}
		if pos != "" {
			text = apply(t.style.Muted, pos) + "  " + text
		}
		t.line(1, "• "+text)
		if example != "" {
			t.line(3, apply(t.style.Muted, fmt.Sprintf("%q", example)))
		}
	case KindGroup:
		parts := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			t.chips++
			parts = append(parts, apply(t.style.Accent, fmt.Sprintf("[%d]", t.chips))+" "+c.Text)
		}
		t.line(1, n.Text+": "+strings.Join(parts, "  "))
	case KindError:
		t.line(0, apply(t.style.Error, "✗ "+n.Text))
	default:
		if n.Text != "" {
			t.line(1, n.Text)
		}
	}
}
