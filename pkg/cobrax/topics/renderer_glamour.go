package topics

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// GlamourRenderer renders markdown topics with glamour. Other topics pass
// through unchanged.
type GlamourRenderer struct {
	// Style is a glamour standard style name such as "dark" or "notty";
	// empty or "auto" detects the terminal background.
	Style string
	// Width wraps output at this many columns; 0 keeps glamour's default.
	Width int
}

// NewGlamourRenderer returns a renderer that adapts to the terminal.
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: "auto"}
}

// NewPlainGlamourRenderer returns a renderer for output without colors,
// such as pipes or NO_COLOR terminals.
func NewPlainGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: styles.NoTTYStyle}
}

func (r *GlamourRenderer) Render(content string, ext string) string {
	if ext != ".md" {
		return content
	}

	var options []glamour.TermRendererOption
	switch r.Style {
	case "", "auto":
		options = append(options, glamour.WithAutoStyle())
	default:
		options = append(options, glamour.WithStandardStyle(r.Style))
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
