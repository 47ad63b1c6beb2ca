package style

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/fwmaker/pkg/engine"
	"github.com/arthur-debert/fwmaker/pkg/errors"
	"github.com/arthur-debert/fwmaker/pkg/layout"
	"github.com/arthur-debert/fwmaker/pkg/numparse"
)

// Renderer formats command results for one output format.
type Renderer interface {
	RenderPlan(plan engine.Plan) string
	RenderResult(result *engine.Result) string
	RenderCatalog(c layout.Catalog) string
	RenderError(err error) string
}

// NewRenderer returns the renderer for a concrete format. FormatAuto must
// be resolved first; it falls back to plain text.
func NewRenderer(f Format) Renderer {
	switch f {
	case FormatTerminal:
		return &TerminalRenderer{}
	case FormatJSON:
		return &JSONRenderer{}
	default:
		return &TextRenderer{}
	}
}

var planHeader = []string{"Component", "Offset", "Reserved", "Used", "Source"}

func planRows(plan engine.Plan, path func(string) string) [][]string {
	rows := [][]string{planHeader}
	for _, r := range plan {
		rows = append(rows, []string{
			r.Name,
			numparse.FormatHex(r.Offset),
			numparse.FormatHex(r.Size),
			numparse.FormatHex(uint64(r.FileSize)),
			path(r.Path),
		})
	}
	return rows
}

func renderTable(rows [][]string, printer pterm.TablePrinter) string {
	out, err := printer.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		// pterm only fails on malformed data; fall back to tab separated rows.
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, strings.Join(row, "\t"))
		}
		return strings.Join(lines, "\n")
	}
	return out
}

// TerminalRenderer implements Renderer with rich terminal output
type TerminalRenderer struct{}

func (r *TerminalRenderer) RenderPlan(plan engine.Plan) string {
	if len(plan) == 0 {
		return MutedStyle.Render("No regions")
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Image layout") + "\n\n")
	b.WriteString(renderTable(planRows(plan, func(p string) string { return PathStyle.Render(p) }), *pterm.DefaultTable.WithBoxed()))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %d regions, image size %s",
		SuccessIndicator,
		len(plan),
		OffsetStyle.Render(numparse.FormatHex(plan.ImageSize()))))
	return b.String()
}

func (r *TerminalRenderer) RenderResult(result *engine.Result) string {
	return fmt.Sprintf("%s Wrote %s (%s bytes)\n  md5 %s",
		SuccessIndicator,
		PathStyle.Render(result.Output),
		OffsetStyle.Render(numparse.FormatHex(uint64(result.Size))),
		ChecksumStyle.Render(result.Checksum))
}

func (r *TerminalRenderer) RenderCatalog(c layout.Catalog) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Components") + "\n\n")
	if len(c.Recognized) == 0 {
		b.WriteString(Indent(MutedStyle.Render("any name is accepted"), 1) + "\n")
	}
	for _, name := range c.Recognized {
		marker := " "
		if c.IsEssential(name) {
			marker = EssentialMarker
		}
		b.WriteString(Indent(fmt.Sprintf("%s %s", marker, Bold(name)), 1) + "\n")
	}
	b.WriteString("\n" + MutedStyle.Render("* essential"))
	return b.String()
}

func (r *TerminalRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s %s", ErrorIndicator, ErrorStyle.Render(errors.UserMessage(err)))
}

// TextRenderer implements Renderer with plain text output (no styling)
type TextRenderer struct{}

func plainTable() pterm.TablePrinter {
	plain := pterm.NewStyle()
	return *pterm.DefaultTable.
		WithStyle(plain).
		WithHeaderStyle(plain).
		WithSeparatorStyle(plain).
		WithSeparator("  ")
}

func (r *TextRenderer) RenderPlan(plan engine.Plan) string {
	if len(plan) == 0 {
		return "No regions"
	}
	table := renderTable(planRows(plan, func(p string) string { return p }), plainTable())
	return fmt.Sprintf("%s\n\n%d regions, image size %s", table, len(plan), numparse.FormatHex(plan.ImageSize()))
}

func (r *TextRenderer) RenderResult(result *engine.Result) string {
	return fmt.Sprintf("Wrote %s (%s bytes)\nmd5 %s", result.Output, numparse.FormatHex(uint64(result.Size)), result.Checksum)
}

func (r *TextRenderer) RenderCatalog(c layout.Catalog) string {
	if len(c.Recognized) == 0 {
		return "any name is accepted"
	}
	lines := make([]string, 0, len(c.Recognized))
	for _, name := range c.Recognized {
		if c.IsEssential(name) {
			lines = append(lines, name+" (essential)")
		} else {
			lines = append(lines, name)
		}
	}
	return strings.Join(lines, "\n")
}

func (r *TextRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + errors.UserMessage(err)
}

// JSONRenderer implements Renderer with machine-readable output
type JSONRenderer struct{}

type regionJSON struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Offset   uint64 `json:"offset"`
	Size     uint64 `json:"size"`
	FileSize int64  `json:"file_size"`
}

type planJSON struct {
	Valid     bool         `json:"valid"`
	ImageSize uint64       `json:"image_size"`
	Regions   []regionJSON `json:"regions"`
}

type resultJSON struct {
	Output   string       `json:"output"`
	Checksum string       `json:"md5"`
	Size     int64        `json:"size"`
	Regions  []regionJSON `json:"regions"`
}

type catalogJSON struct {
	Recognized []string `json:"recognized"`
	Essential  []string `json:"essential"`
}

type errorJSON struct {
	Error   string                 `json:"error"`
	Code    errors.ErrorCode       `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func regionsJSON(plan engine.Plan) []regionJSON {
	out := make([]regionJSON, 0, len(plan))
	for _, r := range plan {
		out = append(out, regionJSON{Name: r.Name, Path: r.Path, Offset: r.Offset, Size: r.Size, FileSize: r.FileSize})
	}
	return out
}

func encode(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		data, _ = json.Marshal(errorJSON{Error: err.Error(), Code: errors.ErrInternal})
	}
	return string(data)
}

func (r *JSONRenderer) RenderPlan(plan engine.Plan) string {
	return encode(planJSON{Valid: true, ImageSize: plan.ImageSize(), Regions: regionsJSON(plan)})
}

func (r *JSONRenderer) RenderResult(result *engine.Result) string {
	return encode(resultJSON{Output: result.Output, Checksum: result.Checksum, Size: result.Size, Regions: regionsJSON(result.Plan)})
}

func (r *JSONRenderer) RenderCatalog(c layout.Catalog) string {
	out := catalogJSON{Recognized: c.Recognized, Essential: c.Essential}
	if out.Recognized == nil {
		out.Recognized = []string{}
	}
	if out.Essential == nil {
		out.Essential = []string{}
	}
	return encode(out)
}

func (r *JSONRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return encode(errorJSON{
		Error:   errors.UserMessage(err),
		Code:    errors.GetErrorCode(err),
		Details: errors.GetErrorDetails(err),
	})
}
