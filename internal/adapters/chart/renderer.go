// Package chart renders the dashboard's facet counts as images.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/example/sprintboard/internal/core/ticket"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no tickets to chart")

// Format is an output image format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case PNG, "":
		return PNG, nil
	case SVG:
		return SVG, nil
	}
	return "", fmt.Errorf("unsupported chart format %q (expected png or svg)", s)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() gochart.RendererProvider {
	if f == SVG {
		return gochart.SVG
	}
	return gochart.PNG
}

var (
	statusColor = drawing.ColorFromHex("87CEEB")
	orderColor  = drawing.ColorFromHex("FFA500")
)

// Renderer draws one chart per facet: bars for STATUS and ORDEM, a pie for MÓDULO.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer creates a renderer with the given image size.
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = 960
	}
	if height <= 0 {
		height = 480
	}
	return &Renderer{Width: width, Height: height}
}

// Render writes the chart for column's counts to w.
func (r *Renderer) Render(w io.Writer, column string, counts []ticket.Count, format Format) error {
	if guard := ticket.CanAggregate(ticket.FacetContext{Column: column}); !guard.Allowed {
		return guard.Error()
	}
	if len(counts) == 0 {
		return ErrNoData
	}

	var err error
	switch column {
	case ticket.ColumnStatus:
		err = r.bar("Distribuição de Chamados por Status", counts, statusColor).Render(format.provider(), w)
	case ticket.ColumnOrder:
		err = r.bar("Distribuição de Chamados por Ordem de Prioridade", counts, orderColor).Render(format.provider(), w)
	case ticket.ColumnModule:
		err = r.pie("Chamados por Módulo", counts).Render(format.provider(), w)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s chart: %w", column, err)
	}
	return nil
}

func (r *Renderer) bar(title string, counts []ticket.Count, color drawing.Color) gochart.BarChart {
	bars := make([]gochart.Value, len(counts))
	top := 0
	for i, c := range counts {
		bars[i] = gochart.Value{
			Label: fmt.Sprintf("%s (%d)", label(c.Value), c.Count),
			Value: float64(c.Count),
			Style: gochart.Style{FillColor: color, StrokeColor: color},
		}
		if c.Count > top {
			top = c.Count
		}
	}

	return gochart.BarChart{
		Title:      title,
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   barWidth(r.Width, len(bars)),
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		// An explicit range keeps a single bar (min == max) drawable.
		YAxis: gochart.YAxis{Range: &gochart.ContinuousRange{Min: 0, Max: float64(top) + 1}},
		Bars:  bars,
	}
}

func (r *Renderer) pie(title string, counts []ticket.Count) gochart.PieChart {
	values := make([]gochart.Value, len(counts))
	for i, c := range counts {
		values[i] = gochart.Value{
			Label: fmt.Sprintf("%s (%d)", label(c.Value), c.Count),
			Value: float64(c.Count),
		}
	}
	return gochart.PieChart{
		Title:  title,
		Width:  r.Width,
		Height: r.Height,
		Values: values,
	}
}

func barWidth(width, n int) int {
	w := width / (2*n + 1)
	if w > 80 {
		return 80
	}
	if w < 8 {
		return 8
	}
	return w
}

func label(v string) string {
	if v == "" {
		return "(vazio)"
	}
	return v
}
