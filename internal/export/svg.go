package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/marblesim/internal/marble"
	"github.com/san-kum/marblesim/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.Dots()
	width := float64(w) * scale
	height := float64(h) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, color)

	dotRadius := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryOptions controls TrajectorySVG output.
type TrajectoryOptions struct {
	Width       int // output width in px; height follows the viewport aspect
	Radius      float64
	StrokeColor string
	MarbleColor string
}

// TrajectorySVG draws the viewport, the path of the marble's center and the
// marble at its last position. Coordinates are screen coordinates, y down.
func TrajectorySVG(w io.Writer, states []marble.State, bounds marble.Bounds, opts TrajectoryOptions) error {
	if len(states) == 0 {
		return fmt.Errorf("no states to draw")
	}
	if opts.Width <= 0 {
		opts.Width = 400
	}
	if opts.StrokeColor == "" {
		opts.StrokeColor = "#00ff88"
	}
	if opts.MarbleColor == "" {
		opts.MarbleColor = "#f5f5f5"
	}

	viewW := bounds.MaxX + 2*opts.Radius
	viewH := bounds.MaxY + 2*opts.Radius
	if viewW <= 0 || viewH <= 0 {
		return fmt.Errorf("degenerate viewport %.0fx%.0f", viewW, viewH)
	}
	scale := float64(opts.Width) / viewW
	height := int(math.Round(viewH * scale))

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a" stroke="#444466" stroke-width="2"/>
`, opts.Width, height, opts.Width, height)

	if len(states) > 1 {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, opts.StrokeColor)
		for i, s := range states {
			x := (s.X + opts.Radius) * scale
			y := (s.Y + opts.Radius) * scale
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	last := states[len(states)-1]
	fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
		(last.X+opts.Radius)*scale, (last.Y+opts.Radius)*scale, math.Max(1, opts.Radius*scale), opts.MarbleColor)
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
