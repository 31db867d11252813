package viz

import (
	"math"

	"github.com/san-kum/marblesim/internal/sim"
)

// Scene draws the viewport outline and the marble of frame f, scaled to fit
// the canvas with the aspect ratio kept.
func Scene(c *Canvas, f sim.Frame, radius float64) {
	c.Clear()

	w := f.Bounds.MaxX + 2*radius
	h := f.Bounds.MaxY + 2*radius
	if w <= 0 || h <= 0 {
		return
	}

	cw, ch := c.Dots()
	scale := math.Min(float64(cw-1)/w, float64(ch-1)/h)
	ox := (float64(cw-1) - w*scale) / 2
	oy := (float64(ch-1) - h*scale) / 2

	c.Rect(int(ox), int(oy), int(ox+w*scale), int(oy+h*scale))

	cx := ox + (f.State.X+radius)*scale
	cy := oy + (f.State.Y+radius)*scale
	r := int(math.Max(1, radius*scale))
	c.FillCircle(int(cx), int(cy), r)
}
