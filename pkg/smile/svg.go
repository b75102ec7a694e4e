package smile

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
)

const (
	midlineStyle = "stroke:#2563eb;stroke-width:2;stroke-dasharray:6,4"
	bracketStyle = "stroke:#d97706;stroke-width:1.5"
	arcStyle     = "fill:none;stroke:#16a34a;stroke-width:2"
	labelStyle   = "font-size:12px;fill:#d97706;text-anchor:middle"
)

// RenderOverlay writes the proportion lines as an SVG overlay sized to the
// target image in pixels. Percentage coordinates are scaled to the pixel
// viewport; the overlay is meant to be stacked on top of the clinical photo.
func RenderOverlay(w io.Writer, pl ProportionLines, width, height int) {
	canvas := svg.New(w)
	canvas.Start(width, height)

	sx := func(v float64) int { return int(v / 100 * float64(width)) }
	sy := func(v float64) int { return int(v / 100 * float64(height)) }

	if pl.Midline != nil {
		canvas.Line(sx(pl.Midline.X), sy(pl.Midline.YStart), sx(pl.Midline.X), sy(pl.Midline.YEnd), midlineStyle)
	}

	for _, b := range pl.Brackets {
		y := sy(b.Y) - 6
		canvas.Line(sx(b.X1), y, sx(b.X2), y, bracketStyle)
		canvas.Line(sx(b.X1), y, sx(b.X1), y+4, bracketStyle)
		canvas.Line(sx(b.X2), y, sx(b.X2), y+4, bracketStyle)
		mid := (sx(b.X1) + sx(b.X2)) / 2
		canvas.Text(mid, y-4, fmt.Sprintf("%.3f", b.Ratio), labelStyle)
	}

	if len(pl.Arc) > 1 {
		xs := make([]int, len(pl.Arc))
		ys := make([]int, len(pl.Arc))
		for i, p := range pl.Arc {
			xs[i] = sx(p.X)
			ys[i] = sy(p.Y)
		}
		canvas.Polyline(xs, ys, arcStyle)
	}

	canvas.End()
}
