// Package smile computes smile-design overlay geometry from tooth bounding
// boxes detected on a clinical photo: the dental midline, golden-ratio
// brackets for adjacent tooth pairs, and the smile arc traced by the incisal
// edges. All coordinates are percentages (0-100) of the image dimensions.
package smile

import (
	"sort"
	"time"
)

// GoldenRatio is the ideal width ratio between adjacent anterior teeth.
const GoldenRatio = 1.618

// midlinePad extends the midline overlay beyond the tallest and lowest tooth.
const midlinePad = 2.0

// ToothBox is the bounding box of a single detected tooth. X and Y are the
// box center; all fields are percentage units of the image size.
type ToothBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Midline is the vertical facial midline overlay.
type Midline struct {
	X      float64 `json:"x"`
	YStart float64 `json:"y_start"`
	YEnd   float64 `json:"y_end"`
}

// Bracket compares the apparent widths of two adjacent teeth on one side of
// the midline. X1/W1 belong to the inner tooth (closer to the midline),
// X2/W2 to the outer one. Ideal is always GoldenRatio.
type Bracket struct {
	X1    float64 `json:"x1"`
	W1    float64 `json:"w1"`
	X2    float64 `json:"x2"`
	W2    float64 `json:"w2"`
	Ratio float64 `json:"ratio"`
	Ideal float64 `json:"ideal"`
	Y     float64 `json:"y"`
}

// ArcPoint is one point of the smile arc: the center-x and bottom edge of a
// tooth box.
type ArcPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ProportionLines is the full overlay result for one analysis.
type ProportionLines struct {
	Midline  *Midline   `json:"midline"`
	Brackets []Bracket  `json:"golden_ratio_brackets"`
	Arc      []ArcPoint `json:"smile_arc"`
}

// AnalysisContext carries provenance for an analysis. It is accepted by
// ComputeProportionLines for future use but does not influence the geometry.
type AnalysisContext struct {
	Source     string    `json:"source,omitempty"`
	CapturedAt time.Time `json:"captured_at,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

// ComputeProportionLines transforms tooth bounding boxes into the three
// overlay primitives. It is a pure function: the input slice is never
// mutated, every input (including nil and empty) maps to a well-defined
// output, and no error conditions exist. Degenerate geometry degrades
// silently (a zero-width outer tooth yields a bracket ratio of 0).
func ComputeProportionLines(boxes []ToothBox, _ *AnalysisContext) ProportionLines {
	result := ProportionLines{
		Brackets: []Bracket{},
		Arc:      []ArcPoint{},
	}
	if len(boxes) == 0 {
		return result
	}

	// Work on a copy so the caller's slice and its order survive. Stable
	// sorts keep tied entries reproducible across calls.
	byX := make([]ToothBox, len(boxes))
	copy(byX, boxes)
	sort.SliceStable(byX, func(i, j int) bool { return byX[i].X < byX[j].X })

	ml := computeMidline(byX)
	result.Midline = &ml
	result.Brackets = computeBrackets(byX, ml.X)
	result.Arc = computeArc(byX)
	return result
}

// computeMidline positions the midline from the two widest teeth, falling
// back to the centroid of all teeth when both of the widest lie strictly on
// the same side of it, which would drag the naive average off-center.
func computeMidline(byX []ToothBox) Midline {
	byWidth := make([]ToothBox, len(byX))
	copy(byWidth, byX)
	sort.SliceStable(byWidth, func(i, j int) bool { return byWidth[i].Width > byWidth[j].Width })

	var x float64
	if len(byWidth) == 1 {
		x = byWidth[0].X
	} else {
		w1, w2 := byWidth[0], byWidth[1]
		x = (w1.X + w2.X) / 2

		centroid := 0.0
		for _, b := range byX {
			centroid += b.X
		}
		centroid /= float64(len(byX))

		if (w1.X-centroid)*(w2.X-centroid) > 0 {
			x = centroid
		}
	}

	top := byX[0].Y - byX[0].Height/2
	bottom := byX[0].Y + byX[0].Height/2
	for _, b := range byX[1:] {
		if t := b.Y - b.Height/2; t < top {
			top = t
		}
		if bo := b.Y + b.Height/2; bo > bottom {
			bottom = bo
		}
	}

	return Midline{X: x, YStart: top - midlinePad, YEnd: bottom + midlinePad}
}

// computeBrackets emits one bracket per adjacent tooth pair, walking outward
// from the midline on each side. The left side is emitted first; order is
// observable and relied on by the overlay renderer.
func computeBrackets(byX []ToothBox, midlineX float64) []Bracket {
	brackets := []Bracket{}
	if len(byX) < 4 {
		return brackets
	}

	var left, right []ToothBox
	for _, b := range byX {
		if b.X < midlineX {
			left = append(left, b)
		} else {
			right = append(right, b)
		}
	}
	// Outward traversal: left side closest-to-midline first means
	// descending x, which is the reverse of the x-sorted order.
	for i, j := 0, len(left)-1; i < j; i, j = i+1, j-1 {
		left[i], left[j] = left[j], left[i]
	}

	for _, side := range [][]ToothBox{left, right} {
		for i := 0; i+1 < len(side); i++ {
			brackets = append(brackets, newBracket(side[i], side[i+1]))
		}
	}
	return brackets
}

func newBracket(inner, outer ToothBox) Bracket {
	ratio := 0.0
	if outer.Width != 0 {
		ratio = inner.Width / outer.Width
	}
	y := inner.Y - inner.Height/2
	if t := outer.Y - outer.Height/2; t < y {
		y = t
	}
	return Bracket{
		X1:    inner.X,
		W1:    inner.Width,
		X2:    outer.X,
		W2:    outer.Width,
		Ratio: ratio,
		Ideal: GoldenRatio,
		Y:     y,
	}
}

func computeArc(byX []ToothBox) []ArcPoint {
	arc := make([]ArcPoint, 0, len(byX))
	for _, b := range byX {
		arc = append(arc, ArcPoint{X: b.X, Y: b.Y + b.Height/2})
	}
	return arc
}
