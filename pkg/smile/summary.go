package smile

import "gonum.org/v1/gonum/stat"

// ProportionSummary aggregates an analysis into the headline numbers shown on
// the evaluation dashboard.
type ProportionSummary struct {
	ToothCount     int     `json:"tooth_count"`
	BracketCount   int     `json:"bracket_count"`
	MeanRatio      float64 `json:"mean_ratio"`
	RatioDeviation float64 `json:"ratio_deviation"`
	ArcDepth       float64 `json:"arc_depth"`
}

// Summarize reduces proportion lines to summary statistics. MeanRatio is the
// mean bracket ratio, RatioDeviation the mean absolute deviation from the
// golden ratio, and ArcDepth the vertical spread of the smile arc. An
// analysis with no brackets or no arc yields zeroes for the respective
// fields.
func Summarize(pl ProportionLines) ProportionSummary {
	s := ProportionSummary{
		ToothCount:   len(pl.Arc),
		BracketCount: len(pl.Brackets),
	}

	if len(pl.Brackets) > 0 {
		ratios := make([]float64, len(pl.Brackets))
		devs := make([]float64, len(pl.Brackets))
		for i, b := range pl.Brackets {
			ratios[i] = b.Ratio
			dev := b.Ratio - GoldenRatio
			if dev < 0 {
				dev = -dev
			}
			devs[i] = dev
		}
		s.MeanRatio = stat.Mean(ratios, nil)
		s.RatioDeviation = stat.Mean(devs, nil)
	}

	if len(pl.Arc) > 0 {
		lo, hi := pl.Arc[0].Y, pl.Arc[0].Y
		for _, p := range pl.Arc[1:] {
			if p.Y < lo {
				lo = p.Y
			}
			if p.Y > hi {
				hi = p.Y
			}
		}
		s.ArcDepth = hi - lo
	}

	return s
}
