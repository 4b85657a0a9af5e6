package lights

import "sort"

// distribution1D is a tabulated piecewise-constant distribution over a
// discrete set of non-negative function values, used for the background
// light's per-row (along u) and marginal (along v) importance tables. The
// shape (cumulative table, binary search for the inverting sample, discrete
// vs. continuous variants) is grounded on the original library's Pdf1D
// class: a running CDF normalized so cdf[n] == 1, with dSample doing a
// discrete pick and continuous sampling additionally placing the sample
// within the picked bucket.
type distribution1D struct {
	function []float64
	cdf      []float64 // len(function)+1, cdf[0] == 0, cdf[len] == 1
	integral float64    // average function value before normalization
}

func newDistribution1D(f []float64) *distribution1D {
	n := len(f)
	d := &distribution1D{function: append([]float64(nil), f...), cdf: make([]float64, n+1)}
	for i := 1; i <= n; i++ {
		d.cdf[i] = d.cdf[i-1] + f[i-1]/float64(n)
	}
	d.integral = d.cdf[n]
	if d.integral == 0 {
		for i := 1; i <= n; i++ {
			d.cdf[i] = float64(i) / float64(n)
		}
	} else {
		for i := 1; i <= n; i++ {
			d.cdf[i] /= d.integral
		}
	}
	return d
}

// sampleDiscrete picks a bucket with probability proportional to its
// function value, returning the bucket index and the discrete PDF
// (function[index] / (integral * n), or 1/n if every value was zero).
func (d *distribution1D) sampleDiscrete(u float64) (index int, pdf float64) {
	i := sort.Search(len(d.cdf), func(i int) bool { return d.cdf[i] > u }) - 1
	if i < 0 {
		i = 0
	}
	if i >= len(d.function) {
		i = len(d.function) - 1
	}
	if d.integral == 0 {
		return i, 1.0 / float64(len(d.function))
	}
	return i, d.function[i] / (d.integral * float64(len(d.function)))
}

// sampleContinuous maps u to a position in [0,1) and the PDF of that
// position (the discrete bucket PDF scaled by the bucket width).
func (d *distribution1D) sampleContinuous(u float64) (x, pdf float64, index int) {
	index, pdf = d.sampleDiscrete(u)
	du := u - d.cdf[index]
	width := d.cdf[index+1] - d.cdf[index]
	if width > 0 {
		du /= width
	}
	n := float64(len(d.function))
	return (float64(index) + du) / n, pdf * n, index
}

// pdfAt returns the continuous PDF for a position already known to fall in
// bucket index, used when the inverse direction (direction -> (u,v) ->
// index) is already known instead of derived from a random sample.
func (d *distribution1D) pdfAt(index int) float64 {
	if d.integral == 0 {
		return 1.0
	}
	return d.function[index] / d.integral
}

// distribution2D is a 2-D piecewise-constant distribution built as one
// distribution1D per row (the conditional distribution along u) plus a
// marginal distribution1D over the rows' integrals (along v) — the same
// two-level table the original background light builds as u_dist_[y] +
// v_dist_, letting the row be picked first and the column picked
// conditioned on it.
type distribution2D struct {
	conditional []*distribution1D
	marginal    *distribution1D
}

func newDistribution2D(rows [][]float64) *distribution2D {
	conditional := make([]*distribution1D, len(rows))
	marginalFunc := make([]float64, len(rows))
	for y, row := range rows {
		conditional[y] = newDistribution1D(row)
		marginalFunc[y] = conditional[y].integral
	}
	return &distribution2D{conditional: conditional, marginal: newDistribution1D(marginalFunc)}
}

// sampleContinuous draws (u,v) in [0,1)^2 with PDF proportional to the
// tabulated function, returning the joint PDF (pdfU * pdfV, matching
// independent conditional/marginal sampling).
func (d *distribution2D) sampleContinuous(sample [2]float64) (u, v, pdf float64) {
	v, pdfV, row := d.marginal.sampleContinuous(sample[1])
	u, pdfU, _ := d.conditional[row].sampleContinuous(sample[0])
	return u, v, pdfU * pdfV
}

// pdf returns the joint PDF at a known (u,v) position, used when MIS needs
// the background's sampling density for a direction chosen by BSDF
// sampling rather than by this distribution.
func (d *distribution2D) pdf(u, v float64) float64 {
	row := clampIndex(int(v*float64(len(d.conditional))), len(d.conditional))
	col := clampIndex(int(u*float64(len(d.conditional[row].function))), len(d.conditional[row].function))
	return d.conditional[row].pdfAt(col) * d.marginal.pdfAt(row)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
