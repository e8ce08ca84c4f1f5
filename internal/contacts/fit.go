package contacts

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// fit is a raw blob candidate before tracking/stability are applied.
type fit struct {
	center      Vec2
	size        Vec2 // major, minor semi-axes
	orientation float64
}

// seeds finds cells that are local maxima within NeighborhoodRadius and
// exceed ActivationThreshold. A cell on a plateau of equal values loses to
// any neighbor with a smaller grid index (row-major order), so a tied
// maximum is resolved to exactly one seed rather than one per tied cell.
func seeds(hm *Heatmap, cfg Config) [][2]int {
	var out [][2]int
	r := cfg.NeighborhoodRadius

	for row := 0; row < hm.Rows; row++ {
		for col := 0; col < hm.Cols; col++ {
			v := hm.At(row, col)
			if v <= cfg.ActivationThreshold {
				continue
			}

			index := row*hm.Cols + col
			isMax := true
			for dr := -r; dr <= r && isMax; dr++ {
				nr := row + dr
				if nr < 0 || nr >= hm.Rows {
					continue
				}
				for dc := -r; dc <= r; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					nc := col + dc
					if nc < 0 || nc >= hm.Cols {
						continue
					}

					nv := hm.At(nr, nc)
					if nv > v {
						isMax = false
						break
					}
					if nv == v && nr*hm.Cols+nc < index {
						isMax = false
						break
					}
				}
			}

			if isMax {
				out = append(out, [2]int{row, col})
			}
		}
	}
	return out
}

// gaussianFit estimates a 2D Gaussian (mean, covariance) from the
// intensity-weighted moments of the cells around a seed, then extracts
// its principal axes via eigendecomposition of the covariance. It
// reports ok=false for degenerate fits: non-positive eigenvalues, an
// aspect ratio beyond cfg.MaxAspect, or a footprint outside
// [cfg.MinSize, cfg.MaxSize].
func gaussianFit(hm *Heatmap, seedRow, seedCol int, cfg Config) (fit, bool) {
	r := cfg.FitWindowRadius

	var sumW, sumWX, sumWY, sumWXX, sumWYY, sumWXY float64

	for dr := -r; dr <= r; dr++ {
		row := seedRow + dr
		if row < 0 || row >= hm.Rows {
			continue
		}
		for dc := -r; dc <= r; dc++ {
			col := seedCol + dc
			if col < 0 || col >= hm.Cols {
				continue
			}

			w := hm.At(row, col)
			if w <= cfg.ActivationThreshold {
				continue
			}

			x := (float64(col) + 0.5) / float64(hm.Cols)
			y := (float64(row) + 0.5) / float64(hm.Rows)

			sumW += w
			sumWX += w * x
			sumWY += w * y
			sumWXX += w * x * x
			sumWYY += w * y * y
			sumWXY += w * x * y
		}
	}

	if sumW <= 0 {
		return fit{}, false
	}

	meanX := sumWX / sumW
	meanY := sumWY / sumW

	varX := sumWXX/sumW - meanX*meanX
	varY := sumWYY/sumW - meanY*meanY
	covXY := sumWXY/sumW - meanX*meanY

	cov := mat.NewSymDense(2, []float64{varX, covXY, covXY, varY})
	var eig mat.EigenSym
	if ok := eig.Factorize(cov, true); !ok {
		return fit{}, false
	}

	values := eig.Values(nil)
	vectors := mat.Dense{}
	eig.VectorsTo(&vectors)

	majorIdx, minorIdx := 0, 1
	if values[1] > values[0] {
		majorIdx, minorIdx = 1, 0
	}

	majorVal, minorVal := values[majorIdx], values[minorIdx]
	if majorVal <= 0 || minorVal <= 0 {
		return fit{}, false
	}

	majorSize := math.Sqrt(majorVal)
	minorSize := math.Sqrt(minorVal)

	if majorSize/minorSize > cfg.MaxAspect {
		return fit{}, false
	}
	if majorSize < cfg.MinSize || majorSize > cfg.MaxSize {
		return fit{}, false
	}

	orientation := math.Atan2(vectors.At(1, majorIdx), vectors.At(0, majorIdx))

	return fit{
		center:      Vec2{X: meanX, Y: meanY},
		size:        Vec2{X: majorSize, Y: minorSize},
		orientation: orientation,
	}, true
}
