// Package contacts turns a normalized capacitive heatmap into a set of
// tracked, stability-classified finger/palm contacts.
package contacts

import "github.com/linux-surface/iptsd/internal/ipts"

// Heatmap is a normalized capacitive frame: cells in [0,1], with 1.0
// meaning the strongest contact. This is the inverse of the raw IPTS
// convention, where low raw values mean strong contact.
type Heatmap struct {
	Rows, Cols int
	cells      []float64
}

// Resize reshapes the heatmap buffer, reusing the backing array when the
// cell count doesn't grow.
func (h *Heatmap) Resize(rows, cols int) {
	h.Rows, h.Cols = rows, cols
	need := rows * cols
	if cap(h.cells) < need {
		h.cells = make([]float64, need)
	} else {
		h.cells = h.cells[:need]
	}
}

// At returns the cell value at (row, col).
func (h *Heatmap) At(row, col int) float64 {
	return h.cells[row*h.Cols+col]
}

// Set writes the cell value at (row, col).
func (h *Heatmap) Set(row, col int, v float64) {
	h.cells[row*h.Cols+col] = v
}

// Normalize maps a raw IPTS heatmap frame into this normalized buffer:
//
//	n_ij = 1 - (u_ij - z_min) / (z_max - z_min), clamped to [0,1]
//
// When z_max == z_min the frame carries no usable contrast and every
// cell is set to 0 (no contact).
func (h *Heatmap) Normalize(frame ipts.Heatmap) {
	h.Resize(int(frame.Height), int(frame.Width))

	zMin := float64(frame.ZMin)
	zRange := float64(frame.ZMax) - zMin

	if zRange == 0 {
		for i := range h.cells {
			h.cells[i] = 0
		}
		return
	}

	for i, raw := range frame.Data {
		n := 1 - (float64(raw)-zMin)/zRange
		if n < 0 {
			n = 0
		} else if n > 1 {
			n = 1
		}
		h.cells[i] = n
	}
}
