package terrain

import "math"

// chamfer computes, for every node, an approximation of the euclidean distance to the closest cliff node using a
// two-pass 8-neighbour chamfer transform. Nodes are +Inf away if there are no cliffs at all.
func chamfer(cliffs []bool, w, h int) []float64 {
	d := make([]float64, len(cliffs))
	for i, c := range cliffs {
		if c {
			d[i] = 0
		} else {
			d[i] = math.Inf(1)
		}
	}
	relax := func(i, x, y int, cost float64) {
		if x < 0 || y < 0 || x >= w || y >= h {
			return
		}
		if v := d[y*w+x] + cost; v < d[i] {
			d[i] = v
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			relax(i, x-1, y, 1)
			relax(i, x, y-1, 1)
			relax(i, x-1, y-1, math.Sqrt2)
			relax(i, x+1, y-1, math.Sqrt2)
		}
	}
	for y := h - 1; y >= 0; y-- {
		for x := w - 1; x >= 0; x-- {
			i := y*w + x
			relax(i, x+1, y, 1)
			relax(i, x, y+1, 1)
			relax(i, x+1, y+1, math.Sqrt2)
			relax(i, x-1, y+1, math.Sqrt2)
		}
	}
	return d
}
