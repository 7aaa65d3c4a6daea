package render

import (
	"image/color"

	"grainfall/internal/material"
)

// fillRegionRGBA converts the cell rectangle [x0,x1)x[y0,y1) of a row-major
// grid into RGBA pixels. dst holds the rectangle's pixels with the given
// byte stride and its first pixel at cell (x0, y0). A cell whose index is
// outside the palette paints as the void color: a stale index degrades to
// empty on screen the same way it does in the simulation.
func fillRegionRGBA(dst []byte, stride int, cells []material.Index, gridW, x0, y0, x1, y1 int, palette []color.RGBA) {
	if len(palette) == 0 {
		for y := y0; y < y1; y++ {
			row := (y - y0) * stride
			for x := x0; x < x1; x++ {
				base := row + (x-x0)*4
				dst[base+0] = 0
				dst[base+1] = 0
				dst[base+2] = 0
				dst[base+3] = 0
			}
		}
		return
	}

	void := palette[material.Void]
	for y := y0; y < y1; y++ {
		row := (y - y0) * stride
		src := y * gridW
		for x := x0; x < x1; x++ {
			col := void
			if idx := int(cells[src+x]); idx < len(palette) {
				col = palette[idx]
			}
			base := row + (x-x0)*4
			dst[base+0] = col.R
			dst[base+1] = col.G
			dst[base+2] = col.B
			dst[base+3] = col.A
		}
	}
}
