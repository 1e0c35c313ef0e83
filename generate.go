package metatex

import (
	"fmt"
	"math"
)

// This file holds the direct generators. Each one overwrites every pixel of
// a pre-allocated pixmap, is deterministic and allocates nothing beyond the
// sorted copy of a ramp's stops.

// FillSolid sets every pixel of p to c.
func FillSolid(p *Pixmap, c RGBA) error {
	if err := checkTarget(p); err != nil {
		return err
	}
	p.Clear(c)
	return nil
}

// FillLinearGradient fills p with a horizontal gradient:
// pixel(x, y) = ramp(x / (W-1)), or ramp(0) for single-column images.
// The vertical position never affects the color.
func FillLinearGradient(p *Pixmap, ramp ColorRamp) error {
	if err := checkTarget(p); err != nil {
		return err
	}
	ramp = ramp.sorted()

	// Evaluate one row, then replicate it.
	row := p.pix[:p.width]
	for x := range row {
		t := 0.0
		if p.width > 1 {
			t = float64(x) / float64(p.width-1)
		}
		row[x] = ramp.evaluateSorted(t)
	}
	for y := 1; y < p.height; y++ {
		copy(p.pix[y*p.width:(y+1)*p.width], row)
	}
	return nil
}

// FillRadialGradient fills p with a radial gradient centered at (W/2, H/2).
//
// Distances are measured from integer pixel coordinates and normalized by
// the distance from the origin (0, 0) to the center, so t reaches 1 at the
// top-left corner and exceeds it (clamping to the last stop) beyond that
// radius.
func FillRadialGradient(p *Pixmap, ramp ColorRamp) error {
	if err := checkTarget(p); err != nil {
		return err
	}
	ramp = ramp.sorted()

	cx := float64(p.width) / 2
	cy := float64(p.height) / 2
	maxDist := math.Hypot(cx, cy)

	for y := 0; y < p.height; y++ {
		dy := float64(y) - cy
		for x := 0; x < p.width; x++ {
			dist := math.Hypot(float64(x)-cx, dy)
			p.pix[y*p.width+x] = ramp.evaluateSorted(dist / maxDist)
		}
	}
	return nil
}

// FillCheckerboard divides each axis into count cells and alternates c1 and
// c2, starting with c1 in the top-left cell. Cell indices use integer
// division: cellX = x*count/W, cellY = y*count/H.
//
// Returns ErrInvalidParameter if count < 1.
func FillCheckerboard(p *Pixmap, c1, c2 RGBA, count int) error {
	if err := checkTarget(p); err != nil {
		return err
	}
	if count < 1 {
		return fmt.Errorf("%w: checker count %d", ErrInvalidParameter, count)
	}

	for y := 0; y < p.height; y++ {
		cy := y * count / p.height
		for x := 0; x < p.width; x++ {
			cx := x * count / p.width
			c := c2
			if (cx+cy)%2 == 0 {
				c = c1
			}
			p.pix[y*p.width+x] = c
		}
	}
	return nil
}

// checkTarget validates the pixmap handed to a generator.
func checkTarget(p *Pixmap) error {
	if p == nil {
		return fmt.Errorf("%w: nil pixmap", ErrInvalidParameter)
	}
	if err := checkDimensions(p.width, p.height); err != nil {
		return err
	}
	if len(p.pix) != p.width*p.height {
		return fmt.Errorf("%w: pixmap holds %d pixels, want %d", ErrInvalidParameter, len(p.pix), p.width*p.height)
	}
	return nil
}
