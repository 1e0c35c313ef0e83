// Package mip builds mipmap chains for generated textures.
//
// Each level halves the previous one (rounding down, never below one
// pixel) and is resampled with a bilinear filter from golang.org/x/image.
package mip

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/metatex"
)

// LevelCount returns the number of levels in a full chain for a w×h base,
// including the base itself. It returns 0 for empty sizes.
func LevelCount(w, h int) int {
	if w <= 0 || h <= 0 {
		return 0
	}
	n := 1
	for w > 1 || h > 1 {
		w, h = max(1, w/2), max(1, h/2)
		n++
	}
	return n
}

// Chain returns base followed by every downsampled level down to 1×1.
// The base pixmap is shared, not copied.
func Chain(base *metatex.Pixmap) ([]*metatex.Pixmap, error) {
	if base == nil || base.Width() <= 0 || base.Height() <= 0 {
		return nil, fmt.Errorf("%w: mip chain of empty pixmap", metatex.ErrInvalidParameter)
	}
	levels := make([]*metatex.Pixmap, 0, LevelCount(base.Width(), base.Height()))
	levels = append(levels, base)
	for cur := base; cur.Width() > 1 || cur.Height() > 1; {
		next, err := Downsample(cur)
		if err != nil {
			return nil, err
		}
		levels = append(levels, next)
		cur = next
	}
	return levels, nil
}

// Downsample returns src scaled to half its size.
func Downsample(src *metatex.Pixmap) (*metatex.Pixmap, error) {
	if src == nil || src.Width() <= 0 || src.Height() <= 0 {
		return nil, fmt.Errorf("%w: downsample of empty pixmap", metatex.ErrInvalidParameter)
	}
	w, h := max(1, src.Width()/2), max(1, src.Height()/2)

	// Premultiplied destination so transparent texels do not bleed color.
	dst := image.NewRGBA64(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return metatex.FromImage(dst)
}
