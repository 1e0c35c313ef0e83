// Package bc implements BC3 (DXT5) block compression.
//
// A BC3 block covers 4×4 texels in 16 bytes: an 8-byte interpolated alpha
// block followed by an 8-byte RGB565 color block. Images whose sides are
// not multiples of four are padded by repeating the edge texels.
package bc

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/metatex"
	"github.com/gogpu/metatex/internal/parallel"
)

// BlockSize is the size of one encoded BC3 block in bytes.
const BlockSize = 16

// Blocks returns the number of blocks along each axis for a w×h image.
func Blocks(w, h int) (bx, by int) {
	return (w + 3) / 4, (h + 3) / 4
}

// EncodedSize returns the byte size of a w×h image encoded as BC3.
func EncodedSize(w, h int) int {
	bx, by := Blocks(w, h)
	return bx * by * BlockSize
}

// Encode compresses p into BC3 blocks in row-major block order.
// A non-nil pool encodes block rows in parallel.
func Encode(p *metatex.Pixmap, pool *parallel.WorkerPool) ([]byte, error) {
	if p == nil || p.Width() <= 0 || p.Height() <= 0 {
		return nil, fmt.Errorf("%w: bc3 encode of empty pixmap", metatex.ErrInvalidParameter)
	}
	w, h := p.Width(), p.Height()
	bx, by := Blocks(w, h)
	out := make([]byte, bx*by*BlockSize)

	encodeRows := func(lo, hi int) error {
		var texels [16][4]uint8
		for row := lo; row < hi; row++ {
			for col := 0; col < bx; col++ {
				gatherBlock(p, col*4, row*4, &texels)
				off := (row*bx + col) * BlockSize
				encodeBlock(&texels, out[off:off+BlockSize])
			}
		}
		return nil
	}

	if pool == nil {
		_ = encodeRows(0, by)
		return out, nil
	}
	if err := pool.ForEachBand(by, encodeRows); err != nil {
		return nil, err
	}
	return out, nil
}

// gatherBlock reads the 4×4 texels at (x0, y0), clamping to the edges.
func gatherBlock(p *metatex.Pixmap, x0, y0 int, texels *[16][4]uint8) {
	w, h := p.Width(), p.Height()
	for j := 0; j < 4; j++ {
		y := min(y0+j, h-1)
		for i := 0; i < 4; i++ {
			x := min(x0+i, w-1)
			n := p.GetPixel(x, y).NRGBA()
			texels[j*4+i] = [4]uint8{n.R, n.G, n.B, n.A}
		}
	}
}

func encodeBlock(texels *[16][4]uint8, dst []byte) {
	encodeAlpha(texels, dst[:8])
	encodeColor(texels, dst[8:16])
}

func encodeAlpha(texels *[16][4]uint8, dst []byte) {
	lo, hi := uint8(255), uint8(0)
	for _, t := range texels {
		lo = min(lo, t[3])
		hi = max(hi, t[3])
	}
	dst[0], dst[1] = hi, lo

	var bits uint64
	if hi != lo {
		palette := alphaPalette(hi, lo)
		for i, t := range texels {
			bits |= uint64(nearestAlpha(&palette, t[3])) << (3 * i)
		}
	}
	for i := 0; i < 6; i++ {
		dst[2+i] = uint8(bits >> (8 * i))
	}
}

func nearestAlpha(palette *[8]uint8, a uint8) int {
	best, bestDist := 0, 256
	for i, v := range palette {
		if d := absDiff(int(v), int(a)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func encodeColor(texels *[16][4]uint8, dst []byte) {
	minC := [3]uint8{255, 255, 255}
	maxC := [3]uint8{}
	for _, t := range texels {
		for c := 0; c < 3; c++ {
			minC[c] = min(minC[c], t[c])
			maxC[c] = max(maxC[c], t[c])
		}
	}
	c0, c1 := pack565(maxC), pack565(minC)
	binary.LittleEndian.PutUint16(dst[0:], c0)
	binary.LittleEndian.PutUint16(dst[2:], c1)

	var bits uint32
	if c0 != c1 {
		palette := colorPalette(c0, c1)
		for i, t := range texels {
			bits |= uint32(nearestColor(&palette, t)) << (2 * i)
		}
	}
	binary.LittleEndian.PutUint32(dst[4:], bits)
}

func nearestColor(palette *[4][3]uint8, t [4]uint8) int {
	best, bestDist := 0, 1<<30
	for i, p := range palette {
		d := 0
		for c := 0; c < 3; c++ {
			v := absDiff(int(p[c]), int(t[c]))
			d += v * v
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// alphaPalette expands the alpha endpoints into the eight BC3 levels.
func alphaPalette(a0, a1 uint8) [8]uint8 {
	p := [8]uint8{a0, a1}
	if a0 > a1 {
		for i := 1; i < 7; i++ {
			p[i+1] = uint8(((7-i)*int(a0) + i*int(a1)) / 7)
		}
	} else {
		for i := 1; i < 5; i++ {
			p[i+1] = uint8(((5-i)*int(a0) + i*int(a1)) / 5)
		}
		p[6], p[7] = 0, 255
	}
	return p
}

// colorPalette expands the RGB565 endpoints into the four BC1 colors.
func colorPalette(c0, c1 uint16) [4][3]uint8 {
	e0, e1 := unpack565(c0), unpack565(c1)
	var p [4][3]uint8
	p[0], p[1] = e0, e1
	for c := 0; c < 3; c++ {
		if c0 > c1 {
			p[2][c] = uint8((2*int(e0[c]) + int(e1[c])) / 3)
			p[3][c] = uint8((int(e0[c]) + 2*int(e1[c])) / 3)
		} else {
			p[2][c] = uint8((int(e0[c]) + int(e1[c])) / 2)
		}
	}
	return p
}

func pack565(c [3]uint8) uint16 {
	r := (uint16(c[0])*31 + 127) / 255
	g := (uint16(c[1])*63 + 127) / 255
	b := (uint16(c[2])*31 + 127) / 255
	return r<<11 | g<<5 | b
}

func unpack565(v uint16) [3]uint8 {
	r := uint8(v >> 11 & 0x1f)
	g := uint8(v >> 5 & 0x3f)
	b := uint8(v & 0x1f)
	return [3]uint8{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
