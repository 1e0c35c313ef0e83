package bc

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/metatex"
)

// Decode expands BC3 blocks back into a w×h pixmap.
func Decode(data []byte, w, h int) (*metatex.Pixmap, error) {
	pm, err := metatex.NewPixmap(w, h)
	if err != nil {
		return nil, err
	}
	if want := EncodedSize(w, h); len(data) != want {
		return nil, fmt.Errorf("%w: bc3 data holds %d bytes, want %d for %dx%d",
			metatex.ErrInvalidParameter, len(data), want, w, h)
	}

	bx, by := Blocks(w, h)
	var texels [16][4]uint8
	for row := 0; row < by; row++ {
		for col := 0; col < bx; col++ {
			off := (row*bx + col) * BlockSize
			decodeBlock(data[off:off+BlockSize], &texels)
			for j := 0; j < 4; j++ {
				y := row*4 + j
				if y >= h {
					break
				}
				for i := 0; i < 4; i++ {
					x := col*4 + i
					if x >= w {
						break
					}
					t := texels[j*4+i]
					pm.SetPixel(x, y, metatex.RGBA{
						R: float64(t[0]) / 255,
						G: float64(t[1]) / 255,
						B: float64(t[2]) / 255,
						A: float64(t[3]) / 255,
					})
				}
			}
		}
	}
	return pm, nil
}

func decodeBlock(src []byte, texels *[16][4]uint8) {
	alphas := alphaPalette(src[0], src[1])
	var abits uint64
	for i := 0; i < 6; i++ {
		abits |= uint64(src[2+i]) << (8 * i)
	}

	c0 := binary.LittleEndian.Uint16(src[8:])
	c1 := binary.LittleEndian.Uint16(src[10:])
	colors := colorPalette(c0, c1)
	cbits := binary.LittleEndian.Uint32(src[12:])

	for i := range texels {
		c := colors[(cbits>>(2*i))&0x3]
		texels[i] = [4]uint8{c[0], c[1], c[2], alphas[(abits>>(3*i))&0x7]}
	}
}
