package metatex

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// Pixmap is a rectangular buffer of straight-alpha RGBA pixels stored in
// row-major order with float64 channels.
//
// A Pixmap always satisfies len(Pixels()) == Width()*Height(). It is owned by
// whoever created it until it is handed off inside an import artifact.
type Pixmap struct {
	width  int
	height int
	pix    []RGBA
}

// NewPixmap creates a transparent pixmap with the given dimensions.
// Returns ErrInvalidParameter if either dimension is not positive.
func NewPixmap(width, height int) (*Pixmap, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	return &Pixmap{
		width:  width,
		height: height,
		pix:    make([]RGBA, width*height),
	}, nil
}

func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidParameter, width, height)
	}
	return nil
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Pixels returns the row-major pixel slice. The slice shares memory with the
// pixmap.
func (p *Pixmap) Pixels() []RGBA {
	return p.pix
}

// SetPixel sets the color of a single pixel.
// Out-of-bounds coordinates are ignored.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	p.pix[y*p.width+x] = c
}

// GetPixel returns the color of a single pixel.
// Out-of-bounds coordinates return Transparent.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	return p.pix[y*p.width+x]
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c RGBA) {
	for i := range p.pix {
		p.pix[i] = c
	}
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	pix := make([]RGBA, len(p.pix))
	copy(pix, p.pix)
	return &Pixmap{width: p.width, height: p.height, pix: pix}
}

// Equal reports whether both pixmaps have the same size and identical pixels.
func (p *Pixmap) Equal(other *Pixmap) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.width != other.width || p.height != other.height {
		return false
	}
	for i, c := range p.pix {
		if other.pix[i] != c {
			return false
		}
	}
	return true
}

// ToImage converts the pixmap to an 8-bit straight-alpha image.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	for i, c := range p.pix {
		n := c.NRGBA()
		img.Pix[i*4+0] = n.R
		img.Pix[i*4+1] = n.G
		img.Pix[i*4+2] = n.B
		img.Pix[i*4+3] = n.A
	}
	return img
}

// FromImage creates a pixmap from an image.
func FromImage(img image.Image) (*Pixmap, error) {
	bounds := img.Bounds()
	pm, err := NewPixmap(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	for y := 0; y < pm.height; y++ {
		for x := 0; x < pm.width; x++ {
			pm.pix[y*pm.width+x] = FromColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return pm, nil
}

// EncodePNG writes the pixmap as an 8-bit PNG.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	return png.Encode(w, p.ToImage())
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := p.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y)
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBA64Model
}
