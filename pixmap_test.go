package metatex

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
)

func TestNewPixmap(t *testing.T) {
	pm, err := NewPixmap(3, 2)
	if err != nil {
		t.Fatalf("NewPixmap: %v", err)
	}
	if pm.Width() != 3 || pm.Height() != 2 {
		t.Errorf("size = %dx%d, want 3x2", pm.Width(), pm.Height())
	}
	if len(pm.Pixels()) != 6 {
		t.Errorf("len(Pixels()) = %d, want 6", len(pm.Pixels()))
	}
	for i, c := range pm.Pixels() {
		if c != Transparent {
			t.Fatalf("pixel %d = %v, want transparent", i, c)
		}
	}
}

func TestNewPixmapInvalidDimensions(t *testing.T) {
	for _, d := range [][2]int{{0, 1}, {1, 0}, {-1, 5}, {5, -1}, {0, 0}} {
		_, err := NewPixmap(d[0], d[1])
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("NewPixmap(%d, %d) error = %v, want ErrInvalidParameter", d[0], d[1], err)
		}
	}
}

func TestPixmapSetGetPixel(t *testing.T) {
	pm, _ := NewPixmap(4, 4)
	c := RGBA{0.1, 0.2, 0.3, 0.4}
	pm.SetPixel(2, 1, c)

	if got := pm.GetPixel(2, 1); got != c {
		t.Errorf("GetPixel(2, 1) = %v, want %v", got, c)
	}
	if got := pm.Pixels()[1*4+2]; got != c {
		t.Errorf("row-major storage mismatch: got %v", got)
	}

	// Out of bounds: ignored on write, transparent on read.
	for _, p := range []struct{ x, y int }{{-1, 0}, {4, 0}, {0, -1}, {0, 4}} {
		pm.SetPixel(p.x, p.y, Red)
		if got := pm.GetPixel(p.x, p.y); got != Transparent {
			t.Errorf("GetPixel(%d, %d) = %v, want transparent", p.x, p.y, got)
		}
	}
}

func TestPixmapCloneAndEqual(t *testing.T) {
	pm, _ := NewPixmap(2, 2)
	pm.Clear(Blue)
	clone := pm.Clone()
	if !pm.Equal(clone) {
		t.Fatal("clone not equal to original")
	}
	clone.SetPixel(0, 0, Red)
	if pm.Equal(clone) {
		t.Error("modifying clone affected equality with original")
	}
	if pm.GetPixel(0, 0) != Blue {
		t.Error("clone shares storage with original")
	}

	other, _ := NewPixmap(2, 3)
	if pm.Equal(other) {
		t.Error("pixmaps of different size reported equal")
	}
}

func TestPixmapImageRoundTrip(t *testing.T) {
	pm, _ := NewPixmap(5, 3)
	if err := FillCheckerboard(pm, White, Black, 2); err != nil {
		t.Fatal(err)
	}

	var _ image.Image = pm

	var buf bytes.Buffer
	if err := pm.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	back, err := FromImage(img)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if !pm.Equal(back) {
		t.Error("PNG round trip changed pixels of an exactly representable image")
	}
}
