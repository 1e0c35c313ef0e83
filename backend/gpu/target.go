package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/metatex"
	"github.com/gogpu/metatex/bake"
)

// bytesPerPixel is the size of one RGBA32Float texel.
const bytesPerPixel = 16

// copyPitchAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies.
const copyPitchAlignment = 256

// Target is an RGBA32F texture used as a bake target.
type Target struct {
	backend  *Backend
	label    string
	width    int
	height   int
	tex      hal.Texture
	view     hal.TextureView
	released bool
}

// AcquireTarget creates the target texture and its view. If view creation
// fails, the partially created target is returned with the error.
func (b *Backend) AcquireTarget(desc bake.TargetDescriptor) (bake.Target, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("gpu: invalid target size %dx%d", desc.Width, desc.Height)
	}
	if desc.DepthBits != 0 {
		return nil, fmt.Errorf("gpu: depth targets are not supported")
	}

	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label + "_bake_target",
		Size:          hal.Extent3D{Width: uint32(desc.Width), Height: uint32(desc.Height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create target texture: %w", err)
	}
	t := &Target{backend: b, label: desc.Label, width: desc.Width, height: desc.Height, tex: tex}

	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         desc.Label + "_bake_target_view",
		Format:        desc.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return t, fmt.Errorf("create target view: %w", err)
	}
	t.view = view
	return t, nil
}

// Width returns the target width in pixels.
func (t *Target) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *Target) Height() int { return t.height }

// Format returns RGBA32Float.
func (t *Target) Format() gputypes.TextureFormat { return bake.TargetFormat }

// Release destroys the texture and its view. It is safe to call more than
// once.
func (t *Target) Release() {
	if t.released {
		return
	}
	t.released = true
	if t.view != nil {
		t.backend.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.backend.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// Released reports whether Release was called.
func (t *Target) Released() bool { return t.released }

// ReadPixels copies the texture into a staging buffer, waits for the GPU
// and decodes the float texels.
func (t *Target) ReadPixels() (*metatex.Pixmap, error) {
	if t.released {
		return nil, ErrReleased
	}
	b := t.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	w, h := uint32(t.width), uint32(t.height)
	bytesPerRow := w * bytesPerPixel
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	stagingBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: t.label + "_bake_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer b.device.DestroyBuffer(stagingBuf)

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: t.label + "_bake_readback"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("bake_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(t.tex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	if err := b.submitAndWait(cmdBuf); err != nil {
		return nil, err
	}

	mapping, err := b.device.MapBuffer(stagingBuf, 0, stagingSize)
	if err != nil {
		return nil, fmt.Errorf("map staging buffer: %w", err)
	}
	raw := make([]byte, stagingSize)
	copy(raw, unsafe.Slice((*byte)(mapping.Ptr), stagingSize))
	if err := b.device.UnmapBuffer(stagingBuf); err != nil {
		return nil, fmt.Errorf("unmap staging buffer: %w", err)
	}

	return decodeRGBA32F(raw, t.width, t.height, int(alignedBytesPerRow))
}

// decodeRGBA32F converts tightly packed or row-padded little-endian
// RGBA32F texels into a pixmap.
func decodeRGBA32F(raw []byte, width, height, stride int) (*metatex.Pixmap, error) {
	if len(raw) < stride*(height-1)+width*bytesPerPixel {
		return nil, fmt.Errorf("gpu: readback holds %d bytes, too few for %dx%d", len(raw), width, height)
	}
	pm, err := metatex.NewPixmap(width, height)
	if err != nil {
		return nil, err
	}
	dst := pm.Pixels()
	for y := range height {
		row := raw[y*stride:]
		for x := range width {
			texel := row[x*bytesPerPixel:]
			dst[y*width+x] = metatex.RGBA{
				R: float64(math.Float32frombits(binary.LittleEndian.Uint32(texel[0:]))),
				G: float64(math.Float32frombits(binary.LittleEndian.Uint32(texel[4:]))),
				B: float64(math.Float32frombits(binary.LittleEndian.Uint32(texel[8:]))),
				A: float64(math.Float32frombits(binary.LittleEndian.Uint32(texel[12:]))),
			}
		}
	}
	return pm, nil
}

// submitAndWait submits one command buffer and blocks until the device is
// idle. Callers hold b.mu.
func (b *Backend) submitAndWait(cmdBuf hal.CommandBuffer) error {
	if _, err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := b.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	return nil
}

var _ bake.Target = (*Target)(nil)
