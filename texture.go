package metatex

// WrapMode defines how a texture is sampled outside [0, 1].
type WrapMode int

const (
	// WrapRepeat tiles the texture (default).
	WrapRepeat WrapMode = iota
	// WrapClamp clamps coordinates to the edge texels.
	WrapClamp
	// WrapMirror tiles the texture, mirroring every other tile.
	WrapMirror
	// WrapMirrorOnce mirrors once around zero, then clamps.
	WrapMirrorOnce
)

// String returns the wrap mode name.
func (m WrapMode) String() string {
	switch m {
	case WrapRepeat:
		return "Repeat"
	case WrapClamp:
		return "Clamp"
	case WrapMirror:
		return "Mirror"
	case WrapMirrorOnce:
		return "MirrorOnce"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is a known wrap mode.
func (m WrapMode) Valid() bool {
	return m >= WrapRepeat && m <= WrapMirrorOnce
}

// FilterMode defines how texels are filtered when sampled.
type FilterMode int

const (
	// FilterPoint uses nearest-neighbor sampling.
	FilterPoint FilterMode = iota
	// FilterBilinear averages the four nearest texels (default).
	FilterBilinear
	// FilterTrilinear additionally blends between mip levels.
	FilterTrilinear
)

// String returns the filter mode name.
func (m FilterMode) String() string {
	switch m {
	case FilterPoint:
		return "Point"
	case FilterBilinear:
		return "Bilinear"
	case FilterTrilinear:
		return "Trilinear"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is a known filter mode.
func (m FilterMode) Valid() bool {
	return m >= FilterPoint && m <= FilterTrilinear
}

// MaxAnisotropy is the highest anisotropic filtering level a texture may
// request.
const MaxAnisotropy = 16
