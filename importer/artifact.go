// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package importer

import "github.com/gogpu/metatex"

// Artifact is the imported texture: pixels plus sampling metadata.
type Artifact struct {
	// Pixels is mip level 0. For compressed artifacts it holds the decoded
	// BC3 data, so it shows the compression loss.
	Pixels *metatex.Pixmap

	// Mipmaps holds every level, level 0 first. Nil unless HasMipmaps.
	Mipmaps []*metatex.Pixmap
	// Blocks holds the BC3 blocks of each mip level. Nil unless IsCompressed.
	Blocks [][]byte

	Wrap       metatex.WrapMode
	Filter     metatex.FilterMode
	Anisotropy int

	HasMipmaps   bool
	IsCompressed bool
}

// Width returns the width of level 0.
func (a *Artifact) Width() int { return a.Pixels.Width() }

// Height returns the height of level 0.
func (a *Artifact) Height() int { return a.Pixels.Height() }

// Levels returns the number of mip levels.
func (a *Artifact) Levels() int {
	if !a.HasMipmaps {
		return 1
	}
	return len(a.Mipmaps)
}
