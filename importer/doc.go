// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package importer turns a texture Description into an Artifact.
//
// A Pipeline dispatches on the generator kind: the four direct kinds fill a
// pixmap through the metatex generators, the two program kinds bake a
// shading program through a bake.Backend. The result is post-processed
// (mipmaps and BC3 compression when requested) and returned together with
// its sampling metadata.
//
// # Program kinds
//
// KindShaderProgram instantiates a throwaway program from Description.Shader
// and releases it after the bake. KindMaterialProgram bakes the caller's
// Description.Material as is; bound parameters stay visible on it and the
// pipeline never releases it.
//
// A missing program on either path is not an error: the pipeline fills the
// texture with FallbackColor and logs a warning.
//
// # Description files
//
// LoadDescription reads a JSON description:
//
//	{
//	  "width": 256, "height": 256,
//	  "kind": "Checkerboard",
//	  "color": "#ffffff", "color2": [0, 0, 0, 1],
//	  "checkerCount": 8,
//	  "wrap": "repeat", "filter": "bilinear", "anisotropy": 1,
//	  "compress": true
//	}
//
// Program kinds name a WGSL file with "shader", or "builtin:blend" for the
// two-color blend program bundled with the shader package.
package importer
