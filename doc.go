// Package metatex generates procedural textures.
//
// # Overview
//
// A texture is described by its dimensions, a generator and a sampling
// policy. The root package holds the pixel-level building blocks:
//   - Pixmap: a row-major buffer of straight-alpha float RGBA pixels
//   - ColorRamp: color stops evaluated by normalized position
//   - FillSolid, FillLinearGradient, FillRadialGradient, FillCheckerboard:
//     the direct generators
//
// Shading programs are baked through the bake package, which drives a
// rendering backend (backend/software for the CPU, backend/gpu for wgpu
// devices). The importer package ties everything together: it turns a
// Description into an Artifact carrying pixels, mipmaps, optional block
// compression and wrap/filter metadata.
//
// # Quick Start
//
//	desc := importer.DefaultDescription()
//	desc.Width, desc.Height = 256, 256
//	desc.Kind = importer.KindRadialGradient
//	desc.Ramp = metatex.TwoColorRamp(metatex.White, metatex.Black)
//
//	art, err := importer.New().Import(desc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	art.Pixels.SavePNG("radial.png")
//
// # Coordinate System
//
// Origin (0,0) is the top-left pixel, X increases right, Y increases down.
// Generators use integer pixel coordinates, not pixel centers.
//
// # Errors
//
// Failures wrap one of the sentinel errors ErrInvalidParameter,
// ErrMissingProgram, ErrBackendRender or ErrTargetAcquire; match them with
// errors.Is.
package metatex

// Version is the current version of the library.
const Version = "0.1.0"
