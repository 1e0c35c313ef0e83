// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	"github.com/gogpu/metatex"
	"github.com/gogpu/metatex/shader"
)

// BuiltinBlend names the bundled two-color blend program in description
// files.
const BuiltinBlend = "builtin:blend"

// shaders caches WGSL files compiled by description loading, so repeated
// loads of descriptions sharing a program parse it once.
var shaders = shader.NewCache(shader.DefaultCacheCapacity)

// fileDescription mirrors Description in JSON. Absent fields keep their
// DefaultDescription values.
type fileDescription struct {
	Width        *int            `json:"width"`
	Height       *int            `json:"height"`
	Kind         *string         `json:"kind"`
	Color        json.RawMessage `json:"color"`
	Color2       json.RawMessage `json:"color2"`
	Ramp         []fileStop      `json:"ramp"`
	CheckerCount *int            `json:"checkerCount"`
	Shader       string          `json:"shader"`
	Wrap         *string         `json:"wrap"`
	Filter       *string         `json:"filter"`
	Anisotropy   *int            `json:"anisotropy"`
	Compress     *bool           `json:"compress"`
}

type fileStop struct {
	Offset float64         `json:"offset"`
	Color  json.RawMessage `json:"color"`
}

// LoadDescriptionFile reads a JSON description from disk. Shader paths are
// resolved relative to the file's directory.
func LoadDescriptionFile(name string) (Description, error) {
	f, err := os.Open(name)
	if err != nil {
		return Description{}, err
	}
	defer f.Close()
	return LoadDescription(f, os.DirFS(filepath.Dir(name)))
}

// LoadDescription decodes a JSON description. Shader paths are read from
// fsys, which may be nil when the description uses no WGSL files.
//
// Enum names are matched case-insensitively, ignoring '_', '-' and spaces.
// Colors are hex strings ("#rrggbb", "#rrggbbaa", ...) or arrays of three or
// four numbers in [0, 1].
func LoadDescription(r io.Reader, fsys fs.FS) (Description, error) {
	var fd fileDescription
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fd); err != nil {
		return Description{}, fmt.Errorf("%w: decode description: %w", metatex.ErrInvalidParameter, err)
	}
	d := DefaultDescription()
	if err := fd.apply(&d, fsys); err != nil {
		return Description{}, err
	}
	return d, nil
}

func (fd *fileDescription) apply(d *Description, fsys fs.FS) error {
	setInt(&d.Width, fd.Width)
	setInt(&d.Height, fd.Height)
	setInt(&d.CheckerCount, fd.CheckerCount)
	setInt(&d.Anisotropy, fd.Anisotropy)
	if fd.Compress != nil {
		d.Compress = *fd.Compress
	}

	var err error
	if fd.Kind != nil {
		if d.Kind, err = parseEnum("kind", *fd.Kind, kindNames[:], Kind.Valid); err != nil {
			return err
		}
	}
	if fd.Wrap != nil {
		if d.Wrap, err = parseEnum("wrap mode", *fd.Wrap, wrapNames(), metatex.WrapMode.Valid); err != nil {
			return err
		}
	}
	if fd.Filter != nil {
		if d.Filter, err = parseEnum("filter mode", *fd.Filter, filterNames(), metatex.FilterMode.Valid); err != nil {
			return err
		}
	}

	if err := setColor(&d.Color, fd.Color, "color"); err != nil {
		return err
	}
	if err := setColor(&d.Color2, fd.Color2, "color2"); err != nil {
		return err
	}
	if fd.Ramp != nil {
		stops := make([]metatex.ColorStop, len(fd.Ramp))
		for i, s := range fd.Ramp {
			stops[i].Offset = s.Offset
			if err := setColor(&stops[i].Color, s.Color, fmt.Sprintf("ramp[%d]", i)); err != nil {
				return err
			}
		}
		d.Ramp = metatex.NewColorRamp(stops...)
	}

	if fd.Shader == "" {
		return nil
	}
	s, err := loadShader(fd.Shader, fsys)
	if err != nil {
		return err
	}
	switch d.Kind {
	case KindShaderProgram:
		d.Shader = s
	case KindMaterialProgram:
		d.Material = s.NewMaterial(s.Name())
	default:
		return fmt.Errorf("%w: shader given for kind %s", metatex.ErrInvalidParameter, d.Kind)
	}
	return nil
}

func loadShader(ref string, fsys fs.FS) (*shader.Shader, error) {
	if ref == BuiltinBlend {
		return shader.Blend()
	}
	if fsys == nil {
		return nil, fmt.Errorf("%w: shader %q: no file system to read from", metatex.ErrInvalidParameter, ref)
	}
	src, err := fs.ReadFile(fsys, path.Clean(ref))
	if err != nil {
		return nil, fmt.Errorf("%w: shader: %w", metatex.ErrInvalidParameter, err)
	}
	return shaders.Compile(strings.TrimSuffix(path.Base(ref), path.Ext(ref)), string(src))
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// foldName case-folds s and drops separators so "mirror_once",
// "Mirror Once" and "MIRRORONCE" compare equal. Casers are stateful, so
// each call builds its own.
func foldName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		}
		return r
	}, s)
	return cases.Fold().String(s)
}

// parseEnum maps name onto the index of a matching entry in names.
func parseEnum[E ~int](field, name string, names []string, valid func(E) bool) (E, error) {
	want := foldName(name)
	for i, n := range names {
		if foldName(n) == want && valid(E(i)) {
			return E(i), nil
		}
	}
	labels := make([]string, len(names))
	for i, n := range names {
		labels[i] = label(n)
	}
	return 0, fmt.Errorf("%w: unknown %s %q (want one of %s)",
		metatex.ErrInvalidParameter, field, name, strings.Join(labels, ", "))
}

func wrapNames() []string {
	var names []string
	for m := metatex.WrapMode(0); m.Valid(); m++ {
		names = append(names, m.String())
	}
	return names
}

func filterNames() []string {
	var names []string
	for m := metatex.FilterMode(0); m.Valid(); m++ {
		names = append(names, m.String())
	}
	return names
}

func setColor(dst *metatex.RGBA, raw json.RawMessage, field string) error {
	if len(raw) == 0 {
		return nil
	}
	var hex string
	if err := json.Unmarshal(raw, &hex); err == nil {
		c, ok := metatex.Hex(hex)
		if !ok {
			return fmt.Errorf("%w: %s: invalid hex color %q", metatex.ErrInvalidParameter, field, hex)
		}
		*dst = c
		return nil
	}
	var v []float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %s: want hex string or [r, g, b(, a)]", metatex.ErrInvalidParameter, field)
	}
	switch len(v) {
	case 3:
		*dst = metatex.RGB(v[0], v[1], v[2])
	case 4:
		*dst = metatex.RGBA{R: v[0], G: v[1], B: v[2], A: v[3]}
	default:
		return fmt.Errorf("%w: %s: want 3 or 4 components, got %d", metatex.ErrInvalidParameter, field, len(v))
	}
	return nil
}
