// Command metatex generates a procedural texture from a JSON description.
//
// Usage:
//
//	metatex -in desc.json -out texture.png [-blocks texture.bc3] [-backend software] [-v]
//
// Without -in the default description (a 512×512 checkerboard) is used.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/metatex"
	"github.com/gogpu/metatex/backend"
	_ "github.com/gogpu/metatex/backend/software"
	"github.com/gogpu/metatex/importer"
)

func main() {
	var (
		input   = flag.String("in", "", "description file (JSON)")
		output  = flag.String("out", "texture.png", "output PNG file (mip level 0)")
		blocks  = flag.String("blocks", "", "write the BC3 blocks of every mip level to this file")
		name    = flag.String("backend", backend.NameSoftware, "bake backend for program kinds: "+strings.Join(backend.Available(), ", "))
		verbose = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *verbose {
		metatex.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	desc := importer.DefaultDescription()
	if *input != "" {
		var err error
		if desc, err = importer.LoadDescriptionFile(*input); err != nil {
			log.Fatalf("Failed to load %s: %v", *input, err)
		}
	}

	if err := run(desc, *name, *output, *blocks); err != nil {
		log.Fatal(err)
	}
}

func run(desc importer.Description, backendName, output, blocksPath string) error {
	var opts []importer.Option
	if desc.Kind.IsProgram() {
		b, err := backend.Get(backendName)
		if err != nil {
			return fmt.Errorf("backend %q: %w", backendName, err)
		}
		defer backend.Close(b)
		opts = append(opts, importer.WithBackend(b))
	}

	p := importer.New(opts...)
	defer p.Close()

	art, err := p.Import(desc)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if err := art.Pixels.SavePNG(output); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	log.Printf("Texture saved to %s (%dx%d, %s, %d mip levels)\n",
		output, art.Width(), art.Height(), desc.Kind.Label(), art.Levels())

	if blocksPath == "" {
		return nil
	}
	if !art.IsCompressed {
		return fmt.Errorf("-blocks needs a description with \"compress\": true")
	}
	var buf bytes.Buffer
	for _, lvl := range art.Blocks {
		buf.Write(lvl)
	}
	if err := os.WriteFile(blocksPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write blocks: %w", err)
	}
	log.Printf("BC3 blocks saved to %s (%d bytes)\n", blocksPath, buf.Len())
	return nil
}
