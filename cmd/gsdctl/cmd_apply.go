package main

import (
	"fmt"
	"io"
	"os"

	"github.com/oywz99/gsd"
)

func cmdApply(out, errOut io.Writer, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: gsdctl apply <path> <manifest.hujson>")
	}

	path, manifestPath := args[0], args[1]

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return err
	}

	m, err := parseManifest(data)
	if err != nil {
		return err
	}

	mode, err := parseOpenMode(m.Mode)
	if err != nil {
		return err
	}

	h, err := gsd.Open(path, mode, gsd.Options{})
	if err != nil {
		return err
	}
	defer h.Close()

	for i, frame := range m.Frames {
		for _, chunk := range frame.Chunks {
			typ, data, err := chunk.decode()
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}

			if err := h.WriteChunk(chunk.Name, typ, chunk.N, chunk.M, 0, data); err != nil {
				return fmt.Errorf("frame %d: write chunk %q: %w", i, chunk.Name, err)
			}
		}

		if err := h.EndFrame(); err != nil {
			return fmt.Errorf("frame %d: end frame: %w", i, err)
		}
	}

	fmt.Fprintf(out, "applied %d frame(s) to %s\n", len(m.Frames), path)
	return nil
}

func parseOpenMode(s string) (gsd.OpenMode, error) {
	switch s {
	case "append":
		return gsd.Append, nil
	case "readwrite":
		return gsd.ReadWrite, nil
	default:
		return 0, fmt.Errorf("manifest mode %q must be %q or %q", s, "append", "readwrite")
	}
}
