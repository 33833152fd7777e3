package main

import (
	"fmt"
	"io"

	"github.com/oywz99/gsd"
)

func cmdInfo(out, errOut io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: gsdctl info <path>")
	}

	h, err := gsd.Open(args[0], gsd.ReadOnly, gsd.Options{})
	if err != nil {
		return err
	}
	defer h.Close()

	nframes, err := h.NFrames()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "path:           %s\n", args[0])
	fmt.Fprintf(out, "application:    %s\n", h.Application())
	fmt.Fprintf(out, "schema:         %s\n", h.Schema())
	fmt.Fprintf(out, "schema_version: %d\n", h.SchemaVersion())
	fmt.Fprintf(out, "frames:         %d\n", nframes)

	return nil
}
