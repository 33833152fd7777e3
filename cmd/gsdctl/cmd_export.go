package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/natefinch/atomic"
	"github.com/oywz99/gsd"
)

func cmdExport(out, errOut io.Writer, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: gsdctl export <path> <frame> <chunk-name> <out-file>")
	}

	path, frameArg, name, outPath := args[0], args[1], args[2], args[3]

	frame, err := strconv.ParseUint(frameArg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid frame %q: %w", frameArg, err)
	}

	h, err := gsd.Open(path, gsd.ReadOnly, gsd.Options{})
	if err != nil {
		return err
	}
	defer h.Close()

	entry, ok, err := h.FindChunk(frame, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("chunk %q not found at frame %d", name, frame)
	}

	size := entry.N * uint64(entry.M) * uint64(gsd.SizeofType(entry.Type))
	buf := make([]byte, size)
	if err := h.ReadChunk(buf, entry); err != nil {
		return err
	}

	// Write the exported payload atomically: readers of outPath never see a
	// partially written file, even if gsdctl is killed mid-write.
	if err := atomic.WriteFile(outPath, bytes.NewReader(buf)); err != nil {
		return err
	}

	fmt.Fprintf(out, "exported %d bytes to %s\n", len(buf), outPath)
	return nil
}
