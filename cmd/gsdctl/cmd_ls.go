package main

import (
	"fmt"
	"io"

	"github.com/oywz99/gsd"
	flag "github.com/spf13/pflag"
)

func cmdLs(out, errOut io.Writer, args []string) error {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.SetOutput(errOut)
	prefix := fs.String("prefix", "", "only list chunk names with this prefix")

	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) != 1 {
		return fmt.Errorf("usage: gsdctl ls <path> [--prefix PREFIX]")
	}

	h, err := gsd.Open(rest[0], gsd.ReadOnly, gsd.Options{})
	if err != nil {
		return err
	}
	defer h.Close()

	cursor := -1
	for {
		next, name, ok := h.FindMatchingChunkName(*prefix, cursor)
		if !ok {
			break
		}
		fmt.Fprintln(out, name)
		cursor = next
	}

	return nil
}
