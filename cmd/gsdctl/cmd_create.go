package main

import (
	"fmt"
	"io"

	"github.com/oywz99/gsd"
	flag "github.com/spf13/pflag"
)

func cmdCreate(out, errOut io.Writer, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(errOut)

	p, profileErr := loadProfile()
	if profileErr != nil {
		fmt.Fprintf(errOut, "warning: could not load profile: %v\n", profileErr)
	}

	application := fs.String("application", p.Application, "producer-defined application string")
	schema := fs.String("schema", p.Schema, "producer-defined schema string")
	schemaVersion := fs.Uint32("schema-version", 1, "producer-defined schema version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) != 1 {
		return fmt.Errorf("usage: gsdctl create <path> [options]")
	}

	if err := gsd.Create(rest[0], *application, *schema, *schemaVersion); err != nil {
		return err
	}

	fmt.Fprintf(out, "created %s\n", rest[0])
	return nil
}
