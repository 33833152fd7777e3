// gsdctl is a small command-line tool for creating, inspecting, and
// batch-writing GSD trajectory files.
//
// Usage:
//
//	gsdctl create <path> [--application NAME] [--schema NAME] [--schema-version N]
//	gsdctl info <path>
//	gsdctl ls <path> [--prefix PREFIX]
//	gsdctl export <path> <frame> <chunk-name> <out-file>
//	gsdctl apply <path> <manifest.hujson>
package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printTopHelp(os.Stderr)
		return 2
	}

	cmd, rest := args[0], args[1:]

	var err error
	switch cmd {
	case "create":
		err = cmdCreate(os.Stdout, os.Stderr, rest)
	case "info":
		err = cmdInfo(os.Stdout, os.Stderr, rest)
	case "ls":
		err = cmdLs(os.Stdout, os.Stderr, rest)
	case "export":
		err = cmdExport(os.Stdout, os.Stderr, rest)
	case "apply":
		err = cmdApply(os.Stdout, os.Stderr, rest)
	case "-h", "--help", "help":
		printTopHelp(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "gsdctl: unknown command %q\n", cmd)
		printTopHelp(os.Stderr)
		return 2
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "gsdctl %s: %v\n", cmd, err)
		return 1
	}

	return 0
}

func printTopHelp(w *os.File) {
	fmt.Fprint(w, `Usage: gsdctl <command> [options]

Commands:
  create   Create a new GSD file
  info     Print header and frame-count info
  ls       List interned chunk names
  export   Write one chunk's payload to a file
  apply    Apply a batch-write manifest (.hujson) to a file
`)
}
