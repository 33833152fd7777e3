// gsdsh is an interactive shell for browsing an existing GSD file: listing
// frames, listing interned chunk names, and dumping a chunk's shape and raw
// bytes. It opens the file read-only and never mutates it.
//
// Usage:
//
//	gsdsh <path>
//
// Commands (in the shell):
//
//	frames                 Print the number of committed frames
//	ls [prefix]            List interned chunk names, optionally filtered
//	show <frame> <name>    Print a chunk's shape and type
//	dump <frame> <name>    Print a chunk's raw bytes in hex
//	info                   Print header fields
//	help                   Show this help
//	exit / quit / q        Exit
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/oywz99/gsd"
	"github.com/peterh/liner"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: gsdsh <path>")
		os.Exit(2)
	}

	h, err := gsd.Open(os.Args[1], gsd.ReadOnly, gsd.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "gsdsh: %v\n", err)
		os.Exit(1)
	}
	defer h.Close()

	shell := &shell{path: os.Args[1], h: h}
	if err := shell.run(); err != nil {
		fmt.Fprintf(os.Stderr, "gsdsh: %v\n", err)
		os.Exit(1)
	}
}

type shell struct {
	path  string
	h     *gsd.Handle
	liner *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gsdsh_history")
}

func (s *shell) run() error {
	s.liner = liner.NewLiner()
	defer s.liner.Close()

	s.liner.SetCtrlCAborts(true)
	s.liner.SetCompleter(s.completer)

	if f, err := os.Open(historyFile()); err == nil {
		s.liner.ReadHistory(f)
		f.Close()
	}

	nframes, _ := s.h.NFrames()
	fmt.Printf("gsdsh - browsing %s (%d frames)\n", s.path, nframes)
	fmt.Println("Type 'help' for available commands.")

	for {
		line, err := s.liner.Prompt("gsdsh> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			s.saveHistory()
			return nil
		case "help", "?":
			s.printHelp()
		case "frames":
			s.cmdFrames()
		case "ls":
			s.cmdLs(args)
		case "show":
			s.cmdShow(args)
		case "dump":
			s.cmdDump(args)
		case "info":
			s.cmdInfo()
		default:
			fmt.Printf("unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	s.saveHistory()
	return nil
}

func (s *shell) saveHistory() {
	path := historyFile()
	if path == "" {
		return
	}
	if f, err := os.Create(path); err == nil {
		s.liner.WriteHistory(f)
		f.Close()
	}
}

func (s *shell) completer(line string) []string {
	cmds := []string{"frames", "ls", "show", "dump", "info", "help", "exit"}
	var out []string
	for _, c := range cmds {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

func (s *shell) printHelp() {
	fmt.Print(`frames                 Print the number of committed frames
ls [prefix]            List interned chunk names, optionally filtered
show <frame> <name>    Print a chunk's shape and type
dump <frame> <name>    Print a chunk's raw bytes in hex
info                   Print header fields
help                   Show this help
exit / quit / q        Exit
`)
}

func (s *shell) cmdFrames() {
	n, err := s.h.NFrames()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(n)
}

func (s *shell) cmdInfo() {
	fmt.Printf("application:    %s\n", s.h.Application())
	fmt.Printf("schema:         %s\n", s.h.Schema())
	fmt.Printf("schema_version: %d\n", s.h.SchemaVersion())
}

func (s *shell) cmdLs(args []string) {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}

	cursor := -1
	for {
		next, name, ok := s.h.FindMatchingChunkName(prefix, cursor)
		if !ok {
			break
		}
		fmt.Println(name)
		cursor = next
	}
}

func (s *shell) cmdShow(args []string) {
	e, ok, err := s.lookup(args)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if !ok {
		fmt.Println("not found")
		return
	}
	fmt.Printf("frame=%d N=%d M=%d type=%d location=%d\n", e.Frame, e.N, e.M, e.Type, e.Location)
}

func (s *shell) cmdDump(args []string) {
	e, ok, err := s.lookup(args)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if !ok {
		fmt.Println("not found")
		return
	}

	size := e.N * uint64(e.M) * uint64(gsd.SizeofType(e.Type))
	buf := make([]byte, size)
	if err := s.h.ReadChunk(buf, e); err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("%d bytes: % x\n", len(buf), buf)
}

func (s *shell) lookup(args []string) (gsd.Entry, bool, error) {
	if len(args) != 2 {
		return gsd.Entry{}, false, fmt.Errorf("usage: <frame> <name>")
	}

	frame, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return gsd.Entry{}, false, fmt.Errorf("invalid frame %q: %w", args[0], err)
	}

	return s.h.FindChunk(frame, args[1])
}
