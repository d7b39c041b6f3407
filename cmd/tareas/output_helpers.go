package main

import (
	"encoding/json"
	"io"
	"os"

	"golang.org/x/term"
)

const defaultOutputWidth = 80

func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// outputWidth returns the terminal width of stdout, or a default when
// stdout is not a terminal.
func outputWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultOutputWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width < 20 {
		return defaultOutputWidth
	}
	return width
}
