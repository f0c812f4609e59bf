package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/bibfield/format"
)

// openInput opens path, or stdin when path is "" or "-". The returned
// close function is never nil.
func openInput(path string) (io.Reader, string, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdin, "stdin", func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", nil, fmt.Errorf("opening input file: %w", err)
	}
	return f, path, f.Close, nil
}

// openOutput creates path, or returns stdout when path is "".
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}

// argOrStdin returns the first argument, or all of r with one trailing
// newline removed when there are no arguments.
func argOrStdin(args []string, r io.Reader) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

// resolveParser returns the parser for name. For "auto" the format is
// detected from the input name and its content, and the returned reader
// replays the bytes consumed for detection.
func resolveParser(name, inputName string, input io.Reader) (format.Parser, io.Reader, error) {
	if name != "auto" {
		p, err := format.GetParser(name)
		if err != nil {
			return nil, nil, fmt.Errorf("unknown source format %q: %w", name, err)
		}
		return p, input, nil
	}

	data, err := io.ReadAll(input)
	if err != nil {
		return nil, nil, fmt.Errorf("reading input: %w", err)
	}
	peek := data
	if len(peek) > detectPeekSize {
		peek = peek[:detectPeekSize]
	}
	f, err := format.DetectFormat(inputName, peek)
	if err != nil {
		return nil, nil, err
	}
	p, err := format.GetParser(f.Name())
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("detected input format", "format", f.Name(), "source", inputName)
	return p, bytes.NewReader(data), nil
}

const detectPeekSize = 4096
