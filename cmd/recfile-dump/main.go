// The recfile-dump command displays the contents of a replay file.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cohvault/recfile"
	"github.com/cohvault/recfile/rec"
	"github.com/cohvault/recfile/recio"
)

const usage = `usage: recfile-dump [-json] [-stats] [INPUT] [OUTPUT]

Reads a replay file from INPUT, and writes to OUTPUT a readable representation
of the header and chunks of the replay. If INPUT has the .lz4 extension, it is
decompressed first.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.

Options:
`

// Stats is written with the -stats flag.
type Stats struct {
	// Decoder statistics.
	Format rec.DecoderStats

	// Number of bytes in the input.
	InputSize int

	// Number of bytes occupied by the header and chunks.
	ReplaySize int64

	// Number of chunks overall.
	ChunkCount int
}

func read(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return recio.ReadFile(path)
}

func main() {
	var output io.Writer = os.Stdout

	asJSON := flag.Bool("json", false, "Write the decoded replay as JSON.")
	asStats := flag.Bool("stats", false, "Write statistics about the replay as JSON.")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	args := flag.Args()

	var input string
	if len(args) >= 1 {
		input = args[0]
	}
	b, err := read(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("read input: %w", err))
		os.Exit(1)
	}

	if len(args) >= 2 && args[1] != "-" {
		out, err := os.Create(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("create output: %w", err))
			os.Exit(1)
		}
		defer out.Close()
		defer func() {
			err := out.Sync()
			if err != nil {
				fmt.Fprintln(os.Stderr, fmt.Errorf("sync output: %w", err))
				return
			}
		}()
		output = out
	}

	stats := Stats{InputSize: len(b)}
	replay, warn, err := rec.Decoder{Stats: &stats.Format}.DecodeBytes(b)
	if warn != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("decode warning: %w", warn))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("decode error: %w", err))
		return
	}

	switch {
	case *asStats:
		stats.ReplaySize = replay.Size
		stats.ChunkCount = recfile.Count(replay.Chunky.Nodes)
		err = writeJSON(output, stats)
	case *asJSON:
		err = writeJSON(output, replay)
	default:
		w := bufio.NewWriter(output)
		rec.DumpReplay(w, replay)
		err = w.Flush()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("write error: %w", err))
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	je := json.NewEncoder(w)
	je.SetEscapeHTML(false)
	je.SetIndent("", "\t")
	return je.Encode(v)
}
