// The recfile-pack command compresses a replay file into a bundle, or
// decompresses a bundle.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cohvault/recfile/rec"
	"github.com/cohvault/recfile/recio"
)

const usage = `usage: recfile-pack [-d] [INPUT] [OUTPUT]

Reads a replay file from INPUT, and writes to OUTPUT the replay compressed as
an LZ4 bundle. With -d, INPUT is a bundle, and the decompressed replay is
written instead. The replay is decoded to verify it before it is written.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.

Options:
`

func main() {
	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout

	decompress := flag.Bool("d", false, "Decompress a bundle.")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	args := flag.Args()
	if len(args) >= 1 && args[0] != "-" {
		in, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("open input: %w", err))
			return
		}
		input = in
		defer in.Close()
	}

	b, err := io.ReadAll(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("read input: %w", err))
		return
	}
	replay := b
	if *decompress {
		if replay, err = recio.Decompress(b); err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("error: %w", err))
			return
		}
	}

	_, warn, err := rec.Decoder{}.DecodeBytes(replay)
	if warn != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("warning: %w", warn))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("error: %w", err))
		return
	}

	result := replay
	if !*decompress {
		if result, err = recio.Compress(replay); err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("error: %w", err))
			return
		}
	}

	if len(args) >= 2 && args[1] != "-" {
		out, err := os.Create(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("create output: %w", err))
			return
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
	if _, err := output.Write(result); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("write output: %w", err))
	}
}
