// The recfile-index command adds replay files to an index, and queries the
// index.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/cohvault/recfile/index"
	"github.com/cohvault/recfile/recio"
	"github.com/joho/godotenv"
)

const usage = `usage: recfile-index [-db PATH] [-workers N] FILE...
       recfile-index [-db PATH] -steam ID

Adds each replay FILE to the index. A FILE that is a directory adds every
replay within it. Files with the .lz4 extension are decompressed first.

With -steam, the index is not modified, and the replays with a player of the
given steam id are written to stdout as JSON.

Defaults are read from the RECFILE_INDEX_DB and RECFILE_WORKERS environment
variables, which may be set in a .env file.

Options:
`

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}

	defaultDB := os.Getenv("RECFILE_INDEX_DB")
	if defaultDB == "" {
		defaultDB = "replays.db"
	}
	defaultWorkers, _ := strconv.Atoi(os.Getenv("RECFILE_WORKERS"))

	dbPath := flag.String("db", defaultDB, "Path to the index database.")
	workers := flag.Int("workers", defaultWorkers, "Number of files indexed at once. Defaults to the number of CPUs.")
	steamID := flag.Uint64("steam", 0, "Find replays with a player of this steam id.")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := index.Open(*dbPath)
	if err != nil {
		log.Fatalf("open index: %v", err)
	}
	defer db.Close()

	if *steamID != 0 {
		entries, err := db.FindBySteamID(ctx, *steamID)
		if err != nil {
			log.Fatalf("find: %v", err)
		}
		je := json.NewEncoder(os.Stdout)
		je.SetEscapeHTML(false)
		je.SetIndent("", "\t")
		if err := je.Encode(entries); err != nil {
			log.Fatalf("write: %v", err)
		}
		return
	}

	paths, err := expand(flag.Args())
	if err != nil {
		log.Fatalf("list files: %v", err)
	}
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ix := &index.Indexer{DB: db, Workers: *workers}
	results, err := ix.Run(ctx, paths)
	var added, skipped, failed int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
		case r.Skipped:
			skipped++
		case r.Entry != nil:
			added++
			if r.Warn != nil {
				log.Printf("%s: warning: %v", r.Path, r.Warn)
			}
		}
	}
	if ferr := index.Err(results); ferr != nil {
		log.Print(ferr)
	}
	if err != nil {
		log.Printf("stopped: %v", err)
	}
	total, cerr := db.Count(ctx)
	if cerr != nil {
		log.Fatalf("count: %v", cerr)
	}
	log.Printf("added %d, skipped %d, failed %d; %d replays indexed", added, skipped, failed, total)
	if failed > 0 || err != nil {
		os.Exit(1)
	}
}

// expand replaces each directory in args with the replay files it contains.
func expand(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if filepath.Ext(path) == ".rec" || recio.IsBundle(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}
