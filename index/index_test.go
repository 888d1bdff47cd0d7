package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	recerrors "github.com/cohvault/recfile/errors"
	"github.com/cohvault/recfile/rec"
	"github.com/cohvault/recfile/recio"
	"github.com/cohvault/recfile/rectest"
)

const steamID = 76561197960287930

func openDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %s", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func replay(mapName string) []byte {
	human := rectest.CPUPlayer("Human", 1)
	human.Human = 1
	human.SteamID = steamID
	return rectest.Replay(
		rectest.Chunk("FOLD", "INFO", 1,
			rectest.MapDescriptor("maps/pvp/"+mapName, mapName, 2, 512, 256),
			rectest.MatchData(human, rectest.CPUPlayer("CPU", 0)),
		),
	)
}

func entry(t *testing.T, path string, b []byte) Entry {
	t.Helper()
	r, _, err := rec.Decoder{}.DecodeBytes(b)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}
	return NewEntry(path, recio.Digest(b), r)
}

func TestNewEntry(t *testing.T) {
	e := entry(t, "a.rec", replay("Langres"))
	if len(e.Digest) != 64 {
		t.Errorf("unexpected digest %q", e.Digest)
	}
	if e.Version != 20297 || e.GameType != "COH2_REC" || e.ChunkyMajor != 3 || e.ChunkyMinor != 1 {
		t.Errorf("unexpected header fields %+v", e)
	}
	if e.MapName != "Langres" || e.MapFile != "maps/pvp/Langres" || e.MapWidth != 512 || e.MapHeight != 256 {
		t.Errorf("unexpected map fields %+v", e)
	}
	if len(e.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(e.Players))
	}
	want := Player{Name: "Human", Team: 1, Faction: "german", SteamID: steamID, Human: true, Items: 6}
	if e.Players[0] != want {
		t.Errorf("expected %+v, got %+v", want, e.Players[0])
	}
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	want := entry(t, "a.rec", replay("Langres"))
	if err := db.Put(ctx, want); err != nil {
		t.Fatalf("put: %s", err)
	}
	// Replacing an entry replaces its players.
	if err := db.Put(ctx, want); err != nil {
		t.Fatalf("put: %s", err)
	}

	got, ok, err := db.Get(ctx, want.Digest)
	if err != nil || !ok {
		t.Fatalf("get: %v %v", ok, err)
	}
	if got.Path != want.Path || got.MapName != want.MapName || got.Size != want.Size || got.Version != want.Version {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if len(got.Players) != len(want.Players) {
		t.Fatalf("expected %d players, got %d", len(want.Players), len(got.Players))
	}
	for i := range want.Players {
		if got.Players[i] != want.Players[i] {
			t.Errorf("player %d: expected %+v, got %+v", i, want.Players[i], got.Players[i])
		}
	}

	if _, ok, err := db.Get(ctx, "missing"); ok || err != nil {
		t.Errorf("expected no entry, got %v %v", ok, err)
	}
	if n, err := db.Count(ctx); err != nil || n != 1 {
		t.Errorf("expected 1 entry, got %d %v", n, err)
	}
}

func TestFindBySteamID(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	for _, name := range []string{"Langres", "Kholodny", "Minsk"} {
		if err := db.Put(ctx, entry(t, name+".rec", replay(name))); err != nil {
			t.Fatalf("put: %s", err)
		}
	}
	entries, err := db.FindBySteamID(ctx, steamID)
	if err != nil {
		t.Fatalf("find: %s", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Digest >= entries[i].Digest {
			t.Error("expected entries ordered by digest")
		}
	}
	if entries, err := db.FindBySteamID(ctx, 1); err != nil || len(entries) != 0 {
		t.Errorf("expected no entries, got %d %v", len(entries), err)
	}
}

func TestIndexerRun(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	write := func(name string, b []byte) string {
		path := filepath.Join(dir, name)
		if err := recio.WriteFile(path, b); err != nil {
			t.Fatalf("write: %s", err)
		}
		return path
	}
	paths := []string{
		write("a.rec", replay("Langres")),
		write("b.rec.lz4", replay("Kholodny")),
		write("copy.rec", replay("Langres")),
		write("bad.rec", []byte("not a replay")),
		filepath.Join(dir, "missing.rec"),
	}

	db := openDB(t)
	ix := &Indexer{DB: db, Workers: 1}
	results, err := ix.Run(ctx, paths)
	if err != nil {
		t.Fatalf("run: %s", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}
	for i, r := range results[:2] {
		if r.Err != nil || r.Entry == nil || r.Skipped {
			t.Errorf("result %d: unexpected %+v", i, r)
		}
	}
	if !results[2].Skipped || results[2].Digest != results[0].Digest {
		t.Errorf("expected copy to be skipped, got %+v", results[2])
	}
	if results[3].Err == nil {
		t.Error("expected decode error")
	}
	if _, statErr := os.Stat(paths[4]); statErr == nil || results[4].Err == nil {
		t.Error("expected read error")
	}
	if n, err := db.Count(ctx); err != nil || n != 2 {
		t.Errorf("expected 2 entries, got %d %v", n, err)
	}
	errs, ok := Err(results).(recerrors.Errors)
	if !ok || len(errs) != 2 {
		t.Errorf("expected 2 combined errors, got %v", Err(results))
	} else if !strings.HasPrefix(errs[0].Error(), paths[3]+": ") {
		t.Errorf("expected error to name its file, got %q", errs[0])
	}

	// A second run skips everything already indexed.
	results, err = (&Indexer{DB: db}).Run(ctx, paths[:2])
	if err != nil {
		t.Fatalf("run: %s", err)
	}
	for i, r := range results {
		if !r.Skipped {
			t.Errorf("result %d: expected skip, got %+v", i, r)
		}
	}
	if Err(results) != nil {
		t.Errorf("unexpected error: %v", Err(results))
	}
}

func TestIndexerRunCopies(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b := replay("Langres")
	paths := make([]string, 8)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("copy%d.rec", i))
		if err := recio.WriteFile(paths[i], b); err != nil {
			t.Fatalf("write: %s", err)
		}
	}

	db := openDB(t)
	results, err := (&Indexer{DB: db, Workers: len(paths)}).Run(ctx, paths)
	if err != nil {
		t.Fatalf("run: %s", err)
	}
	var added *Result
	for i := range results {
		r := &results[i]
		switch {
		case r.Err != nil:
			t.Errorf("result %d: unexpected error: %s", i, r.Err)
		case r.Entry != nil:
			if added != nil {
				t.Errorf("result %d: replay added twice", i)
			}
			added = r
		case !r.Skipped:
			t.Errorf("result %d: expected skip, got %+v", i, r)
		}
	}
	if added == nil {
		t.Fatal("expected one file to be added")
	}
	e, ok, err := db.Get(ctx, added.Digest)
	if err != nil || !ok || e.Path != added.Path {
		t.Errorf("expected entry from %s, got %+v %v", added.Path, e, err)
	}
}

func TestIndexerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ix := &Indexer{DB: openDB(t)}
	if _, err := ix.Run(ctx, []string{"a.rec"}); err == nil {
		t.Error("expected error from cancelled context")
	}
}
