package rec

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/cohvault/recfile"
	"github.com/cohvault/recfile/rectest"
)

func TestDecodeMinimal(t *testing.T) {
	b := rectest.Replay(rectest.Chunk("FOLD", "INFO", 1))
	replay, warn, err := Decoder{}.DecodeBytes(b)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if warn != nil {
		t.Errorf("unexpected warning: %s", warn)
	}
	if replay.Header.Version != 20297 || replay.Header.GameType != "COH2_REC" {
		t.Errorf("unexpected header %+v", replay.Header)
	}
	if replay.Header.Timestamp != "11/7/2015 1:16 AM" {
		t.Errorf("unexpected timestamp %q", replay.Header.Timestamp)
	}
	ch := replay.Chunky
	if ch.Magic != "Relic Chunky" || ch.Signature != 0x1A0A0D {
		t.Errorf("unexpected preamble %+v", ch)
	}
	if ch.MajorVersion != 3 || ch.MinorVersion != 1 || ch.ChunkOffset != 0x24 || ch.Reserved1 != 0x1C || ch.Reserved2 != 1 {
		t.Errorf("unexpected preamble fields %+v", ch)
	}
	if len(ch.Nodes) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(ch.Nodes))
	}
	folder, ok := ch.Nodes[0].(recfile.Folder)
	if !ok || len(folder.Nodes) != 0 {
		t.Errorf("expected empty folder, got %#v", ch.Nodes[0])
	}
	if replay.Size != int64(len(b)) {
		t.Errorf("expected size %d, got %d", len(b), replay.Size)
	}
}

func TestDecodeReplay(t *testing.T) {
	human := rectest.Player{
		Human:    1,
		Name:     "Ostheer Enjoyer",
		Team:     1,
		Faction:  "soviet",
		GameMode: "automatch",
		SteamID:  76561197960287930,
		Fixed1:   [][]byte{rectest.PlayerItem(1, 100, nil), rectest.PlayerItem(2, 200, nil), rectest.PlayerItem(3, 300, nil)},
		Fixed2:   [][]byte{rectest.PlayerItem(4, 400, nil), rectest.PlayerItem(5, 500, nil), rectest.PlayerItem(6, 600, nil)},
	}
	b := rectest.Replay(
		rectest.Chunk("FOLD", "INFO", 1,
			rectest.MapDescriptor("maps/pvp/2p_langres", "Langres", 2, 512, 512),
			rectest.MatchData(human, rectest.CPUPlayer("CPU - Expert", 0)),
		),
	)
	// Remaining bytes hold the tick stream.
	b = append(b, "\x01\x00\x00\x00tick"...)

	stats := &DecoderStats{}
	replay, warn, err := Decoder{Stats: stats}.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if warn != nil {
		t.Errorf("unexpected warning: %s", warn)
	}
	if replay.Size != int64(len(b)-8) {
		t.Errorf("expected size %d, got %d", len(b)-8, replay.Size)
	}

	players := replay.Chunky.Players()
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}
	if !players[0].IsHuman() || players[0].SteamID != human.SteamID || players[0].Name != human.Name {
		t.Errorf("unexpected player %+v", players[0])
	}
	if players[1].IsHuman() {
		t.Error("expected AI player")
	}
	desc, ok := replay.Chunky.MapDescriptor()
	if !ok || desc.MapName != "Langres" {
		t.Errorf("unexpected map descriptor %+v", desc)
	}

	if stats.Chunks["FOLDINFO"] != 1 || stats.Chunks["DATASDSC"] != 1 || stats.Chunks["DATADATA"] != 1 {
		t.Errorf("unexpected chunk stats %v", stats.Chunks)
	}
	if stats.Players != 2 {
		t.Errorf("expected 2 players in stats, got %d", stats.Players)
	}
	if stats.Items[recfile.ItemTypePlayer] != 6 || stats.Items[recfile.ItemTypeCPU] != 6 {
		t.Errorf("unexpected item stats %v", stats.Items)
	}
}

func TestDecodeStatsOnFailure(t *testing.T) {
	b := rectest.Replay(rectest.Chunk("FOLD", "INFO", 1,
		rectest.Chunk("FOLD", "NEST", 1),
		rectest.Chunk("DATA", "XXXX", 1),
	))
	stats := &DecoderStats{}
	if _, _, err := (Decoder{Stats: stats}).DecodeBytes(b); err == nil {
		t.Fatal("expected error")
	}
	if len(stats.Chunks) != 0 || len(stats.Items) != 0 || stats.Players != 0 {
		t.Errorf("expected empty stats after failed decode, got %+v", stats)
	}

	// Stats accumulate over successful decodes.
	good := rectest.Replay(rectest.Chunk("FOLD", "INFO", 1))
	d := Decoder{Stats: stats}
	for i := 0; i < 2; i++ {
		if _, _, err := d.DecodeBytes(good); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
	}
	if stats.Chunks["FOLDINFO"] != 2 || len(stats.Chunks) != 1 {
		t.Errorf("unexpected chunk stats %v", stats.Chunks)
	}
}

func TestDecodeConcurrent(t *testing.T) {
	b := rectest.Replay(rectest.Chunk("FOLD", "INFO", 1,
		rectest.MatchData(rectest.CPUPlayer("CPU - Easy", 0), rectest.CPUPlayer("CPU - Hard", 1)),
	))
	shared := Decoder{}
	var wg sync.WaitGroup
	errs := make([]error, 8)
	stats := make([]DecoderStats, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, _, err := shared.DecodeBytes(b); err != nil {
				errs[i] = err
				return
			}
			d := shared
			d.Stats = &stats[i]
			_, _, errs[i] = d.DecodeBytes(b)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Errorf("decode %d: unexpected error: %s", i, err)
			continue
		}
		if stats[i].Players != 2 || stats[i].Chunks["DATADATA"] != 1 || stats[i].Items[recfile.ItemTypeCPU] != 12 {
			t.Errorf("decode %d: unexpected stats %+v", i, stats[i])
		}
	}
}

func TestDecodePreambleCorruption(t *testing.T) {
	b := rectest.Replay(rectest.Chunk("FOLD", "INFO", 1))
	start := len(rectest.Header(20297, "11/7/2015 1:16 AM"))

	for i := 0; i < 24; i++ {
		c := make([]byte, len(b))
		copy(c, b)
		c[start+i] ^= 0xFF
		replay, _, err := Decoder{}.DecodeBytes(c)
		if replay != nil {
			t.Errorf("byte %d: expected nil replay", i)
		}
		if i < 12 {
			var terr TagError
			if !errors.As(err, &terr) {
				t.Errorf("byte %d: expected TagError, got %v", i, err)
			}
			continue
		}
		var cerr ConstraintError
		if !errors.As(err, &cerr) {
			t.Errorf("byte %d: expected ConstraintError, got %v", i, err)
			continue
		}
		if cerr.Offset != int64(start+i-i%4) {
			t.Errorf("byte %d: unexpected offset %d", i, cerr.Offset)
		}
	}
}

func TestDecodeHeaderErrors(t *testing.T) {
	b := rectest.Replay()
	b[0] = 1
	var cerr ConstraintError
	if _, _, err := (Decoder{}).DecodeBytes(b); !errors.As(err, &cerr) || cerr.Offset != 0 || cerr.Field != "header reserved" {
		t.Errorf("expected ConstraintError at 0, got %v", err)
	}

	// The version follows the reserved field.
	b = rectest.App(
		"\x00\x00\x49\x4F", "COH2_REC", rectest.UTF16Z("11/7/2015 1:16 AM"), make([]byte, 28),
		rectest.Preamble(3, 1), rectest.Chunk("FOLD", "INFO", 1),
	)
	replay, _, err := Decoder{}.DecodeBytes(b)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if replay.Header.Version != 20297 {
		t.Errorf("expected version 20297, got %d", replay.Header.Version)
	}

	b = rectest.Replay()
	copy(b[4:], "COH3_REC")
	var terr TagError
	if _, _, err := (Decoder{}).DecodeBytes(b); !errors.As(err, &terr) || terr.Found != "COH3_REC" {
		t.Errorf("expected TagError, got %v", err)
	}
	if _, _, err := (Decoder{GameTypes: []string{"COH2_REC", "COH3_REC"}}).DecodeBytes(b); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
	if _, _, err := (Decoder{GameTypes: []string{"COH3"}}).DecodeBytes(b); err == nil {
		t.Error("expected error for short game type")
	}

	var eof EOFError
	if _, _, err := (Decoder{}).DecodeBytes(b[:10]); !errors.As(err, &eof) {
		t.Errorf("expected EOFError, got %v", err)
	}
	if _, _, err := (Decoder{}).Decode(nil); err == nil {
		t.Error("expected error for nil reader")
	}
}

func TestDecodeVersions(t *testing.T) {
	header := rectest.Header(1, "")
	for _, v := range []Version{{3, 1}, {4, 1}} {
		b := rectest.App(header, rectest.Preamble(v.Major, v.Minor))
		replay, _, err := Decoder{}.DecodeBytes(b)
		if err != nil {
			t.Errorf("%v: unexpected error: %s", v, err)
			continue
		}
		if replay.Chunky.MajorVersion != v.Major || replay.Chunky.MinorVersion != v.Minor {
			t.Errorf("%v: version not kept: %+v", v, replay.Chunky)
		}
		if len(replay.Chunky.Nodes) != 0 {
			t.Errorf("%v: expected no chunks", v)
		}
	}

	// Minor versions are checked against their major version.
	b := rectest.App(header, rectest.Preamble(4, 2))
	var cerr ConstraintError
	if _, _, err := (Decoder{}).DecodeBytes(b); !errors.As(err, &cerr) || cerr.Field != "minor version" {
		t.Errorf("expected minor version error, got %v", err)
	}
	d := Decoder{Versions: []Version{{3, 1}, {4, 2}}}
	if _, _, err := d.DecodeBytes(b); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
	d = Decoder{Versions: []Version{{3, 1}}}
	if _, _, err := d.DecodeBytes(rectest.App(header, rectest.Preamble(4, 1))); !errors.As(err, &cerr) || cerr.Field != "major version" {
		t.Errorf("expected major version error, got %v", err)
	}
}

func TestDecodeWarnings(t *testing.T) {
	b := rectest.Replay(rectest.Chunk("FOLD", "INFO", 1), rectest.Chunk("DATA", "PLAS", 1))
	replay, warn, err := Decoder{}.DecodeBytes(b)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	var lw LengthWarning
	if !errors.As(warn, &lw) {
		t.Errorf("expected LengthWarning, got %v", warn)
	}
	if len(replay.Chunky.Nodes) != 1 || len(replay.Chunky.Nodes[0].Children()) != 1 {
		t.Errorf("expected folder to hold the following chunk")
	}
}

func TestDecodeChunkError(t *testing.T) {
	b := rectest.Replay(rectest.Chunk("FOLD", "INFO", 1, rectest.Chunk("DATA", "XXXX", 1)))
	replay, _, err := Decoder{}.DecodeBytes(b)
	if replay != nil {
		t.Error("expected nil replay")
	}
	var cerr ChunkError
	if !errors.As(err, &cerr) || cerr.Tag != "FOLDINFO" {
		t.Errorf("expected ChunkError for folder, got %v", err)
	}
	var verr VariantError
	if !errors.As(err, &verr) {
		t.Errorf("expected VariantError, got %v", err)
	}
}

func TestDecodeChunky(t *testing.T) {
	b := rectest.App(rectest.Preamble(3, 1), rectest.Chunk("DATA", "PLAS", 1, []byte{9}), "rest")
	ch, n, warn, err := Decoder{}.DecodeChunky(b)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if warn != nil {
		t.Errorf("unexpected warning: %s", warn)
	}
	if n != int64(len(b)-4) {
		t.Errorf("expected %d bytes, got %d", len(b)-4, n)
	}
	if len(recfile.Find(ch.Nodes, "DATAPLAS")) != 1 {
		t.Errorf("expected placed assets chunk")
	}
}
