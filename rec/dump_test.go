package rec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cohvault/recfile/rectest"
)

func TestDump(t *testing.T) {
	b := rectest.Replay(
		rectest.Chunk("FOLD", "INFO", 1,
			rectest.MapDescriptor("maps/pvp/2p_langres", "Langres", 2, 512, 256),
			rectest.MatchData(rectest.CPUPlayer("CPU - Easy", 1)),
			rectest.Chunk("DATA", "PLAS", 1, []byte("asset")),
		),
	)
	var w bytes.Buffer
	warn, err := Decoder{}.Dump(&w, bytes.NewReader(b))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if warn != nil {
		t.Errorf("unexpected warning: %s", warn)
	}
	out := w.String()
	for _, want := range []string{
		"Version: 20297\n",
		"GameType: (len:8) \"COH2_REC\"",
		"Chunky: 3.1",
		"#0: FOLDINFO (46 4F 4C 44 49 4E 46 4F) {",
		"MapName: (len:7) \"Langres\"",
		"MapSize: 512x256",
		"Name: (len:10) \"CPU - Easy\"",
		"Items: (count:6) {",
		"CPU (0x1) unknown:1 5",
		"<structure not known>",
		"|asset|",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if !strings.HasSuffix(out, "\n}\n") {
		t.Error("expected output to be terminated")
	}
}

func TestDumpErrors(t *testing.T) {
	var w bytes.Buffer
	if _, err := (Decoder{}).Dump(&w, bytes.NewReader([]byte("garbage"))); err == nil {
		t.Error("expected error")
	}
	if w.Len() != 0 {
		t.Error("expected nothing written on error")
	}
	if _, err := (Decoder{}).Dump(nil, bytes.NewReader(nil)); err == nil {
		t.Error("expected error for nil writer")
	}
}
