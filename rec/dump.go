package rec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"github.com/cohvault/recfile"
	"github.com/cohvault/recfile/errors"
)

// Dump writes to w a readable representation of the replay decoded from r.
func (d Decoder) Dump(w io.Writer, r io.Reader) (warn, err error) {
	if r == nil {
		return nil, errors.New("nil reader")
	}
	if w == nil {
		return nil, errors.New("nil writer")
	}

	replay, warn, err := d.Decode(r)
	if err != nil {
		return warn, err
	}

	bw := bufio.NewWriter(w)
	DumpReplay(bw, replay)
	return warn, bw.Flush()
}

// DumpReplay writes to w a readable representation of replay.
func DumpReplay(w *bufio.Writer, replay *recfile.Replay) {
	fmt.Fprintf(w, "Version: %d", replay.Header.Version)
	w.WriteString("\nGameType: ")
	dumpString(w, 0, replay.Header.GameType)
	w.WriteString("\nTimestamp: ")
	dumpString(w, 0, replay.Header.Timestamp)
	fmt.Fprintf(w, "\nChunky: %d.%d", replay.Chunky.MajorVersion, replay.Chunky.MinorVersion)
	fmt.Fprintf(w, "\nChunkOffset: %d", replay.Chunky.ChunkOffset)
	fmt.Fprintf(w, "\nReserved: 0x%X 0x%X", replay.Chunky.Reserved1, replay.Chunky.Reserved2)
	fmt.Fprintf(w, "\nSize: %d", replay.Size)
	w.WriteString("\nChunks: {")
	for i, node := range replay.Chunky.Nodes {
		dumpNode(w, 1, i, node)
	}
	w.WriteString("\n}\n")
}

func dumpNode(w *bufio.Writer, indent, i int, node recfile.Node) {
	h := node.Header()
	dumpNewline(w, indent)
	fmt.Fprintf(w, "#%d: ", i)
	dumpSig(w, h.Tag())
	w.WriteString(" {")
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "Version: %d", h.Version)
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "Length: %d", h.Length)
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "NameLength: %d", h.NameLength)
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "MinVersion: %d", h.MinVersion)
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "Flags: 0x%X", h.Flags)

	switch node := node.(type) {
	case recfile.Folder:
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Children: (count:%d) {", len(node.Nodes))
		for i, child := range node.Nodes {
			dumpNode(w, indent+2, i, child)
		}
		dumpNewline(w, indent+1)
		w.WriteByte('}')
	case recfile.MapDescriptor:
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Unknown: %d %d %d %d %d %d %d",
			node.Unknown1, node.Unknown2, node.Unknown3, node.Unknown4,
			node.Unknown5, node.Unknown6, node.Unknown7,
		)
		dumpField(w, indent+1, "MapFile", node.MapFile)
		dumpNewline(w, indent+1)
		w.WriteString("UnknownData1: ")
		dumpBytes(w, indent+1, node.UnknownData1[:])
		dumpField(w, indent+1, "MapName", node.MapName)
		dumpField(w, indent+1, "LongDescription", node.LongDescription)
		dumpField(w, indent+1, "ShortDescription", node.ShortDescription)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "MapPlayers: %d", node.MapPlayers)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "MapSize: %dx%d", node.MapWidth, node.MapHeight)
		dumpNewline(w, indent+1)
		w.WriteString("UnknownData2: ")
		dumpBytes(w, indent+1, node.UnknownData2[:])
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Unknown8: %d", node.Unknown8)
		dumpNewline(w, indent+1)
		w.WriteString("UnknownData3: ")
		dumpBytes(w, indent+1, node.UnknownData3[:])
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Unknown9: %d", node.Unknown9)
		dumpField(w, indent+1, "Trailing", node.Trailing)
	case recfile.SimpleMatchData:
		dumpNewline(w, indent+1)
		w.WriteString("Data: ")
		dumpBytes(w, indent+1, node.Data)
	case recfile.ComplexMatchData:
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "OpponentType: %d", node.OpponentType)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Unknown: %d %d %d", node.Unknown1, node.Unknown2, node.Unknown3)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "RNGSeed: %d", node.RNGSeed)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Players: (count:%d) {", len(node.Players))
		for i, p := range node.Players {
			dumpPlayer(w, indent+2, i, p)
		}
		dumpNewline(w, indent+1)
		w.WriteByte('}')
	case recfile.PlacedAssets:
		dumpNewline(w, indent+1)
		w.WriteString("<structure not known>")
		dumpNewline(w, indent+1)
		w.WriteString("Data: ")
		dumpBytes(w, indent+1, node.Data)
	}
	dumpNewline(w, indent)
	w.WriteByte('}')
}

func dumpPlayer(w *bufio.Writer, indent, i int, p recfile.Player) {
	dumpNewline(w, indent)
	fmt.Fprintf(w, "#%d: {", i)
	dumpField(w, indent+1, "Name", p.Name)
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "Human: %d", p.Human)
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "Team: %d", p.Team)
	dumpField(w, indent+1, "Faction", p.Faction)
	dumpField(w, indent+1, "GameMode", p.GameMode)
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "SteamID: %d", p.SteamID)
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "Unknown: %d %d %d %d %d %d %d %d %d %d %d %d",
		p.Unknown2, p.Unknown3, p.Unknown4, p.Unknown5, p.Unknown6, p.Unknown7,
		p.Unknown8, p.Unknown9, p.Unknown10, p.Unknown11, p.Unknown12, p.Unknown13,
	)
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "Items: (count:%d) {", len(p.Items))
	for i, item := range p.Items {
		dumpNewline(w, indent+2)
		fmt.Fprintf(w, "%d: ", i)
		switch item := item.(type) {
		case recfile.PlayerItem:
			fmt.Fprintf(w, "Player (0x%X) selection:%d server:%d unknown:%d %d buffer:",
				item.ItemType(), item.SelectionID, item.ServerID, item.Unknown1, item.Unknown2,
			)
			dumpBytes(w, indent+2, item.Buffer)
		case recfile.SpecialPlayerItem:
			fmt.Fprintf(w, "Special (0x%X) unknown:%d %d data:", item.ItemType(), item.Unknown1, item.Unknown2)
			dumpBytes(w, indent+2, item.Data[:])
		case recfile.CPUItem:
			fmt.Fprintf(w, "CPU (0x%X) unknown:%d %d", item.ItemType(), item.Unknown1, item.Unknown2)
		}
	}
	dumpNewline(w, indent+1)
	w.WriteByte('}')
	dumpNewline(w, indent)
	w.WriteByte('}')
}

func dumpField(w *bufio.Writer, indent int, name, s string) {
	dumpNewline(w, indent)
	w.WriteString(name)
	w.WriteString(": ")
	dumpString(w, indent, s)
}

func dumpNewline(w *bufio.Writer, indent int) {
	w.WriteByte('\n')
	for i := 0; i < indent; i++ {
		w.WriteByte('\t')
	}
}

func dumpSig(w *bufio.Writer, sig string) {
	for i := 0; i < len(sig); i++ {
		if c := sig[i]; 32 <= c && c <= 126 {
			w.WriteByte(c)
		} else {
			w.WriteByte('.')
		}
	}
	fmt.Fprintf(w, " (% 02X)", []byte(sig))
}

func dumpString(w *bufio.Writer, indent int, s string) {
	for _, r := range s {
		if !unicode.IsGraphic(r) {
			dumpBytes(w, indent, []byte(s))
			return
		}
	}
	fmt.Fprintf(w, "(len:%d) ", len(s))
	w.WriteString(strconv.Quote(s))
}

func dumpBytes(w *bufio.Writer, indent int, b []byte) {
	fmt.Fprintf(w, "(len:%d)", len(b))
	const width = 16
	for j := 0; j < len(b); j += width {
		dumpNewline(w, indent+1)
		w.WriteString("| ")
		for i := j; i < j+width; {
			if i < len(b) {
				s := strconv.FormatUint(uint64(b[i]), 16)
				if len(s) == 1 {
					w.WriteString("0")
				}
				w.WriteString(s)
			} else if len(b) < width {
				break
			} else {
				w.WriteString("  ")
			}
			i++
			if i%8 == 0 && i < j+width {
				w.WriteString("  ")
			} else {
				w.WriteString(" ")
			}
		}
		w.WriteString("|")
		n := len(b)
		if j+width < n {
			n = j + width
		}
		for i := j; i < n; i++ {
			if 32 <= b[i] && b[i] <= 126 {
				w.WriteRune(rune(b[i]))
			} else {
				w.WriteByte('.')
			}
		}
		w.WriteByte('|')
	}
}
