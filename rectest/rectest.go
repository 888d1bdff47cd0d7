// The rectest package builds synthetic replay files for tests.
package rectest

import (
	"encoding/binary"
	"unicode/utf16"
	"unicode/utf8"
)

// UTF8 is appended as a string prefixed by its length in bytes.
type UTF8 string

// UTF16 is appended as a UTF-16 string prefixed by its length in code units.
type UTF16 string

// UTF16Z is appended as a null-terminated UTF-16 string.
type UTF16Z string

// App concatenates values into a byte slice. Strings and byte slices are
// appended as is, and a rune is appended as UTF-8. An int or byte is appended
// as a single byte. Sized integers are appended in little-endian order.
func App(vs ...interface{}) []byte {
	var b []byte
	for _, v := range vs {
		switch v := v.(type) {
		case string:
			b = append(b, v...)
		case []byte:
			b = append(b, v...)
		case byte:
			b = append(b, v)
		case rune:
			b = utf8.AppendRune(b, v)
		case int:
			b = append(b, byte(v))
		case uint16:
			b = binary.LittleEndian.AppendUint16(b, v)
		case uint32:
			b = binary.LittleEndian.AppendUint32(b, v)
		case uint64:
			b = binary.LittleEndian.AppendUint64(b, v)
		case UTF8:
			b = binary.LittleEndian.AppendUint32(b, uint32(len(v)))
			b = append(b, v...)
		case UTF16:
			units := utf16.Encode([]rune(string(v)))
			b = binary.LittleEndian.AppendUint32(b, uint32(len(units)))
			for _, u := range units {
				b = binary.LittleEndian.AppendUint16(b, u)
			}
		case UTF16Z:
			for _, u := range utf16.Encode([]rune(string(v))) {
				b = binary.LittleEndian.AppendUint16(b, u)
			}
			b = append(b, 0, 0)
		default:
			panic("rectest: unsupported value type")
		}
	}
	return b
}

////////////////////////////////////////////////////////////////

const (
	GameType  = "COH2_REC"
	Magic     = "Relic Chunky"
	Signature = uint32(0x1A0A0D)
)

// Header returns a replay header followed by 28 bytes of padding.
func Header(version uint16, timestamp string) []byte {
	return App(uint16(0), version, GameType, UTF16Z(timestamp), make([]byte, 28))
}

// Preamble returns the start of a Chunky container of the given version.
func Preamble(major, minor uint32) []byte {
	return App(Magic, Signature, major, minor, uint32(0x24), uint32(0x1C), uint32(0x1))
}

// Chunk returns a chunk with the given kind, type and version. The length of
// the chunk is the length of body.
func Chunk(kind, typ string, version uint32, body ...[]byte) []byte {
	var content []byte
	for _, b := range body {
		content = append(content, b...)
	}
	return App(kind, typ, version, uint32(len(content)), uint32(0), uint32(version), uint32(0), content)
}

// Replay returns a complete replay containing the given chunks.
func Replay(chunks ...[]byte) []byte {
	b := App(Header(20297, "11/7/2015 1:16 AM"), Preamble(3, 1))
	for _, c := range chunks {
		b = append(b, c...)
	}
	return b
}

////////////////////////////////////////////////////////////////

// CPUItem returns an item of an AI player.
func CPUItem(unknown1 uint8, unknown2 uint32) []byte {
	return App(uint16(0x1), unknown1, unknown2)
}

// PlayerItem returns an item of a human player.
func PlayerItem(selectionID, serverID uint32, buffer []byte) []byte {
	return App(uint16(0x109), selectionID, uint32(0), serverID, uint32(0), uint16(len(buffer)), buffer)
}

// SpecialItem returns a special item.
func SpecialItem(data [16]byte, unknown1 uint32, unknown2 uint8) []byte {
	return App(uint16(0x216), data[:], unknown1, unknown2)
}

// Player describes a player record.
type Player struct {
	Human    uint8
	Name     string
	Team     uint32
	Faction  string
	GameMode string
	SteamID  uint64

	// Fixed1 and Fixed2 each hold encoded items, normally three.
	Fixed1 [][]byte
	Fixed2 [][]byte

	// Counted1 and Counted2 hold encoded items, prefixed by their count.
	Counted1 [][]byte
	Counted2 [][]byte
}

// Bytes encodes the player record.
func (p Player) Bytes() []byte {
	b := App(
		p.Human, UTF16(p.Name), p.Team, UTF8(p.Faction),
		uint32(5), uint32(0), UTF8(p.GameMode),
		uint32(0), uint32(0), uint32(0), uint32(5), uint16(1),
	)
	for _, item := range p.Fixed1 {
		b = append(b, item...)
	}
	b = App(b, uint16(1), ^uint64(0), p.SteamID)
	for _, item := range p.Fixed2 {
		b = append(b, item...)
	}
	b = App(b, uint32(len(p.Counted1)))
	for _, item := range p.Counted1 {
		b = append(b, item...)
	}
	b = App(b, uint32(len(p.Counted2)))
	for _, item := range p.Counted2 {
		b = append(b, item...)
	}
	return App(b, uint32(0), uint32(0), uint32(0))
}

// CPUPlayer returns an AI player whose fixed lists hold CPU items numbered
// from zero, so that item order can be checked.
func CPUPlayer(name string, team uint32) Player {
	p := Player{Name: name, Team: team, Faction: "german", GameMode: "skirmish"}
	for i := 0; i < 3; i++ {
		p.Fixed1 = append(p.Fixed1, CPUItem(1, uint32(i)))
		p.Fixed2 = append(p.Fixed2, CPUItem(1, uint32(3+i)))
	}
	return p
}

// MatchData returns a version 2 match data chunk holding the given players.
func MatchData(players ...Player) []byte {
	body := App(uint32(1), uint32(0), uint32(0), uint16(0), uint32(12345), uint32(len(players)))
	for _, p := range players {
		body = append(body, p.Bytes()...)
	}
	return Chunk("DATA", "DATA", 2, body)
}

// MapDescriptor returns a map descriptor chunk.
func MapDescriptor(file, name string, players, width, height uint32) []byte {
	body := App(
		uint32(0), uint32(0), uint32(1), uint32(3), uint32(0), uint32(0), uint32(0),
		UTF8(file), make([]byte, 16),
		UTF16(name), UTF16("long "+name), UTF16("short "+name),
		players, width, height,
		make([]byte, 40), uint32(2), make([]byte, 18), uint32(4),
		UTF8("trailing"),
	)
	return Chunk("DATA", "SDSC", 1, body)
}
