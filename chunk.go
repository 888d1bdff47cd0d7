package recfile

import (
	"errors"
)

// ChunkHeader is the header common to every chunk.
type ChunkHeader struct {
	// Kind is either "FOLD" or "DATA".
	Kind string

	// Type distinguishes chunks of the same kind, such as "SDSC".
	Type string

	Version uint32

	// Length is the size of the chunk's body in bytes.
	Length uint32

	// NameLength is read from every chunk, but no known chunk is followed by
	// a name.
	NameLength uint32

	MinVersion uint32
	Flags      uint32
}

// Tag returns the kind and type of the chunk as a single string, such as
// "DATASDSC".
func (h ChunkHeader) Tag() string {
	return h.Kind + h.Type
}

// Node is a chunk within a Chunky container. The set of implementations is
// closed: Folder, MapDescriptor, SimpleMatchData, ComplexMatchData and
// PlacedAssets.
type Node interface {
	// Header returns the header of the chunk.
	Header() ChunkHeader

	// Children returns the nodes contained by the chunk. Only folders have
	// children.
	Children() []Node

	node()
}

////////////////////////////////////////////////////////////////

// Folder is a chunk that contains other chunks.
type Folder struct {
	ChunkHeader

	// Nodes is the sequence of chunks contained by the folder.
	Nodes []Node
}

func (c Folder) Header() ChunkHeader { return c.ChunkHeader }
func (c Folder) Children() []Node    { return c.Nodes }
func (Folder) node()                 {}

////////////////////////////////////////////////////////////////

// MapDescriptor is a "DATASDSC" chunk, which describes the map the match was
// played on.
//
// Most numeric fields and byte blocks are not understood. They are retained
// as read.
type MapDescriptor struct {
	ChunkHeader

	Unknown1 uint32 // 0x0
	Unknown2 uint32 // 0x0
	Unknown3 uint32 // 1 or 2
	Unknown4 uint32 // 0x3
	Unknown5 uint32 // 0x0
	Unknown6 uint32 // 0x0
	Unknown7 uint32 // 0x0

	// MapFile is the path of the map within the game's archives.
	MapFile string

	// UnknownData1 possibly relates to starting positions.
	UnknownData1 [16]byte

	MapName          string
	LongDescription  string
	ShortDescription string

	MapPlayers uint32
	MapWidth   uint32
	MapHeight  uint32

	UnknownData2 [40]byte
	Unknown8     uint32 // 0x2
	UnknownData3 [18]byte
	Unknown9     uint32 // 0x4

	// Trailing is a string of unknown purpose at the end of the chunk.
	Trailing string
}

func (c MapDescriptor) Header() ChunkHeader { return c.ChunkHeader }
func (MapDescriptor) Children() []Node      { return nil }
func (MapDescriptor) node()                 {}

////////////////////////////////////////////////////////////////

// SimpleMatchData is a version 1 "DATADATA" chunk. Its content is not
// understood.
type SimpleMatchData struct {
	ChunkHeader

	// Data is the body of the chunk, Length bytes long.
	Data []byte
}

func (c SimpleMatchData) Header() ChunkHeader { return c.ChunkHeader }
func (SimpleMatchData) Children() []Node      { return nil }
func (SimpleMatchData) node()                 {}

// ComplexMatchData is a "DATADATA" chunk of any version other than 1. It
// contains the player roster of the match.
type ComplexMatchData struct {
	ChunkHeader

	OpponentType uint32
	Unknown1     uint32 // 0 or 1
	Unknown2     uint32 // 0x0
	Unknown3     uint16 // 0x0

	// RNGSeed is the seed of the match's random number generator.
	RNGSeed uint32

	Players []Player
}

func (c ComplexMatchData) Header() ChunkHeader { return c.ChunkHeader }
func (ComplexMatchData) Children() []Node      { return nil }
func (ComplexMatchData) node()                 {}

////////////////////////////////////////////////////////////////

// ErrNotDecodable indicates that the structure of a chunk is not known.
var ErrNotDecodable = errors.New("chunk structure is not known")

// PlacedAssets is a "DATAPLAS" chunk. The layout of its body has not been
// worked out, so only the header and the raw body are available.
type PlacedAssets struct {
	ChunkHeader

	// Data is the raw body of the chunk.
	Data []byte
}

func (c PlacedAssets) Header() ChunkHeader { return c.ChunkHeader }
func (PlacedAssets) Children() []Node      { return nil }
func (PlacedAssets) node()                 {}

// Asset is an entry of a PlacedAssets chunk. Its fields are not known.
type Asset struct{}

// Assets returns the assets placed by the chunk. It always returns
// ErrNotDecodable.
func (c PlacedAssets) Assets() ([]Asset, error) {
	return nil, ErrNotDecodable
}
